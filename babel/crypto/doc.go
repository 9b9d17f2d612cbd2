// Package crypto provides the cryptographic stages of the pipeline.
//
// Design:
//   - Key agreement via X25519, gated on a CA-verified certificate
//   - Key derivation via HKDF-SHA256, bound to a directional context
//   - AES-256-CBC with PKCS#7 padding (no MAC; a padding failure is the
//     only tamper signal, a stated limitation of the scheme)
//   - Keyed, recomputable permutation of ciphertext blocks as an
//     obfuscation layer (not integrity protection)
package crypto
