// Package babel implements a certificate-mediated hybrid encryption
// pipeline for pairwise messaging between named participants.
//
// The pipeline composes:
//   - a miniature certificate authority binding names to X25519 keys
//   - X25519 key agreement, gated on certificate verification
//   - HKDF-SHA256 key derivation bound to the message direction
//   - AES-256-CBC with PKCS#7 padding
//   - a keyed, recomputable permutation of the ciphertext blocks
//
// It is a demonstration of protocol composition, not a production
// system: certificates never expire, the symmetric layer carries no MAC,
// and the block permutation is obfuscation rather than integrity
// protection.
package babel
