// Package pipeline composes certificate verification, key agreement, key
// derivation, block encryption, and block permutation into the two
// message operations, Encrypt and Decrypt.
//
// Every stage failure is terminal for that call. Nothing is retried and
// no partial result escapes; the CA trust root and all identity keys stay
// valid after a failed call.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/towerofbabel/babel/babel/armor"
	"github.com/towerofbabel/babel/babel/ca"
	"github.com/towerofbabel/babel/babel/crypto"
	"github.com/towerofbabel/babel/babel/identity"
	"github.com/towerofbabel/babel/babel/payload"
)

var (
	ErrNoCertificate = errors.New("pipeline: no certificate for participant")
	ErrBlockSize     = errors.New("pipeline: package block size does not match cipher")
	ErrNilPackage    = errors.New("pipeline: nil package")
)

// EncryptedPackage is the wire shape of one encrypted message: the IV and
// the already-permuted ciphertext blocks. The block permutation is a pure
// function of (key, iv, block count) and is never carried in the package.
// Parity is only populated when the pipeline is armored.
type EncryptedPackage struct {
	IV        []byte
	Blocks    [][]byte
	BlockSize int
	Parity    [][]byte
}

// Options are the symmetric-layer parameters both parties must share.
type Options struct {
	Compression      bool
	CompressionLevel payload.Level
	ParityShards     int
}

// Pipeline binds a CA trust root, an identity registry, and the issued
// certificates. All fields are set at construction and read-only after,
// so concurrent Encrypt/Decrypt calls need no coordination.
type Pipeline struct {
	authority *ca.Authority
	registry  *identity.Registry
	certs     map[string]ca.Certificate
	opts      Options
	codec     *armor.Codec
}

// New builds a pipeline. certs maps participant names to CA-issued
// certificates; each one is still verified on every use.
func New(authority *ca.Authority, registry *identity.Registry, certs map[string]ca.Certificate, opts Options) (*Pipeline, error) {
	p := &Pipeline{
		authority: authority,
		registry:  registry,
		certs:     certs,
		opts:      opts,
	}
	if opts.ParityShards > 0 {
		codec, err := armor.NewCodec(opts.ParityShards)
		if err != nil {
			return nil, err
		}
		p.codec = codec
	}
	return p, nil
}

// verifiedPeer looks up and verifies a peer's certificate. A failed
// verification means agreement must not proceed, so the error carries
// both the trust-gate sentinel and the verification cause.
func (p *Pipeline) verifiedPeer(name string) (ca.VerifiedCertificate, error) {
	cert, ok := p.certs[name]
	if !ok {
		return ca.VerifiedCertificate{}, fmt.Errorf("%w: %s", ErrNoCertificate, name)
	}
	verified, err := p.authority.Verify(cert)
	if err != nil {
		return ca.VerifiedCertificate{}, fmt.Errorf("pipeline: %s certificate rejected: %w: %w", name, crypto.ErrUntrustedKey, err)
	}
	return verified, nil
}

// messageKey runs agreement and derivation for one message direction.
// self is the local party; the sender/recipient names and keys are always
// ordered by the original message direction, whichever side derives.
func (p *Pipeline) messageKey(self *identity.Identity, peer ca.VerifiedCertificate, senderName, recipientName string, senderPub, recipientPub [32]byte) ([]byte, error) {
	secret, err := crypto.Agree(self.Keys.PrivateKey, peer)
	if err != nil {
		return nil, err
	}
	return crypto.DeriveKey(secret, senderName, recipientName, senderPub, recipientPub)
}

// Encrypt encrypts message from sender to recipient and returns the
// permuted package.
func (p *Pipeline) Encrypt(sender, recipient string, message []byte) (*EncryptedPackage, error) {
	from, err := p.registry.Get(sender)
	if err != nil {
		return nil, err
	}
	peer, err := p.verifiedPeer(recipient)
	if err != nil {
		return nil, err
	}

	key, err := p.messageKey(from, peer, sender, recipient, from.Keys.PublicKey, peer.SubjectPublicKey())
	if err != nil {
		return nil, err
	}

	plaintext := message
	if p.opts.Compression {
		plaintext, err = payload.Compress(message, p.opts.CompressionLevel)
		if err != nil {
			return nil, err
		}
	}

	iv, blocks, err := crypto.Encrypt(key, plaintext)
	if err != nil {
		return nil, err
	}
	permuted := crypto.Permute(key, iv, blocks)

	pkg := &EncryptedPackage{
		IV:        iv,
		Blocks:    permuted,
		BlockSize: crypto.BlockSize,
	}
	if p.codec != nil {
		parity, err := p.codec.Protect(permuted)
		if err != nil {
			return nil, err
		}
		pkg.Parity = parity
	}
	return pkg, nil
}

// Decrypt recovers the message of pkg, sent by sender to recipient. The
// key is derived with the original direction: sender stays the sender
// even though the recipient is the one deriving.
func (p *Pipeline) Decrypt(recipient, sender string, pkg *EncryptedPackage) ([]byte, error) {
	if pkg == nil {
		return nil, ErrNilPackage
	}
	if pkg.BlockSize != crypto.BlockSize {
		return nil, ErrBlockSize
	}

	to, err := p.registry.Get(recipient)
	if err != nil {
		return nil, err
	}
	peer, err := p.verifiedPeer(sender)
	if err != nil {
		return nil, err
	}

	key, err := p.messageKey(to, peer, sender, recipient, peer.SubjectPublicKey(), to.Keys.PublicKey)
	if err != nil {
		return nil, err
	}

	blocks := make([][]byte, len(pkg.Blocks))
	copy(blocks, pkg.Blocks)
	if p.codec != nil && len(pkg.Parity) > 0 {
		if err := p.codec.Recover(blocks, pkg.Parity); err != nil {
			return nil, err
		}
	}

	restored := crypto.Invert(key, pkg.IV, blocks)
	plaintext, err := crypto.Decrypt(key, pkg.IV, restored)
	if err != nil {
		return nil, err
	}

	if p.opts.Compression {
		plaintext, err = payload.Decompress(plaintext)
		if err != nil {
			return nil, err
		}
	}
	return plaintext, nil
}

// Certificate returns the issued certificate for a participant.
func (p *Pipeline) Certificate(name string) (ca.Certificate, error) {
	cert, ok := p.certs[name]
	if !ok {
		return ca.Certificate{}, fmt.Errorf("%w: %s", ErrNoCertificate, name)
	}
	return cert, nil
}
