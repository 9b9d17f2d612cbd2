package crypto

import (
	"errors"

	"golang.org/x/crypto/curve25519"

	"github.com/towerofbabel/babel/babel/ca"
)

var ErrUntrustedKey = errors.New("crypto: peer key is not trusted for agreement")

// SharedSecretSize is the length of the raw agreement output in bytes.
const SharedSecretSize = 32

// Agree computes the X25519 shared secret between the caller's private
// scalar and the peer's certified public point. The peer key must arrive as
// a ca.VerifiedCertificate, so an unverified binding cannot reach this
// point by construction.
//
// The returned 32 bytes are the raw curve output. They are never used as a
// cipher key directly; pass them to DeriveKey.
func Agree(privateKey [32]byte, peer ca.VerifiedCertificate) ([]byte, error) {
	peerPub := peer.SubjectPublicKey()

	// A certified all-zero point would silently force a zero secret.
	var zero [32]byte
	if peerPub == zero {
		return nil, ErrUntrustedKey
	}

	shared, err := curve25519.X25519(privateKey[:], peerPub[:])
	if err != nil {
		return nil, ErrUntrustedKey
	}
	return shared, nil
}
