package identity

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/curve25519"
)

// PublicKeySize is the length of an exported public key in bytes.
const PublicKeySize = 32

var ErrInvalidKeySize = errors.New("identity: invalid X25519 key size")

// KeyPair holds a participant's X25519 keypair.
// The private scalar stays in process memory and is never serialized.
type KeyPair struct {
	PublicKey  [32]byte
	PrivateKey [32]byte
}

// GenerateKeyPair generates a new X25519 keypair.
func GenerateKeyPair() (KeyPair, error) {
	var kp KeyPair
	if _, err := io.ReadFull(rand.Reader, kp.PrivateKey[:]); err != nil {
		return KeyPair{}, err
	}
	// Clamp private key per RFC 7748
	kp.PrivateKey[0] &= 248
	kp.PrivateKey[31] &= 127
	kp.PrivateKey[31] |= 64

	curve25519.ScalarBaseMult(&kp.PublicKey, &kp.PrivateKey)
	return kp, nil
}

// NewKeyPair reconstructs a keypair from raw scalar and point bytes.
func NewKeyPair(publicKey, privateKey []byte) (KeyPair, error) {
	if len(publicKey) != PublicKeySize || len(privateKey) != 32 {
		return KeyPair{}, ErrInvalidKeySize
	}
	var kp KeyPair
	copy(kp.PublicKey[:], publicKey)
	copy(kp.PrivateKey[:], privateKey)
	return kp, nil
}

// PublicKeyBytes returns the fixed-length exported form of the public key.
func (kp KeyPair) PublicKeyBytes() []byte {
	out := make([]byte, PublicKeySize)
	copy(out, kp.PublicKey[:])
	return out
}

// Identity is a named participant with its own keypair.
// Created once at system start; the private key never leaves it.
type Identity struct {
	Name string
	Keys KeyPair
}

// NewIdentity generates a fresh identity for the given name.
func NewIdentity(name string) (*Identity, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	kp, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Identity{Name: name, Keys: kp}, nil
}
