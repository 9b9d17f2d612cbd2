// Package ca implements a miniature certificate authority that binds
// participant names to X25519 public keys with Ed25519 signatures.
//
// Certificates carry no expiry or revocation. That is a deliberate
// limitation of this demonstration design, not an oversight; do not reuse
// this package as a general PKI.
package ca

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"errors"

	"github.com/towerofbabel/babel/babel/identity"
)

var (
	ErrInvalidCertificate = errors.New("ca: certificate signature does not verify")
	ErrEmptySubject       = errors.New("ca: empty subject name")
	ErrInvalidSubjectKey  = errors.New("ca: invalid subject public key size")
)

// Certificate is a signed binding of a participant name to a public key.
// Immutable after issuance.
type Certificate struct {
	SubjectName      string
	SubjectPublicKey []byte
	IssuerName       string
	Signature        []byte
}

// VerifiedCertificate wraps a certificate whose signature has been checked
// against the issuing authority. It can only be obtained through
// Authority.Verify, so key agreement cannot be handed an unverified binding.
type VerifiedCertificate struct {
	cert Certificate
}

func (v VerifiedCertificate) SubjectName() string { return v.cert.SubjectName }

// SubjectPublicKey returns the certified public key as a fixed-size array.
func (v VerifiedCertificate) SubjectPublicKey() [32]byte {
	var pub [32]byte
	copy(pub[:], v.cert.SubjectPublicKey)
	return pub
}

// Authority issues and verifies certificates. Its signing key is generated
// once at construction and never leaves the authority.
type Authority struct {
	name    string
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

// NewAuthority creates an authority with a fresh Ed25519 signing pair.
func NewAuthority(name string) (*Authority, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Authority{name: name, public: pub, private: priv}, nil
}

func (a *Authority) Name() string { return a.name }

// PublicKey returns the authority's verification key.
func (a *Authority) PublicKey() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), a.public...)
}

// signingBytes is the canonical payload covered by the certificate
// signature. Name fields are length-prefixed so no two distinct
// (subject, key) bindings canonicalize to the same bytes.
func signingBytes(subject, issuer string, pub []byte) []byte {
	var b bytes.Buffer
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(subject)))
	b.Write(l[:])
	b.WriteString(subject)
	binary.BigEndian.PutUint16(l[:], uint16(len(issuer)))
	b.Write(l[:])
	b.WriteString(issuer)
	b.Write(pub)
	return b.Bytes()
}

// Issue signs a binding of name to publicKey.
func (a *Authority) Issue(name string, publicKey []byte) (Certificate, error) {
	if name == "" {
		return Certificate{}, ErrEmptySubject
	}
	if len(publicKey) != identity.PublicKeySize {
		return Certificate{}, ErrInvalidSubjectKey
	}
	pub := append([]byte(nil), publicKey...)
	sig := ed25519.Sign(a.private, signingBytes(name, a.name, pub))
	return Certificate{
		SubjectName:      name,
		SubjectPublicKey: pub,
		IssuerName:       a.name,
		Signature:        sig,
	}, nil
}

// Verify checks cert against the authority's public key. Any mismatch in
// subject, key bytes, issuer, or signature fails with ErrInvalidCertificate.
func (a *Authority) Verify(cert Certificate) (VerifiedCertificate, error) {
	if len(cert.SubjectPublicKey) != identity.PublicKeySize {
		return VerifiedCertificate{}, ErrInvalidCertificate
	}
	payload := signingBytes(cert.SubjectName, cert.IssuerName, cert.SubjectPublicKey)
	if cert.IssuerName != a.name || !ed25519.Verify(a.public, payload, cert.Signature) {
		return VerifiedCertificate{}, ErrInvalidCertificate
	}
	verified := cert
	verified.SubjectPublicKey = append([]byte(nil), cert.SubjectPublicKey...)
	verified.Signature = append([]byte(nil), cert.Signature...)
	return VerifiedCertificate{cert: verified}, nil
}
