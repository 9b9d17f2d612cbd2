package babel

import (
	"crypto/ed25519"

	"github.com/towerofbabel/babel/babel/ca"
	"github.com/towerofbabel/babel/babel/config"
	"github.com/towerofbabel/babel/babel/identity"
	"github.com/towerofbabel/babel/babel/payload"
	"github.com/towerofbabel/babel/babel/pipeline"
)

// System owns the trust root, the participant identities, and the
// pipeline built over them. It is constructed explicitly from a config
// and passed to whoever needs it; there is no ambient instance.
//
// After NewSystem returns, all state is read-only, so any number of
// Encrypt and Decrypt calls may run concurrently.
type System struct {
	authority *ca.Authority
	registry  *identity.Registry
	pipeline  *pipeline.Pipeline
}

// NewSystem generates the CA signing pair and one keypair per configured
// participant, issues every certificate, and wires the pipeline.
func NewSystem(cfg config.Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	authority, err := ca.NewAuthority(cfg.AuthorityName)
	if err != nil {
		return nil, err
	}

	registry := identity.NewRegistry()
	certs := make(map[string]ca.Certificate, len(cfg.Participants))
	for _, name := range cfg.Participants {
		id, err := identity.NewIdentity(name)
		if err != nil {
			return nil, err
		}
		if err := registry.Add(id); err != nil {
			return nil, err
		}
		cert, err := authority.Issue(name, id.Keys.PublicKeyBytes())
		if err != nil {
			return nil, err
		}
		certs[name] = cert
	}

	p, err := pipeline.New(authority, registry, certs, pipeline.Options{
		Compression:      cfg.Compression,
		CompressionLevel: payload.ParseLevel(cfg.CompressionLevel),
		ParityShards:     cfg.ParityShards,
	})
	if err != nil {
		return nil, err
	}

	return &System{
		authority: authority,
		registry:  registry,
		pipeline:  p,
	}, nil
}

// IssueCertificate signs a binding of name to publicKey with the system's
// CA. Participants created by NewSystem already hold certificates; this
// is for keys generated elsewhere.
func (s *System) IssueCertificate(name string, publicKey []byte) (ca.Certificate, error) {
	return s.authority.Issue(name, publicKey)
}

// Certificate returns the certificate issued to a configured participant.
func (s *System) Certificate(name string) (ca.Certificate, error) {
	return s.pipeline.Certificate(name)
}

// CAPublicKey returns the trust root's verification key.
func (s *System) CAPublicKey() ed25519.PublicKey {
	return s.authority.PublicKey()
}

// Encrypt encrypts message from sender to recipient.
func (s *System) Encrypt(sender, recipient string, message []byte) (*pipeline.EncryptedPackage, error) {
	return s.pipeline.Encrypt(sender, recipient, message)
}

// Decrypt recovers the message of pkg sent by sender, as recipient.
func (s *System) Decrypt(recipient, sender string, pkg *pipeline.EncryptedPackage) ([]byte, error) {
	return s.pipeline.Decrypt(recipient, sender, pkg)
}

// Participants returns the configured participant names.
func (s *System) Participants() []string {
	return s.registry.Names()
}
