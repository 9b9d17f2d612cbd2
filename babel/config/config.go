// Package config describes a pipeline deployment: the participant roster
// and the symmetric-layer options both parties must agree on out of band.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrTooFewParticipants = errors.New("config: at least two participants required")
	ErrDuplicateName      = errors.New("config: duplicate participant name")
	ErrEmptyName          = errors.New("config: empty participant name")
	ErrNegativeParity     = errors.New("config: parity shard count must not be negative")
)

// Config is the explicit construction input for a System. There is no
// ambient default instance; callers build one here and pass it in.
type Config struct {
	// AuthorityName names the certificate authority.
	AuthorityName string `yaml:"authorityName"`
	// Participants are the identities generated at startup.
	Participants []string `yaml:"participants"`
	// Compression enables LZ4 payload compression before encryption.
	// Both sides must agree on it, like every other pipeline parameter.
	Compression bool `yaml:"compression"`
	// CompressionLevel is "fast", "default", or "best".
	CompressionLevel string `yaml:"compressionLevel"`
	// ParityShards > 0 appends that many Reed-Solomon parity blocks to
	// each package; 0 disables armoring.
	ParityShards int `yaml:"parityShards"`
}

// Default returns a two-party demo configuration.
func Default() Config {
	return Config{
		AuthorityName: "BabelCA",
		Participants:  []string{"Alice", "Bob"},
	}
}

// Load reads a YAML config from path and validates it. Fields left unset
// fall back to Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.AuthorityName == "" {
		cfg.AuthorityName = Default().AuthorityName
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks roster and option constraints.
func (c Config) Validate() error {
	if len(c.Participants) < 2 {
		return ErrTooFewParticipants
	}
	seen := make(map[string]struct{}, len(c.Participants))
	for _, name := range c.Participants {
		if name == "" {
			return ErrEmptyName
		}
		if _, ok := seen[name]; ok {
			return ErrDuplicateName
		}
		seen[name] = struct{}{}
	}
	if c.ParityShards < 0 {
		return ErrNegativeParity
	}
	return nil
}
