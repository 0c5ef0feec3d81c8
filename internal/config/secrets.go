package config

import "github.com/nvoss/hearth/internal/domain"

// Secrets is the configuration-backed credential provider. It is built once
// at startup and read-only afterwards, so request handling never touches the
// process environment.
type Secrets struct {
	values map[string]string
}

// NewSecrets creates a credential provider from the loaded configuration.
func NewSecrets(cfg *Config) *Secrets {
	return &Secrets{
		values: map[string]string{
			domain.SecretPrimary:      cfg.Gateway.PrimaryAPIKey,
			domain.SecretLegacy:       cfg.Gateway.LegacyAPIKey,
			domain.SecretReplicate:    cfg.Replicate.APIToken,
			domain.SecretToolPassword: cfg.Tool.Password,
		},
	}
}

// Secret returns the named secret, or "" when it is not configured.
func (s *Secrets) Secret(name string) string {
	return s.values[name]
}
