package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/containeroo/resolver"
	"gopkg.in/yaml.v3"

	"github.com/gi8lino/jiracloud/internal/credential"
	"github.com/gi8lino/jiracloud/ticket"
)

// LoadConfig reads the configuration file at path. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SecretGetter looks up "keyring:<key>" references.
type SecretGetter interface {
	Get(key string) (string, error)
}

// UsesKeyring reports whether any credential field is a "keyring:" reference.
func UsesKeyring(cfg Config) bool {
	return slices.ContainsFunc(credentialFields(&cfg), func(f credentialField) bool {
		return credential.IsRef(*f.val)
	})
}

// ResolveSecrets replaces resolver references ("env:NAME", "file:/path//key")
// and "keyring:<key>" references in the credential fields with their values.
// Plain values are kept. secrets may be nil when no keyring reference is used.
func ResolveSecrets(cfg *Config, secrets SecretGetter) error {
	for _, f := range credentialFields(cfg) {
		if key, ok := credential.RefKey(*f.val); ok {
			if secrets == nil {
				return fmt.Errorf("resolve %s: no keyring available for %q", f.name, *f.val)
			}
			v, err := secrets.Get(key)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", f.name, err)
			}
			*f.val = strings.TrimSpace(v)
			continue
		}

		v, err := resolver.ResolveVariable(*f.val)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f.name, err)
		}
		*f.val = strings.TrimSpace(v)
	}
	return nil
}

type credentialField struct {
	name string
	val  *string
}

func credentialFields(cfg *Config) []credentialField {
	return []credentialField{
		{"customer", &cfg.Customer},
		{"email", &cfg.Email},
		{"token", &cfg.Token},
	}
}

// ValidateConfig checks a resolved config and fills defaults.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.Customer == "" {
		errs = append(errs, "customer is required")
	}
	if !strings.Contains(cfg.Email, "@") {
		errs = append(errs, "email must contain @")
	}
	if cfg.Token == "" {
		errs = append(errs, "token is required")
	}
	if cfg.BaseURL != "" {
		if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("baseURL %q must be an absolute URL", cfg.BaseURL))
		}
	}
	if cfg.Timeout < 0 {
		errs = append(errs, "timeout must be >= 0")
	}
	if cfg.CustomerTicketField != "" && !strings.HasPrefix(cfg.CustomerTicketField, "customfield_") {
		errs = append(errs, fmt.Sprintf("customerTicketField %q must start with customfield_", cfg.CustomerTicketField))
	}

	if cfg.ReleaseNotes.Language == "" {
		cfg.ReleaseNotes.Language = string(ticket.EN)
	}
	if _, err := ticket.ParseLang(cfg.ReleaseNotes.Language); err != nil {
		errs = append(errs, "releaseNotes.language: "+err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
