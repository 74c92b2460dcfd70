package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/gi8lino/jiracloud/internal/credential"
	"github.com/gi8lino/jiracloud/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("loads valid YAML file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, `
customer: acme
email: me@example.com
token: env:JIRA_TOKEN
timeout: 15s
skipTLSVerify: true
baseURL: https://proxy.example.com
customerTicketField: customfield_10200
releaseNotes:
  template: notes.tmpl
  language: de
`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "acme", cfg.Customer)
		assert.Equal(t, "me@example.com", cfg.Email)
		assert.Equal(t, "env:JIRA_TOKEN", cfg.Token)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
		assert.True(t, cfg.SkipTLSVerify)
		assert.Equal(t, "https://proxy.example.com", cfg.BaseURL)
		assert.Equal(t, "customfield_10200", cfg.CustomerTicketField)
		assert.Equal(t, "notes.tmpl", cfg.ReleaseNotes.Template)
		assert.Equal(t, "de", cfg.ReleaseNotes.Language)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, "")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Config{}, cfg)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, "customer: acme\npassword: nope\n")

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("fails if file missing", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("does-not-exist.yaml")
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestResolveSecrets(t *testing.T) {
	t.Run("resolver references", func(t *testing.T) {
		t.Setenv("JIRACLOUD_TEST_TOKEN", " s3cr3t \n")

		cfg := Config{Customer: "acme", Email: "me@example.com", Token: "env:JIRACLOUD_TEST_TOKEN"}
		assert.False(t, UsesKeyring(cfg))
		require.NoError(t, ResolveSecrets(&cfg, nil))

		assert.Equal(t, "acme", cfg.Customer)
		assert.Equal(t, "me@example.com", cfg.Email)
		assert.Equal(t, "s3cr3t", cfg.Token)
	})

	t.Run("keyring references", func(t *testing.T) {
		ring := credential.NewStore(keyring.NewArrayKeyring([]keyring.Item{{Key: "acme/token", Data: []byte("from-ring\n")}}))

		cfg := Config{Customer: "acme", Email: "me@example.com", Token: "keyring:acme/token"}
		assert.True(t, UsesKeyring(cfg))
		require.NoError(t, ResolveSecrets(&cfg, ring))
		assert.Equal(t, "from-ring", cfg.Token)
	})

	t.Run("keyring reference without keyring", func(t *testing.T) {
		cfg := Config{Customer: "acme", Email: "me@example.com", Token: "keyring:acme/token"}
		err := ResolveSecrets(&cfg, nil)
		assert.EqualError(t, err, `resolve token: no keyring available for "keyring:acme/token"`)
	})

	t.Run("missing keyring entry", func(t *testing.T) {
		cfg := Config{Customer: "acme", Email: "me@example.com", Token: "keyring:nope"}
		err := ResolveSecrets(&cfg, credential.NewStore(keyring.NewArrayKeyring(nil)))
		assert.ErrorIs(t, err, keyring.ErrKeyNotFound)
	})
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{Customer: "acme", Email: "me@example.com", Token: "t"}
	}

	t.Run("valid config gets defaults", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		require.NoError(t, ValidateConfig(&cfg))
		assert.Equal(t, "en", cfg.ReleaseNotes.Language)
	})

	t.Run("collects all errors", func(t *testing.T) {
		t.Parallel()

		cfg := Config{
			Email:               "nope",
			Timeout:             -time.Second,
			BaseURL:             "/relative",
			CustomerTicketField: "10200",
			ReleaseNotes:        ReleaseNotes{Language: "fr"},
		}
		err := ValidateConfig(&cfg)
		require.Error(t, err)

		msg := err.Error()
		assert.Contains(t, msg, "customer is required")
		assert.Contains(t, msg, "email must contain @")
		assert.Contains(t, msg, "token is required")
		assert.Contains(t, msg, "timeout must be >= 0")
		assert.Contains(t, msg, `baseURL "/relative"`)
		assert.Contains(t, msg, `customerTicketField "10200"`)
		assert.Contains(t, msg, "releaseNotes.language")
	})
}
