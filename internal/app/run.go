package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gi8lino/jiracloud/internal/config"
	"github.com/gi8lino/jiracloud/internal/credential"
	"github.com/gi8lino/jiracloud/internal/flag"
	"github.com/gi8lino/jiracloud/internal/logging"
	"github.com/gi8lino/jiracloud/internal/utils"
	"github.com/gi8lino/jiracloud/jira"

	"github.com/containeroo/tinyflags"
	"github.com/joho/godotenv"
)

// Run parses the command line, builds the Jira client and runs the selected command.
// Command results and usage go to w, log records go to diag.
func Run(ctx context.Context, version string, args []string, w, diag io.Writer, getEnv func(string) string) error {
	// Create a new context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Parse command-line flags
	flags, err := flag.ParseArgs(version, args, w, getEnv)
	if err != nil {
		if tinyflags.IsHelpRequested(err) || tinyflags.IsVersionRequested(err) {
			fmt.Fprint(w, err.Error()) // nolint:errcheck
			return nil
		}
		return fmt.Errorf("parsing error: %w", err)
	}

	// Setup logger
	logger := logging.SetupLogger(flags.LogFormat, flags.Debug, diag)

	logger.Debug("Starting jiracloud",
		"version", version,
		"command", flags.Command,
	)

	// Secrets referenced as env: in the config may live in a .env file
	if flags.EnvFile != "" {
		if err := godotenv.Load(flags.EnvFile); err != nil {
			return fmt.Errorf("loading env file error: %w", err)
		}
	}

	// Load config
	cfg, err := config.LoadConfig(flags.Config)
	if err != nil {
		return fmt.Errorf("loading config error: %w", err)
	}
	var secrets config.SecretGetter
	if config.UsesKeyring(cfg) {
		store, err := credential.Open()
		if err != nil {
			return fmt.Errorf("resolving config error: %w", err)
		}
		secrets = store
	}
	if err := config.ResolveSecrets(&cfg, secrets); err != nil {
		return fmt.Errorf("resolving config error: %w", err)
	}
	if err := config.ValidateConfig(&cfg); err != nil {
		return fmt.Errorf("validating config error: %w", err)
	}

	// Setup jira client
	c, err := newClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating client error: %w", err)
	}

	logger.Debug("jira auth",
		"site", c.BaseURL.String(),
		"header", utils.ObfuscatedAuth(c.Auth()),
	)

	cmd := &command{client: c, cfg: cfg, flags: flags, out: w, logger: logger}
	return cmd.run(ctx)
}

// newClient builds the Jira client described by cfg.
func newClient(cfg config.Config, logger *slog.Logger) (*jira.Client, error) {
	opts := []jira.Option{
		jira.WithLogger(logger),
		jira.WithTimeout(cfg.Timeout),
		jira.WithSkipTLSVerify(cfg.SkipTLSVerify),
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, jira.WithBaseURL(u))
	}
	return jira.NewClient(cfg.Customer, cfg.Email, cfg.Token, opts...)
}
