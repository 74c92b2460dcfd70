package config

import "time"

// Config is the CLI configuration file.
type Config struct {
	Customer      string        `yaml:"customer"`      // site name: {customer}.atlassian.net
	Email         string        `yaml:"email"`         // account mail for basic auth
	Token         string        `yaml:"token"`         // API token; may be a resolver reference
	Timeout       time.Duration `yaml:"timeout"`       // per-request timeout, 0 = client default
	SkipTLSVerify bool          `yaml:"skipTLSVerify"` // disable certificate verification
	BaseURL       string        `yaml:"baseURL"`       // replaces https://{customer}.atlassian.net, e.g. for a proxy

	// CustomerTicketField is the custom field holding the customer's ticket number.
	CustomerTicketField string `yaml:"customerTicketField,omitempty"`

	ReleaseNotes ReleaseNotes `yaml:"releaseNotes"`
}

// ReleaseNotes configures the release-notes command.
type ReleaseNotes struct {
	Template string `yaml:"template,omitempty"` // path to a text/template file; empty uses the built-in one
	Language string `yaml:"language,omitempty"` // "de" or "en", defaults to "en"
}
