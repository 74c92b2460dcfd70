package flag

import (
	"io"
	"strings"

	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/jiracloud/internal/logging"
	"github.com/gi8lino/jiracloud/jira"
	"github.com/gi8lino/jiracloud/ticket"
)

// Commands lists the operations selectable with --command.
var Commands = []string{
	"search",
	"history",
	"fix-versions",
	"set-fix-versions",
	"create-version",
	"versions",
	"options",
	"release-notes",
	"releases",
	"release-version",
	"set-features",
	"images",
	"pages",
}

// Config holds the parsed command line.
type Config struct {
	Debug     bool              // Enables debug logging
	LogFormat logging.LogFormat // Log output format (text or json)
	Config    string            // Path to config file
	EnvFile   string            // Optional .env file loaded before the config is resolved

	Command  string   // Operation to run
	Key      string   // Ticket number or project prefix ("XDEV-4711", "XDEV-")
	JQL      string   // Query for search
	Versions []string // Fix versions for set-fix-versions
	Name     string   // Version name for create-version
	Field    string   // Custom field ID for options
	Context  string   // Field context ID for options
	Sorted   bool     // Sort options by value
	Page     string   // Release page ID for release-notes, Confluence URL for pages
	Lang     string   // Release note language, overrides the config
	Features []string // Feature numbers for set-features
	OutDir   string   // Target directory for images
}

// ParseArgs parses CLI arguments into Config, handling version/help flags.
func ParseArgs(version string, args []string, out io.Writer, getEnv func(string) string) (Config, error) {
	var cfg Config
	tf := tinyflags.NewFlagSet("jiracloud", tinyflags.ContinueOnError)
	tf.Version(version)
	tf.SetGetEnvFn(getEnv)
	tf.EnvPrefix("JIRACLOUD")
	tf.SetOutput(out)

	// Files
	tf.StringVar(&cfg.Config, "config", "config.yaml", "Path to config file").Value()
	tf.StringVar(&cfg.EnvFile, "env-file", "", "Path to a .env file with secrets").Placeholder("PATH").Value()

	// Command
	command := tf.String("command", "search", "Operation to run").
		Choices(Commands...).
		Short("c").
		Value()
	tf.StringVar(&cfg.Key, "key", "", "Ticket number or project prefix").
		Finalize(strings.TrimSpace).
		Placeholder("KEY").
		Value()
	tf.StringVar(&cfg.JQL, "jql", "", "JQL query").Value()
	versions := tf.String("versions", "", "Comma separated fix versions").Placeholder("V1,V2").Value()
	tf.StringVar(&cfg.Name, "name", "", "Version name").Value()
	tf.StringVar(&cfg.Field, "field", jira.FieldFeaturesID, "Custom field ID").Value()
	tf.StringVar(&cfg.Context, "context", ticket.FeaturesContext, "Custom field context ID").Value()
	tf.BoolVar(&cfg.Sorted, "sorted", false, "Sort field options by value").Value()
	tf.StringVar(&cfg.Page, "page", "", "Release page ID or Confluence page URL").Value()
	tf.StringVar(&cfg.Lang, "lang", "", "Release note language (de or en)").Value()
	features := tf.String("features", "", "Comma separated feature numbers").Placeholder("F1,F2").Value()
	tf.StringVar(&cfg.OutDir, "out", ".", "Directory images are saved to").Placeholder("DIR").Value()

	// Logging
	tf.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Short("l").Value()

	// Parse
	if err := tf.Parse(args); err != nil {
		return Config{}, err
	}

	// Post-parse
	cfg.LogFormat = logging.LogFormat(*logFormat)
	cfg.Command = *command
	cfg.Versions = splitList(*versions)
	cfg.Features = splitList(*features)

	return cfg, nil
}

// splitList splits a comma separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
