package render

import (
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// FuncMap returns the sprig text functions plus the Jira helpers.
func FuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["formatJiraDate"] = formatJiraDate
	fm["sortKey"] = ticketSortKey
	return fm
}

// formatJiraDate parses a Jira timestamp and returns it formatted using the provided layout.
// If parsing fails, the original string is returned.
func formatJiraDate(input, layout string) string {
	input = strings.Replace(input, "Z", "+0000", 1) // normalize timezone
	parsed, err := time.Parse("2006-01-02T15:04:05.000-0700", input)
	if err != nil {
		return input
	}
	return parsed.Format(layout)
}
