package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/gi8lino/jiracloud/ticket"
)

//go:embed release-notes.tmpl
var defaultTemplate string

// Note is one rendered release note.
type Note struct {
	Key                  string
	ReleaseFor           string // documented ticket
	Type                 string // issue type of ReleaseFor
	CustomerTicketNumber string
	Title                string
	Summary              string // plain text or HTML
	Details              string // plain text or HTML
	SortKey              string
	Updated              string // Jira timestamp
}

// ReleaseNotes is the data passed to the template.
type ReleaseNotes struct {
	PageID string
	Lang   string
	Notes  []Note
}

// Renderer executes the release notes template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the template at path, or the built-in one when path is empty.
func NewRenderer(path string) (*Renderer, error) {
	name, text := "release-notes.tmpl", defaultTemplate
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		name, text = filepath.Base(path), string(data)
	}

	tmpl, err := template.New(name).Funcs(FuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the notes ordered by SortKey to w.
// Nothing is written when the template fails.
func (r *Renderer) Render(w io.Writer, data ReleaseNotes) error {
	notes := append([]Note(nil), data.Notes...)
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].SortKey < notes[j].SortKey })
	data.Notes = notes

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template error: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// ticketSortKey exposes ticket.MakeSortKey to templates.
func ticketSortKey(key string) string { return ticket.MakeSortKey(key) }
