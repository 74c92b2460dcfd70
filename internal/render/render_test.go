package render

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/gi8lino/jiracloud/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatJiraDate(t *testing.T) {
	t.Parallel()

	t.Run("formats timestamps", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "2024-09-25", formatJiraDate("2024-09-25T15:03:45.400+0200", "2006-01-02"))
		assert.Equal(t, "15:03", formatJiraDate("2024-09-25T15:03:45.400Z", "15:04"))
	})

	t.Run("returns input on parse failure", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "yesterday", formatJiraDate("yesterday", "2006-01-02"))
	})
}

func TestRenderer(t *testing.T) {
	t.Parallel()

	notes := ReleaseNotes{
		PageID: "2024-03-11T15:13:11.3+0000",
		Lang:   "en",
		Notes: []Note{
			{Key: "XRN-2", ReleaseFor: "XDEV-10", Title: "Second", Summary: "b", SortKey: "XDEV-000010"},
			{Key: "XRN-1", ReleaseFor: "XDEV-9", Type: "Bug", CustomerTicketNumber: "C-1", Title: "First",
				Summary: " a ", Details: "more", SortKey: "XDEV-000009", Updated: "2024-09-25T15:03:45.400+0200"},
		},
	}

	t.Run("built-in template", func(t *testing.T) {
		t.Parallel()

		r, err := NewRenderer("")
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, notes))

		expected := "Release notes 2024-03-11T15:13:11.3+0000 (EN)\n" +
			"\n" +
			"* XRN-1 for XDEV-9 [Bug] (C-1): First\n" +
			"  updated 2024-09-25\n" +
			"  a\n" +
			"  more\n" +
			"\n" +
			"* XRN-2 for XDEV-10: Second\n" +
			"  b\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("custom template with sprig", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "notes.tmpl")
		testutils.MustWriteFile(t, path, `{{ range .Notes }}{{ .Key | lower }}={{ sortKey .ReleaseFor }};{{ end }}`)

		r, err := NewRenderer(path)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, notes))
		assert.Equal(t, "xrn-1=XDEV-000009;xrn-2=XDEV-000010;", buf.String())
	})

	t.Run("missing template file", func(t *testing.T) {
		t.Parallel()

		_, err := NewRenderer(filepath.Join(t.TempDir(), "nope.tmpl"))
		assert.ErrorContains(t, err, "read template")
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.tmpl")
		testutils.MustWriteFile(t, path, `{{ .Notes `)

		_, err := NewRenderer(path)
		assert.ErrorContains(t, err, "template parse error")
	})

	t.Run("execution error writes nothing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "exec.tmpl")
		testutils.MustWriteFile(t, path, `partial {{ .Missing }}`)

		r, err := NewRenderer(path)
		require.NoError(t, err)

		var buf bytes.Buffer
		assert.ErrorContains(t, r.Render(&buf, notes), "template error")
		assert.Empty(t, buf.String())
	})
}
