package ticket

import (
	"context"

	"github.com/gi8lino/jiracloud/jira"
)

// DocField is a lazily resolved ADF field. Nothing is requested until a value is read.
type DocField struct {
	pointer string
	issue   *jira.Issue
}

// NewDocField returns the DocField for a field ID of issue.
func NewDocField(issue *jira.Issue, fieldID string) DocField {
	return DocField{pointer: fieldPointer(fieldID), issue: issue}
}

// IsPlainText reports whether the field is a single paragraph with a single run.
func (f DocField) IsPlainText() (bool, error) { return f.issue.IsPlainText(f.pointer) }

// Value resolves the field, re-querying the server for rich content.
func (f DocField) Value(ctx context.Context) (jira.DocValue, error) {
	return f.issue.Doc(ctx, f.pointer)
}

// Text returns the plain text or the rendered HTML of the field.
func (f DocField) Text(ctx context.Context) (string, error) {
	v, err := f.Value(ctx)
	if err != nil {
		return "", err
	}
	return v.Value(), nil
}

// Images downloads every image referenced by the field, keyed by src.
func (f DocField) Images(ctx context.Context) (map[string][]byte, error) {
	return f.issue.Images(ctx, f.pointer)
}

// DocFieldML is a DocField per language.
type DocFieldML struct {
	de, en DocField
}

// NewDocFieldML pairs the German and English field IDs of issue.
func NewDocFieldML(issue *jira.Issue, deID, enID string) DocFieldML {
	return DocFieldML{de: NewDocField(issue, deID), en: NewDocField(issue, enID)}
}

// Get returns the field for lang.
func (m DocFieldML) Get(lang Lang) (DocField, error) {
	switch lang {
	case DE:
		return m.de, nil
	case EN:
		return m.en, nil
	default:
		return DocField{}, unknownLanguage(lang)
	}
}
