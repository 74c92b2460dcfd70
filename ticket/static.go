package ticket

import (
	"context"

	"github.com/gi8lino/jiracloud/jira"
)

// StaticDocField is an ADF field resolved once from an issue that was loaded
// with expand=renderedFields, so no request is needed to read it.
type StaticDocField struct {
	PlainText bool
	Text      string        // plain text, or HTML when not PlainText
	Images    jira.ImageSet // nil when PlainText
}

// NewStaticDocField reads fieldID from issue. A missing field reads as empty plain text.
func NewStaticDocField(issue *jira.Issue, fieldID string) *StaticDocField {
	pointer := fieldPointer(fieldID)
	field := issue.Get(pointer)
	if !field.Exists() {
		return &StaticDocField{PlainText: true}
	}
	if jira.IsPlainADF(field) {
		return &StaticDocField{PlainText: true, Text: issue.Text(pointer + "/content/0/content/0/text")}
	}

	html := issue.Text("/renderedFields/" + fieldID)
	return &StaticDocField{
		Text:   html,
		Images: jira.NewImageSet(jira.ExtractImageSources(html), issue.Client()),
	}
}

// HasImages reports whether the HTML references any image.
func (f *StaticDocField) HasImages() bool { return len(f.Images) > 0 }

// LoadImages downloads every image not yet loaded.
func (f *StaticDocField) LoadImages(ctx context.Context) error {
	return f.Images.LoadAll(ctx)
}

// StaticDocFieldML is a StaticDocField per language.
type StaticDocFieldML struct {
	DE *StaticDocField
	EN *StaticDocField
}

func newStaticDocFieldML(issue *jira.Issue, deID, enID string) StaticDocFieldML {
	return StaticDocFieldML{DE: NewStaticDocField(issue, deID), EN: NewStaticDocField(issue, enID)}
}

// Get returns the field for lang.
func (m StaticDocFieldML) Get(lang Lang) (*StaticDocField, error) {
	switch lang {
	case DE:
		return m.DE, nil
	case EN:
		return m.EN, nil
	default:
		return nil, unknownLanguage(lang)
	}
}
