package ticket

import (
	"context"

	"github.com/gi8lino/jiracloud/jira"
)

// RawTicket gives eager access to the development and change notes descriptions
// of an issue loaded with expand=renderedFields. Images are loaded by LoadImages.
type RawTicket struct {
	issue *jira.Issue

	DevelopmentDescription *StaticDocField
	ChangeNotesDescription *StaticDocField
}

// NewRawTicket resolves the description fields of issue.
func NewRawTicket(issue *jira.Issue) *RawTicket {
	return &RawTicket{
		issue:                  issue,
		DevelopmentDescription: NewStaticDocField(issue, FieldDevelopmentDescription),
		ChangeNotesDescription: NewStaticDocField(issue, FieldChangeNotesDescription),
	}
}

// RawTicketFieldNames are the fields a RawTicket query must request.
func RawTicketFieldNames() []string {
	return []string{FieldDevelopmentDescription, FieldChangeNotesTitle, FieldChangeNotesDescription}
}

// LoadRawTickets runs jql with the rendered fields a RawTicket needs.
func LoadRawTickets(ctx context.Context, c *jira.Client, jql string) ([]*RawTicket, error) {
	return jira.LoadAll(ctx, c, jql, renderedSearch(RawTicketFieldNames()), NewRawTicket)
}

// Issue returns the underlying issue.
func (t *RawTicket) Issue() *jira.Issue { return t.issue }

// LoadImages downloads the images of both descriptions.
func (t *RawTicket) LoadImages(ctx context.Context) error {
	if err := t.DevelopmentDescription.LoadImages(ctx); err != nil {
		return err
	}
	return t.ChangeNotesDescription.LoadImages(ctx)
}

// RawRNTicket gives eager access to the release note fields of an issue loaded
// with expand=renderedFields.
type RawRNTicket struct {
	issue *jira.Issue

	Summary StaticDocFieldML
	Details StaticDocFieldML
}

// NewRawRNTicket resolves the release note fields of issue.
func NewRawRNTicket(issue *jira.Issue) *RawRNTicket {
	return &RawRNTicket{
		issue:   issue,
		Summary: newStaticDocFieldML(issue, FieldSummaryDE, FieldSummaryEN),
		Details: newStaticDocFieldML(issue, FieldDetailsDE, FieldDetailsEN),
	}
}

// RawRNTicketFieldNames are the fields a RawRNTicket query must request.
func RawRNTicketFieldNames() []string {
	return []string{
		FieldTitleDE, FieldTitleEN,
		FieldSummaryDE, FieldSummaryEN,
		FieldDetailsDE, FieldDetailsEN,
	}
}

// LoadRawRNTickets runs jql with the rendered fields a RawRNTicket needs.
func LoadRawRNTickets(ctx context.Context, c *jira.Client, jql string) ([]*RawRNTicket, error) {
	return jira.LoadAll(ctx, c, jql, renderedSearch(RawRNTicketFieldNames()), NewRawRNTicket)
}

// Issue returns the underlying issue.
func (t *RawRNTicket) Issue() *jira.Issue { return t.issue }

// Title returns the release note title in lang.
func (t *RawRNTicket) Title(lang Lang) (string, error) {
	id, err := pick(lang, FieldTitleDE, FieldTitleEN)
	if err != nil {
		return "", err
	}
	return t.issue.Text(fieldPointer(id)), nil
}

// DevelopmentDescription resolves the development description.
func (t *RawRNTicket) DevelopmentDescription() *StaticDocField {
	return NewStaticDocField(t.issue, FieldDevelopmentDescription)
}

// LoadImages downloads the summary and details images of the given languages,
// or of all languages when none is given.
func (t *RawRNTicket) LoadImages(ctx context.Context, langs ...Lang) error {
	if len(langs) == 0 {
		langs = Langs
	}
	for _, lang := range langs {
		for _, ml := range []StaticDocFieldML{t.Summary, t.Details} {
			f, err := ml.Get(lang)
			if err != nil {
				return err
			}
			if err := f.LoadImages(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderedSearch requests the navigable fields plus names, with rendered HTML.
func renderedSearch(names []string) jira.SearchOptions {
	return jira.SearchOptions{
		Fields: append([]string{"*navigable"}, names...),
		Expand: []string{"renderedFields"},
	}
}
