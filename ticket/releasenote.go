package ticket

import (
	"context"
	"fmt"

	"github.com/gi8lino/jiracloud/jira"
)

// LinkReleaseFor is the outward name of the link from a release note ticket to
// the ticket it documents.
const LinkReleaseFor = "release for"

// ReleaseNoteTicket is an issue of type "Release note ticket".
type ReleaseNoteTicket struct {
	issue *jira.Issue

	// CustomerTicketNumber is filled by ResolveCustomerTicketNumber.
	CustomerTicketNumber string
	// SortKey orders release notes; it starts as MakeSortKey of the documented ticket.
	SortKey string
}

// NewReleaseNoteTicket wraps issue.
func NewReleaseNoteTicket(issue *jira.Issue) *ReleaseNoteTicket {
	t := &ReleaseNoteTicket{issue: issue}
	key := t.ReleaseFor()
	if key == "" {
		key = t.Key()
	}
	t.SortKey = MakeSortKey(key)
	return t
}

// LoadReleaseNoteTickets loads all release note tickets of a release page.
func LoadReleaseNoteTickets(ctx context.Context, c *jira.Client, pageID string) ([]*ReleaseNoteTicket, error) {
	jql := fmt.Sprintf(`issuetype="Release note ticket" AND "Release note page Ids[Labels]" in (%q)`, pageID)
	return jira.LoadAll(ctx, c, jql, jira.SearchOptions{}, NewReleaseNoteTicket)
}

// Issue returns the underlying issue.
func (t *ReleaseNoteTicket) Issue() *jira.Issue { return t.issue }

// Key returns the ticket number.
func (t *ReleaseNoteTicket) Key() string { return t.issue.Key() }

// Title returns the release note title in lang.
func (t *ReleaseNoteTicket) Title(lang Lang) (string, error) {
	id, err := pick(lang, FieldTitleDE, FieldTitleEN)
	if err != nil {
		return "", err
	}
	return t.issue.Text(fieldPointer(id)), nil
}

// Summary returns the release note summary.
func (t *ReleaseNoteTicket) Summary() DocFieldML {
	return NewDocFieldML(t.issue, FieldSummaryDE, FieldSummaryEN)
}

// Details returns the release note details.
func (t *ReleaseNoteTicket) Details() DocFieldML {
	return NewDocFieldML(t.issue, FieldDetailsDE, FieldDetailsEN)
}

// ReleaseFor returns the first ticket linked as "release for", or "".
func (t *ReleaseNoteTicket) ReleaseFor() string {
	keys := t.issue.LinkedOutwardIssues(LinkReleaseFor)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// LinkedTicketType returns the issue type of the ReleaseFor ticket.
// Any failure yields "".
func (t *ReleaseNoteTicket) LinkedTicketType(ctx context.Context) string {
	key := t.ReleaseFor()
	c := t.issue.Client()
	if key == "" || c == nil {
		return ""
	}
	linked, err := c.LoadTicket(jira.BestEffort(ctx), key)
	if err != nil {
		return ""
	}
	return linked.IssueType
}

// ResolveCustomerTicketNumber reads fieldID of the ReleaseFor ticket into
// CustomerTicketNumber and returns it. Any failure yields "".
func (t *ReleaseNoteTicket) ResolveCustomerTicketNumber(ctx context.Context, fieldID string) string {
	t.CustomerTicketNumber = ""

	key := t.ReleaseFor()
	c := t.issue.Client()
	if key == "" || c == nil || fieldID == "" {
		return ""
	}
	page, err := c.SearchPage(jira.BestEffort(ctx), fmt.Sprintf("issue=%q", key), jira.SearchOptions{Fields: []string{fieldID}}, 0, 1)
	if err != nil || len(page.Issues) != 1 {
		return ""
	}
	if v, ok := page.Issues[0].TextNonEmpty(fieldPointer(fieldID)); ok {
		t.CustomerTicketNumber = v
	}
	return t.CustomerTicketNumber
}
