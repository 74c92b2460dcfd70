package ticket

import (
	"context"
	"fmt"
	"strings"

	"github.com/gi8lino/jiracloud/jira"
)

// releasePageIDLen is the length of a release page ID, which is a timestamp
// such as "2024-03-11T15:13:11.3+0000".
const releasePageIDLen = len("2024-03-11T15:13:11.3+0000")

// ReleaseTicket is an issue of type "Release".
type ReleaseTicket struct {
	issue *jira.Issue
}

// NewReleaseTicket wraps issue.
func NewReleaseTicket(issue *jira.Issue) *ReleaseTicket { return &ReleaseTicket{issue: issue} }

// LoadReleaseTickets loads all release tickets of project.
func LoadReleaseTickets(ctx context.Context, c *jira.Client, project string) ([]*ReleaseTicket, error) {
	jql := fmt.Sprintf("issuetype=%q and project=%q", "Release", project)
	return jira.LoadAll(ctx, c, jql, jira.SearchOptions{}, NewReleaseTicket)
}

// Issue returns the underlying issue.
func (t *ReleaseTicket) Issue() *jira.Issue { return t.issue }

// Key returns the ticket number.
func (t *ReleaseTicket) Key() string { return t.issue.Key() }

// PageID returns the release page ID, or "".
func (t *ReleaseTicket) PageID() string { return t.issue.Text(fieldPointer(FieldReleasePageID)) }

// TargetVersion returns the name of the target version, or "".
func (t *ReleaseTicket) TargetVersion() string {
	return t.issue.Text(fieldPointer(FieldTargetVersion) + "/name")
}

// IsRelevant reports whether the ticket has a target version and a well-formed page ID.
// A target version with a blank name still counts.
func (t *ReleaseTicket) IsRelevant() bool {
	id := t.PageID()
	if _, p := t.issue.Get(fieldPointer(FieldTargetVersion) + "/name").String(); p != jira.Present {
		return false
	}
	return len(id) == releasePageIDLen && strings.Contains(id, "T")
}
