package jira

import (
	"slices"
	"strings"
)

// Well-known custom fields of the tenant schema read by the issue accessor.
const (
	FieldFeaturesID        = "10140"
	FieldFeatures          = "customfield_" + FieldFeaturesID
	FieldChangeNotesTitle  = "customfield_10173"
	FieldChangeNotesDetail = "customfield_10174"
)

// Issue is a read facade over the raw JSON of one issue.
// It keeps an explicit handle to the client it was loaded with, used for
// rich-text re-queries and image downloads.
type Issue struct {
	raw    []byte
	client *Client
}

// NewIssue wraps raw issue JSON. client may be nil for offline inspection;
// operations that need the network then fail with ErrNoClient.
func NewIssue(raw []byte, client *Client) *Issue {
	return &Issue{raw: raw, client: client}
}

// Raw returns the issue JSON.
func (i *Issue) Raw() []byte { return i.raw }

// Client returns the client the issue was loaded with.
func (i *Issue) Client() *Client { return i.client }

// Get resolves a JSON pointer against the issue.
func (i *Issue) Get(pointer string) Value { return lookup(i.raw, pointer) }

// Text returns the string at pointer, or "" if it is missing or not a string.
func (i *Issue) Text(pointer string) string {
	s, _ := i.Get(pointer).String()
	return s
}

// TextNonEmpty is like Text but reports blank strings as missing.
func (i *Issue) TextNonEmpty(pointer string) (string, bool) {
	s, p := i.Get(pointer).String()
	if p != Present || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Key returns the ticket number, e.g. "XDEV-4711".
func (i *Issue) Key() string { return i.Text("/key") }

// Title returns the summary.
func (i *Issue) Title() string { return i.Text("/fields/summary") }

// Status returns the status name, e.g. "In Progress".
func (i *Issue) Status() string { return i.Text("/fields/status/name") }

// Type returns the issue type name, e.g. "Story".
func (i *Issue) Type() string { return i.Text("/fields/issuetype/name") }

// Created returns the creation timestamp, e.g. "2024-09-25T15:03:45.400+0200".
func (i *Issue) Created() string { return i.Text("/fields/created") }

// Updated returns the timestamp of the last change.
func (i *Issue) Updated() string { return i.Text("/fields/updated") }

// Reporter returns the display name of the person who created the issue.
func (i *Issue) Reporter() string { return i.Text("/fields/reporter/displayName") }

// ChangeNotesTitle returns the change notes title field.
func (i *Issue) ChangeNotesTitle() string { return i.Text("/fields/" + FieldChangeNotesTitle) }

// Labels returns the sorted, distinct labels.
func (i *Issue) Labels() []string { return i.Strings("/fields/labels", "") }

// Features returns the sorted, distinct feature option values.
func (i *Issue) Features() []string { return i.Strings("/fields/"+FieldFeatures, "/value") }

// FixVersions returns the sorted, distinct fix version names.
func (i *Issue) FixVersions() []string { return i.Strings("/fields/fixVersions", "/name") }

// Strings collects strings from the array at pointer. With an empty sub the
// elements themselves are taken, otherwise sub is resolved against each element.
// The result is sorted and de-duplicated; a missing array yields an empty slice.
func (i *Issue) Strings(pointer, sub string) []string {
	items, _ := i.Get(pointer).Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		v := item
		if sub != "" {
			v = item.Get(sub)
		}
		if s, p := v.String(); p == Present {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// LinkedOutwardIssues returns keys of issues this issue points to with the given
// outward link description, e.g. "release for".
func (i *Issue) LinkedOutwardIssues(outwardType string) []string {
	return i.linkedIssues(outwardType, "/outwardIssue/key")
}

// LinkedInwardIssues returns keys of issues pointing to this issue with the given
// outward link description.
func (i *Issue) LinkedInwardIssues(outwardType string) []string {
	return i.linkedIssues(outwardType, "/inwardIssue/key")
}

func (i *Issue) linkedIssues(outwardType, keyPointer string) []string {
	links, _ := i.Get("/fields/issuelinks").Array()
	var out []string
	for _, link := range links {
		if t, _ := link.Get("/type/outward").String(); t != outwardType {
			continue
		}
		if key, p := link.Get(keyPointer).String(); p == Present {
			out = append(out, key)
		}
	}
	return out
}
