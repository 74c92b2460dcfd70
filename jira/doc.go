package jira

import (
	"context"
	"fmt"
	"strings"
)

// DocValue is the resolved value of an ADF rich-text field.
type DocValue struct {
	PlainText bool
	Text      string   // set when PlainText
	HTML      string   // server-rendered HTML when not PlainText
	Images    ImageSet // images referenced by HTML; nil when PlainText
}

// Value returns the text of a plain value or the HTML of a rich one.
func (d DocValue) Value() string {
	if d.PlainText {
		return d.Text
	}
	return d.HTML
}

// IsPlainText reports whether the ADF field at pointer is a single paragraph with a single run.
// An absent or null field yields ErrFieldMissing.
func (i *Issue) IsPlainText(pointer string) (bool, error) {
	field := i.Get(pointer)
	if !field.Exists() {
		return false, fmt.Errorf("%s %s: %w", i.Key(), pointer, ErrFieldMissing)
	}
	return IsPlainADF(field), nil
}

// IsPlainADF classifies an ADF document: plain iff its content array holds exactly
// one node of type "paragraph" whose own content array holds exactly one entry.
func IsPlainADF(doc Value) bool {
	content, p := doc.Get("/content").Array()
	if p != Present || len(content) != 1 {
		return false
	}
	if t, _ := content[0].Get("/type").String(); t != "paragraph" {
		return false
	}
	runs, p := content[0].Get("/content").Array()
	return p == Present && len(runs) == 1
}

// Doc resolves the ADF field at pointer. Plain fields are read directly from the
// issue JSON; rich fields are re-queried with expand=renderedFields and the
// server-rendered HTML is returned together with its images.
func (i *Issue) Doc(ctx context.Context, pointer string) (DocValue, error) {
	plain, err := i.IsPlainText(pointer)
	if err != nil {
		return DocValue{}, err
	}
	if plain {
		return DocValue{PlainText: true, Text: i.Text(pointer + "/content/0/content/0/text")}, nil
	}

	html, err := i.renderedField(ctx, pointer)
	if err != nil {
		return DocValue{}, err
	}
	return DocValue{HTML: html, Images: NewImageSet(ExtractImageSources(html), i.client)}, nil
}

// Images resolves the field at pointer and downloads every image it references.
// The result maps image src to image bytes; plain fields yield an empty map.
func (i *Issue) Images(ctx context.Context, pointer string) (map[string][]byte, error) {
	doc, err := i.Doc(ctx, pointer)
	if err != nil {
		return nil, err
	}
	if err := doc.Images.LoadAll(ctx); err != nil {
		return nil, err
	}
	return doc.Images.Bytes(), nil
}

// renderedField fetches the HTML rendering of one field of this issue.
func (i *Issue) renderedField(ctx context.Context, pointer string) (string, error) {
	if i.client == nil {
		return "", ErrNoClient
	}
	field := pointer[strings.LastIndex(pointer, "/")+1:]
	jql := fmt.Sprintf("issue=%q", i.Key())

	issues, err := i.client.LoadAllIssues(ctx, jql, SearchOptions{
		Expand: []string{"renderedFields"},
		Fields: []string{field},
	})
	if err != nil {
		return "", fmt.Errorf("render %s: %w", field, err)
	}
	if len(issues) != 1 {
		return "", fmt.Errorf("expected 1 item for JQL %s, got %d: %w", jql, len(issues), ErrUnexpectedResult)
	}
	return issues[0].Text(renderedPointer(pointer)), nil
}

// renderedPointer maps "/fields/x" to "/renderedFields/x".
func renderedPointer(pointer string) string {
	return strings.Replace(pointer, "/fields/", "/renderedFields/", 1)
}
