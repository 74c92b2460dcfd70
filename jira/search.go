package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxPageSize is the largest maxResults the search API accepts.
const MaxPageSize = 100

const searchPath = "/rest/api/3/search"

// SearchOptions are the query parameters sent alongside a JQL search.
// startAt and maxResults are managed by the loaders.
type SearchOptions struct {
	Fields []string          // fields=a,b
	Expand []string          // expand=renderedFields,names
	Extra  map[string]string // any further parameters
}

// query encodes the options for one page.
func (o SearchOptions) query(jql string, startAt, maxResults int) url.Values {
	q := url.Values{}
	q.Set("jql", jql)
	for k, v := range o.Extra {
		if k != "" && v != "" {
			q.Set(k, v)
		}
	}
	if len(o.Fields) > 0 {
		q.Set("fields", strings.Join(o.Fields, ","))
	}
	if len(o.Expand) > 0 {
		q.Set("expand", strings.Join(o.Expand, ","))
	}
	q.Set("startAt", strconv.Itoa(startAt))
	q.Set("maxResults", strconv.Itoa(maxResults))
	return q
}

// SearchResult is one page of a JQL search.
type SearchResult struct {
	StartAt    int
	MaxResults int
	Total      int
	Issues     []*Issue
}

// SearchPage performs one JQL search request.
func (c *Client) SearchPage(ctx context.Context, jql string, opts SearchOptions, startAt, maxResults int) (SearchResult, error) {
	if strings.TrimSpace(jql) == "" {
		return SearchResult{}, invalidArgument("missing JQL query")
	}
	if maxResults <= 0 || maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}

	path := pathWithQuery(searchPath, opts.query(jql, startAt, maxResults))
	body, err := c.Get(ctx, path)
	if err != nil {
		return SearchResult{}, fmt.Errorf("error loading issues: %w", err)
	}

	var page struct {
		StartAt    int               `json:"startAt"`
		MaxResults int               `json:"maxResults"`
		Total      int               `json:"total"`
		Issues     []json.RawMessage `json:"issues"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return SearchResult{}, fmt.Errorf("decode search result: %w", err)
	}

	res := SearchResult{
		StartAt:    page.StartAt,
		MaxResults: page.MaxResults,
		Total:      page.Total,
		Issues:     make([]*Issue, len(page.Issues)),
	}
	for i, raw := range page.Issues {
		res.Issues[i] = NewIssue(raw, c)
	}
	return res, nil
}

// LoadAllIssues loads every issue matching jql, page by page.
func (c *Client) LoadAllIssues(ctx context.Context, jql string, opts SearchOptions) ([]*Issue, error) {
	return LoadAll(ctx, c, jql, opts, func(i *Issue) *Issue { return i })
}

// LoadAll loads every issue matching jql and maps each one with create.
// Pages of MaxPageSize are requested with startAt set to the number of issues
// accumulated so far until the server-reported total is reached. Results keep
// server order.
func LoadAll[T any](ctx context.Context, c *Client, jql string, opts SearchOptions, create func(*Issue) T) ([]T, error) {
	var out []T
	for {
		page, err := c.SearchPage(ctx, jql, opts, len(out), MaxPageSize)
		if err != nil {
			return nil, err
		}
		for _, issue := range page.Issues {
			out = append(out, create(issue))
		}

		c.logger.Debug("issues loaded", "jql", jql, "count", len(out), "total", page.Total)

		// graceful stop: total reached, or the server stopped advancing
		if len(out) >= page.Total || len(page.Issues) == 0 {
			return out, nil
		}
	}
}
