package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Changelog is one changed field of an issue history entry.
type Changelog struct {
	Field string
	From  string // old value
	To    string // new value
}

type changelogPage struct {
	Values []struct {
		Items []struct {
			Field      string  `json:"field"`
			FromString *string `json:"fromString"`
			ToString   *string `json:"toString"`
		} `json:"items"`
	} `json:"values"`
}

// LoadHistory loads the complete changelog of an issue. The endpoint reports no
// usable total, so pages are requested until one comes back empty.
func (c *Client) LoadHistory(ctx context.Context, key string) ([]Changelog, error) {
	var out []Changelog
	histories := 0
	for {
		q := url.Values{}
		q.Set("startAt", strconv.Itoa(histories))
		q.Set("maxResults", strconv.Itoa(MaxPageSize))

		body, err := c.Get(ctx, pathWithQuery("/rest/api/3/issue/"+url.PathEscape(key)+"/changelog", q))
		if err != nil {
			return nil, fmt.Errorf("error loading history of %s: %w", key, err)
		}

		var page changelogPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode changelog: %w", err)
		}
		if len(page.Values) == 0 {
			return out, nil
		}

		for _, v := range page.Values {
			for _, item := range v.Items {
				out = append(out, Changelog{
					Field: item.Field,
					From:  deref(item.FromString),
					To:    deref(item.ToString),
				})
			}
		}
		histories += len(page.Values)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
