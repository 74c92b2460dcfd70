package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gi8lino/jiracloud/jira"
)

const pagesPath = "/wiki/api/v2/pages"

// PageTitle identifies one Confluence page. Tiny is the permanent link path, e.g. "/x/B4ANDQ".
type PageTitle struct {
	ID    string
	Tiny  string
	Title string
}

type page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Links struct {
		TinyUI string `json:"tinyui"`
	} `json:"_links"`
}

type pagesResponse struct {
	Results []page `json:"results"`
	Links   struct {
		Next string `json:"next"`
	} `json:"_links"`
}

// LoadAllPages lists every page of the site. It follows the _links.next cursor
// until the server stops returning one, so it is expensive on large sites.
func (c *Client) LoadAllPages(ctx context.Context) ([]PageTitle, error) {
	var out []PageTitle
	path := pagesPath
	for path != "" {
		body, err := c.getter.Get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("error loading Confluence pages: %w", err)
		}

		var resp pagesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode Confluence pages: %w", err)
		}
		for _, p := range resp.Results {
			out = append(out, PageTitle{ID: p.ID, Tiny: p.Links.TinyUI, Title: p.Title})
		}
		path = resp.Links.Next
	}
	return out, nil
}

// PageTitle returns the title of the page behind pageURL.
//
// Page links (".../wiki/spaces/.../pages/{id}/...") are looked up in known first,
// then fetched by ID. Tiny links (".../wiki/x/{tiny}") can only be resolved
// through known. found is false when the page does not exist.
func (c *Client) PageTitle(ctx context.Context, pageURL string, known []PageTitle) (title string, found bool, err error) {
	isPage, err := IsPageURL(pageURL)
	if err != nil {
		return "", false, err
	}

	switch {
	case isPage:
		id := pageID(pageURL)
		for _, p := range known {
			if p.ID == id {
				return p.Title, true, nil
			}
		}

		// a missing page is an expected outcome
		body, err := c.getter.Get(jira.BestEffort(ctx), pagesPath+"/"+url.PathEscape(id))
		if err != nil {
			if jira.StatusCode(err) == http.StatusNotFound {
				return "", false, nil
			}
			return "", false, fmt.Errorf("error loading Confluence page title of %s: %w", id, err)
		}
		var p page
		if err := json.Unmarshal(body, &p); err != nil {
			return "", false, fmt.Errorf("decode Confluence page %s: %w", id, err)
		}
		return p.Title, true, nil

	case strings.Contains(pageURL, ".atlassian.net/wiki/x/"):
		if known == nil {
			return "", false, ErrNoPageTitles
		}
		tiny := pageURL[strings.Index(pageURL, "/x/"):]
		for _, p := range known {
			if p.Tiny == tiny {
				return p.Title, true, nil
			}
		}
		return "", false, nil

	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnsupportedURL, pageURL)
	}
}

// pageID returns the path segment following "/pages/".
func pageID(pageURL string) string {
	_, rest, _ := strings.Cut(pageURL, "/pages/")
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// IsConfluenceURL reports whether s is an https link into an Atlassian Cloud site.
func IsConfluenceURL(s string) bool {
	return strings.HasPrefix(s, "https://") && strings.Contains(s, ".atlassian.net")
}

// IsPageURL reports whether s is a Confluence page link carrying a page ID.
// Anything but an https URL is rejected with ErrInvalidURL.
func IsPageURL(s string) (bool, error) {
	if !strings.HasPrefix(s, "https://") {
		return false, fmt.Errorf("%w: %q", ErrInvalidURL, s)
	}
	return strings.Contains(s, ".atlassian.net/wiki/spaces") && strings.Contains(s, "/pages/"), nil
}
