package confluence

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedURL reports a URL that is neither a page link nor a tiny link.
	ErrUnsupportedURL = errors.New("unsupported URL")
	// ErrInvalidURL reports a URL that is not an https URL.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrNoPageTitles reports a tiny link lookup without a list of known pages.
	ErrNoPageTitles = errors.New("page titles must not be nil")
)

// Getter performs an authenticated GET against the Atlassian site and returns the body.
// *jira.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// Client reads Confluence pages of the same site the Getter talks to.
type Client struct {
	getter Getter
}

// NewClient returns a Confluence client on top of g.
func NewClient(g Getter) *Client {
	return &Client{getter: g}
}
