package ticket

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gi8lino/jiracloud/jira"

	"github.com/stretchr/testify/require"
)

// newTestClient returns a jira client talking to srv.
func newTestClient(t *testing.T, srv *httptest.Server, opts ...jira.Option) *jira.Client {
	t.Helper()

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	opts = append([]jira.Option{jira.WithBaseURL(base), jira.WithHTTPClient(srv.Client())}, opts...)
	c, err := jira.NewClient("acme", "me@example.com", "secret", opts...)
	require.NoError(t, err)
	return c
}

const plainDoc = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"%s"}]}]}`

const richDoc = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a"}]},{"type":"mediaSingle"}]}`
