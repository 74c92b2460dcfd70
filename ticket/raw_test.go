package ticket

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gi8lino/jiracloud/jira"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticDocField(t *testing.T) {
	t.Parallel()

	t.Run("plain", func(t *testing.T) {
		t.Parallel()

		issue := jira.NewIssue(fmt.Appendf(nil, `{"key":"X-1","fields":{"customfield_10053":`+plainDoc+`}}`, "dev text"), nil)
		f := NewStaticDocField(issue, FieldDevelopmentDescription)

		assert.True(t, f.PlainText)
		assert.Equal(t, "dev text", f.Text)
		assert.Nil(t, f.Images)
		assert.False(t, f.HasImages())
		assert.NoError(t, f.LoadImages(context.Background()))
	})

	t.Run("rich uses rendered HTML", func(t *testing.T) {
		t.Parallel()

		issue := jira.NewIssue([]byte(`{"key":"X-1",
			"fields":{"customfield_10053":`+richDoc+`},
			"renderedFields":{"customfield_10053":"<p>a</p><img src=\"/img/1\"><img src=\"/img/1\">"}}`), nil)
		f := NewStaticDocField(issue, FieldDevelopmentDescription)

		assert.False(t, f.PlainText)
		assert.Equal(t, `<p>a</p><img src="/img/1"><img src="/img/1">`, f.Text)
		assert.True(t, f.HasImages())
		assert.Equal(t, []string{"/img/1"}, f.Images.Sources())
	})

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()

		f := NewStaticDocField(jira.NewIssue([]byte(`{"key":"X-1","fields":{}}`), nil), FieldDevelopmentDescription)
		assert.True(t, f.PlainText)
		assert.Empty(t, f.Text)
	})
}

func TestRawTicket(t *testing.T) {
	t.Parallel()

	var imageCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/api/3/search":
			assert.Equal(t, "renderedFields", r.URL.Query().Get("expand"))
			assert.Equal(t, "*navigable,customfield_10053,customfield_10173,customfield_10174", r.URL.Query().Get("fields"))
			w.Write([]byte(`{"total":1,"issues":[{"key":"X-1",
				"fields":{"customfield_10053":` + richDoc + `,"customfield_10174":` + fmt.Sprintf(plainDoc, "notes") + `},
				"renderedFields":{"customfield_10053":"<img src=\"/img/a\">"}}]}`)) // nolint:errcheck
		default:
			imageCalls.Add(1)
			w.Write([]byte("png")) // nolint:errcheck
		}
	}))
	defer srv.Close()

	tickets, err := LoadRawTickets(context.Background(), newTestClient(t, srv), "project = X")
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	rt := tickets[0]
	assert.Equal(t, "X-1", rt.Issue().Key())
	assert.Equal(t, "notes", rt.ChangeNotesDescription.Text)
	assert.False(t, rt.DevelopmentDescription.PlainText)

	require.NoError(t, rt.LoadImages(context.Background()))
	require.NoError(t, rt.LoadImages(context.Background()))
	assert.Equal(t, map[string][]byte{"/img/a": []byte("png")}, rt.DevelopmentDescription.Images.Bytes())
	assert.Equal(t, int32(1), imageCalls.Load())
}

func TestRawRNTicket(t *testing.T) {
	t.Parallel()

	var (
		deCalls atomic.Int32
		enCalls atomic.Int32
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/img/de":
			deCalls.Add(1)
		case "/img/en":
			enCalls.Add(1)
		}
		w.Write([]byte("img")) // nolint:errcheck
	}))
	defer srv.Close()

	raw := []byte(`{"key":"XRN-1",
		"fields":{
			"customfield_10055":"Titel","customfield_10056":"Title",
			"customfield_10057":` + richDoc + `,"customfield_10058":` + richDoc + `,
			"customfield_10059":` + fmt.Sprintf(plainDoc, "Details") + `,"customfield_10060":` + fmt.Sprintf(plainDoc, "details") + `},
		"renderedFields":{"customfield_10057":"<img src=\"/img/de\">","customfield_10058":"<img src=\"/img/en\">"}}`)

	rn := NewRawRNTicket(jira.NewIssue(raw, newTestClient(t, srv)))

	title, err := rn.Title(EN)
	require.NoError(t, err)
	assert.Equal(t, "Title", title)
	assert.Equal(t, "details", rn.Details.EN.Text)
	assert.Equal(t, "Details", rn.Details.DE.Text)

	require.NoError(t, rn.LoadImages(context.Background(), DE))
	assert.Equal(t, int32(1), deCalls.Load())
	assert.Equal(t, int32(0), enCalls.Load())

	require.NoError(t, rn.LoadImages(context.Background()))
	assert.Equal(t, int32(1), deCalls.Load())
	assert.Equal(t, int32(1), enCalls.Load())

	assert.ErrorIs(t, rn.LoadImages(context.Background(), "fr"), ErrUnknownLanguage)
	assert.Equal(t, []string{
		"customfield_10055", "customfield_10056",
		"customfield_10057", "customfield_10058",
		"customfield_10059", "customfield_10060",
	}, RawRNTicketFieldNames())
}
