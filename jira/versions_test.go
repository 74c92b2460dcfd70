package jira

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFixVersions(t *testing.T) {
	t.Parallel()

	t.Run("writes the versions", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/rest/api/3/issue/XDEV-1", r.URL.Path)
			b, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"fields":{"fixVersions":[
				{"name":"1.0","description":"automated entry","archived":false,"released":false},
				{"name":"1.1","description":"automated entry","archived":false,"released":false}
			]}}`, string(b))
			return response(http.StatusNoContent, ``), nil
		})

		outcome, err := c.SetFixVersions(context.Background(), "XDEV-1", []string{"1.0", "1.1"})
		require.NoError(t, err)
		assert.Equal(t, FixVersionsWritten, outcome)
		assert.Equal(t, "written", outcome.String())
	})

	t.Run("field not on screen is not an error", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			return response(http.StatusBadRequest,
				`{"errors":{"fixVersions":"Field 'fixVersions' cannot be set. It is not on the appropriate screen, or unknown."}}`), nil
		})

		outcome, err := c.SetFixVersions(context.Background(), "XDEV-1", []string{"1.0"})
		require.NoError(t, err)
		assert.Equal(t, FixVersionsNotOnScreen, outcome)
		assert.Equal(t, "not written", outcome.String())
	})

	t.Run("unknown version", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			return response(http.StatusBadRequest, `{"errors":{"fixVersions":"Version name '9.9' is not valid"}}`), nil
		})

		_, err := c.SetFixVersions(context.Background(), "XDEV-1", []string{"9.9"})
		assert.ErrorIs(t, err, ErrVersionNotExist)
	})

	t.Run("other failures surface the status", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			return response(http.StatusForbidden, `{"errorMessages":["no permission"]}`), nil
		})

		_, err := c.SetFixVersions(context.Background(), "XDEV-1", []string{"1.0"})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
	})
}

func TestLoadTicket(t *testing.T) {
	t.Parallel()

	t.Run("decodes the summary", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, "/rest/api/3/issue/XDEV-1", r.URL.Path)
			return response(http.StatusOK, `{
				"key":"XDEV-1",
				"fields":{
					"issuetype":{"name":"Bug"},
					"status":{"name":"Done"},
					"resolution":{"name":"Fixed"},
					"summary":"Crash",
					"labels":["a"],
					"fixVersions":[{"name":"1.0"},{"name":"1.1"}],
					"subtasks":[{"key":"XDEV-2","fields":{"issuetype":{"name":"Sub-task"}}}]
				}}`), nil
		})

		ticket, err := c.LoadTicket(context.Background(), "XDEV-1")
		require.NoError(t, err)
		assert.Equal(t, Ticket{
			Key:         "XDEV-1",
			IssueType:   "Bug",
			Summary:     "Crash",
			Status:      "Done",
			Resolution:  "Fixed",
			Labels:      []string{"a"},
			FixVersions: []string{"1.0", "1.1"},
			Subtasks:    []Subtask{{Key: "XDEV-2", IssueType: "Sub-task"}},
		}, ticket)
	})

	t.Run("unresolved", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			return response(http.StatusOK, `{"key":"XDEV-1","fields":{"resolution":null}}`), nil
		})
		ticket, err := c.LoadTicket(context.Background(), "XDEV-1")
		require.NoError(t, err)
		assert.Empty(t, ticket.Resolution)
	})
}

func TestGetFixVersions(t *testing.T) {
	t.Parallel()

	t.Run("returns names", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			return response(http.StatusOK, `{"key":"XDEV-1","fields":{"fixVersions":[{"name":"2.0"}]}}`), nil
		})
		versions, err := c.GetFixVersions(context.Background(), "XDEV-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"2.0"}, versions)
	})

	t.Run("rejects keys without dash", func(t *testing.T) {
		t.Parallel()

		_, err := newRoundTripClient(t, nil).GetFixVersions(context.Background(), "XDEV1")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestCreateVersion(t *testing.T) {
	t.Parallel()

	projectOrVersion := func(t *testing.T, versionStatus int, versionBody string, gotBody *string) roundTripperFunc {
		return func(r *http.Request) (*http.Response, error) {
			switch r.URL.Path {
			case "/rest/api/3/project/XDEV":
				return response(http.StatusOK, `{"id":"10001","key":"XDEV"}`), nil
			case "/rest/api/3/version":
				b, _ := io.ReadAll(r.Body)
				*gotBody = string(b)
				return response(versionStatus, versionBody), nil
			}
			t.Errorf("unexpected path %s", r.URL.Path)
			return response(http.StatusNotFound, ``), nil
		}
	}

	t.Run("creates the version", func(t *testing.T) {
		t.Parallel()

		var body string
		c := newRoundTripClient(t, projectOrVersion(t, http.StatusCreated, `{"id":"1"}`, &body))
		c.now = func() time.Time { return time.Date(2024, 11, 18, 9, 47, 0, 0, time.UTC) }

		created, err := c.CreateVersion(context.Background(), "XDEV-4711", "3.0")
		require.NoError(t, err)
		assert.True(t, created)
		assert.JSONEq(t, `{
			"archived":false,
			"description":"created by jiracloud 2024-11-18 09:47",
			"name":"3.0",
			"projectId":10001,
			"released":false
		}`, body)
	})

	t.Run("existing version is not an error", func(t *testing.T) {
		t.Parallel()

		var body string
		c := newRoundTripClient(t, projectOrVersion(t, http.StatusBadRequest,
			`{"errors":{"name":"A version with this name already exists in this project."}}`, &body))

		created, err := c.CreateVersion(context.Background(), "XDEV-", "3.0")
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("other failures", func(t *testing.T) {
		t.Parallel()

		var body string
		c := newRoundTripClient(t, projectOrVersion(t, http.StatusForbidden, `{}`, &body))

		_, err := c.CreateVersion(context.Background(), "XDEV-", "3.0")
		assert.Equal(t, http.StatusForbidden, StatusCode(err))
	})

	t.Run("needs a project prefix", func(t *testing.T) {
		t.Parallel()

		_, err := newRoundTripClient(t, nil).CreateVersion(context.Background(), "XDEV", "3.0")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestProjectVersions(t *testing.T) {
	t.Parallel()

	c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/rest/api/3/project/XDEV/versions", r.URL.Path)
		return response(http.StatusOK, `[{"id":"1","name":"1.0","released":true},{"id":"2","name":"2.0"}]`), nil
	})

	versions, err := c.ProjectVersions(context.Background(), "XDEV")
	require.NoError(t, err)
	assert.Equal(t, []Version{{ID: "1", Name: "1.0", Released: true}, {ID: "2", Name: "2.0"}}, versions)
}

func TestReleaseVersion(t *testing.T) {
	t.Parallel()

	c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/rest/api/3/version/2", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"released":true}`, string(b))
		return response(http.StatusOK, `{}`), nil
	})
	require.NoError(t, c.ReleaseVersion(context.Background(), "2"))
}

func TestSaveFeatureNumbers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unknown issue", status: http.StatusNotFound, body: `{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`, want: ErrIssueNotExist},
		{name: "field not on screen", status: http.StatusBadRequest, body: `{"errors":{"customfield_10140":"Field 'customfield_10140' cannot be set."}}`, want: ErrFeaturesFieldMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
				return response(tc.status, tc.body), nil
			})
			err := c.SaveFeatureNumbers(context.Background(), "XDEV-1", []string{"F-1"})
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("writes option values", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			b, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"fields":{"customfield_10140":[{"value":"F-1"},{"value":"F-2"}]}}`, string(b))
			return response(http.StatusNoContent, ``), nil
		})
		require.NoError(t, c.SaveFeatureNumbers(context.Background(), "XDEV-1", []string{"F-1", "F-2"}))
	})

	t.Run("other failures", func(t *testing.T) {
		t.Parallel()

		c := newRoundTripClient(t, func(r *http.Request) (*http.Response, error) {
			return response(http.StatusInternalServerError, `oops`), nil
		})
		err := c.SaveFeatureNumbers(context.Background(), "XDEV-1", nil)
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	})
}

func TestFieldUpdate(t *testing.T) {
	t.Parallel()

	t.Run("nests the value under fields", func(t *testing.T) {
		t.Parallel()

		body, err := fieldUpdate("customfield_10140", []map[string]string{{"value": "F-1"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"fields":{"customfield_10140":[{"value":"F-1"}]}}`, string(body))
	})

	t.Run("keys with path syntax stay one key", func(t *testing.T) {
		t.Parallel()

		body, err := fieldUpdate("a.b", "x")
		require.NoError(t, err)
		assert.JSONEq(t, `{"fields":{"a.b":"x"}}`, string(body))
	})
}
