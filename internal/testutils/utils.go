package testutils

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// MustWriteFile writes data to a file or fails the test, creating parent directories if needed.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %q: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file %q: %v", path, err)
	}
}

// Response is the canned answer of a Site route.
type Response struct {
	Status int // defaults to 200
	Body   string
}

// Site is a fake Atlassian site answering "METHOD /path" routes.
// Unknown routes are answered with 404.
type Site struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

// NewSite starts a Site that is closed when the test ends.
func NewSite(t *testing.T, routes map[string]Response) *Site {
	t.Helper()

	s := &Site{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.requests = append(s.requests, route)
		s.mu.Unlock()

		resp, ok := routes[route]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if resp.Status != 0 {
			w.WriteHeader(resp.Status)
		}
		w.Write([]byte(resp.Body)) // nolint:errcheck
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the routes requested so far, in order.
func (s *Site) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}
