package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client handles communication with one Jira Cloud / Confluence Cloud site.
// It is safe for concurrent use; its configuration is never mutated after NewClient.
type Client struct {
	BaseURL *url.URL     // https://{customer}.atlassian.net
	Client  *http.Client // Underlying HTTP client
	auth    AuthFunc
	logger  *slog.Logger
	now     func() time.Time
}

type options struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	skipVerify bool
	timeout    time.Duration
}

// Option customizes a Client.
type Option func(*options)

// WithBaseURL replaces the https://{customer}.atlassian.net base URL.
func WithBaseURL(u *url.URL) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient replaces the pooled default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the logger used for request tracing and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSkipTLSVerify disables certificate verification of the default transport.
func WithSkipTLSVerify(skip bool) Option {
	return func(o *options) { o.skipVerify = skip }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// NewClient validates the credentials and returns a client for https://{customer}.atlassian.net.
func NewClient(customer, mail, token string, opts ...Option) (*Client, error) {
	switch {
	case strings.TrimSpace(customer) == "":
		return nil, invalidArgument("please specify customer")
	case !strings.Contains(mail, "@"):
		return nil, invalidArgument("please specify mail")
	case strings.TrimSpace(token) == "":
		return nil, invalidArgument("please specify token")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.baseURL
	if base == nil {
		u, err := url.Parse("https://" + strings.TrimSpace(customer) + ".atlassian.net")
		if err != nil {
			return nil, invalidArgument("customer %q: %v", customer, err)
		}
		base = u
	}

	hc := o.httpClient
	if hc == nil {
		hc = newHTTPClient(o.skipVerify, o.timeout)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		BaseURL: base,
		Client:  hc,
		auth:    NewBasicAuth(mail, token),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Auth returns the function used to authenticate requests.
func (c *Client) Auth() AuthFunc { return c.auth }

// Get performs an authenticated GET and returns the response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	body, _, err := c.doRequest(ctx, http.MethodGet, path, nil)
	return body, err
}

// Put performs an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	resp, _, err := c.doRequest(ctx, http.MethodPut, path, body)
	return resp, err
}

// Post performs an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	resp, _, err := c.doRequest(ctx, http.MethodPost, path, body)
	return resp, err
}

// Delete performs an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, _, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	return err
}

// LoadImage downloads the raw bytes behind an image src taken from rendered HTML.
// The src is resolved against the site's base URL.
func (c *Client) LoadImage(ctx context.Context, src string) ([]byte, error) {
	data, _, err := c.send(ctx, http.MethodGet, src, nil, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", src, err)
	}
	c.logger.Debug("image loaded", "src", src, "bytes", len(data))
	return data, nil
}

// doRequest performs an authenticated JSON request and returns response body, status, and error.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (response []byte, statusCode int, err error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	hdr := http.Header{}
	hdr.Set("Accept", "application/json")
	if bodyReader != nil {
		hdr.Set("Content-Type", "application/json")
	}
	return c.send(ctx, method, path, bodyReader, hdr)
}

// send resolves path against the base URL, authenticates and executes one request.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, hdr http.Header) (response []byte, statusCode int, err error) {
	relURL, err := url.Parse(path)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("parse path: %w", err)
	}
	fullURL := c.resolve(relURL).String()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("create request: %w", err)
	}
	req.Header = hdr
	c.auth(req)

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("jira request",
		"method", method,
		"path", relURL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode >= 300 {
		c.logger.Log(ctx, failureLevel(ctx), "jira request failed",
			"method", method,
			"path", relURL.Path,
			"status", resp.StatusCode,
			"response", string(trim(respBody, 2048)),
		)
		return respBody, resp.StatusCode, &RequestError{
			Method:     method,
			Path:       relURL.Path,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}
	return respBody, resp.StatusCode, nil
}

// resolve joins rel onto the base URL. Host-relative paths keep the base path,
// so a base URL such as https://proxy/jira/ prefixes every API path.
func (c *Client) resolve(rel *url.URL) *url.URL {
	u := c.BaseURL.ResolveReference(rel)
	if rel.IsAbs() || rel.Host != "" || !strings.HasPrefix(rel.Path, "/") {
		return u
	}
	if prefix := strings.TrimSuffix(c.BaseURL.Path, "/"); prefix != "" {
		u.Path = prefix + rel.Path
		u.RawPath = ""
	}
	return u
}

type bestEffortKey struct{}

// BestEffort marks ctx for lookups whose failures the caller downgrades to a default.
// Failed requests made with it are logged at debug instead of error level.
func BestEffort(ctx context.Context) context.Context {
	return context.WithValue(ctx, bestEffortKey{}, true)
}

func failureLevel(ctx context.Context) slog.Level {
	if quiet, _ := ctx.Value(bestEffortKey{}).(bool); quiet {
		return slog.LevelDebug
	}
	return slog.LevelError
}

// pathWithQuery appends encoded, non-empty query parameters to path.
func pathWithQuery(path string, q url.Values) string {
	for k, vs := range q {
		if k == "" || len(vs) == 0 || vs[0] == "" {
			q.Del(k)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
