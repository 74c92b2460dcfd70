package jira

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// AuthFunc applies authentication to an outgoing request.
type AuthFunc func(r *http.Request)

// NewBasicAuth returns an AuthFunc that sets "Authorization: Basic base64(email:token)".
func NewBasicAuth(email, token string) AuthFunc {
	header := BasicAuthHeader(email, token)
	return func(r *http.Request) {
		r.Header.Set("Authorization", header)
	}
}

// BasicAuthHeader returns the Authorization header value for email and API token.
func BasicAuthHeader(email, token string) string {
	creds := strings.TrimSpace(email) + ":" + strings.TrimSpace(token)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

// AuthorizationHeader returns the header value the AuthFunc would set on a request.
func AuthorizationHeader(auth AuthFunc) string {
	if auth == nil {
		return ""
	}
	req, _ := http.NewRequest(http.MethodGet, "https://dummy", nil)
	auth(req)
	return req.Header.Get("Authorization")
}
