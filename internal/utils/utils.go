package utils

import (
	"strings"

	"github.com/gi8lino/jiracloud/jira"
)

// ObfuscateHeader returns an obfuscated Authorization header,
// showing only the auth scheme, first 2 and last 2 characters of the token.
// All middle characters are replaced with '*', preserving original token length.
// Example: "Basic dZ*********X1"
func ObfuscateHeader(auth string) string {
	if auth == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(auth, " ")
	if !ok {
		return "[invalid header]"
	}

	token = strings.TrimSpace(token)
	n := len(token)
	if n <= 4 {
		return scheme + " " + strings.Repeat("*", n)
	}

	return scheme + " " + token[:2] + strings.Repeat("*", n-4) + token[n-2:]
}

// ObfuscatedAuth returns the obfuscated Authorization header the AuthFunc would set.
func ObfuscatedAuth(auth jira.AuthFunc) string {
	return ObfuscateHeader(jira.AuthorizationHeader(auth))
}
