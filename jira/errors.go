package jira

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports caller input the client cannot work with.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnexpectedResult reports a response whose shape does not match the request.
	ErrUnexpectedResult = errors.New("unexpected result")
	// ErrFieldMissing reports an absent or null issue field.
	ErrFieldMissing = errors.New("field missing")
	// ErrNoClient reports an issue that was built without a client handle.
	ErrNoClient = errors.New("issue has no client")
	// ErrImageNotLoaded reports an image whose bytes were never fetched.
	ErrImageNotLoaded = errors.New("image not loaded")
	// ErrVersionNotExist reports a fix version unknown to the project.
	ErrVersionNotExist = errors.New("fix version does not exist")
	// ErrIssueNotExist reports a write to an unknown issue.
	ErrIssueNotExist = errors.New("issue does not exist")
	// ErrFeaturesFieldMissing reports an issue without the features field on its screen.
	ErrFeaturesFieldMissing = errors.New("features field does not exist")
)

// RequestError is returned for every response with a status code >= 300
// that is not mapped to a domain outcome.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *RequestError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("jira %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("jira %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, trim(e.Body, 512))
}

// StatusCode returns the HTTP status carried by a *RequestError in err's chain, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// trim returns at most n bytes from b.
func trim(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
