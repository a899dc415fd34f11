package transport

import (
	"fmt"
	"net/http"
)

// maxErrorBody caps how much of a failed response is kept on an error.
const maxErrorBody = 512

// TransportError is returned when a provider answers with a non-2xx status.
type TransportError struct {
	StatusCode int
	Method     string
	URL        string
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable reports whether the same request may succeed later.
func (e *TransportError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ParseError is returned when a 2xx response body is not valid JSON.
type ParseError struct {
	URL  string
	Body string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: response body is not valid JSON", e.URL)
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}
