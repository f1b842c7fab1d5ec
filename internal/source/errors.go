package source

import (
	"fmt"
	"net/http"
	"time"
)

// FetchError reports a non-2xx response for a remote source.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Attempts   int
	// RetryAfter is the server-provided wait, if any.
	RetryAfter time.Duration
}

func (e *FetchError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("fetch %s: status %s after %d attempts", e.URL, e.Status, e.Attempts)
	}
	return fmt.Sprintf("fetch %s: status %s", e.URL, e.Status)
}

// Retryable reports whether the status is worth another attempt (429/5xx).
func (e *FetchError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || (e.StatusCode >= 500 && e.StatusCode <= 599)
}

// NotFound reports a 404/410 response.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}
