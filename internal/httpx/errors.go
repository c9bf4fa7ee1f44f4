package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrRobotsDisallowed = errors.New("blocked by robots.txt")

// ErrMalformed marks a body that arrived but could not be decoded.
var ErrMalformed = errors.New("malformed document")

// FetchError carries the HTTP status of a failed fetch, 0 when no response
// arrived.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func shouldBackoff(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}
