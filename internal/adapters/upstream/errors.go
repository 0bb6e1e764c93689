package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUpstreamUnavailable covers transport failures, timeouts and non-2xx statuses.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrCircuitOpen is returned without a request while a source's breaker is open.
	ErrCircuitOpen = errors.New("upstream circuit open")
	// ErrMalformedShape means the body parsed but lacked the expected structure.
	ErrMalformedShape = errors.New("malformed upstream shape")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Source string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d %s", e.Source, e.Code, http.StatusText(e.Code))
}

// Unwrap lets errors.Is match ErrUpstreamUnavailable.
func (e *StatusError) Unwrap() error { return ErrUpstreamUnavailable }

// Retryable reports whether another attempt could succeed.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// Malformed wraps a shape problem found by an adapter.
func Malformed(source, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedShape, source, fmt.Sprintf(format, args...))
}
