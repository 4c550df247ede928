package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// ErrorKind classifies an inference failure at the provider boundary.
// Downstream code switches on the kind; it never re-parses error strings.
type ErrorKind string

const (
	KindRateLimited       ErrorKind = "rate_limited"
	KindServerUnavailable ErrorKind = "server_unavailable"
	KindDeadlineExceeded  ErrorKind = "deadline_exceeded"
	KindEmptyResponse     ErrorKind = "empty_response"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// Error is a classified inference failure.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// AsError unwraps err into a classified provider error.
func AsError(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// Retryable reports whether the failure is transient: rate limiting, server
// unavailability, timeouts, and empty or malformed model responses. All
// other failures are fatal on first occurrence.
func Retryable(err error) bool {
	perr, ok := AsError(err)
	if !ok {
		return false
	}
	switch perr.Kind {
	case KindRateLimited, KindServerUnavailable, KindDeadlineExceeded,
		KindEmptyResponse, KindMalformedResponse:
		return true
	}
	return false
}

// classifyHTTPStatus maps a non-2xx chat completion response to a provider
// error. Returns nil for statuses that are not recognized as transient so
// the caller can surface them unclassified.
func classifyHTTPStatus(status int, body string, retryAfter time.Duration) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Message: body, StatusCode: status, RetryAfter: retryAfter}
	case status == http.StatusRequestTimeout:
		return &Error{Kind: KindDeadlineExceeded, Message: body, StatusCode: status}
	case status >= 500:
		return &Error{Kind: KindServerUnavailable, Message: body, StatusCode: status}
	}
	return nil
}

// classifyTransportError maps transport-level failures (client timeouts,
// cancelled deadlines) to a provider error, or returns the error unchanged.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindDeadlineExceeded, Message: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindDeadlineExceeded, Message: err.Error()}
	}
	return err
}

// parseRetryAfter parses a Retry-After header value in seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
