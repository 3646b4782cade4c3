package ivol

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// APIError represents an error response from the iVolatility API.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ivolatility api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the error is one of the two transient
// classes: rate-limit-exceeded or request-timeout.
func (e *APIError) IsRetryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// errRequestTimeout wraps a transport-level timeout so the retry executor
// can classify it alongside HTTP 408/429.
type errRequestTimeout struct {
	cause error
}

func (e *errRequestTimeout) Error() string {
	return "request timeout: " + e.cause.Error()
}

func (e *errRequestTimeout) Unwrap() error {
	return e.cause
}

// classifyTransport converts client-side transport errors. Timeouts become
// transient; everything else (including caller cancellation) passes through.
func classifyTransport(err error) error {
	if err == nil {
		return nil
	}

	// resty wraps transport errors in *url.Error; unwrap for inspection.
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &errRequestTimeout{cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &errRequestTimeout{cause: err}
	}

	return err
}

// IsTransient reports whether err belongs to a retryable class. Wrapped and
// joined errors are searched for the first vendor APIError; if none is
// present, transport timeouts qualify.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}

	var timeout *errRequestTimeout
	return errors.As(err, &timeout)
}

// Unwrapped digs the first APIError out of a wrapped or joined error chain,
// returning the original error when none is found.
func Unwrapped(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return err
}
