// Package resilience retries browser session operations that fail for
// transient reasons.
package resilience

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// TransientError marks an error as safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as transient.
func NewTransientError(err error) *TransientError {
	return &TransientError{Err: err}
}

// transientPatterns are DevTools and network failures seen while a page is
// loading or re-rendering.
var transientPatterns = []string{
	"cannot find context with specified id",
	"node with given id does not exist",
	"could not find node with given id",
	"execution context was destroyed",
	"inspected target navigated or closed",
	"connection reset by peer",
	"connection refused",
	"broken pipe",
	"i/o timeout",
	"temporary failure in name resolution",
	"net::err_",
}

// IsTransient reports whether err is worth retrying. Cancellation by the
// caller is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
