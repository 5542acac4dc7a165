package remote

import (
	"context"
	"errors"
	"fmt"
	"net"

	"verigate/pkg/platform/sentinel"
)

// ErrorCategory normalizes remote detector failures.
type ErrorCategory string

const (
	// ErrorTimeout indicates the detector service took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates a malformed or out-of-range response
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorRejected indicates the service refused the request (4xx)
	ErrorRejected ErrorCategory = "rejected"

	// ErrorOutage indicates the service is unreachable or failing (5xx)
	ErrorOutage ErrorCategory = "outage"
)

// Error wraps a remote detector failure with its category.
type Error struct {
	Category   ErrorCategory
	Endpoint   string
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("detector %s [%s]: %s: %v", e.Endpoint, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("detector %s [%s]: %s", e.Endpoint, e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Underlying }

// Is reports timeouts and outages as sentinel.ErrUnavailable.
func (e *Error) Is(target error) bool {
	if target != sentinel.ErrUnavailable {
		return false
	}
	return e.Category == ErrorTimeout || e.Category == ErrorOutage
}

// CategoryOf returns the category of a remote error, or "" for other errors.
func CategoryOf(err error) ErrorCategory {
	var re *Error
	if errors.As(err, &re) {
		return re.Category
	}
	return ""
}

func transportError(endpoint string, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Category: ErrorTimeout, Endpoint: endpoint, Message: "request timed out", Underlying: err}
	}
	return &Error{Category: ErrorOutage, Endpoint: endpoint, Message: "request failed", Underlying: err}
}
