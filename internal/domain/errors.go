package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrTransport    = errors.New("transport error")
	ErrParse        = errors.New("parse error")
	ErrInvalidInput = errors.New("invalid input")
)

// TransportError reports a failed, timed out or unsuccessful HTTP exchange.
// StatusCode is 0 when no response was received.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status code %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Timeout reports whether the exchange was aborted by a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ParseError reports a response body that is missing an expected field or has the wrong shape.
type ParseError struct {
	Op    string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: invalid field %q: %v", e.Op, e.Field, e.Err)
		}
		return fmt.Sprintf("%s: missing field %q", e.Op, e.Field)
	}

	return fmt.Sprintf("%s: failed to decode response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
