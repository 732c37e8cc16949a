package handler

import (
	"errors"
	"fmt"

	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// ErrorKind is the gateway failure category
type ErrorKind int

const (
	InvalidEndpoint ErrorKind = iota + 1
	TransportFailure
	InvalidResponseStatus
	DecodingFailure
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidEndpoint:
		return "invalid endpoint"
	case TransportFailure:
		return "transport failure"
	case InvalidResponseStatus:
		return "invalid response status"
	case DecodingFailure:
		return "decoding failure"
	default:
		return "unknown"
	}
}

// APIError is returned by every failed catalog fetch
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Err        error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("catalog %s: %s", e.URL, e.Kind)
	if e.Kind == InvalidResponseStatus {
		msg = fmt.Sprintf("%s %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err wraps an APIError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Error classes used when reporting failures to users
const (
	ClassTransport  = "transport"
	ClassProtocol   = "protocol"
	ClassSchema     = "schema"
	ClassValidation = "validation"
	ClassInvariant  = "invariant"
	ClassUnknown    = "unknown"
)

// ErrorClass maps any core error onto the reporting taxonomy
func ErrorClass(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case InvalidEndpoint, TransportFailure:
			return ClassTransport
		case InvalidResponseStatus:
			return ClassProtocol
		case DecodingFailure:
			return ClassSchema
		}
	}

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		return ClassValidation
	}

	if errors.Is(err, shared.ErrRosterTooSmall) || errors.Is(err, shared.ErrSelfInspiration) {
		return ClassInvariant
	}

	return ClassUnknown
}
