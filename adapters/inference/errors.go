package inference

import (
	"errors"
	"fmt"

	"raidash/ports"
)

// ErrMalformedBody marks a response body that is not valid JSON or whose
// data does not have the expected shape.
var ErrMalformedBody = errors.New("malformed response body")

// TransportError is a failure below the envelope: network errors, non-2xx
// statuses and undecodable bodies.
type TransportError struct {
	Endpoint   ports.Endpoint
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Endpoint.Path(), e.Message, e.Cause)
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Endpoint.Path(), e.Cause)
	}
	return fmt.Sprintf("%s: transport failure", e.Endpoint.Path())
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ServiceError is a failure reported by the backend inside a 2xx envelope.
// Message is the envelope's error value verbatim.
type ServiceError struct {
	Endpoint ports.Endpoint
	Message  string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// IsTransportError reports whether err is or wraps a *TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServiceError reports whether err is or wraps a *ServiceError
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
