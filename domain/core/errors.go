package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrUnknownDataset  = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrUnknownFeature  = fmt.Errorf("%w: feature", ErrNotFound)
	ErrUnknownEndpoint = fmt.Errorf("%w: endpoint", ErrNotFound)
	ErrUnknownMode     = fmt.Errorf("%w: dashboard mode", ErrNotFound)

	// Validation errors
	ErrInvalidTree    = errors.New("invalid policy tree")
	ErrInvalidRequest = errors.New("invalid analysis request")
	ErrRowShape       = errors.New("row does not match feature count")

	// Availability errors
	ErrUnavailable = errors.New("not available in this dashboard mode")
)

// NewValidationError reports an invalid field in an analysis request
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidRequest, field, reason)
}

// NewTreeError reports a structural problem at a node path
func NewTreeError(path string, reason string) error {
	return fmt.Errorf("%w at %s: %s", ErrInvalidTree, path, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTree) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrRowShape)
}
