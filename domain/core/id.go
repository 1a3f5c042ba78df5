package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// RequestIDHeader carries the request ID on HTTP requests and responses
const RequestIDHeader = "X-Request-ID"

// RequestID correlates one dashboard request with the backend calls it makes
type RequestID ID

func (id RequestID) String() string { return ID(id).String() }

// NewRequestID returns a fresh request ID
func NewRequestID() RequestID {
	return RequestID(NewID())
}

// ParseRequestID parses a string into RequestID
func ParseRequestID(s string) (RequestID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	return RequestID(strings.TrimSpace(s)), nil
}

type requestIDKey struct{}

// WithRequestID stores the request ID on the context
func WithRequestID(ctx context.Context, id RequestID) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored on ctx, if any
func RequestIDFromContext(ctx context.Context) (RequestID, bool) {
	id, ok := ctx.Value(requestIDKey{}).(RequestID)
	return id, ok && id != ""
}
