package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Namer produces a product for a category.
// Implementations return a *NamingError when the collaborator fails.
type Namer interface {
	Name(ctx context.Context, category Category) (Product, error)
}

// NamingErrorKind classifies naming collaborator failures for logging and metrics
type NamingErrorKind string

const (
	NamingErrorNetwork NamingErrorKind = "network"
	NamingErrorStatus  NamingErrorKind = "status"
	NamingErrorSchema  NamingErrorKind = "schema"
	// NamingErrorUnknown is reported for errors that do not carry a kind
	NamingErrorUnknown NamingErrorKind = "unknown"
)

// NamingError is returned by Namer implementations
type NamingError struct {
	Kind       NamingErrorKind
	Category   Category
	StatusCode int // set for NamingErrorStatus
	Err        error
}

func (e *NamingError) Error() string {
	switch e.Kind {
	case NamingErrorStatus:
		return fmt.Sprintf("naming %s: unexpected status %d: %v", e.Category, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("naming %s: %s error: %v", e.Category, e.Kind, e.Err)
	}
}

func (e *NamingError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a naming failure, or NamingErrorUnknown
func KindOf(err error) NamingErrorKind {
	var namingErr *NamingError
	if errors.As(err, &namingErr) {
		return namingErr.Kind
	}
	return NamingErrorUnknown
}
