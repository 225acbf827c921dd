package shared

import "errors"

// DomainError is a rule violation with a stable machine-readable code.
// Package-level DomainErrors act as sentinels for errors.Is.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	return e.Message
}

// CodeOf returns the code of the first DomainError in err's chain, or "".
func CodeOf(err error) string {
	var de *DomainError
	if !errors.As(err, &de) {
		return ""
	}
	return de.Code
}

// ErrInvalidInput marks a request rejected before any work started
var ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
