package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrDuplicateEmail      = errors.New("an account with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrDuplicateCode       = errors.New("country with this code already exists")
	ErrCountryNotFound     = errors.New("country not found")
	ErrForbidden           = errors.New("administrator access required")
	ErrUnauthenticated     = errors.New("no active session")
	ErrFlowBusy            = errors.New("a payment is already in progress")
	ErrInvalidTransition   = errors.New("invalid submission state transition")
	ErrSubmissionAbandoned = errors.New("submission abandoned before settlement")
)

// ValidationError carries per-field messages for bad input.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{}}
}

func (e *ValidationError) add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}
