package services

import (
	"errors"
	"sort"
	"strings"

	"StorefrontAPI/internal/repository"
)

var (
	ErrNotFound         = repository.ErrNotFound
	ErrConflict         = repository.ErrConflict
	ErrInvalidReference = repository.ErrInvalidReference

	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrSelfActionDenied   = errors.New("action not allowed on your own account")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed input. Fields maps a json field name to
// the rule it broke.
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
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{
		Message: "validation failed",
		Fields:  map[string]string{field: reason},
	}
}
