// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain. Handlers map these to HTTP status codes;
// services wrap them with %w so errors.Is keeps working through the chain.
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrImmutableField = errors.New("immutable field")
	ErrInvalidValue   = errors.New("invalid value")
	ErrOffline        = errors.New("device is offline")
	ErrCommit         = errors.New("inventory commit failed")
)

// NotFound wraps ErrNotFound with the resource and id.
func NotFound(resource string, id any) error {
	return fmt.Errorf("%s %v: %w", resource, id, ErrNotFound)
}

// Validation wraps ErrValidation with a human-readable reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Immutable wraps ErrImmutableField naming the offending field.
func Immutable(field string) error {
	return fmt.Errorf("field %q cannot be modified: %w", field, ErrImmutableField)
}

// InvalidValue wraps ErrInvalidValue naming the field and value.
func InvalidValue(field string, value any) error {
	return fmt.Errorf("field %q has invalid value %v: %w", field, value, ErrInvalidValue)
}

// Commit wraps ErrCommit with the failing step so a partial failure
// (replenish ok, purge failed) stays distinguishable.
func Commit(step string, err error) error {
	return fmt.Errorf("%s: %v: %w", step, err, ErrCommit)
}
