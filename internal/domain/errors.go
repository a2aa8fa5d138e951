package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking. Together they form the closed
// failure taxonomy: every Failure result carries exactly one of them.
var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrValidation           = errors.New("validation error")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrCanceled             = errors.New("canceled")
	ErrUnavailable          = errors.New("unavailable")
)

// MsgRequired is the validation message for mandatory fields.
const MsgRequired = "is required"

// Kind names a member of the failure taxonomy.
type Kind string

const (
	KindNotFound             Kind = "NOT_FOUND"
	KindConflict             Kind = "CONFLICT"
	KindValidation           Kind = "VALIDATION"
	KindUnsupportedOperation Kind = "UNSUPPORTED_OPERATION"
	KindCanceled             Kind = "CANCELED"
	KindUnavailable          Kind = "UNAVAILABLE"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// taxonomy lists each sentinel with its kind. Order matters for KindOf:
// an error wrapping several sentinels is classified by the first match.
var taxonomy = []struct {
	sentinel error
	kind     Kind
}{
	{ErrValidation, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrConflict, KindConflict},
	{ErrUnsupportedOperation, KindUnsupportedOperation},
	{ErrCanceled, KindCanceled},
	{ErrUnavailable, KindUnavailable},
}

// KindOf classifies err against the taxonomy. The second return value is
// false when err is nil or wraps none of the sentinels.
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return "", false
	}
	for _, t := range taxonomy {
		if errors.Is(err, t.sentinel) {
			return t.kind, true
		}
	}
	return "", false
}

// Normalize maps err onto the taxonomy. Taxonomy errors are returned
// verbatim. Context cancellation and deadline errors are wrapped with
// ErrCanceled; anything else is wrapped with ErrUnavailable. Normalize(nil)
// returns nil.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a *ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
