package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCurrencyNotFound    = errors.New("currency not found")
	ErrInternalError       = errors.New("internal error")
)

// ValidationError reports user input that violates an invariant. It is always
// recoverable: the mutation is rejected and prior state is left unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-scoped validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ImmutableEntryError reports an attempt to rename or delete a protected
// category. Rejected before any mutation occurs.
type ImmutableEntryError struct {
	Name   string
	Reason string
}

func (e *ImmutableEntryError) Error() string {
	return fmt.Sprintf("category %q is protected: %s", e.Name, e.Reason)
}

// IsImmutableEntry reports whether err is an ImmutableEntryError
func IsImmutableEntry(err error) bool {
	var ie *ImmutableEntryError
	return errors.As(err, &ie)
}

// FormatError reports a malformed backup document. Rejected before any state
// is touched.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid backup document: %s", e.Reason)
}

// IsFormat reports whether err is a FormatError
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Validation constants
const (
	MaxVendorLength       = 255
	MaxNotesLength        = 1000
	MaxCategoryNameLength = 100
)
