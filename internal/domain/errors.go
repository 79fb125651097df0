package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSPVNotFound is returned when an SPV identifier is unknown
	ErrSPVNotFound = errors.New("spv not found")

	// ErrUnauthenticated is returned when no principal could be resolved
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when the principal lacks a required role
	ErrForbidden = errors.New("forbidden")

	// ErrEmptySignature is returned when a submit is attempted without a signature
	ErrEmptySignature = errors.New("signature is required before submitting")

	// ErrInvalidStatus is returned when a transition names a status outside
	// the lifecycle set
	ErrInvalidStatus = errors.New("invalid status")
)

// ValidationError reports that a wizard step's required fields are not
// all populated. The triggering action is blocked; form state is retained.
type ValidationError struct {
	Step   string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %q is missing required fields: %s", e.Step, strings.Join(e.Fields, ", "))
}

// NewValidationError creates a validation error for a step
func NewValidationError(step string, fields ...string) *ValidationError {
	return &ValidationError{Step: step, Fields: fields}
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps a failed read or write against the deal record
// store or activity log. The operation is aborted and surfaced to the
// caller; partial multi-section writes may remain and are recovered by
// re-submitting the same operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a persistence failure of the named operation
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistenceError reports whether err is (or wraps) a PersistenceError
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// UploadError wraps a failed blob store call. Only the affected field is
// left unset; nothing else is rolled back.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
