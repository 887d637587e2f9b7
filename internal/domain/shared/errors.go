// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrLocked          = errors.New("record is locked")
	ErrExpired         = errors.New("expired")

	// Configuration errors
	ErrConfiguration = errors.New("configuration error")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "specialization", "procedure", "template"
	Op      string // Operation that failed, e.g., "Create", "Recompute"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Resident domain errors
var (
	ErrResidentNotFound      = NewDomainError("resident", "Find", ErrNotFound, "resident not found")
	ErrResidentAlreadyExists = NewDomainError("resident", "Create", ErrAlreadyExists, "resident already exists")
	ErrInvalidEmail          = NewDomainError("resident", "Validate", ErrInvalidInput, "invalid email")
)

// Specialization domain errors
var (
	ErrSpecializationNotFound = NewDomainError("specialization", "Find", ErrNotFound, "specialization not found")
	ErrModuleNotFound         = NewDomainError("specialization", "FindModule", ErrNotFound, "module not found")
	ErrInvalidProgramCode     = NewDomainError("specialization", "Validate", ErrInvalidInput, "invalid program code")
	ErrInvalidSmkVersion      = NewDomainError("specialization", "Validate", ErrInvalidInput, "invalid SMK version")
	ErrInvalidDuration        = NewDomainError("specialization", "Validate", ErrValueOutOfRange, "duration must be positive")
)

// Training record domain errors
var (
	ErrInternshipNotFound = NewDomainError("training", "FindInternship", ErrNotFound, "internship not found")
	ErrProcedureNotFound  = NewDomainError("training", "FindProcedure", ErrNotFound, "procedure not found")
	ErrShiftNotFound      = NewDomainError("training", "FindShift", ErrNotFound, "medical shift not found")
	ErrAbsenceNotFound    = NewDomainError("training", "FindAbsence", ErrNotFound, "absence not found")
	ErrRecordLocked       = NewDomainError("training", "Mutate", ErrLocked, "record synced with SMK and locked")
	ErrInvalidRole        = NewDomainError("training", "Validate", ErrInvalidInput, "execution role must be A or B")
	ErrInvalidShiftTime   = NewDomainError("training", "Validate", ErrValueOutOfRange, "shift duration out of range")
)

// Template errors
var (
	ErrTemplateNotFound  = NewDomainError("template", "Load", ErrNotFound, "specialization template not found")
	ErrTemplateMalformed = NewDomainError("template", "Parse", ErrConfiguration, "specialization template malformed")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsLocked checks if the error indicates an immutable, externally synced record.
func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsConfiguration checks if the error is a configuration/template-format error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
