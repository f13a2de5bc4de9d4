// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies
// beyond ID generation.
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
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrNegativeValue = errors.New("value cannot be negative")
	ErrInvalidFormat = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrStateConflict   = errors.New("state conflict: stale read")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Configuration errors: a broken static table (duplicate symbol, marks-range
	// gap or overlap) must halt at load time rather than silently misgrade.
	ErrConfiguration = errors.New("configuration error")

	// Data integrity: legacy data violating a write-boundary invariant,
	// surfaced as a distinguishable warning on the read side.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "grading", "clearance", "exemption"
	Op      string // Operation that failed, e.g., "Decide", "Resolve"
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

// Grading domain errors
var (
	ErrGradeNotFound     = NewDomainError("grading", "Resolve", ErrNotFound, "grade definition not found")
	ErrMarksOutOfRange   = NewDomainError("grading", "ResolveMarks", ErrInvalidInput, "marks must be between 0 and 100")
	ErrDuplicateSymbol   = NewDomainError("grading", "Load", ErrConfiguration, "duplicate grade symbol")
	ErrMarksRangeGap     = NewDomainError("grading", "Load", ErrConfiguration, "marks ranges do not cover 0-100")
	ErrMarksRangeOverlap = NewDomainError("grading", "Load", ErrConfiguration, "overlapping marks ranges")
)

// Progression domain errors
var (
	ErrEnrollmentNotFound     = NewDomainError("progression", "Select", ErrNotFound, "no program enrollment found")
	ErrMultipleActivePrograms = NewDomainError("progression", "Select", ErrDataIntegrity, "more than one active program enrollment")
)

// Clearance domain errors
var (
	ErrClearanceNotFound  = NewDomainError("clearance", "Get", ErrNotFound, "clearance record not found")
	ErrClearanceForbidden = NewDomainError("clearance", "Decide", ErrUnauthorized, "actor lacks the department role")
	ErrInvalidStatus      = NewDomainError("clearance", "Decide", ErrInvalidInput, "invalid clearance status")
	ErrStaleDecision      = NewDomainError("clearance", "Decide", ErrStateConflict, "clearance status changed since it was read")
	ErrBrokenAuditChain   = NewDomainError("clearance", "Fold", ErrDataIntegrity, "audit trail does not chain")
)

// Exemption domain errors
var (
	ErrRuleAlreadyExists = NewDomainError("exemption", "Insert", ErrAlreadyExists, "auto-approval rule already exists")
	ErrTermNotFound      = NewDomainError("exemption", "ResolveTerm", ErrNotFound, "term code does not resolve")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthorized checks if the error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsConfiguration checks if the error is a static-configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsStateConflict checks if the error is an optimistic-concurrency conflict.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrStateConflict)
}
