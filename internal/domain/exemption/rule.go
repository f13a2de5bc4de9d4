// Package exemption contains auto-approval rules: pre-registered
// (student, term, department) triples that bypass a department's manual
// clearance review.
package exemption

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// Rule grants automatic approval for one (student, term, department) triple.
// The triple is unique; a rule only ever affects clearances for the same
// student, term, and department.
type Rule struct {
	ID         string
	StudentNo  shared.StudentNo
	TermID     shared.TermID
	Department shared.Department
	CreatedBy  string
	CreatedAt  time.Time
}

// Key is the uniqueness key of a rule.
type Key struct {
	StudentNo  shared.StudentNo
	TermID     shared.TermID
	Department shared.Department
}

// Key returns the rule's uniqueness key.
func (r Rule) Key() Key {
	return Key{StudentNo: r.StudentNo, TermID: r.TermID, Department: r.Department}
}

// NewRule creates a validated auto-approval rule.
func NewRule(studentNo shared.StudentNo, termID shared.TermID, department shared.Department, createdBy string) (Rule, error) {
	if !studentNo.IsValid() {
		return Rule{}, shared.NewDomainError("exemption", "NewRule", shared.ErrInvalidID, "invalid student number")
	}
	if !termID.IsValid() {
		return Rule{}, shared.NewDomainError("exemption", "NewRule", shared.ErrInvalidID, "invalid term ID")
	}
	if !department.IsValid() {
		return Rule{}, shared.NewDomainError("exemption", "NewRule", shared.ErrInvalidInput, "unknown department")
	}
	return Rule{
		ID:         uuid.NewString(),
		StudentNo:  studentNo,
		TermID:     termID,
		Department: department,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Repository is the persistence port for auto-approval rules.
type Repository interface {
	// Insert persists a rule.
	// Returns shared.ErrRuleAlreadyExists when the triple already exists.
	Insert(ctx context.Context, rule Rule) error

	// Matches reports whether an exact triple is registered.
	Matches(ctx context.Context, key Key) (bool, error)
}

// TermDirectory resolves human-entered term codes to internal term IDs.
// Bulk imports cache resolutions per call; the directory itself may hit
// storage.
type TermDirectory interface {
	// ResolveTermCode returns the term ID for a code.
	// Returns shared.ErrTermNotFound for unknown codes.
	ResolveTermCode(ctx context.Context, code shared.TermCode) (shared.TermID, error)
}
