// Package progression contains the academic progression core: module attempts,
// semester records, the semester summarizer, the cumulative GPA tracker, and
// the faculty remarks policy. Everything here is a pure computation over plain
// records supplied by the persistence layer.
package progression

import (
	"sort"
	"time"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// AttemptStatus is the lifecycle status of one module attempt.
// Attempts are never physically deleted: Delete/Drop exclude the attempt from
// GPA and credit computation but retain it for audit.
type AttemptStatus string

const (
	AttemptCompulsory AttemptStatus = "Compulsory"
	AttemptElective   AttemptStatus = "Elective"
	AttemptRepeat1    AttemptStatus = "Repeat1"
	AttemptRepeat2    AttemptStatus = "Repeat2"
	AttemptRepeat3    AttemptStatus = "Repeat3"
	AttemptDelete     AttemptStatus = "Delete"
	AttemptDrop       AttemptStatus = "Drop"
)

// Excluded reports whether the attempt never contributes to any total.
func (s AttemptStatus) Excluded() bool {
	return s == AttemptDelete || s == AttemptDrop
}

// ModuleAttempt is one student's result for one module in one semester.
type ModuleAttempt struct {
	ModuleCode  string
	ModuleName  string
	Credits     shared.Credits
	GradeSymbol string // raw, pre-normalization
	Status      AttemptStatus
}

// SemesterStatus is the lifecycle status of a semester record.
type SemesterStatus string

const (
	SemesterActive     SemesterStatus = "Active"
	SemesterRepeat     SemesterStatus = "Repeat"
	SemesterDeferred   SemesterStatus = "Deferred"
	SemesterDroppedOut SemesterStatus = "DroppedOut"
	SemesterWithdrawn  SemesterStatus = "Withdrawn"
	SemesterDeleted    SemesterStatus = "Deleted"
)

// Retained reports whether the semester participates in the remarks and
// progression pipeline at all. Deleted/Deferred/DroppedOut/Withdrawn
// semesters are excluded entirely, not merely credit-zeroed.
func (s SemesterStatus) Retained() bool {
	switch s {
	case SemesterDeleted, SemesterDeferred, SemesterDroppedOut, SemesterWithdrawn:
		return false
	}
	return true
}

// SemesterRecord holds one semester of a program enrollment.
// TermSequence is an explicit monotonically increasing term ordinal; it, not
// the persisted ID, defines chronological order.
type SemesterRecord struct {
	ID           int64
	Number       int
	Term         string
	TermSequence int
	Status       SemesterStatus
	Attempts     []ModuleAttempt
}

// EnrollmentStatus is the lifecycle status of a program enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "Active"
	EnrollmentCompleted EnrollmentStatus = "Completed"
	EnrollmentChanged   EnrollmentStatus = "Changed"
	EnrollmentDeleted   EnrollmentStatus = "Deleted"
	EnrollmentInactive  EnrollmentStatus = "Inactive"
)

// ProgramEnrollment is one student's enrollment in a program structure.
type ProgramEnrollment struct {
	ID          int64
	ProgramName string
	Status      EnrollmentStatus
	CreatedAt   time.Time
	Semesters   []SemesterRecord
}

// RetainedSemesters returns the enrollment's retained semesters in ascending
// chronological order by term sequence.
func (p *ProgramEnrollment) RetainedSemesters() []SemesterRecord {
	out := make([]SemesterRecord, 0, len(p.Semesters))
	for _, s := range p.Semesters {
		if s.Status.Retained() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TermSequence < out[j].TermSequence
	})
	return out
}

// SelectEnrollment picks the enrollment the remarks policy operates on:
// the Active one, or the most recent Completed one when none is active.
//
// At most one Active enrollment should exist per student; that invariant is
// enforced at the write boundary. When legacy data violates it, the most
// recently created Active enrollment wins and the second return is true so
// the read side can surface a data-integrity warning instead of crashing.
func SelectEnrollment(enrollments []ProgramEnrollment) (*ProgramEnrollment, bool) {
	var active []*ProgramEnrollment
	for i := range enrollments {
		if enrollments[i].Status == EnrollmentActive {
			active = append(active, &enrollments[i])
		}
	}

	if len(active) > 0 {
		best := active[0]
		for _, e := range active[1:] {
			if e.CreatedAt.After(best.CreatedAt) ||
				(e.CreatedAt.Equal(best.CreatedAt) && e.ID > best.ID) {
				best = e
			}
		}
		return best, len(active) > 1
	}

	var completed *ProgramEnrollment
	for i := range enrollments {
		e := &enrollments[i]
		if e.Status != EnrollmentCompleted {
			continue
		}
		if completed == nil || e.CreatedAt.After(completed.CreatedAt) ||
			(e.CreatedAt.Equal(completed.CreatedAt) && e.ID > completed.ID) {
			completed = e
		}
	}
	return completed, false
}
