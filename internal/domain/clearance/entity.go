// Package clearance contains the multi-department clearance state machine:
// per-department approval lifecycle, append-only audit trail, and the
// aggregation of department decisions into one overall status.
package clearance

import (
	"time"

	"github.com/google/uuid"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// Status is a department's decision state for one clearance record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is a known clearance status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// RequestType distinguishes what a clearance gates.
type RequestType string

const (
	RequestRegistration RequestType = "registration"
	RequestGraduation   RequestType = "graduation"
)

// RequiredDepartments returns the default department set gating each request
// type. The aggregation itself takes the set as a parameter; these are the
// caller-side defaults, not hard-coded into the state machine.
func (t RequestType) RequiredDepartments() []shared.Department {
	switch t {
	case RequestGraduation:
		return []shared.Department{shared.DepartmentFinance, shared.DepartmentLibrary, shared.DepartmentAcademic}
	default:
		return []shared.Department{shared.DepartmentFinance, shared.DepartmentLibrary}
	}
}

// Record is one department's decision for one registration or graduation
// request. There is no terminal state: departments can reverse a decision,
// and every status transition is audit-logged.
type Record struct {
	ID           string
	RequestID    string
	Department   shared.Department
	Status       Status
	Message      string
	RespondedBy  string
	ResponseDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewRecord creates a pending clearance for a department queue.
func NewRecord(requestID string, department shared.Department) (*Record, error) {
	if requestID == "" {
		return nil, shared.NewDomainError("clearance", "Create", shared.ErrInvalidID, "request ID is required")
	}
	if !department.IsValid() {
		return nil, shared.NewDomainError("clearance", "Create", shared.ErrInvalidInput, "unknown department")
	}
	now := time.Now().UTC()
	return &Record{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		Department: department,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Decide applies a department decision to the record and reports whether the
// status actually changed. Re-decisions are allowed; the record is updated
// either way (e.g. a message edit), but only real transitions are audited.
func (r *Record) Decide(newStatus Status, message, actorID string, at time.Time) (bool, error) {
	if !newStatus.IsValid() {
		return false, shared.ErrInvalidStatus
	}
	if actorID == "" {
		return false, shared.NewDomainError("clearance", "Decide", shared.ErrInvalidID, "actor ID is required")
	}

	changed := r.Status != newStatus
	r.Status = newStatus
	r.Message = message
	r.RespondedBy = actorID
	r.ResponseDate = &at
	r.UpdatedAt = at
	return changed, nil
}

// Actor is whoever decides clearances. Role resolution happens outside the
// engine; the engine only checks department membership.
type Actor struct {
	ID          string
	Departments []shared.Department
}

// SystemActorID marks decisions made by the engine itself (auto-approval).
const SystemActorID = "system"

// SystemActor is the engine's own actor, member of every department.
func SystemActor() Actor {
	return Actor{ID: SystemActorID, Departments: shared.AllDepartments()}
}

// CanDecide reports whether the actor holds the department's role.
func (a Actor) CanDecide(department shared.Department) bool {
	for _, d := range a.Departments {
		if d == department {
			return true
		}
	}
	return false
}

// Aggregate folds department records into one overall status for a request.
// Rejection dominates: any required department rejected makes the whole
// request rejected; a missing or pending required department keeps it
// pending; otherwise it is approved. The required set is caller-supplied.
func Aggregate(records []Record, required []shared.Department) Status {
	byDept := make(map[shared.Department]Status, len(records))
	for _, r := range records {
		byDept[r.Department] = r.Status
	}

	overall := StatusApproved
	for _, dept := range required {
		status, ok := byDept[dept]
		if !ok {
			status = StatusPending
		}
		if status == StatusRejected {
			return StatusRejected
		}
		if status == StatusPending {
			overall = StatusPending
		}
	}
	return overall
}
