package clearance

import (
	"time"

	"github.com/google/uuid"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// Audit is one append-only entry in a clearance's trail. Audits are never
// updated or deleted; every status-changing mutation produces exactly one
// entry in the same transaction as the mutation itself.
//
// PreviousStatus is nil only for the creation entry. ModuleCodes snapshots
// the request's modules at decision time so the decision stays traceable if
// the registration changes later.
type Audit struct {
	ID             string
	ClearanceID    string
	PreviousStatus *Status
	NewStatus      Status
	ActorID        string
	Message        string
	ModuleCodes    []string
	CreatedAt      time.Time
}

// NewAudit creates an audit entry for a status transition.
func NewAudit(clearanceID string, previous *Status, next Status, actorID, message string, moduleCodes []string) Audit {
	codes := make([]string, len(moduleCodes))
	copy(codes, moduleCodes)
	return Audit{
		ID:             uuid.NewString(),
		ClearanceID:    clearanceID,
		PreviousStatus: previous,
		NewStatus:      next,
		ActorID:        actorID,
		Message:        message,
		ModuleCodes:    codes,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewCreationAudit creates the first audit entry for a new clearance,
// with a nil previous status.
func NewCreationAudit(clearanceID, actorID string, moduleCodes []string) Audit {
	return NewAudit(clearanceID, nil, StatusPending, actorID, "", moduleCodes)
}

// StatusFromAudits folds an audit trail, oldest first, into the current
// status, verifying that each entry's previous status chains from the last
// entry's new status. The trail is the source of truth; a stored status that
// drifts from its trail is a data-integrity defect this fold exposes.
func StatusFromAudits(audits []Audit) (Status, error) {
	if len(audits) == 0 {
		return "", shared.ErrClearanceNotFound
	}
	if audits[0].PreviousStatus != nil {
		return "", shared.ErrBrokenAuditChain
	}

	current := audits[0].NewStatus
	for _, a := range audits[1:] {
		if a.PreviousStatus == nil || *a.PreviousStatus != current {
			return "", shared.ErrBrokenAuditChain
		}
		current = a.NewStatus
	}
	return current, nil
}
