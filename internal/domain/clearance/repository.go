package clearance

import (
	"context"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// DecideUpdate carries one decision through the persistence port. The port
// executes read-current-status, write, and audit insert as one atomic unit:
// two concurrent decisions on the same clearance are serialized by the
// underlying transactional storage, and each produces its own audit row.
type DecideUpdate struct {
	ClearanceID string
	NewStatus   Status
	Message     string
	ActorID     string

	// ExpectedStatus, when non-nil, is an optimistic-concurrency check: the
	// decision fails with shared.ErrStateConflict if the stored status no
	// longer matches what the caller read.
	ExpectedStatus *Status

	// ModuleCodes is the request's module snapshot recorded on the audit row.
	ModuleCodes []string
}

// Repository is the persistence port for clearance records and their audit
// trails. Implementations must keep every mutation and its audit row in a
// single transaction; the engine never leaves partial audit state.
type Repository interface {
	// Create persists a new pending clearance, its request join row, and the
	// creation audit entry atomically.
	Create(ctx context.Context, record *Record, audit Audit) error

	// GetByID returns a clearance record.
	// Returns shared.ErrClearanceNotFound if unknown.
	GetByID(ctx context.Context, id string) (*Record, error)

	// ListByRequest returns all department clearances for one request.
	ListByRequest(ctx context.Context, requestID string) ([]Record, error)

	// NextPending returns the oldest pending clearance in a department's
	// queue (FIFO), or shared.ErrClearanceNotFound when the queue is empty.
	NextPending(ctx context.Context, department shared.Department) (*Record, error)

	// Decide applies a decision atomically: re-reads the current status,
	// applies the update, and inserts one audit row iff the status changed.
	// Returns the updated record.
	Decide(ctx context.Context, update DecideUpdate) (*Record, error)

	// ListAudits returns a clearance's audit trail, oldest first.
	ListAudits(ctx context.Context, clearanceID string) ([]Audit, error)
}

// ModuleSource supplies the module codes registered on a request, used to
// snapshot them onto audit rows at decision time.
type ModuleSource interface {
	RequestModuleCodes(ctx context.Context, requestID string) ([]string, error)
}
