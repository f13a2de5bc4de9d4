package command

import (
	"context"

	"github.com/registry-hub/progression-engine/internal/domain/clearance"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/internal/observability"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

// DecideClearanceCommand applies one department decision to a clearance.
// Reversals (approved→rejected and back) are permitted; there is no terminal
// state. Only real status transitions produce audit rows - a same-status
// update (e.g. a message edit) updates the record without touching the trail.
type DecideClearanceCommand struct {
	// ClearanceID identifies the record being decided.
	ClearanceID string

	// NewStatus is the decision: approved or rejected (or back to pending).
	NewStatus clearance.Status

	// Message is the department's optional note to the student.
	Message string

	// Actor is whoever decides; they must hold the record's department role.
	Actor clearance.Actor

	// ExpectedStatus, when non-nil, makes the decision fail with
	// shared.ErrStateConflict if the stored status changed since it was read.
	ExpectedStatus *clearance.Status
}

// Validate validates the command.
func (c DecideClearanceCommand) Validate() error {
	if c.ClearanceID == "" {
		return shared.NewDomainError("clearance", "Decide", shared.ErrInvalidID, "clearance ID is required")
	}
	if !c.NewStatus.IsValid() {
		return shared.ErrInvalidStatus
	}
	if c.Actor.ID == "" {
		return shared.NewDomainError("clearance", "Decide", shared.ErrInvalidID, "actor ID is required")
	}
	return nil
}

// DecideClearanceResult contains the updated clearance.
type DecideClearanceResult struct {
	Clearance     *clearance.Record
	StatusChanged bool
	Event         shared.ClearanceDecidedEvent
}

// DecideClearanceHandler handles DecideClearanceCommand.
type DecideClearanceHandler struct {
	clearances clearance.Repository
	modules    clearance.ModuleSource
	metrics    *observability.Metrics
	log        *logger.Logger
}

// NewDecideClearanceHandler creates a new DecideClearanceHandler.
func NewDecideClearanceHandler(
	clearances clearance.Repository,
	modules clearance.ModuleSource,
	metrics *observability.Metrics,
	log *logger.Logger,
) *DecideClearanceHandler {
	return &DecideClearanceHandler{
		clearances: clearances,
		modules:    modules,
		metrics:    metrics,
		log:        log,
	}
}

// Handle authorizes the actor against the record's department, snapshots the
// request's module codes, and applies the decision atomically through the
// persistence port.
func (h *DecideClearanceHandler) Handle(ctx context.Context, cmd DecideClearanceCommand) (*DecideClearanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	record, err := h.clearances.GetByID(ctx, cmd.ClearanceID)
	if err != nil {
		return nil, err
	}
	if !cmd.Actor.CanDecide(record.Department) {
		return nil, shared.ErrClearanceForbidden
	}

	codes, err := h.modules.RequestModuleCodes(ctx, record.RequestID)
	if err != nil {
		return nil, shared.WrapError("clearance", "Decide", shared.ErrInvalidEntity, "request module lookup failed", err)
	}

	previous := record.Status
	updated, err := h.clearances.Decide(ctx, clearance.DecideUpdate{
		ClearanceID:    cmd.ClearanceID,
		NewStatus:      cmd.NewStatus,
		Message:        cmd.Message,
		ActorID:        cmd.Actor.ID,
		ExpectedStatus: cmd.ExpectedStatus,
		ModuleCodes:    codes,
	})
	if err != nil {
		return nil, err
	}

	changed := previous != updated.Status
	h.metrics.RecordDecision(record.Department.String(), updated.Status.String())
	if changed {
		h.metrics.RecordAudit()
	}
	h.log.Info("clearance decided",
		logger.String("clearance_id", cmd.ClearanceID),
		logger.String("department", record.Department.String()),
		logger.String("previous", previous.String()),
		logger.String("status", updated.Status.String()),
		logger.String("actor", cmd.Actor.ID))

	return &DecideClearanceResult{
		Clearance:     updated,
		StatusChanged: changed,
		Event: shared.NewClearanceDecidedEvent(
			cmd.ClearanceID, record.Department, previous.String(), updated.Status.String(), cmd.Actor.ID),
	}, nil
}
