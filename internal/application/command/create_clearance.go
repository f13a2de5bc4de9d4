// Package command contains write operations (CQRS - Commands).
package command

import (
	"errors"

	"context"

	"github.com/registry-hub/progression-engine/internal/domain/clearance"
	"github.com/registry-hub/progression-engine/internal/domain/exemption"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/internal/observability"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

// CreateClearanceCommand enqueues one department clearance for a registration
// or graduation request. The new clearance starts pending unless an
// auto-approval rule matches the (student, term, department) triple, in which
// case it is decided approved immediately by the system actor.
type CreateClearanceCommand struct {
	// RequestID is the registration or graduation request the clearance gates.
	RequestID string

	// RequestType distinguishes registration from graduation requests.
	RequestType clearance.RequestType

	// Department is the queue the clearance enters.
	Department shared.Department

	// StudentNo and TermID identify the exemption triple to consult.
	StudentNo shared.StudentNo
	TermID    shared.TermID
}

// Validate validates the command.
func (c CreateClearanceCommand) Validate() error {
	if c.RequestID == "" {
		return shared.NewDomainError("clearance", "Create", shared.ErrInvalidID, "request ID is required")
	}
	if !c.Department.IsValid() {
		return shared.NewDomainError("clearance", "Create", shared.ErrInvalidInput, "unknown department")
	}
	if !c.StudentNo.IsValid() {
		return shared.NewDomainError("clearance", "Create", shared.ErrInvalidID, "invalid student number")
	}
	return nil
}

// CreateClearanceResult contains the created clearance.
type CreateClearanceResult struct {
	Clearance    *clearance.Record
	AutoApproved bool
	Event        shared.ClearanceCreatedEvent
}

// CreateClearanceHandler handles CreateClearanceCommand.
type CreateClearanceHandler struct {
	clearances clearance.Repository
	exemptions exemption.Repository
	modules    clearance.ModuleSource
	metrics    *observability.Metrics
	log        *logger.Logger
}

// NewCreateClearanceHandler creates a new CreateClearanceHandler.
func NewCreateClearanceHandler(
	clearances clearance.Repository,
	exemptions exemption.Repository,
	modules clearance.ModuleSource,
	metrics *observability.Metrics,
	log *logger.Logger,
) *CreateClearanceHandler {
	return &CreateClearanceHandler{
		clearances: clearances,
		exemptions: exemptions,
		modules:    modules,
		metrics:    metrics,
		log:        log,
	}
}

// Handle creates the pending clearance, writes its creation audit in the same
// transaction, then consults the auto-approval matcher.
func (h *CreateClearanceHandler) Handle(ctx context.Context, cmd CreateClearanceCommand) (*CreateClearanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	record, err := clearance.NewRecord(cmd.RequestID, cmd.Department)
	if err != nil {
		return nil, err
	}

	codes, err := h.modules.RequestModuleCodes(ctx, cmd.RequestID)
	if err != nil {
		return nil, shared.WrapError("clearance", "Create", shared.ErrInvalidEntity, "request module lookup failed", err)
	}

	audit := clearance.NewCreationAudit(record.ID, clearance.SystemActorID, codes)
	if err := h.clearances.Create(ctx, record, audit); err != nil {
		return nil, err
	}
	h.metrics.RecordAudit()

	result := &CreateClearanceResult{Clearance: record}

	matched, err := h.exemptions.Matches(ctx, exemption.Key{
		StudentNo:  cmd.StudentNo,
		TermID:     cmd.TermID,
		Department: cmd.Department,
	})
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		// The clearance is already queued; auto-approval is best-effort on
		// top of it, so a matcher failure leaves the record pending.
		h.log.Warn("exemption lookup failed, clearance left pending",
			logger.String("clearance_id", record.ID), logger.Err(err))
		result.Event = shared.NewClearanceCreatedEvent(record.ID, cmd.RequestID, cmd.Department, false)
		return result, nil
	}

	if matched {
		updated, err := h.clearances.Decide(ctx, clearance.DecideUpdate{
			ClearanceID: record.ID,
			NewStatus:   clearance.StatusApproved,
			Message:     "auto-approved",
			ActorID:     clearance.SystemActorID,
			ModuleCodes: codes,
		})
		if err != nil {
			return nil, err
		}
		result.Clearance = updated
		result.AutoApproved = true
		h.metrics.RecordAutoApproval()
		h.metrics.RecordAudit()
		h.metrics.RecordDecision(cmd.Department.String(), clearance.StatusApproved.String())
		h.log.Info("clearance auto-approved",
			logger.String("clearance_id", record.ID),
			logger.String("department", cmd.Department.String()),
			logger.Int64("student_no", cmd.StudentNo.Int64()))
	}

	result.Event = shared.NewClearanceCreatedEvent(record.ID, cmd.RequestID, cmd.Department, result.AutoApproved)
	return result, nil
}
