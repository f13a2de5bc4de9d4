package query

import (
	"context"

	"github.com/registry-hub/progression-engine/internal/domain/clearance"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

// GetClearanceStatusQuery asks for the overall clearance status of one
// registration or graduation request. The required department set comes from
// the caller; RequestType supplies the default when Required is empty.
type GetClearanceStatusQuery struct {
	RequestID   string
	RequestType clearance.RequestType
	Required    []shared.Department
}

// Validate validates the query.
func (q GetClearanceStatusQuery) Validate() error {
	if q.RequestID == "" {
		return shared.NewDomainError("clearance", "GetStatus", shared.ErrInvalidID, "request ID is required")
	}
	return nil
}

// ClearanceStatusResult is the aggregated view of a request's clearances.
type ClearanceStatusResult struct {
	Overall  clearance.Status
	Records  []clearance.Record
	Required []shared.Department
}

// GetClearanceStatusHandler handles GetClearanceStatusQuery.
type GetClearanceStatusHandler struct {
	clearances clearance.Repository
	log        *logger.Logger
}

// NewGetClearanceStatusHandler creates a new GetClearanceStatusHandler.
func NewGetClearanceStatusHandler(clearances clearance.Repository, log *logger.Logger) *GetClearanceStatusHandler {
	return &GetClearanceStatusHandler{clearances: clearances, log: log}
}

// Handle aggregates the request's department clearances. Rejection dominates;
// a missing required department counts as pending.
func (h *GetClearanceStatusHandler) Handle(ctx context.Context, q GetClearanceStatusQuery) (*ClearanceStatusResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	required := q.Required
	if len(required) == 0 {
		required = q.RequestType.RequiredDepartments()
	}

	records, err := h.clearances.ListByRequest(ctx, q.RequestID)
	if err != nil {
		return nil, err
	}

	return &ClearanceStatusResult{
		Overall:  clearance.Aggregate(records, required),
		Records:  records,
		Required: required,
	}, nil
}
