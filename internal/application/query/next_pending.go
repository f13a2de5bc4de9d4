package query

import (
	"context"
	"errors"

	"github.com/registry-hub/progression-engine/internal/domain/clearance"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

// NextPendingQuery asks for the next clearance a department should review.
// The queue is oldest-first: first come, first served.
type NextPendingQuery struct {
	Department shared.Department
}

// Validate validates the query.
func (q NextPendingQuery) Validate() error {
	if !q.Department.IsValid() {
		return shared.NewDomainError("clearance", "NextPending", shared.ErrInvalidInput, "unknown department")
	}
	return nil
}

// NextPendingResult holds the next pending clearance, if any.
type NextPendingResult struct {
	Clearance *clearance.Record
	Found     bool
}

// NextPendingHandler handles NextPendingQuery.
type NextPendingHandler struct {
	clearances clearance.Repository
	log        *logger.Logger
}

// NewNextPendingHandler creates a new NextPendingHandler.
func NewNextPendingHandler(clearances clearance.Repository, log *logger.Logger) *NextPendingHandler {
	return &NextPendingHandler{clearances: clearances, log: log}
}

// Handle returns the oldest pending clearance for the department's queue.
// An empty queue is a normal outcome, not an error.
func (h *NextPendingHandler) Handle(ctx context.Context, q NextPendingQuery) (*NextPendingResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	record, err := h.clearances.NextPending(ctx, q.Department)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &NextPendingResult{}, nil
		}
		return nil, err
	}
	return &NextPendingResult{Clearance: record, Found: true}, nil
}
