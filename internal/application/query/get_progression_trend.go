package query

import (
	"context"

	"github.com/registry-hub/progression-engine/internal/domain/grading"
	"github.com/registry-hub/progression-engine/internal/domain/progression"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

// GetProgressionTrendQuery asks for a student's per-semester GPA/CGPA trend.
type GetProgressionTrendQuery struct {
	StudentNo shared.StudentNo
}

// Validate validates the query.
func (q GetProgressionTrendQuery) Validate() error {
	if !q.StudentNo.IsValid() {
		return shared.NewDomainError("progression", "GetTrend", shared.ErrInvalidID, "invalid student number")
	}
	return nil
}

// ProgressionTrendResult is the trend for the selected enrollment.
type ProgressionTrendResult struct {
	ProgramName      string
	Points           []progression.TrendPoint
	CreditsAttempted float64
	CreditsCompleted float64
	IntegrityWarning bool
}

// GetProgressionTrendHandler handles GetProgressionTrendQuery.
type GetProgressionTrendHandler struct {
	source EnrollmentSource
	table  *grading.Table
	log    *logger.Logger
}

// NewGetProgressionTrendHandler creates a new GetProgressionTrendHandler.
func NewGetProgressionTrendHandler(source EnrollmentSource, table *grading.Table, log *logger.Logger) *GetProgressionTrendHandler {
	return &GetProgressionTrendHandler{source: source, table: table, log: log}
}

// Handle computes the trend over the selected enrollment's retained
// semesters in chronological order.
func (h *GetProgressionTrendHandler) Handle(ctx context.Context, q GetProgressionTrendQuery) (*ProgressionTrendResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	enrollments, err := h.source.ProgramEnrollments(ctx, q.StudentNo)
	if err != nil {
		return nil, err
	}

	selected, integrityWarning := progression.SelectEnrollment(enrollments)
	result := &ProgressionTrendResult{
		Points:           []progression.TrendPoint{},
		IntegrityWarning: integrityWarning,
	}
	if selected == nil {
		return result, nil
	}

	result.ProgramName = selected.ProgramName
	result.Points = progression.Trend(h.table, selected.RetainedSemesters())
	for _, p := range result.Points {
		result.CreditsAttempted += p.CreditsAttempted
		result.CreditsCompleted += p.CreditsCompleted
	}
	return result, nil
}
