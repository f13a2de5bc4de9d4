// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/registry-hub/progression-engine/internal/domain/grading"
	"github.com/registry-hub/progression-engine/internal/domain/progression"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/internal/observability"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

// EnrollmentSource supplies a student's program enrollments with their
// semesters and module attempts, fully loaded. Implemented by the
// persistence layer.
type EnrollmentSource interface {
	ProgramEnrollments(ctx context.Context, studentNo shared.StudentNo) ([]progression.ProgramEnrollment, error)
}

// RemarksCache caches computed remarks per student. Get returns (nil, nil)
// on a miss. The cache is a pure read-path optimization: failures degrade to
// recomputation, never to an error.
type RemarksCache interface {
	Get(ctx context.Context, studentNo shared.StudentNo) (*progression.RemarksResult, error)
	Set(ctx context.Context, studentNo shared.StudentNo, result progression.RemarksResult) error
	Invalidate(ctx context.Context, studentNo shared.StudentNo) error
}

// GetAcademicRemarksQuery asks for a student's academic standing.
type GetAcademicRemarksQuery struct {
	StudentNo shared.StudentNo

	// SkipCache forces recomputation, e.g. right after marks capture.
	SkipCache bool
}

// Validate validates the query.
func (q GetAcademicRemarksQuery) Validate() error {
	if !q.StudentNo.IsValid() {
		return shared.NewDomainError("progression", "GetRemarks", shared.ErrInvalidID, "invalid student number")
	}
	return nil
}

// GetAcademicRemarksHandler handles GetAcademicRemarksQuery.
type GetAcademicRemarksHandler struct {
	source  EnrollmentSource
	table   *grading.Table
	cache   RemarksCache // optional
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewGetAcademicRemarksHandler creates a new GetAcademicRemarksHandler.
// cache may be nil.
func NewGetAcademicRemarksHandler(
	source EnrollmentSource,
	table *grading.Table,
	cache RemarksCache,
	metrics *observability.Metrics,
	log *logger.Logger,
) *GetAcademicRemarksHandler {
	return &GetAcademicRemarksHandler{
		source:  source,
		table:   table,
		cache:   cache,
		metrics: metrics,
		log:     log,
	}
}

// Handle selects the student's enrollment (Active, or most recent Completed),
// evaluates the remarks policy over it, and caches the result.
func (h *GetAcademicRemarksHandler) Handle(ctx context.Context, q GetAcademicRemarksQuery) (*progression.RemarksResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.cache != nil && !q.SkipCache {
		cached, err := h.cache.Get(ctx, q.StudentNo)
		if err != nil {
			h.log.Warn("remarks cache read failed", logger.Int64("student_no", q.StudentNo.Int64()), logger.Err(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	enrollments, err := h.source.ProgramEnrollments(ctx, q.StudentNo)
	if err != nil {
		return nil, err
	}

	selected, integrityWarning := progression.SelectEnrollment(enrollments)
	result := progression.EvaluateRemarks(h.table, selected)
	result.IntegrityWarning = integrityWarning
	if integrityWarning {
		h.log.Warn("multiple active program enrollments, most recent wins",
			logger.Int64("student_no", q.StudentNo.Int64()))
	}

	h.metrics.RecordRemarks(string(result.Standing))

	if h.cache != nil {
		if err := h.cache.Set(ctx, q.StudentNo, result); err != nil {
			h.log.Warn("remarks cache write failed", logger.Int64("student_no", q.StudentNo.Int64()), logger.Err(err))
		}
	}
	return &result, nil
}
