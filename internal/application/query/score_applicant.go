package query

import (
	"context"

	"github.com/registry-hub/progression-engine/internal/domain/admission"
	"github.com/registry-hub/progression-engine/internal/domain/grading"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

// ScoreApplicantQuery ranks an applicant's academic records against one
// program's entry requirement.
type ScoreApplicantQuery struct {
	ApplicantID string
	Records     []admission.AcademicRecord

	// Requirement is nil when no entry requirement exists for the
	// level/program pair; the result then carries a nil score.
	Requirement *admission.EntryRequirement
}

// Validate validates the query.
func (q ScoreApplicantQuery) Validate() error {
	if q.ApplicantID == "" {
		return shared.NewDomainError("admission", "Score", shared.ErrInvalidID, "applicant ID is required")
	}
	return nil
}

// ApplicantScoreResult distinguishes the two failure modes callers must not
// conflate: a nil Score means no applicable entry requirement was found; a
// non-nil zero means the rules were evaluated and not met.
type ApplicantScoreResult struct {
	ApplicantID string
	Score       *float64
}

// Evaluated reports whether an entry requirement was applied at all.
func (r ApplicantScoreResult) Evaluated() bool {
	return r.Score != nil
}

// Met reports whether the rules were evaluated and satisfied.
func (r ApplicantScoreResult) Met() bool {
	return r.Score != nil && *r.Score > 0
}

// ScoreApplicantHandler handles ScoreApplicantQuery.
type ScoreApplicantHandler struct {
	table *grading.Table
	log   *logger.Logger
}

// NewScoreApplicantHandler creates a new ScoreApplicantHandler.
func NewScoreApplicantHandler(table *grading.Table, log *logger.Logger) *ScoreApplicantHandler {
	return &ScoreApplicantHandler{table: table, log: log}
}

// Handle scores the applicant over their highest qualification level only.
func (h *ScoreApplicantHandler) Handle(ctx context.Context, q ScoreApplicantQuery) (*ApplicantScoreResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	score := admission.Score(h.table, q.Records, q.Requirement)
	return &ApplicantScoreResult{ApplicantID: q.ApplicantID, Score: score}, nil
}
