package command

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/registry-hub/progression-engine/internal/domain/exemption"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/internal/observability"
	"github.com/registry-hub/progression-engine/pkg/logger"
)

// ImportRow is one staff-supplied row of a bulk exemption import.
type ImportRow struct {
	StdNo    int64  `validate:"required,gt=0"`
	TermCode string `validate:"required"`
}

// ImportExemptionsCommand bulk-imports auto-approval rules for one
// department. The import is best-effort row-by-row, not all-or-nothing:
// malformed rows are counted and skipped, never aborting the batch.
type ImportExemptionsCommand struct {
	Department shared.Department
	ActorID    string
	Rows       []ImportRow
}

// Validate validates the command envelope; rows are validated individually.
func (c ImportExemptionsCommand) Validate() error {
	if !c.Department.IsValid() {
		return shared.NewDomainError("exemption", "Import", shared.ErrInvalidInput, "unknown department")
	}
	if c.ActorID == "" {
		return shared.NewDomainError("exemption", "Import", shared.ErrInvalidID, "actor ID is required")
	}
	return nil
}

// ImportExemptionsResult reports per-row outcomes. The three counters always
// sum to the number of input rows.
type ImportExemptionsResult struct {
	Inserted         int
	Skipped          int
	InvalidTermCodes int
}

// ImportExemptionsHandler handles ImportExemptionsCommand.
type ImportExemptionsHandler struct {
	rules    exemption.Repository
	terms    exemption.TermDirectory
	validate *validator.Validate
	metrics  *observability.Metrics
	log      *logger.Logger
}

// NewImportExemptionsHandler creates a new ImportExemptionsHandler.
func NewImportExemptionsHandler(
	rules exemption.Repository,
	terms exemption.TermDirectory,
	metrics *observability.Metrics,
	log *logger.Logger,
) *ImportExemptionsHandler {
	return &ImportExemptionsHandler{
		rules:    rules,
		terms:    terms,
		validate: validator.New(),
		metrics:  metrics,
		log:      log,
	}
}

// Handle imports rows one by one. Term codes are resolved through a per-call
// cache so a thousand rows for the same term cost one directory lookup.
// Infrastructure failures abort the batch; bad rows never do.
func (h *ImportExemptionsHandler) Handle(ctx context.Context, cmd ImportExemptionsCommand) (*ImportExemptionsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &ImportExemptionsResult{}
	resolved := make(map[shared.TermCode]shared.TermID)
	unresolvable := make(map[shared.TermCode]bool)

	for _, row := range cmd.Rows {
		if err := h.validate.Struct(row); err != nil {
			result.InvalidTermCodes++
			h.metrics.RecordImportRow("invalid")
			continue
		}

		code, err := shared.NewTermCode(row.TermCode)
		if err != nil {
			result.InvalidTermCodes++
			h.metrics.RecordImportRow("invalid")
			continue
		}

		termID, ok := resolved[code]
		if !ok {
			if unresolvable[code] {
				result.InvalidTermCodes++
				h.metrics.RecordImportRow("invalid")
				continue
			}
			termID, err = h.terms.ResolveTermCode(ctx, code)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					unresolvable[code] = true
					result.InvalidTermCodes++
					h.metrics.RecordImportRow("invalid")
					continue
				}
				return nil, err
			}
			resolved[code] = termID
		}

		rule, err := exemption.NewRule(shared.StudentNo(row.StdNo), termID, cmd.Department, cmd.ActorID)
		if err != nil {
			result.InvalidTermCodes++
			h.metrics.RecordImportRow("invalid")
			continue
		}

		if err := h.rules.Insert(ctx, rule); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				result.Skipped++
				h.metrics.RecordImportRow("skipped")
				continue
			}
			return nil, err
		}
		result.Inserted++
		h.metrics.RecordImportRow("inserted")
	}

	h.log.Info("exemption bulk import finished",
		logger.String("department", cmd.Department.String()),
		logger.Int("rows", len(cmd.Rows)),
		logger.Int("inserted", result.Inserted),
		logger.Int("skipped", result.Skipped),
		logger.Int("invalid", result.InvalidTermCodes))
	return result, nil
}
