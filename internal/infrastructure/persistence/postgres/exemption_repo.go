package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/registry-hub/progression-engine/internal/domain/exemption"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// ExemptionRepository implements exemption.Repository for PostgreSQL.
// Triple uniqueness is enforced by the uniq_rule_triple constraint, so
// concurrent imports of the same row resolve to exactly one insert.
type ExemptionRepository struct {
	conn *Connection
}

// NewExemptionRepository creates a new ExemptionRepository.
func NewExemptionRepository(conn *Connection) *ExemptionRepository {
	return &ExemptionRepository{conn: conn}
}

// Insert persists an auto-approval rule.
func (r *ExemptionRepository) Insert(ctx context.Context, rule exemption.Rule) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO auto_approval_rules (id, student_no, term_id, department, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rule.ID, rule.StudentNo.Int64(), int64(rule.TermID), string(rule.Department),
		rule.CreatedBy, rule.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrRuleAlreadyExists
		}
		return fmt.Errorf("insert rule: %w", err)
	}
	return nil
}

// Matches reports whether an exact (student, term, department) triple is
// registered.
func (r *ExemptionRepository) Matches(ctx context.Context, key exemption.Key) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM auto_approval_rules
			WHERE student_no = $1 AND term_id = $2 AND department = $3
		)`,
		key.StudentNo.Int64(), int64(key.TermID), string(key.Department),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("match rule: %w", err)
	}
	return exists, nil
}

// TermDirectory implements exemption.TermDirectory over the terms table.
type TermDirectory struct {
	conn *Connection
}

// NewTermDirectory creates a new TermDirectory.
func NewTermDirectory(conn *Connection) *TermDirectory {
	return &TermDirectory{conn: conn}
}

// ResolveTermCode returns the term ID for a code.
func (d *TermDirectory) ResolveTermCode(ctx context.Context, code shared.TermCode) (shared.TermID, error) {
	var id int64
	err := d.conn.QueryRow(ctx,
		`SELECT id FROM terms WHERE code = $1`, code.String()).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrTermNotFound
		}
		return 0, fmt.Errorf("resolve term: %w", err)
	}
	return shared.TermID(id), nil
}
