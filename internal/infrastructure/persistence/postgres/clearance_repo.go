package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/registry-hub/progression-engine/internal/domain/clearance"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// ClearanceRepository implements clearance.Repository for PostgreSQL.
// Every mutation and its audit row commit in one transaction; concurrent
// decisions on the same clearance serialize on the row lock, and each
// committed decision leaves its own audit row.
type ClearanceRepository struct {
	conn *Connection
}

// NewClearanceRepository creates a new ClearanceRepository.
func NewClearanceRepository(conn *Connection) *ClearanceRepository {
	return &ClearanceRepository{conn: conn}
}

const clearanceColumns = `id, request_id, department, status, message, responded_by, response_date, created_at, updated_at`

// Create persists a new pending clearance, its request join row, and the
// creation audit entry atomically.
func (r *ClearanceRepository) Create(ctx context.Context, record *clearance.Record, audit clearance.Audit) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO clearances (id, request_id, department, status, message, responded_by, response_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			record.ID, record.RequestID, string(record.Department), string(record.Status),
			record.Message, record.RespondedBy, record.ResponseDate, record.CreatedAt, record.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert clearance: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO request_clearances (request_id, clearance_id) VALUES ($1, $2)`,
			record.RequestID, record.ID,
		)
		if err != nil {
			return fmt.Errorf("insert request join: %w", err)
		}

		return insertAudit(ctx, tx, audit)
	})
}

// GetByID returns a clearance record.
func (r *ClearanceRepository) GetByID(ctx context.Context, id string) (*clearance.Record, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+clearanceColumns+` FROM clearances WHERE id = $1`, id)
	return scanClearance(row)
}

// ListByRequest returns all department clearances for one request.
func (r *ClearanceRepository) ListByRequest(ctx context.Context, requestID string) ([]clearance.Record, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+clearanceColumns+` FROM clearances WHERE request_id = $1 ORDER BY created_at`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list clearances: %w", err)
	}
	defer rows.Close()

	var records []clearance.Record
	for rows.Next() {
		rec, err := scanClearance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// NextPending returns the oldest pending clearance in a department queue.
func (r *ClearanceRepository) NextPending(ctx context.Context, department shared.Department) (*clearance.Record, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT `+clearanceColumns+` FROM clearances
		WHERE department = $1 AND status = 'pending'
		ORDER BY created_at ASC
		LIMIT 1`, string(department))
	return scanClearance(row)
}

// Decide applies a decision atomically: locks the row, verifies the optional
// expected status, updates the record, and inserts one audit row iff the
// status actually changed.
func (r *ClearanceRepository) Decide(ctx context.Context, update clearance.DecideUpdate) (*clearance.Record, error) {
	var updated *clearance.Record
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT `+clearanceColumns+` FROM clearances WHERE id = $1 FOR UPDATE`, update.ClearanceID)
		record, err := scanClearance(row)
		if err != nil {
			return err
		}

		if update.ExpectedStatus != nil && record.Status != *update.ExpectedStatus {
			return shared.ErrStaleDecision
		}

		now := time.Now().UTC()
		previous := record.Status
		changed, err := record.Decide(update.NewStatus, update.Message, update.ActorID, now)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE clearances
			SET status = $1, message = $2, responded_by = $3, response_date = $4, updated_at = $5
			WHERE id = $6`,
			string(record.Status), record.Message, record.RespondedBy, record.ResponseDate, record.UpdatedAt, record.ID,
		)
		if err != nil {
			return fmt.Errorf("update clearance: %w", err)
		}

		if changed {
			audit := clearance.NewAudit(record.ID, &previous, record.Status, update.ActorID, update.Message, update.ModuleCodes)
			if err := insertAudit(ctx, tx, audit); err != nil {
				return err
			}
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListAudits returns a clearance's audit trail, oldest first.
func (r *ClearanceRepository) ListAudits(ctx context.Context, clearanceID string) ([]clearance.Audit, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, clearance_id, previous_status, new_status, actor_id, message, module_codes, created_at
		FROM clearance_audits
		WHERE clearance_id = $1
		ORDER BY created_at ASC`, clearanceID)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var audits []clearance.Audit
	for rows.Next() {
		var a clearance.Audit
		var previous *string
		if err := rows.Scan(&a.ID, &a.ClearanceID, &previous, &a.NewStatus, &a.ActorID, &a.Message, &a.ModuleCodes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		if previous != nil {
			status := clearance.Status(*previous)
			a.PreviousStatus = &status
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func insertAudit(ctx context.Context, tx pgx.Tx, audit clearance.Audit) error {
	var previous *string
	if audit.PreviousStatus != nil {
		s := string(*audit.PreviousStatus)
		previous = &s
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO clearance_audits (id, clearance_id, previous_status, new_status, actor_id, message, module_codes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		audit.ID, audit.ClearanceID, previous, string(audit.NewStatus),
		audit.ActorID, audit.Message, audit.ModuleCodes, audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func scanClearance(row pgx.Row) (*clearance.Record, error) {
	var rec clearance.Record
	var department, status string
	err := row.Scan(&rec.ID, &rec.RequestID, &department, &status, &rec.Message,
		&rec.RespondedBy, &rec.ResponseDate, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrClearanceNotFound
		}
		return nil, fmt.Errorf("scan clearance: %w", err)
	}
	rec.Department = shared.Department(department)
	rec.Status = clearance.Status(status)
	return &rec, nil
}

// ModuleSource implements clearance.ModuleSource over the request_modules
// join table.
type ModuleSource struct {
	conn *Connection
}

// NewModuleSource creates a new ModuleSource.
func NewModuleSource(conn *Connection) *ModuleSource {
	return &ModuleSource{conn: conn}
}

// RequestModuleCodes returns the module codes registered on a request.
func (s *ModuleSource) RequestModuleCodes(ctx context.Context, requestID string) ([]string, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT module_code FROM request_modules WHERE request_id = $1 ORDER BY module_code`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list request modules: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan module code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
