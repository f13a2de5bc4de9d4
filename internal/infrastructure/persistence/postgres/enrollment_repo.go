package postgres

import (
	"context"
	"fmt"

	"github.com/registry-hub/progression-engine/internal/domain/progression"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// EnrollmentRepository loads a student's program enrollments with their
// semesters and module attempts. It backs the remarks and trend queries;
// all filtering (retained semesters, excluded attempts) stays in the domain
// layer, so the repository returns everything.
type EnrollmentRepository struct {
	conn *Connection
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(conn *Connection) *EnrollmentRepository {
	return &EnrollmentRepository{conn: conn}
}

// ProgramEnrollments returns all of a student's enrollments, each with its
// full semester and attempt tree.
func (r *EnrollmentRepository) ProgramEnrollments(ctx context.Context, studentNo shared.StudentNo) ([]progression.ProgramEnrollment, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, program_name, status, created_at
		FROM program_enrollments
		WHERE student_no = $1
		ORDER BY created_at`, studentNo.Int64())
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []progression.ProgramEnrollment
	for rows.Next() {
		var e progression.ProgramEnrollment
		var status string
		if err := rows.Scan(&e.ID, &e.ProgramName, &status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		e.Status = progression.EnrollmentStatus(status)
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range enrollments {
		semesters, err := r.loadSemesters(ctx, enrollments[i].ID)
		if err != nil {
			return nil, err
		}
		enrollments[i].Semesters = semesters
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) loadSemesters(ctx context.Context, enrollmentID int64) ([]progression.SemesterRecord, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, number, term, term_sequence, status
		FROM semester_records
		WHERE enrollment_id = $1
		ORDER BY term_sequence`, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	defer rows.Close()

	var semesters []progression.SemesterRecord
	for rows.Next() {
		var s progression.SemesterRecord
		var status string
		if err := rows.Scan(&s.ID, &s.Number, &s.Term, &s.TermSequence, &status); err != nil {
			return nil, fmt.Errorf("scan semester: %w", err)
		}
		s.Status = progression.SemesterStatus(status)
		semesters = append(semesters, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range semesters {
		attempts, err := r.loadAttempts(ctx, semesters[i].ID)
		if err != nil {
			return nil, err
		}
		semesters[i].Attempts = attempts
	}
	return semesters, nil
}

func (r *EnrollmentRepository) loadAttempts(ctx context.Context, semesterID int64) ([]progression.ModuleAttempt, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT module_code, module_name, credits, grade_symbol, status
		FROM module_attempts
		WHERE semester_id = $1
		ORDER BY module_code`, semesterID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []progression.ModuleAttempt
	for rows.Next() {
		var a progression.ModuleAttempt
		var credits float64
		var status string
		if err := rows.Scan(&a.ModuleCode, &a.ModuleName, &credits, &a.GradeSymbol, &status); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Credits = shared.Credits(credits)
		a.Status = progression.AttemptStatus(status)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
