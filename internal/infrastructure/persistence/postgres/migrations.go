package postgres

import (
	"context"
	"fmt"
)

// Schema for the engine's persisted state. Clearance audits are append-only:
// no UPDATE or DELETE ever touches clearance_audits.

const migration001Clearances = `
CREATE TABLE IF NOT EXISTS clearances (
    id UUID PRIMARY KEY,
    request_id VARCHAR(64) NOT NULL,
    department VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    message TEXT NOT NULL DEFAULT '',
    responded_by VARCHAR(64) NOT NULL DEFAULT '',
    response_date TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_department CHECK (department IN ('finance', 'library', 'academic', 'registry')),
    CONSTRAINT valid_status CHECK (status IN ('pending', 'approved', 'rejected'))
);

CREATE INDEX IF NOT EXISTS idx_clearances_request_id ON clearances(request_id);
CREATE INDEX IF NOT EXISTS idx_clearances_queue ON clearances(department, created_at) WHERE status = 'pending';

-- Join relation: one clearance belongs to exactly one request.
CREATE TABLE IF NOT EXISTS request_clearances (
    request_id VARCHAR(64) NOT NULL,
    clearance_id UUID NOT NULL REFERENCES clearances(id),
    PRIMARY KEY (request_id, clearance_id)
);
`

const migration002Audits = `
CREATE TABLE IF NOT EXISTS clearance_audits (
    id UUID PRIMARY KEY,
    clearance_id UUID NOT NULL REFERENCES clearances(id),
    previous_status VARCHAR(20),
    new_status VARCHAR(20) NOT NULL,
    actor_id VARCHAR(64) NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    module_codes TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_clearance_audits_clearance ON clearance_audits(clearance_id, created_at);
`

const migration003Exemptions = `
CREATE TABLE IF NOT EXISTS terms (
    id BIGSERIAL PRIMARY KEY,
    code VARCHAR(10) NOT NULL UNIQUE,
    sequence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS auto_approval_rules (
    id UUID PRIMARY KEY,
    student_no BIGINT NOT NULL,
    term_id BIGINT NOT NULL REFERENCES terms(id),
    department VARCHAR(20) NOT NULL,
    created_by VARCHAR(64) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uniq_rule_triple UNIQUE (student_no, term_id, department),
    CONSTRAINT valid_rule_department CHECK (department IN ('finance', 'library', 'academic', 'registry'))
);
`

const migration004Enrollments = `
CREATE TABLE IF NOT EXISTS program_enrollments (
    id BIGSERIAL PRIMARY KEY,
    student_no BIGINT NOT NULL,
    program_name VARCHAR(200) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'Active',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_enrollments_student ON program_enrollments(student_no);

CREATE TABLE IF NOT EXISTS semester_records (
    id BIGSERIAL PRIMARY KEY,
    enrollment_id BIGINT NOT NULL REFERENCES program_enrollments(id),
    number INTEGER NOT NULL,
    term VARCHAR(30) NOT NULL,
    term_sequence INTEGER NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'Active'
);

CREATE INDEX IF NOT EXISTS idx_semesters_enrollment ON semester_records(enrollment_id, term_sequence);

CREATE TABLE IF NOT EXISTS module_attempts (
    id BIGSERIAL PRIMARY KEY,
    semester_id BIGINT NOT NULL REFERENCES semester_records(id),
    module_code VARCHAR(20) NOT NULL,
    module_name VARCHAR(200) NOT NULL,
    credits NUMERIC(5,2) NOT NULL DEFAULT 0,
    grade_symbol VARCHAR(10) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'Compulsory'
);

CREATE INDEX IF NOT EXISTS idx_attempts_semester ON module_attempts(semester_id);

-- Modules registered on a request, snapshotted onto audit rows.
CREATE TABLE IF NOT EXISTS request_modules (
    request_id VARCHAR(64) NOT NULL,
    module_code VARCHAR(20) NOT NULL,
    PRIMARY KEY (request_id, module_code)
);
`

var migrations = []string{
	migration001Clearances,
	migration002Audits,
	migration003Exemptions,
	migration004Enrollments,
}

// Migrate applies all migrations in order. Statements are idempotent.
func (c *Connection) Migrate(ctx context.Context) error {
	for i, m := range migrations {
		if _, err := c.Exec(ctx, m); err != nil {
			return fmt.Errorf("postgres: migration %03d failed: %w", i+1, err)
		}
	}
	return nil
}
