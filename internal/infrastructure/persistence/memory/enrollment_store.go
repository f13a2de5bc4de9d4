package memory

import (
	"context"
	"sync"

	"github.com/registry-hub/progression-engine/internal/domain/progression"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// EnrollmentStore is an in-memory query.EnrollmentSource.
type EnrollmentStore struct {
	mu          sync.RWMutex
	enrollments map[shared.StudentNo][]progression.ProgramEnrollment
}

// NewEnrollmentStore creates an empty EnrollmentStore.
func NewEnrollmentStore() *EnrollmentStore {
	return &EnrollmentStore{enrollments: make(map[shared.StudentNo][]progression.ProgramEnrollment)}
}

// SetEnrollments replaces a student's enrollments.
func (s *EnrollmentStore) SetEnrollments(studentNo shared.StudentNo, enrollments []progression.ProgramEnrollment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]progression.ProgramEnrollment, len(enrollments))
	copy(copied, enrollments)
	s.enrollments[studentNo] = copied
}

// ProgramEnrollments returns a student's enrollments.
func (s *EnrollmentStore) ProgramEnrollments(ctx context.Context, studentNo shared.StudentNo) ([]progression.ProgramEnrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enrollments := s.enrollments[studentNo]
	out := make([]progression.ProgramEnrollment, len(enrollments))
	copy(out, enrollments)
	return out, nil
}
