// Package memory provides in-memory adapters for the engine's persistence
// ports. They back unit tests and local development; semantics mirror the
// PostgreSQL adapters, including atomic decide-plus-audit and FIFO queues.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/registry-hub/progression-engine/internal/domain/clearance"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// ClearanceStore is an in-memory clearance.Repository.
type ClearanceStore struct {
	mu      sync.RWMutex
	records map[string]*clearance.Record
	audits  map[string][]clearance.Audit

	// order preserves insertion sequence so the pending queue stays FIFO
	// even when CreatedAt timestamps collide.
	order []string
}

// NewClearanceStore creates an empty ClearanceStore.
func NewClearanceStore() *ClearanceStore {
	return &ClearanceStore{
		records: make(map[string]*clearance.Record),
		audits:  make(map[string][]clearance.Audit),
	}
}

// Create persists a new pending clearance and its creation audit entry.
func (s *ClearanceStore) Create(ctx context.Context, record *clearance.Record, audit clearance.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return shared.NewDomainError("clearance", "Create", shared.ErrAlreadyExists, "clearance already exists")
	}
	stored := *record
	s.records[record.ID] = &stored
	s.audits[record.ID] = append(s.audits[record.ID], audit)
	s.order = append(s.order, record.ID)
	return nil
}

// GetByID returns a copy of a clearance record.
func (s *ClearanceStore) GetByID(ctx context.Context, id string) (*clearance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, shared.ErrClearanceNotFound
	}
	out := *record
	return &out, nil
}

// ListByRequest returns all department clearances for one request.
func (s *ClearanceStore) ListByRequest(ctx context.Context, requestID string) ([]clearance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []clearance.Record
	for _, id := range s.order {
		if r := s.records[id]; r.RequestID == requestID {
			records = append(records, *r)
		}
	}
	return records, nil
}

// NextPending returns the oldest pending clearance for a department.
func (s *ClearanceStore) NextPending(ctx context.Context, department shared.Department) (*clearance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		r := s.records[id]
		if r.Department == department && r.Status == clearance.StatusPending {
			out := *r
			return &out, nil
		}
	}
	return nil, shared.ErrClearanceNotFound
}

// Decide applies a decision and appends one audit entry iff the status
// changed, all under one lock.
func (s *ClearanceStore) Decide(ctx context.Context, update clearance.DecideUpdate) (*clearance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[update.ClearanceID]
	if !ok {
		return nil, shared.ErrClearanceNotFound
	}
	if update.ExpectedStatus != nil && record.Status != *update.ExpectedStatus {
		return nil, shared.ErrStaleDecision
	}

	previous := record.Status
	changed, err := record.Decide(update.NewStatus, update.Message, update.ActorID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if changed {
		audit := clearance.NewAudit(record.ID, &previous, record.Status, update.ActorID, update.Message, update.ModuleCodes)
		s.audits[record.ID] = append(s.audits[record.ID], audit)
	}
	out := *record
	return &out, nil
}

// ListAudits returns a clearance's audit trail, oldest first.
func (s *ClearanceStore) ListAudits(ctx context.Context, clearanceID string) ([]clearance.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trail := s.audits[clearanceID]
	out := make([]clearance.Audit, len(trail))
	copy(out, trail)
	return out, nil
}

// ModuleSource is an in-memory clearance.ModuleSource keyed by request ID.
type ModuleSource struct {
	mu      sync.RWMutex
	modules map[string][]string
}

// NewModuleSource creates an empty ModuleSource.
func NewModuleSource() *ModuleSource {
	return &ModuleSource{modules: make(map[string][]string)}
}

// SetModules registers the module codes for a request.
func (s *ModuleSource) SetModules(requestID string, codes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]string, len(codes))
	copy(copied, codes)
	s.modules[requestID] = copied
}

// RequestModuleCodes returns the module codes registered on a request.
func (s *ModuleSource) RequestModuleCodes(ctx context.Context, requestID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := s.modules[requestID]
	out := make([]string, len(codes))
	copy(out, codes)
	return out, nil
}
