package memory

import (
	"context"
	"sync"

	"github.com/registry-hub/progression-engine/internal/domain/exemption"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// ExemptionStore is an in-memory exemption.Repository with triple uniqueness.
type ExemptionStore struct {
	mu    sync.RWMutex
	rules map[exemption.Key]exemption.Rule
}

// NewExemptionStore creates an empty ExemptionStore.
func NewExemptionStore() *ExemptionStore {
	return &ExemptionStore{rules: make(map[exemption.Key]exemption.Rule)}
}

// Insert persists a rule, rejecting duplicate triples.
func (s *ExemptionStore) Insert(ctx context.Context, rule exemption.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rule.Key()
	if _, exists := s.rules[key]; exists {
		return shared.ErrRuleAlreadyExists
	}
	s.rules[key] = rule
	return nil
}

// Matches reports whether an exact triple is registered.
func (s *ExemptionStore) Matches(ctx context.Context, key exemption.Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rules[key]
	return ok, nil
}

// Len returns the number of stored rules.
func (s *ExemptionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// TermDirectory is an in-memory exemption.TermDirectory.
type TermDirectory struct {
	mu    sync.RWMutex
	terms map[shared.TermCode]shared.TermID
}

// NewTermDirectory creates an empty TermDirectory.
func NewTermDirectory() *TermDirectory {
	return &TermDirectory{terms: make(map[shared.TermCode]shared.TermID)}
}

// AddTerm registers a term code.
func (d *TermDirectory) AddTerm(code shared.TermCode, id shared.TermID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.terms[code] = id
}

// ResolveTermCode returns the term ID for a code.
func (d *TermDirectory) ResolveTermCode(ctx context.Context, code shared.TermCode) (shared.TermID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.terms[code]
	if !ok {
		return 0, shared.ErrTermNotFound
	}
	return id, nil
}
