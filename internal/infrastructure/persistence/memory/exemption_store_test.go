package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registry-hub/progression-engine/internal/domain/exemption"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

func newRule(t *testing.T, studentNo int64, termID int64, dept shared.Department) exemption.Rule {
	t.Helper()
	rule, err := exemption.NewRule(shared.StudentNo(studentNo), shared.TermID(termID), dept, "registrar-1")
	require.NoError(t, err)
	return rule
}

func TestExemptionStore_InsertAndMatch(t *testing.T) {
	store := NewExemptionStore()
	ctx := context.Background()

	rule := newRule(t, 12345, 1, shared.DepartmentFinance)
	require.NoError(t, store.Insert(ctx, rule))

	matched, err := store.Matches(ctx, rule.Key())
	require.NoError(t, err)
	assert.True(t, matched)

	// Any differing triple component is a miss.
	for _, key := range []exemption.Key{
		{StudentNo: 99999, TermID: 1, Department: shared.DepartmentFinance},
		{StudentNo: 12345, TermID: 2, Department: shared.DepartmentFinance},
		{StudentNo: 12345, TermID: 1, Department: shared.DepartmentLibrary},
	} {
		matched, err = store.Matches(ctx, key)
		require.NoError(t, err)
		assert.False(t, matched)
	}
}

func TestExemptionStore_DuplicateTriple(t *testing.T) {
	store := NewExemptionStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newRule(t, 12345, 1, shared.DepartmentFinance)))
	err := store.Insert(ctx, newRule(t, 12345, 1, shared.DepartmentFinance))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	assert.Equal(t, 1, store.Len())
}

func TestTermDirectory(t *testing.T) {
	dir := NewTermDirectory()
	dir.AddTerm("2026-02", 7)

	id, err := dir.ResolveTermCode(context.Background(), "2026-02")
	require.NoError(t, err)
	assert.Equal(t, shared.TermID(7), id)

	_, err = dir.ResolveTermCode(context.Background(), "2031-09")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
