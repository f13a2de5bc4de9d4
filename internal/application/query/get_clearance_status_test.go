package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registry-hub/progression-engine/internal/domain/clearance"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
	"github.com/registry-hub/progression-engine/internal/infrastructure/persistence/memory"
)

func decide(t *testing.T, store *memory.ClearanceStore, id string, status clearance.Status) {
	t.Helper()
	_, err := store.Decide(context.Background(), clearance.DecideUpdate{
		ClearanceID: id,
		NewStatus:   status,
		ActorID:     "staff-7",
	})
	require.NoError(t, err)
}

func TestGetClearanceStatus_RegistrationDefaults(t *testing.T) {
	store := memory.NewClearanceStore()
	finance := enqueue(t, store, "REQ-1", shared.DepartmentFinance)
	library := enqueue(t, store, "REQ-1", shared.DepartmentLibrary)

	h := NewGetClearanceStatusHandler(store, testLogger())
	q := GetClearanceStatusQuery{RequestID: "REQ-1", RequestType: clearance.RequestRegistration}

	result, err := h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, clearance.StatusPending, result.Overall)
	assert.Len(t, result.Records, 2)

	decide(t, store, finance.ID, clearance.StatusApproved)
	result, err = h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, clearance.StatusPending, result.Overall)

	decide(t, store, library.ID, clearance.StatusApproved)
	result, err = h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, clearance.StatusApproved, result.Overall)

	// One rejection flips the whole request.
	decide(t, store, finance.ID, clearance.StatusRejected)
	result, err = h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, clearance.StatusRejected, result.Overall)
}

func TestGetClearanceStatus_GraduationNeedsAcademic(t *testing.T) {
	store := memory.NewClearanceStore()
	finance := enqueue(t, store, "REQ-1", shared.DepartmentFinance)
	library := enqueue(t, store, "REQ-1", shared.DepartmentLibrary)
	decide(t, store, finance.ID, clearance.StatusApproved)
	decide(t, store, library.ID, clearance.StatusApproved)

	h := NewGetClearanceStatusHandler(store, testLogger())

	result, err := h.Handle(context.Background(), GetClearanceStatusQuery{
		RequestID:   "REQ-1",
		RequestType: clearance.RequestGraduation,
	})
	require.NoError(t, err)
	// The academic clearance was never created, so it counts as pending.
	assert.Equal(t, clearance.StatusPending, result.Overall)
	assert.Contains(t, result.Required, shared.DepartmentAcademic)
}

func TestGetClearanceStatus_ExplicitRequiredSetWins(t *testing.T) {
	store := memory.NewClearanceStore()
	finance := enqueue(t, store, "REQ-1", shared.DepartmentFinance)
	decide(t, store, finance.ID, clearance.StatusApproved)

	h := NewGetClearanceStatusHandler(store, testLogger())

	result, err := h.Handle(context.Background(), GetClearanceStatusQuery{
		RequestID:   "REQ-1",
		RequestType: clearance.RequestGraduation,
		Required:    []shared.Department{shared.DepartmentFinance},
	})
	require.NoError(t, err)
	assert.Equal(t, clearance.StatusApproved, result.Overall)
}

func TestGetClearanceStatus_MissingRequestID(t *testing.T) {
	h := NewGetClearanceStatusHandler(memory.NewClearanceStore(), testLogger())

	_, err := h.Handle(context.Background(), GetClearanceStatusQuery{})
	assert.True(t, shared.IsValidation(err))
}
