package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/registry-hub/progression-engine/internal/domain/clearance"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

type ClearanceStoreSuite struct {
	suite.Suite
	store *ClearanceStore
	ctx   context.Context
}

func (s *ClearanceStoreSuite) SetupTest() {
	s.store = NewClearanceStore()
	s.ctx = context.Background()
}

func (s *ClearanceStoreSuite) create(requestID string, dept shared.Department) *clearance.Record {
	record, err := clearance.NewRecord(requestID, dept)
	s.Require().NoError(err)
	audit := clearance.NewCreationAudit(record.ID, clearance.SystemActorID, nil)
	s.Require().NoError(s.store.Create(s.ctx, record, audit))
	return record
}

func (s *ClearanceStoreSuite) TestCreateAndGet() {
	record := s.create("REQ-1", shared.DepartmentFinance)

	got, err := s.store.GetByID(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record.ID, got.ID)
	s.Equal(clearance.StatusPending, got.Status)

	audits, err := s.store.ListAudits(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Len(audits, 1)
}

func (s *ClearanceStoreSuite) TestGetUnknown() {
	_, err := s.store.GetByID(s.ctx, "missing")
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *ClearanceStoreSuite) TestCreateDuplicate() {
	record := s.create("REQ-1", shared.DepartmentFinance)
	err := s.store.Create(s.ctx, record, clearance.NewCreationAudit(record.ID, clearance.SystemActorID, nil))
	s.ErrorIs(err, shared.ErrAlreadyExists)
}

func (s *ClearanceStoreSuite) TestListByRequest() {
	s.create("REQ-1", shared.DepartmentFinance)
	s.create("REQ-1", shared.DepartmentLibrary)
	s.create("REQ-2", shared.DepartmentFinance)

	records, err := s.store.ListByRequest(s.ctx, "REQ-1")
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *ClearanceStoreSuite) TestNextPendingFIFO() {
	first := s.create("REQ-1", shared.DepartmentFinance)
	s.create("REQ-2", shared.DepartmentFinance)

	next, err := s.store.NextPending(s.ctx, shared.DepartmentFinance)
	s.Require().NoError(err)
	s.Equal(first.ID, next.ID)

	_, err = s.store.Decide(s.ctx, clearance.DecideUpdate{
		ClearanceID: first.ID,
		NewStatus:   clearance.StatusApproved,
		ActorID:     "staff-7",
	})
	s.Require().NoError(err)

	next, err = s.store.NextPending(s.ctx, shared.DepartmentFinance)
	s.Require().NoError(err)
	s.NotEqual(first.ID, next.ID)
}

func (s *ClearanceStoreSuite) TestNextPendingEmpty() {
	_, err := s.store.NextPending(s.ctx, shared.DepartmentAcademic)
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *ClearanceStoreSuite) TestDecideAppendsAuditOnlyOnTransition() {
	record := s.create("REQ-1", shared.DepartmentFinance)

	updated, err := s.store.Decide(s.ctx, clearance.DecideUpdate{
		ClearanceID: record.ID,
		NewStatus:   clearance.StatusApproved,
		ActorID:     "staff-7",
	})
	s.Require().NoError(err)
	s.Equal(clearance.StatusApproved, updated.Status)

	// Same status again: no new audit row.
	_, err = s.store.Decide(s.ctx, clearance.DecideUpdate{
		ClearanceID: record.ID,
		NewStatus:   clearance.StatusApproved,
		ActorID:     "staff-7",
	})
	s.Require().NoError(err)

	audits, err := s.store.ListAudits(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Len(audits, 2)

	folded, err := clearance.StatusFromAudits(audits)
	s.Require().NoError(err)
	s.Equal(clearance.StatusApproved, folded)
}

func (s *ClearanceStoreSuite) TestDecideExpectedStatusConflict() {
	record := s.create("REQ-1", shared.DepartmentFinance)

	_, err := s.store.Decide(s.ctx, clearance.DecideUpdate{
		ClearanceID: record.ID,
		NewStatus:   clearance.StatusApproved,
		ActorID:     "staff-7",
	})
	s.Require().NoError(err)

	expected := clearance.StatusPending
	_, err = s.store.Decide(s.ctx, clearance.DecideUpdate{
		ClearanceID:    record.ID,
		NewStatus:      clearance.StatusRejected,
		ActorID:        "staff-8",
		ExpectedStatus: &expected,
	})
	s.ErrorIs(err, shared.ErrStateConflict)
}

func (s *ClearanceStoreSuite) TestReturnedRecordIsACopy() {
	record := s.create("REQ-1", shared.DepartmentFinance)

	got, err := s.store.GetByID(s.ctx, record.ID)
	s.Require().NoError(err)
	got.Status = clearance.StatusRejected

	again, err := s.store.GetByID(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(clearance.StatusPending, again.Status)
}

func TestClearanceStoreSuite(t *testing.T) {
	suite.Run(t, new(ClearanceStoreSuite))
}

func TestModuleSource(t *testing.T) {
	source := NewModuleSource()
	source.SetModules("REQ-1", []string{"MATH101"})

	codes, err := source.RequestModuleCodes(context.Background(), "REQ-1")
	require.NoError(t, err)
	require.Equal(t, []string{"MATH101"}, codes)

	codes, err = source.RequestModuleCodes(context.Background(), "REQ-2")
	require.NoError(t, err)
	require.Empty(t, codes)
}
