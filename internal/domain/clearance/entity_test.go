package clearance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

func TestNewRecord(t *testing.T) {
	record, err := NewRecord("REQ-1", shared.DepartmentFinance)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "REQ-1", record.RequestID)
	assert.Equal(t, StatusPending, record.Status)
	assert.Nil(t, record.ResponseDate)
}

func TestNewRecord_Invalid(t *testing.T) {
	_, err := NewRecord("", shared.DepartmentFinance)
	assert.True(t, shared.IsValidation(err))

	_, err = NewRecord("REQ-1", shared.Department("catering"))
	assert.True(t, shared.IsValidation(err))
}

func TestRecordDecide(t *testing.T) {
	record, err := NewRecord("REQ-1", shared.DepartmentLibrary)
	require.NoError(t, err)

	at := time.Now().UTC()
	changed, err := record.Decide(StatusApproved, "all books returned", "staff-7", at)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusApproved, record.Status)
	assert.Equal(t, "staff-7", record.RespondedBy)
	require.NotNil(t, record.ResponseDate)
	assert.Equal(t, at, *record.ResponseDate)

	// Same status again: record updated, no transition.
	changed, err = record.Decide(StatusApproved, "note edited", "staff-7", at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "note edited", record.Message)

	// Reversal is a real transition; there is no terminal state.
	changed, err = record.Decide(StatusRejected, "late fee found", "staff-7", at.Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestRecordDecide_Invalid(t *testing.T) {
	record, err := NewRecord("REQ-1", shared.DepartmentLibrary)
	require.NoError(t, err)

	_, err = record.Decide(Status("maybe"), "", "staff-7", time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)

	_, err = record.Decide(StatusApproved, "", "", time.Now())
	assert.Error(t, err)
}

func TestActorCanDecide(t *testing.T) {
	actor := Actor{ID: "staff-7", Departments: []shared.Department{shared.DepartmentFinance}}

	assert.True(t, actor.CanDecide(shared.DepartmentFinance))
	assert.False(t, actor.CanDecide(shared.DepartmentLibrary))

	assert.True(t, SystemActor().CanDecide(shared.DepartmentAcademic))
}

func TestRequiredDepartments(t *testing.T) {
	assert.Equal(t,
		[]shared.Department{shared.DepartmentFinance, shared.DepartmentLibrary},
		RequestRegistration.RequiredDepartments())
	assert.Equal(t,
		[]shared.Department{shared.DepartmentFinance, shared.DepartmentLibrary, shared.DepartmentAcademic},
		RequestGraduation.RequiredDepartments())
}

func record(dept shared.Department, status Status) Record {
	return Record{ID: string(dept), RequestID: "REQ-1", Department: dept, Status: status}
}

func TestAggregate(t *testing.T) {
	required := []shared.Department{shared.DepartmentFinance, shared.DepartmentLibrary}

	tests := []struct {
		name    string
		records []Record
		want    Status
	}{
		{
			"all approved",
			[]Record{record(shared.DepartmentFinance, StatusApproved), record(shared.DepartmentLibrary, StatusApproved)},
			StatusApproved,
		},
		{
			"one pending",
			[]Record{record(shared.DepartmentFinance, StatusApproved), record(shared.DepartmentLibrary, StatusPending)},
			StatusPending,
		},
		{
			"rejection dominates pending",
			[]Record{record(shared.DepartmentFinance, StatusRejected), record(shared.DepartmentLibrary, StatusPending)},
			StatusRejected,
		},
		{
			"rejection dominates approval",
			[]Record{record(shared.DepartmentFinance, StatusApproved), record(shared.DepartmentLibrary, StatusRejected)},
			StatusRejected,
		},
		{
			"missing required department is pending",
			[]Record{record(shared.DepartmentFinance, StatusApproved)},
			StatusPending,
		},
		{
			"no records at all",
			nil,
			StatusPending,
		},
		{
			"extra department ignored",
			[]Record{
				record(shared.DepartmentFinance, StatusApproved),
				record(shared.DepartmentLibrary, StatusApproved),
				record(shared.DepartmentAcademic, StatusRejected),
			},
			StatusApproved,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.records, required))
		})
	}
}

func TestAggregate_EmptyRequiredSet(t *testing.T) {
	// Nothing required means nothing can block.
	assert.Equal(t, StatusApproved, Aggregate(nil, nil))
}
