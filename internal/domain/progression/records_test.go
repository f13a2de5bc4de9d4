package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetainedSemesters(t *testing.T) {
	enrollment := ProgramEnrollment{
		Semesters: []SemesterRecord{
			{ID: 3, TermSequence: 3, Status: SemesterActive},
			{ID: 1, TermSequence: 1, Status: SemesterRepeat},
			{ID: 4, TermSequence: 4, Status: SemesterDeferred},
			{ID: 2, TermSequence: 2, Status: SemesterWithdrawn},
			{ID: 5, TermSequence: 5, Status: SemesterDeleted},
		},
	}

	retained := enrollment.RetainedSemesters()
	require.Len(t, retained, 2)
	assert.Equal(t, int64(1), retained[0].ID)
	assert.Equal(t, int64(3), retained[1].ID)
}

func TestSelectEnrollment_SingleActive(t *testing.T) {
	selected, warn := SelectEnrollment([]ProgramEnrollment{
		{ID: 1, Status: EnrollmentCompleted},
		{ID: 2, Status: EnrollmentActive},
	})
	require.NotNil(t, selected)
	assert.Equal(t, int64(2), selected.ID)
	assert.False(t, warn)
}

func TestSelectEnrollment_MultipleActiveWarns(t *testing.T) {
	older := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	selected, warn := SelectEnrollment([]ProgramEnrollment{
		{ID: 1, Status: EnrollmentActive, CreatedAt: older},
		{ID: 2, Status: EnrollmentActive, CreatedAt: newer},
	})
	require.NotNil(t, selected)
	assert.Equal(t, int64(2), selected.ID)
	assert.True(t, warn)
}

func TestSelectEnrollment_TiedCreatedAtPicksHigherID(t *testing.T) {
	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	selected, warn := SelectEnrollment([]ProgramEnrollment{
		{ID: 7, Status: EnrollmentActive, CreatedAt: at},
		{ID: 3, Status: EnrollmentActive, CreatedAt: at},
	})
	require.NotNil(t, selected)
	assert.Equal(t, int64(7), selected.ID)
	assert.True(t, warn)
}

func TestSelectEnrollment_FallsBackToMostRecentCompleted(t *testing.T) {
	older := time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	selected, warn := SelectEnrollment([]ProgramEnrollment{
		{ID: 1, Status: EnrollmentCompleted, CreatedAt: older},
		{ID: 2, Status: EnrollmentCompleted, CreatedAt: newer},
		{ID: 3, Status: EnrollmentDeleted, CreatedAt: newer},
	})
	require.NotNil(t, selected)
	assert.Equal(t, int64(2), selected.ID)
	assert.False(t, warn)
}

func TestSelectEnrollment_NoneSelectable(t *testing.T) {
	selected, warn := SelectEnrollment([]ProgramEnrollment{
		{ID: 1, Status: EnrollmentChanged},
		{ID: 2, Status: EnrollmentInactive},
	})
	assert.Nil(t, selected)
	assert.False(t, warn)

	selected, _ = SelectEnrollment(nil)
	assert.Nil(t, selected)
}

func TestAttemptStatusExcluded(t *testing.T) {
	assert.True(t, AttemptDelete.Excluded())
	assert.True(t, AttemptDrop.Excluded())
	assert.False(t, AttemptCompulsory.Excluded())
	assert.False(t, AttemptRepeat2.Excluded())
}
