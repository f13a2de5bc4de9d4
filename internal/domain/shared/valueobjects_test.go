package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudentNo(t *testing.T) {
	no, err := NewStudentNo(12345)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), no.Int64())
	assert.Equal(t, "12345", no.String())

	_, err = NewStudentNo(0)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewStudentNo(-1)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestNewTermCode(t *testing.T) {
	valid := []string{"2026-02", "1999-12", " 2026-09 "}
	for _, v := range valid {
		code, err := NewTermCode(v)
		require.NoError(t, err, v)
		assert.True(t, code.IsValid())
	}

	invalid := []string{"", "2026", "2026-00", "2026-13", "26-02", "2026/02", "term one"}
	for _, v := range invalid {
		_, err := NewTermCode(v)
		assert.ErrorIs(t, err, ErrInvalidFormat, v)
	}
}

func TestTermCodeYear(t *testing.T) {
	assert.Equal(t, 2026, TermCode("2026-02").Year())
	assert.Equal(t, 0, TermCode("bogus").Year())
}

func TestNewDepartment(t *testing.T) {
	dept, err := NewDepartment("  Finance ")
	require.NoError(t, err)
	assert.Equal(t, DepartmentFinance, dept)

	_, err = NewDepartment("catering")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Len(t, AllDepartments(), 4)
}

func TestNewCredits(t *testing.T) {
	c, err := NewCredits(3.5)
	require.NoError(t, err)
	assert.Equal(t, 3.5, c.Float64())

	_, err = NewCredits(-1)
	assert.ErrorIs(t, err, ErrNegativeValue)
}

func TestDomainErrorMatching(t *testing.T) {
	err := NewDomainError("clearance", "Decide", ErrStateConflict, "stale read")
	assert.True(t, IsStateConflict(err))
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Contains(t, err.Error(), "clearance.Decide")

	wrapped := WrapError("exemption", "Insert", ErrAlreadyExists, "duplicate", ErrRuleAlreadyExists)
	assert.True(t, IsAlreadyExists(wrapped))
}
