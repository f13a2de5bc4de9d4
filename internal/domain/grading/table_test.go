package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

func TestDefaultTableIsValid(t *testing.T) {
	table := Default()
	require.NotNil(t, table)
	assert.Len(t, table.Definitions(), len(builtinDefinitions))
}

func TestNewTable_DuplicateSymbol(t *testing.T) {
	_, err := NewTable([]GradeDefinition{
		{Symbol: "A", Points: pts(4.0), Marks: &MarksRange{50, 100}},
		{Symbol: "a", Points: pts(0), Marks: &MarksRange{0, 49}},
	})
	require.Error(t, err)
	assert.True(t, shared.IsConfiguration(err))
	assert.ErrorIs(t, err, shared.ErrDuplicateSymbol)
}

func TestNewTable_MarksRangeGap(t *testing.T) {
	_, err := NewTable([]GradeDefinition{
		{Symbol: "A", Points: pts(4.0), Marks: &MarksRange{60, 100}},
		{Symbol: "F", Points: pts(0), Marks: &MarksRange{0, 49}},
	})
	require.Error(t, err)
	assert.True(t, shared.IsConfiguration(err))
	assert.ErrorIs(t, err, shared.ErrMarksRangeGap)
}

func TestNewTable_MarksRangeOverlap(t *testing.T) {
	_, err := NewTable([]GradeDefinition{
		{Symbol: "A", Points: pts(4.0), Marks: &MarksRange{40, 100}},
		{Symbol: "F", Points: pts(0), Marks: &MarksRange{0, 49}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrMarksRangeOverlap)
}

func TestNewTable_IncompleteCoverage(t *testing.T) {
	// Ranges must start at 0 and end at 100.
	_, err := NewTable([]GradeDefinition{
		{Symbol: "A", Points: pts(4.0), Marks: &MarksRange{50, 99}},
		{Symbol: "F", Points: pts(0), Marks: &MarksRange{0, 49}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrMarksRangeGap)
}

func TestNewTable_SymbolOnlyRowsNeedNoRange(t *testing.T) {
	table, err := NewTable([]GradeDefinition{
		{Symbol: "PC", Points: pts(2.0)},
		{Symbol: "EXP", Points: nil},
	})
	require.NoError(t, err)
	require.NotNil(t, table)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "A+", Normalize("  a+ "))
	assert.Equal(t, "PP", Normalize("pp"))
	assert.Equal(t, "", Normalize("   "))
}

func TestDefinitionsOrder(t *testing.T) {
	defs := Default().Definitions()
	require.NotEmpty(t, defs)
	assert.Equal(t, "A+", defs[0].Symbol)
}
