package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

func TestResolveMarks(t *testing.T) {
	table := Default()

	tests := []struct {
		name   string
		marks  int
		symbol string
		points float64
	}{
		{"distinction", 92, "A+", 4.0},
		{"lower distinction boundary", 90, "A+", 4.0},
		{"merit", 76, "B+", 3.67},
		{"pass floor", 50, "C-", 2.0},
		{"supplementary band", 47, "PP", 0},
		{"fail", 30, "F", 0},
		{"zero", 0, "F", 0},
		{"full marks", 100, "A+", 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := table.ResolveMarks(tt.marks)
			require.NoError(t, err)
			assert.Equal(t, tt.symbol, def.Symbol)
			assert.Equal(t, tt.points, def.PointsValue())
		})
	}
}

func TestResolveMarks_OutOfRange(t *testing.T) {
	table := Default()

	_, err := table.ResolveMarks(-1)
	assert.ErrorIs(t, err, shared.ErrMarksOutOfRange)

	_, err = table.ResolveMarks(101)
	assert.ErrorIs(t, err, shared.ErrMarksOutOfRange)
}

func TestResolveSymbol(t *testing.T) {
	table := Default()

	def, err := table.ResolveSymbol(" b+ ")
	require.NoError(t, err)
	assert.Equal(t, "B+", def.Symbol)
	assert.Equal(t, 3.67, def.PointsValue())

	_, err = table.ResolveSymbol("ZZ")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestResolveSymbolOrFallback(t *testing.T) {
	table := Default()

	def := table.ResolveSymbolOrFallback("ZZ")
	assert.Equal(t, "GNS", def.Symbol)
	assert.Equal(t, 0.0, def.PointsValue())
	assert.True(t, table.IsFailing(def.Symbol))

	def = table.ResolveSymbolOrFallback("A")
	assert.Equal(t, "A", def.Symbol)
}

// Every symbol belongs to exactly one of the four classes: passing, failing,
// supplementary, or neutral.
func TestGradeClassesArePartition(t *testing.T) {
	table := Default()

	for _, def := range table.Definitions() {
		classes := 0
		if table.IsPassing(def.Symbol) {
			classes++
		}
		if table.IsFailing(def.Symbol) {
			classes++
		}
		if table.IsSupplementary(def.Symbol) {
			classes++
		}
		if table.IsNeutral(def.Symbol) {
			classes++
		}
		assert.Equal(t, 1, classes, "symbol %s must be in exactly one class", def.Symbol)
	}
}

func TestFailingSetIsClosed(t *testing.T) {
	table := Default()

	for _, s := range []string{"F", "X", "GNS", "ANN", "FIN", "FX", "DNC", "DNA", "DNS"} {
		assert.True(t, table.IsFailing(s), "symbol %s", s)
	}
	for _, s := range []string{"A", "PP", "NM", "EXP", "DEF", "PC"} {
		assert.False(t, table.IsFailing(s), "symbol %s", s)
	}
}

func TestSupplementaryIsNotPassing(t *testing.T) {
	table := Default()

	assert.True(t, table.IsSupplementary("pp"))
	assert.False(t, table.IsPassing("PP"))
	assert.False(t, table.IsFailing("PP"))
}

func TestNeutralGrades(t *testing.T) {
	table := Default()

	for _, s := range []string{"NM", "EXP", "DEF"} {
		assert.True(t, table.IsNeutral(s), "symbol %s", s)
		def, err := table.ResolveSymbol(s)
		require.NoError(t, err)
		assert.False(t, def.HasPoints())
	}
	assert.False(t, table.IsNeutral("F"))
	assert.False(t, table.IsNeutral("ZZ"))
}

func TestRank(t *testing.T) {
	table := Default()

	best, ok := table.Rank("A+")
	require.True(t, ok)
	assert.Equal(t, 1, best)

	worse, ok := table.Rank("C-")
	require.True(t, ok)
	assert.Greater(t, worse, best)

	_, ok = table.Rank("ZZ")
	assert.False(t, ok)
}
