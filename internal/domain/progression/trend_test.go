package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registry-hub/progression-engine/internal/domain/grading"
)

func semester(id int64, seq int, term string, attempts ...ModuleAttempt) SemesterRecord {
	return SemesterRecord{
		ID:           id,
		Number:       seq,
		Term:         term,
		TermSequence: seq,
		Status:       SemesterActive,
		Attempts:     attempts,
	}
}

func TestTrend(t *testing.T) {
	table := grading.Default()

	semesters := []SemesterRecord{
		semester(1, 1, "2025-02",
			attempt("MATH101", 3, "A", AttemptCompulsory),  // 12 QP
			attempt("PHYS101", 3, "F", AttemptCompulsory)), // 0 QP
		semester(2, 2, "2025-09",
			attempt("MATH201", 3, "A+", AttemptCompulsory)), // 12 QP
	}

	points := Trend(table, semesters)
	require.Len(t, points, 2)

	assert.Equal(t, int64(1), points[0].SemesterID)
	assert.InDelta(t, 2.0, points[0].GPA, 1e-9)
	assert.InDelta(t, 2.0, points[0].CGPA, 1e-9)

	assert.Equal(t, int64(2), points[1].SemesterID)
	assert.InDelta(t, 4.0, points[1].GPA, 1e-9)
	// CGPA: (12 + 12) / (6 + 3)
	assert.InDelta(t, 24.0/9.0, points[1].CGPA, 1e-9)
}

// The final CGPA must equal the GPA of all attempts summarized as one pool.
func TestTrend_FinalCGPAMatchesFlatSummary(t *testing.T) {
	table := grading.Default()

	semesters := []SemesterRecord{
		semester(1, 1, "2024-09",
			attempt("A1", 3, "B+", AttemptCompulsory),
			attempt("A2", 4, "C", AttemptCompulsory)),
		semester(2, 2, "2025-02",
			attempt("B1", 3, "PP", AttemptCompulsory),
			attempt("B2", 5, "A-", AttemptCompulsory)),
		semester(3, 3, "2025-09",
			attempt("C1", 2, "F", AttemptCompulsory),
			attempt("C2", 3, "NM", AttemptCompulsory)),
	}

	points := Trend(table, semesters)
	require.Len(t, points, 3)

	var all []ModuleAttempt
	for _, s := range semesters {
		all = append(all, s.Attempts...)
	}
	flat := Summarize(table, all)

	assert.InDelta(t, flat.GPA, points[len(points)-1].CGPA, 1e-9)
}

func TestTrend_ZeroCreditsYieldsZeroCGPA(t *testing.T) {
	table := grading.Default()

	points := Trend(table, []SemesterRecord{
		semester(1, 1, "2025-02", attempt("MATH101", 3, "NM", AttemptCompulsory)),
	})
	require.Len(t, points, 1)
	assert.Equal(t, 0.0, points[0].GPA)
	assert.Equal(t, 0.0, points[0].CGPA)
}

func TestTrend_Empty(t *testing.T) {
	points := Trend(grading.Default(), nil)
	assert.Empty(t, points)
}
