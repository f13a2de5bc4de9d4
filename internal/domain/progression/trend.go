package progression

import (
	"github.com/registry-hub/progression-engine/internal/domain/grading"
)

// TrendPoint is one semester's entry in the GPA/CGPA trend.
type TrendPoint struct {
	SemesterID       int64
	Term             string
	GPA              float64
	CGPA             float64
	CreditsAttempted float64
	CreditsCompleted float64
}

// Trend walks retained semesters in ascending chronological order, carrying
// cumulative quality points and GPA credits forward, and emits one point per
// semester in the same order. Callers pass the output of RetainedSemesters.
func Trend(table *grading.Table, semesters []SemesterRecord) []TrendPoint {
	points := make([]TrendPoint, 0, len(semesters))

	var cumulativePoints, cumulativeCredits float64
	for _, sem := range semesters {
		sum := Summarize(table, sem.Attempts)
		cumulativePoints += sum.QualityPoints
		cumulativeCredits += sum.CreditsForGPA

		cgpa := 0.0
		if cumulativeCredits > 0 {
			cgpa = cumulativePoints / cumulativeCredits
		}

		points = append(points, TrendPoint{
			SemesterID:       sem.ID,
			Term:             sem.Term,
			GPA:              sum.GPA,
			CGPA:             cgpa,
			CreditsAttempted: sum.CreditsAttempted,
			CreditsCompleted: sum.CreditsCompleted,
		})
	}
	return points
}
