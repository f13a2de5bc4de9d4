package progression

import (
	"github.com/registry-hub/progression-engine/internal/domain/grading"
)

// SemesterSummary aggregates one semester's module attempts.
//
// CreditsAttempted counts every non-excluded attempt regardless of grade.
// CreditsForGPA counts attempts that have a submitted grade (not NM/empty).
// CreditsCompleted counts attempts whose resolved grade point is strictly
// positive. GPA is zero rather than NaN when no credits carry a grade.
type SemesterSummary struct {
	QualityPoints    float64
	CreditsAttempted float64
	CreditsForGPA    float64
	CreditsCompleted float64
	GPA              float64
}

// Summarize aggregates a semester's attempts. It is a total function: unknown
// grade symbols degrade to the zero-point fallback instead of failing, so a
// transcript always renders even with dirty data.
func Summarize(table *grading.Table, attempts []ModuleAttempt) SemesterSummary {
	var sum SemesterSummary

	for _, a := range attempts {
		if a.Status.Excluded() {
			continue
		}

		symbol := grading.Normalize(a.GradeSymbol)
		credits := a.Credits.Float64()
		sum.CreditsAttempted += credits

		// In-flight: registered but no mark captured yet.
		if symbol == "" || symbol == grading.SymbolNoMark {
			continue
		}

		sum.CreditsForGPA += credits
		def := table.ResolveSymbolOrFallback(symbol)
		if def.HasPoints() {
			sum.QualityPoints += def.PointsValue() * credits
		}
		if def.HasPoints() && def.PointsValue() > 0 {
			sum.CreditsCompleted += credits
		}
	}

	if sum.CreditsForGPA > 0 {
		sum.GPA = sum.QualityPoints / sum.CreditsForGPA
	}
	return sum
}
