package progression

import (
	"fmt"
	"strings"

	"github.com/registry-hub/progression-engine/internal/domain/grading"
)

// Standing is the outcome of the faculty remarks policy.
type Standing string

const (
	StandingProceed Standing = "Proceed"
	StandingRemain  Standing = "Remain-in-Semester"
	StandingNoMarks Standing = "No-Marks"
)

// RemainThreshold is the fixed policy constant: failing this many modules in
// the latest semester keeps the student in that semester.
const RemainThreshold = 3

// ModuleRef identifies a module in a remarks result, annotated with the
// semester of its most recent relevant occurrence.
type ModuleRef struct {
	ModuleCode  string
	ModuleName  string
	Term        string
	SemesterID  int64
	GradeSymbol string
}

// RemarksResult is the computed academic standing. It is never persisted.
type RemarksResult struct {
	Standing             Standing
	FailedModules        []ModuleRef // carried failures, deduplicated by module name
	SupplementaryModules []ModuleRef // outstanding PP modules, deduplicated by module name
	Message              string
	Details              string
	Trend                []TrendPoint
	CreditsAttempted     float64
	CreditsCompleted     float64

	// HasData is false for enrollments with zero retained semesters. Callers
	// must treat that as insufficient data, not as a pass.
	HasData bool

	// IntegrityWarning is set when more than one Active enrollment existed
	// and the most recently created one was picked.
	IntegrityWarning bool
}

// EvaluateRemarks decides a student's standing over the selected enrollment.
// It is deterministic: the same immutable input always yields the same output.
func EvaluateRemarks(table *grading.Table, enrollment *ProgramEnrollment) RemarksResult {
	result := RemarksResult{Standing: StandingProceed}
	if enrollment == nil {
		result.Details = "Student is eligible to proceed"
		result.Message = string(StandingProceed)
		result.Trend = []TrendPoint{}
		return result
	}

	semesters := enrollment.RetainedSemesters()
	result.HasData = len(semesters) > 0
	result.Trend = Trend(table, semesters)
	for _, p := range result.Trend {
		result.CreditsAttempted += p.CreditsAttempted
		result.CreditsCompleted += p.CreditsCompleted
	}

	// No-Marks takes priority over everything else.
	for _, sem := range semesters {
		for _, a := range sem.Attempts {
			if a.Status.Excluded() {
				continue
			}
			if grading.Normalize(a.GradeSymbol) == grading.SymbolNoMark {
				result.Standing = StandingNoMarks
				result.Message = "No Marks"
				result.Details = "one or more modules have no marks captured"
				return result
			}
		}
	}

	latestFailed := 0
	if len(semesters) > 0 {
		latest := semesters[len(semesters)-1]
		for _, a := range latest.Attempts {
			if a.Status.Excluded() {
				continue
			}
			if table.IsFailing(a.GradeSymbol) {
				latestFailed++
			}
		}
	}
	if latestFailed >= RemainThreshold {
		result.Standing = StandingRemain
		result.Details = fmt.Sprintf("Failed %d modules in latest semester", latestFailed)
	} else {
		result.Details = "Student is eligible to proceed"
	}

	result.FailedModules = carriedFailures(table, semesters)
	result.SupplementaryModules = outstandingSupplementaries(table, semesters)
	result.Message = composeMessage(table, result.Standing, result.SupplementaryModules, result.FailedModules)
	return result
}

// carriedFailures collects modules whose grade is failing or supplementary and
// that were never passed under the same module name anywhere in the history.
// A later pass supersedes an earlier fail or supplement. Each module appears
// once, tagged with its most recent failing occurrence.
func carriedFailures(table *grading.Table, semesters []SemesterRecord) []ModuleRef {
	passed := passedModuleNames(table, semesters)

	byName := make(map[string]ModuleRef)
	order := make([]string, 0)

	// Semesters arrive in ascending chronological order, so later occurrences
	// overwrite earlier ones and the tag ends up on the most recent failure.
	for _, sem := range semesters {
		for _, a := range sem.Attempts {
			if a.Status.Excluded() {
				continue
			}
			if !table.IsFailing(a.GradeSymbol) && !table.IsSupplementary(a.GradeSymbol) {
				continue
			}
			name := strings.TrimSpace(a.ModuleName)
			if passed[name] {
				continue
			}
			if _, seen := byName[name]; !seen {
				order = append(order, name)
			}
			byName[name] = ModuleRef{
				ModuleCode:  a.ModuleCode,
				ModuleName:  name,
				Term:        sem.Term,
				SemesterID:  sem.ID,
				GradeSymbol: grading.Normalize(a.GradeSymbol),
			}
		}
	}

	out := make([]ModuleRef, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

// outstandingSupplementaries collects modules graded exactly PP that were
// never passed, deduplicated by module name.
func outstandingSupplementaries(table *grading.Table, semesters []SemesterRecord) []ModuleRef {
	passed := passedModuleNames(table, semesters)

	byName := make(map[string]ModuleRef)
	order := make([]string, 0)
	for _, sem := range semesters {
		for _, a := range sem.Attempts {
			if a.Status.Excluded() || !table.IsSupplementary(a.GradeSymbol) {
				continue
			}
			name := strings.TrimSpace(a.ModuleName)
			if passed[name] {
				continue
			}
			if _, seen := byName[name]; !seen {
				order = append(order, name)
			}
			byName[name] = ModuleRef{
				ModuleCode:  a.ModuleCode,
				ModuleName:  name,
				Term:        sem.Term,
				SemesterID:  sem.ID,
				GradeSymbol: grading.SymbolSupplementary,
			}
		}
	}

	out := make([]ModuleRef, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

func passedModuleNames(table *grading.Table, semesters []SemesterRecord) map[string]bool {
	passed := make(map[string]bool)
	for _, sem := range semesters {
		for _, a := range sem.Attempts {
			if a.Status.Excluded() {
				continue
			}
			if table.IsPassing(a.GradeSymbol) {
				passed[strings.TrimSpace(a.ModuleName)] = true
			}
		}
	}
	return passed
}

// composeMessage builds "<status>[, must supplement <names>][, must repeat <names>]".
// The repeat clause lists carried failures that are outright fails; modules
// only owing a supplementary sit in the supplement clause.
func composeMessage(table *grading.Table, standing Standing, supplementary, failed []ModuleRef) string {
	var b strings.Builder
	b.WriteString(string(standing))

	if names := moduleNames(supplementary); len(names) > 0 {
		b.WriteString(", must supplement ")
		b.WriteString(strings.Join(names, ", "))
	}

	repeatNames := make([]string, 0, len(failed))
	for _, m := range failed {
		if table.IsFailing(m.GradeSymbol) {
			repeatNames = append(repeatNames, m.ModuleName)
		}
	}
	if len(repeatNames) > 0 {
		b.WriteString(", must repeat ")
		b.WriteString(strings.Join(repeatNames, ", "))
	}
	return b.String()
}

func moduleNames(refs []ModuleRef) []string {
	names := make([]string, 0, len(refs))
	for _, m := range refs {
		names = append(names, m.ModuleName)
	}
	return names
}
