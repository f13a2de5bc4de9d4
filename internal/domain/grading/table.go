// Package grading contains the static grade table and the grade resolver.
// This is the leaf of the engine: no dependencies besides shared errors.
package grading

import (
	"sort"
	"strings"

	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// MarksRange is an inclusive range of integer marks.
type MarksRange struct {
	Min int
	Max int
}

// Contains checks whether marks fall inside the range.
func (r MarksRange) Contains(marks int) bool {
	return marks >= r.Min && marks <= r.Max
}

// GradeDefinition is an immutable grade table row.
// Points is nil for grades excluded from GPA that are not failures
// (e.g. NM, EXP, DEF, the "neutral" class).
type GradeDefinition struct {
	Symbol      string
	Description string
	Points      *float64
	Marks       *MarksRange
}

// HasPoints reports whether the grade contributes to quality points.
func (d GradeDefinition) HasPoints() bool {
	return d.Points != nil
}

// PointsValue returns the grade point, or 0 when the grade carries none.
func (d GradeDefinition) PointsValue() float64 {
	if d.Points == nil {
		return 0
	}
	return *d.Points
}

func pts(v float64) *float64 { return &v }

// SymbolSupplementary is the single supplementary grade. A module graded PP
// requires additional assessment rather than an outright repeat.
const SymbolSupplementary = "PP"

// SymbolNoMark marks an attempt whose marks have not been captured yet.
const SymbolNoMark = "NM"

// symbolFallback is the fail-equivalent definition unknown symbols resolve to
// in batch computation, so one dirty record never aborts a transcript.
const symbolFallback = "GNS"

// failingSymbols is the closed set of failing grades. Membership here is
// independent of point value.
var failingSymbols = map[string]struct{}{
	"F": {}, "X": {}, "GNS": {}, "ANN": {}, "FIN": {},
	"FX": {}, "DNC": {}, "DNA": {}, "DNS": {},
}

// builtinDefinitions is the registry data, best grade first. The marks-carrying
// rows partition [0,100]; symbol-only rows are administrative grades.
var builtinDefinitions = []GradeDefinition{
	{Symbol: "A+", Description: "Distinction", Points: pts(4.0), Marks: &MarksRange{90, 100}},
	{Symbol: "A", Description: "Distinction", Points: pts(4.0), Marks: &MarksRange{85, 89}},
	{Symbol: "A-", Description: "Distinction", Points: pts(4.0), Marks: &MarksRange{80, 84}},
	{Symbol: "B+", Description: "Merit", Points: pts(3.67), Marks: &MarksRange{75, 79}},
	{Symbol: "B", Description: "Merit", Points: pts(3.33), Marks: &MarksRange{70, 74}},
	{Symbol: "B-", Description: "Credit", Points: pts(3.0), Marks: &MarksRange{65, 69}},
	{Symbol: "C+", Description: "Credit", Points: pts(2.67), Marks: &MarksRange{60, 64}},
	{Symbol: "C", Description: "Pass", Points: pts(2.33), Marks: &MarksRange{55, 59}},
	{Symbol: "C-", Description: "Pass", Points: pts(2.0), Marks: &MarksRange{50, 54}},
	{Symbol: "PC", Description: "Pass Conceded", Points: pts(2.0)},
	{Symbol: "PX", Description: "Pass Exempted", Points: pts(2.0)},
	{Symbol: "AP", Description: "Aegrotat Pass", Points: pts(2.0)},
	{Symbol: "PP", Description: "Pass Provisional (supplementary)", Points: pts(0), Marks: &MarksRange{45, 49}},
	{Symbol: "F", Description: "Fail", Points: pts(0), Marks: &MarksRange{0, 44}},
	{Symbol: "X", Description: "Fail (absent)", Points: pts(0)},
	{Symbol: "GNS", Description: "Grade Not Submitted", Points: pts(0)},
	{Symbol: "ANN", Description: "Result Annulled", Points: pts(0)},
	{Symbol: "FIN", Description: "Fail Incomplete", Points: pts(0)},
	{Symbol: "FX", Description: "Fail (excluded)", Points: pts(0)},
	{Symbol: "DNC", Description: "Did Not Complete", Points: pts(0)},
	{Symbol: "DNA", Description: "Did Not Attend", Points: pts(0)},
	{Symbol: "DNS", Description: "Did Not Submit", Points: pts(0)},
	{Symbol: "NM", Description: "No Marks captured", Points: nil},
	{Symbol: "EXP", Description: "Exempted", Points: nil},
	{Symbol: "DEF", Description: "Deferred", Points: nil},
}

// Table is the immutable, validated grade registry built once at load.
type Table struct {
	defs  map[string]GradeDefinition
	order []string // definition order, best grade first; drives Rank
}

// NewTable builds a validated Table. Duplicate symbols and marks-range
// gaps/overlaps over [0,100] are configuration errors: the table must halt
// the process rather than silently misgrade.
func NewTable(defs []GradeDefinition) (*Table, error) {
	t := &Table{
		defs:  make(map[string]GradeDefinition, len(defs)),
		order: make([]string, 0, len(defs)),
	}

	ranged := make([]MarksRange, 0, len(defs))
	for _, d := range defs {
		symbol := Normalize(d.Symbol)
		if symbol == "" {
			return nil, shared.NewDomainError("grading", "Load", shared.ErrConfiguration, "empty grade symbol")
		}
		if _, dup := t.defs[symbol]; dup {
			return nil, shared.WrapError("grading", "Load", shared.ErrConfiguration, "duplicate grade symbol "+symbol, shared.ErrDuplicateSymbol)
		}
		d.Symbol = symbol
		t.defs[symbol] = d
		t.order = append(t.order, symbol)
		if d.Marks != nil {
			ranged = append(ranged, *d.Marks)
		}
	}

	if err := validateRanges(ranged); err != nil {
		return nil, err
	}
	return t, nil
}

// validateRanges checks that the marks-carrying rows partition [0,100].
func validateRanges(ranges []MarksRange) error {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Min < ranges[j].Min })

	for _, r := range ranges {
		if r.Min < 0 || r.Max > 100 || r.Min > r.Max {
			return shared.ErrMarksRangeGap
		}
	}
	if ranges[0].Min != 0 || ranges[len(ranges)-1].Max != 100 {
		return shared.ErrMarksRangeGap
	}
	for i := 1; i < len(ranges); i++ {
		if ranges[i].Min <= ranges[i-1].Max {
			return shared.ErrMarksRangeOverlap
		}
		if ranges[i].Min != ranges[i-1].Max+1 {
			return shared.ErrMarksRangeGap
		}
	}
	return nil
}

var defaultTable = func() *Table {
	t, err := NewTable(builtinDefinitions)
	if err != nil {
		panic(err) // static data: fail fast at process start
	}
	return t
}()

// Default returns the built-in validated grade table.
func Default() *Table {
	return defaultTable
}

// Normalize canonicalizes a raw grade symbol: trim and upper-case.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Definitions returns the table rows in definition order, best grade first.
func (t *Table) Definitions() []GradeDefinition {
	out := make([]GradeDefinition, 0, len(t.order))
	for _, s := range t.order {
		out = append(out, t.defs[s])
	}
	return out
}
