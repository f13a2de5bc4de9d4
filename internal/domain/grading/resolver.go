package grading

import (
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// ResolveSymbol resolves a raw grade symbol to its definition.
// The symbol is normalized (trimmed, upper-cased) before lookup.
// Returns shared.ErrGradeNotFound for unknown symbols.
func (t *Table) ResolveSymbol(raw string) (GradeDefinition, error) {
	d, ok := t.defs[Normalize(raw)]
	if !ok {
		return GradeDefinition{}, shared.ErrGradeNotFound
	}
	return d, nil
}

// ResolveMarks resolves integer marks to the unique definition whose range
// contains them. The built-in table covers [0,100] by construction, so a gap
// here is a configuration error, not a runtime nil.
func (t *Table) ResolveMarks(marks int) (GradeDefinition, error) {
	if marks < 0 || marks > 100 {
		return GradeDefinition{}, shared.ErrMarksOutOfRange
	}
	for _, s := range t.order {
		d := t.defs[s]
		if d.Marks != nil && d.Marks.Contains(marks) {
			return d, nil
		}
	}
	return GradeDefinition{}, shared.ErrMarksRangeGap
}

// ResolveSymbolOrFallback resolves a symbol, degrading unknown symbols to the
// zero-point fail-equivalent definition (GNS). Batch computation over dirty
// transcripts must stay total: one bad record never aborts the whole run.
func (t *Table) ResolveSymbolOrFallback(raw string) GradeDefinition {
	if d, err := t.ResolveSymbol(raw); err == nil {
		return d
	}
	return t.defs[symbolFallback]
}

// IsFailing reports whether the symbol belongs to the explicit closed failing
// set {F, X, GNS, ANN, FIN, FX, DNC, DNA, DNS}, independent of point value.
func (t *Table) IsFailing(raw string) bool {
	_, ok := failingSymbols[Normalize(raw)]
	return ok
}

// IsSupplementary reports whether the symbol is exactly "PP".
func (t *Table) IsSupplementary(raw string) bool {
	return Normalize(raw) == SymbolSupplementary
}

// IsPassing reports whether the symbol carries a non-nil positive grade point
// and is not in the failing set. Supplementary is never passing.
func (t *Table) IsPassing(raw string) bool {
	d, err := t.ResolveSymbol(raw)
	if err != nil {
		return false
	}
	if t.IsFailing(d.Symbol) || d.Symbol == SymbolSupplementary {
		return false
	}
	return d.Points != nil && *d.Points > 0
}

// IsNeutral reports whether the symbol is excluded from GPA without being a
// failure (nil point, e.g. NM, EXP, DEF). Callers must handle this third
// class explicitly; neutral never defaults to failing.
func (t *Table) IsNeutral(raw string) bool {
	d, err := t.ResolveSymbol(raw)
	if err != nil {
		return false
	}
	return d.Points == nil && !t.IsFailing(d.Symbol) && d.Symbol != SymbolSupplementary
}

// Rank returns the 1-based position of the symbol in the table's best-first
// definition order. Admissions scoring averages these ranks, so a lower rank
// is a better grade. The second return is false for unknown symbols.
func (t *Table) Rank(raw string) (int, bool) {
	symbol := Normalize(raw)
	for i, s := range t.order {
		if s == symbol {
			return i + 1, true
		}
	}
	return 0, false
}
