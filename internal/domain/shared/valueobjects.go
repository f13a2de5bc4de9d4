// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentNo represents a university student number.
type StudentNo int64

// IsValid checks if the student number is valid (positive number).
func (s StudentNo) IsValid() bool {
	return s > 0
}

// Int64 returns the underlying int64 value.
func (s StudentNo) Int64() int64 {
	return int64(s)
}

// String returns the string representation.
func (s StudentNo) String() string {
	return fmt.Sprintf("%d", s)
}

// NewStudentNo creates a new StudentNo with validation.
func NewStudentNo(n int64) (StudentNo, error) {
	if n <= 0 {
		return 0, NewDomainError("shared", "NewStudentNo", ErrInvalidID, "student number must be positive")
	}
	return StudentNo(n), nil
}

// TermID represents the internal identifier of an academic term.
type TermID int64

// IsValid checks if the term ID is valid.
func (t TermID) IsValid() bool {
	return t > 0
}

// Int64 returns the underlying int64 value.
func (t TermID) Int64() int64 {
	return int64(t)
}

// ═══════════════════════════════════════════════════════════════════════════
// TermCode Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TermCode represents a human-entered term code, e.g. "2026-02".
type TermCode string

// Term code format: year followed by intake month.
var termCodeRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValid checks if the term code format is valid.
func (c TermCode) IsValid() bool {
	return termCodeRegex.MatchString(string(c))
}

// String returns the string representation.
func (c TermCode) String() string {
	return string(c)
}

// Year extracts the year from the term code.
func (c TermCode) Year() int {
	if !c.IsValid() {
		return 0
	}
	year := 0
	fmt.Sscanf(string(c[:4]), "%d", &year)
	return year
}

// NewTermCode creates a new TermCode with validation.
func NewTermCode(value string) (TermCode, error) {
	c := TermCode(strings.TrimSpace(value))
	if !c.IsValid() {
		return "", NewDomainError("shared", "NewTermCode", ErrInvalidFormat, "invalid term code, expected YYYY-MM")
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Department Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Department represents a clearing department.
type Department string

const (
	DepartmentFinance  Department = "finance"
	DepartmentLibrary  Department = "library"
	DepartmentAcademic Department = "academic"
	DepartmentRegistry Department = "registry"
)

// AllDepartments lists every clearing department.
func AllDepartments() []Department {
	return []Department{DepartmentFinance, DepartmentLibrary, DepartmentAcademic, DepartmentRegistry}
}

// IsValid checks if the department is a known clearing department.
func (d Department) IsValid() bool {
	switch d {
	case DepartmentFinance, DepartmentLibrary, DepartmentAcademic, DepartmentRegistry:
		return true
	}
	return false
}

// String returns the string representation.
func (d Department) String() string {
	return string(d)
}

// NewDepartment creates a new Department with validation.
func NewDepartment(value string) (Department, error) {
	d := Department(strings.ToLower(strings.TrimSpace(value)))
	if !d.IsValid() {
		return "", NewDomainError("shared", "NewDepartment", ErrInvalidInput, "unknown department")
	}
	return d, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Credits Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Credits represents module credit hours.
type Credits float64

// IsValid checks that credits are non-negative.
func (c Credits) IsValid() bool {
	return c >= 0
}

// Float64 returns the underlying float64 value.
func (c Credits) Float64() float64 {
	return float64(c)
}

// NewCredits creates a new Credits value with validation.
func NewCredits(value float64) (Credits, error) {
	c := Credits(value)
	if !c.IsValid() {
		return 0, NewDomainError("shared", "NewCredits", ErrNegativeValue, "credits cannot be negative")
	}
	return c, nil
}
