// Package admission contains the admissions score calculator: ranking an
// applicant's pre-tertiary academic records against a program's entry
// requirement. It reuses the grade table's ranking semantics.
package admission

import (
	"strings"

	"github.com/registry-hub/progression-engine/internal/domain/grading"
)

// SubjectGrade is one graded subject inside an academic record.
type SubjectGrade struct {
	Subject string
	Grade   string
}

// AcademicRecord is one qualification an applicant presents, tagged with a
// qualification level. Higher levels replace lower ones entirely; levels are
// never blended.
type AcademicRecord struct {
	Level          int // qualification level rank, higher = more advanced
	Course         string
	Classification string // e.g. "Distinction", "Merit", "Pass"
	Subjects       []SubjectGrade
}

// RuleType selects the scoring mode of an entry requirement.
type RuleType string

const (
	RuleSubjectGrades  RuleType = "subject-grades"
	RuleClassification RuleType = "classification"
)

// EntryRequirement is a program-specific admissions criterion.
type EntryRequirement struct {
	Type RuleType

	// Subjects is the required subject set for subject-grade rules. When
	// empty, all of the applicant's subjects are averaged.
	Subjects []string

	// Courses restricts classification rules to matching courses. When
	// empty, any course matches.
	Courses []string
}

// classificationScores is the fixed classification→score table.
var classificationScores = map[string]float64{
	"distinction": 5,
	"merit":       4,
	"credit":      3,
	"pass":        2,
}

// passTierScore is the default for records that pass course-matching but
// carry an unrecognized classification.
const passTierScore = float64(2)

// Score evaluates an applicant against one entry requirement.
//
// The return distinguishes two failure modes the caller must not conflate:
// nil means no applicable entry requirement exists for this level/program
// pair; a non-nil 0 means the rules were evaluated and not met.
func Score(table *grading.Table, records []AcademicRecord, requirement *EntryRequirement) *float64 {
	if requirement == nil {
		return nil
	}

	records = highestLevelOnly(records)
	if len(records) == 0 {
		return nil
	}

	var score float64
	switch requirement.Type {
	case RuleClassification:
		score = classificationScore(records, requirement)
	default:
		score = subjectGradeScore(table, records, requirement)
	}
	return &score
}

// highestLevelOnly restricts records to the applicant's highest
// qualification level.
func highestLevelOnly(records []AcademicRecord) []AcademicRecord {
	highest := 0
	for _, r := range records {
		if r.Level > highest {
			highest = r.Level
		}
	}
	out := make([]AcademicRecord, 0, len(records))
	for _, r := range records {
		if r.Level == highest {
			out = append(out, r)
		}
	}
	return out
}

// subjectGradeScore averages the rank of the best grade per required subject.
// Duplicate subjects across records keep the best grade. Subjects outside the
// requirement's set are ignored unless the requirement lists none.
func subjectGradeScore(table *grading.Table, records []AcademicRecord, requirement *EntryRequirement) float64 {
	wanted := make(map[string]bool, len(requirement.Subjects))
	for _, s := range requirement.Subjects {
		wanted[normalizeName(s)] = true
	}

	bestRank := make(map[string]int)
	for _, r := range records {
		for _, sg := range r.Subjects {
			subject := normalizeName(sg.Subject)
			if len(wanted) > 0 && !wanted[subject] {
				continue
			}
			rank, ok := table.Rank(sg.Grade)
			if !ok {
				continue
			}
			if current, seen := bestRank[subject]; !seen || rank < current {
				bestRank[subject] = rank
			}
		}
	}

	// Every required subject must be present and graded.
	if len(wanted) > 0 && len(bestRank) < len(wanted) {
		return 0
	}
	if len(bestRank) == 0 {
		return 0
	}

	sum := 0
	for _, rank := range bestRank {
		sum += rank
	}
	return float64(sum) / float64(len(bestRank))
}

// classificationScore maps the applicant's best overall classification
// through the fixed score table. Records failing course-matching are ignored;
// a matching record with an unknown classification defaults to the Pass tier
// rather than failing outright.
func classificationScore(records []AcademicRecord, requirement *EntryRequirement) float64 {
	best := float64(0)
	for _, r := range records {
		if !courseMatches(r.Course, requirement.Courses) {
			continue
		}
		score, ok := classificationScores[normalizeName(r.Classification)]
		if !ok {
			score = passTierScore
		}
		if score > best {
			best = score
		}
	}
	return best
}

func courseMatches(course string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, c := range allowed {
		if normalizeName(c) == normalizeName(course) {
			return true
		}
	}
	return false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
