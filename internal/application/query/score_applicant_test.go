package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registry-hub/progression-engine/internal/domain/admission"
	"github.com/registry-hub/progression-engine/internal/domain/grading"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

func TestScoreApplicant(t *testing.T) {
	h := NewScoreApplicantHandler(grading.Default(), testLogger())

	result, err := h.Handle(context.Background(), ScoreApplicantQuery{
		ApplicantID: "APP-1",
		Records: []admission.AcademicRecord{{
			Level: 1,
			Subjects: []admission.SubjectGrade{
				{Subject: "Math", Grade: "A+"},
				{Subject: "Physics", Grade: "B+"},
			},
		}},
		Requirement: &admission.EntryRequirement{
			Type:     admission.RuleSubjectGrades,
			Subjects: []string{"Math", "Physics"},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Evaluated())
	assert.True(t, result.Met())
	assert.InDelta(t, 2.5, *result.Score, 1e-9)
}

func TestScoreApplicant_NoRequirement(t *testing.T) {
	h := NewScoreApplicantHandler(grading.Default(), testLogger())

	result, err := h.Handle(context.Background(), ScoreApplicantQuery{
		ApplicantID: "APP-1",
		Records:     []admission.AcademicRecord{{Level: 1}},
	})
	require.NoError(t, err)
	assert.False(t, result.Evaluated())
	assert.False(t, result.Met())
	assert.Nil(t, result.Score)
}

func TestScoreApplicant_RulesNotMet(t *testing.T) {
	h := NewScoreApplicantHandler(grading.Default(), testLogger())

	result, err := h.Handle(context.Background(), ScoreApplicantQuery{
		ApplicantID: "APP-1",
		Records: []admission.AcademicRecord{{
			Level:    1,
			Subjects: []admission.SubjectGrade{{Subject: "History", Grade: "A"}},
		}},
		Requirement: &admission.EntryRequirement{
			Type:     admission.RuleSubjectGrades,
			Subjects: []string{"Math"},
		},
	})
	require.NoError(t, err)
	// Evaluated and failed is a zero score, not a nil one.
	require.True(t, result.Evaluated())
	assert.False(t, result.Met())
	assert.Equal(t, 0.0, *result.Score)
}

func TestScoreApplicant_MissingID(t *testing.T) {
	h := NewScoreApplicantHandler(grading.Default(), testLogger())

	_, err := h.Handle(context.Background(), ScoreApplicantQuery{})
	assert.True(t, shared.IsValidation(err))
}
