package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_RelevantContent(t *testing.T) {
	s := NewRelevanceScorer()

	text := `This funding opportunity provides a grant award for health research.
	Check the eligibility criteria before you apply. The application deadline
	and assessment process are described in the guidance. NIHR and NHS
	partnership projects are eligible.`

	v := s.Score(text, "https://example.org/guidance")
	assert.True(t, v.IsRelevant)
	assert.Greater(t, v.Score, 0.3)
	assert.NotEmpty(t, v.MatchedKeywords)
	assert.LessOrEqual(t, len(v.MatchedKeywords), 10)
	assert.Contains(t, v.Reason, "funding keywords")
}

func TestScore_NegativeContent(t *testing.T) {
	s := NewRelevanceScorer()

	text := `Latest news from our blog. Read the press release about the
	conference and workshop. Follow us on twitter, facebook and linkedin
	for social media updates. Careers and recruitment information.`

	v := s.Score(text, "")
	assert.False(t, v.IsRelevant)
	// The first matched negative keyword is cited.
	assert.Contains(t, v.Reason, "appears to be news content")
}

func TestScore_EmptyText(t *testing.T) {
	s := NewRelevanceScorer()

	v := s.Score("", "")
	assert.False(t, v.IsRelevant)
	assert.Zero(t, v.Score)
	assert.Contains(t, v.Reason, "insufficient")
}

func TestScore_DensityBoost(t *testing.T) {
	s := NewRelevanceScorer()

	// More than ten distinct positive keywords triggers the 1.5x boost.
	dense := strings.Join([]string{
		"funding", "grant", "award", "budget", "application", "apply",
		"deadline", "eligibility", "criteria", "assessment", "guidance",
		"research",
	}, " ")

	sparse := "funding grant award budget application apply"

	vd := s.Score(dense, "")
	vs := s.Score(sparse, "")
	assert.Greater(t, vd.Score, vs.Score)
	assert.True(t, vd.IsRelevant)
}

func TestScore_ClampedToUnitRange(t *testing.T) {
	s := NewRelevanceScorer()

	// Every positive keyword present: score must still cap at 1.
	all := strings.Join(positiveKeywords, " ")
	v := s.Score(all, "")
	assert.LessOrEqual(t, v.Score, 1.0)
	assert.GreaterOrEqual(t, v.Score, 0.0)
}

func TestScore_CustomThreshold(t *testing.T) {
	strict := NewRelevanceScorer(WithThreshold(0.99))

	text := "funding grant eligibility application guidance research"
	v := strict.Score(text, "")
	assert.False(t, v.IsRelevant)
}
