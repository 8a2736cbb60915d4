package services

import (
	"fmt"

	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/logger"
)

// DefaultRelevanceThreshold is the score above which content is kept.
const DefaultRelevanceThreshold = 0.3

// maxReportedKeywords caps the matched-keyword list in a verdict.
const maxReportedKeywords = 10

// Keywords indicating funding-call relevant content.
var positiveKeywords = keywordSet{
	// Funding terms
	"funding", "grant", "award", "budget", "finance", "cost",
	"million", "pounds", "£", "GBP",

	// Application terms
	"application", "apply", "submit", "deadline", "closing date",
	"eligibility", "eligible", "criteria", "requirement",

	// Process terms
	"assessment", "evaluation", "review", "selection", "decision",
	"interview", "panel", "committee",

	// Document terms
	"form", "template", "guidance", "specification", "proposal",

	// Research terms
	"research", "study", "project", "programme", "collaboration",
	"partnership", "consortium", "institution",

	// Funder-specific terms
	"NIHR", "Innovate UK", "NHS", "health", "clinical", "innovation",
}

// Keywords indicating the content is probably not worth indexing.
var negativeKeywords = keywordSet{
	"news", "blog", "press release", "annual report",
	"vacancy", "job", "career", "recruitment",
	"event", "conference", "workshop", "webinar",
	"twitter", "facebook", "linkedin", "social media",
}

// RelevanceScorer scores extracted text for topical relevance.
//
// The formula (positive ratio doubled minus negative ratio, with a 1.5x
// boost past ten matches) is a tuned heuristic carried over from the
// production corpus, not a derived metric.
type RelevanceScorer struct {
	threshold float64
}

// ScorerOption configures the scorer.
type ScorerOption func(*RelevanceScorer)

// WithThreshold sets the relevance threshold.
func WithThreshold(threshold float64) ScorerOption {
	return func(s *RelevanceScorer) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// NewRelevanceScorer creates a relevance scorer.
func NewRelevanceScorer(opts ...ScorerOption) *RelevanceScorer {
	s := &RelevanceScorer{threshold: DefaultRelevanceThreshold}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates extracted text and returns a relevance verdict.
func (s *RelevanceScorer) Score(text, sourceURL string) domain.RelevanceVerdict {
	positive := positiveKeywords.matches(text)
	negative := negativeKeywords.matches(text)

	positiveRatio := float64(len(positive)) / float64(len(positiveKeywords))
	negativeRatio := float64(len(negative)) / float64(len(negativeKeywords))

	score := positiveRatio*2 - negativeRatio
	score = clamp(score, 0, 1)

	// High keyword density boost
	if len(positive) > 10 {
		score = min(score*1.5, 1)
	}

	relevant := score > s.threshold

	var reason string
	switch {
	case relevant:
		reason = fmt.Sprintf("relevant: %d funding keywords found", len(positive))
	case len(negative) > 0:
		reason = fmt.Sprintf("not relevant: appears to be %s content", negative[0])
	default:
		reason = "not relevant: insufficient funding-related content"
	}

	matched := positive
	if len(matched) > maxReportedKeywords {
		matched = matched[:maxReportedKeywords]
	}

	logger.Debug("Scored %s: %.2f (%d positive, %d negative)",
		sourceURL, score, len(positive), len(negative))
	return domain.RelevanceVerdict{
		Score:           score,
		IsRelevant:      relevant,
		MatchedKeywords: matched,
		Reason:          reason,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
