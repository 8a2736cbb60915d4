package domain

// ClassificationVerdict is the outcome of classifying a discovered link.
type ClassificationVerdict struct {
	// ShouldFollow indicates whether the link is worth fetching.
	ShouldFollow bool

	// Confidence is the strength of the verdict (0-1).
	Confidence float64

	// Reason is a human-readable explanation of the verdict.
	Reason string
}

// RelevanceVerdict is the outcome of scoring extracted page text.
type RelevanceVerdict struct {
	// Score is the relevance score (0-1).
	Score float64

	// IsRelevant is true when Score exceeds the relevance threshold.
	IsRelevant bool

	// MatchedKeywords lists up to ten matched positive keywords.
	MatchedKeywords []string

	// Reason is a human-readable explanation of the verdict.
	Reason string
}

// PartnershipInfo describes partnership signals detected on a record.
type PartnershipInfo struct {
	// IsPartnership is true when any indicator term was found.
	IsPartnership bool

	// Confidence is 0.9 when a known partner resolved, 0.6 otherwise.
	Confidence float64

	// PartnerName is the resolved partner organisation, empty if none.
	PartnerName string

	// PartnerURL is the resolved partner page URL, empty if none.
	PartnerURL string

	// Indicators lists the matched indicator terms.
	Indicators []string
}
