package services

import (
	"net/url"
	"strings"

	"github.com/grantlight/enrich/internal/core/domain"
)

// URL path patterns that always justify following a link.
var highValuePaths = newRuleTable(
	`/guidance/`,
	`/eligibility`,
	`/how-to-apply`,
	`/application`,
	`/specification`,
	`/requirements`,
	`/faqs?`,
	`/resources`,
	`/documents`,
	`/forms?`,
	`/timeline`,
	`/key-dates`,
)

// URL path patterns that never justify following a link. PDFs are
// handled by their own pipeline; images and anchors carry no text.
var lowValuePaths = newRuleTable(
	`/news/`,
	`/events/`,
	`/contact`,
	`/about`,
	`/careers`,
	`/privacy`,
	`/terms`,
	`/cookie`,
	`/accessibility`,
	`/sitemap`,
	`\.pdf$`,
	`\.(jpg|jpeg|png|gif|svg)$`,
	`/login`,
	`/register`,
	`/search\?`,
	`#`,
)

// Anchor text keywords that justify following an otherwise unknown link.
var highValueLinkText = keywordSet{
	"guidance",
	"eligibility",
	"application",
	"specification",
	"requirements",
	"how to apply",
	"download",
	"form",
	"template",
	"criteria",
	"assessment",
	"evaluation",
}

// LinkClassifier scores whether a discovered link is worth fetching.
// Pure function of its inputs; no side effects.
type LinkClassifier struct{}

// NewLinkClassifier creates a link classifier.
func NewLinkClassifier() *LinkClassifier {
	return &LinkClassifier{}
}

// Classify evaluates a link against the rule tables, first match wins:
// high-value path (follow, 0.9), low-value path (reject, 0.9),
// high-value anchor text (follow, 0.7), same domain (follow, 0.4),
// external with no signal (reject, 0.6).
func (c *LinkClassifier) Classify(rawURL, linkText, sourceDomain string) domain.ClassificationVerdict {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return domain.ClassificationVerdict{
			ShouldFollow: false,
			Confidence:   0.9,
			Reason:       "unparseable URL",
		}
	}
	path := strings.ToLower(parsed.Path)
	if parsed.Fragment != "" {
		path += "#"
	}
	if parsed.RawQuery != "" {
		path += "?" + strings.ToLower(parsed.RawQuery)
	}

	if label, ok := highValuePaths.firstMatch(path); ok {
		return domain.ClassificationVerdict{
			ShouldFollow: true,
			Confidence:   0.9,
			Reason:       "high-value URL pattern: " + label,
		}
	}

	if label, ok := lowValuePaths.firstMatch(path); ok {
		return domain.ClassificationVerdict{
			ShouldFollow: false,
			Confidence:   0.9,
			Reason:       "low-value URL pattern: " + label,
		}
	}

	if matched := highValueLinkText.matches(linkText); len(matched) > 0 {
		return domain.ClassificationVerdict{
			ShouldFollow: true,
			Confidence:   0.7,
			Reason:       "high-value link text: " + matched[0],
		}
	}

	if sourceDomain != "" && parsed.Hostname() == sourceDomain {
		return domain.ClassificationVerdict{
			ShouldFollow: true,
			Confidence:   0.4,
			Reason:       "same domain link",
		}
	}

	return domain.ClassificationVerdict{
		ShouldFollow: false,
		Confidence:   0.6,
		Reason:       "external domain, no clear value indicators",
	}
}
