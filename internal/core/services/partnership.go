package services

import (
	"regexp"
	"strings"

	"github.com/grantlight/enrich/internal/core/domain"
)

// indicatorTextWindow bounds how much page text is scanned for
// partnership indicators.
const indicatorTextWindow = 2000

// Terms that indicate a co-funded or collaborative call.
var partnershipIndicators = newRuleTable(
	`partnership`,
	`collaboration`,
	`joint`,
	`consortium`,
	`co-fund`,
	`match fund`,
	`partner organisation`,
	`lead organisation`,
)

// knownPartner is one entry in the partner organisation registry.
type knownPartner struct {
	// Name is the organisation's display name.
	Name string

	// URLPattern matches the organisation's domain in URLs.
	URLPattern *regexp.Regexp
}

// knownPartners is the fixed registry of co-funding organisations,
// matched against resource URLs and anchor hrefs. First match wins.
var knownPartners = []knownPartner{
	{Name: "Medical Research Council", URLPattern: regexp.MustCompile(`mrc\.ukri\.org`)},
	{Name: "Wellcome Trust", URLPattern: regexp.MustCompile(`wellcome\.org`)},
	{Name: "Cancer Research UK", URLPattern: regexp.MustCompile(`cancerresearchuk\.org`)},
	{Name: "British Heart Foundation", URLPattern: regexp.MustCompile(`bhf\.org\.uk`)},
	{Name: "EPSRC", URLPattern: regexp.MustCompile(`epsrc\.ukri\.org`)},
}

// Light-weight HTML scanning; full parsing is not needed to pull
// anchor targets and visible text.
var (
	anchorHref = regexp.MustCompile(`(?i)<a\s[^>]*href\s*=\s*["']([^"']+)["']`)
	tagPattern = regexp.MustCompile(`<[^>]+>`)
	scriptTag  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
)

// PartnershipDetector detects collaboration signals on a record's page
// and resolves a known partner organisation by URL-domain matching.
type PartnershipDetector struct{}

// NewPartnershipDetector creates a partnership detector.
func NewPartnershipDetector() *PartnershipDetector {
	return &PartnershipDetector{}
}

// Detect scans the record title and the first part of its page text for
// partnership indicators. Returns nil when no indicator is present.
// When indicators exist, a known partner is resolved from resource URLs
// first, then anchor hrefs; confidence is 0.9 resolved, 0.6 otherwise.
func (d *PartnershipDetector) Detect(title, html string, resources []domain.Resource) *domain.PartnershipInfo {
	text := strings.ToLower(visibleText(html))
	if len(text) > indicatorTextWindow {
		text = text[:indicatorTextWindow]
	}
	indicators := partnershipIndicators.allMatches(strings.ToLower(title) + "\n" + text)
	if len(indicators) == 0 {
		return nil
	}

	if name, partnerURL, ok := resolvePartner(html, resources); ok {
		return &domain.PartnershipInfo{
			IsPartnership: true,
			Confidence:    0.9,
			PartnerName:   name,
			PartnerURL:    partnerURL,
			Indicators:    indicators,
		}
	}

	// Partnership likely, but no registered partner identified
	return &domain.PartnershipInfo{
		IsPartnership: true,
		Confidence:    0.6,
		Indicators:    indicators,
	}
}

// resolvePartner scans resource URLs then anchor hrefs against the
// partner registry.
func resolvePartner(html string, resources []domain.Resource) (name, partnerURL string, ok bool) {
	for _, res := range resources {
		for _, p := range knownPartners {
			if p.URLPattern.MatchString(res.URL) {
				return p.Name, res.URL, true
			}
		}
	}

	for _, m := range anchorHref.FindAllStringSubmatch(html, -1) {
		href := m[1]
		for _, p := range knownPartners {
			if p.URLPattern.MatchString(href) {
				return p.Name, href, true
			}
		}
	}

	return "", "", false
}

// visibleText strips scripts, styles and tags from HTML.
func visibleText(html string) string {
	html = scriptTag.ReplaceAllString(html, "")
	html = styleTag.ReplaceAllString(html, "")
	return tagPattern.ReplaceAllString(html, " ")
}

// SummaryText synthesises the partnership summary document body.
func SummaryText(info *domain.PartnershipInfo) string {
	partner := info.PartnerName
	if partner == "" {
		partner = "an unidentified partner organisation"
	}

	var sb strings.Builder
	sb.WriteString("Partnership Funding Information\n\n")
	sb.WriteString("This is a partnership call with " + partner + ".\n\n")
	sb.WriteString("Key Information:\n")
	sb.WriteString("- Partner Organisation: " + partner + "\n")
	sb.WriteString("- Partnership Type: Collaborative funding opportunity\n\n")
	sb.WriteString("Important Note:\n")
	sb.WriteString("This call involves collaboration between the funder and " + partner + ". ")
	sb.WriteString("Applicants should review requirements from both organisations. ")
	sb.WriteString("There may be additional eligibility criteria or application processes ")
	sb.WriteString("specific to the partner organisation.\n\n")
	sb.WriteString("Partnership Indicators Found:\n")
	sb.WriteString(strings.Join(info.Indicators, ", "))
	return sb.String()
}
