// Package html extracts main-content text from webpages, stripping
// navigation, chrome and boilerplate.
package html

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// DefaultMinTextLen is the extraction floor: shorter results indicate a
// navigation-only or paywalled page and are rejected.
const DefaultMinTextLen = 200

// contentSelectors are tried in order to locate the main content
// container. Falls back to body when none match.
var contentSelectors = []string{
	"main",
	"article",
	"[role=main]",
	"#main-content",
	"#content",
	".main-content",
	".content",
	".article-content",
	".page-content",
}

// removeSelectors match elements that never carry main content.
var removeSelectors = []string{
	"nav",
	"header",
	"footer",
	"aside",
	".sidebar",
	".navigation",
	".menu",
	".breadcrumb",
	".social-share",
	".related-links",
	".advertisement",
	"#cookie-banner",
	".newsletter-signup",
	"script",
	"style",
	"noscript",
}

// boilerplate phrases stripped from extracted text.
var boilerplate = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cookie settings`),
	regexp.MustCompile(`(?i)accept cookies`),
	regexp.MustCompile(`(?i)skip to main content`),
	regexp.MustCompile(`(?i)javascript is disabled`),
	regexp.MustCompile(`(?i)back to top`),
}

var (
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Extractor strips page chrome and returns structured plain text.
type Extractor struct {
	minTextLen int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithMinTextLen sets the extraction floor in characters.
func WithMinTextLen(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minTextLen = n
		}
	}
}

// New creates an HTML content extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{minTextLen: DefaultMinTextLen}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the main-content text of the page. Malformed HTML
// degrades to best-effort text; only a result below the floor fails,
// with domain.ErrContentTooShort.
func (e *Extractor) Extract(_ context.Context, html string, _ string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", domain.ErrContentTooShort
	}

	for _, sel := range removeSelectors {
		doc.Find(sel).Remove()
	}

	container := doc.Selection
	for _, sel := range contentSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			container = found.First()
			break
		}
	}
	if container == doc.Selection {
		if body := doc.Find("body"); body.Length() > 0 {
			container = body.First()
		}
	}

	text := walkStructure(container)
	text = cleanText(text)

	if len(text) < e.minTextLen {
		return "", domain.ErrContentTooShort
	}
	return text, nil
}

// walkStructure collects headings, paragraphs, list items and table
// cells in document order, with blank lines around headings.
func walkStructure(sel *goquery.Selection) string {
	var lines []string

	sel.Find("h1, h2, h3, h4, p, li, td").Each(func(_ int, el *goquery.Selection) {
		text := strings.TrimSpace(el.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(el)[0] == 'h' {
			lines = append(lines, "\n"+text+"\n")
		} else {
			lines = append(lines, text)
		}
	})

	return strings.Join(lines, "\n")
}

// cleanText collapses whitespace and strips boilerplate phrases.
func cleanText(text string) string {
	for _, re := range boilerplate {
		text = re.ReplaceAllString(text, "")
	}

	text = multiSpaces.ReplaceAllString(text, " ")
	text = multiNewlines.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = multiNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
