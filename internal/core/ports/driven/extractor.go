package driven

import "context"

// ContentExtractor strips navigation and boilerplate from raw HTML and
// returns structured plain text. Malformed HTML degrades to best-effort
// text rather than failing the whole resource.
type ContentExtractor interface {
	// Extract returns the main-content text of the page.
	// Returns domain.ErrContentTooShort when the result is below the
	// configured floor.
	Extract(ctx context.Context, html, url string) (string, error)
}

// PDFExtractor converts PDF bytes to text via an ordered fallback chain
// of extraction strategies.
type PDFExtractor interface {
	// ExtractText returns whitespace-normalised text, or
	// domain.ErrNoTextExtracted when every strategy fails.
	ExtractText(ctx context.Context, pdfBytes []byte) (string, error)
}
