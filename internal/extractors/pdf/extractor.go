// Package pdf extracts text from PDF bytes through an ordered chain of
// extraction strategies.
package pdf

import (
	"bytes"
	"context"
	"io"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PDFExtractor = (*Extractor)(nil)

// DefaultMinTextLen is the acceptance floor for extracted text.
const DefaultMinTextLen = 100

// Extractor converts PDF bytes to text. The plain-text pass handles most
// documents; a row-ordered pass picks up layout-heavy files (tables,
// multi-column pages) the first pass returns empty for.
type Extractor struct {
	minTextLen int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithMinTextLen sets the acceptance floor in characters.
func WithMinTextLen(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minTextLen = n
		}
	}
}

// New creates a PDF text extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{minTextLen: DefaultMinTextLen}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText runs the strategy chain and returns whitespace-normalised
// text. Returns domain.ErrNoTextExtracted when every strategy fails or
// produces less text than the floor.
func (e *Extractor) ExtractText(_ context.Context, pdfBytes []byte) (string, error) {
	if len(pdfBytes) == 0 || !isPDF(pdfBytes) {
		return "", domain.ErrNotPDF
	}

	if text := extractPlain(pdfBytes); len(strings.TrimSpace(text)) > e.minTextLen {
		return normalise(text), nil
	}

	if text := extractByRows(pdfBytes); len(strings.TrimSpace(text)) > e.minTextLen {
		return normalise(text), nil
	}

	return "", domain.ErrNoTextExtracted
}

// isPDF checks the %PDF- magic header.
func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

// extractPlain is the fast whole-document pass.
func extractPlain(data []byte) (text string) {
	// The pdf library panics on some malformed files; a panic here
	// counts as strategy failure, not a pipeline error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}

	b, err := io.ReadAll(plain)
	if err != nil {
		return ""
	}
	return string(b)
}

// extractByRows walks pages row by row, which keeps reading order on
// tables and multi-column layouts the plain pass garbles or drops.
func extractByRows(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var sb strings.Builder
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(word.S)
			}
			sb.WriteString("\n")
		}
		if sb.Len() > 0 {
			pages = append(pages, sb.String())
		}
	}

	return strings.Join(pages, "\n\n")
}

// normalise collapses blank lines and strips per-line whitespace.
func normalise(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
