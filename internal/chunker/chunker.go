// Package chunker provides fixed-size overlapping text chunking.
package chunker

import (
	"strings"

	"github.com/grantlight/enrich/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1200

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker splits text into fixed-size windows where every window starts
// exactly overlap characters before the previous window's end.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave forward progress per iteration
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Chunk splits text into overlapping windows. Text at or below the
// chunk size yields a single chunk. Each chunk except the last is
// exactly chunkSize characters; each chunk after the first starts
// overlap characters before the previous chunk's end.
func (c *Chunker) Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if len(text) <= c.chunkSize {
		return []string{text}
	}

	estimated := (len(text) / (c.chunkSize - c.overlap)) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])

		if end >= len(text) {
			break
		}
		start = end - c.overlap
	}

	return chunks
}
