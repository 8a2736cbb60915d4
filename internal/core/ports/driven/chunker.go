package driven

// Chunker splits document text into overlapping fixed-size windows
// sized for embedding.
type Chunker interface {
	// Chunk returns the ordered chunks of text. Text at or below the
	// window size yields a single chunk.
	Chunk(text string) []string
}
