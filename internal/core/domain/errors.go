package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrContentTooShort indicates extraction produced less text than the
	// configured floor, a signal of a navigation-only or paywalled page.
	ErrContentTooShort = errors.New("extracted content too short")

	// ErrNoTextExtracted indicates every PDF extraction strategy failed.
	ErrNoTextExtracted = errors.New("no text extracted")

	// ErrNotPDF indicates a fetched resource was not PDF content.
	ErrNotPDF = errors.New("not a PDF")

	// ErrTooLarge indicates a fetched resource exceeded the size cap.
	ErrTooLarge = errors.New("resource too large")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic indexing and query are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
