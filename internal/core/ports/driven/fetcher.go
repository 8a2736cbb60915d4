package driven

import (
	"context"
	"time"
)

// Fetcher retrieves external resources with per-domain rate limiting and
// caching. A failed fetch affects only the resource being fetched; the
// caller decides whether to continue.
type Fetcher interface {
	// FetchPage retrieves a webpage and returns its HTML decoded to UTF-8.
	FetchPage(ctx context.Context, url string) (string, error)

	// FetchPDF retrieves a PDF, verifying content type and size cap.
	FetchPDF(ctx context.Context, url string) ([]byte, error)
}

// CachedResource is a previously fetched resource held by a FetchCache.
type CachedResource struct {
	// URL is the resource location.
	URL string

	// ContentType is the stored content type.
	ContentType string

	// Body is the raw fetched bytes.
	Body []byte

	// FetchedAt is when the resource was fetched.
	FetchedAt time.Time
}

// FetchCache stores fetched resources so re-runs avoid refetching.
// Entries expire after the configured TTL.
type FetchCache interface {
	// Get returns the cached resource, or nil on miss or expiry.
	Get(ctx context.Context, url string) (*CachedResource, error)

	// Put stores a fetched resource, replacing any previous entry.
	Put(ctx context.Context, url, contentType string, body []byte) error
}
