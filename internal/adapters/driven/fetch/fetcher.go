package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driven"
	"github.com/grantlight/enrich/internal/logger"
)

const userAgent = "enrich-bot/1.0 (+https://github.com/grantlight/enrich)"

// Fetcher retrieves pages and PDFs over HTTP. Every request goes
// through the per-domain rate limiter; responses are stored in the
// fetch cache so re-enrichment runs avoid the network entirely.
type Fetcher struct {
	client      *http.Client
	cache       driven.FetchCache
	limiter     *domainLimiter
	maxPDFBytes int64
	pageTimeout time.Duration
	pdfTimeout  time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithCache sets the fetch cache. Without one, every call hits the
// network.
func WithCache(cache driven.FetchCache) Option {
	return func(f *Fetcher) { f.cache = cache }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// NewFetcher creates an HTTP fetcher configured from settings.
func NewFetcher(settings domain.Settings, opts ...Option) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	f := &Fetcher{
		client:      &http.Client{Transport: transport},
		limiter:     newDomainLimiter(settings.PerDomainInterval),
		maxPDFBytes: settings.MaxPDFBytes,
		pageTimeout: settings.PageTimeout,
		pdfTimeout:  settings.PDFTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ driven.Fetcher = (*Fetcher)(nil)

// FetchPage retrieves a webpage and returns its HTML decoded to UTF-8.
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) (string, error) {
	body, contentType, err := f.fetch(ctx, rawURL, f.pageTimeout, 0)
	if err != nil {
		return "", err
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "" && !strings.Contains(mediaType, "html") && !strings.Contains(mediaType, "xml") {
		return "", fmt.Errorf("%w: %s is %s, not HTML", domain.ErrInvalidInput, rawURL, mediaType)
	}

	return decodeToUTF8(body, contentType)
}

// FetchPDF retrieves a PDF, verifying content type and size cap.
func (f *Fetcher) FetchPDF(ctx context.Context, rawURL string) ([]byte, error) {
	body, contentType, err := f.fetch(ctx, rawURL, f.pdfTimeout, f.maxPDFBytes)
	if err != nil {
		return nil, err
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	looksLikePDF := strings.Contains(mediaType, "pdf") ||
		strings.HasPrefix(string(body[:min(len(body), 5)]), "%PDF-")
	if !looksLikePDF {
		return nil, fmt.Errorf("%w: %s served %s", domain.ErrNotPDF, rawURL, mediaType)
	}
	return body, nil
}

// fetch performs one cached, rate-limited GET. A sizeCap of 0 means no
// cap; exceeding a cap returns domain.ErrTooLarge.
func (f *Fetcher) fetch(ctx context.Context, rawURL string, timeout time.Duration, sizeCap int64) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, "", fmt.Errorf("%w: invalid url %q", domain.ErrInvalidInput, rawURL)
	}

	if f.cache != nil {
		cached, err := f.cache.Get(ctx, rawURL)
		if err != nil {
			logger.Warn("Cache lookup for %s: %v", rawURL, err)
		} else if cached != nil {
			logger.Debug("Cache hit for %s", rawURL)
			return cached.Body, cached.ContentType, nil
		}
	}

	if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
		return nil, "", err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrNotFound, rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("fetching %s: http status %d", rawURL, resp.StatusCode)
	}

	reader := io.Reader(resp.Body)
	if sizeCap > 0 {
		reader = io.LimitReader(resp.Body, sizeCap+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if sizeCap > 0 && int64(len(body)) > sizeCap {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrTooLarge, rawURL, sizeCap)
	}

	contentType := resp.Header.Get("Content-Type")
	if f.cache != nil {
		if err := f.cache.Put(ctx, rawURL, contentType, body); err != nil {
			logger.Warn("Caching %s: %v", rawURL, err)
		}
	}
	return body, contentType, nil
}

// decodeToUTF8 converts fetched bytes to a UTF-8 string using the
// response content type and document sniffing.
func decodeToUTF8(data []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if utf8.Valid(data) {
			return string(data), nil
		}
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return string(decoded), nil
}
