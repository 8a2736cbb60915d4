package services

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driven"
	"github.com/grantlight/enrich/internal/core/ports/driving"
	"github.com/grantlight/enrich/internal/logger"
)

// EnrichmentService orchestrates the enrichment of one record: it
// classifies discovered links, fetches and extracts the best ones,
// extracts PDFs and resolves partnership material into documents.
type EnrichmentService struct {
	fetcher      driven.Fetcher
	htmlExtract  driven.ContentExtractor
	pdfExtract   driven.PDFExtractor
	classifier   *LinkClassifier
	scorer       *RelevanceScorer
	partnerships *PartnershipDetector
	maxLinks     int
	workers      int
}

// Ensure EnrichmentService implements the driving port.
var _ driving.Enricher = (*EnrichmentService)(nil)

// NewEnrichmentService creates the enrichment orchestrator.
func NewEnrichmentService(
	fetcher driven.Fetcher,
	htmlExtract driven.ContentExtractor,
	pdfExtract driven.PDFExtractor,
	classifier *LinkClassifier,
	scorer *RelevanceScorer,
	partnerships *PartnershipDetector,
	settings domain.Settings,
) *EnrichmentService {
	maxLinks := settings.MaxLinksPerRecord
	if maxLinks <= 0 {
		maxLinks = domain.DefaultSettings().MaxLinksPerRecord
	}
	workers := settings.Workers
	if workers <= 0 {
		workers = domain.DefaultSettings().Workers
	}
	return &EnrichmentService{
		fetcher:      fetcher,
		htmlExtract:  htmlExtract,
		pdfExtract:   pdfExtract,
		classifier:   classifier,
		scorer:       scorer,
		partnerships: partnerships,
		maxLinks:     maxLinks,
		workers:      workers,
	}
}

// Enrich processes one record's resources into documents. Individual
// resource failures are counted in the report; the error return is
// reserved for context cancellation.
func (s *EnrichmentService) Enrich(ctx context.Context, input driving.RecordInput) ([]domain.Document, *domain.Report, error) {
	report := &domain.Report{ParentID: input.Record.ParentID}
	logger.Section("Enriching record " + input.Record.ParentID)

	resources := resolveResources(input.Record.CanonicalURL, input.Resources)

	var webpages, pdfs []domain.Resource
	for _, res := range resources {
		switch res.Kind {
		case domain.ResourceWebpage:
			webpages = append(webpages, res)
		case domain.ResourcePDF:
			pdfs = append(pdfs, res)
		default:
			// video and other kinds carry no extractable text
		}
	}

	var docs []domain.Document

	pageDocs, err := s.enrichPages(ctx, input.Record, webpages, report)
	if err != nil {
		return nil, report, err
	}
	docs = append(docs, pageDocs...)

	pdfDocs, err := s.enrichPDFs(ctx, input.Record, pdfs, report)
	if err != nil {
		return nil, report, err
	}
	docs = append(docs, pdfDocs...)

	partnerDocs, err := s.enrichPartnership(ctx, input.Record, resources, report)
	if err != nil {
		return nil, report, err
	}
	docs = append(docs, partnerDocs...)

	logger.Info("Record %s: %s", input.Record.ParentID, report.Summary())
	return docs, report, nil
}

// EnrichAll processes records through a bounded worker pool. Document
// order across records is not defined; within a record it is.
func (s *EnrichmentService) EnrichAll(ctx context.Context, inputs []driving.RecordInput) ([]domain.Document, *domain.Report, error) {
	merged := &domain.Report{}
	var allDocs []domain.Document
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, input := range inputs {
		input := input
		g.Go(func() error {
			docs, report, err := s.Enrich(gctx, input)
			if err != nil {
				return err
			}
			mu.Lock()
			allDocs = append(allDocs, docs...)
			merged.Merge(report)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, merged, err
	}
	return allDocs, merged, nil
}

// classified pairs a resource with its classification verdict for
// confidence ordering.
type classified struct {
	resource domain.Resource
	verdict  domain.ClassificationVerdict
}

func (s *EnrichmentService) enrichPages(ctx context.Context, record domain.Record, pages []domain.Resource, report *domain.Report) ([]domain.Document, error) {
	sourceDomain := hostOf(record.CanonicalURL)

	var follow []classified
	for _, res := range pages {
		verdict := s.classifier.Classify(res.URL, res.Title, sourceDomain)
		if !verdict.ShouldFollow {
			logger.Debug("Rejected link %s: %s", res.URL, verdict.Reason)
			report.PagesRejected++
			continue
		}
		follow = append(follow, classified{resource: res, verdict: verdict})
	}

	// Highest confidence first; discovery order breaks ties.
	sort.SliceStable(follow, func(i, j int) bool {
		return follow[i].verdict.Confidence > follow[j].verdict.Confidence
	})
	if len(follow) > s.maxLinks {
		for _, c := range follow[s.maxLinks:] {
			logger.Debug("Link budget reached, skipping %s", c.resource.URL)
			report.PagesRejected++
		}
		follow = follow[:s.maxLinks]
	}

	var docs []domain.Document
	for _, c := range follow {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := c.resource
		html, err := s.fetcher.FetchPage(ctx, res.URL)
		if err != nil {
			logger.Warn("Fetching %s: %v", res.URL, err)
			report.Failures++
			report.PagesRejected++
			continue
		}

		text, err := s.htmlExtract.Extract(ctx, html, res.URL)
		if err != nil {
			if errors.Is(err, domain.ErrContentTooShort) {
				logger.Debug("Page %s below content floor", res.URL)
			} else {
				logger.Warn("Extracting %s: %v", res.URL, err)
				report.Failures++
			}
			report.PagesRejected++
			continue
		}

		verdict := s.scorer.Score(text, res.URL)
		if !verdict.IsRelevant {
			logger.Debug("Page %s not relevant: %s", res.URL, verdict.Reason)
			report.PagesRejected++
			continue
		}

		title := res.Title
		if title == "" {
			title = res.URL
		}
		docs = append(docs, domain.Document{
			ID:           domain.NewDocumentID(record.ParentID, res.URL),
			ParentID:     record.ParentID,
			DocType:      domain.DocTypeLinkedPage,
			Scope:        domain.ScopeRecord,
			Text:         text,
			SourceURL:    res.URL,
			SectionName:  title,
			CitationText: "Linked page: " + title,
		})
		report.PagesAccepted++
		report.Logf("accepted page %s (relevance %.2f)", res.URL, verdict.Score)
	}
	return docs, nil
}

func (s *EnrichmentService) enrichPDFs(ctx context.Context, record domain.Record, pdfs []domain.Resource, report *domain.Report) ([]domain.Document, error) {
	var docs []domain.Document
	for _, res := range pdfs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := s.fetcher.FetchPDF(ctx, res.URL)
		if err != nil {
			logger.Warn("Fetching PDF %s: %v", res.URL, err)
			report.PDFsFailed++
			report.Failures++
			continue
		}

		text, err := s.pdfExtract.ExtractText(ctx, body)
		if err != nil {
			logger.Warn("Extracting PDF %s: %v", res.URL, err)
			report.PDFsFailed++
			continue
		}

		title := res.Title
		if title == "" {
			title = res.URL
		}
		docs = append(docs, domain.Document{
			ID:           domain.NewDocumentID(record.ParentID, res.URL),
			ParentID:     record.ParentID,
			DocType:      domain.DocTypePDF,
			Scope:        domain.ScopeRecord,
			Text:         text,
			SourceURL:    res.URL,
			SectionName:  title,
			CitationText: "PDF: " + title,
		})
		report.PDFsAccepted++
		report.Logf("extracted PDF %s (%d chars)", res.URL, len(text))
	}
	return docs, nil
}

func (s *EnrichmentService) enrichPartnership(ctx context.Context, record domain.Record, resources []domain.Resource, report *domain.Report) ([]domain.Document, error) {
	info := s.partnerships.Detect(record.Title, record.HTML, resources)
	if info == nil {
		return nil, nil
	}
	report.PartnershipDetected = true
	report.Logf("partnership detected (confidence %.1f, partner %q)", info.Confidence, info.PartnerName)

	var docs []domain.Document

	if info.PartnerURL != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		html, err := s.fetcher.FetchPage(ctx, info.PartnerURL)
		if err != nil {
			logger.Warn("Fetching partner page %s: %v", info.PartnerURL, err)
			report.Failures++
		} else if text, err := s.htmlExtract.Extract(ctx, html, info.PartnerURL); err != nil {
			if !errors.Is(err, domain.ErrContentTooShort) {
				logger.Warn("Extracting partner page %s: %v", info.PartnerURL, err)
				report.Failures++
			}
		} else {
			docs = append(docs, domain.Document{
				ID:           domain.NewDocumentID(record.ParentID, info.PartnerURL),
				ParentID:     record.ParentID,
				DocType:      domain.DocTypePartnerPage,
				Scope:        domain.ScopeRecord,
				Text:         text,
				SourceURL:    info.PartnerURL,
				SectionName:  info.PartnerName,
				CitationText: "Partner: " + info.PartnerName,
			})
			report.Logf("accepted partner page %s", info.PartnerURL)
		}
	}

	docs = append(docs, domain.Document{
		ID:           domain.NewSummaryDocumentID(record.ParentID, domain.DocTypePartnershipSummary),
		ParentID:     record.ParentID,
		DocType:      domain.DocTypePartnershipSummary,
		Scope:        domain.ScopeRecord,
		Text:         SummaryText(info),
		SectionName:  "Partnership Summary",
		CitationText: "Partnership Summary",
	})
	return docs, nil
}

// resolveResources rewrites each resource URL relative to the record's
// canonical page, so relative links discovered by the crawler classify
// and fetch as absolute same-domain URLs. Absolute URLs pass through
// unchanged; an unparseable base leaves everything as-is.
func resolveResources(canonicalURL string, resources []domain.Resource) []domain.Resource {
	base, err := url.Parse(canonicalURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return resources
	}

	resolved := make([]domain.Resource, len(resources))
	copy(resolved, resources)
	for i := range resolved {
		ref, err := url.Parse(resolved[i].URL)
		if err != nil {
			continue
		}
		resolved[i].URL = base.ResolveReference(ref).String()
	}
	return resolved
}

// hostOf returns the hostname of a URL, or "" when unparseable.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
