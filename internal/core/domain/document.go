package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ResourceKind identifies the kind of a discovered resource.
type ResourceKind string

// Resource kinds produced by the upstream crawler.
const (
	ResourceWebpage ResourceKind = "webpage"
	ResourcePDF     ResourceKind = "pdf"
	ResourceVideo   ResourceKind = "video"
	ResourceOther   ResourceKind = "other"
)

// Resource is a link discovered on a record's page by the upstream
// crawler. Resources are ephemeral: they are classified and either
// promoted to a Document or dropped.
type Resource struct {
	// URL is the resource location, possibly relative to the record page.
	URL string

	// Title is the anchor text or link title from the source page.
	Title string

	// Kind is the resource kind as reported by the crawler.
	Kind ResourceKind
}

// Record identifies the parent funding-call record being enriched.
// It is supplied by the upstream ingestion layer.
type Record struct {
	// ParentID is the stable identifier of the record.
	ParentID string

	// CanonicalURL is the record's own page URL.
	CanonicalURL string

	// Title is the record's display title.
	Title string

	// HTML is the raw HTML of the record's own page, used for
	// partnership detection.
	HTML string
}

// DocType identifies what a Document was derived from.
type DocType string

// Document types.
const (
	DocTypeSection            DocType = "section"
	DocTypePDF                DocType = "pdf"
	DocTypeLinkedPage         DocType = "linked_page"
	DocTypePartnerPage        DocType = "partner_page"
	DocTypePartnershipSummary DocType = "partnership_summary"
)

// IsValid returns true if the document type is recognised.
func (t DocType) IsValid() bool {
	switch t {
	case DocTypeSection, DocTypePDF, DocTypeLinkedPage, DocTypePartnerPage, DocTypePartnershipSummary:
		return true
	default:
		return false
	}
}

// Scope describes whether a document pertains to a single record or to a
// broader collection/programme.
type Scope string

// Document scopes.
const (
	ScopeRecord     Scope = "record"
	ScopeCollection Scope = "collection"
)

// Document is the canonical unit of enriched content. One Document is
// created per accepted resource; its ID is deterministic so re-running
// enrichment on an unchanged resource never double-creates it.
type Document struct {
	// ID is derived from (ParentID, SourceURL), or from
	// (ParentID, DocType) for synthesised documents with no source URL.
	ID string

	// ParentID links to the record this document enriches.
	ParentID string

	// DocType identifies what the document was derived from.
	DocType DocType

	// Scope is record or collection.
	Scope Scope

	// Text is the extracted plain text.
	Text string

	// SourceURL is the citable origin, empty for synthesised documents.
	SourceURL string

	// SectionName is a human-readable label (page or PDF title).
	SectionName string

	// CitationText is a short attribution line for presentation layers.
	CitationText string
}

// Namespaces for deterministic IDs. Fixed so IDs are stable across
// processes and runs.
var (
	nsDocument  = uuid.NewSHA1(uuid.NameSpaceURL, []byte("enrich/document"))
	nsEmbedding = uuid.NewSHA1(uuid.NameSpaceURL, []byte("enrich/embedding"))
)

// NewDocumentID derives the deterministic document ID for a resource.
func NewDocumentID(parentID, sourceURL string) string {
	return uuid.NewSHA1(nsDocument, []byte(parentID+"|"+sourceURL)).String()
}

// NewSummaryDocumentID derives the deterministic ID for a synthesised
// document that has no source URL, keyed by document type instead.
func NewSummaryDocumentID(parentID string, docType DocType) string {
	return uuid.NewSHA1(nsDocument, []byte(parentID+"|"+string(docType))).String()
}

// NewEmbeddingID derives the deterministic embedding ID for one chunk of
// a document. Unique per (document, chunk) pair.
func NewEmbeddingID(docID string, chunkIndex int) string {
	return uuid.NewSHA1(nsEmbedding, []byte(fmt.Sprintf("%s#%d", docID, chunkIndex))).String()
}
