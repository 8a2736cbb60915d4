package domain

import "fmt"

// Report is the partial-success summary of one enrichment run. A run
// always completes with a Report rather than a single pass/fail result;
// individual resource failures are counted, never fatal.
type Report struct {
	// ParentID is the record this report covers.
	ParentID string

	// PagesAccepted counts linked pages promoted to documents.
	PagesAccepted int

	// PagesRejected counts pages dropped by classification, extraction
	// or relevance scoring.
	PagesRejected int

	// PDFsAccepted counts PDFs promoted to documents.
	PDFsAccepted int

	// PDFsFailed counts PDFs that failed to fetch or extract.
	PDFsFailed int

	// PartnershipDetected is true when partnership indicators were found.
	PartnershipDetected bool

	// Failures counts transient fetch and extraction errors.
	Failures int

	// Log holds one human-readable line per accepted item, for
	// operator and audit visibility.
	Log []string
}

// Logf appends a formatted audit line to the report.
func (r *Report) Logf(format string, args ...any) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}

// Merge accumulates another report's counters and log into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.PagesAccepted += other.PagesAccepted
	r.PagesRejected += other.PagesRejected
	r.PDFsAccepted += other.PDFsAccepted
	r.PDFsFailed += other.PDFsFailed
	r.Failures += other.Failures
	if other.PartnershipDetected {
		r.PartnershipDetected = true
	}
	r.Log = append(r.Log, other.Log...)
}

// Summary returns a one-line counter summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("pages %d/%d accepted, PDFs %d/%d extracted, %d failures",
		r.PagesAccepted, r.PagesAccepted+r.PagesRejected,
		r.PDFsAccepted, r.PDFsAccepted+r.PDFsFailed,
		r.Failures)
}

// IndexStats summarises one IndexDocuments call.
type IndexStats struct {
	// Indexed counts chunks newly embedded and persisted.
	Indexed int

	// Skipped counts chunks whose embedding already existed durably.
	Skipped int

	// Failed counts chunks whose embedding request failed.
	Failed int
}
