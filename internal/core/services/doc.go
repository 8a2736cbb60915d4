// Package services implements the enrichment use cases: link
// classification, relevance scoring, partnership detection, the
// enrichment orchestrator and the vector index.
//
// Services depend only on domain types and driven ports; infrastructure
// is injected through constructors.
package services
