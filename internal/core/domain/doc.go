// Package domain contains the core business entities for the enrichment
// pipeline: discovered resources, canonical documents, embedding records
// and the verdict types produced by the classification heuristics.
//
// Types here are plain data with no infrastructure dependencies.
package domain
