// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): fetching, extraction, chunking, embedding
// generation and durable embedding storage.
package driven
