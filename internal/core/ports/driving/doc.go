// Package driving provides interfaces for use-case entry points
// (primary/inbound ports) consumed by the CLI or an enclosing batch
// process.
package driving
