// Package sqlite provides a SQLite-backed implementation of the
// embedding store and fetch cache ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It implements
// both store interfaces through a single database connection:
//
//   - EmbeddingStore: durable chunk embeddings, keyed by deterministic ID
//   - FetchCache: fetched resources with TTL expiry
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.enrich/data/enrich.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
