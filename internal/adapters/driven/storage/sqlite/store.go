package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/grantlight/enrich/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/grantlight/enrich/internal/core/domain"
	"github.com/grantlight/enrich/internal/core/ports/driven"
)

// Store is a SQLite-based storage that backs the embedding store and
// fetch cache through a single connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.enrich/data/enrich.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".enrich", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "enrich.db")

	// WAL mode for concurrent readers during enrichment runs
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EmbeddingStore returns an EmbeddingStore interface backed by this store.
func (s *Store) EmbeddingStore() driven.EmbeddingStore {
	return &embeddingStore{store: s}
}

// FetchCache returns a FetchCache with the given TTL backed by this store.
func (s *Store) FetchCache(ttl time.Duration) driven.FetchCache {
	return &fetchCache{store: s, ttl: ttl}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Embedding Store ====================

// embeddingStore implements driven.EmbeddingStore.
type embeddingStore struct {
	store *Store
}

var _ driven.EmbeddingStore = (*embeddingStore)(nil)

// SaveBatch upserts records in a single transaction. Re-saving an ID
// replaces the row, so retrying a partially failed batch is safe.
func (s *embeddingStore) SaveBatch(ctx context.Context, records []domain.EmbeddingRecord) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (id, doc_id, parent_id, chunk_index, vector, text, source_url, doc_type, scope, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc_id = excluded.doc_id,
			parent_id = excluded.parent_id,
			chunk_index = excluded.chunk_index,
			vector = excluded.vector,
			text = excluded.text,
			source_url = excluded.source_url,
			doc_type = excluded.doc_type,
			scope = excluded.scope
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.DocID, rec.ParentID, rec.ChunkIndex,
			float32SliceToBytes(rec.Vector), rec.Text, rec.SourceURL,
			string(rec.DocType), string(rec.Scope), createdAt); err != nil {
			return fmt.Errorf("saving embedding %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Exists reports whether a record with the given ID is persisted.
func (s *embeddingStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM embeddings WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking embedding: %w", err)
	}
	return true, nil
}

// LoadAll returns every persisted record ordered by creation time.
func (s *embeddingStore) LoadAll(ctx context.Context) ([]domain.EmbeddingRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, doc_id, parent_id, chunk_index, vector, text, source_url, doc_type, scope, created_at
		FROM embeddings
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var records []domain.EmbeddingRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.EmbeddingRecord
		var vector []byte
		var docType, scope string
		if err := rows.Scan(&rec.ID, &rec.DocID, &rec.ParentID, &rec.ChunkIndex,
			&vector, &rec.Text, &rec.SourceURL, &docType, &scope, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		rec.Vector = bytesToFloat32Slice(vector)
		rec.DocType = domain.DocType(docType)
		rec.Scope = domain.Scope(scope)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}
	return records, nil
}

// Count returns the number of persisted records.
func (s *embeddingStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return count, nil
}

// DeleteForParent removes all records for a record's documents.
func (s *embeddingStore) DeleteForParent(ctx context.Context, parentID string) (int, error) {
	result, err := s.store.db.ExecContext(ctx,
		"DELETE FROM embeddings WHERE parent_id = ?", parentID)
	if err != nil {
		return 0, fmt.Errorf("deleting embeddings: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted embeddings: %w", err)
	}
	return int(n), nil
}

// ==================== Fetch Cache ====================

// fetchCache implements driven.FetchCache.
type fetchCache struct {
	store *Store
	ttl   time.Duration
}

var _ driven.FetchCache = (*fetchCache)(nil)

// Get returns the cached resource, or nil on miss or expiry. Expired
// rows are deleted on read.
func (c *fetchCache) Get(ctx context.Context, url string) (*driven.CachedResource, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT url, content_type, body, fetched_at FROM fetch_cache WHERE url = ?
	`, url)

	var res driven.CachedResource
	if err := row.Scan(&res.URL, &res.ContentType, &res.Body, &res.FetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}

	if c.ttl > 0 && time.Since(res.FetchedAt) > c.ttl {
		if _, err := c.store.db.ExecContext(ctx, "DELETE FROM fetch_cache WHERE url = ?", url); err != nil {
			return nil, fmt.Errorf("expiring cache entry: %w", err)
		}
		return nil, nil
	}
	return &res, nil
}

// Put stores a fetched resource, replacing any previous entry.
func (c *fetchCache) Put(ctx context.Context, url, contentType string, body []byte) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO fetch_cache (url, content_type, body, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			content_type = excluded.content_type,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, url, contentType, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
