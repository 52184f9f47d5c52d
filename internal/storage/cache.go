// Package storage provides a unified Store that composes the CSV dataset
// reader/writer and SQLite cache with file locking for safe concurrent access.
// The cache is expendable and always rebuildable from the CSV source of truth.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/scrub-data/scrub/internal/record"
)

const timeFormat = "2006-01-02T15:04:05Z"

// metadataSchema is the only fixed table; the records table is generated
// from the dataset header at rebuild time.
const metadataSchema = `
CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT
);
`

// Cache wraps a SQLite database used as a query cache for the dataset.
// The records table mirrors the CSV header: the sequence column is an
// INTEGER PRIMARY KEY, every other column is TEXT, and the business key
// column is indexed.
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache opens or creates a SQLite cache database at the given path and
// initializes the metadata table if not present.
func OpenCache(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(metadataSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	return &Cache{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection for queries.
func (c *Cache) DB() *sql.DB {
	return c.db
}

// Rebuild drops and recreates the records table from the table's header,
// repopulates it within a single transaction, and stores the SHA256 hash of
// the raw CSV content plus a fresh run id in the metadata table.
func (c *Cache) Rebuild(t record.Table, rawContent []byte) error {
	for _, col := range t.Columns {
		if strings.Contains(col, `"`) {
			return fmt.Errorf("column name %q contains a quote and cannot be cached", col)
		}
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning rebuild transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DROP TABLE IF EXISTS records`); err != nil {
		return fmt.Errorf("dropping records table: %w", err)
	}
	if _, err := tx.Exec(recordsDDL(t)); err != nil {
		return fmt.Errorf("creating records table: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE INDEX idx_records_key ON records (%s)`, quoteIdent(t.Columns[t.KeyCol]))); err != nil {
		return fmt.Errorf("creating key index: %w", err)
	}

	stmt, err := tx.Prepare(insertSQL(t))
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range t.Rows {
		args := make([]interface{}, len(r.Values))
		for i, v := range r.Values {
			if i == t.SeqCol {
				args[i] = r.Seq
			} else {
				args[i] = v
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row seq %d: %w", r.Seq, err)
		}
	}

	meta := map[string]string{
		"dataset_hash": computeHash(rawContent),
		"last_run_id":  uuid.NewString(),
		"last_run_at":  time.Now().UTC().Format(timeFormat),
	}
	for key, value := range meta {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("storing metadata %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild transaction: %w", err)
	}
	return nil
}

// IsFresh checks whether the cache is up-to-date with the given raw CSV
// content. Returns false when there is no stored hash or the hashes differ.
func (c *Cache) IsFresh(rawContent []byte) (bool, error) {
	var storedHash string
	err := c.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, "dataset_hash").Scan(&storedHash)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying dataset_hash: %w", err)
	}
	return storedHash == computeHash(rawContent), nil
}

// LastRun returns the run id and timestamp recorded by the most recent
// rebuild, or empty strings when the cache has never been built.
func (c *Cache) LastRun() (id, at string) {
	_ = c.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, "last_run_id").Scan(&id)
	_ = c.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, "last_run_at").Scan(&at)
	return id, at
}

// EnsureFresh is the gatekeeper called before every cache operation. It opens
// or creates the cache, checks freshness, and rebuilds when stale. A missing
// or corrupted cache file is recreated from scratch.
func EnsureFresh(dbPath string, t record.Table, rawContent []byte) (*Cache, error) {
	cache, err := tryOpen(dbPath)
	if err != nil {
		log.Printf("warning: cache db unusable, recreating: %v", err)
		return recreateAndRebuild(dbPath, t, rawContent)
	}

	fresh, err := cache.IsFresh(rawContent)
	if err != nil {
		cache.Close()
		log.Printf("warning: cache freshness check failed, recreating: %v", err)
		os.Remove(dbPath)
		return recreateAndRebuild(dbPath, t, rawContent)
	}

	if fresh {
		return cache, nil
	}

	if err := cache.Rebuild(t, rawContent); err != nil {
		cache.Close()
		return nil, fmt.Errorf("rebuilding cache: %w", err)
	}
	return cache, nil
}

// tryOpen attempts to open the cache and verify it has a usable metadata table.
func tryOpen(dbPath string) (*Cache, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("cache db does not exist: %w", err)
	}

	cache, err := OpenCache(dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := cache.db.Exec(`SELECT 1 FROM metadata LIMIT 0`); err != nil {
		cache.Close()
		return nil, fmt.Errorf("metadata table unusable: %w", err)
	}
	return cache, nil
}

// recreateAndRebuild deletes any existing cache file, creates a fresh one,
// and runs a full rebuild.
func recreateAndRebuild(dbPath string, t record.Table, rawContent []byte) (*Cache, error) {
	os.Remove(dbPath)

	cache, err := OpenCache(dbPath)
	if err != nil {
		return nil, fmt.Errorf("creating new cache: %w", err)
	}

	if err := cache.Rebuild(t, rawContent); err != nil {
		cache.Close()
		return nil, fmt.Errorf("rebuilding new cache: %w", err)
	}
	return cache, nil
}

// recordsDDL builds the CREATE TABLE statement for the records table from
// the dataset header. The sequence column becomes INTEGER PRIMARY KEY.
func recordsDDL(t record.Table) string {
	cols := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		if i == t.SeqCol {
			cols[i] = fmt.Sprintf("%s INTEGER PRIMARY KEY", quoteIdent(col))
		} else {
			cols[i] = fmt.Sprintf("%s TEXT", quoteIdent(col))
		}
	}
	return fmt.Sprintf("CREATE TABLE records (\n  %s\n)", strings.Join(cols, ",\n  "))
}

// insertSQL builds the prepared insert statement for the records table.
func insertSQL(t record.Table) string {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = quoteIdent(col)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO records (%s) VALUES (%s)", strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// quoteIdent quotes a column name for use in generated SQL. Rebuild rejects
// names containing double quotes before any DDL is generated.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// computeHash returns the SHA256 hex digest of the given data.
func computeHash(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}
