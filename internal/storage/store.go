package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/scrub-data/scrub/internal/record"
)

const defaultLockTimeout = 5 * time.Second

// Logger is an optional interface for verbose/debug logging.
// When set on a Store, key operations will log through it.
type Logger interface {
	Log(msg string)
}

// Store orchestrates dataset CSV reads/writes and SQLite cache operations
// with file locking for concurrent access safety. The CSV file is the source
// of truth; the cache is derived and expendable.
type Store struct {
	scrubDir    string
	datasetPath string
	cachePath   string
	lockPath    string
	seqColumn   string
	keyColumn   string
	lockTimeout time.Duration
	logger      Logger
}

// NewStore creates a Store for the given .scrub/ directory. The dataset path
// is resolved relative to the project directory (the parent of .scrub/).
func NewStore(scrubDir, dataset, seqColumn, keyColumn string) (*Store, error) {
	return NewStoreWithTimeout(scrubDir, dataset, seqColumn, keyColumn, defaultLockTimeout)
}

// NewStoreWithTimeout creates a Store with a custom lock timeout.
func NewStoreWithTimeout(scrubDir, dataset, seqColumn, keyColumn string, lockTimeout time.Duration) (*Store, error) {
	info, err := os.Stat(scrubDir)
	if err != nil {
		return nil, fmt.Errorf("scrub directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scrub path is not a directory: %s", scrubDir)
	}

	datasetPath := dataset
	if !filepath.IsAbs(datasetPath) {
		datasetPath = filepath.Join(filepath.Dir(scrubDir), dataset)
	}
	if _, err := os.Stat(datasetPath); err != nil {
		return nil, fmt.Errorf("dataset file not found: %w", err)
	}

	return &Store{
		scrubDir:    scrubDir,
		datasetPath: datasetPath,
		cachePath:   filepath.Join(scrubDir, "cache.db"),
		lockPath:    filepath.Join(scrubDir, "lock"),
		seqColumn:   seqColumn,
		keyColumn:   keyColumn,
		lockTimeout: lockTimeout,
	}, nil
}

// DatasetPath returns the resolved absolute path of the dataset file.
func (s *Store) DatasetPath() string {
	return s.datasetPath
}

// ProjectDir returns the project root (the parent of the .scrub/ directory).
// Relative paths in the config resolve against it.
func (s *Store) ProjectDir() string {
	return filepath.Dir(s.scrubDir)
}

// SetLogger sets an optional logger for verbose output of internal operations.
func (s *Store) SetLogger(l Logger) {
	s.logger = l
}

// logVerbose writes a message through the logger if one is set.
func (s *Store) logVerbose(msg string) {
	if s.logger != nil {
		s.logger.Log(msg)
	}
}

// Close is a no-op for now; the Store opens/closes the cache per operation.
func (s *Store) Close() error {
	return nil
}

// lockExclusive acquires the exclusive project lock, returning an unlock func.
func (s *Store) lockExclusive(ctx context.Context) (func(), error) {
	fl := flock.New(s.lockPath)
	s.logVerbose("lock: acquiring exclusive lock")

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(lockCtx, 10*time.Millisecond)
	if err != nil || !locked {
		return nil, fmt.Errorf("could not acquire lock on .scrub/lock - another scrub process may be running")
	}
	s.logVerbose("lock: exclusive lock acquired")
	return func() {
		fl.Unlock()
		s.logVerbose("lock: exclusive lock released")
	}, nil
}

// lockShared acquires the shared project lock, returning an unlock func.
func (s *Store) lockShared(ctx context.Context) (func(), error) {
	fl := flock.New(s.lockPath)
	s.logVerbose("lock: acquiring shared lock")

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := fl.TryRLockContext(lockCtx, 10*time.Millisecond)
	if err != nil || !locked {
		return nil, fmt.Errorf("could not acquire lock on .scrub/lock - another scrub process may be running")
	}
	s.logVerbose("lock: shared lock acquired")
	return func() {
		fl.Unlock()
		s.logVerbose("lock: shared lock released")
	}, nil
}

// loadDataset reads the raw CSV bytes and parses them into a Table.
func (s *Store) loadDataset() ([]byte, record.Table, error) {
	rawContent, err := os.ReadFile(s.datasetPath)
	if err != nil {
		return nil, record.Table{}, fmt.Errorf("reading dataset: %w", err)
	}
	t, err := record.ParseCSV(rawContent, s.seqColumn, s.keyColumn)
	if err != nil {
		return nil, record.Table{}, fmt.Errorf("parsing dataset: %w", err)
	}
	s.logVerbose(fmt.Sprintf("dataset: read %d rows from %s", len(t.Rows), s.datasetPath))
	return rawContent, t, nil
}

// Mutate executes a write operation with the full mutation flow:
// acquire exclusive lock -> read CSV -> validate sequence ids ->
// check freshness -> mutate -> atomic write -> update cache -> release lock.
// Every path that feeds the cache validates sequence id uniqueness first,
// since the cached records table uses the sequence column as primary key.
func (s *Store) Mutate(ctx context.Context, fn func(t record.Table) (record.Table, error)) error {
	unlock, err := s.lockExclusive(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	rawContent, t, err := s.loadDataset()
	if err != nil {
		return err
	}
	if err := record.CheckSequenceIDs(t); err != nil {
		return err
	}

	s.logVerbose("freshness: checking cache hash")
	cache, err := EnsureFresh(s.cachePath, t, rawContent)
	if err != nil {
		return fmt.Errorf("ensuring cache freshness: %w", err)
	}
	defer cache.Close()
	s.logVerbose("cache: freshness check complete")

	modified, err := fn(t)
	if err != nil {
		return err
	}

	s.logVerbose("write: atomic write to dataset")
	if err := record.WriteCSV(s.datasetPath, modified); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	s.logVerbose(fmt.Sprintf("write: wrote %d rows", len(modified.Rows)))

	// Read back the written content for hash computation.
	newRawContent, err := os.ReadFile(s.datasetPath)
	if err != nil {
		log.Printf("warning: failed to read dataset for cache update: %v", err)
		return nil
	}

	// Update SQLite cache — if this fails, log and continue; the cache will
	// be rebuilt on the next operation.
	s.logVerbose("cache: rebuilding SQLite cache with new hash")
	if err := cache.Rebuild(modified, newRawContent); err != nil {
		log.Printf("warning: failed to update SQLite cache: %v", err)
		return nil
	}
	s.logVerbose("cache: rebuild complete")

	return nil
}

// Query executes a read operation with the full query flow:
// acquire shared lock -> read CSV -> check freshness -> query SQLite -> release lock.
func (s *Store) Query(ctx context.Context, fn func(db *sql.DB) error) error {
	unlock, err := s.lockShared(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	rawContent, t, err := s.loadDataset()
	if err != nil {
		return err
	}
	if err := record.CheckSequenceIDs(t); err != nil {
		return err
	}

	s.logVerbose("freshness: checking cache hash")
	cache, err := EnsureFresh(s.cachePath, t, rawContent)
	if err != nil {
		return fmt.Errorf("ensuring cache freshness: %w", err)
	}
	defer cache.Close()
	s.logVerbose("cache: freshness check complete")

	if err := fn(cache.DB()); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return nil
}

// Load reads and parses the dataset under a shared lock without touching the
// cache. Used by read paths that operate on the table itself (audit checks).
func (s *Store) Load(ctx context.Context) (record.Table, error) {
	unlock, err := s.lockShared(ctx)
	if err != nil {
		return record.Table{}, err
	}
	defer unlock()

	_, t, err := s.loadDataset()
	return t, err
}

// Rebuild forces a complete cache rebuild from the CSV, bypassing the
// freshness check. Returns the number of rows rebuilt.
func (s *Store) Rebuild(ctx context.Context) (int, error) {
	unlock, err := s.lockExclusive(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	s.logVerbose("cache: deleting existing cache.db")
	if err := os.Remove(s.cachePath); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("deleting cache.db: %w", err)
	}

	rawContent, t, err := s.loadDataset()
	if err != nil {
		return 0, err
	}
	if err := record.CheckSequenceIDs(t); err != nil {
		return 0, err
	}

	s.logVerbose(fmt.Sprintf("cache: rebuilding with %d rows", len(t.Rows)))
	cache, err := OpenCache(s.cachePath)
	if err != nil {
		return 0, fmt.Errorf("creating cache: %w", err)
	}
	defer cache.Close()

	if err := cache.Rebuild(t, rawContent); err != nil {
		return 0, fmt.Errorf("rebuilding cache: %w", err)
	}
	s.logVerbose("cache: rebuild complete, hash updated")

	return len(t.Rows), nil
}

// DedupeBatched runs the bounded-removal deduplication against the cache:
// repeated batches of at most batchSize deletions until a fixed point, then
// materializes the survivors back to the CSV and refreshes the cache hash.
// Returns the total rows removed and the number of non-empty batches.
//
// The whole operation holds the exclusive lock. Individual batches are each
// atomic and only ever remove rows, so an interrupted run leaves the cache a
// strict subset of the dataset and the next run (or cache rebuild) recovers.
func (s *Store) DedupeBatched(ctx context.Context, batchSize int) (removed int64, batches int, err error) {
	unlock, err := s.lockExclusive(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer unlock()

	rawContent, t, err := s.loadDataset()
	if err != nil {
		return 0, 0, err
	}
	if err := record.CheckSequenceIDs(t); err != nil {
		return 0, 0, err
	}

	s.logVerbose("freshness: checking cache hash")
	cache, err := EnsureFresh(s.cachePath, t, rawContent)
	if err != nil {
		return 0, 0, fmt.Errorf("ensuring cache freshness: %w", err)
	}
	defer cache.Close()

	s.logVerbose(fmt.Sprintf("dedupe: removing duplicates in batches of %d", batchSize))
	removed, batches, err = cache.DedupeToFixedPoint(t, batchSize)
	if err != nil {
		return removed, batches, fmt.Errorf("batched dedupe: %w", err)
	}
	s.logVerbose(fmt.Sprintf("dedupe: fixed point after %d batch(es), %d rows removed", batches, removed))

	survivors, err := cache.SelectAll(t)
	if err != nil {
		return removed, batches, fmt.Errorf("materializing survivors: %w", err)
	}

	s.logVerbose("write: atomic write to dataset")
	if err := record.WriteCSV(s.datasetPath, survivors); err != nil {
		return removed, batches, fmt.Errorf("writing dataset: %w", err)
	}

	newRawContent, err := os.ReadFile(s.datasetPath)
	if err != nil {
		log.Printf("warning: failed to read dataset for cache update: %v", err)
		return removed, batches, nil
	}
	if err := cache.Rebuild(survivors, newRawContent); err != nil {
		log.Printf("warning: failed to update SQLite cache: %v", err)
	}
	return removed, batches, nil
}
