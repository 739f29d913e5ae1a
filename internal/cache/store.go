// Package cache remembers scan verdicts in SQLite so discovery does not read
// unchanged binaries again.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// Key identifies a verdict. A cached verdict only applies while the file
// keeps its size and modification time and is scanned with the same
// encoding and marker set.
type Key struct {
	Path      string
	Size      int64
	ModTime   time.Time
	Encoding  string
	MarkerSet string
}

// Store manages the SQLite scan cache.
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewStore opens (creating if needed) the cache database at dbPath.
// ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	// busy_timeout first so the following statements wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath, now: time.Now}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

func (s *Store) initSchema() error {
	if err := execWithRetry(s.db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	_, err := s.db.Exec(`INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)`,
		schemaVersion, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	version, err := s.getSchemaVersion()
	if err != nil {
		return err
	}
	if version > schemaVersion {
		return fmt.Errorf("cache schema version %d is newer than supported version %d", version, schemaVersion)
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Lookup returns the cached verdict for key. found is false when there is no
// entry or the entry was made for a different size or modification time.
func (s *Store) Lookup(ctx context.Context, key Key) (isTest bool, found bool, err error) {
	var size, modTime int64
	err = s.db.QueryRowContext(ctx,
		`SELECT size, mod_time_ns, is_test FROM scans WHERE path = ? AND encoding = ? AND marker_set = ?`,
		key.Path, key.Encoding, key.MarkerSet,
	).Scan(&size, &modTime, &isTest)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("query scan: %w", err)
	}

	if size != key.Size || modTime != key.ModTime.UnixNano() {
		return false, false, nil
	}
	return isTest, true, nil
}

// Record stores the verdict for key, replacing any earlier entry.
func (s *Store) Record(ctx context.Context, key Key, isTest bool) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO scans
		(path, encoding, marker_set, size, mod_time_ns, is_test, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path, encoding, marker_set) DO UPDATE SET
			size = excluded.size,
			mod_time_ns = excluded.mod_time_ns,
			is_test = excluded.is_test,
			scanned_at = excluded.scanned_at`,
		key.Path, key.Encoding, key.MarkerSet, key.Size, key.ModTime.UnixNano(), isTest, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record scan: %w", err)
	}
	return nil
}

// Prune deletes entries scanned before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE scanned_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune scans: %w", err)
	}
	return result.RowsAffected()
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scans`)
	if err != nil {
		return 0, fmt.Errorf("clear scans: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the number of cached verdicts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return n, nil
}

// getSchemaVersion returns the highest applied schema version.
func (s *Store) getSchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return version, nil
}
