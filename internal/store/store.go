// Package store provides SQLite persistence for saved ranking sessions.
package store

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"lukechampine.com/blake3"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no session matches the lookup.
var ErrNotFound = errors.New("store: session not found")

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex // Protects all database operations
	now func() time.Time
}

// Session is one saved ranking. Token holds the items, tiers and every
// recorded decision (including redo history); Cursor says how many of the
// decisions are active.
type Session struct {
	ID          string
	Title       string
	Token       string
	Cursor      int
	ItemCount   int
	Complete    bool
	Fingerprint string // set for complete sessions, see Fingerprint
	Created     time.Time
	Updated     time.Time
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db, now: time.Now}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		token TEXT NOT NULL,
		cursor INTEGER NOT NULL DEFAULT 0,
		item_count INTEGER NOT NULL,
		complete INTEGER DEFAULT 0,
		fingerprint TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_fingerprint ON sessions(fingerprint);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveSession inserts or updates a session by ID. Created is kept from the
// first save; Updated is always refreshed.
// Thread-safe: acquires write lock.
func (s *Store) SaveSession(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		return errors.New("store: session ID is required")
	}
	now := s.now().UTC()
	if sess.Created.IsZero() {
		sess.Created = now
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (
			id, title, token, cursor, item_count, complete, fingerprint,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			token = excluded.token,
			cursor = excluded.cursor,
			item_count = excluded.item_count,
			complete = excluded.complete,
			fingerprint = excluded.fingerprint,
			updated_at = excluded.updated_at
	`,
		sess.ID,
		sess.Title,
		sess.Token,
		sess.Cursor,
		sess.ItemCount,
		boolToInt(sess.Complete),
		nullString(sess.Fingerprint),
		sess.Created,
		now,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// GetSession returns the session with the given ID, or ErrNotFound.
// Thread-safe: acquires read lock.
func (s *Store) GetSession(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.querySessions(selectSessions+" WHERE id = ?", id)
	if err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, ErrNotFound
	}
	return sessions[0], nil
}

// FindByFingerprint returns the most recently updated complete session with
// the given fingerprint, or ErrNotFound.
// Thread-safe: acquires read lock.
func (s *Store) FindByFingerprint(fingerprint string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.querySessions(
		selectSessions+" WHERE fingerprint = ? ORDER BY updated_at DESC LIMIT 1", fingerprint)
	if err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, ErrNotFound
	}
	return sessions[0], nil
}

// ListSessions returns up to limit sessions, most recently updated first.
// Thread-safe: acquires read lock.
func (s *Store) ListSessions(limit int) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySessions(selectSessions+" ORDER BY updated_at DESC LIMIT ?", limit)
}

// DeleteSession removes a session. Deleting a missing ID returns ErrNotFound.
// Thread-safe: acquires write lock.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Fingerprint is the BLAKE3-256 content address of a share token.
func Fingerprint(token string) string {
	sum := blake3.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

const selectSessions = `
	SELECT id, title, token, cursor, item_count, complete, fingerprint,
		created_at, updated_at
	FROM sessions`

// querySessions executes a query and scans results into Sessions.
// Caller must hold s.mu (read lock is sufficient).
func (s *Store) querySessions(query string, args ...any) ([]Session, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var completeInt int
		var fingerprint sql.NullString
		err := rows.Scan(
			&sess.ID,
			&sess.Title,
			&sess.Token,
			&sess.Cursor,
			&sess.ItemCount,
			&completeInt,
			&fingerprint,
			&sess.Created,
			&sess.Updated,
		)
		if err != nil {
			return nil, err
		}
		sess.Complete = completeInt != 0
		sess.Fingerprint = fingerprint.String
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// boolToInt converts a bool to an int for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
