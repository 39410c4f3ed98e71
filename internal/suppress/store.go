package suppress

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store persists learned suppressions in SQLite. One row per
// (pattern, file) pair, the same exact-path granularity the engine
// enforces at filter time.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS learned_suppressions (
    id         TEXT PRIMARY KEY,
    pattern_id TEXT NOT NULL,
    file       TEXT NOT NULL,
    confidence REAL NOT NULL DEFAULT 1.0,
    reason     TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    UNIQUE (pattern_id, file)
);
`

// OpenStore opens (creating if needed) the suppression database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating suppression store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("opening suppression store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging suppression store: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		return nil, fmt.Errorf("initializing suppression store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Entry is one persisted learned suppression.
type Entry struct {
	ID         string
	PatternID  string
	File       string
	Confidence float64
	Reason     string
	CreatedAt  time.Time
}

// Learn records a confirmed false positive for exactly one (pattern, file)
// pair. Re-learning the same pair updates confidence and reason in place.
func (s *Store) Learn(patternID, file string, confidence float64, reason string) (*Entry, error) {
	if patternID == "" || file == "" {
		return nil, fmt.Errorf("learn requires both a pattern id and a file")
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence must be in [0,1], got %.2f", confidence)
	}

	entry := &Entry{
		ID:         uuid.NewString(),
		PatternID:  patternID,
		File:       file,
		Confidence: confidence,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.Exec(`
		INSERT INTO learned_suppressions (id, pattern_id, file, confidence, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (pattern_id, file)
		DO UPDATE SET confidence = excluded.confidence, reason = excluded.reason`,
		entry.ID, entry.PatternID, entry.File, entry.Confidence, entry.Reason,
		entry.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("recording learned suppression: %w", err)
	}
	return entry, nil
}

// Forget removes a learned suppression. Forgetting something never learned
// is not an error.
func (s *Store) Forget(patternID, file string) error {
	_, err := s.db.Exec(
		`DELETE FROM learned_suppressions WHERE pattern_id = ? AND file = ?`,
		patternID, file)
	if err != nil {
		return fmt.Errorf("forgetting suppression: %w", err)
	}
	return nil
}

// List returns every stored entry, ordered by pattern then file.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, pattern_id, file, confidence, reason, created_at
		FROM learned_suppressions
		ORDER BY pattern_id, file`)
	if err != nil {
		return nil, fmt.Errorf("listing suppressions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.PatternID, &e.File, &e.Confidence, &e.Reason, &created); err != nil {
			return nil, fmt.Errorf("scanning suppression row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LoadLearned materializes the store as a Learned table for filtering.
func (s *Store) LoadLearned() (Learned, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	learned := make(Learned)
	for _, e := range entries {
		rule := learned[e.PatternID]
		rule.Files = append(rule.Files, e.File)
		if e.Confidence > rule.Confidence {
			rule.Confidence = e.Confidence
		}
		if rule.Reason == "" {
			rule.Reason = e.Reason
		}
		learned[e.PatternID] = rule
	}
	return learned, nil
}
