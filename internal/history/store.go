// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history archives completed searches in a local SQLite database
// so past retrievals can be listed and reopened without re-querying the
// catalog.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

const dbFile = "history.db"

// Entry is one archived search.
type Entry struct {
	ID         string        `json:"id"`
	SessionID  string        `json:"session_id"`
	Query      string        `json:"query"`
	YearFilter string        `json:"year_filter,omitempty"`
	Requested  int           `json:"requested"`
	Actual     int           `json:"actual"`
	Truncated  bool          `json:"truncated"`
	Warning    string        `json:"warning,omitempty"`
	Papers     []types.Paper `json:"papers,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Store manages the search history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at dir/history.db,
// creating the schema if needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			query TEXT NOT NULL,
			year_filter TEXT,
			requested INTEGER,
			actual INTEGER,
			truncated INTEGER,
			warning TEXT,
			results TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_session ON searches(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record archives one completed search and returns its id.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	resultsJSON, err := json.Marshal(e.Papers)
	if err != nil {
		return "", fmt.Errorf("marshaling results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO searches (id, session_id, query, year_filter, requested, actual, truncated, warning, results, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Query, e.YearFilter, e.Requested, e.Actual,
		boolToInt(e.Truncated), e.Warning, string(resultsJSON),
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting search record: %w", err)
	}
	return e.ID, nil
}

// List returns archived searches, newest first, without their result
// payloads. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, session_id, query, year_filter, requested, actual, truncated, warning, created_at
	      FROM searches ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one archived search with its full result payload.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, query, year_filter, requested, actual, truncated, warning, created_at, results
		 FROM searches WHERE id = ?`, id)

	var e Entry
	var truncated int
	var createdAt, resultsJSON string
	err := row.Scan(&e.ID, &e.SessionID, &e.Query, &e.YearFilter,
		&e.Requested, &e.Actual, &truncated, &e.Warning, &createdAt, &resultsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("search %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading search record: %w", err)
	}

	e.Truncated = truncated != 0
	if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		e.CreatedAt = t
	}
	if resultsJSON != "" {
		if err := json.Unmarshal([]byte(resultsJSON), &e.Papers); err != nil {
			return nil, fmt.Errorf("parsing stored results: %w", err)
		}
	}
	return &e, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var truncated int
	var createdAt string
	err := rows.Scan(&e.ID, &e.SessionID, &e.Query, &e.YearFilter,
		&e.Requested, &e.Actual, &truncated, &e.Warning, &createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("scanning search record: %w", err)
	}
	e.Truncated = truncated != 0
	if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		e.CreatedAt = t
	}
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
