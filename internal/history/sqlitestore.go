package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gambadio/icon-pelikan/internal/paths"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at path and
// creates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS exports (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT    NOT NULL,
    kind      TEXT    NOT NULL,
    source    TEXT    NOT NULL DEFAULT '',
    dest      TEXT    NOT NULL DEFAULT '',
    canvas    INTEGER NOT NULL DEFAULT 0,
    shape     TEXT    NOT NULL DEFAULT '',
    result    TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_exports_timestamp ON exports(timestamp DESC);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Path() string { return s.path }

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Record(e Entry) error {
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO exports (timestamp, kind, source, dest, canvas, shape, result) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339), e.Kind, e.Source, e.Dest, e.CanvasPx, e.Shape, e.Result)
	return err
}

func (s *SQLiteStore) Entries(days int) ([]Entry, error) {
	query := `SELECT timestamp, kind, source, dest, canvas, shape, result FROM exports`
	var args []any
	if cutoff, ok := cutoffFor(days); ok {
		query += ` WHERE timestamp >= ?`
		args = append(args, cutoff.Format(time.RFC3339))
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&ts, &e.Kind, &e.Source, &e.Dest, &e.CanvasPx, &e.Shape, &e.Result); err != nil {
			return nil, err
		}
		// Skip rows with unparseable timestamps rather than failing the read.
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			continue
		}
		e.Time = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Clean(days int) (int, error) {
	cutoff, ok := cutoffFor(days)
	if !ok {
		return 0, nil
	}
	res, err := s.db.Exec(`DELETE FROM exports WHERE timestamp < ?`, cutoff.Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM exports`)
	return err
}
