package api

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThePrior/Navigation/internal/navmenu"

	_ "modernc.org/sqlite"
)

// SQLiteSource serves lists from the nav_entries table of a SQLite database.
type SQLiteSource struct {
	db    *sql.DB
	path  string
	lists ListNames
}

// NewSQLiteSource opens (creating if needed) the database at path.
func NewSQLiteSource(path string, lists ListNames) (*SQLiteSource, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	src := &SQLiteSource{db: db, path: path, lists: lists.WithDefaults()}
	if err := src.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return src, nil
}

func (s *SQLiteSource) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS nav_entries (
  list TEXT NOT NULL,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  url TEXT NOT NULL DEFAULT '',
  clickable INTEGER NOT NULL DEFAULT 0,
  parent_name TEXT,
  PRIMARY KEY (list, position)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create nav_entries table: %w", err)
	}
	return nil
}

// Describe returns the database path.
func (s *SQLiteSource) Describe() string { return s.path }

// ListName returns the list backing level.
func (s *SQLiteSource) ListName(level navmenu.Level) string { return s.lists.For(level) }

// Lists returns the configured list names.
func (s *SQLiteSource) Lists() ListNames { return s.lists }

// Close closes the database.
func (s *SQLiteSource) Close() error { return s.db.Close() }

// FetchLevel reads the list configured for level.
func (s *SQLiteSource) FetchLevel(ctx context.Context, level navmenu.Level) ([]navmenu.RawEntry, error) {
	return fetchLevel(ctx, s.lists, level, s.FetchList)
}

// FetchList returns the rows of list ordered by position.
func (s *SQLiteSource) FetchList(ctx context.Context, list string) ([]navmenu.RawEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT title, url, clickable, parent_name
FROM nav_entries
WHERE list = ?
ORDER BY position`, list)
	if err != nil {
		return nil, &navmenu.SourceError{List: list, Message: "query nav_entries", Err: err}
	}
	defer rows.Close()

	entries := []navmenu.RawEntry{}
	for rows.Next() {
		var (
			e      navmenu.RawEntry
			parent sql.NullString
		)
		if err := rows.Scan(&e.Title, &e.URL, &e.Clickable, &parent); err != nil {
			return nil, &navmenu.SourceError{List: list, Message: "scan nav_entries", Err: err}
		}
		if parent.Valid {
			name := parent.String
			e.ParentName = &name
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &navmenu.SourceError{List: list, Message: "read nav_entries", Err: err}
	}
	return entries, nil
}

// ReplaceList stores entries as the full contents of list, keeping their order.
func (s *SQLiteSource) ReplaceList(ctx context.Context, list string, entries []navmenu.RawEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nav_entries WHERE list = ?`, list); err != nil {
		return fmt.Errorf("clear list %q: %w", list, err)
	}
	for i, e := range entries {
		var parent sql.NullString
		if e.ParentName != nil {
			parent = sql.NullString{String: *e.ParentName, Valid: true}
		}
		clickable := 0
		if e.Clickable {
			clickable = 1
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO nav_entries (list, position, title, url, clickable, parent_name)
VALUES (?, ?, ?, ?, ?, ?)`, list, i, e.Title, e.URL, clickable, parent); err != nil {
			return fmt.Errorf("insert %q into %q: %w", e.Title, list, err)
		}
	}
	return tx.Commit()
}

var (
	_ Source            = (*SQLiteSource)(nil)
	_ navmenu.ListNamer = (*SQLiteSource)(nil)
)
