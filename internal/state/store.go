// Package state persists crawl progress in a SQLite file so that an
// interrupted crawl can resume without re-fetching finished products.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store holds the visited products and listing cursor of every crawl, keyed
// by the listing URL the crawl started from.
type Store struct {
	db   *sql.DB
	path string
}

// Cursor is the listing page a crawl was on when it last checkpointed
type Cursor struct {
	PageURL   string
	Page      int
	UpdatedAt time.Time
}

// Summary describes the saved progress of one crawl
type Summary struct {
	StartURL string
	Visited  int
	Cursor   Cursor
}

// Open opens or creates the state database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, path: path}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS visited (
		start_url TEXT NOT NULL,
		product_url TEXT NOT NULL,
		visited_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (start_url, product_url)
	);

	CREATE TABLE IF NOT EXISTS cursors (
		start_url TEXT PRIMARY KEY,
		page_url TEXT NOT NULL,
		page INTEGER NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Run returns the checkpoint handle of the crawl that starts at startURL
func (s *Store) Run(startURL string) *Run {
	return &Run{store: s, startURL: startURL}
}

// Summaries lists the saved progress of every crawl in the database
func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	query := `
	SELECT k.start_url,
		(SELECT COUNT(*) FROM visited v WHERE v.start_url = k.start_url),
		COALESCE(c.page_url, ''), COALESCE(c.page, 0), c.updated_at
	FROM (SELECT start_url FROM visited UNION SELECT start_url FROM cursors) k
	LEFT JOIN cursors c ON c.start_url = k.start_url
	ORDER BY k.start_url`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawls: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var updated sql.NullTime
		if err := rows.Scan(&sum.StartURL, &sum.Visited, &sum.Cursor.PageURL, &sum.Cursor.Page, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan crawl: %w", err)
		}
		if updated.Valid {
			sum.Cursor.UpdatedAt = updated.Time
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Run is the saved progress of a single crawl
type Run struct {
	store    *Store
	startURL string
}

// StartURL returns the listing URL that identifies the crawl
func (r *Run) StartURL() string {
	return r.startURL
}

// MarkVisited records a product as attempted
func (r *Run) MarkVisited(ctx context.Context, normalizedURL string) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO visited (start_url, product_url) VALUES (?, ?)`,
		r.startURL, normalizedURL)
	if err != nil {
		return fmt.Errorf("failed to mark visited: %w", err)
	}
	return nil
}

// Visited returns every product recorded for the crawl
func (r *Run) Visited(ctx context.Context) ([]string, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT product_url FROM visited WHERE start_url = ? ORDER BY visited_at, product_url`,
		r.startURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query visited: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SaveCursor records the listing page being walked
func (r *Run) SaveCursor(ctx context.Context, pageURL string, page int) error {
	_, err := r.store.db.ExecContext(ctx, `
	INSERT INTO cursors (start_url, page_url, page, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(start_url) DO UPDATE SET
		page_url = excluded.page_url,
		page = excluded.page,
		updated_at = excluded.updated_at`,
		r.startURL, pageURL, page, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}

// Cursor returns the last saved listing page. ok is false when the crawl
// has never checkpointed.
func (r *Run) Cursor(ctx context.Context) (c Cursor, ok bool, err error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT page_url, page, updated_at FROM cursors WHERE start_url = ?`, r.startURL)
	if err := row.Scan(&c.PageURL, &c.Page, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cursor{}, false, nil
		}
		return Cursor{}, false, fmt.Errorf("failed to read cursor: %w", err)
	}
	return c, true, nil
}

// Reset forgets all progress of the crawl
func (r *Run) Reset(ctx context.Context) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM visited WHERE start_url = ?`, r.startURL); err != nil {
		return fmt.Errorf("failed to clear visited: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cursors WHERE start_url = ?`, r.startURL); err != nil {
		return fmt.Errorf("failed to clear cursor: %w", err)
	}
	return tx.Commit()
}
