// Package history records finished puzzles in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/milk9111/tilepuzzle/config"
	"github.com/milk9111/tilepuzzle/puzzle"
)

// Store manages the solves database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Entry is one recorded solve.
type Entry struct {
	ID        int64
	Image     string
	Rows      int
	Cols      int
	Moves     int
	Duration  time.Duration
	CreatedAt time.Time
}

// Open creates or opens the database at path, creating parent directories
// and running migrations.
func Open(path string) (*Store, error) {
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: cannot connect to database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			image TEXT NOT NULL,
			grid_rows INTEGER NOT NULL,
			grid_cols INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_solves_grid ON solves(grid_rows, grid_cols, moves);
		CREATE INDEX IF NOT EXISTS idx_solves_created ON solves(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a solve and returns its ID.
func (s *Store) Record(solve puzzle.Solve) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO solves (image, grid_rows, grid_cols, moves, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		solve.Locator, solve.Rows, solve.Cols, solve.Moves, solve.Duration.Milliseconds(), s.now().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("history: cannot save solve: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Recent returns the latest solves, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.query(
		`SELECT id, image, grid_rows, grid_cols, moves, duration_ms, created_at
		 FROM solves
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// Best returns the solve with the fewest moves for a grid size, ties broken
// by time taken. ok is false when nothing was recorded for that size.
func (s *Store) Best(rows, cols int) (Entry, bool, error) {
	entries, err := s.query(
		`SELECT id, image, grid_rows, grid_cols, moves, duration_ms, created_at
		 FROM solves
		 WHERE grid_rows = ? AND grid_cols = ?
		 ORDER BY moves ASC, duration_ms ASC
		 LIMIT 1`,
		rows, cols,
	)
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[0], true, nil
}

// GridSizes lists every grid size that has at least one solve.
func (s *Store) GridSizes() ([][2]int, error) {
	rows, err := s.db.Query(`SELECT DISTINCT grid_rows, grid_cols FROM solves ORDER BY grid_rows, grid_cols`)
	if err != nil {
		return nil, fmt.Errorf("history: cannot query grid sizes: %w", err)
	}
	defer rows.Close()

	var sizes [][2]int
	for rows.Next() {
		var r, c int
		if err := rows.Scan(&r, &c); err != nil {
			return nil, fmt.Errorf("history: cannot scan row: %w", err)
		}
		sizes = append(sizes, [2]int{r, c})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: row iteration error: %w", err)
	}
	return sizes, nil
}

func (s *Store) query(q string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: cannot query solves: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			durationMS int64
			createdMS  int64
		)
		if err := rows.Scan(&e.ID, &e.Image, &e.Rows, &e.Cols, &e.Moves, &durationMS, &createdMS); err != nil {
			return nil, fmt.Errorf("history: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt = time.UnixMilli(createdMS)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: row iteration error: %w", err)
	}
	return entries, nil
}
