// Package storage provides SQLite-based persistence for completed Colorfall
// sessions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Result is a single completed session.
type Result struct {
	ID        int64
	SessionID string
	Size      int
	Colors    int
	Seed      int64
	Moves     int
	Elapsed   time.Duration
	Strategy  string // Empty for human play, otherwise the autoplay strategy
	CreatedAt time.Time
}

// SizeStats contains aggregated statistics for one board size.
type SizeStats struct {
	Size        int
	Completed   int
	BestMoves   int
	BestElapsed time.Duration
	AvgMoves    float64
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			size INTEGER NOT NULL,
			colors INTEGER NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			strategy TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_size ON results(size);
		CREATE INDEX IF NOT EXISTS idx_results_best ON results(size, moves, elapsed_ms);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a completed session and returns the inserted row ID.
func (s *Store) SaveResult(r Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (session_id, size, colors, seed, moves, elapsed_ms, strategy)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Size, r.Colors, r.Seed, r.Moves, r.Elapsed.Milliseconds(), r.Strategy,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopResults retrieves the best results for a board size: fewest moves
// first, then fastest.
func (s *Store) TopResults(size, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, size, colors, seed, moves, elapsed_ms, strategy, created_at
		 FROM results
		 WHERE size = ?
		 ORDER BY moves ASC, elapsed_ms ASC
		 LIMIT ?`,
		size, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var elapsedMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Size, &r.Colors, &r.Seed,
			&r.Moves, &elapsedMS, &r.Strategy, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// ResultBySession retrieves a result by session ID. Returns nil if absent.
func (s *Store) ResultBySession(sessionID string) (*Result, error) {
	var r Result
	var elapsedMS int64
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, session_id, size, colors, seed, moves, elapsed_ms, strategy, created_at
		 FROM results
		 WHERE session_id = ?`,
		sessionID,
	).Scan(&r.ID, &r.SessionID, &r.Size, &r.Colors, &r.Seed, &r.Moves, &elapsedMS, &r.Strategy, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}

	r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// Stats returns aggregated statistics per board size, ordered by size.
func (s *Store) Stats() ([]SizeStats, error) {
	rows, err := s.db.Query(
		`SELECT size, COUNT(*), MIN(moves), MIN(elapsed_ms), AVG(moves), MAX(created_at)
		 FROM results
		 GROUP BY size
		 ORDER BY size`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	var stats []SizeStats
	for rows.Next() {
		var st SizeStats
		var bestMS int64
		var lastPlayed any
		if err := rows.Scan(&st.Size, &st.Completed, &st.BestMoves, &bestMS, &st.AvgMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.BestElapsed = time.Duration(bestMS) * time.Millisecond
		st.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearResults deletes all results for a board size.
func (s *Store) ClearResults(size int) error {
	if _, err := s.db.Exec("DELETE FROM results WHERE size = ?", size); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
