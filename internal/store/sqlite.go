// internal/store/sqlite.go
//
// SQLite-backed Store. Expects the `runs` table created by the migrations in
// assets/sql. Timestamps are stored as RFC3339Nano strings (UTC).

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type sqlStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open, migrated database handle.
func NewSQLStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) SaveRun(ctx context.Context, r Run) error {
	// runs_daily_once turns a second daily run into a no-op
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO runs
            (id, owner, name, mode, date, score, captures, moves, started_at, finished_at)
        VALUES (?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.Owner, r.Name, string(r.Mode), r.Date, r.Score, r.Captures, r.Moves,
		formatTime(r.StartedAt), formatTime(r.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

const runColumns = `id, owner, name, mode, date, score, captures, moves, started_at, finished_at`

func (s *sqlStore) TopRuns(ctx context.Context, mode Mode, date string, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+runColumns+`
        FROM runs
        WHERE mode=? AND (?='' OR date=?)
        ORDER BY score DESC, moves ASC, finished_at ASC
        LIMIT ?`, string(mode), date, date, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query top runs: %w", err)
	}
	return scanRuns(rows)
}

func (s *sqlStore) RunsByOwner(ctx context.Context, owner string, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+runColumns+`
        FROM runs
        WHERE owner=?
        ORDER BY finished_at DESC
        LIMIT ?`, owner, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query owner runs: %w", err)
	}
	return scanRuns(rows)
}

func (s *sqlStore) Stats(ctx context.Context, owner string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1), COALESCE(MAX(score),0), COALESCE(SUM(score),0), COALESCE(SUM(captures),0)
        FROM runs WHERE owner=?`, owner,
	).Scan(&st.GamesPlayed, &st.BestScore, &st.TotalScore, &st.TotalCaptures)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

func (s *sqlStore) PlayedDaily(ctx context.Context, owner, date string) (bool, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM runs WHERE owner=? AND date=? AND mode=?`,
		owner, date, string(ModeDaily),
	).Scan(&cnt); err != nil {
		return false, fmt.Errorf("query daily: %w", err)
	}
	return cnt > 0, nil
}

func (s *sqlStore) ClaimAnon(ctx context.Context, anonID, userID, name string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	// OR IGNORE keeps the user's own daily row when both exist
	if _, err := s.db.ExecContext(ctx,
		`UPDATE OR IGNORE runs SET owner=?, name=? WHERE owner=?`, userID, name, anonID,
	); err != nil {
		return fmt.Errorf("claim anon runs: %w", err)
	}
	return nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()
	out := []Run{}
	for rows.Next() {
		var (
			r                 Run
			mode              string
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Owner, &r.Name, &mode, &r.Date, &r.Score, &r.Captures, &r.Moves,
			&started, &finished); err != nil {
			return nil, err
		}
		r.Mode = Mode(mode)
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// formatTime uses a fixed-width layout so finished_at sorts lexically.
func formatTime(t time.Time) string { return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00") }

// parseTime returns the zero time on malformed input.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
