// internal/store/store.go
//
// Persistence interface for finished runs.
// A run is written once, when its session's countdown reaches zero, and is
// read back for leaderboards, per-owner history and stats.
//
// Implementations:
//   - memory.go: map-backed, for tests and DB-less runs.
//   - sqlite.go: database/sql over the SQLite file opened by main.

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Mode distinguishes the free-play board from the seeded daily board.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDaily   Mode = "daily"
)

// ParseMode maps a request value to a Mode; empty means classic.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "", ModeClassic:
		return ModeClassic, true
	case ModeDaily:
		return ModeDaily, true
	}
	return "", false
}

// Run is one finished game.
type Run struct {
	ID         string    `json:"id"`
	Owner      string    `json:"-"`    // user ID or anonymous cookie ID
	Name       string    `json:"name"` // display name at save time ("guest" for anonymous)
	Mode       Mode      `json:"mode"`
	Date       string    `json:"date"` // YYYY-MM-DD (UTC) the run started
	Score      int       `json:"score"`
	Captures   int       `json:"captures"`
	Moves      int       `json:"moves"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Stats aggregates an owner's runs.
type Stats struct {
	GamesPlayed   int `json:"gamesPlayed"`
	BestScore     int `json:"bestScore"`
	TotalScore    int `json:"totalScore"`
	TotalCaptures int `json:"totalCaptures"`
}

// Store persists finished runs.
type Store interface {
	// SaveRun records a finished run. A second daily run for the same
	// owner and date is ignored.
	SaveRun(ctx context.Context, r Run) error

	// TopRuns returns the best runs for a mode, ordered by score (desc),
	// moves (asc), finish time (asc). An empty date matches every date.
	TopRuns(ctx context.Context, mode Mode, date string, limit int) ([]Run, error)

	// RunsByOwner returns an owner's runs, newest first.
	RunsByOwner(ctx context.Context, owner string, limit int) ([]Run, error)

	// Stats aggregates every run of an owner.
	Stats(ctx context.Context, owner string) (Stats, error)

	// PlayedDaily reports whether owner already finished the daily run for date.
	PlayedDaily(ctx context.Context, owner, date string) (bool, error)

	// ClaimAnon moves an anonymous owner's runs to a user after signup/login.
	ClaimAnon(ctx context.Context, anonID, userID, name string) error
}

const defaultLimit = 20

func clampLimit(n int) int {
	if n <= 0 || n > 100 {
		return defaultLimit
	}
	return n
}
