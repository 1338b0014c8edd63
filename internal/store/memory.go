// internal/store/memory.go
//
// In-memory implementation of Store.
//
// Characteristics:
//   - Runs kept in a slice in insertion order.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"
)

type memory struct {
	mu   sync.RWMutex // guards runs
	runs []Run
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

func (m *memory) SaveRun(ctx context.Context, r Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Mode == ModeDaily && m.playedDaily(r.Owner, r.Date) {
		return nil
	}
	m.runs = append(m.runs, r)
	return nil
}

func (m *memory) TopRuns(ctx context.Context, mode Mode, date string, limit int) ([]Run, error) {
	m.mu.RLock()
	out := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		if r.Mode == mode && (date == "" || r.Date == date) {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Moves != b.Moves {
			return a.Moves < b.Moves
		}
		return a.FinishedAt.Before(b.FinishedAt)
	})
	return truncate(out, clampLimit(limit)), nil
}

func (m *memory) RunsByOwner(ctx context.Context, owner string, limit int) ([]Run, error) {
	m.mu.RLock()
	out := []Run{}
	for _, r := range m.runs {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	return truncate(out, clampLimit(limit)), nil
}

func (m *memory) Stats(ctx context.Context, owner string) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var st Stats
	for _, r := range m.runs {
		if r.Owner != owner {
			continue
		}
		st.GamesPlayed++
		st.TotalScore += r.Score
		st.TotalCaptures += r.Captures
		if r.Score > st.BestScore {
			st.BestScore = r.Score
		}
	}
	return st, nil
}

func (m *memory) PlayedDaily(ctx context.Context, owner, date string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playedDaily(owner, date), nil
}

// playedDaily expects m.mu to be held.
func (m *memory) playedDaily(owner, date string) bool {
	for _, r := range m.runs {
		if r.Mode == ModeDaily && r.Owner == owner && r.Date == date {
			return true
		}
	}
	return false
}

func (m *memory) ClaimAnon(ctx context.Context, anonID, userID, name string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		r := &m.runs[i]
		if r.Owner != anonID {
			continue
		}
		// the user's own daily run wins over the guest one
		if r.Mode == ModeDaily && m.playedDaily(userID, r.Date) {
			continue
		}
		r.Owner, r.Name = userID, name
	}
	return nil
}

func truncate(rs []Run, n int) []Run {
	if len(rs) > n {
		return rs[:n]
	}
	return rs
}
