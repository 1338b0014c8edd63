// internal/session/manager.go
//
// Manager holds live sessions by ID.
// Sessions are created on demand and removed when closed explicitly, when
// they sit idle longer than the TTL (the reaper), or on shutdown.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gridchase/internal/store"
)

// Manager is safe for concurrent use.
type Manager struct {
	clk      clock.Clock
	idleTTL  time.Duration
	onFinish func(Result)

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager constructs a Manager. onFinish is installed on every session
// created without its own hook; it may be nil.
func NewManager(clk clock.Clock, idleTTL time.Duration, onFinish func(Result)) *Manager {
	if clk == nil {
		clk = clock.New()
	}
	return &Manager{
		clk:      clk,
		idleTTL:  idleTTL,
		onFinish: onFinish,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with a fresh ID. An owner gets at most one
// live daily session per date: asking again returns the running one with
// resumed set.
func (m *Manager) Create(opts Options) (s *Session, resumed bool, err error) {
	if opts.OnFinish == nil {
		opts.OnFinish = m.onFinish
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if opts.Mode == store.ModeDaily {
		if s := m.liveDaily(opts.Owner, opts.Date); s != nil {
			return s, true, nil
		}
	}
	s, err = New(uuid.NewString(), m.clk, opts)
	if err != nil {
		return nil, false, err
	}
	m.sessions[s.ID] = s

	log.Debug().Str("session", s.ID).Str("mode", string(s.opts.Mode)).Msg("session created")
	return s, false, nil
}

// liveDaily finds a running daily session. Callers hold mu.
func (m *Manager) liveDaily(owner, date string) *Session {
	for _, s := range m.sessions {
		if s.opts.Mode != store.ModeDaily || s.opts.Owner != owner || s.opts.Date != date {
			continue
		}
		select {
		case <-s.done:
		default:
			return s
		}
	}
	return nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Close tears a session down and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap closes sessions idle for longer than the TTL and returns how many
// were closed.
func (m *Manager) Reap() int {
	now := m.clk.Now()
	var stale []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.LastActive()) > m.idleTTL {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		log.Debug().Int("closed", len(stale)).Msg("reaped idle sessions")
	}
	return len(stale)
}

// RunReaper calls Reap every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, every time.Duration) {
	t := m.clk.Ticker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Reap()
		}
	}
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
