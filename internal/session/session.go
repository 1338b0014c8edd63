// internal/session/session.go
//
// A Session runs one game on its own goroutine.
// Responsibilities:
//   - Own the game.Game: every mutation happens on the run loop, so handlers
//     run to completion before the next event (no locking on game state).
//   - Drive the countdown with a one-second ticker; stop it for good when the
//     game ends or the session is closed.
//   - Serialise input from HTTP handlers, websocket readers or the terminal.
//   - Publish snapshots to subscribers after every change.
//   - Report the finished run exactly once through Options.OnFinish.

package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/robalobadob/gridchase/internal/game"
	"github.com/robalobadob/gridchase/internal/store"
)

var (
	ErrClosed   = errors.New("session closed")
	ErrNotFound = errors.New("session not found")
	ErrNoRoom   = errors.New("rules leave no room for player and target")
)

const inboxSize = 64

// Options configure a new session.
type Options struct {
	Owner string     // user ID or anonymous ID; copied into the Result
	Name  string     // display name for leaderboards
	Mode  store.Mode // classic when empty
	Date  string     // day key the run counts for
	Rules game.Rules // DefaultRules when zero
	Rand  *rand.Rand // randomly seeded when nil

	// OnFinish is called once, from the session goroutine, when the
	// countdown reaches zero. Classic sessions closed early never report;
	// daily sessions closed early report the score reached so far, since
	// the daily board can only be played once.
	OnFinish func(Result)
}

// Result describes a finished session.
type Result struct {
	SessionID  string
	Owner      string
	Name       string
	Mode       store.Mode
	Date       string
	Score      int
	Captures   int
	Moves      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run converts a Result into a persisted run record.
func (r Result) Run() store.Run {
	return store.Run{
		ID:         r.SessionID,
		Owner:      r.Owner,
		Name:       r.Name,
		Mode:       r.Mode,
		Date:       r.Date,
		Score:      r.Score,
		Captures:   r.Captures,
		Moves:      r.Moves,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// Session is one running game. Methods are safe for concurrent use.
type Session struct {
	ID      string
	opts    Options
	clk     clock.Clock
	started time.Time

	game   *game.Game // owned by run
	ticker *clock.Ticker
	subs   map[int]chan game.Snapshot // owned by run
	nextID int

	inbox     chan any
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	lastActive atomic.Int64 // unix nanos on clk
}

// commands handled by run
type (
	moveCmd struct {
		dir   game.Direction
		reply chan moveReply
	}
	moveReply struct {
		outcome game.Outcome
		snap    game.Snapshot
	}
	snapshotCmd struct{ reply chan game.Snapshot }
	subscribeCmd struct {
		reply chan subscription
	}
	unsubscribeCmd struct{ id int }
)

type subscription struct {
	id int
	ch chan game.Snapshot
}

// New starts a session: the game is placed before the loop accepts any
// input, then the countdown begins. It fails with ErrNoRoom when the rules
// cannot fit both tokens.
func New(id string, clk clock.Clock, opts Options) (*Session, error) {
	if clk == nil {
		clk = clock.New()
	}
	if opts.Rules.Cells() == 0 {
		opts.Rules = game.DefaultRules()
	}
	if opts.Mode == "" {
		opts.Mode = store.ModeClassic
	}

	g := game.New(opts.Rules, opts.Rand)
	if !g.Start() {
		return nil, ErrNoRoom
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:      id,
		opts:    opts,
		clk:     clk,
		started: clk.Now(),
		game:    g,
		subs:    make(map[int]chan game.Snapshot),
		inbox:   make(chan any, inboxSize),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	s.touch()
	// created before run so a mock clock advanced right after New is seen
	s.ticker = clk.Ticker(time.Second)
	go s.run()
	return s, nil
}

func (s *Session) run() {
	defer close(s.done)
	defer s.ticker.Stop()
	defer func() {
		for id, ch := range s.subs {
			close(ch)
			delete(s.subs, id)
		}
	}()

	tick := s.ticker.C
	for {
		select {
		case <-s.ctx.Done():
			if s.opts.Mode == store.ModeDaily && !s.game.Over() {
				s.finish()
			}
			return
		case cmd := <-s.inbox:
			s.handle(cmd)
		case <-tick:
			finished := s.game.Tick()
			if finished {
				s.ticker.Stop()
				tick = nil
				s.finish()
			}
			s.publish()
		}
	}
}

func (s *Session) handle(cmd any) {
	switch c := cmd.(type) {
	case moveCmd:
		out := s.game.Move(c.dir)
		snap := s.game.Snapshot()
		if out != game.OutcomeRejected {
			s.publish()
		}
		c.reply <- moveReply{outcome: out, snap: snap}
	case snapshotCmd:
		c.reply <- s.game.Snapshot()
	case subscribeCmd:
		s.nextID++
		ch := make(chan game.Snapshot, 1)
		ch <- s.game.Snapshot()
		s.subs[s.nextID] = ch
		c.reply <- subscription{id: s.nextID, ch: ch}
	case unsubscribeCmd:
		if ch, ok := s.subs[c.id]; ok {
			close(ch)
			delete(s.subs, c.id)
		}
	}
}

// publish hands the latest snapshot to every subscriber, replacing any
// snapshot the subscriber has not read yet.
func (s *Session) publish() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.game.Snapshot()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) finish() {
	if s.opts.OnFinish == nil {
		return
	}
	s.opts.OnFinish(Result{
		SessionID:  s.ID,
		Owner:      s.opts.Owner,
		Name:       s.opts.Name,
		Mode:       s.opts.Mode,
		Date:       s.opts.Date,
		Score:      s.game.Score(),
		Captures:   s.game.Captures(),
		Moves:      s.game.Moves(),
		StartedAt:  s.started,
		FinishedAt: s.clk.Now(),
	})
}

// ------------------------------- API ---------------------------------------

// Move applies a direction and returns the outcome with the resulting snapshot.
func (s *Session) Move(ctx context.Context, d game.Direction) (game.Outcome, game.Snapshot, error) {
	s.touch()
	reply := make(chan moveReply, 1)
	r, err := request(ctx, s, moveCmd{dir: d, reply: reply}, reply)
	if err != nil {
		return game.OutcomeRejected, game.Snapshot{}, err
	}
	return r.outcome, r.snap, nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (game.Snapshot, error) {
	s.touch()
	reply := make(chan game.Snapshot, 1)
	return request(ctx, s, snapshotCmd{reply: reply}, reply)
}

// Subscribe returns a channel that receives the current snapshot right away
// and then a snapshot after every accepted move and every tick. Only the
// latest unread snapshot is kept. The channel is closed by cancel or when
// the session closes.
func (s *Session) Subscribe(ctx context.Context) (<-chan game.Snapshot, func(), error) {
	reply := make(chan subscription, 1)
	sub, err := request(ctx, s, subscribeCmd{reply: reply}, reply)
	if err != nil {
		return nil, nil, err
	}
	cancel := func() {
		select {
		case s.inbox <- unsubscribeCmd{id: sub.id}:
		case <-s.done:
		}
	}
	return sub.ch, cancel, nil
}

// Close tears the session down: the countdown is cancelled and subscribers
// are released. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(s.cancel)
	<-s.done
}

// Done is closed once the session has been torn down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Options returns the options the session was created with.
func (s *Session) Options() Options { return s.opts }

// LastActive reports the last time a caller moved or looked at the session.
func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

func (s *Session) touch() { s.lastActive.Store(s.clk.Now().UnixNano()) }

// request sends cmd to the run loop and waits for its reply.
func request[T any](ctx context.Context, s *Session, cmd any, reply <-chan T) (T, error) {
	var zero T
	select {
	case s.inbox <- cmd:
	case <-s.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
