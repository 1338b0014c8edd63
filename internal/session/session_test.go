package session

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/gridchase/internal/game"
	"github.com/robalobadob/gridchase/internal/game/gametest"
	"github.com/robalobadob/gridchase/internal/store"
)

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed+1)) }

func start(t *testing.T, id string, clk clock.Clock, opts Options) *Session {
	t.Helper()
	s, err := New(id, clk, opts)
	require.NoError(t, err)
	return s
}

// capture walks the player onto the current target with single steps.
func capture(t *testing.T, s *Session) game.Snapshot {
	t.Helper()
	snap := snapshot(t, s)
	moves, ok := gametest.Route(game.DefaultRules(), *snap.Player, *snap.Target)
	require.True(t, ok)
	var out game.Outcome
	for _, d := range moves {
		var err error
		out, snap, err = s.Move(context.Background(), d)
		require.NoError(t, err)
	}
	require.Equal(t, game.OutcomeCaptured, out)
	return snap
}

func snapshot(t *testing.T, s *Session) game.Snapshot {
	t.Helper()
	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}

// advance moves the mock clock one second and waits for the session to
// show want seconds remaining.
func advance(t *testing.T, mock *clock.Mock, s *Session, want int) {
	t.Helper()
	mock.Add(time.Second)
	require.Eventually(t, func() bool {
		snap, err := s.Snapshot(context.Background())
		return err == nil && snap.TimeLeft == want
	}, 2*time.Second, time.Millisecond, "waiting for %d", want)
}

func TestNewSessionIsPlaced(t *testing.T) {
	s := start(t, "s1", clock.NewMock(), Options{Rand: seeded(1)})
	defer s.Close()

	snap := snapshot(t, s)
	require.NotNil(t, snap.Player)
	require.NotNil(t, snap.Target)
	assert.NotEqual(t, *snap.Player, *snap.Target)
	assert.Equal(t, game.PhaseActive, snap.Phase)
	assert.Equal(t, 60, snap.TimeLeft)
	assert.Equal(t, "1:00", snap.Clock)
	assert.Equal(t, store.ModeClassic, s.Options().Mode)
}

func TestCountdownEndsGameOnce(t *testing.T) {
	mock := clock.NewMock()
	results := make(chan Result, 4)
	s := start(t, "s1", mock, Options{
		Owner:    "anon-1",
		Name:     "guest",
		Date:     "2026-05-04",
		Rand:     seeded(2),
		OnFinish: func(r Result) { results <- r },
	})
	defer s.Close()

	// score once so the result carries something
	after := capture(t, s)
	require.Equal(t, 100, after.Score)
	moves := after.Moves

	for want := 59; want >= 0; want-- {
		advance(t, mock, s, want)
	}

	snap := snapshot(t, s)
	assert.True(t, snap.GameOver)
	assert.Equal(t, game.PhaseOver, snap.Phase)
	assert.Equal(t, "0:00", snap.Clock)

	select {
	case r := <-results:
		assert.Equal(t, "s1", r.SessionID)
		assert.Equal(t, "anon-1", r.Owner)
		assert.Equal(t, 100, r.Score)
		assert.Equal(t, 1, r.Captures)
		assert.Equal(t, moves, r.Moves)
		assert.Equal(t, store.ModeClassic, r.Mode)
		assert.Equal(t, 60*time.Second, r.FinishedAt.Sub(r.StartedAt))
		run := r.Run()
		assert.Equal(t, "s1", run.ID)
		assert.Equal(t, "2026-05-04", run.Date)
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
	}

	// countdown is stopped for good
	mock.Add(10 * time.Second)
	assert.Equal(t, 0, snapshot(t, s).TimeLeft)
	assert.Len(t, results, 0)

	// and movement is rejected
	for _, d := range []game.Direction{game.Up, game.Down, game.Left, game.Right} {
		out, moved, err := s.Move(context.Background(), d)
		require.NoError(t, err)
		assert.Equal(t, game.OutcomeRejected, out)
		assert.Equal(t, *snap.Player, *moved.Player)
	}
}

func TestMovesSerialiseThroughLoop(t *testing.T) {
	s := start(t, "s1", clock.NewMock(), Options{Rand: seeded(3)})
	defer s.Close()

	ctx := context.Background()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(d game.Direction) {
			for n := 0; n < 50; n++ {
				if _, _, err := s.Move(ctx, d); err != nil {
					break
				}
				d = d%4 + 1
			}
			done <- struct{}{}
		}(game.Direction(i%4 + 1))
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	snap := snapshot(t, s)
	assert.Equal(t, snap.Captures*100, snap.Score)
	assert.NotEqual(t, *snap.Player, *snap.Target)
	assert.False(t, game.DefaultRules().IsBlocked(*snap.Player))
}

func TestSubscribe(t *testing.T) {
	mock := clock.NewMock()
	s := start(t, "s1", mock, Options{Rand: seeded(4)})
	defer s.Close()

	ctx := context.Background()
	ch, cancel, err := s.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	first := <-ch
	assert.Equal(t, 60, first.TimeLeft)

	capture(t, s)
	moved := <-ch
	assert.Equal(t, 100, moved.Score)

	mock.Add(time.Second)
	select {
	case ticked := <-ch:
		assert.Equal(t, 59, ticked.TimeLeft)
	case <-time.After(2 * time.Second):
		t.Fatal("no tick snapshot")
	}

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestCloseTearsDown(t *testing.T) {
	mock := clock.NewMock()
	finished := make(chan Result, 1)
	s := start(t, "s1", mock, Options{Rand: seeded(5), OnFinish: func(r Result) { finished <- r }})

	ch, _, err := s.Subscribe(context.Background())
	require.NoError(t, err)
	<-ch

	s.Close()
	s.Close() // idempotent

	_, err = s.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	_, _, err = s.Move(context.Background(), game.Up)
	assert.ErrorIs(t, err, ErrClosed)
	_, _, err = s.Subscribe(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	_, open := <-ch
	assert.False(t, open)

	mock.Add(2 * time.Minute)
	assert.Len(t, finished, 0, "closed sessions never report a result")
}

func TestRequestHonoursContext(t *testing.T) {
	s := start(t, "s1", clock.NewMock(), Options{Rand: seeded(6)})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Snapshot(ctx)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestNewFailsWithoutRoom(t *testing.T) {
	rules := game.NewRules(2, 1, []int{0}, 100, 60)
	s, err := New("s1", clock.NewMock(), Options{Rules: rules})
	assert.ErrorIs(t, err, ErrNoRoom)
	assert.Nil(t, s)
}

func TestClosedDailyReportsPartialRun(t *testing.T) {
	mock := clock.NewMock()
	finished := make(chan Result, 2)
	s := start(t, "d1", mock, Options{
		Owner:    "anon-1",
		Mode:     store.ModeDaily,
		Date:     "2026-05-04",
		Rand:     seeded(7),
		OnFinish: func(r Result) { finished <- r },
	})
	capture(t, s)
	mock.Add(time.Second)
	require.Eventually(t, func() bool {
		snap, err := s.Snapshot(context.Background())
		return err == nil && snap.TimeLeft == 59
	}, 2*time.Second, time.Millisecond)

	s.Close()
	s.Close()

	// reported before Close returns
	require.Len(t, finished, 1)
	r := <-finished
	assert.Equal(t, store.ModeDaily, r.Mode)
	assert.Equal(t, "anon-1", r.Owner)
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, time.Second, r.FinishedAt.Sub(r.StartedAt))
}
