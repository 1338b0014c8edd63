package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blockedCells = []int{7, 8, 9, 10, 13, 22, 25, 28}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// placed returns an active game with the player and target on fixed cells.
func placed(t *testing.T, player, target int) *Game {
	t.Helper()
	g := New(DefaultRules(), seeded(1))
	require.True(t, g.Start())
	g.player = slot{cell: player, ok: true}
	g.target = slot{cell: target, ok: true}
	return g
}

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, 6, r.Width())
	assert.Equal(t, 6, r.Height())
	assert.Equal(t, 36, r.Cells())
	assert.Equal(t, 100, r.Points())
	assert.Equal(t, 60, r.Duration())
	assert.Equal(t, blockedCells, r.Blocked())
}

func TestIsValid(t *testing.T) {
	r := DefaultRules()
	for i := 0; i < r.Cells(); i++ {
		assert.Equal(t, !contains(blockedCells, i), r.IsValid(i), "cell %d", i)
	}
}

func TestRandomValidNeverBlocked(t *testing.T) {
	r := DefaultRules()
	rng := seeded(42)
	seen := map[int]bool{}
	for n := 0; n < 5000; n++ {
		c, ok := r.RandomValid(rng)
		require.True(t, ok)
		assert.True(t, r.InBounds(c))
		assert.NotContains(t, blockedCells, c)
		seen[c] = true
	}
	// 36 - 8 blocked
	assert.Len(t, seen, 28)
}

func TestRandomValidExclusion(t *testing.T) {
	r := DefaultRules()
	rng := seeded(7)

	t.Run("valid exclusion is never picked", func(t *testing.T) {
		for n := 0; n < 2000; n++ {
			c, ok := r.RandomValid(rng, 0)
			require.True(t, ok)
			assert.NotEqual(t, 0, c)
		}
	})

	t.Run("invalid or out of range exclusion filters nothing extra", func(t *testing.T) {
		seen := map[int]bool{}
		for n := 0; n < 5000; n++ {
			c, _ := r.RandomValid(rng, 7, -3, 99)
			seen[c] = true
		}
		assert.Len(t, seen, 28)
	})

	t.Run("no candidates", func(t *testing.T) {
		tiny := NewRules(1, 1, nil, 100, 60)
		_, ok := tiny.RandomValid(rng, 0)
		assert.False(t, ok)
	})
}

func TestStart(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		g := New(DefaultRules(), seeded(seed))
		_, ok := g.Player()
		require.False(t, ok, "positions unset before start")
		require.Equal(t, PhasePending, g.Phase())

		require.True(t, g.Start())
		p, _ := g.Player()
		tg, _ := g.Target()
		assert.NotContains(t, blockedCells, p)
		assert.NotContains(t, blockedCells, tg)
		assert.NotEqual(t, p, tg)
		assert.Equal(t, PhaseActive, g.Phase())
		assert.Equal(t, 60, g.TimeLeft())
		assert.Equal(t, 0, g.Score())
	}
}

func TestStartTwice(t *testing.T) {
	g := New(DefaultRules(), seeded(3))
	require.True(t, g.Start())
	p, _ := g.Player()
	assert.False(t, g.Start())
	p2, _ := g.Player()
	assert.Equal(t, p, p2)
}

func TestPendingGameIgnoresInput(t *testing.T) {
	g := New(DefaultRules(), seeded(3))
	assert.Equal(t, OutcomeRejected, g.Move(Right))
	assert.Equal(t, OutcomeRejected, g.MoveTo(0))
	assert.False(t, g.Tick())
	assert.Equal(t, 60, g.TimeLeft())
	snap := g.Snapshot()
	assert.Nil(t, snap.Player)
	assert.Nil(t, snap.Target)
}

func TestMoveToRejections(t *testing.T) {
	tests := []struct {
		name string
		to   int
	}{
		{"below range", -1},
		{"above range", 36},
		{"far out", 1000},
		{"blocked", 13},
		{"blocked corner of the wall", 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := placed(t, 14, 35)
			assert.Equal(t, OutcomeRejected, g.MoveTo(tc.to))
			p, _ := g.Player()
			assert.Equal(t, 14, p)
			assert.Equal(t, 0, g.Moves())
		})
	}
}

func TestMoveScenarios(t *testing.T) {
	t.Run("right from column 0", func(t *testing.T) {
		g := placed(t, 0, 35)
		assert.Equal(t, OutcomeMoved, g.Move(Right))
		p, _ := g.Player()
		assert.Equal(t, 1, p)
	})

	t.Run("right from last column", func(t *testing.T) {
		g := placed(t, 5, 35)
		assert.Equal(t, OutcomeRejected, g.Move(Right))
		p, _ := g.Player()
		assert.Equal(t, 5, p)
	})

	t.Run("left from column 0 does not wrap", func(t *testing.T) {
		g := placed(t, 6, 35)
		assert.Equal(t, OutcomeRejected, g.Move(Left))
		p, _ := g.Player()
		assert.Equal(t, 6, p)
	})

	t.Run("up from top row", func(t *testing.T) {
		g := placed(t, 2, 35)
		assert.Equal(t, OutcomeRejected, g.Move(Up))
	})

	t.Run("down from bottom row", func(t *testing.T) {
		g := placed(t, 33, 0)
		assert.Equal(t, OutcomeRejected, g.Move(Down))
	})

	t.Run("down into blocked", func(t *testing.T) {
		g := placed(t, 1, 35)
		assert.Equal(t, OutcomeRejected, g.Move(Down))
		p, _ := g.Player()
		assert.Equal(t, 1, p)
	})

	t.Run("up and down move a full row", func(t *testing.T) {
		g := placed(t, 14, 0)
		assert.Equal(t, OutcomeMoved, g.Move(Down))
		p, _ := g.Player()
		assert.Equal(t, 20, p)
		assert.Equal(t, OutcomeMoved, g.Move(Up))
		p, _ = g.Player()
		assert.Equal(t, 14, p)
		assert.Equal(t, 2, g.Moves())
	})
}

func TestColumnBoundaryProperty(t *testing.T) {
	r := DefaultRules()
	for i := 0; i < r.Cells(); i++ {
		if !r.IsValid(i) {
			continue
		}
		if i%6 == 0 {
			g := placed(t, i, 35)
			g.Move(Left)
			p, _ := g.Player()
			assert.Equal(t, i, p, "left from %d", i)
		}
		if i%6 == 5 {
			g := placed(t, i, 0)
			g.Move(Right)
			p, _ := g.Player()
			assert.Equal(t, i, p, "right from %d", i)
		}
	}
}

func TestCapture(t *testing.T) {
	for seed := uint64(0); seed < 300; seed++ {
		g := placed(t, 0, 1)
		g.rng = seeded(seed)
		before := g.Score()

		assert.Equal(t, OutcomeCaptured, g.Move(Right))
		p, _ := g.Player()
		tg, ok := g.Target()
		require.True(t, ok)
		assert.Equal(t, 1, p)
		assert.Equal(t, before+100, g.Score())
		assert.NotEqual(t, p, tg)
		assert.NotContains(t, blockedCells, tg)
		assert.Equal(t, 1, g.Captures())
	}
}

func TestRepeatedCaptures(t *testing.T) {
	g := New(DefaultRules(), seeded(99))
	require.True(t, g.Start())
	for n := 1; n <= 20; n++ {
		tg, _ := g.Target()
		assert.Equal(t, OutcomeCaptured, g.MoveTo(tg))
		assert.Equal(t, n*100, g.Score())
		nt, _ := g.Target()
		assert.NotEqual(t, tg, nt)
	}
}

func TestCountdown(t *testing.T) {
	g := New(DefaultRules(), seeded(5))
	require.True(t, g.Start())

	for want := 59; want > 0; want-- {
		assert.False(t, g.Tick())
		assert.Equal(t, want, g.TimeLeft())
		assert.False(t, g.Over())
	}
	assert.True(t, g.Tick(), "tick reaching zero reports game over")
	assert.Equal(t, 0, g.TimeLeft())
	assert.True(t, g.Over())
	assert.Equal(t, PhaseOver, g.Phase())

	for n := 0; n < 5; n++ {
		assert.False(t, g.Tick(), "transition happens exactly once")
		assert.Equal(t, 0, g.TimeLeft())
	}
}

func TestGameOverRejectsMoves(t *testing.T) {
	g := placed(t, 14, 35)
	for !g.Tick() {
	}
	for _, d := range []Direction{Up, Down, Left, Right} {
		assert.Equal(t, OutcomeRejected, g.Move(d))
		p, _ := g.Player()
		assert.Equal(t, 14, p)
	}
	assert.Equal(t, OutcomeRejected, g.MoveTo(15))
}

func TestSnapshot(t *testing.T) {
	g := placed(t, 0, 35)
	snap := g.Snapshot()
	require.Len(t, snap.Cells, 36)
	assert.Equal(t, CellPlayer, snap.Cells[0])
	assert.Equal(t, CellTarget, snap.Cells[35])
	assert.Equal(t, CellBlocked, snap.Cells[7])
	assert.Equal(t, CellEmpty, snap.Cells[1])
	require.NotNil(t, snap.Player)
	assert.Equal(t, 0, *snap.Player)
	assert.Equal(t, "1:00", snap.Clock)
	assert.Equal(t, 6, snap.Width)
	assert.False(t, snap.GameOver)

	// snapshots are copies
	snap.Cells[1] = CellBlocked
	assert.Equal(t, CellEmpty, g.Cell(1))
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{60: "1:00", 59: "0:59", 9: "0:09", 0: "0:00", 125: "2:05", -4: "0:00"}
	for in, want := range cases {
		assert.Equal(t, want, FormatClock(in), "%d", in)
	}
}

func TestParseKey(t *testing.T) {
	for key, want := range map[string]Direction{
		"ArrowUp": Up, "ArrowDown": Down, "ArrowLeft": Left, "ArrowRight": Right,
		"up": Up, " LEFT ": Left,
	} {
		d, ok := ParseKey(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, d, key)
	}
	_, ok := ParseKey("Enter")
	assert.False(t, ok)
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
