// internal/game/engine.go
//
// Core game engine for a single Grid Chase session.
// Responsibilities:
//   - Place player and target on random valid cells when the game starts.
//   - Validate and apply moves (bounds, blocked cells, game over).
//   - Score captures and relocate the target.
//   - Run the countdown: one Tick per second, Active → Over at zero.
//
// Notes:
//   - A Game is not safe for concurrent use; the session package owns each
//     Game from a single goroutine.
//   - Rejected moves are silent no-ops by contract; they are reported through
//     the returned Outcome only.

package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// slot is an optional cell index. The zero value is "unset".
type slot struct {
	cell int
	ok   bool
}

func (s slot) is(i int) bool { return s.ok && s.cell == i }

// Game holds the state of one session.
type Game struct {
	rules    Rules
	rng      *rand.Rand
	phase    Phase
	player   slot
	target   slot
	score    int
	timeLeft int
	captures int
	moves    int
}

// New constructs a pending game. Positions stay unset until Start.
// rng drives every placement; pass a seeded source for reproducible boards.
func New(rules Rules, rng *rand.Rand) *Game {
	if rng == nil {
		rng = NewRand()
	}
	return &Game{
		rules:    rules,
		rng:      rng,
		phase:    PhasePending,
		timeLeft: rules.Duration(),
	}
}

// NewRand returns a randomly seeded generator.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Start places the player on a random valid cell and the target on a random
// valid cell other than the player's, then activates the game.
// Returns false if the game was already started or the board has no room.
func (g *Game) Start() bool {
	if g.phase != PhasePending {
		return false
	}
	p, ok := g.rules.RandomValid(g.rng)
	if !ok {
		return false
	}
	t, ok := g.rules.RandomValid(g.rng, p)
	if !ok {
		return false
	}
	g.player = slot{cell: p, ok: true}
	g.target = slot{cell: t, ok: true}
	g.phase = PhaseActive
	return true
}

// MoveTo moves the player to cell i if i is in bounds, not blocked and the
// game is active. Landing on the target scores and relocates the target
// once, excluding the player's new cell.
func (g *Game) MoveTo(i int) Outcome {
	if g.phase != PhaseActive || !g.rules.InBounds(i) || !g.rules.IsValid(i) {
		return OutcomeRejected
	}
	g.player = slot{cell: i, ok: true}
	g.moves++
	if !g.target.is(i) {
		return OutcomeMoved
	}

	g.score += g.rules.Points()
	g.captures++
	if t, ok := g.rules.RandomValid(g.rng, i); ok {
		g.target = slot{cell: t, ok: true}
	}
	return OutcomeCaptured
}

// Move translates d relative to the player and applies MoveTo.
// Column edges block Left/Right without wrapping into the adjacent row.
func (g *Game) Move(d Direction) Outcome {
	if !g.player.ok {
		return OutcomeRejected
	}
	to, ok := g.rules.Step(g.player.cell, d)
	if !ok {
		return OutcomeRejected
	}
	return g.MoveTo(to)
}

// Tick advances the countdown by one second. It is a no-op unless the game
// is active. Returns true exactly once: on the tick that reaches zero and
// flips the game over.
func (g *Game) Tick() bool {
	if g.phase != PhaseActive {
		return false
	}
	if g.timeLeft > 0 {
		g.timeLeft--
	}
	if g.timeLeft == 0 {
		g.phase = PhaseOver
		return true
	}
	return false
}

func (g *Game) Rules() Rules { return g.rules }
func (g *Game) Phase() Phase { return g.phase }
func (g *Game) Over() bool { return g.phase == PhaseOver }
func (g *Game) Score() int { return g.score }
func (g *Game) TimeLeft() int { return g.timeLeft }
func (g *Game) Captures() int { return g.captures }
func (g *Game) Moves() int { return g.moves }
func (g *Game) Player() (int, bool) { return g.player.cell, g.player.ok }
func (g *Game) Target() (int, bool) { return g.target.cell, g.target.ok }

// Cell reports the visual state of cell i.
func (g *Game) Cell(i int) CellKind {
	switch {
	case g.rules.IsBlocked(i):
		return CellBlocked
	case g.player.is(i):
		return CellPlayer
	case g.target.is(i):
		return CellTarget
	}
	return CellEmpty
}

// Snapshot copies the observable state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Cells:    make([]CellKind, g.rules.Cells()),
		Width:    g.rules.Width(),
		Score:    g.score,
		TimeLeft: g.timeLeft,
		Clock:    FormatClock(g.timeLeft),
		Phase:    g.phase,
		GameOver: g.phase == PhaseOver,
		Captures: g.captures,
		Moves:    g.moves,
	}
	for i := range s.Cells {
		s.Cells[i] = g.Cell(i)
	}
	if g.player.ok {
		p := g.player.cell
		s.Player = &p
	}
	if g.target.ok {
		t := g.target.cell
		s.Target = &t
	}
	return s
}

// FormatClock renders seconds as m:ss, e.g. 60 → "1:00", 9 → "0:09".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ParseKey maps a browser key name (ArrowUp, ...) or a short alias
// (up, down, left, right) to a Direction. Unknown keys report false.
func ParseKey(key string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "arrowup", "up":
		return Up, true
	case "arrowdown", "down":
		return Down, true
	case "arrowleft", "left":
		return Left, true
	case "arrowright", "right":
		return Right, true
	}
	return 0, false
}
