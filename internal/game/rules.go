// internal/game/rules.go
//
// Immutable board configuration: grid dimensions, blocked cells, points per
// capture and countdown length. A Rules value is built once and shared
// read-only by every game.

package game

import (
	"math/rand/v2"
	"sort"
)

const (
	defaultWidth    = 6
	defaultHeight   = 6
	defaultPoints   = 100
	defaultDuration = 60 // seconds
)

var defaultBlocked = []int{7, 8, 9, 10, 13, 22, 25, 28}

// classic is the board every mode plays on.
var classic = NewRules(defaultWidth, defaultHeight, defaultBlocked, defaultPoints, defaultDuration)

// Rules describes a board. Cells are addressed row-major: index = row*width + col.
type Rules struct {
	width    int
	height   int
	blocked  map[int]struct{}
	points   int
	duration int
}

// NewRules builds a Rules value. Blocked indices outside the grid are ignored.
func NewRules(width, height int, blocked []int, points, duration int) Rules {
	r := Rules{
		width:    width,
		height:   height,
		blocked:  make(map[int]struct{}, len(blocked)),
		points:   points,
		duration: duration,
	}
	for _, b := range blocked {
		if r.InBounds(b) {
			r.blocked[b] = struct{}{}
		}
	}
	return r
}

// DefaultRules returns the 6x6 board with 8 blocked cells, 100 points per
// capture and a 60 second countdown.
func DefaultRules() Rules { return classic }

func (r Rules) Width() int { return r.width }
func (r Rules) Height() int { return r.height }
func (r Rules) Cells() int { return r.width * r.height }
func (r Rules) Points() int { return r.points }
func (r Rules) Duration() int { return r.duration }

// Blocked returns the blocked indices in ascending order.
func (r Rules) Blocked() []int {
	out := make([]int, 0, len(r.blocked))
	for b := range r.blocked {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// InBounds reports whether i addresses a cell of the grid.
func (r Rules) InBounds(i int) bool { return i >= 0 && i < r.Cells() }

// IsBlocked reports whether i is one of the permanently impassable cells.
func (r Rules) IsBlocked(i int) bool {
	_, ok := r.blocked[i]
	return ok
}

// IsValid reports whether i is outside the blocked set. Pure; bounds are
// checked separately by InBounds.
func (r Rules) IsValid(i int) bool { return !r.IsBlocked(i) }

// Step translates a direction into the neighbouring index.
// Up/down move a full row and may leave the grid (callers bounds-check).
// Left/right never wrap between rows: ok is false in column 0 for Left and
// in the last column for Right.
func (r Rules) Step(from int, d Direction) (to int, ok bool) {
	switch d {
	case Up:
		return from - r.width, true
	case Down:
		return from + r.width, true
	case Left:
		if from%r.width == 0 {
			return from, false
		}
		return from - 1, true
	case Right:
		if from%r.width == r.width-1 {
			return from, false
		}
		return from + 1, true
	}
	return from, false
}

// RandomValid picks uniformly among in-bounds, valid cells that are not equal
// to any excluded index. An excluded index that is invalid or out of range
// simply filters nothing. ok is false when no candidate exists.
func (r Rules) RandomValid(rng *rand.Rand, exclude ...int) (cell int, ok bool) {
	candidates := make([]int, 0, r.Cells())
	for i := 0; i < r.Cells(); i++ {
		if !r.IsValid(i) || excluded(i, exclude) {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.IntN(len(candidates))], true
}

func excluded(i int, exclude []int) bool {
	for _, e := range exclude {
		if e == i {
			return true
		}
	}
	return false
}
