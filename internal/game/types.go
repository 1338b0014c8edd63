// internal/game/types.go
//
// Core type definitions for the Grid Chase engine.
// Defines:
//   - Direction: one of the four movement inputs.
//   - CellKind: per-cell visual state (blocked/player/target/empty).
//   - Outcome: result of a movement request.
//   - Phase: lifecycle of a game (pending → active → over).
//   - Snapshot: read-only copy of everything a view needs to draw.

package game

// Direction is a movement input (arrow key or on-screen button).
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// CellKind is the visual state of a single grid cell.
// Blocked wins over player/target, player wins over target.
type CellKind string

const (
	CellEmpty   CellKind = "empty"
	CellBlocked CellKind = "blocked"
	CellPlayer  CellKind = "player"
	CellTarget  CellKind = "target"
)

// Outcome reports what a movement request did.
//   - "rejected": out of bounds, blocked, not started or game over; nothing changed.
//   - "moved":    player position changed.
//   - "captured": player landed on the target; score bumped and target relocated.
type Outcome string

const (
	OutcomeRejected Outcome = "rejected"
	OutcomeMoved    Outcome = "moved"
	OutcomeCaptured Outcome = "captured"
)

// Phase is the game's state machine position.
// Pending → Active happens on Start, Active → Over when the countdown hits zero.
// Nothing leads back; a retry builds a new Game.
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseActive  Phase = "active"
	PhaseOver    Phase = "over"
)

// Snapshot is an immutable copy of the observable game state.
// Player and Target are nil until the game has been started.
type Snapshot struct {
	Cells    []CellKind `json:"cells"`
	Width    int        `json:"width"`
	Player   *int       `json:"player,omitempty"`
	Target   *int       `json:"target,omitempty"`
	Score    int        `json:"score"`
	TimeLeft int        `json:"timeLeft"`
	Clock    string     `json:"clock"` // m:ss
	Phase    Phase      `json:"phase"`
	GameOver bool       `json:"gameOver"`
	Captures int        `json:"captures"`
	Moves    int        `json:"moves"`
}
