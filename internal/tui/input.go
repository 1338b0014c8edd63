// internal/tui/input.go
//
// Key bindings for the terminal view.

package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/gridchase/internal/game"
)

// Action is what a key press asks the app to do.
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionRetry
	ActionQuit
)

// KeyAction maps a key press to an action. For ActionMove the direction is
// also returned.
func KeyAction(key tcell.Key, r rune) (Action, game.Direction) {
	switch key {
	case tcell.KeyUp:
		return ActionMove, game.Up
	case tcell.KeyDown:
		return ActionMove, game.Down
	case tcell.KeyLeft:
		return ActionMove, game.Left
	case tcell.KeyRight:
		return ActionMove, game.Right
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, 0
	case tcell.KeyRune:
		switch r {
		case 'k':
			return ActionMove, game.Up
		case 'j':
			return ActionMove, game.Down
		case 'h':
			return ActionMove, game.Left
		case 'l':
			return ActionMove, game.Right
		case 'r', 'R':
			return ActionRetry, 0
		case 'q', 'Q':
			return ActionQuit, 0
		}
	}
	return ActionNone, 0
}
