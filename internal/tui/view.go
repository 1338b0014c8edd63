// internal/tui/view.go
//
// Terminal rendering of a game.Snapshot.
// Layout (top-left anchored):
//   row 0        title
//   row 1        clock and running total
//   rows 3..     the board, one cell = two columns plus a gap
//   below board  key help
// When the game is over a box with the final points is drawn over the board.

package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/gridchase/internal/game"
)

const (
	boardTop  = 3
	cellWidth = 3 // glyph pair + gap
)

var (
	styleText    = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleBlocked = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleEmpty   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleTarget  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBox     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

// Glyph returns the two columns drawn for a cell of the given kind.
func Glyph(kind game.CellKind) (string, tcell.Style) {
	switch kind {
	case game.CellBlocked:
		return "██", styleBlocked
	case game.CellPlayer:
		return "@ ", stylePlayer
	case game.CellTarget:
		return "$ ", styleTarget
	}
	return "··", styleEmpty
}

// CellOrigin is the screen position of the first column of cell i.
func CellOrigin(i, width int) (x, y int) {
	return (i % width) * cellWidth, boardTop + i/width
}

// Draw clears the screen and renders snap. It does not call Show.
func Draw(s tcell.Screen, snap game.Snapshot) {
	s.Clear()
	drawText(s, 0, 0, styleTitle, "GRID CHASE")
	drawText(s, 0, 1, styleText, snap.Clock)
	drawText(s, 8, 1, styleText, fmt.Sprintf("Total: %d", snap.Score))

	width := snap.Width
	if width <= 0 {
		width = game.DefaultRules().Width()
	}
	for i, kind := range snap.Cells {
		x, y := CellOrigin(i, width)
		glyph, style := Glyph(kind)
		drawText(s, x, y, style, glyph)
	}

	rows := (len(snap.Cells) + width - 1) / width
	drawText(s, 0, boardTop+rows+1, styleEmpty, "arrows/hjkl move  q quit")

	if snap.GameOver {
		drawOverBox(s, snap.Score, width*cellWidth, rows)
	}
}

// drawOverBox centres the final-score box over the board area.
func drawOverBox(s tcell.Screen, score, boardW, rows int) {
	lines := []string{
		"",
		" Time's up ",
		fmt.Sprintf(" Your points: %d ", score),
		" [r] Retry  [q] Quit ",
		"",
	}
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	x0 := max(0, (boardW-w)/2)
	y0 := boardTop + max(0, (rows-len(lines))/2)
	for dy, l := range lines {
		for dx := 0; dx < w; dx++ {
			s.SetContent(x0+dx, y0+dy, ' ', nil, styleBox)
		}
		drawText(s, x0, y0+dy, styleBox, l)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
