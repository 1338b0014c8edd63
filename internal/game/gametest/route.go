// Package gametest holds helpers for driving games from tests.
package gametest

import "github.com/robalobadob/gridchase/internal/game"

var directions = []game.Direction{game.Up, game.Down, game.Left, game.Right}

// Route returns the shortest sequence of moves from one cell to another
// over unblocked cells, following the same step rules as Game.Move.
// ok is false when to cannot be reached.
func Route(rules game.Rules, from, to int) (moves []game.Direction, ok bool) {
	type hop struct {
		prev int
		dir  game.Direction
	}
	seen := map[int]hop{from: {prev: -1}}
	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			for c := to; c != from; c = seen[c].prev {
				moves = append(moves, seen[c].dir)
			}
			for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
				moves[i], moves[j] = moves[j], moves[i]
			}
			return moves, true
		}
		for _, d := range directions {
			next, ok := rules.Step(cur, d)
			if !ok || !rules.InBounds(next) || rules.IsBlocked(next) {
				continue
			}
			if _, done := seen[next]; done {
				continue
			}
			seen[next] = hop{prev: cur, dir: d}
			queue = append(queue, next)
		}
	}
	return nil, false
}
