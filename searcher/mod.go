package searcher

import (
	"math"

	"gametrace/game"
)

// Exploration is the UCT exploration constant C.
var Exploration = math.Sqrt2

// playerFor maps the maximizing flag onto the mark that player places.
func playerFor(maximizing bool) game.Cell {
	if maximizing {
		return game.Max
	}
	return game.Min
}
