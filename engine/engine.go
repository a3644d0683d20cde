// Package engine selects a search algorithm, runs it on an empty board and
// hands back the frozen trace of the run.
package engine

import (
	"errors"
	"fmt"

	"gametrace/utils"
)

var (
	ErrInvalidAlgorithm = errors.New("invalid algorithm")
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidConfig    = errors.New("invalid config")
)

type Algorithm string

const (
	Minimax          Algorithm = "minimax"
	MCTS             Algorithm = "mcts"
	AlphaBetaPruning Algorithm = "alphaBetaPruning"
	Expectimax       Algorithm = "expectimax"
)

// Algorithms lists every selectable algorithm in menu order.
var Algorithms = []Algorithm{Minimax, MCTS, AlphaBetaPruning, Expectimax}

// ParseAlgorithm accepts exactly the names in Algorithms; matching is case
// sensitive.
func ParseAlgorithm(name string) (Algorithm, error) {
	if utils.FindIndex(Algorithms, Algorithm(name)) < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, name)
	}
	return Algorithm(name), nil
}

// Placeholder reports whether the algorithm is selectable but only produces
// a stub trace.
func (a Algorithm) Placeholder() bool {
	return a == AlphaBetaPruning || a == Expectimax
}

func (a Algorithm) String() string {
	return string(a)
}
