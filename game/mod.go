package game

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// Cell is the content of one board square. The numeric values are load
// bearing: a win line is detected by summing its cells.
type Cell int8

const (
	Empty Cell = 0
	Max   Cell = 1
	Min   Cell = -1
)

// Opponent returns the other player. Empty has no opponent.
func (c Cell) Opponent() Cell {
	return -c
}

func (c Cell) String() string {
	switch c {
	case Max:
		return "MAX"
	case Min:
		return "MIN"
	default:
		return "EMPTY"
	}
}

// Board is a size*size row-major grid of cells.
//
// Board values are shared freely once captured (e.g. inside a step record);
// only the working copy of an active search is mutated in place.
type Board []Cell

// NewBoard returns an empty board of the given side length.
func NewBoard(size int) Board {
	if size <= 0 {
		panic(fmt.Sprintf("invalid board size %d", size))
	}
	return make(Board, size*size)
}

// Size returns the side length of the board.
func (b Board) Size() int {
	size := int(math.Round(math.Sqrt(float64(len(b)))))
	if size*size != len(b) {
		panic(fmt.Sprintf("board with %d cells is not square", len(b)))
	}
	return size
}

// Copy returns a value-independent copy of the board.
func (b Board) Copy() Board {
	return slices.Clone(b)
}

// Play returns a copy of the board with player's mark at index.
func (b Board) Play(index int, player Cell) Board {
	next := b.Copy()
	next[index] = player
	return next
}

// Mirror swaps every MAX mark with a MIN mark and vice versa.
func (b Board) Mirror() Board {
	mirrored := make(Board, len(b))
	for i, c := range b {
		mirrored[i] = c.Opponent()
	}
	return mirrored
}

// ToMove infers the player to move, assuming MAX moved first.
func (b Board) ToMove() Cell {
	balance := 0
	for _, c := range b {
		balance += int(c)
	}
	if balance > 0 {
		return Min
	}
	return Max
}

// Ints returns the board as plain integers, the shape renderers consume.
func (b Board) Ints() []int {
	out := make([]int, len(b))
	for i, c := range b {
		out[i] = int(c)
	}
	return out
}
