package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWinLines(t *testing.T) {
	for size := 1; size <= 7; size++ {
		lines := WinLines(size)

		require.Len(t, lines, 2*size+2, "Should have every row, column and both diagonals")
		for _, line := range lines {
			require.Len(t, line, size, "Every line should span the board")
			seen := map[int]bool{}
			for _, i := range line {
				require.GreaterOrEqual(t, i, 0)
				require.Less(t, i, size*size)
				require.False(t, seen[i], "Line indices should be distinct")
				seen[i] = true
			}
		}
	}

	t.Run("caching one table per size", func(t *testing.T) {
		first := WinLines(4)
		second := WinLines(4)
		require.Same(t, &first[0][0], &second[0][0], "Should reuse the computed table")
	})

	t.Run("listing the 3x3 lines", func(t *testing.T) {
		require.Equal(t, [][]int{
			{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
			{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
			{0, 4, 8}, {2, 4, 6},
		}, WinLines(3))
	})
}

func TestEvaluateWinner(t *testing.T) {
	t.Run("empty board has no winner", func(t *testing.T) {
		require.Equal(t, NoWinner, EvaluateWinner(NewBoard(3)))
	})

	t.Run("row of MAX marks", func(t *testing.T) {
		b := Board{1, 1, 1, -1, -1, 0, 0, 0, 0}
		require.Equal(t, MaxWins, EvaluateWinner(b))
	})

	t.Run("anti-diagonal of MIN marks on a 4x4 board", func(t *testing.T) {
		b := NewBoard(4)
		for _, i := range []int{3, 6, 9, 12} {
			b[i] = Min
		}
		require.Equal(t, MinWins, EvaluateWinner(b))
	})

	t.Run("symmetric under swapping players", func(t *testing.T) {
		boards := []Board{
			{1, 1, 1, -1, -1, 0, 0, 0, 0},
			{-1, 1, 0, -1, 1, 0, -1, 0, 1},
			{1, -1, 1, -1, 1, -1, -1, 1, -1},
			{0, 0, 0, 0, 0, 0, 0, 0, 0},
			{1, 0, -1, 0, 1, 0, -1, 0, 1},
		}
		for _, b := range boards {
			require.Equal(t, -EvaluateWinner(b), EvaluateWinner(b.Mirror()))
		}
	})
}

func TestEmptyCells(t *testing.T) {
	b := Board{1, 0, -1, 0, 1, 0, 0, -1, 0}
	require.Equal(t, []int{1, 3, 5, 6, 8}, EmptyCells(b), "Should list empty cells in ascending order")
	require.Empty(t, EmptyCells(Board{1, -1, 1, -1}))
}

func TestHeuristicValue(t *testing.T) {
	t.Run("empty board is balanced", func(t *testing.T) {
		require.Equal(t, 0, HeuristicValue(NewBoard(3)))
	})

	t.Run("corner mark closes three lines for the opponent", func(t *testing.T) {
		require.Equal(t, 3, HeuristicValue(Board{1, 0, 0, 0, 0, 0, 0, 0, 0}))
	})

	t.Run("center mark closes four lines for the opponent", func(t *testing.T) {
		require.Equal(t, 4, HeuristicValue(Board{0, 0, 0, 0, 1, 0, 0, 0, 0}))
		require.Equal(t, -4, HeuristicValue(Board{0, 0, 0, 0, -1, 0, 0, 0, 0}))
	})

	t.Run("open positions count open lines", func(t *testing.T) {
		require.Equal(t, -1, HeuristicValue(Board{1, 1, 0, -1, -1, 0, 0, 0, 0}))
		require.Equal(t, -1, HeuristicValue(Board{1, 0, 0, 0, -1, 0, 0, 0, 0}))
	})

	t.Run("decided boards score the win", func(t *testing.T) {
		require.Equal(t, WinScore, HeuristicValue(Board{1, 1, 1, -1, -1, 0, 0, 0, 0}))
		require.Equal(t, -WinScore, HeuristicValue(Board{1, 1, 0, -1, -1, -1, 1, 0, 0}))
	})

	t.Run("drawn board is zero", func(t *testing.T) {
		require.Equal(t, 0, HeuristicValue(Board{1, -1, 1, -1, 1, -1, -1, 1, -1}))
	})
}

func TestRolloutReward(t *testing.T) {
	t.Run("decided games are full wins or losses", func(t *testing.T) {
		require.Equal(t, 1.0, RolloutReward(Board{1, 1, 1, -1, -1, 0, 0, 0, 0}))
		require.Equal(t, -1.0, RolloutReward(Board{1, 1, 0, -1, -1, -1, 1, 0, 0}))
	})

	t.Run("draw is zero", func(t *testing.T) {
		require.Equal(t, 0.0, RolloutReward(Board{1, -1, 1, -1, 1, -1, -1, 1, -1}))
	})

	t.Run("open positions use the normalized line balance", func(t *testing.T) {
		require.InDelta(t, 4.0/12.0, RolloutReward(Board{0, 0, 0, 0, 1, 0, 0, 0, 0}), 1e-9)
	})

	t.Run("cut-off rewards stay below a real win", func(t *testing.T) {
		b := Board{1, -1, 0, -1, 1, 0, 1, 0, 0}
		got := RolloutReward(b)
		require.LessOrEqual(t, got, RolloutBound)
		require.GreaterOrEqual(t, got, -RolloutBound)
	})
}

func TestBoard(t *testing.T) {
	t.Run("copy is independent", func(t *testing.T) {
		b := NewBoard(3)
		c := b.Copy()
		b[0] = Max
		require.Equal(t, Empty, c[0])
	})

	t.Run("play leaves the original untouched", func(t *testing.T) {
		b := NewBoard(3)
		next := b.Play(4, Min)
		require.Equal(t, Empty, b[4])
		require.Equal(t, Min, next[4])
	})

	t.Run("size of a square board", func(t *testing.T) {
		require.Equal(t, 5, NewBoard(5).Size())
	})

	t.Run("non-square boards panic", func(t *testing.T) {
		require.Panics(t, func() { Board{0, 0, 0}.Size() })
	})

	t.Run("player to move alternates from MAX", func(t *testing.T) {
		require.Equal(t, Max, NewBoard(3).ToMove())
		require.Equal(t, Min, Board{1, 0, 0, 0}.ToMove())
		require.Equal(t, Max, Board{1, -1, 0, 0}.ToMove())
	})
}
