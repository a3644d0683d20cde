package game

// Winner is the outcome of a board. Its numeric value matches the winning
// player's cell value so that it can scale utilities directly.
type Winner int8

const (
	NoWinner Winner = 0
	MaxWins  Winner = 1
	MinWins  Winner = -1
)

func (w Winner) String() string {
	switch w {
	case MaxWins:
		return "MAX_WINS"
	case MinWins:
		return "MIN_WINS"
	default:
		return "NONE"
	}
}

// WinScore is the heuristic magnitude of a decided board.
const WinScore = 10

// RolloutBound caps the reward of a rollout cut off before the game ended,
// keeping it strictly weaker than a real win or loss.
const RolloutBound = 0.9

// EvaluateWinner sums every win line; a line summing to +size is a MAX win
// and -size a MIN win.
func EvaluateWinner(b Board) Winner {
	size := b.Size()
	for _, line := range WinLines(size) {
		sum := 0
		for _, i := range line {
			sum += int(b[i])
		}
		switch sum {
		case size:
			return MaxWins
		case -size:
			return MinWins
		}
	}
	return NoWinner
}

// EmptyCells returns the indices of empty cells in ascending order.
func EmptyCells(b Board) []int {
	cells := make([]int, 0, len(b))
	for i, c := range b {
		if c == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsTerminal reports whether the game is decided or the board is full.
func IsTerminal(b Board) bool {
	if EvaluateWinner(b) != NoWinner {
		return true
	}
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// HeuristicValue scores a board from MAX's perspective: ±WinScore when
// decided, otherwise the number of lines still open for MAX minus the number
// still open for MIN. A line is open for a player while the opponent has no
// mark on it.
func HeuristicValue(b Board) int {
	if w := EvaluateWinner(b); w != NoWinner {
		return int(w) * WinScore
	}
	openMax, openMin := openLines(b)
	return openMax - openMin
}

// RolloutReward scores the end of a random playout from MAX's perspective:
// +1 or -1 for a decided game, 0 for a full-board draw, and the normalized
// open-line balance clamped to ±RolloutBound for a playout cut off early.
func RolloutReward(b Board) float64 {
	if w := EvaluateWinner(b); w != NoWinner {
		return float64(w)
	}
	openMax, openMin := openLines(b)
	score := normalize(float64(openMax), float64(openMin))
	return clamp(score, -RolloutBound, RolloutBound)
}

func openLines(b Board) (openMax, openMin int) {
	for _, line := range WinLines(b.Size()) {
		hasMax, hasMin := false, false
		for _, i := range line {
			switch b[i] {
			case Max:
				hasMax = true
			case Min:
				hasMin = true
			}
		}
		if !hasMin {
			openMax++
		}
		if !hasMax {
			openMin++
		}
	}
	return openMax, openMin
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
