package searcher

import (
	"math"

	"github.com/rs/zerolog/log"

	"gametrace/game"
	"gametrace/trace"
)

type MinimaxOption func(m *Minimax)

// Minimax is an exhaustive depth-limited search. It never prunes: every
// branch up to the depth limit is visited and recorded.
type Minimax struct {
	depthLimit int
	metrics    MetricsCollector
}

type MinimaxResult struct {
	Value    int
	BestMove int // First root move reaching Value, trace.NoMove for a leaf root
	Metric   SearchMetric
}

func WithDepthLimit(depth int) MinimaxOption {
	return func(m *Minimax) {
		if depth >= 0 {
			m.depthLimit = depth
		}
	}
}

func WithMinimaxMetrics() MinimaxOption {
	return func(m *Minimax) {
		m.metrics = NewMetricsCollector()
	}
}

func NewMinimax(options ...MinimaxOption) *Minimax {
	m := &Minimax{
		depthLimit: DefaultDepthLimit,
		metrics:    NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search scores board for the side given by maximizing and records the full
// traversal, closed by a "Minimax complete." record.
func (m *Minimax) Search(board game.Board, maximizing bool, rec *trace.Recorder) MinimaxResult {
	m.metrics.Start("minimax")
	working := board.Copy()

	rec.Recordf(working, trace.NewMeta(trace.PhaseStart),
		"Minimax: %s to move, depth limit %d", playerFor(maximizing), m.depthLimit)

	value, best := m.minimax(working, maximizing, 0, rec)

	summary := trace.NewMeta(trace.PhaseComplete)
	summary.Value = value
	summary.BestMove = best
	rec.Record(working, "Minimax complete.", summary)

	metric := m.metrics.Complete()
	log.Debug().
		Int("value", value).
		Int("bestMove", best).
		Int64("leaves", metric.Leaves).
		Msg("minimax-complete")

	return MinimaxResult{Value: value, BestMove: best, Metric: metric}
}

// minimax places and removes marks on board in place; board is restored
// before it returns.
func (m *Minimax) minimax(board game.Board, maximizing bool, depth int, rec *trace.Recorder) (int, int) {
	moves := game.EmptyCells(board)
	if game.EvaluateWinner(board) != game.NoWinner || len(moves) == 0 || depth > m.depthLimit {
		value := game.HeuristicValue(board)
		m.metrics.AddLeaf()

		meta := trace.NewMeta(trace.PhaseLeaf)
		meta.Depth = depth
		meta.Value = value
		rec.Recordf(board, meta, "Depth %d: leaf score = %d", depth, value)
		return value, trace.NoMove
	}

	player := playerFor(maximizing)
	best, bestMove := math.MaxInt, trace.NoMove
	if maximizing {
		best = math.MinInt
	}

	for _, move := range moves {
		board[move] = player
		m.metrics.AddNode()

		try := trace.NewMeta(trace.PhaseTry)
		try.Depth = depth
		try.Move = move
		rec.Recordf(board, try, "Depth %d: %s tries cell %d", depth, player, move)

		value, _ := m.minimax(board, !maximizing, depth+1, rec)

		board[move] = game.Empty
		back := trace.NewMeta(trace.PhaseBacktrack)
		back.Depth = depth
		back.Move = move
		back.Value = value
		rec.Recordf(board, back, "Depth %d: undo cell %d, value = %d", depth, move, value)

		if (maximizing && value > best) || (!maximizing && value < best) {
			best, bestMove = value, move
		}
	}
	return best, bestMove
}
