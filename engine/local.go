package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"gametrace/game"
	"gametrace/searcher"
	"gametrace/trace"
)

// Result is everything one run produced. Value is only meaningful for
// Minimax and Tree only for MCTS.
type Result struct {
	Algorithm Algorithm
	Log       *trace.Log
	Value     int
	BestMove  int
	Tree      *searcher.Tree
	Metric    searcher.SearchMetric
}

// RunSearch runs algorithm with default settings on an empty boardSize x
// boardSize board and returns its frozen step log.
func RunSearch(algorithm string, boardSize int) (*trace.Log, error) {
	a, err := ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	result, err := Run(DefaultConfig(a, boardSize))
	if err != nil {
		return nil, err
	}
	return result.Log, nil
}

// Run validates cfg, then searches from an empty board with the side to move
// as the maximizing player.
func Run(cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	board := game.NewBoard(cfg.BoardSize)
	rec := trace.NewRecorder()
	result := Result{Algorithm: cfg.Algorithm, BestMove: trace.NoMove}

	log.Info().Msgf("running %s on a %dx%d board", cfg.Algorithm, cfg.BoardSize, cfg.BoardSize)
	start := time.Now()

	switch cfg.Algorithm {
	case Minimax:
		options := []searcher.MinimaxOption{searcher.WithDepthLimit(cfg.DepthLimit)}
		if cfg.Metrics {
			options = append(options, searcher.WithMinimaxMetrics())
		}
		r := searcher.NewMinimax(options...).Search(board, board.ToMove() == game.Max, rec)
		result.Value = r.Value
		result.BestMove = r.BestMove
		result.Metric = r.Metric

	case MCTS:
		options := []searcher.Option{
			searcher.WithIterations(cfg.Iterations),
			searcher.WithCutoff(cfg.Cutoff),
			searcher.WithExploration(cfg.Exploration),
		}
		if cfg.Seed != 0 {
			options = append(options, searcher.WithSeed(cfg.Seed))
		}
		if cfg.Metrics {
			options = append(options, searcher.WithMetrics())
		}
		r := searcher.NewMCTS(options...).Search(board, board.ToMove(), rec)
		result.BestMove = r.BestMove
		result.Tree = r.Tree
		result.Metric = r.Metric

	default:
		placeholder(cfg.Algorithm, board, rec)
	}

	result.Log = rec.Freeze()
	log.Info().
		Str("run", result.Log.ID().String()).
		Int("steps", result.Log.Len()).
		Int("bestMove", result.BestMove).
		Dur("elapsed", time.Since(start)).
		Msgf("%s complete", cfg.Algorithm)
	return result, nil
}

// placeholder records the two-step stub trace of an algorithm that can be
// selected but is not implemented.
func placeholder(algorithm Algorithm, board game.Board, rec *trace.Recorder) {
	rec.Recordf(board, trace.NewMeta(trace.PhasePlaceholder), "%s is not implemented yet.", algorithm)
	rec.Record(board, fmt.Sprintf("%s complete.", algorithm), trace.NewMeta(trace.PhaseComplete))
}
