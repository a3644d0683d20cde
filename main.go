package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gametrace/engine"
	"gametrace/experiments"
	"gametrace/meta"
	"gametrace/playback"
	"gametrace/render"
	"gametrace/searcher"
	"gametrace/trace"
)

func main() {
	algorithm := flag.String("algorithm", string(engine.MCTS), "Search algorithm: minimax, mcts, alphaBetaPruning or expectimax")
	size := flag.Int("size", meta.BOARD_SIZE, "Board side length")
	depth := flag.Int("depth", meta.DEPTH_LIMIT, "Minimax depth limit")
	iterations := flag.Int("iterations", meta.ITERATIONS, "MCTS iteration budget")
	cutoff := flag.Int("cutoff", meta.WITH_CUTOFF, "MCTS rollout depth cap")
	exploration := flag.Float64("exploration", searcher.Exploration, "UCT exploration constant")
	seed := flag.Uint64("seed", 0, "MCTS seed, 0 seeds from the clock")
	speed := flag.Int("speed", meta.SPEED_MS, "Playback milliseconds per step")
	play := flag.Bool("play", false, "Animate the trace in the terminal")
	out := flag.String("out", "", "Directory to write steps.csv and search.csv into")
	interactive := flag.Bool("interactive", false, "Start the playback console")
	experiment := flag.String("experiment", "", "Run a seeded sweep instead: "+strings.Join(experiments.Names, " or "))
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *experiment != "" {
		base := *out
		if base == "" {
			base = filepath.Join("results", *experiment)
		}
		dir, err := experiments.Run(*experiment, base)
		if err != nil {
			log.Fatal().Err(err).Msg("experiment failed")
		}
		log.Info().Str("dir", dir).Msg("experiment written")
		return
	}

	a, err := engine.ParseAlgorithm(*algorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -algorithm")
	}
	cfg := engine.Config{
		Algorithm:   a,
		BoardSize:   *size,
		DepthLimit:  *depth,
		Iterations:  *iterations,
		Cutoff:      *cutoff,
		Exploration: *exploration,
		Seed:        *seed,
		Metrics:     true,
	}

	if *interactive {
		if err := runConsole(cfg, clampSpeed(*speed)); err != nil {
			log.Fatal().Err(err).Msg("console failed")
		}
		return
	}

	result, err := engine.Run(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}

	if *out != "" {
		dir, err := save(*out, []engine.Result{result})
		if err != nil {
			log.Fatal().Err(err).Msg("saving report failed")
		}
		log.Info().Str("dir", dir).Msg("report written")
	}

	if *play {
		animate(os.Stdout, result.Log, playback.WithInterval(time.Duration(clampSpeed(*speed))*time.Millisecond))
	}

	last, _ := result.Log.Last()
	fmt.Println(render.FromRecord(last))
	fmt.Printf("%s: %d steps, best move %d", result.Algorithm, result.Log.Len(), result.BestMove)
	if result.Algorithm == engine.Minimax {
		fmt.Printf(", value %d", result.Value)
	}
	fmt.Println()
}

// animate plays l to completion on out, printing each record once.
func animate(out io.Writer, l *trace.Log, options ...playback.Option) {
	if l.Len() == 0 {
		return
	}

	var mu sync.Mutex
	done := make(chan struct{})
	printed := -1
	options = append(options, playback.WithObserver(func(s playback.State) {
		if s.Record == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		// The tick past the last record only flips the mode to Complete.
		if s.Cursor != printed {
			printed = s.Cursor
			fmt.Fprintf(out, "\n%s\n(%d%%)\n", render.FromRecord(*s.Record), s.Progress)
		}
		if s.Mode == playback.Complete {
			close(done)
		}
	}))
	controller := playback.NewController(options...)
	controller.LoadLog(l)
	<-done
}

func runConsole(cfg engine.Config, ms int) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gametrace> ",
		HistoryFile:     ".gametrace_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	c := newConsole(rl.Stdout(), cfg, playback.WithInterval(time.Duration(ms)*time.Millisecond))
	c.printf("Search trace console\nType 'help' for commands\n\n")

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if c.execute(line) {
			break
		}
	}
	c.controller.Reset()
	return nil
}
