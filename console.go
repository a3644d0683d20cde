package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gametrace/engine"
	"gametrace/meta"
	"gametrace/playback"
	"gametrace/render"
	"gametrace/report"
	"gametrace/trace"
)

var errQuit = errors.New("quit")

type command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(args []string) error
}

// console drives one playback controller from typed commands. Output from
// commands and from autoplay ticks is serialized on out.
type console struct {
	mu         sync.Mutex
	out        io.Writer
	cfg        engine.Config
	controller *playback.Controller
	results    []engine.Result
	commands   map[string]*command
	names      []string
}

func newConsole(out io.Writer, cfg engine.Config, options ...playback.Option) *console {
	c := &console{
		out:      out,
		cfg:      cfg,
		commands: make(map[string]*command),
	}
	options = append(options, playback.WithObserver(c.onState))
	c.controller = playback.NewController(options...)

	c.register(&command{"run", "r", "Search from an empty board and play the trace", "run <algorithm> [size]", c.runHandler})
	c.register(&command{"play", "p", "Replay the latest trace from the start", "play", c.playHandler})
	c.register(&command{"pause", "", "Pause autoplay", "pause", c.simple(c.controller.Pause)})
	c.register(&command{"resume", "", "Resume autoplay", "resume", c.simple(c.controller.Resume)})
	c.register(&command{"next", "n", "Step forward one record", "next", c.simple(c.controller.StepForward)})
	c.register(&command{"prev", "b", "Step back one record", "prev", c.simple(c.controller.StepBackward)})
	c.register(&command{"speed", "s", "Set milliseconds per step", fmt.Sprintf("speed <%d-%d>", meta.MIN_SPEED_MS, meta.MAX_SPEED_MS), c.speedHandler})
	c.register(&command{"reset", "", "Discard the loaded trace", "reset", c.simple(c.controller.Reset)})
	c.register(&command{"show", "", "Show the current record", "show", c.showHandler})
	c.register(&command{"save", "", "Write the session's traces as CSV", "save <dir>", c.saveHandler})
	c.register(&command{"help", "?", "Show available commands", "help [command]", c.helpHandler})
	c.register(&command{"quit", "x", "Exit the console", "quit", func([]string) error { return errQuit }})
	return c
}

func (c *console) register(cmd *command) {
	c.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		c.commands[cmd.ShortName] = cmd
	}
	c.names = append(c.names, cmd.Name)
}

// execute runs one input line and reports whether the console should exit.
func (c *console) execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	cmd, exists := c.commands[parts[0]]
	if !exists {
		c.printf("Unknown command: %s\nType 'help' for available commands\n", parts[0])
		return false
	}

	err := cmd.Handler(parts[1:])
	if errors.Is(err, errQuit) {
		return true
	}
	if err != nil {
		c.printf("Error: %s\n", err)
	}
	return false
}

func (c *console) simple(f func()) func([]string) error {
	return func([]string) error {
		f()
		return nil
	}
}

func (c *console) runHandler(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: run <algorithm> [size]")
	}
	algorithm, err := engine.ParseAlgorithm(args[0])
	if err != nil {
		return err
	}

	cfg := c.cfg
	cfg.Algorithm = algorithm
	if len(args) == 2 {
		size, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q", engine.ErrInvalidBoardSize, args[1])
		}
		cfg.BoardSize = size
	}

	result, err := engine.Run(cfg)
	if err != nil {
		return err
	}
	c.results = append(c.results, result)
	c.printf("%s recorded %d steps (run %s)\n", algorithm, result.Log.Len(), result.Log.ID())
	c.controller.LoadLog(result.Log)
	return nil
}

func (c *console) playHandler([]string) error {
	if len(c.results) == 0 {
		return fmt.Errorf("nothing to play, use 'run' first")
	}
	c.controller.LoadLog(c.results[len(c.results)-1].Log)
	return nil
}

func (c *console) speedHandler(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: speed <ms>")
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid speed %q", args[0])
	}
	c.controller.SetSpeed(clampSpeed(ms))
	return nil
}

func (c *console) showHandler([]string) error {
	c.print(c.controller.State())
	return nil
}

func (c *console) saveHandler(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: save <dir>")
	}
	if len(c.results) == 0 {
		return fmt.Errorf("nothing to save, use 'run' first")
	}

	dir, err := save(args[0], c.results)
	if err != nil {
		return err
	}
	c.printf("Saved %d run(s) to %s\n", len(c.results), dir)
	return nil
}

func (c *console) helpHandler(args []string) error {
	if len(args) > 0 {
		cmd, exists := c.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		c.printf("%s - %s\nUsage: %s\n", cmd.Name, cmd.Description, cmd.Usage)
		return nil
	}

	names := append([]string(nil), c.names...)
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString("Available Commands:\n")
	for _, name := range names {
		cmd := c.commands[name]
		short := "   "
		if cmd.ShortName != "" {
			short = fmt.Sprintf("[%s]", cmd.ShortName)
		}
		sb.WriteString(fmt.Sprintf("  %s %-8s %s\n", short, cmd.Name, cmd.Description))
	}
	c.printf("%s", sb.String())
	return nil
}

func (c *console) onState(s playback.State) {
	c.print(s)
}

func (c *console) print(s playback.State) {
	if s.Record == nil {
		c.printf("(%s)\n", s.Mode)
		return
	}
	c.printf("%s\n(%s, step %d/%d, %d%%)\n", render.FromRecord(*s.Record), s.Mode, s.Cursor+1, s.Len, s.Progress)
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// clampSpeed bounds a requested interval to the range offered to users.
func clampSpeed(ms int) int {
	switch {
	case ms < meta.MIN_SPEED_MS:
		return meta.MIN_SPEED_MS
	case ms > meta.MAX_SPEED_MS:
		return meta.MAX_SPEED_MS
	}
	return ms
}

// save writes every run into one timestamped directory under baseDir.
func save(baseDir string, results []engine.Result) (string, error) {
	w, err := report.NewWriter(baseDir)
	if err != nil {
		return "", err
	}

	records := make([]report.SearchRecord, len(results))
	for i, r := range results {
		records[i] = report.SearchRecord{
			Run:          r.Log.ID(),
			Steps:        r.Log.Len(),
			Value:        r.Value,
			BestMove:     r.BestMove,
			SearchMetric: r.Metric,
		}
		if records[i].Algorithm == "" {
			records[i].Algorithm = r.Algorithm.String()
		}
	}
	if err := w.WriteSearchRecords(records); err != nil {
		return "", err
	}
	logs := make([]*trace.Log, len(results))
	for i, r := range results {
		logs[i] = r.Log
	}
	if err := w.WriteSteps(logs...); err != nil {
		return "", err
	}
	return w.Dir(), nil
}
