package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gametrace/engine"
	"gametrace/meta"
	"gametrace/playback"
)

// manualClock never fires; tests drive the controller by hand.
type manualClock struct{}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func (manualClock) AfterFunc(time.Duration, func()) playback.Timer { return manualTimer{} }

func newTestConsole() (*console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cfg := engine.DefaultConfig(engine.MCTS, 3)
	cfg.Seed = 7
	cfg.Iterations = 10
	return newConsole(out, cfg, playback.WithClock(manualClock{})), out
}

func TestConsoleRun(t *testing.T) {
	t.Run("running loads the trace into the controller", func(t *testing.T) {
		c, out := newTestConsole()

		require.False(t, c.execute("run mcts"))

		require.Len(t, c.results, 1)
		require.Equal(t, playback.Playing, c.controller.Mode())
		require.Equal(t, c.results[0].Log.ID(), c.controller.RunID())
		require.Contains(t, out.String(), "mcts recorded")
	})

	t.Run("running a placeholder on a custom size", func(t *testing.T) {
		c, _ := newTestConsole()

		c.execute("run expectimax 5")

		require.Equal(t, 2, c.results[0].Log.Len())
		require.Len(t, c.results[0].Log.At(0).Board, 25)
	})

	t.Run("reporting unknown algorithms", func(t *testing.T) {
		c, out := newTestConsole()

		c.execute("run negamax")

		require.Empty(t, c.results)
		require.Contains(t, out.String(), "Error: invalid algorithm")
		require.Equal(t, playback.Idle, c.controller.Mode())
	})

	t.Run("reporting bad sizes", func(t *testing.T) {
		c, out := newTestConsole()

		c.execute("run mcts three")
		c.execute("run mcts 0")

		require.Empty(t, c.results)
		require.Contains(t, out.String(), "invalid board size")
	})
}

func TestConsolePlayback(t *testing.T) {
	t.Run("stepping and pausing", func(t *testing.T) {
		c, out := newTestConsole()
		c.execute("run mcts")

		c.execute("next")
		cursor, _ := c.controller.Cursor()
		require.Equal(t, 1, cursor)
		require.Equal(t, playback.Paused, c.controller.Mode())

		c.execute("prev")
		cursor, _ = c.controller.Cursor()
		require.Equal(t, 0, cursor)

		c.execute("resume")
		require.Equal(t, playback.Playing, c.controller.Mode())
		c.execute("pause")
		require.Equal(t, playback.Paused, c.controller.Mode())
		require.Contains(t, out.String(), "(paused, step 1/")
	})

	t.Run("replaying the latest trace", func(t *testing.T) {
		c, _ := newTestConsole()
		require.False(t, c.execute("play"))

		c.execute("run mcts")
		c.execute("next")
		c.execute("next")
		c.execute("play")

		cursor, _ := c.controller.Cursor()
		require.Equal(t, 0, cursor)
		require.Equal(t, playback.Playing, c.controller.Mode())
	})

	t.Run("clamping speed", func(t *testing.T) {
		c, out := newTestConsole()

		c.execute("speed 5")
		require.Equal(t, meta.MIN_SPEED_MS*time.Millisecond, c.controller.Interval())
		c.execute("speed 99999")
		require.Equal(t, meta.MAX_SPEED_MS*time.Millisecond, c.controller.Interval())
		c.execute("speed 250")
		require.Equal(t, 250*time.Millisecond, c.controller.Interval())

		c.execute("speed fast")
		require.Contains(t, out.String(), `invalid speed "fast"`)
	})

	t.Run("resetting and showing", func(t *testing.T) {
		c, out := newTestConsole()
		c.execute("run mcts")

		c.execute("reset")
		out.Reset()
		c.execute("show")

		require.Equal(t, playback.Idle, c.controller.Mode())
		require.Equal(t, "(idle)\n", out.String())
	})
}

func TestConsoleCommands(t *testing.T) {
	t.Run("quitting", func(t *testing.T) {
		c, _ := newTestConsole()

		require.True(t, c.execute("quit"))
		require.True(t, c.execute("x"))
	})

	t.Run("ignoring blank lines", func(t *testing.T) {
		c, out := newTestConsole()

		require.False(t, c.execute("   "))
		require.Empty(t, out.String())
	})

	t.Run("reporting unknown commands", func(t *testing.T) {
		c, out := newTestConsole()

		c.execute("fly")

		require.Contains(t, out.String(), "Unknown command: fly")
	})

	t.Run("listing commands", func(t *testing.T) {
		c, out := newTestConsole()

		c.execute("help")

		for _, name := range []string{"run", "play", "pause", "resume", "next", "prev", "speed", "reset", "show", "save", "help", "quit"} {
			require.Contains(t, out.String(), name)
		}
	})

	t.Run("describing one command", func(t *testing.T) {
		c, out := newTestConsole()

		c.execute("help n")

		require.Contains(t, out.String(), "next - Step forward one record\nUsage: next")
	})

	t.Run("saving the session", func(t *testing.T) {
		c, out := newTestConsole()
		base := t.TempDir()

		c.execute("save " + base)
		require.Contains(t, out.String(), "nothing to save")

		c.execute("run mcts")
		c.execute("run alphaBetaPruning")
		c.execute("save " + base)

		dirs, err := os.ReadDir(base)
		require.NoError(t, err)
		require.Len(t, dirs, 1)
		for _, name := range []string{"steps.csv", "search.csv"} {
			_, err := os.Stat(filepath.Join(base, dirs[0].Name(), name))
			require.NoError(t, err)
		}
		require.Contains(t, out.String(), "Saved 2 run(s)")
	})
}

func TestClampSpeed(t *testing.T) {
	require.Equal(t, meta.MIN_SPEED_MS, clampSpeed(0))
	require.Equal(t, 700, clampSpeed(700))
	require.Equal(t, meta.MAX_SPEED_MS, clampSpeed(2000))
}
