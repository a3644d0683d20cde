package report

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gametrace/engine"
	"gametrace/game"
	"gametrace/searcher"
	"gametrace/trace"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewWriter(t *testing.T) {
	t.Run("creating a timestamped directory", func(t *testing.T) {
		base := t.TempDir()

		w, err := NewWriter(base)
		require.NoError(t, err)

		require.Equal(t, base, filepath.Dir(w.Dir()))
		info, err := os.Stat(w.Dir())
		require.NoError(t, err)
		require.True(t, info.IsDir())
	})

	t.Run("failing when the base is a file", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(base, nil, 0644))

		_, err := NewWriter(base)
		require.Error(t, err)
	})
}

func TestWriteSteps(t *testing.T) {
	t.Run("writing one row per record", func(t *testing.T) {
		rec := trace.NewRecorder()
		board := game.NewBoard(3)
		rec.Record(board, "Minimax: MAX to move, depth limit 0", trace.NewMeta(trace.PhaseStart))
		try := trace.NewMeta(trace.PhaseTry)
		try.Move = 4
		rec.Record(board.Play(4, game.Max), "Depth 0: MAX tries cell 4", try)
		rec.Record(board, "plain", nil)
		l := rec.Freeze()

		w, err := NewWriter(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, w.WriteSteps(l))

		rows := readCSV(t, filepath.Join(w.Dir(), "steps.csv"))
		require.Len(t, rows, 4)
		require.Equal(t, "run", rows[0][0])
		require.Equal(t, []string{
			l.ID().String(), "1", "try", "Depth 0: MAX tries cell 4", "0 0 0 0 1 0 0 0 0",
			"4", "0", "0", "0", "0", "0.0000", "0.0000", "0.0000", "",
		}, rows[2])
		require.Equal(t, "", rows[3][2], "Records without statistics leave them blank")
		require.Equal(t, "", rows[3][5])
	})
}

func TestWriteSearchRecords(t *testing.T) {
	t.Run("writing metrics next to the run", func(t *testing.T) {
		run := uuid.New()
		start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		records := []SearchRecord{{
			Run:      run,
			Steps:    120,
			BestMove: 4,
			SearchMetric: searcher.SearchMetric{
				Algorithm:      "mcts",
				StartTime:      start,
				Duration:       1500 * time.Microsecond,
				Iterations:     50,
				Nodes:          49,
				FullPlayouts:   50,
				CappedPlayouts: 0,
			},
		}}

		w, err := NewWriter(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, w.WriteSearchRecords(records))

		rows := readCSV(t, filepath.Join(w.Dir(), "search.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{
			run.String(), "0", "mcts", "120", "0", "4", "2024-05-01T12:00:00Z", "1.5ms", "50", "49", "0", "50", "0",
		}, rows[1])
	})
}

func TestWriteConfigs(t *testing.T) {
	t.Run("numbering each configuration", func(t *testing.T) {
		cfg := engine.DefaultConfig(engine.MCTS, 4)
		cfg.Cutoff = 5

		w, err := NewWriter(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, w.WriteConfigs([]ConfigRecord{{ID: 3, Config: cfg}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "configs.csv"))
		require.Equal(t, []string{"id", "algorithm", "board_size", "depth_limit", "iterations", "cutoff", "exploration"}, rows[0])
		require.Equal(t, []string{"3", "mcts", "4", "6", "50", "5", "1.4142"}, rows[1])
	})
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestFlush(t *testing.T) {
	t.Run("surfacing buffered write failures", func(t *testing.T) {
		writer := csv.NewWriter(failingWriter{})
		require.NoError(t, writer.Write([]string{"a", "b"}), "Rows are buffered until the flush")

		err := flush(writer, "steps")
		require.ErrorIs(t, err, errDiskFull)
		require.Contains(t, err.Error(), "failed to flush steps file")
	})

	t.Run("reporting a full device from every export", func(t *testing.T) {
		if _, err := os.Stat("/dev/full"); err != nil {
			t.Skip("needs /dev/full")
		}
		w, err := NewWriter(t.TempDir())
		require.NoError(t, err)
		for _, name := range []string{"steps.csv", "search.csv", "configs.csv"} {
			require.NoError(t, os.Symlink("/dev/full", filepath.Join(w.Dir(), name)))
		}

		rec := trace.NewRecorder()
		rec.Record(game.NewBoard(3), "start", nil)
		require.ErrorIs(t, w.WriteSteps(rec.Freeze()), syscall.ENOSPC)
		require.ErrorIs(t, w.WriteSearchRecords([]SearchRecord{{Run: uuid.New()}}), syscall.ENOSPC)
		require.ErrorIs(t, w.WriteConfigs([]ConfigRecord{{ID: 1, Config: engine.DefaultConfig(engine.MCTS, 3)}}), syscall.ENOSPC)
	})
}
