// Package report exports finished runs as CSV files.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gametrace/engine"
	"gametrace/searcher"
	"gametrace/trace"
)

// ConfigRecord numbers a run configuration so search records can refer to
// it.
type ConfigRecord struct {
	ID int
	engine.Config
}

// SearchRecord summarises one run next to its search metrics. Config is the
// ConfigRecord.ID it ran with, 0 outside experiments.
type SearchRecord struct {
	Run      uuid.UUID
	Config   int
	Steps    int
	Value    int
	BestMove int
	searcher.SearchMetric
}

type Writer struct {
	dir string
}

// NewWriter creates a fresh subdirectory of baseDir named by the current UTC
// time and writes every file there.
func NewWriter(baseDir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05.000000000Z")
	dir := filepath.Join(baseDir, timestamp)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		dir: dir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.dir
}

// WriteSteps writes one row per record of every log to steps.csv. Empty
// statistics are left blank.
func (w *Writer) WriteSteps(logs ...*trace.Log) error {
	path := filepath.Join(w.dir, "steps.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create steps file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"run", "index", "phase", "message", "board", "move", "depth", "value", "iteration", "n", "w", "q", "reward", "best_move"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write steps header: %w", err)
	}

	for _, l := range logs {
		if err := writeSteps(writer, l); err != nil {
			return err
		}
	}

	return flush(writer, "steps")
}

func writeSteps(writer *csv.Writer, l *trace.Log) error {
	run := l.ID().String()
	for i, rec := range l.Records() {
		row := []string{run, strconv.Itoa(i), "", rec.Message, formatBoard(rec), "", "", "", "", "", "", "", "", ""}
		if m := rec.Meta; m != nil {
			copy(row[5:], []string{
				formatMove(m.Move),
				strconv.Itoa(m.Depth),
				strconv.Itoa(m.Value),
				strconv.Itoa(m.Iteration),
				strconv.Itoa(m.N),
				formatFloat(m.W),
				formatFloat(m.Q),
				formatFloat(m.Reward),
				formatMove(m.BestMove),
			})
			row[2] = string(m.Phase)
		}
		err := writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write step row: %w", err)
		}
	}
	return nil
}

func (w *Writer) WriteSearchRecords(records []SearchRecord) error {
	path := filepath.Join(w.dir, "search.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create search file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"run", "config", "algorithm", "steps", "value", "best_move", "start_time", "duration", "iterations", "nodes", "leaves", "full_playouts", "capped_playouts"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write search header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.Run.String(),
			strconv.Itoa(record.Config),
			record.Algorithm,
			strconv.Itoa(record.Steps),
			strconv.Itoa(record.Value),
			formatMove(record.BestMove),
			record.StartTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.FormatInt(record.Iterations, 10),
			strconv.FormatInt(record.Nodes, 10),
			strconv.FormatInt(record.Leaves, 10),
			strconv.FormatInt(record.FullPlayouts, 10),
			strconv.FormatInt(record.CappedPlayouts, 10),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write search row: %w", err)
		}
	}

	return flush(writer, "search")
}

func (w *Writer) WriteConfigs(configs []ConfigRecord) error {
	path := filepath.Join(w.dir, "configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"id", "algorithm", "board_size", "depth_limit", "iterations", "cutoff", "exploration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write configs header: %w", err)
	}

	for _, config := range configs {
		row := []string{
			strconv.Itoa(config.ID),
			config.Algorithm.String(),
			strconv.Itoa(config.BoardSize),
			strconv.Itoa(config.DepthLimit),
			strconv.Itoa(config.Iterations),
			strconv.Itoa(config.Cutoff),
			formatFloat(config.Exploration),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write config row: %w", err)
		}
	}

	return flush(writer, "configs")
}

// flush pushes buffered rows to the file. csv.Writer only reports write
// failures after a flush.
func flush(writer *csv.Writer, name string) error {
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s file: %w", name, err)
	}
	return nil
}

func formatBoard(rec trace.StepRecord) string {
	cells := make([]string, len(rec.Board))
	for i, c := range rec.Board {
		cells[i] = strconv.Itoa(int(c))
	}
	return strings.Join(cells, " ")
}

func formatMove(move int) string {
	if move == trace.NoMove {
		return ""
	}
	return strconv.Itoa(move)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
