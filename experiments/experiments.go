// Package experiments sweeps search hyperparameters over many seeded runs and
// stores the metrics of every run.
package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"gametrace/engine"
	"gametrace/report"
)

const NumRuns = 30 // Per config

// Names lists the experiments Run accepts.
var Names = []string{"iterations", "cutoff"}

// Run executes the named experiment and writes its CSV files under baseDir.
// It returns the directory written to.
func Run(name, baseDir string) (string, error) {
	switch name {
	case "iterations":
		return RunIterationsExperiment(baseDir, NumRuns)
	case "cutoff":
		return RunCutoffExperiment(baseDir, NumRuns)
	}
	return "", fmt.Errorf("unknown experiment %q", name)
}

// RunIterationsExperiment shows how the recommended move settles as the MCTS
// budget grows on the 3x3 board.
func RunIterationsExperiment(baseDir string, runs int) (string, error) {
	configs := []report.ConfigRecord{}
	for i, iterations := range []int{10, 50, 200, 1000} {
		cfg := engine.DefaultConfig(engine.MCTS, 3)
		cfg.Iterations = iterations
		configs = append(configs, report.ConfigRecord{ID: i + 1, Config: cfg})
	}
	return runExperiment("iterations", baseDir, configs, runs)
}

// RunCutoffExperiment compares rollout depth caps on the 4x4 board, where
// full playouts are long enough for the cap to matter.
func RunCutoffExperiment(baseDir string, runs int) (string, error) {
	configs := []report.ConfigRecord{}
	for i, cutoff := range []int{2, 5, 10, 16} {
		cfg := engine.DefaultConfig(engine.MCTS, 4)
		cfg.Iterations = 200
		cfg.Cutoff = cutoff
		configs = append(configs, report.ConfigRecord{ID: i + 1, Config: cfg})
	}
	return runExperiment("cutoff", baseDir, configs, runs)
}

func runExperiment(name, baseDir string, configs []report.ConfigRecord, runs int) (string, error) {
	records := []report.SearchRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting config %d of %d: %+v", ci+1, len(configs), config.Config)

		for i := 0; i < runs; i++ {
			cfg := config.Config
			cfg.Seed = uint64(i + 1)
			cfg.Metrics = true

			result, err := engine.Run(cfg)
			if err != nil {
				return "", fmt.Errorf("config %d run %d: %w", config.ID, i+1, err)
			}
			records = append(records, report.SearchRecord{
				Run:          result.Log.ID(),
				Config:       config.ID,
				Steps:        result.Log.Len(),
				Value:        result.Value,
				BestMove:     result.BestMove,
				SearchMetric: result.Metric,
			})
		}
		log.Info().Msgf("completed config %d of %d", ci+1, len(configs))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := report.NewWriter(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteConfigs(configs)
	if err != nil {
		return "", fmt.Errorf("failed to store configs: %w", err)
	}
	log.Info().Msg("stored configs")

	err = writer.WriteSearchRecords(records)
	if err != nil {
		return "", fmt.Errorf("failed to store search records: %w", err)
	}
	log.Info().Msg("stored search records")

	return writer.Dir(), nil
}
