package engine

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"gametrace/meta"
	"gametrace/searcher"
)

var validate = validator.New()

// Config describes one search run. Seed 0 seeds MCTS from the clock.
type Config struct {
	Algorithm   Algorithm `validate:"required"`
	BoardSize   int       `validate:"min=1"`
	DepthLimit  int       `validate:"min=0"`
	Iterations  int       `validate:"min=1"`
	Cutoff      int       `validate:"min=1"`
	Exploration float64   `validate:"min=0"`
	Seed        uint64
	Metrics     bool
}

// DefaultConfig returns the stock hyperparameters for algorithm on a
// boardSize x boardSize board.
func DefaultConfig(algorithm Algorithm, boardSize int) Config {
	return Config{
		Algorithm:   algorithm,
		BoardSize:   boardSize,
		DepthLimit:  meta.DEPTH_LIMIT,
		Iterations:  meta.ITERATIONS,
		Cutoff:      meta.WITH_CUTOFF,
		Exploration: searcher.Exploration,
	}
}

// Validate checks the algorithm name first, then the numeric fields. Board
// size failures wrap ErrInvalidBoardSize, everything else ErrInvalidConfig.
func (c Config) Validate() error {
	if _, err := ParseAlgorithm(string(c.Algorithm)); err != nil {
		return err
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	sentinel := ErrInvalidConfig
	var details strings.Builder
	for _, err := range errs {
		if err.Field() == "BoardSize" {
			sentinel = ErrInvalidBoardSize
		}
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch err.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", err.Field()))
		case "min":
			if err.Type().Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
			}
		case "max":
			details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", sentinel, details.String())
}
