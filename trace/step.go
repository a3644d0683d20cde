// Package trace records the execution of a search as an ordered, append-only
// sequence of immutable board snapshots.
package trace

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"gametrace/game"
)

// Phase tags what part of an algorithm produced a record.
type Phase string

const (
	PhaseStart       Phase = "start"
	PhaseTry         Phase = "try"
	PhaseLeaf        Phase = "leaf"
	PhaseBacktrack   Phase = "backtrack"
	PhaseSelection   Phase = "selection"
	PhaseExpansion   Phase = "expansion"
	PhaseSimulation  Phase = "simulation"
	PhaseBackprop    Phase = "backpropagation"
	PhaseComplete    Phase = "complete"
	PhasePlaceholder Phase = "placeholder"
)

// NoMove marks an absent cell index in Meta.
const NoMove = -1

// Meta carries the optional statistics of a record. Move and BestMove are
// NoMove when not applicable.
type Meta struct {
	Phase     Phase
	Move      int
	Depth     int
	Value     int
	Iteration int
	N         int
	W         float64
	Q         float64
	Reward    float64
	BestMove  int
}

// NewMeta returns statistics for phase with no move attached.
func NewMeta(phase Phase) *Meta {
	return &Meta{Phase: phase, Move: NoMove, BestMove: NoMove}
}

// StepRecord is one frame of a trace. Its board never aliases live search
// state.
type StepRecord struct {
	Board   game.Board
	Message string
	Meta    *Meta
}

func (r StepRecord) String() string {
	if r.Meta == nil {
		return r.Message
	}
	return fmt.Sprintf("[%s] %s", r.Meta.Phase, r.Message)
}

func (r StepRecord) clone() StepRecord {
	out := StepRecord{Board: r.Board.Copy(), Message: r.Message}
	if r.Meta != nil {
		m := *r.Meta
		out.Meta = &m
	}
	return out
}

// Log is the frozen output of exactly one search run.
type Log struct {
	id      uuid.UUID
	records []StepRecord
}

// NewLog builds a frozen log from records, copying them. It is mostly useful
// to hand-made logs in tests and tools.
func NewLog(records ...StepRecord) *Log {
	r := NewRecorder()
	for _, rec := range records {
		r.records = append(r.records, rec.clone())
	}
	return r.Freeze()
}

// ID identifies the run that produced the log.
func (l *Log) ID() uuid.UUID {
	if l == nil {
		return uuid.Nil
	}
	return l.id
}

// Len returns the number of records; a nil log is empty.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// At returns a copy of the record at index i.
func (l *Log) At(i int) StepRecord {
	return l.records[i].clone()
}

// Last returns a copy of the final record.
func (l *Log) Last() (StepRecord, bool) {
	if l.Len() == 0 {
		return StepRecord{}, false
	}
	return l.At(l.Len() - 1), true
}

// Records returns a deep copy of every record in order.
func (l *Log) Records() []StepRecord {
	out := make([]StepRecord, l.Len())
	for i := range out {
		out[i] = l.At(i)
	}
	return out
}

// Messages returns the message of every record in order.
func (l *Log) Messages() []string {
	out := make([]string, l.Len())
	for i := range out {
		out[i] = l.records[i].Message
	}
	return out
}

// Equal reports whether two logs hold the same records, ignoring run ids.
func (l *Log) Equal(other *Log) bool {
	if l.Len() != other.Len() {
		return false
	}
	for i := 0; i < l.Len(); i++ {
		a, b := l.records[i], other.records[i]
		if a.Message != b.Message || !slices.Equal(a.Board, b.Board) {
			return false
		}
		if (a.Meta == nil) != (b.Meta == nil) || (a.Meta != nil && *a.Meta != *b.Meta) {
			return false
		}
	}
	return true
}
