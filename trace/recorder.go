package trace

import (
	"fmt"

	"github.com/google/uuid"

	"gametrace/game"
)

// Recorder appends step records for a single run. It is not safe for
// concurrent use; a search owns its recorder until it calls Freeze.
type Recorder struct {
	id      uuid.UUID
	records []StepRecord
	frozen  bool
}

// NewRecorder starts an empty log for a new run.
func NewRecorder() *Recorder {
	return &Recorder{id: uuid.New()}
}

// Record appends one record. The board and meta are copied at call time, so
// later in-place changes to the caller's working board never reach the log.
func (r *Recorder) Record(board game.Board, message string, meta *Meta) {
	if r.frozen {
		panic("cannot record into a frozen log")
	}
	rec := StepRecord{Board: board.Copy(), Message: message}
	if meta != nil {
		m := *meta
		rec.Meta = &m
	}
	r.records = append(r.records, rec)
}

// Recordf appends a record with a formatted message.
func (r *Recorder) Recordf(board game.Board, meta *Meta, format string, args ...any) {
	r.Record(board, fmt.Sprintf(format, args...), meta)
}

// Len returns the number of records appended so far.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Freeze ends the run and hands the records over as a read-only Log. The
// recorder panics on any further Record call.
func (r *Recorder) Freeze() *Log {
	r.frozen = true
	return &Log{id: r.id, records: r.records}
}
