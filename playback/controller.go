// Package playback walks a frozen step log forward and backward, or plays it
// automatically on a timer.
package playback

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gametrace/meta"
	"gametrace/trace"
)

type Mode int

const (
	Idle     Mode = iota // No log loaded
	Playing              // Timer armed, cursor advancing
	Paused               // Timer inactive, cursor fixed
	Complete             // Cursor on the last record, timer inactive
)

func (m Mode) String() string {
	switch m {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Complete:
		return "complete"
	default:
		return "idle"
	}
}

// State is a snapshot of the controller handed to observers.
type State struct {
	RunID    uuid.UUID
	Mode     Mode
	Cursor   int // Meaningless while Idle
	Len      int
	Progress int
	Interval time.Duration
	Record   *trace.StepRecord // nil while Idle
}

type Option func(c *Controller)

func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithObserver registers f to be called after every state change. f runs
// outside the controller's lock and may call back into the controller.
func WithObserver(f func(State)) Option {
	return func(c *Controller) {
		c.observer = f
	}
}

func WithInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// Controller is the playback state machine. It never modifies the records
// of the log it plays; it only moves the cursor.
type Controller struct {
	mu       sync.Mutex
	clock    Clock
	observer func(State)
	log      *trace.Log
	cursor   int
	mode     Mode
	interval time.Duration
	timer    Timer
	epoch    uint64 // Bumped on every cancellation; stale ticks compare unequal
}

func NewController(options ...Option) *Controller {
	c := &Controller{
		clock:    RealClock(),
		interval: meta.SPEED_MS * time.Millisecond,
		mode:     Idle,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// LoadLog replaces any previous log. A non-empty log starts playing from the
// first record; an empty one leaves the controller Idle.
func (c *Controller) LoadLog(l *trace.Log) {
	c.update(func() bool {
		c.cancelLocked()
		c.cursor = 0
		if l.Len() == 0 {
			c.log = nil
			c.mode = Idle
			return true
		}
		c.log = l
		c.mode = Playing
		c.armLocked()
		log.Debug().Str("run", l.ID().String()).Int("steps", l.Len()).Msg("playback-loaded")
		return true
	})
}

func (c *Controller) Pause() {
	c.update(func() bool {
		if c.mode != Playing {
			return false
		}
		c.cancelLocked()
		c.mode = Paused
		return true
	})
}

// Resume restarts autoplay from a paused cursor, or completes when the cursor
// already sits on the last record.
func (c *Controller) Resume() {
	c.update(func() bool {
		if c.mode != Paused {
			return false
		}
		if c.cursor < c.lastLocked() {
			c.mode = Playing
			c.armLocked()
			return true
		}
		c.mode = Complete
		return true
	})
}

// StepForward moves one record ahead, clamped to the last record. Stepping
// while playing stops autoplay first.
func (c *Controller) StepForward() {
	c.step(1)
}

// StepBackward moves one record back, clamped to the first record.
func (c *Controller) StepBackward() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	c.update(func() bool {
		if c.mode == Idle {
			return false
		}
		c.cancelLocked()

		c.cursor += delta
		if c.cursor < 0 {
			c.cursor = 0
		}
		if last := c.lastLocked(); c.cursor >= last {
			c.cursor = last
			c.mode = Complete
			return true
		}
		c.mode = Paused
		return true
	})
}

// Reset discards the log.
func (c *Controller) Reset() {
	c.update(func() bool {
		c.cancelLocked()
		c.log = nil
		c.cursor = 0
		c.mode = Idle
		return true
	})
}

// SetSpeed sets the autoplay interval for future ticks. A pending tick keeps
// its original deadline.
func (c *Controller) SetSpeed(ms int) {
	if ms <= 0 {
		return
	}
	c.update(func() bool {
		c.interval = time.Duration(ms) * time.Millisecond
		return true
	})
}

// Tick advances autoplay by one step, as the timer would. It reports whether
// the controller was playing.
func (c *Controller) Tick() bool {
	playing := false
	c.update(func() bool {
		if c.mode != Playing {
			return false
		}
		playing = true
		c.cancelLocked()
		c.tickLocked()
		if c.mode == Playing {
			c.armLocked()
		}
		return true
	})
	return playing
}

func (c *Controller) fire(epoch uint64) {
	c.update(func() bool {
		if epoch != c.epoch || c.mode != Playing {
			return false // Cancelled after the timer was armed
		}
		c.timer = nil
		c.tickLocked()
		if c.mode == Playing {
			c.armLocked()
		}
		return true
	})
}

func (c *Controller) tickLocked() {
	if c.cursor < c.lastLocked() {
		c.cursor++
		return
	}
	c.mode = Complete
}

func (c *Controller) armLocked() {
	epoch := c.epoch
	c.timer = c.clock.AfterFunc(c.interval, func() { c.fire(epoch) })
}

func (c *Controller) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.epoch++
}

func (c *Controller) lastLocked() int {
	return c.log.Len() - 1
}

// update runs f under the lock, then notifies the observer if f reports a
// change.
func (c *Controller) update(f func() bool) {
	c.mu.Lock()
	changed := f()
	state := c.stateLocked()
	observer := c.observer
	c.mu.Unlock()

	if changed && observer != nil {
		observer(state)
	}
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Cursor returns the current index; ok is false while Idle.
func (c *Controller) Cursor() (cursor int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == Idle {
		return 0, false
	}
	return c.cursor, true
}

// CurrentRecord returns a copy of the record under the cursor; ok is false
// while Idle.
func (c *Controller) CurrentRecord() (trace.StepRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == Idle {
		return trace.StepRecord{}, false
	}
	return c.log.At(c.cursor), true
}

// ProgressPercent is round(cursor/(len-1)*100), and 0 for logs of at most one
// record.
func (c *Controller) ProgressPercent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *Controller) progressLocked() int {
	if c.mode == Idle || c.log.Len() <= 1 {
		return 0
	}
	return int(math.Round(float64(c.cursor) / float64(c.lastLocked()) * 100))
}

func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// RunID identifies the loaded log, uuid.Nil while Idle.
func (c *Controller) RunID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.ID()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	s := State{
		RunID:    c.log.ID(),
		Mode:     c.mode,
		Len:      c.log.Len(),
		Progress: c.progressLocked(),
		Interval: c.interval,
	}
	if c.mode != Idle {
		rec := c.log.At(c.cursor)
		s.Cursor = c.cursor
		s.Record = &rec
	}
	return s
}
