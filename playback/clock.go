package playback

import "time"

// Timer is a pending tick that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules the controller's ticks. The controller never arms more
// than one timer at a time.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock schedules ticks on the runtime timer.
func RealClock() Clock {
	return realClock{}
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
