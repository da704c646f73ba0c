package notifier

import "time"

// Timer is a pending one-shot deferred action. Stop prevents the action from
// firing if it has not fired yet; it reports whether the call stopped the
// timer. Stopping an already-stopped or already-fired timer is safe.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred actions. The notifier uses it for exactly one
// thing: the deferred-activation delay. Tests substitute a manual clock to
// drive the state machine deterministically.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// systemClock is the default Clock backed by the runtime timer wheel.
type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock returns the real-time Clock used when Options.Clock is nil.
func SystemClock() Clock {
	return systemClock{}
}
