// Package notifier translates visit lifecycle notifications into calls
// against an external progress indicator widget.
//
// The notifier owns the indicator exclusively. A start notification arms a
// deferred-activation timer so the indicator only appears for visits slow
// enough to be worth showing; progress notifications advance the bar while a
// request body uploads; the finish notification clears the timer and settles
// the indicator according to how the visit ended.
package notifier

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/schmitthub/transit/pkg/visit"
)

// Indicator is the contract the external progress widget must satisfy.
// The notifier is the only caller; implementations need no internal locking
// beyond what their own rendering requires.
type Indicator interface {
	// Activate begins showing the indicator at position 0.
	Activate()
	// SetPosition moves the indicator to a fraction in [0, 1].
	SetPosition(fraction float64)
	// IsActive reports whether the indicator is currently started.
	IsActive() bool
	// CompleteAndHide drives the indicator through its normal completion
	// animation to 100% and then hides it.
	CompleteAndHide()
	// RemoveImmediately takes the indicator off the display with no
	// animation.
	RemoveImmediately()
}

// DefaultDelay is how long a visit must stay in flight before the indicator
// appears. Fast visits finish inside the window and never flash a bar.
const DefaultDelay = 250 * time.Millisecond

// maxDisplayedFraction caps upload progress at 90% of the bar, visually
// reserving the final stretch for awaiting the terminal response.
const maxDisplayedFraction = 0.9

// Options configures a Notifier. The zero value is usable: DefaultDelay, the
// system clock, and no logging.
type Options struct {
	// Delay is the deferred-activation duration. Zero means DefaultDelay;
	// negative is treated as zero delay (activate on the next tick).
	Delay time.Duration

	// Clock schedules the deferred activation. Nil means the system clock.
	Clock Clock

	// Logger receives debug-level transition logs. The zero Logger discards.
	Logger zerolog.Logger
}

// Notifier is a visit-progress state machine: Idle until a start arrives,
// Delaying while the activation timer is pending, Active once the indicator
// is showing, and back to Idle after every finish.
//
// Handlers are mutex-serialized with the timer callback, so a Notifier is
// safe to drive from a visit.Bus or directly from tests.
type Notifier struct {
	mu        sync.Mutex
	indicator Indicator
	delay     time.Duration
	clock     Clock
	log       zerolog.Logger

	// timer is the pending deferred activation, nil when none is armed.
	timer Timer
	// gen invalidates stale timer callbacks: cancelTimer bumps it, and a
	// callback that already slipped past Stop sees the mismatch and bails.
	gen uint64
}

// New creates a Notifier driving the given indicator.
func New(indicator Indicator, opts Options) *Notifier {
	delay := opts.Delay
	if delay == 0 {
		delay = DefaultDelay
	}
	if delay < 0 {
		delay = 0
	}
	clk := opts.Clock
	if clk == nil {
		clk = SystemClock()
	}
	return &Notifier{
		indicator: indicator,
		delay:     delay,
		clock:     clk,
		log:       opts.Logger,
	}
}

var _ visit.Subscriber = (*Notifier)(nil)

// HandleStart arms the deferred-activation timer. A start arriving while a
// prior visit is still tracked cancels the stale timer first, so two
// deferred activations can never race.
func (n *Notifier) HandleStart(visit.StartPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.cancelTimer()

	gen := n.gen
	n.timer = n.clock.AfterFunc(n.delay, func() {
		n.activate(gen)
	})
	n.log.Debug().Dur("delay", n.delay).Msg("visit started, activation deferred")
}

// activate is the deferred action. It re-checks the generation under the
// mutex: a timer whose Stop lost the race still must not touch the
// indicator after its visit ended.
func (n *Notifier) activate(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen {
		return
	}
	n.timer = nil
	n.indicator.Activate()
	n.log.Debug().Msg("activation delay elapsed, indicator shown")
}

// HandleProgress advances the indicator while a request body uploads.
// Ignored when the indicator has not started (Idle or still Delaying) or
// when the event carries no percentage.
func (n *Notifier) HandleProgress(p visit.ProgressPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.indicator.IsActive() || p.Percentage == nil {
		return
	}
	fraction := *p.Percentage / 100 * maxDisplayedFraction
	n.indicator.SetPosition(fraction)
}

// HandleFinish clears the pending activation unconditionally, then settles
// the indicator based on the visit outcome. A finish with no prior start, or
// one arriving before the delay elapsed, is a no-op beyond the timer clear.
func (n *Notifier) HandleFinish(p visit.FinishPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.cancelTimer()

	if !n.indicator.IsActive() {
		return
	}

	switch p.Outcome {
	case visit.OutcomeInterrupted:
		// A newer visit is already underway: park the bar at 0 and leave it
		// visible so the successor's Delaying phase resumes smoothly.
		n.indicator.SetPosition(0)
	case visit.OutcomeCancelled:
		n.indicator.CompleteAndHide()
		n.indicator.RemoveImmediately()
	case visit.OutcomeCompleted:
		n.indicator.CompleteAndHide()
	default:
		n.indicator.CompleteAndHide()
	}
	n.log.Debug().Stringer("outcome", p.Outcome).Msg("visit finished")
}

// SetDelay changes the deferred-activation duration for subsequent visits.
// The currently pending timer, if any, keeps its original delay.
func (n *Notifier) SetDelay(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if d < 0 {
		d = 0
	}
	n.delay = d
}

// Reset cancels any pending deferred activation without touching the
// indicator. Idempotent.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelTimer()
}

// cancelTimer stops and forgets the pending activation timer. Safe to call
// when no timer is armed. Caller holds n.mu.
func (n *Notifier) cancelTimer() {
	n.gen++
	if n.timer == nil {
		return
	}
	n.timer.Stop()
	n.timer = nil
}
