package visit

import (
	"sync"
)

// event is the internal union delivered through the bus queue.
type event struct {
	start    *StartPayload
	progress *ProgressPayload
	finish   *FinishPayload
}

// Bus is an ordered, single-consumer dispatcher for visit lifecycle events.
// Publish methods enqueue; a single worker goroutine delivers events to every
// subscriber in publish order, one at a time. This gives subscribers the
// run-to-completion guarantee the Subscriber contract promises without any
// locking on their side.
type Bus struct {
	mu     sync.Mutex // guards ch sends and closed
	subsMu sync.Mutex
	subs   []Subscriber
	ch     chan event
	done   chan struct{}
	closed bool
}

const defaultBusBuffer = 64

// NewBus creates a Bus and starts its delivery goroutine.
func NewBus(subs ...Subscriber) *Bus {
	b := &Bus{
		subs: append([]Subscriber(nil), subs...),
		ch:   make(chan event, defaultBusBuffer),
		done: make(chan struct{}),
	}
	go b.deliver()
	return b
}

// Subscribe registers an additional subscriber. Events published after
// Subscribe returns are delivered to it; in-flight events may be missed.
func (b *Bus) Subscribe(s Subscriber) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	b.subs = append(b.subs, s)
}

// deliver must never touch b.mu: publish blocks on a full queue while
// holding it, and only this goroutine can make room.
func (b *Bus) deliver() {
	defer close(b.done)
	for ev := range b.ch {
		b.subsMu.Lock()
		subs := append([]Subscriber(nil), b.subs...)
		b.subsMu.Unlock()

		for _, s := range subs {
			switch {
			case ev.start != nil:
				s.HandleStart(*ev.start)
			case ev.progress != nil:
				s.HandleProgress(*ev.progress)
			case ev.finish != nil:
				s.HandleFinish(*ev.finish)
			}
		}
	}
}

// PublishStart enqueues a start notification.
func (b *Bus) PublishStart(p StartPayload) {
	b.publish(event{start: &p})
}

// PublishProgress enqueues a progress notification.
func (b *Bus) PublishProgress(p ProgressPayload) {
	b.publish(event{progress: &p})
}

// PublishFinish enqueues a finish notification.
func (b *Bus) PublishFinish(p FinishPayload) {
	b.publish(event{finish: &p})
}

// publish blocks when the queue is full rather than dropping: lifecycle
// ordering is the whole contract, and a dropped finish would strand the
// indicator on screen. The send happens under the mutex so Close can never
// close the channel out from under an in-flight publish.
func (b *Bus) publish(ev event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.ch <- ev
}

// Close stops accepting events, drains the queue, and waits for the delivery
// goroutine to exit. Safe to call once; publishes after Close are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.ch)
	<-b.done
}
