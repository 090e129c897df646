// Package countdown implements a cancellable single-step countdown. A
// countdown delivers one Event per interval, with Remaining counting down to
// zero; the Remaining == 0 event is the zero-reached event and is always the
// last one.
package countdown

import (
	"sync"
	"time"
)

// DefaultInterval is the time between two ticks.
const DefaultInterval = time.Second

// Event is a single countdown notification.
type Event struct {
	Remaining int
}

// Zero reports whether this is the zero-reached event.
func (e Event) Zero() bool {
	return e.Remaining == 0
}

// Countdown is the handle of one running countdown.
type Countdown struct {
	events chan Event
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// C returns the channel on which tick and zero-reached events are delivered.
// The channel is unbuffered and never closed.
func (c *Countdown) C() <-chan Event {
	return c.events
}

// Cancel stops the countdown. When Cancel returns no further event can be
// received from C, even if a tick was due at the same moment.
func (c *Countdown) Cancel() {
	c.once.Do(func() { close(c.stop) })
	<-c.done
}

// Done is closed once the countdown goroutine has exited, either after the
// zero-reached event was delivered or after Cancel.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

func (c *Countdown) run(ticks int, interval time.Duration) {
	defer close(c.done)

	if ticks <= 0 {
		c.send(Event{Remaining: 0})
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for remaining := ticks - 1; remaining >= 0; remaining-- {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
		}
		if !c.send(Event{Remaining: remaining}) {
			return
		}
	}
}

func (c *Countdown) send(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.stop:
		return false
	}
}

// Timer owns at most one active countdown at a time.
type Timer struct {
	interval time.Duration

	mu      sync.Mutex
	current *Countdown
}

// NewTimer creates a timer ticking once per interval. A non-positive
// interval falls back to DefaultInterval.
func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{interval: interval}
}

// Interval returns the tick interval.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Begin starts a countdown of the given number of ticks. Any countdown
// started earlier by this timer is cancelled first.
func (t *Timer) Begin(ticks int) *Countdown {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Cancel()
	}

	c := &Countdown{
		events: make(chan Event),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	t.current = c
	go c.run(ticks, t.interval)
	return c
}

// Cancel cancels the active countdown, if any. Safe to call repeatedly.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Cancel()
		t.current = nil
	}
}
