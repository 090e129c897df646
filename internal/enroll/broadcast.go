package enroll

import (
	"sync"

	"github.com/kozaktomas/face-enroll/internal/constants"
)

// Notification types.
const (
	NotifyState   = "state"
	NotifyPrompt  = "prompt"
	NotifyTick    = "tick"
	NotifyOutcome = "outcome"
)

// Notification is published to subscribers on every change.
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// StepResult is the Data of an outcome notification.
type StepResult struct {
	Orientation string `json:"orientation"`
	Manual      bool   `json:"manual"`
	OK          bool   `json:"ok"`
	Kind        string `json:"kind,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// broadcaster fans notifications out to listeners. Slow listeners miss
// notifications rather than block the sequence.
type broadcaster struct {
	mu        sync.RWMutex
	listeners []chan Notification
	closed    bool
}

func (b *broadcaster) add() chan Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Notification, constants.EventChannelBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.listeners = append(b.listeners, ch)
	return ch
}

func (b *broadcaster) remove(ch chan Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

func (b *broadcaster) send(n Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- n:
		default:
			// Listener buffer full, skip.
		}
	}
}

// close closes every listener channel; later subscribers get a closed channel.
func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, listener := range b.listeners {
		close(listener)
	}
	b.listeners = nil
	b.closed = true
}
