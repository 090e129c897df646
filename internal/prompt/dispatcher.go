// Package prompt announces the current pose instruction to the subject.
// Announcements are fire-and-forget: speech runs in the background and a new
// announcement cancels the one still playing.
package prompt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kozaktomas/face-enroll/internal/log"
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/rs/zerolog"
)

// Text builds the announcement for o. With a positive countdown the subject
// is also told when the capture happens.
func Text(o orientation.Orientation, countdown int) string {
	if countdown <= 0 {
		return o.Instruction()
	}
	unit := "seconds"
	if countdown == 1 {
		unit = "second"
	}
	return fmt.Sprintf("%s. Capturing in %d %s.", o.Instruction(), countdown, unit)
}

// Dispatcher serialises announcements onto a Speaker.
type Dispatcher struct {
	speaker Speaker
	logger  zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A nil speaker is replaced by Noop.
func NewDispatcher(s Speaker) *Dispatcher {
	if s == nil {
		s = Noop{}
	}
	return &Dispatcher{
		speaker: s,
		logger:  log.WithComponent("prompt"),
	}
}

// Announce speaks text in the background and returns immediately. Any
// announcement still in progress is cancelled.
func (d *Dispatcher) Announce(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		if err := d.speaker.Speak(ctx, text); err != nil && ctx.Err() == nil {
			d.logger.Debug().Err(err).Msg("speech unavailable, prompt is visual only")
		}
	}()
}

// Silence cancels the announcement in progress, if any.
func (d *Dispatcher) Silence() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Close cancels any running announcement and waits for it to finish.
// Announce is a no-op afterwards.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()
	d.wg.Wait()
}
