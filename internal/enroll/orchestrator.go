package enroll

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-enroll/internal/capture"
	"github.com/kozaktomas/face-enroll/internal/constants"
	"github.com/kozaktomas/face-enroll/internal/countdown"
	"github.com/kozaktomas/face-enroll/internal/log"
	"github.com/kozaktomas/face-enroll/internal/metrics"
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/kozaktomas/face-enroll/internal/submit"
	"github.com/rs/zerolog"
)

// StepSubmitter sends one frame to the enrollment service.
type StepSubmitter interface {
	Submit(ctx context.Context, subject string, o orientation.Orientation, frame *capture.Frame) submit.Outcome
}

// Prompter announces instructions without blocking.
type Prompter interface {
	Announce(text string)
	Silence()
}

type command struct {
	ev    Event
	reply chan reply
}

type reply struct {
	state State
	err   error
}

// Orchestrator runs the capture sequence. All state transitions happen on
// the goroutine executing Run; the exported methods post commands to it.
type Orchestrator struct {
	machine   Machine
	source    capture.Source
	submitter StepSubmitter
	prompter  Prompter
	timer     *countdown.Timer
	logger    zerolog.Logger
	events    broadcaster
	newID     func() string

	cmds    chan command
	results chan Event
	started chan struct{}
	done    chan struct{}
	runOnce sync.Once

	snapMu   sync.RWMutex
	snapshot State

	// Owned by the Run goroutine.
	state          State
	countdown      *countdown.Countdown
	countdownToken uint64
	lastWorker     chan struct{}
	abandon        context.CancelFunc
	workers        sync.WaitGroup
	workerCtx      context.Context
}

// New creates an orchestrator. ticks is the countdown length of each step;
// timer paces the ticks.
func New(ticks int, timer *countdown.Timer, source capture.Source, submitter StepSubmitter, prompter Prompter) *Orchestrator {
	if ticks < 0 {
		ticks = constants.DefaultCountdownTicks
	}
	if timer == nil {
		timer = countdown.NewTimer(constants.DefaultTickInterval)
	}
	initial := State{Phase: PhaseIdle}
	return &Orchestrator{
		machine:   Machine{Ticks: ticks},
		source:    source,
		submitter: submitter,
		prompter:  prompter,
		timer:     timer,
		logger:    log.WithComponent("enroll"),
		newID:     uuid.NewString,
		cmds:      make(chan command),
		results:   make(chan Event),
		started:   make(chan struct{}),
		done:      make(chan struct{}),
		snapshot:  initial,
		state:     initial,
	}
}

// Run processes commands, countdown ticks and submission results until ctx
// is cancelled. On return no countdown is live and no submission is in
// flight. Run may be called only once.
func (o *Orchestrator) Run(ctx context.Context) error {
	first := false
	o.runOnce.Do(func() { first = true })
	if !first {
		return fmt.Errorf("enroll: Run called twice")
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	o.workerCtx = workerCtx
	close(o.started)

	defer func() {
		o.timer.Cancel()
		o.countdown = nil
		o.prompter.Silence()
		cancelWorkers()
		o.workers.Wait()
		close(o.done)
		o.events.close()
	}()

	for {
		var ticks <-chan countdown.Event
		if o.countdown != nil {
			ticks = o.countdown.C()
		}

		select {
		case <-ctx.Done():
			o.logger.Debug().Msg("orchestrator shutting down")
			return nil
		case cmd := <-o.cmds:
			err := o.apply(cmd.ev)
			cmd.reply <- reply{state: o.state, err: err}
		case ev := <-ticks:
			if ev.Zero() {
				o.countdown = nil
			}
			o.publish(Notification{Type: NotifyTick, Data: ev.Remaining})
			_ = o.apply(TickEvent{Token: o.countdownToken, Remaining: ev.Remaining})
		case ev := <-o.results:
			_ = o.apply(ev)
		}
	}
}

// Done is closed after Run has returned.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

func (o *Orchestrator) send(ctx context.Context, ev Event) (State, error) {
	cmd := command{ev: ev, reply: make(chan reply, 1)}
	select {
	case o.cmds <- cmd:
	case <-o.done:
		return o.Snapshot(), ErrClosed
	case <-ctx.Done():
		return o.Snapshot(), ctx.Err()
	}
	r := <-cmd.reply
	return r.state, r.err
}

// Start begins the automatic sequence for subject.
func (o *Orchestrator) Start(ctx context.Context, subject string) (State, error) {
	return o.send(ctx, StartEvent{Subject: subject, SessionID: o.newID()})
}

// Stop cancels the sequence and returns to idle. It always succeeds while
// the orchestrator is running.
func (o *Orchestrator) Stop(ctx context.Context) (State, error) {
	return o.send(ctx, StopEvent{})
}

// CaptureOne submits a single manual capture for o. It does not move the
// sequence cursor.
func (o *Orchestrator) CaptureOne(ctx context.Context, subject string, or orientation.Orientation) (State, error) {
	return o.send(ctx, CaptureOneEvent{Subject: subject, Orientation: or})
}

// Snapshot returns the latest state.
func (o *Orchestrator) Snapshot() State {
	o.snapMu.RLock()
	defer o.snapMu.RUnlock()
	return o.snapshot
}

// Subscribe returns a channel of notifications and a function that
// unsubscribes. The channel is closed on unsubscribe or shutdown.
func (o *Orchestrator) Subscribe() (<-chan Notification, func()) {
	ch := o.events.add()
	return ch, func() { o.events.remove(ch) }
}

func (o *Orchestrator) publish(n Notification) {
	o.events.send(n)
}

// apply runs ev and every event its effects feed back through the machine.
// Only the error of ev itself is returned.
func (o *Orchestrator) apply(ev Event) error {
	queue := []Event{ev}
	for i := 0; len(queue) > 0; i++ {
		e := queue[0]
		queue = queue[1:]

		next, effects, err := o.machine.Reduce(o.state, e)
		if err != nil {
			if i == 0 {
				return err
			}
			continue
		}
		o.observe(e)
		o.setState(next)

		for _, eff := range effects {
			if follow := o.run(eff); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
	return nil
}

func (o *Orchestrator) observe(e Event) {
	switch ev := e.(type) {
	case SubmittedEvent:
		o.publishOutcome(ev.Token == o.state.gen && o.state.Phase == PhaseSubmitting, false, o.state.Orientation, ev.Outcome)
	case ManualSubmittedEvent:
		var or orientation.Orientation
		current := o.state.Manual != nil && o.state.Manual.token == ev.Token
		if current {
			or = o.state.Manual.Orientation
		}
		o.publishOutcome(current, true, or, ev.Outcome)
	}
}

func (o *Orchestrator) publishOutcome(current, manual bool, or orientation.Orientation, out submit.Outcome) {
	if !current {
		o.logger.Debug().Bool("manual", manual).Msg("discarding stale submission result")
		return
	}
	msg := fmt.Sprintf("%s face registered", or.Label())
	if !out.OK() {
		msg = fmt.Sprintf("Failed %s: %s", or, out.Reason)
	}
	o.publish(Notification{Type: NotifyOutcome, Message: msg, Data: StepResult{
		Orientation: string(or),
		Manual:      manual,
		OK:          out.OK(),
		Kind:        string(out.Kind),
		Reason:      out.Reason,
	}})
}

func (o *Orchestrator) setState(next State) {
	prev := o.state
	o.state = next

	o.snapMu.Lock()
	o.snapshot = next
	o.snapMu.Unlock()

	if prev.Running() != next.Running() {
		metrics.SetRunning(next.Running())
	}
	if prev.Phase != next.Phase || prev.Orientation != next.Orientation || prev.Remaining != next.Remaining ||
		prev.ManualInFlight() != next.ManualInFlight() || prev.SessionID != next.SessionID {
		o.logger.Debug().
			Str("phase", string(next.Phase)).
			Str("orientation", string(next.Orientation)).
			Int("cursor", next.Cursor).
			Msg("state changed")
		o.publish(Notification{Type: NotifyState, Message: string(next.Phase), Data: next})
	}
}

// run executes one effect and returns the event it feeds back, if any.
func (o *Orchestrator) run(eff Effect) Event {
	switch e := eff.(type) {
	case Announce:
		o.prompter.Announce(e.Text)
		o.publish(Notification{Type: NotifyPrompt, Message: e.Text, Data: string(e.Orientation)})
		if e.Token != 0 {
			return AnnouncedEvent{Token: e.Token}
		}
	case BeginCountdown:
		o.countdown = o.timer.Begin(e.Ticks)
		o.countdownToken = e.Token
	case CancelCountdown:
		o.timer.Cancel()
		o.countdown = nil
	case Silence:
		o.prompter.Silence()
	case AbandonSubmission:
		if o.abandon != nil {
			o.abandon()
			o.abandon = nil
		}
	case CaptureAndSubmit:
		o.spawn(e)
	case SequenceEnded:
		metrics.RecordSequence(e.Result)
		ev := o.logger.Info()
		if e.Result == "aborted" {
			ev = o.logger.Warn().Str("reason", o.state.LastReason)
		}
		ev.Str("session", o.state.SessionID).
			Str("result", e.Result).
			Int("steps", o.state.Cursor).
			Msg("capture sequence ended")
	}
	return nil
}

// spawn runs capture and submission on a worker goroutine. Workers are
// chained so that a new capture never starts before the previous worker
// has released the capture source, even across sessions. An automatic
// worker can be abandoned by Stop; a manual one only ends with Run.
func (o *Orchestrator) spawn(e CaptureAndSubmit) {
	prev := o.lastWorker
	done := make(chan struct{})
	o.lastWorker = done

	ctx, cancel := context.WithCancel(o.workerCtx)
	if !e.Manual {
		o.abandon = cancel
	}

	o.workers.Add(1)
	go func() {
		defer o.workers.Done()
		defer close(done)
		defer cancel()

		if prev != nil {
			select {
			case <-prev:
			case <-ctx.Done():
				return
			}
		}

		out := o.captureAndSubmit(ctx, e)

		var ev Event = SubmittedEvent{Token: e.Token, Outcome: out}
		if e.Manual {
			ev = ManualSubmittedEvent{Token: e.Token, Outcome: out}
		}
		select {
		case o.results <- ev:
		case <-o.workerCtx.Done():
		}
	}()
}

func (o *Orchestrator) captureAndSubmit(ctx context.Context, e CaptureAndSubmit) (out submit.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = submit.Failure(submit.KindInternal, fmt.Sprintf("capture panicked: %v", r))
		}
	}()

	frame, err := o.source.CaptureNow(ctx, e.Orientation)
	if err != nil {
		return submit.Failure(submit.KindCapture, err.Error())
	}
	// The frame is consumed by exactly one submission and then dropped.
	defer o.source.Retake()

	return o.submitter.Submit(ctx, e.Subject, e.Orientation, frame)
}
