package enroll

import (
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/kozaktomas/face-enroll/internal/submit"
)

// Event is an input of the state machine.
type Event interface {
	isEvent()
}

// StartEvent begins a sequence for Subject.
type StartEvent struct {
	Subject   string
	SessionID string
}

// StopEvent returns the machine to idle.
type StopEvent struct{}

// AnnouncedEvent reports that the prompt of the current step was dispatched.
type AnnouncedEvent struct {
	Token uint64
}

// TickEvent is one countdown tick; Remaining == 0 is the zero-reached event.
type TickEvent struct {
	Token     uint64
	Remaining int
}

// SubmittedEvent carries the outcome of an automatic step.
type SubmittedEvent struct {
	Token   uint64
	Outcome submit.Outcome
}

// CaptureOneEvent requests a single manual capture.
type CaptureOneEvent struct {
	Subject     string
	Orientation orientation.Orientation
}

// ManualSubmittedEvent carries the outcome of a manual capture.
type ManualSubmittedEvent struct {
	Token   uint64
	Outcome submit.Outcome
}

func (StartEvent) isEvent()           {}
func (StopEvent) isEvent()            {}
func (AnnouncedEvent) isEvent()       {}
func (TickEvent) isEvent()            {}
func (SubmittedEvent) isEvent()       {}
func (CaptureOneEvent) isEvent()      {}
func (ManualSubmittedEvent) isEvent() {}

// Effect is an action the runtime performs after a transition.
type Effect interface {
	isEffect()
}

// Announce dispatches a prompt. A non-zero Token asks the runtime to feed
// back an AnnouncedEvent.
type Announce struct {
	Token       uint64
	Orientation orientation.Orientation
	Text        string
}

// BeginCountdown starts the countdown of the current step, cancelling any
// previous one.
type BeginCountdown struct {
	Token uint64
	Ticks int
}

// CancelCountdown cancels the live countdown.
type CancelCountdown struct{}

// Silence cancels a prompt still being spoken.
type Silence struct{}

// AbandonSubmission cancels the automatic capture or upload in flight.
// Manual captures are not affected.
type AbandonSubmission struct{}

// CaptureAndSubmit captures a frame and submits it. The result comes back
// as SubmittedEvent, or ManualSubmittedEvent when Manual is set.
type CaptureAndSubmit struct {
	Token       uint64
	Subject     string
	Orientation orientation.Orientation
	Manual      bool
}

// SequenceEnded reports how an automatic sequence finished.
type SequenceEnded struct {
	Result string // completed, aborted or stopped
}

func (Announce) isEffect()          {}
func (BeginCountdown) isEffect()    {}
func (CancelCountdown) isEffect()   {}
func (Silence) isEffect()           {}
func (AbandonSubmission) isEffect() {}
func (CaptureAndSubmit) isEffect()  {}
func (SequenceEnded) isEffect()     {}
