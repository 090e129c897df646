// Package enroll implements the guided capture sequence. The sequence is a
// state machine: Machine.Reduce maps (State, Event) to a new State and the
// Effects to run, and Orchestrator owns the state and runs the effects on a
// single goroutine.
package enroll

import (
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/kozaktomas/face-enroll/internal/submit"
)

// Phase is the tag of the sequence state.
type Phase string

// Sequence phases.
const (
	PhaseIdle         Phase = "idle"
	PhaseAnnouncing   Phase = "announcing"
	PhaseCountingDown Phase = "counting_down"
	PhaseSubmitting   Phase = "submitting"
	PhaseCompleted    Phase = "completed"
	PhaseAborted      Phase = "aborted"
)

// ManualCapture describes a single user-triggered capture in flight.
type ManualCapture struct {
	Subject     string                  `json:"subject"`
	Orientation orientation.Orientation `json:"orientation"`
	token       uint64
}

// State is an immutable snapshot of the sequence. Transitions return new
// values; nothing holds a pointer into a State.
type State struct {
	Phase     Phase  `json:"phase"`
	SessionID string `json:"session_id,omitempty"`
	Subject   string `json:"subject,omitempty"`

	// Cursor counts the steps submitted successfully in this session.
	Cursor int `json:"cursor"`

	// Orientation and Remaining describe the current step.
	Orientation orientation.Orientation `json:"orientation,omitempty"`
	Instruction string                  `json:"instruction,omitempty"`
	Remaining   int                     `json:"remaining,omitempty"`

	// LastReason is the most recent failure reason. It survives Stop and is
	// cleared by the next Start.
	LastReason string         `json:"last_reason,omitempty"`
	LastFailed submit.Kind    `json:"last_failed,omitempty"`
	Manual     *ManualCapture `json:"manual,omitempty"`

	gen       uint64
	manualGen uint64
}

// Running reports whether an automatic sequence owns the capture source.
func (s State) Running() bool {
	switch s.Phase {
	case PhaseAnnouncing, PhaseCountingDown, PhaseSubmitting:
		return true
	}
	return false
}

// Total is the number of steps of a full sequence.
func (s State) Total() int {
	return orientation.Count()
}

// ManualInFlight reports whether a manual capture is being submitted.
func (s State) ManualInFlight() bool {
	return s.Manual != nil
}

// Token identifies the current step. Events carrying another token are stale.
func (s State) Token() uint64 {
	return s.gen
}

func (s State) withManual(m *ManualCapture) State {
	if m != nil {
		c := *m
		m = &c
	}
	s.Manual = m
	return s
}
