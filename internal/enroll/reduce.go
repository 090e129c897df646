package enroll

import (
	"strings"

	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/kozaktomas/face-enroll/internal/prompt"
)

// Machine holds the fixed parameters of the state machine.
type Machine struct {
	// Ticks is the countdown length of each automatic step.
	Ticks int
}

// Reduce applies ev to s. It is pure: the returned State is a new value and
// all side effects are described by the returned Effects. A non-nil error
// means the event was rejected and s is returned unchanged.
func (m Machine) Reduce(s State, ev Event) (State, []Effect, error) {
	switch e := ev.(type) {
	case StartEvent:
		return m.start(s, e)
	case StopEvent:
		return m.stop(s)
	case AnnouncedEvent:
		return m.announced(s, e)
	case TickEvent:
		return m.tick(s, e)
	case SubmittedEvent:
		return m.submitted(s, e)
	case CaptureOneEvent:
		return m.captureOne(s, e)
	case ManualSubmittedEvent:
		return m.manualSubmitted(s, e)
	}
	return s, nil, nil
}

func (m Machine) start(s State, e StartEvent) (State, []Effect, error) {
	subject := strings.TrimSpace(e.Subject)
	if subject == "" {
		return s, nil, &ValidationError{Field: "subject", Message: "please enter a name to start"}
	}
	if s.Running() {
		return s, nil, ErrSequenceRunning
	}
	if s.ManualInFlight() {
		return s, nil, ErrManualInFlight
	}

	first, _ := orientation.At(0)
	next := State{
		Phase:       PhaseAnnouncing,
		SessionID:   e.SessionID,
		Subject:     subject,
		Orientation: first,
		Instruction: first.Instruction(),
		gen:         s.gen + 1,
		manualGen:   s.manualGen,
	}
	return next, []Effect{m.announce(next)}, nil
}

func (m Machine) announce(s State) Effect {
	return Announce{
		Token:       s.gen,
		Orientation: s.Orientation,
		Text:        prompt.Text(s.Orientation, m.Ticks),
	}
}

func (m Machine) stop(s State) (State, []Effect, error) {
	next := State{
		Phase:      PhaseIdle,
		LastReason: s.LastReason,
		LastFailed: s.LastFailed,
		gen:        s.gen + 1,
		manualGen:  s.manualGen,
	}.withManual(s.Manual)

	effects := []Effect{CancelCountdown{}, Silence{}}
	if s.Phase == PhaseSubmitting {
		effects = append(effects, AbandonSubmission{})
	}
	if s.Running() {
		effects = append(effects, SequenceEnded{Result: "stopped"})
	}
	return next, effects, nil
}

func (m Machine) announced(s State, e AnnouncedEvent) (State, []Effect, error) {
	if s.Phase != PhaseAnnouncing || e.Token != s.gen {
		return s, nil, nil
	}
	s.Phase = PhaseCountingDown
	s.Remaining = m.Ticks
	return s, []Effect{BeginCountdown{Token: s.gen, Ticks: m.Ticks}}, nil
}

func (m Machine) tick(s State, e TickEvent) (State, []Effect, error) {
	if s.Phase != PhaseCountingDown || e.Token != s.gen {
		return s, nil, nil
	}
	if e.Remaining > 0 {
		s.Remaining = e.Remaining
		return s, nil, nil
	}
	s.Phase = PhaseSubmitting
	s.Remaining = 0
	return s, []Effect{CaptureAndSubmit{
		Token:       s.gen,
		Subject:     s.Subject,
		Orientation: s.Orientation,
	}}, nil
}

func (m Machine) submitted(s State, e SubmittedEvent) (State, []Effect, error) {
	if s.Phase != PhaseSubmitting || e.Token != s.gen {
		return s, nil, nil
	}

	if !e.Outcome.OK() {
		s.Phase = PhaseAborted
		s.Remaining = 0
		s.LastReason = e.Outcome.Reason
		s.LastFailed = e.Outcome.Kind
		return s, []Effect{SequenceEnded{Result: "aborted"}}, nil
	}

	s.Cursor++
	next, ok := orientation.At(s.Cursor)
	if !ok {
		s.Phase = PhaseCompleted
		s.Orientation = ""
		s.Instruction = ""
		return s, []Effect{SequenceEnded{Result: "completed"}}, nil
	}

	s.gen++
	s.Phase = PhaseAnnouncing
	s.Orientation = next
	s.Instruction = next.Instruction()
	return s, []Effect{m.announce(s)}, nil
}

func (m Machine) captureOne(s State, e CaptureOneEvent) (State, []Effect, error) {
	subject := strings.TrimSpace(e.Subject)
	if subject == "" {
		return s, nil, &ValidationError{Field: "subject", Message: "please enter a name first"}
	}
	if !e.Orientation.Valid() {
		return s, nil, &ValidationError{Field: "orientation", Message: "unknown orientation " + string(e.Orientation)}
	}
	if s.Running() {
		return s, nil, ErrSequenceRunning
	}
	if s.ManualInFlight() {
		return s, nil, ErrManualInFlight
	}

	s.manualGen++
	s = s.withManual(&ManualCapture{Subject: subject, Orientation: e.Orientation, token: s.manualGen})
	return s, []Effect{
		Announce{Orientation: e.Orientation, Text: prompt.Text(e.Orientation, 0)},
		CaptureAndSubmit{Token: s.manualGen, Subject: subject, Orientation: e.Orientation, Manual: true},
	}, nil
}

func (m Machine) manualSubmitted(s State, e ManualSubmittedEvent) (State, []Effect, error) {
	if s.Manual == nil || s.Manual.token != e.Token {
		return s, nil, nil
	}
	s = s.withManual(nil)
	if e.Outcome.OK() {
		return s, nil, nil
	}
	s.LastReason = e.Outcome.Reason
	s.LastFailed = e.Outcome.Kind
	return s, nil, nil
}
