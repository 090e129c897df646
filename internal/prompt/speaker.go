package prompt

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Speaker is the optional audio capability behind the dispatcher.
type Speaker interface {
	// Speak blocks until text was spoken or ctx is cancelled.
	Speak(ctx context.Context, text string) error
}

// ErrNoSpeaker is returned by a chain in which no speaker could be used.
var ErrNoSpeaker = errors.New("no speech output available")

// Noop discards every announcement. Used when speech is disabled or absent.
type Noop struct{}

// Speak implements Speaker.
func (Noop) Speak(context.Context, string) error { return nil }

// CommandSpeaker speaks by running an external text-to-speech program with
// the text as its last argument.
type CommandSpeaker struct {
	Path string
	Args []string
}

// Speak implements Speaker. Cancelling ctx kills the program.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	args := append(append([]string{}, s.Args...), text)
	cmd := exec.CommandContext(ctx, s.Path, args...) //nolint:gosec // program chosen by operator config
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", s.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Chain tries speakers in order; the first that succeeds wins.
type Chain struct {
	speakers []Speaker
}

// NewChain creates a chain of speakers.
func NewChain(speakers ...Speaker) *Chain {
	return &Chain{speakers: speakers}
}

// Speak implements Speaker.
func (c *Chain) Speak(ctx context.Context, text string) error {
	errs := []error{ErrNoSpeaker}
	for _, s := range c.speakers {
		err := s.Speak(ctx, text)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// candidates are probed in order when no speech command is configured.
var candidates = [][]string{
	{"espeak-ng"},
	{"espeak"},
	{"say"},
	{"spd-say", "--wait"},
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// NewSpeaker builds the speaker used by the dispatcher. When disabled, or
// when neither the configured command nor any known program is installed,
// it returns Noop so that callers fall back to visual-only prompts.
func NewSpeaker(enabled bool, command string) Speaker {
	if !enabled {
		return Noop{}
	}

	if fields := strings.Fields(command); len(fields) > 0 {
		if path, err := lookPath(fields[0]); err == nil {
			return NewChain(&CommandSpeaker{Path: path, Args: fields[1:]}, Noop{})
		}
		return Noop{}
	}

	var speakers []Speaker
	for _, c := range candidates {
		if path, err := lookPath(c[0]); err == nil {
			speakers = append(speakers, &CommandSpeaker{Path: path, Args: c[1:]})
		}
	}
	if len(speakers) == 0 {
		return Noop{}
	}
	return NewChain(append(speakers, Noop{})...)
}
