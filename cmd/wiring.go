package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kozaktomas/face-enroll/internal/capture"
	"github.com/kozaktomas/face-enroll/internal/config"
	"github.com/kozaktomas/face-enroll/internal/countdown"
	"github.com/kozaktomas/face-enroll/internal/enroll"
	"github.com/kozaktomas/face-enroll/internal/enrollapi"
	"github.com/kozaktomas/face-enroll/internal/prompt"
	"github.com/kozaktomas/face-enroll/internal/submit"
	"github.com/spf13/cobra"
)

// addSequenceFlags registers the flags shared by commands that capture.
func addSequenceFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "", "Read frames from <orientation>.jpg files in this directory (ENROLL_CAPTURE_DIR)")
	cmd.Flags().String("command", "", "Capture frames by running this command, image on stdout (ENROLL_CAPTURE_COMMAND)")
	cmd.Flags().String("image", "", "Submit the same image file for every orientation")
	cmd.Flags().Int("ticks", 0, "Countdown length per step (ENROLL_COUNTDOWN_TICKS, default 3)")
	cmd.Flags().Duration("interval", 0, "Time between countdown ticks (ENROLL_TICK_INTERVAL, default 1s)")
	cmd.Flags().Bool("no-speech", false, "Disable spoken prompts")
}

func newClient(cfg *config.Config) (*enrollapi.Client, error) {
	client, err := enrollapi.NewClient(cfg.Service.URL, cfg.Service.UploadTimeout, cfg.Service.RequestTimeout)
	if err != nil {
		return nil, err
	}

	dir := captureDir
	if dir == "" {
		dir = cfg.Service.CaptureDir
	}
	if dir != "" {
		if err := client.SetCaptureDir(dir); err != nil {
			return nil, fmt.Errorf("failed to set capture directory: %w", err)
		}
	}
	return client, nil
}

// newSource picks the capture source. Flags win over the environment; a
// static image wins over a directory, which wins over a command.
func newSource(cmd *cobra.Command, cfg *config.Config) (capture.Source, error) {
	if image := mustGetString(cmd, "image"); image != "" {
		data, err := os.ReadFile(image)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		return capture.NewStatic(data, ""), nil
	}

	dir := mustGetString(cmd, "dir")
	if dir == "" && !cmd.Flags().Changed("command") {
		dir = cfg.Capture.Dir
	}
	if dir != "" {
		return capture.NewDir(dir)
	}

	command := mustGetString(cmd, "command")
	if command == "" {
		command = cfg.Capture.Command
	}
	if command != "" {
		return capture.NewCommand(command)
	}

	return nil, errors.New("no capture source: use --dir, --command or --image, or set ENROLL_CAPTURE_DIR or ENROLL_CAPTURE_COMMAND")
}

// session bundles everything a capturing command needs.
type session struct {
	client     *enrollapi.Client
	dispatcher *prompt.Dispatcher
	orch       *enroll.Orchestrator
}

func newSession(cmd *cobra.Command, cfg *config.Config) (*session, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	source, err := newSource(cmd, cfg)
	if err != nil {
		return nil, err
	}

	ticks := cfg.Sequence.Ticks
	if cmd.Flags().Changed("ticks") {
		ticks = mustGetInt(cmd, "ticks")
	}
	interval := cfg.Sequence.TickInterval
	if d := mustGetDuration(cmd, "interval"); d > 0 {
		interval = d
	}

	speechEnabled := cfg.Speech.Enabled && !mustGetBool(cmd, "no-speech")
	dispatcher := prompt.NewDispatcher(prompt.NewSpeaker(speechEnabled, cfg.Speech.Command))

	orch := enroll.New(ticks, countdown.NewTimer(interval), source,
		submit.New(client, cfg.Service.UploadTimeout), dispatcher)

	return &session{client: client, dispatcher: dispatcher, orch: orch}, nil
}

func (s *session) Close() {
	s.dispatcher.Close()
}

// snapshotPoll is how often commands re-read the state in case a
// notification was dropped.
const snapshotPoll = 250 * time.Millisecond
