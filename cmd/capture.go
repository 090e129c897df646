package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-enroll/internal/config"
	"github.com/kozaktomas/face-enroll/internal/enroll"
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture <name> <orientation>",
	Short: "Capture and upload a single pose",
	Long: `Capture one frame for the given orientation and upload it immediately,
without a countdown. Useful to redo a single pose after a failed sequence.

Orientations: front, left, right, top, bottom.`,
	Example: `  face-enroll capture "Alice" right --dir ./poses`,
	Args:    cobra.ExactArgs(2),
	RunE:    runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	addSequenceFlags(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	o, err := orientation.Parse(args[1])
	if err != nil {
		return err
	}

	cfg := config.Load()
	sess, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	runCtx, cancelRun := context.WithCancel(context.Background())
	go func() { _ = sess.orch.Run(runCtx) }()
	defer func() {
		cancelRun()
		<-sess.orch.Done()
	}()

	updates, unsubscribe := sess.orch.Subscribe()
	defer unsubscribe()

	if _, err := sess.orch.CaptureOne(context.Background(), args[0], o); err != nil {
		return fmt.Errorf("failed to capture: %w", err)
	}

	poll := time.NewTicker(snapshotPoll)
	defer poll.Stop()

	for {
		select {
		case n, ok := <-updates:
			if !ok {
				return enroll.ErrClosed
			}
			if n.Type == enroll.NotifyPrompt {
				fmt.Println(n.Message)
			}
			if r, ok := n.Data.(enroll.StepResult); ok && n.Type == enroll.NotifyOutcome {
				if !r.OK {
					return fmt.Errorf("capture of %s failed: %s", o, r.Reason)
				}
				fmt.Printf("%s face registered for %s\n", o.Label(), args[0])
				return nil
			}
		case <-poll.C:
			if s := sess.orch.Snapshot(); !s.ManualInFlight() {
				if s.LastReason != "" {
					return fmt.Errorf("capture of %s failed: %s", o, s.LastReason)
				}
				fmt.Printf("%s face registered for %s\n", o.Label(), args[0])
				return nil
			}
		}
	}
}
