package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/face-enroll/internal/config"
	"github.com/kozaktomas/face-enroll/internal/enroll"
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/kozaktomas/face-enroll/internal/subject"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <name>",
	Short: "Run the guided five-pose capture sequence",
	Long: `Run the guided capture sequence for one subject.

Each orientation (front, left, right, top, bottom) is announced, counted
down and captured, then uploaded to the enrollment service before the next
one starts. The sequence stops at the first failed upload; captures already
uploaded are kept by the service. Press Ctrl+C to stop.`,
	Example: `  face-enroll enroll "Alice" --dir ./poses
  face-enroll enroll "Alice" --command "fswebcam --no-banner -" --ticks 5`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
	addSequenceFlags(enrollCmd)
}

func newStepBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(orientation.Count(),
		progressbar.OptionSetDescription("Starting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("poses"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func runEnroll(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	warnLookalikes(ctx, sess, args[0])

	state, err := sess.orch.Start(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to start enrollment: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	fmt.Printf("Enrolling %s (session %s)\n", state.Subject, state.SessionID)
	bar := newStepBar()
	poll := time.NewTicker(snapshotPoll)
	defer poll.Stop()

	for {
		select {
		case <-sigChan:
			if _, err := sess.orch.Stop(ctx); err != nil {
				return err
			}
			fmt.Println()
			return errors.New("enrollment stopped")

		case n, ok := <-updates:
			if !ok {
				return enroll.ErrClosed
			}
			switch n.Type {
			case enroll.NotifyPrompt:
				bar.Describe(n.Message)
			case enroll.NotifyTick:
				if remaining, ok := n.Data.(int); ok && remaining > 0 {
					bar.Describe(fmt.Sprintf("%s ... %d", state.Instruction, remaining))
				}
			case enroll.NotifyOutcome:
				if r, ok := n.Data.(enroll.StepResult); ok && r.OK {
					_ = bar.Add(1)
				}
			case enroll.NotifyState:
				if s, ok := n.Data.(enroll.State); ok {
					state = s
				}
			}

		case <-poll.C:
			state = sess.orch.Snapshot()
		}

		switch state.Phase {
		case enroll.PhaseCompleted:
			_ = bar.Finish()
			fmt.Printf("\nEnrollment of %s complete: %d/%d poses registered\n", state.Subject, state.Cursor, state.Total())
			return nil
		case enroll.PhaseAborted:
			fmt.Println()
			return fmt.Errorf("enrollment aborted at %s after %d/%d poses: %s",
				state.Orientation, state.Cursor, state.Total(), state.LastReason)
		}
	}
}

// warnLookalikes points out enrolled names that differ from name only in
// case, accents or punctuation. Listing errors are ignored here; the upload
// reports service problems.
func warnLookalikes(ctx context.Context, sess *session, name string) {
	faces, err := sess.client.ListFaces(ctx)
	if err != nil {
		return
	}
	for _, other := range subject.Lookalikes(faces, name) {
		fmt.Printf("Warning: %q is already enrolled; %q will be stored as a separate subject\n", other, name)
	}
}
