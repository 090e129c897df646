package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kozaktomas/face-enroll/internal/orientation"
)

// Command grabs a frame by running an external program that writes one
// encoded image to stdout, e.g. "fswebcam --no-banner -" or an ffmpeg
// single-frame grab.
type Command struct {
	latch
	path string
	args []string
}

// NewCommand parses a command line into a source.
func NewCommand(commandLine string) (*Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("capture command is empty")
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("capture command: %w", err)
	}
	return &Command{path: path, args: fields[1:]}, nil
}

// CaptureNow implements Source.
func (c *Command) CaptureNow(ctx context.Context, o orientation.Orientation) (*Frame, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path, c.args...) //nolint:gosec // program chosen by operator config
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		c.release()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("capture command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	f, err := newFrame(stdout.Bytes(), "", o)
	if err != nil {
		c.release()
		return nil, err
	}
	return f, nil
}
