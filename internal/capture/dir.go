package capture

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/kozaktomas/face-enroll/internal/orientation"
)

// extensions are tried in order when looking up a pose file.
var extensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Dir reads prerecorded frames named after their pose (front.jpg,
// left.png, ...) from a directory.
type Dir struct {
	latch
	root string
}

// NewDir creates a directory source. The directory must exist.
func NewDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("capture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("capture directory: %s is not a directory", root)
	}
	return &Dir{root: root}, nil
}

// CaptureNow implements Source.
func (d *Dir) CaptureNow(ctx context.Context, o orientation.Orientation) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.acquire(); err != nil {
		return nil, err
	}

	f, err := d.read(o)
	if err != nil {
		d.release()
		return nil, err
	}
	return f, nil
}

func (d *Dir) read(o orientation.Orientation) (*Frame, error) {
	for _, ext := range extensions {
		path := filepath.Join(d.root, string(o)+ext)
		data, err := os.ReadFile(path) //nolint:gosec // path built from a validated orientation
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not read frame %s: %w", path, err)
		}
		return newFrame(data, mime.TypeByExtension(ext), o)
	}
	return nil, fmt.Errorf("%w: no %s frame in %s", ErrNoFrame, o, d.root)
}
