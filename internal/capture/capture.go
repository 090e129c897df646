// Package capture provides still-frame sources for enrollment. A source
// holds the frame it produced until Retake returns it to the ready state,
// mirroring a camera preview that shows the taken shot until it is retaken.
package capture

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/kozaktomas/face-enroll/internal/orientation"
)

var (
	// ErrNotReady is returned when a frame is captured before the previous
	// one was retaken.
	ErrNotReady = errors.New("capture source is holding a frame, retake first")
	// ErrNoFrame is returned when the source produced no image data.
	ErrNoFrame = errors.New("no frame available")
)

// Frame is one encoded still image. It is opaque to this module.
type Frame struct {
	Data        []byte
	ContentType string
	Orientation orientation.Orientation
	CapturedAt  time.Time
}

// Source produces still frames on demand.
type Source interface {
	// CaptureNow produces one frame for the given pose.
	CaptureNow(ctx context.Context, o orientation.Orientation) (*Frame, error)
	// Retake discards the held frame and makes the source ready again.
	Retake()
}

// latch tracks whether a source is ready or holding a frame.
type latch struct {
	mu   sync.Mutex
	held bool
}

func (l *latch) acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return ErrNotReady
	}
	l.held = true
	return nil
}

func (l *latch) release() {
	l.mu.Lock()
	l.held = false
	l.mu.Unlock()
}

// Retake implements Source.
func (l *latch) Retake() {
	l.release()
}

// Ready reports whether the source can capture.
func (l *latch) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.held
}

func newFrame(data []byte, contentType string, o orientation.Orientation) (*Frame, error) {
	if len(data) == 0 {
		return nil, ErrNoFrame
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Frame{
		Data:        data,
		ContentType: contentType,
		Orientation: o,
		CapturedAt:  time.Now(),
	}, nil
}

// Static always returns the same image. Useful for demos and tests.
type Static struct {
	latch
	Data        []byte
	ContentType string
}

// NewStatic creates a static source.
func NewStatic(data []byte, contentType string) *Static {
	return &Static{Data: data, ContentType: contentType}
}

// CaptureNow implements Source.
func (s *Static) CaptureNow(ctx context.Context, o orientation.Orientation) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	f, err := newFrame(s.Data, s.ContentType, o)
	if err != nil {
		s.release()
		return nil, err
	}
	return f, nil
}
