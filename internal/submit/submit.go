// Package submit sends one captured frame to the enrollment service and
// reduces every possible failure to an Outcome value.
package submit

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kozaktomas/face-enroll/internal/capture"
	"github.com/kozaktomas/face-enroll/internal/constants"
	"github.com/kozaktomas/face-enroll/internal/enrollapi"
	"github.com/kozaktomas/face-enroll/internal/log"
	"github.com/kozaktomas/face-enroll/internal/metrics"
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/rs/zerolog"
)

// ErrEmptySubject is the validation failure for a missing subject name.
var ErrEmptySubject = errors.New("subject name is required")

// Kind classifies a failed step. The zero Kind means success.
type Kind string

// Failure kinds.
const (
	KindValidation Kind = "validation"
	KindCapture    Kind = "capture"
	KindTransport  Kind = "transport"
	KindTimeout    Kind = "timeout"
	KindService    Kind = "service"
	KindInternal   Kind = "internal"
)

// Outcome is the result of one submission attempt.
type Outcome struct {
	Kind   Kind   `json:"kind,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Success is the successful outcome.
func Success() Outcome {
	return Outcome{}
}

// Failure builds a failed outcome.
func Failure(kind Kind, reason string) Outcome {
	return Outcome{Kind: kind, Reason: reason}
}

// OK reports whether the step succeeded.
func (o Outcome) OK() bool {
	return o.Kind == ""
}

// Label is the metrics label of the outcome.
func (o Outcome) Label() string {
	if o.OK() {
		return "success"
	}
	return string(o.Kind)
}

// Uploader is the part of the enrollment client the submitter needs.
type Uploader interface {
	Upload(ctx context.Context, name, orientation, contentType string, image []byte) (*enrollapi.UploadResponse, error)
}

// Submitter performs single, non-retried step submissions.
type Submitter struct {
	uploader Uploader
	timeout  time.Duration
	logger   zerolog.Logger
}

// New creates a submitter. A non-positive timeout falls back to
// enrollapi.DefaultUploadTimeout.
func New(u Uploader, timeout time.Duration) *Submitter {
	if timeout <= 0 {
		timeout = enrollapi.DefaultUploadTimeout
	}
	return &Submitter{
		uploader: u,
		timeout:  timeout,
		logger:   log.WithComponent("submit"),
	}
}

// Submit uploads frame for subject and orientation o. It never panics and
// never returns an error; every failure is an Outcome.
func (s *Submitter) Submit(ctx context.Context, subject string, o orientation.Orientation, frame *capture.Frame) (out Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = Failure(KindInternal, fmt.Sprintf("submission panicked: %v", r))
		}
		metrics.RecordStep(string(o), out.Label(), time.Since(start))
	}()

	if out = validate(subject, o, frame); !out.OK() {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.uploader.Upload(ctx, strings.TrimSpace(subject), string(o), frame.ContentType, frame.Data)
	if err != nil {
		out = Classify(err)
		s.logger.Warn().Err(err).
			Str("orientation", string(o)).
			Str("kind", string(out.Kind)).
			Msg("step submission failed")
		return out
	}

	s.logger.Info().
		Str("orientation", string(o)).
		Dur("elapsed", time.Since(start)).
		Msg("step submitted")
	return Success()
}

func validate(subject string, o orientation.Orientation, frame *capture.Frame) Outcome {
	switch {
	case strings.TrimSpace(subject) == "":
		return Failure(KindValidation, ErrEmptySubject.Error())
	case !o.Valid():
		return Failure(KindValidation, fmt.Sprintf("unknown orientation %q", o))
	case frame == nil || len(frame.Data) == 0:
		return Failure(KindValidation, "no frame captured")
	case base64.StdEncoding.EncodedLen(len(frame.Data)) > constants.MaxFrameBytes:
		return Failure(KindValidation, fmt.Sprintf("frame of %d bytes exceeds the upload limit", len(frame.Data)))
	}
	return Success()
}

// Classify maps an upload error to a failed Outcome.
func Classify(err error) Outcome {
	var apiErr *enrollapi.APIError
	switch {
	case err == nil:
		return Success()
	case errors.Is(err, context.DeadlineExceeded):
		return Failure(KindTimeout, "timeout")
	case errors.As(err, &apiErr):
		return Failure(KindService, apiErr.Message)
	case errors.Is(err, context.Canceled):
		return Failure(KindTransport, "cancelled")
	default:
		return Failure(KindTransport, fmt.Sprintf("network error: %v", err))
	}
}
