package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kozaktomas/face-enroll/internal/constants"
	"github.com/kozaktomas/face-enroll/internal/enroll"
	"github.com/kozaktomas/face-enroll/internal/log"
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/rs/zerolog"
)

// Enrollment is the orchestrator surface used by the handlers.
type Enrollment interface {
	Start(ctx context.Context, subject string) (enroll.State, error)
	Stop(ctx context.Context) (enroll.State, error)
	CaptureOne(ctx context.Context, subject string, o orientation.Orientation) (enroll.State, error)
	Snapshot() enroll.State
	Subscribe() (<-chan enroll.Notification, func())
}

// EnrollmentHandler drives the capture sequence.
type EnrollmentHandler struct {
	enrollment Enrollment
	keepAlive  time.Duration
	logger     zerolog.Logger
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(e Enrollment) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollment: e,
		keepAlive:  constants.SSEKeepAlive,
		logger:     log.WithComponent("web"),
	}
}

// StartRequest represents the start request body
type StartRequest struct {
	Name string `json:"name"`
}

// CaptureRequest represents the single capture request body
type CaptureRequest struct {
	Name        string `json:"name"`
	Orientation string `json:"orientation"`
}

// Status returns the current state.
func (h *EnrollmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.enrollment.Snapshot())
}

// Start begins the automatic sequence.
func (h *EnrollmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.enrollment.Start(r.Context(), req.Name)
	if err != nil {
		h.respondEnrollError(w, err)
		return
	}

	h.logger.Info().
		Str("subject", sanitizeForLog(state.Subject)).
		Str("session", state.SessionID).
		Msg("capture sequence started")
	respondJSON(w, http.StatusAccepted, state)
}

// Stop cancels the sequence.
func (h *EnrollmentHandler) Stop(w http.ResponseWriter, r *http.Request) {
	state, err := h.enrollment.Stop(r.Context())
	if err != nil {
		h.respondEnrollError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Capture submits a single manual capture.
func (h *EnrollmentHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := orientation.Parse(req.Orientation)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.enrollment.CaptureOne(r.Context(), req.Name, o)
	if err != nil {
		h.respondEnrollError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, state)
}

// Events streams orchestrator notifications as server-sent events.
func (h *EnrollmentHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamNotifications(w, r, h.enrollment, h.keepAlive)
}

func (h *EnrollmentHandler) respondEnrollError(w http.ResponseWriter, err error) {
	switch {
	case enroll.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, enroll.ErrSequenceRunning), errors.Is(err, enroll.ErrManualInFlight):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, enroll.ErrClosed):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error().Err(err).Msg("enrollment request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
