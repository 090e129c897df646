package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-enroll/internal/constants"
	"github.com/kozaktomas/face-enroll/internal/enrollapi"
	"github.com/kozaktomas/face-enroll/internal/log"
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/kozaktomas/face-enroll/internal/subject"
	"github.com/rs/zerolog"
)

// FaceService is the part of the enrollment service client used for
// management calls.
type FaceService interface {
	ListFaces(ctx context.Context) ([]enrollapi.Face, error)
	DeleteFace(ctx context.Context, name string) (*enrollapi.MessageResponse, error)
	Health(ctx context.Context) (*enrollapi.HealthResponse, error)
	Match(ctx context.Context, contentType string, image []byte) (*enrollapi.MatchResponse, error)
}

// FacesHandler proxies face management to the enrollment service.
type FacesHandler struct {
	service FaceService
	logger  zerolog.Logger
}

// NewFacesHandler creates a new faces handler
func NewFacesHandler(s FaceService) *FacesHandler {
	return &FacesHandler{service: s, logger: log.WithComponent("web")}
}

// List returns the enrolled subjects, optionally filtered by ?q=.
func (h *FacesHandler) List(w http.ResponseWriter, r *http.Request) {
	faces, err := h.service.ListFaces(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	faces = subject.Filter(faces, r.URL.Query().Get("q"))
	if faces == nil {
		faces = []enrollapi.Face{}
	}
	respondJSON(w, http.StatusOK, faces)
}

// Delete removes every capture of a subject.
func (h *FacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "missing name")
		return
	}

	resp, err := h.service.DeleteFace(r.Context(), name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.logger.Info().Str("subject", sanitizeForLog(name)).Msg("face deleted")
	respondJSON(w, http.StatusOK, resp)
}

// ServiceHealth reports the enrollment service status.
func (h *FacesHandler) ServiceHealth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Health(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Match identifies the face in the raw image sent as the request body.
func (h *FacesHandler) Match(w http.ResponseWriter, r *http.Request) {
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxFrameBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		respondError(w, http.StatusBadRequest, "could not read image")
		return
	}
	if len(image) == 0 {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(image)
	}

	resp, err := h.service.Match(r.Context(), contentType, image)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.logger.Info().Str("matched", sanitizeForLog(resp.MatchedName)).Bool("is_match", resp.IsMatch).Msg("face matched")
	respondJSON(w, http.StatusOK, resp)
}

func (h *FacesHandler) respondServiceError(w http.ResponseWriter, err error) {
	var apiErr *enrollapi.APIError
	switch {
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusBadRequest {
			status = apiErr.StatusCode
		}
		respondError(w, status, apiErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "enrollment service timed out")
	default:
		h.logger.Warn().Err(err).Msg("enrollment service unreachable")
		respondError(w, http.StatusBadGateway, "enrollment service unavailable")
	}
}

// OrientationInfo describes one pose of the sequence.
type OrientationInfo struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Instruction string `json:"instruction"`
}

// Orientations lists the poses in capture order.
func Orientations(w http.ResponseWriter, r *http.Request) {
	all := orientation.All()
	out := make([]OrientationInfo, 0, len(all))
	for _, o := range all {
		out = append(out, OrientationInfo{Name: o.String(), Label: o.Label(), Instruction: o.Instruction()})
	}
	respondJSON(w, http.StatusOK, out)
}
