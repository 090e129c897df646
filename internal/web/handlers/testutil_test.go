package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-enroll/internal/enroll"
	"github.com/kozaktomas/face-enroll/internal/enrollapi"
	"github.com/kozaktomas/face-enroll/internal/orientation"
)

// fakeEnrollment records calls and returns scripted results.
type fakeEnrollment struct {
	mu       sync.Mutex
	state    enroll.State
	err      error
	subjects []string
	captures []orientation.Orientation
	events   chan enroll.Notification
}

func newFakeEnrollment() *fakeEnrollment {
	return &fakeEnrollment{
		state:  enroll.State{Phase: enroll.PhaseIdle},
		events: make(chan enroll.Notification, 10),
	}
}

func (f *fakeEnrollment) Start(_ context.Context, subject string) (enroll.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	if f.err != nil {
		return f.state, f.err
	}
	f.state = enroll.State{Phase: enroll.PhaseAnnouncing, Subject: subject, SessionID: "session-1", Orientation: orientation.Front}
	return f.state, nil
}

func (f *fakeEnrollment) Stop(context.Context) (enroll.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = enroll.State{Phase: enroll.PhaseIdle}
	return f.state, f.err
}

func (f *fakeEnrollment) CaptureOne(_ context.Context, subject string, o orientation.Orientation) (enroll.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	f.captures = append(f.captures, o)
	return f.state, f.err
}

func (f *fakeEnrollment) Snapshot() enroll.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeEnrollment) Subscribe() (<-chan enroll.Notification, func()) {
	return f.events, func() {}
}

// fakeFaceService serves canned management responses.
type fakeFaceService struct {
	faces   []enrollapi.Face
	deleted []string
	health  *enrollapi.HealthResponse
	match   *enrollapi.MatchResponse
	err     error

	matchedType  string
	matchedImage []byte
}

func (f *fakeFaceService) ListFaces(context.Context) ([]enrollapi.Face, error) {
	return f.faces, f.err
}

func (f *fakeFaceService) DeleteFace(_ context.Context, name string) (*enrollapi.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, name)
	return &enrollapi.MessageResponse{Message: "Deleted " + name}, nil
}

func (f *fakeFaceService) Health(context.Context) (*enrollapi.HealthResponse, error) {
	return f.health, f.err
}

func (f *fakeFaceService) Match(_ context.Context, contentType string, image []byte) (*enrollapi.MatchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.matchedType = contentType
	f.matchedImage = image
	return f.match, nil
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
