package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/face-enroll/internal/enroll"
	"github.com/kozaktomas/face-enroll/internal/orientation"
)

func TestEnrollmentStart_Accepted(t *testing.T) {
	fake := newFakeEnrollment()
	h := NewEnrollmentHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollment/start", strings.NewReader(`{"name":"Alice"}`))
	recorder := httptest.NewRecorder()
	h.Start(recorder, req)

	if recorder.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d: %s", http.StatusAccepted, recorder.Code, recorder.Body.String())
	}

	var state enroll.State
	if err := json.Unmarshal(recorder.Body.Bytes(), &state); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if state.Phase != enroll.PhaseAnnouncing || state.Subject != "Alice" {
		t.Errorf("unexpected state %+v", state)
	}
	if len(fake.subjects) != 1 || fake.subjects[0] != "Alice" {
		t.Errorf("expected orchestrator started for Alice, got %v", fake.subjects)
	}
}

func TestEnrollmentStart_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &enroll.ValidationError{Field: "subject", Message: "please enter a name to start"}, http.StatusBadRequest},
		{"running", enroll.ErrSequenceRunning, http.StatusConflict},
		{"manual in flight", enroll.ErrManualInFlight, http.StatusConflict},
		{"closed", enroll.ErrClosed, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeEnrollment()
			fake.err = tc.err
			h := NewEnrollmentHandler(fake)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollment/start", strings.NewReader(`{"name":"Alice"}`))
			recorder := httptest.NewRecorder()
			h.Start(recorder, req)

			if recorder.Code != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, recorder.Code)
			}
		})
	}
}

func TestEnrollmentStart_InvalidBody(t *testing.T) {
	fake := newFakeEnrollment()
	h := NewEnrollmentHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollment/start", strings.NewReader(`not json`))
	recorder := httptest.NewRecorder()
	h.Start(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if len(fake.subjects) != 0 {
		t.Error("orchestrator must not be called for an invalid body")
	}
}

func TestEnrollmentStop(t *testing.T) {
	fake := newFakeEnrollment()
	fake.state = enroll.State{Phase: enroll.PhaseCountingDown, Subject: "Alice"}
	h := NewEnrollmentHandler(fake)

	recorder := httptest.NewRecorder()
	h.Stop(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/enrollment/stop", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `"phase":"idle"`) {
		t.Errorf("expected idle state, got %s", recorder.Body.String())
	}
}

func TestEnrollmentCapture(t *testing.T) {
	fake := newFakeEnrollment()
	h := NewEnrollmentHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollment/capture",
		strings.NewReader(`{"name":"Carol","orientation":"top"}`))
	recorder := httptest.NewRecorder()
	h.Capture(recorder, req)

	if recorder.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, recorder.Code)
	}
	if len(fake.captures) != 1 || fake.captures[0] != orientation.Top {
		t.Errorf("expected a top capture, got %v", fake.captures)
	}
}

func TestEnrollmentCapture_UnknownOrientation(t *testing.T) {
	fake := newFakeEnrollment()
	h := NewEnrollmentHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollment/capture",
		strings.NewReader(`{"name":"Carol","orientation":"sideways"}`))
	recorder := httptest.NewRecorder()
	h.Capture(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if len(fake.captures) != 0 {
		t.Error("orchestrator must not be called for an unknown orientation")
	}
}

func TestEnrollmentStatus(t *testing.T) {
	fake := newFakeEnrollment()
	fake.state = enroll.State{Phase: enroll.PhaseAborted, Subject: "Alice", Cursor: 2, LastReason: "timeout"}
	h := NewEnrollmentHandler(fake)

	recorder := httptest.NewRecorder()
	h.Status(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/enrollment", nil))

	var state enroll.State
	if err := json.Unmarshal(recorder.Body.Bytes(), &state); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if state.Phase != enroll.PhaseAborted || state.Cursor != 2 || state.LastReason != "timeout" {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestEnrollmentEvents_StreamsNotifications(t *testing.T) {
	fake := newFakeEnrollment()
	h := NewEnrollmentHandler(fake)
	h.keepAlive = time.Hour

	srv := httptest.NewServer(http.HandlerFunc(h.Events))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected Content-Type 'text/event-stream', got '%s'", ct)
	}

	fake.events <- enroll.Notification{Type: enroll.NotifyTick, Data: 2}

	var eventTypes []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() && len(eventTypes) < 2 {
		if line := scanner.Text(); strings.HasPrefix(line, "event: ") {
			eventTypes = append(eventTypes, strings.TrimPrefix(line, "event: "))
		}
	}

	if len(eventTypes) != 2 || eventTypes[0] != "state" || eventTypes[1] != "tick" {
		t.Errorf("expected initial state then tick, got %v", eventTypes)
	}
}
