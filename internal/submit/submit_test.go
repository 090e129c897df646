package submit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/kozaktomas/face-enroll/internal/capture"
	"github.com/kozaktomas/face-enroll/internal/enrollapi"
	"github.com/kozaktomas/face-enroll/internal/orientation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls []string
	err   error
	panic bool
	block bool
}

func (f *fakeUploader) Upload(ctx context.Context, name, o, contentType string, image []byte) (*enrollapi.UploadResponse, error) {
	f.calls = append(f.calls, name+"/"+o)
	if f.panic {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &enrollapi.UploadResponse{Name: name}, nil
}

func frame() *capture.Frame {
	return &capture.Frame{Data: []byte{0xFF, 0xD8}, ContentType: "image/jpeg"}
}

func TestSubmit_Success(t *testing.T) {
	u := &fakeUploader{}
	s := New(u, time.Second)

	out := s.Submit(context.Background(), "  Alice ", orientation.Front, frame())
	assert.True(t, out.OK())
	assert.Equal(t, "success", out.Label())
	assert.Equal(t, []string{"Alice/front"}, u.calls)
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		o       orientation.Orientation
		frame   *capture.Frame
	}{
		{"empty subject", "", orientation.Front, frame()},
		{"blank subject", "   ", orientation.Front, frame()},
		{"unknown orientation", "Alice", "back", frame()},
		{"nil frame", "Alice", orientation.Front, nil},
		{"empty frame", "Alice", orientation.Front, &capture.Frame{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &fakeUploader{}
			out := New(u, time.Second).Submit(context.Background(), tt.subject, tt.o, tt.frame)
			assert.False(t, out.OK())
			assert.Equal(t, KindValidation, out.Kind)
			assert.Empty(t, u.calls, "no network call on validation failure")
		})
	}
}

func TestSubmit_ServiceRejection(t *testing.T) {
	u := &fakeUploader{err: &enrollapi.APIError{StatusCode: http.StatusBadRequest, Message: "No faces detected"}}

	out := New(u, time.Second).Submit(context.Background(), "Alice", orientation.Left, frame())
	assert.Equal(t, Failure(KindService, "No faces detected"), out)
}

func TestSubmit_Timeout(t *testing.T) {
	u := &fakeUploader{block: true}

	out := New(u, 10*time.Millisecond).Submit(context.Background(), "Alice", orientation.Right, frame())
	assert.Equal(t, Failure(KindTimeout, "timeout"), out)
}

func TestSubmit_Transport(t *testing.T) {
	u := &fakeUploader{err: errors.New("could not send request: connection refused")}

	out := New(u, time.Second).Submit(context.Background(), "Alice", orientation.Top, frame())
	assert.Equal(t, KindTransport, out.Kind)
	assert.Contains(t, out.Reason, "connection refused")
}

func TestSubmit_PanicIsContained(t *testing.T) {
	u := &fakeUploader{panic: true}

	var out Outcome
	require.NotPanics(t, func() {
		out = New(u, time.Second).Submit(context.Background(), "Alice", orientation.Bottom, frame())
	})
	assert.Equal(t, KindInternal, out.Kind)
}

func TestNew_DefaultTimeout(t *testing.T) {
	assert.Equal(t, enrollapi.DefaultUploadTimeout, New(&fakeUploader{}, 0).timeout)
}

func TestClassify(t *testing.T) {
	assert.True(t, Classify(nil).OK())
	assert.Equal(t, KindTimeout, Classify(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindTransport, Classify(context.Canceled).Kind)
	assert.Equal(t, KindService, Classify(&enrollapi.APIError{StatusCode: 500, Message: "x"}).Kind)
}

func TestSubmit_FrameTooLarge(t *testing.T) {
	u := &fakeUploader{}
	big := &capture.Frame{Data: make([]byte, 13*1024*1024), ContentType: "image/jpeg"}

	out := New(u, time.Second).Submit(context.Background(), "Alice", orientation.Front, big)
	assert.Equal(t, KindValidation, out.Kind)
	assert.Empty(t, u.calls)
}
