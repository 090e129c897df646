// Package enrollapi is a client for the remote face enrollment service.
package enrollapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default timeouts. Uploads are long because the service may load its
// models on the first request.
const (
	DefaultUploadTimeout  = 120 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Client talks to the enrollment service.
type Client struct {
	URL            string
	parsedURL      *url.URL
	httpClient     *http.Client
	uploadTimeout  time.Duration
	requestTimeout time.Duration
	captureDir     string
}

// NewClient creates a client for the service at rawURL. Zero timeouts fall
// back to the defaults.
func NewClient(rawURL string, uploadTimeout, requestTimeout time.Duration) (*Client, error) {
	if rawURL == "" {
		return nil, errors.New("enrollment service URL is empty")
	}
	parsed, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid enrollment service URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid enrollment service URL %q: scheme must be http or https", rawURL)
	}
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &Client{
		URL:            parsed.String(),
		parsedURL:      parsed,
		httpClient:     &http.Client{},
		uploadTimeout:  uploadTimeout,
		requestTimeout: requestTimeout,
	}, nil
}

// UploadTimeout returns the bounded wait applied to uploads.
func (c *Client) UploadTimeout() time.Duration {
	return c.uploadTimeout
}

func (c *Client) resolveURL(endpoint string) string {
	return c.parsedURL.JoinPath(endpoint).String()
}

// SetCaptureDir enables saving raw response bodies to dir for building test
// fixtures. An empty dir disables capturing.
func (c *Client) SetCaptureDir(dir string) error {
	if dir == "" {
		c.captureDir = ""
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("could not create capture directory: %w", err)
	}
	c.captureDir = dir
	return nil
}

func (c *Client) captureResponse(endpoint string, body []byte) {
	if c.captureDir == "" {
		return
	}

	name := strings.TrimPrefix(strings.ReplaceAll(endpoint, "/", "_"), "_")
	name = fmt.Sprintf("%s_%s.json", name, time.Now().Format("20060102_150405"))
	path := filepath.Join(c.captureDir, name)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err == nil {
		body = pretty.Bytes()
	}
	if err := os.WriteFile(path, body, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to capture response to %s: %v\n", path, err)
	}
}

// DataURL encodes an image the way the service expects it.
func DataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Upload stores one capture for a subject and orientation.
func (c *Client) Upload(ctx context.Context, name, orientation, contentType string, image []byte) (*UploadResponse, error) {
	req := UploadRequest{
		Name:        name,
		Orientation: orientation,
		Image:       DataURL(contentType, image),
	}
	return doRequestJSON[UploadResponse](ctx, c, http.MethodPost, "upload", req, c.uploadTimeout)
}

// Match asks the service who is in the image. It runs the same models as an
// upload, so it is bounded by the upload timeout.
func (c *Client) Match(ctx context.Context, contentType string, image []byte) (*MatchResponse, error) {
	if len(image) == 0 {
		return nil, errors.New("image is empty")
	}
	return doRequestJSON[MatchResponse](ctx, c, http.MethodPost, "match", matchRequest{Image: DataURL(contentType, image)}, c.uploadTimeout)
}

// ListFaces returns every enrolled subject with its captured orientations.
func (c *Client) ListFaces(ctx context.Context) ([]Face, error) {
	faces, err := doRequestJSON[[]Face](ctx, c, http.MethodGet, "faces", nil, c.requestTimeout)
	if err != nil {
		return nil, err
	}
	return *faces, nil
}

// DeleteFace removes all captures of a subject.
func (c *Client) DeleteFace(ctx context.Context, name string) (*MessageResponse, error) {
	return doRequestJSON[MessageResponse](ctx, c, http.MethodPost, "delete_face", deleteRequest{Name: name}, c.requestTimeout)
}

// Health checks the service. The service also starts warming up its models.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return doRequestJSON[HealthResponse](ctx, c, http.MethodGet, "health", nil, c.requestTimeout)
}
