package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENROLL_API_URL", "ENROLL_UPLOAD_TIMEOUT", "ENROLL_REQUEST_TIMEOUT",
		"ENROLL_COUNTDOWN_TICKS", "ENROLL_TICK_INTERVAL", "ENROLL_SPEECH",
		"ENROLL_SPEECH_COMMAND", "ENROLL_CAPTURE_COMMAND", "ENROLL_CAPTURE_DIR",
		"ENROLL_RESPONSE_DIR", "WEB_HOST", "WEB_PORT", "WEB_ALLOWED_ORIGINS", "WEB_API_TOKEN", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Service.URL != "http://localhost:5000" {
		t.Errorf("expected default service URL, got '%s'", cfg.Service.URL)
	}
	if cfg.Service.UploadTimeout != 120*time.Second {
		t.Errorf("expected upload timeout 120s, got %v", cfg.Service.UploadTimeout)
	}
	if cfg.Service.RequestTimeout != 10*time.Second {
		t.Errorf("expected request timeout 10s, got %v", cfg.Service.RequestTimeout)
	}
	if cfg.Sequence.Ticks != 3 {
		t.Errorf("expected 3 countdown ticks, got %d", cfg.Sequence.Ticks)
	}
	if cfg.Sequence.TickInterval != time.Second {
		t.Errorf("expected tick interval 1s, got %v", cfg.Sequence.TickInterval)
	}
	if !cfg.Speech.Enabled {
		t.Error("expected speech enabled by default")
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected web port 8080, got %d", cfg.Web.Port)
	}
	if len(cfg.Web.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins, got %v", cfg.Web.AllowedOrigins)
	}
}

func TestLoad_Custom(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENROLL_API_URL", "http://enroll.local:5000")
	t.Setenv("ENROLL_UPLOAD_TIMEOUT", "90s")
	t.Setenv("ENROLL_REQUEST_TIMEOUT", "5")
	t.Setenv("ENROLL_COUNTDOWN_TICKS", "5")
	t.Setenv("ENROLL_TICK_INTERVAL", "500ms")
	t.Setenv("ENROLL_SPEECH", "off")
	t.Setenv("ENROLL_SPEECH_COMMAND", "espeak-ng -v en")
	t.Setenv("ENROLL_CAPTURE_DIR", "/tmp/poses")
	t.Setenv("WEB_PORT", "9000")
	t.Setenv("WEB_ALLOWED_ORIGINS", "http://kiosk.local, http://localhost:3000,")

	cfg := Load()

	if cfg.Service.URL != "http://enroll.local:5000" {
		t.Errorf("expected custom service URL, got '%s'", cfg.Service.URL)
	}
	if cfg.Service.UploadTimeout != 90*time.Second {
		t.Errorf("expected upload timeout 90s, got %v", cfg.Service.UploadTimeout)
	}
	if cfg.Service.RequestTimeout != 5*time.Second {
		t.Errorf("expected bare number parsed as seconds, got %v", cfg.Service.RequestTimeout)
	}
	if cfg.Sequence.Ticks != 5 {
		t.Errorf("expected 5 ticks, got %d", cfg.Sequence.Ticks)
	}
	if cfg.Sequence.TickInterval != 500*time.Millisecond {
		t.Errorf("expected tick interval 500ms, got %v", cfg.Sequence.TickInterval)
	}
	if cfg.Speech.Enabled {
		t.Error("expected speech disabled")
	}
	if cfg.Speech.Command != "espeak-ng -v en" {
		t.Errorf("expected speech command, got '%s'", cfg.Speech.Command)
	}
	if cfg.Capture.Dir != "/tmp/poses" {
		t.Errorf("expected capture dir, got '%s'", cfg.Capture.Dir)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("expected web port 9000, got %d", cfg.Web.Port)
	}
	if len(cfg.Web.AllowedOrigins) != 2 || cfg.Web.AllowedOrigins[1] != "http://localhost:3000" {
		t.Errorf("expected two trimmed origins, got %v", cfg.Web.AllowedOrigins)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENROLL_UPLOAD_TIMEOUT", "soon")
	t.Setenv("ENROLL_COUNTDOWN_TICKS", "-2")
	t.Setenv("ENROLL_TICK_INTERVAL", "-1s")
	t.Setenv("ENROLL_SPEECH", "maybe")
	t.Setenv("WEB_PORT", "invalid")

	cfg := Load()

	if cfg.Service.UploadTimeout != 120*time.Second {
		t.Errorf("expected default upload timeout for invalid input, got %v", cfg.Service.UploadTimeout)
	}
	if cfg.Sequence.Ticks != 3 {
		t.Errorf("expected default ticks for negative input, got %d", cfg.Sequence.Ticks)
	}
	if cfg.Sequence.TickInterval != time.Second {
		t.Errorf("expected default tick interval for negative input, got %v", cfg.Sequence.TickInterval)
	}
	if !cfg.Speech.Enabled {
		t.Error("expected speech default for unrecognised value")
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port for invalid input, got %d", cfg.Web.Port)
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"on", true},
		{"TRUE", true},
		{"1", true},
		{"off", false},
		{"No", false},
		{"0", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := envBool("TEST_BOOL", !tt.want); got != tt.want {
				t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestLoad_ZeroTicksAndBlankCommands(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENROLL_COUNTDOWN_TICKS", "0")
	t.Setenv("ENROLL_SPEECH_COMMAND", "   ")
	t.Setenv("ENROLL_CAPTURE_COMMAND", " \t")

	cfg := Load()

	if cfg.Sequence.Ticks != 0 {
		t.Errorf("expected zero ticks to be kept, got %d", cfg.Sequence.Ticks)
	}
	if cfg.Speech.Command != "" {
		t.Errorf("expected blank speech command to be empty, got '%s'", cfg.Speech.Command)
	}
	if cfg.Capture.Command != "" {
		t.Errorf("expected blank capture command to be empty, got '%s'", cfg.Capture.Command)
	}
}
