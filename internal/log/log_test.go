package log

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func reset() {
	once = sync.Once{}
	base = zerolog.Logger{}
}

func TestWithComponent(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})

	logger := WithComponent("enroll")
	logger.Info().Str("orientation", "front").Msg("state changed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log line %q: %v", buf.String(), err)
	}
	if entry["service"] != "face-enroll" {
		t.Errorf("service = %v, want face-enroll", entry["service"])
	}
	if entry["component"] != "enroll" {
		t.Errorf("component = %v, want enroll", entry["component"])
	}
	if entry["orientation"] != "front" {
		t.Errorf("orientation = %v, want front", entry["orientation"])
	}
}

func TestConfigure_LevelFromEnv(t *testing.T) {
	reset()
	t.Cleanup(reset)
	t.Setenv("LOG_LEVEL", "warn")

	var buf bytes.Buffer
	Configure(Config{Output: &buf})

	logger := Base()
	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info must be filtered at warn level, got %q", buf.String())
	}
	logger.Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Error("warn must be written at warn level")
	}
}

func TestConfigure_OnlyOnce(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var first, second bytes.Buffer
	Configure(Config{Output: &first})
	Configure(Config{Output: &second})

	logger := Base()
	logger.Warn().Msg("hello")
	if first.Len() == 0 || second.Len() != 0 {
		t.Errorf("expected output only on the first writer, got first=%q second=%q", first.String(), second.String())
	}
}
