package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/face-enroll/internal/constants"
	"github.com/kozaktomas/face-enroll/internal/enrollapi"
)

type Config struct {
	Service  ServiceConfig
	Sequence SequenceConfig
	Speech   SpeechConfig
	Capture  CaptureConfig
	Web      WebConfig
	LogLevel string
}

type ServiceConfig struct {
	URL            string        // enrollment service base URL (default http://localhost:5000)
	UploadTimeout  time.Duration // bound of one step submission (default 120s)
	RequestTimeout time.Duration // bound of list/delete/health calls (default 10s)
	CaptureDir     string        // when set, raw service responses are saved here
}

type SequenceConfig struct {
	Ticks        int           // countdown length per step (default 3)
	TickInterval time.Duration // time between ticks (default 1s)
}

type SpeechConfig struct {
	Enabled bool
	Command string // explicit speech program, e.g. "espeak-ng -v en"
}

type CaptureConfig struct {
	Command string // program printing one image to stdout
	Dir     string // directory with <orientation>.jpg files
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	APIToken       string // bearer token required by mutating control API calls
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envCount is envInt that also accepts zero. A countdown of zero ticks
// captures right after the announcement, same as --ticks 0.
func envCount(key string, defaultVal int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// envDuration reads a positive duration such as "90s". A bare number is
// taken as seconds.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

// envBool accepts on/off, true/false, yes/no and 1/0.
func envBool(key string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envString(key, defaultVal string) string {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			URL:            envString("ENROLL_API_URL", constants.DefaultServiceURL),
			UploadTimeout:  envDuration("ENROLL_UPLOAD_TIMEOUT", enrollapi.DefaultUploadTimeout),
			RequestTimeout: envDuration("ENROLL_REQUEST_TIMEOUT", enrollapi.DefaultRequestTimeout),
			CaptureDir:     envString("ENROLL_RESPONSE_DIR", ""),
		},
		Sequence: SequenceConfig{
			Ticks:        envCount("ENROLL_COUNTDOWN_TICKS", constants.DefaultCountdownTicks),
			TickInterval: envDuration("ENROLL_TICK_INTERVAL", constants.DefaultTickInterval),
		},
		Speech: SpeechConfig{
			Enabled: envBool("ENROLL_SPEECH", true),
			Command: envString("ENROLL_SPEECH_COMMAND", ""),
		},
		Capture: CaptureConfig{
			Command: envString("ENROLL_CAPTURE_COMMAND", ""),
			Dir:     envString("ENROLL_CAPTURE_DIR", ""),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", constants.DefaultWebPort),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
			APIToken:       os.Getenv("WEB_API_TOKEN"),
		},
		LogLevel: os.Getenv("LOG_LEVEL"),
	}
}
