package constants

import "time"

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100
)

// HTTP server constants
const (
	// DefaultWebPort is the default port of the control API
	DefaultWebPort = 8080

	// ShutdownTimeout bounds graceful shutdown of the control API
	ShutdownTimeout = 30 * time.Second

	// SSEKeepAlive is the interval of comment frames keeping SSE connections open
	SSEKeepAlive = 15 * time.Second

	// MaxRequestBodyBytes limits JSON request bodies of the control API
	MaxRequestBodyBytes = 1 << 20
)
