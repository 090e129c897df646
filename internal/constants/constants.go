// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Sequence timing constants
const (
	// DefaultCountdownTicks is the number of ticks between an announcement and the capture
	DefaultCountdownTicks = 3

	// DefaultTickInterval is the duration of one countdown tick
	DefaultTickInterval = time.Second
)

// Enrollment service constants
const (
	// DefaultServiceURL is used when ENROLL_API_URL is not set
	DefaultServiceURL = "http://localhost:5000"

	// MaxFrameBytes is the largest frame the service accepts (16MB request limit)
	MaxFrameBytes = 16 * 1024 * 1024
)
