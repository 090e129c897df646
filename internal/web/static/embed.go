// Package static embeds the kiosk page served at the root of the control API.
package static

import (
	_ "embed"
)

//go:embed index.html
var indexHTML []byte

// Index returns the kiosk page.
func Index() []byte {
	return indexHTML
}
