// Package backend implements the host presentation and input devices. A
// backend is one concrete object satisfying two separate capabilities the
// frame loop depends on: a presentation sink (video.Presenter) and an input
// source (input.Source). The loop only ever sees the two small interfaces,
// so either side can be faked in tests.
package backend

import (
	"github.com/lucav/go-pocket/pocket/input"
	"github.com/lucav/go-pocket/pocket/video"
)

// Config holds configuration shared by all backends.
type Config struct {
	// Title is the window title where the backend has a window.
	Title string

	// Scale multiplies the hardware resolution for display. Display-only:
	// emulation logic always sees the native resolution.
	Scale int
}

// Backend is a complete host platform: it renders completed frames and
// reports button level state and the host's close request.
type Backend interface {
	// Init acquires the platform resources. Failure here is a startup
	// precondition error and fatal to the process.
	Init(config Config) error

	// Present renders a completed frame. Called once per frame on the
	// emulation thread; must be done with the buffer when it returns.
	Present(fb *video.FrameBuffer) error

	// Poll pumps pending platform events and returns the current button
	// level state.
	Poll() input.State

	// ShouldClose reports whether the host asked to exit.
	ShouldClose() bool

	// Cleanup releases platform resources at shutdown.
	Cleanup() error
}

var (
	_ video.Presenter = (Backend)(nil)
	_ input.Source    = (Backend)(nil)
)
