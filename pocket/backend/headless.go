package backend

import (
	"log/slog"

	"github.com/lucav/go-pocket/pocket/input"
	"github.com/lucav/go-pocket/pocket/video"
)

// HeadlessBackend runs without any display or input device, for automated
// testing and batch runs. It requests close once a fixed frame budget has
// been presented.
type HeadlessBackend struct {
	maxFrames  int
	frameCount int
}

// NewHeadlessBackend creates a headless backend that closes after maxFrames
// presented frames. A zero or negative budget runs forever.
func NewHeadlessBackend(maxFrames int) *HeadlessBackend {
	return &HeadlessBackend{maxFrames: maxFrames}
}

func (h *HeadlessBackend) Init(config Config) error {
	slog.Info("headless backend initialized", "frames", h.maxFrames)
	return nil
}

func (h *HeadlessBackend) Present(fb *video.FrameBuffer) error {
	h.frameCount++
	if h.frameCount%60 == 0 {
		slog.Debug("frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}
	return nil
}

// Poll reports no buttons pressed: there is no input device.
func (h *HeadlessBackend) Poll() input.State {
	return 0
}

func (h *HeadlessBackend) ShouldClose() bool {
	return h.maxFrames > 0 && h.frameCount >= h.maxFrames
}

func (h *HeadlessBackend) Cleanup() error {
	return nil
}

// FrameCount returns the number of frames presented so far.
func (h *HeadlessBackend) FrameCount() int {
	return h.frameCount
}

var _ Backend = (*HeadlessBackend)(nil)
