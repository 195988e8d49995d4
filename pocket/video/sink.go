package video

import "log/slog"

// Presenter renders a completed frame to some display surface. Present is
// called on the emulation thread and must have finished with the buffer by
// the time it returns.
type Presenter interface {
	Present(fb *FrameBuffer) error
}

// Sink accumulates per-pixel writes from the emulation core into a frame
// buffer and hands the buffer to a Presenter once the core signals frame
// completion. All calls happen on the emulation thread; there is no
// concurrent access to the buffer.
type Sink struct {
	fb        *FrameBuffer
	presenter Presenter

	oobWrites  uint64
	oobLogged  bool
	presentErr error
}

// NewSink creates a video sink presenting to the given Presenter.
func NewSink(p Presenter) *Sink {
	return &Sink{
		fb:        NewFrameBuffer(),
		presenter: p,
	}
}

// WritePixel stores one pixel of the current frame. A conformant core only
// writes inside the hardware resolution; writes outside it are dropped and
// counted so a misbehaving core cannot corrupt memory.
func (s *Sink) WritePixel(c Color, x, y int) {
	if x < 0 || x >= FrameWidth || y < 0 || y >= FrameHeight {
		s.oobWrites++
		if !s.oobLogged {
			s.oobLogged = true
			slog.Warn("dropped out of bounds pixel write", "x", x, "y", y)
		}
		return
	}
	s.fb.pixels[y*FrameWidth+x] = c
}

// Present hands the just-written frame to the presenter. It returns only
// after the presenter is done with the buffer, so the next frame's writes
// cannot tear the current one. Presenter failures are recorded rather than
// panicking; the frame loop checks Err after each step.
func (s *Sink) Present() {
	if err := s.presenter.Present(s.fb); err != nil && s.presentErr == nil {
		s.presentErr = err
	}
}

// Err returns the first presenter failure, if any.
func (s *Sink) Err() error {
	return s.presentErr
}

// DroppedWrites returns the number of out of bounds writes discarded so far.
func (s *Sink) DroppedWrites() uint64 {
	return s.oobWrites
}

// Frame exposes the current frame buffer, for snapshots and tests.
func (s *Sink) Frame() *FrameBuffer {
	return s.fb
}
