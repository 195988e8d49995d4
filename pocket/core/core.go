// Package core defines the boundary between the frontend and an emulation
// core. The core is an external collaborator: it simulates the hardware and
// calls back into the capability interfaces the frontend provides (screen,
// serial, audio), while the frontend drives it one frame at a time.
package core

import (
	"time"

	"github.com/lucav/go-pocket/pocket/video"
)

// Button is one of the eight logical buttons on the emulated handheld.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonSelect:
		return "Select"
	case ButtonStart:
		return "Start"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	}
	return "Unknown"
}

// Buttons lists all logical buttons, in SetButton forwarding order.
func Buttons() []Button {
	return []Button{
		ButtonA, ButtonB, ButtonSelect, ButtonStart,
		ButtonUp, ButtonDown, ButtonLeft, ButtonRight,
	}
}

// Screen receives pixel output from the core. WritePixel is called for every
// pixel of a scan-out and must be cheap; Present is called exactly once per
// completed frame.
type Screen interface {
	WritePixel(c video.Color, x, y int)
	Present()
}

// SerialOutput receives bytes the emulated hardware writes to its serial
// port. Purely diagnostic; implementations must not fail the emulation.
type SerialOutput interface {
	PutByte(b byte)
}

// AudioOutput receives interleaved stereo samples at the core's native audio
// tick rate, synchronously during a step. Implementations must never block
// the caller.
type AudioOutput interface {
	PushSamples(left, right float32)
}

// Core drives the emulated hardware. Step runs the simulation for exactly
// one video frame, emitting output through the capability interfaces the
// core was constructed with. SetButton overwrites one button's level state.
// FrameInterval is the real-time duration of one emulated frame.
type Core interface {
	Step() error
	SetButton(b Button, pressed bool)
	FrameInterval() time.Duration
}
