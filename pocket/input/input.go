// Package input samples host button state once per frame and forwards it to
// the emulation core. Pure level sampling: no debouncing, no edge detection;
// the core interprets transitions itself.
package input

import "github.com/lucav/go-pocket/pocket/core"

// State is a bitmask of the eight logical buttons, one bit per core.Button.
type State uint8

// Set records a button's level in the mask.
func (s *State) Set(b core.Button, pressed bool) {
	if pressed {
		*s |= 1 << uint(b)
	} else {
		*s &^= 1 << uint(b)
	}
}

// Pressed reports whether a button is currently down.
func (s State) Pressed(b core.Button) bool {
	return s&(1<<uint(b)) != 0
}

// Source provides the host's current input state. Poll pumps any pending
// host events and returns the level state of all buttons; ShouldClose
// reports whether the host asked to exit (window close, exit key).
type Source interface {
	Poll() State
	ShouldClose() bool
}

// Sampler forwards the host's button levels to the core, all eight buttons,
// overwritten wholesale once per frame.
type Sampler struct {
	src Source
}

func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// Sample polls the source and pushes every button's state to the core.
func (s *Sampler) Sample(c core.Core) {
	st := s.src.Poll()
	for _, b := range core.Buttons() {
		c.SetButton(b, st.Pressed(b))
	}
}
