package core

import (
	"fmt"
	"math"
	"time"

	"github.com/lucav/go-pocket/pocket/timing"
	"github.com/lucav/go-pocket/pocket/video"
)

const (
	patternTileSize    = 8
	patternScrollSpeed = 1
	toneBaseFrequency  = 220.0
	toneVolume         = 0.20
	serialReportFrames = 60
)

// PatternCore is a synthetic emulation core. It drives every frontend
// capability the way a real hardware core would: a full frame of pixel
// writes followed by a present, a stream of stereo tone samples, periodic
// serial output, and button state that visibly alters the output (the d-pad
// scrolls the pattern, A/B shift the tone pitch).
//
// It stands in for a real core in the demo binary and in tests; the ROM
// image it is handed is kept but not interpreted.
type PatternCore struct {
	screen Screen
	serial SerialOutput
	audio  AudioOutput

	rom        []byte
	sampleRate int

	frame      int
	scrollX    int
	scrollY    int
	buttons    [8]bool
	phase      float64
	sampleDebt float64
}

// NewPatternCore creates a synthetic core wired to the given sinks. The
// audio sink may be nil when sound output is disabled.
func NewPatternCore(rom []byte, screen Screen, serial SerialOutput, audio AudioOutput, sampleRate int) (*PatternCore, error) {
	if screen == nil {
		return nil, fmt.Errorf("pattern core requires a screen")
	}
	if serial == nil {
		return nil, fmt.Errorf("pattern core requires a serial output")
	}
	return &PatternCore{
		screen:     screen,
		serial:     serial,
		audio:      audio,
		rom:        rom,
		sampleRate: sampleRate,
	}, nil
}

// Step emits one complete frame: every pixel written exactly once, one
// Present, and the frame's worth of audio sample pairs.
func (c *PatternCore) Step() error {
	c.frame++
	c.applyScroll()
	c.drawFrame()
	c.screen.Present()
	c.emitAudio()
	c.emitSerial()
	return nil
}

// SetButton overwrites one button's level state.
func (c *PatternCore) SetButton(b Button, pressed bool) {
	if b < 0 || int(b) >= len(c.buttons) {
		return
	}
	c.buttons[b] = pressed
}

// FrameInterval returns the hardware frame duration.
func (c *PatternCore) FrameInterval() time.Duration {
	return timing.FrameDuration()
}

func (c *PatternCore) applyScroll() {
	if c.buttons[ButtonLeft] {
		c.scrollX -= patternScrollSpeed
	}
	if c.buttons[ButtonRight] {
		c.scrollX += patternScrollSpeed
	}
	if c.buttons[ButtonUp] {
		c.scrollY -= patternScrollSpeed
	}
	if c.buttons[ButtonDown] {
		c.scrollY += patternScrollSpeed
	}
}

func (c *PatternCore) drawFrame() {
	shift := c.frame / 4
	for y := 0; y < video.FrameHeight; y++ {
		for x := 0; x < video.FrameWidth; x++ {
			tx := (x + c.scrollX + shift) / patternTileSize
			ty := (y + c.scrollY) / patternTileSize
			var col video.Color
			switch ((tx+ty)%4 + 4) % 4 {
			case 0:
				col = video.White
			case 1:
				col = video.LightGrey
			case 2:
				col = video.DarkGrey
			default:
				col = video.Black
			}
			c.screen.WritePixel(col, x, y)
		}
	}
}

func (c *PatternCore) emitAudio() {
	if c.audio == nil || c.sampleRate <= 0 {
		return
	}

	freq := toneBaseFrequency
	if c.buttons[ButtonA] {
		freq *= 1.5
	}
	if c.buttons[ButtonB] {
		freq *= 2
	}

	// samples per frame is fractional (48000 / 59.73); carry the remainder
	// so the long-run rate stays exact
	c.sampleDebt += float64(c.sampleRate) / timing.TargetFPS()
	n := int(c.sampleDebt)
	c.sampleDebt -= float64(n)

	step := 2 * math.Pi * freq / float64(c.sampleRate)
	for i := 0; i < n; i++ {
		s := float32(math.Sin(c.phase) * toneVolume)
		c.phase += step
		c.audio.PushSamples(s, s)
	}
	if c.phase > 2*math.Pi {
		c.phase = math.Mod(c.phase, 2*math.Pi)
	}
}

func (c *PatternCore) emitSerial() {
	if c.frame%serialReportFrames != 0 {
		return
	}
	for _, b := range []byte(fmt.Sprintf("frame %d\n", c.frame)) {
		c.serial.PutByte(b)
	}
}

var _ Core = (*PatternCore)(nil)
