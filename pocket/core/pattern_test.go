package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucav/go-pocket/pocket/timing"
	"github.com/lucav/go-pocket/pocket/video"
)

type captureScreen struct {
	writes   int
	presents int
	oob      int
}

func (s *captureScreen) WritePixel(c video.Color, x, y int) {
	s.writes++
	if x < 0 || x >= video.FrameWidth || y < 0 || y >= video.FrameHeight {
		s.oob++
	}
}

func (s *captureScreen) Present() { s.presents++ }

type captureSerial struct{ bytes []byte }

func (s *captureSerial) PutByte(b byte) { s.bytes = append(s.bytes, b) }

type captureAudio struct{ pairs int }

func (a *captureAudio) PushSamples(left, right float32) { a.pairs++ }

func TestPatternCore_OneFullFramePerStep(t *testing.T) {
	screen := &captureScreen{}
	c, err := NewPatternCore(nil, screen, &captureSerial{}, nil, 48000)
	require.NoError(t, err)

	require.NoError(t, c.Step())

	assert.Equal(t, video.FrameWidth*video.FrameHeight, screen.writes)
	assert.Equal(t, 1, screen.presents)
	assert.Zero(t, screen.oob, "a conformant core never writes out of bounds")
}

func TestPatternCore_AudioRateMatchesFrameRate(t *testing.T) {
	screen := &captureScreen{}
	audio := &captureAudio{}
	c, err := NewPatternCore(nil, screen, &captureSerial{}, audio, 48000)
	require.NoError(t, err)

	const frames = 600 // ~10s of emulated time
	for i := 0; i < frames; i++ {
		require.NoError(t, c.Step())
	}

	expected := int(float64(frames) * 48000 / timing.TargetFPS())
	assert.InDelta(t, expected, audio.pairs, 1, "fractional samples per frame must not drift")
}

func TestPatternCore_SerialReportsPeriodically(t *testing.T) {
	screen := &captureScreen{}
	ser := &captureSerial{}
	c, err := NewPatternCore(nil, screen, ser, nil, 48000)
	require.NoError(t, err)

	for i := 0; i < 120; i++ {
		require.NoError(t, c.Step())
	}

	lines := strings.Split(strings.TrimSuffix(string(ser.bytes), "\n"), "\n")
	assert.Equal(t, []string{"frame 60", "frame 120"}, lines)
}

func TestPatternCore_ButtonsChangeOutput(t *testing.T) {
	screen := &captureScreen{}
	audio := &captureAudio{}
	c, err := NewPatternCore(nil, screen, &captureSerial{}, audio, 48000)
	require.NoError(t, err)

	// button state is level sampled; setting and clearing must not accumulate
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonA, false)
	require.NoError(t, c.Step())
	assert.Equal(t, 1, screen.presents)
}

func TestPatternCore_NilAudioIsAllowed(t *testing.T) {
	c, err := NewPatternCore(nil, &captureScreen{}, &captureSerial{}, nil, 48000)
	require.NoError(t, err)
	assert.NotPanics(t, func() { c.Step() })
}

func TestPatternCore_RequiresScreenAndSerial(t *testing.T) {
	_, err := NewPatternCore(nil, nil, &captureSerial{}, nil, 48000)
	assert.Error(t, err)

	_, err = NewPatternCore(nil, &captureScreen{}, nil, nil, 48000)
	assert.Error(t, err)
}

func TestPatternCore_FrameInterval(t *testing.T) {
	c, err := NewPatternCore(nil, &captureScreen{}, &captureSerial{}, nil, 48000)
	require.NoError(t, err)
	assert.Equal(t, timing.FrameDuration(), c.FrameInterval())
}

func TestButton_String(t *testing.T) {
	assert.Equal(t, "A", ButtonA.String())
	assert.Equal(t, "Select", ButtonSelect.String())
	assert.Equal(t, "Right", ButtonRight.String())
	assert.Len(t, Buttons(), 8)
}
