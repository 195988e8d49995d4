package video

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresenter struct {
	presented int
	lastFrame *FrameBuffer
	err       error
}

func (p *fakePresenter) Present(fb *FrameBuffer) error {
	p.presented++
	p.lastFrame = fb
	return p.err
}

func TestSink_WritesAccumulateUntilPresent(t *testing.T) {
	p := &fakePresenter{}
	s := NewSink(p)

	s.WritePixel(White, 0, 0)
	s.WritePixel(Black, FrameWidth-1, FrameHeight-1)
	assert.Zero(t, p.presented, "writes alone must not present")

	s.Present()
	require.Equal(t, 1, p.presented)
	assert.Equal(t, White, p.lastFrame.GetPixel(0, 0))
	assert.Equal(t, Black, p.lastFrame.GetPixel(FrameWidth-1, FrameHeight-1))
}

func TestSink_PresentOncePerFrame(t *testing.T) {
	p := &fakePresenter{}
	s := NewSink(p)

	for frame := 0; frame < 5; frame++ {
		s.WritePixel(DarkGrey, 10, 10)
		s.Present()
	}
	assert.Equal(t, 5, p.presented)
}

func TestSink_OutOfBoundsWritesAreDropped(t *testing.T) {
	p := &fakePresenter{}
	s := NewSink(p)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x at width", FrameWidth, 0},
		{"y at height", 0, FrameHeight},
		{"far out", 10000, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				s.WritePixel(White, tt.x, tt.y)
			})
		})
	}
	assert.Equal(t, uint64(len(tests)), s.DroppedWrites())

	// in-bounds writes still land
	s.WritePixel(LightGrey, 5, 5)
	assert.Equal(t, LightGrey, s.Frame().GetPixel(5, 5))
}

func TestSink_PresenterFailureIsRecorded(t *testing.T) {
	p := &fakePresenter{err: errors.New("device lost")}
	s := NewSink(p)

	s.Present()
	assert.ErrorContains(t, s.Err(), "device lost")

	// first failure is kept even if later presents succeed
	p.err = nil
	s.Present()
	assert.ErrorContains(t, s.Err(), "device lost")
}

func TestColor_RGB(t *testing.T) {
	r, g, b := Color(0x123456).RGB()
	assert.Equal(t, uint8(0x12), r)
	assert.Equal(t, uint8(0x34), g)
	assert.Equal(t, uint8(0x56), b)
}
