package video

// Hardware resolution of the emulated display. Fixed at runtime.
const (
	FrameWidth  = 160
	FrameHeight = 144
)

// Color is a packed RGB pixel value (0x00RRGGBB).
type Color uint32

// Common shades for test patterns and fallback rendering.
const (
	White     Color = 0xFFFFFF
	LightGrey Color = 0x989898
	DarkGrey  Color = 0x4C4C4C
	Black     Color = 0x000000
)

// RGB splits the packed value into its 8-bit channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// FrameBuffer holds one complete frame of pixel data, row-major.
type FrameBuffer struct {
	pixels []Color
}

// NewFrameBuffer creates a frame buffer at the hardware resolution.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		pixels: make([]Color, FrameWidth*FrameHeight),
	}
}

func (fb *FrameBuffer) GetPixel(x, y int) Color {
	return fb.pixels[y*FrameWidth+x]
}

func (fb *FrameBuffer) SetPixel(x, y int, c Color) {
	fb.pixels[y*FrameWidth+x] = c
}

// ToSlice returns the underlying pixel data, row-major.
func (fb *FrameBuffer) ToSlice() []Color {
	return fb.pixels
}
