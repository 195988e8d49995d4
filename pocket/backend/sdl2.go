//go:build sdl2

package backend

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/lucav/go-pocket/pocket/core"
	"github.com/lucav/go-pocket/pocket/input"
	"github.com/lucav/go-pocket/pocket/video"
)

const (
	defaultScale  = 4
	bytesPerPixel = 4
)

// sdlKeys maps SDL scancodes to logical buttons. Scancodes are sampled as
// level state from the keyboard snapshot, not from key events, which gives
// the frame loop exactly the down/up levels it wants.
var sdlKeys = map[sdl.Scancode]core.Button{
	sdl.SCANCODE_A:      core.ButtonA,
	sdl.SCANCODE_S:      core.ButtonB,
	sdl.SCANCODE_TAB:    core.ButtonSelect,
	sdl.SCANCODE_RETURN: core.ButtonStart,
	sdl.SCANCODE_UP:     core.ButtonUp,
	sdl.SCANCODE_DOWN:   core.ButtonDown,
	sdl.SCANCODE_LEFT:   core.ButtonLeft,
	sdl.SCANCODE_RIGHT:  core.ButtonRight,
}

// SDL2Backend implements Backend with an SDL window and streaming texture.
// Building this requires SDL2 development libraries; default builds use the
// stub instead, see build tags (sdl2).
type SDL2Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	closing  bool

	pixels []byte
}

// NewSDL2Backend creates a new SDL2 backend.
func NewSDL2Backend() *SDL2Backend {
	return &SDL2Backend{}
}

func (s *SDL2Backend) Init(config Config) error {
	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FrameWidth*scale),
		int32(video.FrameHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FrameWidth,
		video.FrameHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture
	s.pixels = make([]byte, video.FrameWidth*video.FrameHeight*bytesPerPixel)

	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

func (s *SDL2Backend) Present(fb *video.FrameBuffer) error {
	frameData := fb.ToSlice()

	for i, c := range frameData {
		r, g, b := c.RGB()
		dst := i * bytesPerPixel
		// ABGR byte order for little-endian RGBA8888
		s.pixels[dst] = 0xFF
		s.pixels[dst+1] = b
		s.pixels[dst+2] = g
		s.pixels[dst+3] = r
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FrameWidth*bytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}
	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

func (s *SDL2Backend) Poll() input.State {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.closing = true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				s.closing = true
			}
		}
	}

	var st input.State
	keyboard := sdl.GetKeyboardState()
	for sc, b := range sdlKeys {
		st.Set(b, keyboard[sc] != 0)
	}
	return st
}

func (s *SDL2Backend) ShouldClose() bool {
	return s.closing
}

func (s *SDL2Backend) Cleanup() error {
	slog.Info("cleaning up SDL2 backend")
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

var _ Backend = (*SDL2Backend)(nil)
