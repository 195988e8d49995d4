package backend

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lucav/go-pocket/pocket/core"
	"github.com/lucav/go-pocket/pocket/input"
	"github.com/lucav/go-pocket/pocket/video"
)

// keyTimeout approximates level state over terminal key events: terminals
// only report presses (via autorepeat), never releases, so a button is
// considered held while events keep arriving within this window.
const keyTimeout = 100 * time.Millisecond

// terminalKeys maps tcell rune keys to logical buttons.
var terminalKeys = map[rune]core.Button{
	'a': core.ButtonA,
	's': core.ButtonB,
	'q': core.ButtonSelect,
}

// TerminalBackend renders frames into the terminal with tcell half-block
// cells, two pixels per cell.
type TerminalBackend struct {
	screen  tcell.Screen
	closing bool

	// last time each button's key event was seen
	keySeen map[core.Button]time.Time

	sigCh chan os.Signal
}

// NewTerminalBackend creates a terminal backend.
func NewTerminalBackend() *TerminalBackend {
	return &TerminalBackend{
		keySeen: make(map[core.Button]time.Time),
	}
}

func (t *TerminalBackend) Init(config Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen = screen

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("terminal backend initialized", "title", config.Title)
	return nil
}

// Present draws the frame using the upper-half-block glyph: the cell's
// foreground carries the top pixel, the background the bottom one, halving
// the vertical footprint.
func (t *TerminalBackend) Present(fb *video.FrameBuffer) error {
	for y := 0; y < video.FrameHeight; y += 2 {
		for x := 0; x < video.FrameWidth; x++ {
			top := toTcellColor(fb.GetPixel(x, y))
			bottom := tcell.ColorBlack
			if y+1 < video.FrameHeight {
				bottom = toTcellColor(fb.GetPixel(x, y+1))
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// Poll drains pending terminal events and returns the button level state,
// expiring buttons whose key events have gone quiet.
func (t *TerminalBackend) Poll() input.State {
	select {
	case <-t.sigCh:
		t.closing = true
	default:
	}

	now := time.Now()
	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	var st input.State
	for b, seen := range t.keySeen {
		if now.Sub(seen) < keyTimeout {
			st.Set(b, true)
		} else {
			delete(t.keySeen, b)
		}
	}
	return st
}

func (t *TerminalBackend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.closing = true
	case tcell.KeyEnter:
		t.keySeen[core.ButtonStart] = now
	case tcell.KeyUp:
		t.keySeen[core.ButtonUp] = now
	case tcell.KeyDown:
		t.keySeen[core.ButtonDown] = now
	case tcell.KeyLeft:
		t.keySeen[core.ButtonLeft] = now
	case tcell.KeyRight:
		t.keySeen[core.ButtonRight] = now
	case tcell.KeyTab:
		t.keySeen[core.ButtonSelect] = now
	case tcell.KeyRune:
		if b, ok := terminalKeys[ev.Rune()]; ok {
			t.keySeen[b] = now
		}
	}
}

func (t *TerminalBackend) ShouldClose() bool {
	return t.closing
}

func (t *TerminalBackend) Cleanup() error {
	if t.screen != nil {
		slog.Info("cleaning up terminal backend")
		signal.Stop(t.sigCh)
		t.screen.Fini()
	}
	return nil
}

func toTcellColor(c video.Color) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

var _ Backend = (*TerminalBackend)(nil)
