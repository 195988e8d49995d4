// Package pocket drives an emulation core in real time: one core step per
// frame, host input fed back between steps, and a pacing sleep keeping the
// loop synchronized to the display refresh while the audio device drains
// the shared sample queue on its own goroutine.
package pocket

import (
	"fmt"
	"log/slog"

	"github.com/lucav/go-pocket/pocket/audio"
	"github.com/lucav/go-pocket/pocket/backend"
	"github.com/lucav/go-pocket/pocket/core"
	"github.com/lucav/go-pocket/pocket/input"
	"github.com/lucav/go-pocket/pocket/serial"
	"github.com/lucav/go-pocket/pocket/timing"
	"github.com/lucav/go-pocket/pocket/video"
)

// RunnerConfig wires a Runner. Core, Screen, Serial, Source and Limiter are
// required; the rest are optional resources the Runner releases at
// shutdown.
type RunnerConfig struct {
	Core    core.Core
	Screen  *video.Sink
	Serial  *serial.Sink
	Source  input.Source
	Limiter timing.Limiter

	// Player and Recorder are closed during shutdown when present.
	Player   *audio.Player
	Recorder *audio.Recorder

	// Backend, when set, gets its Cleanup call as the last shutdown step.
	// Typically the same object as Source and the Screen's presenter.
	Backend backend.Backend
}

// Runner is the frame pacing controller. Each iteration runs exactly one
// core step (which synchronously drives the video, serial and audio sinks),
// samples host input, and sleeps off whatever remains of the frame
// interval. It never skips or doubles steps to catch up: a slow iteration
// simply proceeds without sleeping.
type Runner struct {
	core    core.Core
	screen  *video.Sink
	serial  *serial.Sink
	sampler *input.Sampler
	source  input.Source
	limiter timing.Limiter

	player   *audio.Player
	recorder *audio.Recorder
	backend  backend.Backend

	frames uint64
}

// NewRunner validates the configuration and builds a Runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Core == nil {
		return nil, fmt.Errorf("runner requires a core")
	}
	if cfg.Screen == nil {
		return nil, fmt.Errorf("runner requires a video sink")
	}
	if cfg.Serial == nil {
		return nil, fmt.Errorf("runner requires a serial sink")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("runner requires an input source")
	}
	if cfg.Limiter == nil {
		return nil, fmt.Errorf("runner requires a limiter")
	}
	return &Runner{
		core:     cfg.Core,
		screen:   cfg.Screen,
		serial:   cfg.Serial,
		sampler:  input.NewSampler(cfg.Source),
		source:   cfg.Source,
		limiter:  cfg.Limiter,
		player:   cfg.Player,
		recorder: cfg.Recorder,
		backend:  cfg.Backend,
	}, nil
}

// Run executes the main loop until the input source reports a close request
// or the core fails. The close signal is checked once per iteration, after
// the iteration completes; it is never allowed to interrupt a step halfway.
// Run always executes the shutdown sequence before returning.
func (r *Runner) Run() error {
	defer r.shutdown()

	r.limiter.Reset()
	for !r.source.ShouldClose() {
		r.limiter.BeginFrame()

		// one step per iteration, no more, no less
		if err := r.core.Step(); err != nil {
			return fmt.Errorf("emulation step failed: %w", err)
		}
		if err := r.screen.Err(); err != nil {
			return fmt.Errorf("frame presentation failed: %w", err)
		}

		r.sampler.Sample(r.core)
		r.limiter.WaitForNextFrame()
		r.frames++
	}

	slog.Info("close requested, stopping", "frames", r.frames)
	return nil
}

// Frames returns the number of completed iterations.
func (r *Runner) Frames() uint64 {
	return r.frames
}

// shutdown releases owned resources in a fixed order: the audio stream
// first so its goroutine stops touching the queue, then the capture and
// serial files so they are flushed to disk, and the host backend last.
// Failures here are reported, not returned: the loop's verdict is already
// decided.
func (r *Runner) shutdown() {
	if r.player != nil {
		if err := r.player.Close(); err != nil {
			slog.Warn("failed to close audio stream", "error", err)
		}
	}
	if r.recorder != nil {
		if err := r.recorder.Close(); err != nil {
			slog.Warn("failed to close wav capture", "error", err)
		}
	}
	if err := r.serial.Close(); err != nil {
		slog.Warn("failed to close serial log", "error", err)
	}
	if r.backend != nil {
		if err := r.backend.Cleanup(); err != nil {
			slog.Warn("backend cleanup failed", "error", err)
		}
	}
	if dropped := r.screen.DroppedWrites(); dropped > 0 {
		slog.Warn("core issued out of bounds pixel writes", "count", dropped)
	}
}

var _ core.Screen = (*video.Sink)(nil)
