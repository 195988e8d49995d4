package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/lucav/go-pocket/pocket"
	"github.com/lucav/go-pocket/pocket/audio"
	"github.com/lucav/go-pocket/pocket/backend"
	"github.com/lucav/go-pocket/pocket/core"
	"github.com/lucav/go-pocket/pocket/romloader"
	"github.com/lucav/go-pocket/pocket/serial"
	"github.com/lucav/go-pocket/pocket/timing"
	"github.com/lucav/go-pocket/pocket/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "pocket"
	app.Description = "A real-time frontend for a handheld console emulation core"
	app.Usage = "pocket [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "backend",
			Usage: "Display backend: terminal, sdl2 or headless",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.StringFlag{
			Name:  "serial-log",
			Usage: "Path of the append-only serial output log",
			Value: filepath.Join(os.TempDir(), "pocket_serial.log"),
		},
		cli.StringFlag{
			Name:  "record-wav",
			Usage: "Capture emitted audio samples to a WAV file",
		},
		cli.BoolFlag{
			Name:  "mute",
			Usage: "Disable audio output",
		},
		cli.IntFlag{
			Name:  "audio-buffer-ms",
			Usage: "Bound on queued audio, in milliseconds",
			Value: int(audio.DefaultBufferDuration / time.Millisecond),
		},
		cli.Float64Flag{
			Name:  "fps",
			Usage: "Override the target frame rate (0 = hardware rate)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the SDL2 backend",
			Value: 4,
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if c.NArg() < 1 {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}
	rom, romName, err := romloader.Load(c.Args().Get(0))
	if err != nil {
		return err
	}
	slog.Info("loaded ROM", "name", romName, "size", len(rom))

	var b backend.Backend
	headless := false
	switch c.String("backend") {
	case "terminal":
		b = backend.NewTerminalBackend()
	case "sdl2":
		b = backend.NewSDL2Backend()
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		b = backend.NewHeadlessBackend(frames)
		headless = true
	default:
		return fmt.Errorf("unknown backend %q", c.String("backend"))
	}

	if err := b.Init(backend.Config{Title: "pocket - " + romName, Scale: c.Int("scale")}); err != nil {
		return err
	}

	screen := video.NewSink(b)

	serialSink, err := serial.NewSink(afero.NewOsFs(), c.String("serial-log"))
	if err != nil {
		b.Cleanup()
		return err
	}

	var (
		outputs  audio.Tee
		player   *audio.Player
		recorder *audio.Recorder
	)
	if !c.Bool("mute") && !headless {
		bound := time.Duration(c.Int("audio-buffer-ms")) * time.Millisecond
		queue := audio.NewQueue(audio.DefaultSampleRate, bound)
		player, err = audio.NewPlayer(queue, audio.DefaultSampleRate)
		if err != nil {
			serialSink.Close()
			b.Cleanup()
			return err
		}
		outputs = append(outputs, queue)
	}
	if path := c.String("record-wav"); path != "" {
		recorder, err = audio.NewRecorder(path, audio.DefaultSampleRate)
		if err != nil {
			if player != nil {
				player.Close()
			}
			serialSink.Close()
			b.Cleanup()
			return err
		}
		outputs = append(outputs, recorder)
	}
	var audioOut core.AudioOutput
	if len(outputs) > 0 {
		audioOut = outputs
	}

	unwind := func() {
		if player != nil {
			player.Close()
		}
		if recorder != nil {
			recorder.Close()
		}
		serialSink.Close()
		b.Cleanup()
	}

	// The synthetic core stands in for a real hardware core; any
	// implementation of core.Core plugs in here.
	emuCore, err := core.NewPatternCore(rom, screen, serialSink, audioOut, audio.DefaultSampleRate)
	if err != nil {
		unwind()
		return err
	}

	var limiter timing.Limiter
	if headless {
		limiter = timing.NewNoOpLimiter()
	} else {
		interval := emuCore.FrameInterval()
		if fps := c.Float64("fps"); fps > 0 {
			interval = time.Duration(float64(time.Second) / fps)
		}
		limiter = timing.NewSleepLimiter(interval)
	}

	runner, err := pocket.NewRunner(pocket.RunnerConfig{
		Core:     emuCore,
		Screen:   screen,
		Serial:   serialSink,
		Source:   b,
		Limiter:  limiter,
		Player:   player,
		Recorder: recorder,
		Backend:  b,
	})
	if err != nil {
		unwind()
		return err
	}

	return runner.Run()
}
