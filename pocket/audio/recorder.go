package audio

import (
	"fmt"
	"log/slog"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/lucav/go-pocket/pocket/core"
)

const recorderFlushSamples = 8192

// Recorder captures pushed samples to a 16-bit stereo WAV file. It is a
// diagnostic tap on the producer side: it records what the core emitted,
// before the queue's drop policy, so captures are gap-free even when
// playback is lagging. Write failures disable the capture but never
// disturb emulation.
type Recorder struct {
	f      *os.File
	enc    *wav.Encoder
	buf    []int
	rate   int
	failed bool
}

// NewRecorder creates a WAV capture at the given path.
func NewRecorder(path string, sampleRate int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create wav capture: %w", err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	return &Recorder{
		f:    f,
		enc:  enc,
		buf:  make([]int, 0, recorderFlushSamples),
		rate: sampleRate,
	}, nil
}

// PushSamples appends one stereo pair to the capture.
func (r *Recorder) PushSamples(left, right float32) {
	if r.failed {
		return
	}
	r.buf = append(r.buf, floatToPCM16(left), floatToPCM16(right))
	if len(r.buf) >= recorderFlushSamples {
		r.flush()
	}
}

// Close flushes pending samples and finalizes the WAV header.
func (r *Recorder) Close() error {
	r.flush()
	if err := r.enc.Close(); err != nil {
		r.f.Close()
		return fmt.Errorf("failed to finalize wav capture: %w", err)
	}
	return r.f.Close()
}

func (r *Recorder) flush() {
	if r.failed || len(r.buf) == 0 {
		return
	}
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 2, SampleRate: r.rate},
		Data:           r.buf,
		SourceBitDepth: 16,
	}
	if err := r.enc.Write(buf); err != nil {
		r.failed = true
		slog.Warn("wav capture write failed, capture disabled", "error", err)
	}
	r.buf = r.buf[:0]
}

func floatToPCM16(s float32) int {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int(s * 32767)
}

// Tee fans PushSamples out to several outputs, e.g. the playback queue and
// a WAV capture.
type Tee []core.AudioOutput

func (t Tee) PushSamples(left, right float32) {
	for _, out := range t {
		out.PushSamples(left, right)
	}
}

var (
	_ core.AudioOutput = (*Queue)(nil)
	_ core.AudioOutput = (*Recorder)(nil)
	_ core.AudioOutput = (Tee)(nil)
)
