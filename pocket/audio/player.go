package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto context singleton, created on first player
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext(sampleRate int) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-readyChan
	})
	return otoCtx, otoInitErr
}

// Player owns the audio output device. oto pulls sample data on its own
// goroutine through queueReader; that goroutine is the queue's consumer
// side and runs at a cadence the audio subsystem controls, not this
// package.
type Player struct {
	player *oto.Player
}

// NewPlayer opens a 2-channel float32 output stream at the given rate,
// draining the queue. An unavailable or incompatible audio device is a
// startup failure and reported as an error.
func NewPlayer(q *Queue, sampleRate int) (*Player, error) {
	ctx, err := ensureOtoContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}

	p := ctx.NewPlayer(&queueReader{queue: q})
	p.Play()

	return &Player{player: p}, nil
}

// Close stops playback and releases the stream. The oto context itself is
// process-wide and stays open.
func (p *Player) Close() error {
	return p.player.Close()
}

// queueReader adapts the sample queue to the io.Reader oto pulls from.
// Read never returns io.EOF: when the queue runs dry the remainder is
// silence, matching the queue's zero-fill contract.
type queueReader struct {
	queue   *Queue
	scratch []float32
}

func (r *queueReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	if cap(r.scratch) < n {
		r.scratch = make([]float32, n)
	}
	buf := r.scratch[:n]
	r.queue.Fill(buf)

	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}
