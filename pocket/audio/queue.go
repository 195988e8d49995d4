// Package audio implements the shared sample queue between the emulation
// thread and the audio output device, plus the device itself and an optional
// WAV capture tap.
package audio

import (
	"sync"
	"time"
)

const (
	// DefaultSampleRate is the output device rate the frontend asks for.
	DefaultSampleRate = 48000

	// DefaultBufferDuration bounds the queue: at most this much audio may
	// be waiting for the device before new samples are dropped.
	DefaultBufferDuration = 300 * time.Millisecond
)

// Queue is a growth-bounded FIFO of interleaved stereo float32 samples.
//
// The emulation thread is the sole producer (Push) and the audio device
// goroutine the sole consumer (Fill). A single mutex guards the sample
// slice; it is held only for the append or copy, never across I/O, so
// neither side can stall the other beyond a memory operation.
//
// Backpressure is lossy by design: when the queue is at capacity the newest
// incoming pair is discarded, never an older one. The producer must stay
// real time, so it is never allowed to block waiting for the device; a
// short audible discontinuity under sustained consumer lag is the accepted
// cost of bounding memory.
type Queue struct {
	mu         sync.Mutex
	samples    []float32 // interleaved L,R; length always even
	maxSamples int
	dropped    uint64
}

// NewQueue creates a queue bounded to the given duration of audio at the
// given device sample rate.
func NewQueue(sampleRate int, bound time.Duration) *Queue {
	pairs := int(int64(sampleRate) * int64(bound) / int64(time.Second))
	if pairs < 1 {
		pairs = 1
	}
	return &Queue{
		samples:    make([]float32, 0, pairs*2),
		maxSamples: pairs * 2,
	}
}

// Push appends one stereo pair, or silently drops it if the queue is at
// capacity. Never blocks.
func (q *Queue) Push(left, right float32) {
	q.mu.Lock()
	if len(q.samples)+2 > q.maxSamples {
		q.dropped++
		q.mu.Unlock()
		return
	}
	q.samples = append(q.samples, left, right)
	q.mu.Unlock()
}

// Fill populates out with queued samples in FIFO order, removing them from
// the queue. Any tail of out the queue cannot cover is zero-filled, so the
// device never plays stale or uninitialized data. Only whole stereo pairs
// are taken, so an odd-length out can never swap the channels of whatever
// remains queued. Returns the number of samples taken from the queue.
func (q *Queue) Fill(out []float32) int {
	q.mu.Lock()
	n := copy(out[:len(out)&^1], q.samples)
	remaining := copy(q.samples, q.samples[n:])
	q.samples = q.samples[:remaining]
	q.mu.Unlock()

	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	return n
}

// Buffered returns the number of samples currently queued.
func (q *Queue) Buffered() int {
	q.mu.Lock()
	n := len(q.samples)
	q.mu.Unlock()
	return n
}

// BufferedPairs returns the number of stereo pairs currently queued.
func (q *Queue) BufferedPairs() int {
	return q.Buffered() / 2
}

// Dropped returns the number of pairs discarded by the overflow policy.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	n := q.dropped
	q.mu.Unlock()
	return n
}

// PushSamples implements the core's audio capability.
func (q *Queue) PushSamples(left, right float32) {
	q.Push(left, right)
}
