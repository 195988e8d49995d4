package audio

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFloats(t *testing.T, r *queueReader, n int) []float32 {
	t.Helper()
	p := make([]byte, n*4)
	got, err := r.Read(p)
	require.NoError(t, err)
	require.Equal(t, len(p), got)

	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out
}

func TestQueueReader_DrainsQueueAsBytes(t *testing.T) {
	q := NewQueue(DefaultSampleRate, DefaultBufferDuration)
	q.Push(0.25, -0.25)
	q.Push(1, -1)

	r := &queueReader{queue: q}
	assert.Equal(t, []float32{0.25, -0.25, 1, -1}, readFloats(t, r, 4))
}

func TestQueueReader_SilenceWhenEmpty(t *testing.T) {
	q := NewQueue(DefaultSampleRate, DefaultBufferDuration)
	r := &queueReader{queue: q}

	// never EOF, never stale data: an empty queue reads as silence
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, readFloats(t, r, 6))
}

func TestQueueReader_PartialQueueZeroTail(t *testing.T) {
	q := NewQueue(1000, 100*time.Millisecond)
	q.Push(0.5, 0.5)

	r := &queueReader{queue: q}
	assert.Equal(t, []float32{0.5, 0.5, 0, 0}, readFloats(t, r, 4))
}

func TestQueueReader_ShortBuffer(t *testing.T) {
	q := NewQueue(1000, 100*time.Millisecond)
	r := &queueReader{queue: q}

	n, err := r.Read(make([]byte, 3))
	assert.NoError(t, err)
	assert.Zero(t, n)
}
