package audio

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushAndFill(t *testing.T) {
	q := NewQueue(DefaultSampleRate, DefaultBufferDuration)

	q.Push(0.1, 0.2)
	q.Push(0.3, 0.4)
	assert.Equal(t, 4, q.Buffered())
	assert.Equal(t, 2, q.BufferedPairs())

	out := make([]float32, 4)
	n := q.Fill(out)
	assert.Equal(t, 4, n)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, out)
	assert.Equal(t, 0, q.Buffered())
}

func TestQueue_FillZeroFillsTail(t *testing.T) {
	q := NewQueue(DefaultSampleRate, DefaultBufferDuration)
	q.Push(0.5, -0.5)

	// poison the output buffer to prove the tail is overwritten
	out := []float32{9, 9, 9, 9, 9, 9}
	n := q.Fill(out)

	assert.Equal(t, 2, n)
	assert.Equal(t, []float32{0.5, -0.5, 0, 0, 0, 0}, out)
}

func TestQueue_FillFIFOOrderAcrossCalls(t *testing.T) {
	q := NewQueue(DefaultSampleRate, DefaultBufferDuration)
	for i := 0; i < 6; i++ {
		q.Push(float32(i), float32(-i))
	}

	out := make([]float32, 4)
	q.Fill(out)
	assert.Equal(t, []float32{0, 0, 1, -1}, out)

	q.Fill(out)
	assert.Equal(t, []float32{2, -2, 3, -3}, out)

	q.Fill(out)
	assert.Equal(t, []float32{4, -4, 5, -5}, out)
}

func TestQueue_BoundNeverExceeded(t *testing.T) {
	// 300ms at 48kHz is 14400 pairs
	q := NewQueue(48000, 300*time.Millisecond)

	for i := 0; i < 20000; i++ {
		q.Push(1, 1)
	}

	assert.Equal(t, 14400, q.BufferedPairs())
	assert.Equal(t, uint64(20000-14400), q.Dropped())
}

func TestQueue_DropsNewestNotOldest(t *testing.T) {
	q := NewQueue(1000, 2*time.Millisecond) // 2 pairs

	q.Push(1, 1)
	q.Push(2, 2)
	q.Push(3, 3) // dropped: queue already at capacity

	out := make([]float32, 4)
	q.Fill(out)
	assert.Equal(t, []float32{1, 1, 2, 2}, out, "oldest pairs must survive an overflow")
	assert.Equal(t, uint64(1), q.Dropped())
}

func TestQueue_PushResumesAfterDrain(t *testing.T) {
	q := NewQueue(1000, 2*time.Millisecond) // 2 pairs

	q.Push(1, 1)
	q.Push(2, 2)
	q.Push(3, 3) // no-op at capacity
	require.Equal(t, 2, q.BufferedPairs())

	out := make([]float32, 2)
	q.Fill(out) // drains one pair

	q.Push(4, 4)
	assert.Equal(t, 2, q.BufferedPairs())

	out = make([]float32, 4)
	q.Fill(out)
	assert.Equal(t, []float32{2, 2, 4, 4}, out)
}

func TestQueue_LengthAlwaysEven(t *testing.T) {
	q := NewQueue(1000, 10*time.Millisecond)
	for i := 0; i < 25; i++ {
		q.Push(0, 0)
		assert.Zero(t, q.Buffered()%2)
	}
	out := make([]float32, 6)
	q.Fill(out)
	assert.Zero(t, q.Buffered()%2)

	// an odd-length destination must not split a pair
	odd := make([]float32, 5)
	n := q.Fill(odd)
	assert.Equal(t, 4, n)
	assert.Zero(t, odd[4])
	assert.Zero(t, q.Buffered()%2)
}

func TestQueue_TinyBoundStillHoldsOnePair(t *testing.T) {
	q := NewQueue(1000, 0)
	q.Push(1, 2)
	assert.Equal(t, 1, q.BufferedPairs())
}

func TestQueue_ConcurrentPushAndFill(t *testing.T) {
	q := NewQueue(48000, 10*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 50000; i++ {
			q.Push(float32(i), float32(i))
		}
	}()

	drained := 0
	go func() {
		defer wg.Done()
		out := make([]float32, 256)
		for i := 0; i < 1000; i++ {
			drained += q.Fill(out)
		}
	}()

	wg.Wait()

	assert.Zero(t, q.Buffered()%2)
	assert.LessOrEqual(t, q.BufferedPairs(), 480)
	// every pushed pair was either drained, still queued, or dropped
	assert.Equal(t, 50000, drained/2+q.BufferedPairs()+int(q.Dropped()))
}
