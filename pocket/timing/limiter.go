package timing

import "time"

// Hardware timing constants for the emulated handheld.
const (
	CyclesPerFrame = 70224
	CPUFrequency   = 4194304
)

// TargetFPS calculates the exact hardware frame rate (~59.73 fps).
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// Limiter paces the frame loop to real time.
//
// BeginFrame marks the start of an iteration; WaitForNextFrame measures the
// elapsed wall time and blocks for the remainder of the frame interval, or
// returns immediately if the iteration already ran over budget. The loop
// self-throttles but never catches up by skipping frames.
type Limiter interface {
	BeginFrame()
	WaitForNextFrame()
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) BeginFrame()       {}
func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// SleepLimiter paces frames with a plain blocking sleep. A sleep rather than
// a busy-wait matters here: spinning would starve the audio device goroutine
// on low-core hosts.
type SleepLimiter struct {
	interval   time.Duration
	frameStart time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// NewSleepLimiter creates a limiter targeting the given frame interval.
func NewSleepLimiter(interval time.Duration) *SleepLimiter {
	return &SleepLimiter{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

func (l *SleepLimiter) BeginFrame() {
	l.frameStart = l.now()
}

func (l *SleepLimiter) WaitForNextFrame() {
	if l.frameStart.IsZero() {
		return
	}
	elapsed := l.now().Sub(l.frameStart)
	if remaining := l.interval - elapsed; remaining > 0 {
		l.sleep(remaining)
	}
}

func (l *SleepLimiter) Reset() {
	l.frameStart = time.Time{}
}

var _ Limiter = (*SleepLimiter)(nil)
