package wait

import (
	"runtime"
	"time"
)

// SpinWait is an adaptive Strategy. After SpinLimit bare spins it escalates
// to cooperative yields, interleaved with zero-duration and one millisecond
// sleeps on the Sleep0Interval and Sleep1Interval cadence (see NextAction).
//
// It never parks on a blocking primitive, so SignalAllWhenBlocking is a
// no-op. A SpinWait is safe for concurrent use; all backoff state lives in
// the individual wait call.
type SpinWait struct {
	spin   func()
	yield  func() bool
	sleep0 func()
	sleep1 func()
}

// SpinOption customizes a SpinWait.
type SpinOption func(*SpinWait)

// WithSpinHint overrides the busy-spin hint.
func WithSpinHint(spin func()) SpinOption {
	return func(s *SpinWait) { s.spin = spin }
}

// WithYield overrides the cooperative yield. yield reports whether another
// goroutine ran; on false the spin hint is issued as well.
// The default is runtime.Gosched, which cannot tell, and so reports false.
func WithYield(yield func() bool) SpinOption {
	return func(s *SpinWait) { s.yield = yield }
}

// WithSleep0 overrides the zero-duration sleep.
func WithSleep0(sleep0 func()) SpinOption {
	return func(s *SpinWait) { s.sleep0 = sleep0 }
}

// WithSleep1 overrides the one millisecond sleep.
func WithSleep1(sleep1 func()) SpinOption {
	return func(s *SpinWait) { s.sleep1 = sleep1 }
}

// NewSpinWait returns a SpinWait using the platform's default actions unless
// overridden by opts.
func NewSpinWait(opts ...SpinOption) *SpinWait {
	s := &SpinWait{
		spin: relax,
		yield: func() bool {
			runtime.Gosched()
			return false
		},
		sleep0: sleep0,
		sleep1: func() { time.Sleep(time.Millisecond) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WaitFor implements Strategy.
func (s *SpinWait) WaitFor(target int64, cursor Sequence, dependents []Sequence, barrier Barrier) (int64, error) {
	return waitFor(s.backoff, target, cursor, dependents, barrier)
}

// WaitForTimeout implements Strategy.
func (s *SpinWait) WaitForTimeout(target int64, cursor Sequence, dependents []Sequence, barrier Barrier, timeout time.Duration) (int64, error) {
	return waitForTimeout(s.backoff, target, cursor, dependents, barrier, timeout)
}

// SignalAllWhenBlocking implements Strategy. SpinWait never blocks.
func (*SpinWait) SignalAllWhenBlocking() {}

// backoff executes the action chosen by NextAction.
func (s *SpinWait) backoff(counter int64) int64 {
	action, next := NextAction(counter)
	switch action {
	case ActionSpin:
		s.spin()
	case ActionYield:
		if !s.yield() {
			s.spin()
		}
	case ActionSleep0:
		s.sleep0()
	case ActionSleep1:
		s.sleep1()
	}
	return next
}
