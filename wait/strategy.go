package wait

import "time"

// Strategy is the contract a consumer uses to wait for a sequence to become
// available. Producers call SignalAllWhenBlocking after advancing the cursor
// without needing to know which strategy is in use.
type Strategy interface {
	// WaitFor blocks until the gating value is >= target and returns it.
	// The gating value is cursor when dependents is empty and the minimum
	// of dependents otherwise. The only error is the one returned by
	// barrier.CheckAlert, which is passed through unmodified.
	WaitFor(target int64, cursor Sequence, dependents []Sequence, barrier Barrier) (int64, error)

	// WaitForTimeout is WaitFor bounded by timeout. Elapsing the timeout is
	// not an error: the last observed gating value is returned, and the
	// caller compares it against target.
	WaitForTimeout(target int64, cursor Sequence, dependents []Sequence, barrier Barrier, timeout time.Duration) (int64, error)

	// SignalAllWhenBlocking wakes consumers parked on a blocking primitive.
	SignalAllWhenBlocking()
}

// gate returns the value a consumer is gated on.
func gate(cursor Sequence, dependents []Sequence) int64 {
	if len(dependents) == 0 {
		return cursor.Load()
	}
	return MinimumSequence(dependents)
}

// backoffFunc performs one backoff step for the given attempt counter and
// returns the advanced counter.
type backoffFunc func(counter int64) int64

// waitFor is the unbounded wait loop shared by every non-blocking strategy.
// The barrier is checked before every backoff step, whatever the counter.
func waitFor(backoff backoffFunc, target int64, cursor Sequence, dependents []Sequence, barrier Barrier) (int64, error) {
	var counter int64
	available := gate(cursor, dependents)
	for available < target {
		if err := barrier.CheckAlert(); err != nil {
			return available, err
		}
		counter = backoff(counter)
		available = gate(cursor, dependents)
	}
	return available, nil
}

// waitForTimeout is waitFor with a soft wall-clock bound checked after each
// backoff step.
func waitForTimeout(backoff backoffFunc, target int64, cursor Sequence, dependents []Sequence, barrier Barrier, timeout time.Duration) (int64, error) {
	start := time.Now()
	var counter int64
	available := gate(cursor, dependents)
	for available < target {
		if err := barrier.CheckAlert(); err != nil {
			return available, err
		}
		counter = backoff(counter)
		if time.Since(start) > timeout {
			break
		}
		available = gate(cursor, dependents)
	}
	return available, nil
}

var (
	_ Strategy = (*SpinWait)(nil)
	_ Strategy = BusySpin{}
	_ Strategy = Yielding{}
)
