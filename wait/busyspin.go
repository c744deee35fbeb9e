package wait

import (
	"runtime"
	"time"
)

// BusySpin is a Strategy that only ever issues the spin hint. It has the
// lowest wake-up latency and keeps a core fully busy while waiting.
type BusySpin struct{}

// WaitFor implements Strategy.
func (BusySpin) WaitFor(target int64, cursor Sequence, dependents []Sequence, barrier Barrier) (int64, error) {
	return waitFor(busySpin, target, cursor, dependents, barrier)
}

// WaitForTimeout implements Strategy.
func (BusySpin) WaitForTimeout(target int64, cursor Sequence, dependents []Sequence, barrier Barrier, timeout time.Duration) (int64, error) {
	return waitForTimeout(busySpin, target, cursor, dependents, barrier, timeout)
}

// SignalAllWhenBlocking implements Strategy.
func (BusySpin) SignalAllWhenBlocking() {}

func busySpin(counter int64) int64 {
	relax()
	return counter + 1
}

// yieldingSpinTries is how many polls Yielding spins before yielding.
const yieldingSpinTries = 100

// Yielding is a Strategy that spins for a while and then calls
// runtime.Gosched on every further failed poll.
type Yielding struct{}

// WaitFor implements Strategy.
func (Yielding) WaitFor(target int64, cursor Sequence, dependents []Sequence, barrier Barrier) (int64, error) {
	return waitFor(yielding, target, cursor, dependents, barrier)
}

// WaitForTimeout implements Strategy.
func (Yielding) WaitForTimeout(target int64, cursor Sequence, dependents []Sequence, barrier Barrier, timeout time.Duration) (int64, error) {
	return waitForTimeout(yielding, target, cursor, dependents, barrier, timeout)
}

// SignalAllWhenBlocking implements Strategy.
func (Yielding) SignalAllWhenBlocking() {}

func yielding(counter int64) int64 {
	if counter < yieldingSpinTries {
		relax()
		return counter + 1
	}
	runtime.Gosched()
	return counter
}
