// Package barrier turns the closed state of upstream stages into the
// cancellation signal observed by waiting readers.
package barrier

import "github.com/five-vee/disruptor-spinwait/wait"

// ClosedBarrier is a closed-status viewer.
type ClosedBarrier interface {
	IsClosed() bool
}

// CompositeClosedBarrier is closed when all barriers in its set are closed.
type CompositeClosedBarrier []ClosedBarrier

func (c CompositeClosedBarrier) IsClosed() bool {
	for _, b := range c {
		if !b.IsClosed() {
			return false
		}
	}
	return true
}

// Alert is a wait.Barrier that is alerted once its ClosedBarrier is closed.
type Alert struct {
	Closed ClosedBarrier
}

// CheckAlert returns wait.ErrAlerted once the upstream is closed.
func (a Alert) CheckAlert() error {
	if a.Closed.IsClosed() {
		return wait.ErrAlerted
	}
	return nil
}
