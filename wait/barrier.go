package wait

import "errors"

// ErrAlerted is the cancellation signal raised once the pipeline has been
// told to stop.
var ErrAlerted = errors.New("wait: barrier alerted")

// Barrier is the coordination object through which a waiting consumer
// observes cancellation.
type Barrier interface {
	// CheckAlert returns a non-nil error once the pipeline has been
	// signaled to stop. The flag is never reset.
	CheckAlert() error
}

// BarrierFunc adapts an ordinary function to a Barrier.
type BarrierFunc func() error

// CheckAlert calls f.
func (f BarrierFunc) CheckAlert() error {
	return f()
}

// noAlert is a Barrier that is never alerted.
type noAlert struct{}

func (noAlert) CheckAlert() error { return nil }

// NeverAlerted returns a Barrier that never signals cancellation.
func NeverAlerted() Barrier {
	return noAlert{}
}
