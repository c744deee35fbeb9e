package closer

import "sync/atomic"

const (
	open   = 0
	closed = 1
)

// Closer is a one-shot shutdown flag.
// Its zero-value represents the open state; once closed it stays closed.
type Closer struct {
	x atomic.Int64
	_ [56]byte
}

// IsClosed returns true if Close has been called.
func (c *Closer) IsClosed() bool {
	return c.x.Load() == closed
}

// Close sets the state to closed.
// It reports whether this call performed the transition.
func (c *Closer) Close() bool {
	return c.x.CompareAndSwap(open, closed)
}
