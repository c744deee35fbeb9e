package pad

import (
	"sync/atomic"

	"github.com/five-vee/disruptor-spinwait/wait"
)

// Sequence is an atomic 64-bit sequence that is padded
// to prevent false sharing. Its zero value is sequence 0,
// which precedes the first published slot.
type Sequence struct {
	atomic.Int64
	_ [56]byte
}

var _ wait.Sequence = (*Sequence)(nil)

// Int64 is a int64 padded to prevent false sharing.
// Used for values cached by a single goroutine.
type Int64 struct {
	Val int64
	_   [56]byte
}
