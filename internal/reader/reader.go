package reader

import (
	"github.com/rs/zerolog"

	"github.com/five-vee/disruptor-spinwait/internal/closer"
	"github.com/five-vee/disruptor-spinwait/internal/pad"
	"github.com/five-vee/disruptor-spinwait/wait"
)

// Upstream describes what a Reader waits behind.
type Upstream struct {
	// Cursor is the writer's cursor.
	Cursor wait.Sequence
	// Dependents are the cursors of the previous reader group.
	// Empty for readers that only follow the writer.
	Dependents []wait.Sequence
	// Barrier is alerted once the upstream is closed.
	Barrier wait.Barrier
	// Strategy waits for upstream progress.
	Strategy wait.Strategy
}

// Reader represents a single Reader of the ring buffer.
type Reader[T any] struct {
	upstream Upstream
	process  func(lower, upper int64)
	log      zerolog.Logger

	_      [64]byte
	cursor pad.Sequence
	closer closer.Closer
}

// NewSingleReader returns a Reader that passes items to f one at a time,
// along with its cursor and closed state.
func NewSingleReader[T any](upstream Upstream, f func(*T), buffer []T, log zerolog.Logger) (*Reader[T], *pad.Sequence, *closer.Closer) {
	mask := int64(len(buffer) - 1)
	process := func(lower, upper int64) {
		for seq := lower; seq <= upper; seq++ {
			f(&buffer[seq&mask])
		}
	}
	return newReader[T](upstream, process, log)
}

// NewBatchReader returns a Reader that passes items to f as (at most) two
// contiguous sub-slices of buffer, along with its cursor and closed state.
func NewBatchReader[T any](upstream Upstream, f func(ptrs [2]*T, lens [2]int), buffer []T, log zerolog.Logger) (*Reader[T], *pad.Sequence, *closer.Closer) {
	capacity := int64(len(buffer))
	mask := capacity - 1
	process := func(lower, upper int64) {
		var ptrs [2]*T
		var lens [2]int
		start := lower & mask
		n := upper - lower + 1
		first := min(n, capacity-start)
		ptrs[0], lens[0] = &buffer[start], int(first)
		if n > first {
			ptrs[1], lens[1] = &buffer[0], int(n-first)
		}
		f(ptrs, lens)
	}
	return newReader[T](upstream, process, log)
}

func newReader[T any](upstream Upstream, process func(lower, upper int64), log zerolog.Logger) (*Reader[T], *pad.Sequence, *closer.Closer) {
	r := &Reader[T]{
		upstream: upstream,
		process:  process,
		log:      log,
	}
	return r, &r.cursor, &r.closer
}

// LoopRead continuously reads messages.
// Blocks until the upstream is closed and everything it published is read.
func (r *Reader[T]) LoopRead() {
	defer r.closer.Close()
	up := r.upstream
	current := r.cursor.Load()
	r.log.Debug().Int64("sequence", current).Msg("reader started")
	for {
		available, err := up.Strategy.WaitFor(current+1, up.Cursor, up.Dependents, up.Barrier)
		if err != nil {
			// Upstream published its last item before closing.
			available = r.upstreamSequence()
			if available > current {
				r.process(current+1, available)
				r.cursor.Store(available)
				current = available
			}
			r.log.Debug().Int64("sequence", current).Err(err).Msg("reader drained")
			return
		}
		r.process(current+1, available)
		r.cursor.Store(available)
		current = available
	}
}

func (r *Reader[T]) upstreamSequence() int64 {
	if len(r.upstream.Dependents) == 0 {
		return r.upstream.Cursor.Load()
	}
	return wait.MinimumSequence(r.upstream.Dependents)
}
