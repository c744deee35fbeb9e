package disruptor

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/five-vee/disruptor-spinwait/internal/barrier"
	"github.com/five-vee/disruptor-spinwait/internal/closer"
	"github.com/five-vee/disruptor-spinwait/internal/pad"
	"github.com/five-vee/disruptor-spinwait/internal/reader"
	"github.com/five-vee/disruptor-spinwait/wait"
)

var (
	// ErrCapacity is the error corresponding to wrong capacity.
	ErrCapacity = fmt.Errorf("capacity must be a power of two")

	// ErrMissingReaderGroup is the error corresponding to missing
	// reader group(s).
	ErrMissingReaderGroup = fmt.Errorf("missing reader group(s)")

	// ErrEmptyReaderGroup is the error corresponding to an empty
	// reader group.
	ErrEmptyReaderGroup = fmt.Errorf("reader group is empty")

	// ErrNilWaitStrategy is the error corresponding to a nil
	// wait strategy.
	ErrNilWaitStrategy = fmt.Errorf("wait strategy is nil")

	// ErrReaderType is the error corresponding to a ReaderFunc
	// built for a different item type.
	ErrReaderType = fmt.Errorf("reader func item type does not match disruptor")
)

// Builder builds a disruptor.
type Builder[T any] struct {
	capacity     int64
	readerGroups [][]ReaderFunc
	writerYield  func(spins int)
	strategy     wait.Strategy
	strategySet  bool
	log          zerolog.Logger
}

// NewBuilder returns a builder of a disruptor.
func NewBuilder[T any](capacity int64) *Builder[T] {
	return &Builder[T]{capacity: capacity, log: zerolog.Nop()}
}

// WithReaderGroup represents a group of readers.
// If this is the first time WithReaderGroup is called,
// the reader group is the descendant of the Writer.
// Otherwise, the reader group is a descendant of the
// reader group of the previously passed in WithReaderGroup().
func (b *Builder[T]) WithReaderGroup(group ...ReaderFunc) *Builder[T] {
	b.readerGroups = append(b.readerGroups, group)
	return b
}

// WithWriterYield overrides how Write yields
// when the buffer is full. yield receives the number of times
// yield has been called so far in a Write call.
func (b *Builder[T]) WithWriterYield(yield func(spins int)) *Builder[T] {
	b.writerYield = yield
	return b
}

// WithWaitStrategy overrides how readers wait for upstream progress.
// The default is wait.NewSpinWait().
func (b *Builder[T]) WithWaitStrategy(strategy wait.Strategy) *Builder[T] {
	b.strategy = strategy
	b.strategySet = true
	return b
}

// WithLogger sets the logger used for reader lifecycle events.
func (b *Builder[T]) WithLogger(log zerolog.Logger) *Builder[T] {
	b.log = log
	return b
}

// Build builds the disruptor.
func (b *Builder[T]) Build() (*Disruptor[T], error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	writerYield := func(spins int) {
		const spinMask = (1 << 14) - 1
		if spins&spinMask == 0 {
			runtime.Gosched()
		}
	}
	if b.writerYield != nil {
		writerYield = b.writerYield
	}
	strategy := b.strategy
	if strategy == nil {
		strategy = wait.NewSpinWait()
	}
	d := &Disruptor[T]{
		capacity:    b.capacity,
		mask:        b.capacity - 1,
		buffer:      make([]T, b.capacity),
		writerYield: writerYield,
		strategy:    strategy,
		log:         b.log,
	}
	d.readers, d.readBarrier = b.wireReaders(&d.writeCursor, &d.closer, d.buffer, strategy)
	return d, nil
}

func (b *Builder[T]) validate() error {
	if b.capacity <= 0 || b.capacity&(b.capacity-1) != 0 {
		return ErrCapacity
	}
	if len(b.readerGroups) == 0 {
		return ErrMissingReaderGroup
	}
	for _, readerGroup := range b.readerGroups {
		if len(readerGroup) == 0 {
			return ErrEmptyReaderGroup
		}
		for _, f := range readerGroup {
			switch f.(type) {
			case singleReaderFunc[T], batchReaderFunc[T]:
			default:
				return ErrReaderType
			}
		}
	}
	if b.strategySet && b.strategy == nil {
		return ErrNilWaitStrategy
	}
	return nil
}

// wireReaders wires up the reader dependency graph.
// Every reader waits on the writer's cursor; readers after the first group
// are additionally gated by the cursors of the group before them.
func (b *Builder[T]) wireReaders(writeCursor *pad.Sequence, writeCloser *closer.Closer, buffer []T, strategy wait.Strategy) ([]readLooper, wait.Sequence) {
	var readers []readLooper
	var dependents wait.Group
	var upstreamClosedBarrier barrier.ClosedBarrier = writeCloser
	for g, readerGroup := range b.readerGroups {
		var cursorGroup wait.Group
		var closedBarrierGroup barrier.CompositeClosedBarrier
		for i, f := range readerGroup {
			upstream := reader.Upstream{
				Cursor:     writeCursor,
				Dependents: dependents,
				Barrier:    barrier.Alert{Closed: upstreamClosedBarrier},
				Strategy:   strategy,
			}
			log := b.log.With().Int("group", g).Int("reader", i).Logger()
			var r readLooper
			var cursor *pad.Sequence
			var c *closer.Closer
			switch x := f.(type) {
			case singleReaderFunc[T]:
				r, cursor, c = reader.NewSingleReader(upstream, x.F, buffer, log)
			case batchReaderFunc[T]:
				r, cursor, c = reader.NewBatchReader(upstream, x.F, buffer, log)
			}
			readers = append(readers, r)
			cursorGroup = append(cursorGroup, cursor)
			closedBarrierGroup = append(closedBarrierGroup, c)
		}
		dependents = cursorGroup
		upstreamClosedBarrier = closedBarrierGroup
		// Optimize: don't need the composite types if size 1.
		if len(closedBarrierGroup) == 1 {
			upstreamClosedBarrier = closedBarrierGroup[0]
		}
	}
	var slowest wait.Sequence = dependents
	if len(dependents) == 1 {
		slowest = dependents[0]
	}
	return readers, slowest
}

type readLooper interface {
	LoopRead()
}

// ReaderFunc represents a reader function.
type ReaderFunc interface {
	implementReaderFunc()
}

type singleReaderFunc[T any] struct {
	F func(*T)
}

func (singleReaderFunc[T]) implementReaderFunc() {}

// SingleReaderFunc returns a ReaderFunc that reads one at a time.
func SingleReaderFunc[T any](f func(*T)) ReaderFunc {
	return singleReaderFunc[T]{f}
}

type batchReaderFunc[T any] struct {
	F func(ptrs [2]*T, lens [2]int)
}

func (batchReaderFunc[T]) implementReaderFunc() {}

// BatchReaderFunc returns a ReaderFunc that reads in batches.
// f is essentially a function that accepts a sub-slice of the
// internal ring buffer and is called twice:
//
// 1. First sub-slice is to the end of the ring buffer,
// 2. Second sub-slice is from the beginning of the ring buffer.
//
// It is possible the 2nd sub-slice is empty if n doesn't wrap around the
// ring buffer, i.e. length == 0.
//
// Use BatchReaderFunc over SingleReaderFunc only if the complexity is needed
// and if the overhead of sub-slicing is much smaller than the time saved by
// batching, e.g. when working with SIMD code to read large numbers of items
// from the disruptor.
func BatchReaderFunc[T any](f func(ptrs [2]*T, lens [2]int)) ReaderFunc {
	return batchReaderFunc[T]{f}
}
