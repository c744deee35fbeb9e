package disruptor

import (
	"errors"
	"fmt"
	"time"

	"github.com/five-vee/disruptor-spinwait/internal/barrier"
	"github.com/five-vee/disruptor-spinwait/internal/closer"
	"github.com/five-vee/disruptor-spinwait/internal/pad"
	"github.com/five-vee/disruptor-spinwait/wait"
)

// ErrClosed is returned by a Queue after Close, once nothing is left to
// consume.
var ErrClosed = errors.New("queue is closed")

// QueueBuilder builds a Queue.
type QueueBuilder[T any] struct {
	size     int64
	strategy wait.Strategy
}

// NewQueueBuilder returns a builder of Queue.
func NewQueueBuilder[T any]() *QueueBuilder[T] {
	return &QueueBuilder[T]{}
}

// WithSize sets the ring buffer size.
// size must be a power of two.
func (b *QueueBuilder[T]) WithSize(size int64) *QueueBuilder[T] {
	b.size = size
	return b
}

// WithWaitStrategy customizes how the producer/consumer waits
// when blocked.
// The default is wait.NewSpinWait().
func (b *QueueBuilder[T]) WithWaitStrategy(strategy wait.Strategy) *QueueBuilder[T] {
	b.strategy = strategy
	return b
}

// Build builds the Queue.
// Returns an error if the buffer is invalid.
func (b *QueueBuilder[T]) Build() (*Queue[T], error) {
	if b.size <= 0 || (b.size&(b.size-1)) != 0 {
		return nil, fmt.Errorf("ring buffer size must be positive power of two, got %d instead: %w", b.size, ErrCapacity)
	}
	strategy := b.strategy
	if strategy == nil {
		strategy = wait.NewSpinWait()
	}
	q := &Queue[T]{
		size:     b.size,
		mask:     b.size - 1,
		strategy: strategy,
		buffer:   make([]T, b.size),
	}
	q.alert = barrier.Alert{Closed: &q.closer}
	return q, nil
}

// Queue implements a single-producer, single-consumer lock-free ring
// buffer.
// Size must be a power of two for efficient modulo operations using
// bitmasking.
type Queue[T any] struct {
	size     int64
	mask     int64 // size - 1 for quick modulo operations.
	strategy wait.Strategy
	alert    wait.Barrier
	buffer   []T
	_        [64]byte // cache line padding
	producer pad.Sequence
	consumer pad.Sequence
	closer   closer.Closer
}

// Produce adds an item to the buffer.
// Blocks until the buffer is no longer full.
// Returns ErrClosed if the queue is closed.
func (q *Queue[T]) Produce(data T) error {
	if q.closer.IsClosed() {
		return ErrClosed
	}
	// Claim a sequence slot.
	nextProducer := q.producer.Load() + 1

	// Wait for capacity: the consumer must have read slot nextProducer-size.
	if _, err := q.strategy.WaitFor(nextProducer-q.size, &q.consumer, nil, q.alert); err != nil {
		return ErrClosed
	}

	// Write data.
	q.buffer[nextProducer&q.mask] = data

	// Ensure visibility.
	q.producer.Store(nextProducer)
	q.strategy.SignalAllWhenBlocking()
	return nil
}

// Consume retrieves the next item from the buffer.
// Blocks until the buffer has available data.
// After Close, remaining items are still returned; then ErrClosed.
func (q *Queue[T]) Consume() (T, error) {
	nextConsumer := q.consumer.Load() + 1
	if _, err := q.strategy.WaitFor(nextConsumer, &q.producer, nil, q.alert); err != nil {
		return q.drain(nextConsumer)
	}
	return q.take(nextConsumer), nil
}

// ConsumeTimeout is Consume bounded by timeout.
// It reports false if nothing was published within timeout.
func (q *Queue[T]) ConsumeTimeout(timeout time.Duration) (T, bool, error) {
	nextConsumer := q.consumer.Load() + 1
	available, err := q.strategy.WaitForTimeout(nextConsumer, &q.producer, nil, q.alert, timeout)
	if err != nil {
		data, err := q.drain(nextConsumer)
		return data, err == nil, err
	}
	if available < nextConsumer {
		var zero T
		return zero, false, nil
	}
	return q.take(nextConsumer), true, nil
}

// Close closes the queue.
// Call it from the producing goroutine after the last Produce; the consumer
// then drains what is left before getting ErrClosed.
func (q *Queue[T]) Close() {
	q.closer.Close()
}

// drain returns the slot at seq if it was published before Close.
func (q *Queue[T]) drain(seq int64) (T, error) {
	if q.producer.Load() < seq {
		var zero T
		return zero, ErrClosed
	}
	return q.take(seq), nil
}

func (q *Queue[T]) take(seq int64) T {
	data := q.buffer[seq&q.mask]
	// Signal that the data has been consumed.
	q.consumer.Store(seq)
	return data
}
