package disruptor

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/five-vee/disruptor-spinwait/internal/closer"
	"github.com/five-vee/disruptor-spinwait/internal/pad"
	"github.com/five-vee/disruptor-spinwait/wait"
)

// Disruptor supports a single writer and multiple readers.
type Disruptor[T any] struct {
	capacity      int64
	mask          int64
	buffer        []T
	readers       []readLooper
	readBarrier   wait.Sequence
	writerYield   func(spins int)
	strategy      wait.Strategy
	log           zerolog.Logger
	slowestReader pad.Int64 // cached version of readBarrier
	closer        closer.Closer
	writeCursor   pad.Sequence
	currentWriter pad.Int64 // cached version of writeCursor
}

// Write adds an item to the disruptor.
// Blocks while the slowest reader is a full buffer behind.
func (d *Disruptor[T]) Write(f func(item *T)) {
	if d.closer.IsClosed() {
		panic("Write() called after Close() was called.")
	}
	nextWriter := d.currentWriter.Val + 1
	// The slot of nextWriter last held nextWriter-capacity, which the
	// slowest reader must have read.
	for spins := 0; nextWriter > d.slowestReader.Val+d.capacity; d.slowestReader.Val = d.readBarrier.Load() {
		spins++
		d.writerYield(spins)
	}
	f(&d.buffer[nextWriter&d.mask])
	d.writeCursor.Store(nextWriter)
	d.currentWriter.Val = nextWriter
	d.strategy.SignalAllWhenBlocking()
}

// LoopRead continuously reads messages
// and passes them to a provided reader(s).
// Blocks until the ring buffer is closed and empty.
func (d *Disruptor[T]) LoopRead() {
	var wg sync.WaitGroup
	for _, r := range d.readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.LoopRead()
		}()
	}
	wg.Wait()
	d.log.Debug().Int64("sequence", d.writeCursor.Load()).Msg("all readers drained")
}

// Close stops the disruptor.
// Readers finish reading everything written before Close.
func (d *Disruptor[T]) Close() {
	if d.closer.Close() {
		d.log.Debug().Int64("sequence", d.writeCursor.Load()).Msg("disruptor closed")
	}
}
