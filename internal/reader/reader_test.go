package reader

import (
	"testing"
	"time"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/five-vee/disruptor-spinwait/internal/barrier"
	"github.com/five-vee/disruptor-spinwait/internal/closer"
	"github.com/five-vee/disruptor-spinwait/internal/pad"
	"github.com/five-vee/disruptor-spinwait/wait"
)

func TestSingleReader_DrainsOnClose(t *testing.T) {
	buffer := make([]int, 8)
	var writeCursor pad.Sequence
	var writeCloser closer.Closer
	for seq := int64(1); seq <= 5; seq++ {
		buffer[seq&7] = int(seq) * 10
	}
	writeCursor.Store(5)
	writeCloser.Close()

	var got []int
	upstream := Upstream{
		Cursor:   &writeCursor,
		Barrier:  barrier.Alert{Closed: &writeCloser},
		Strategy: wait.NewSpinWait(),
	}
	r, cursor, c := NewSingleReader(upstream, func(v *int) { got = append(got, *v) }, buffer, zerolog.Nop())
	r.LoopRead()

	if diff := cmp.Diff([]int{10, 20, 30, 40, 50}, got); diff != "" {
		t.Errorf("LoopRead() read mismatch (-want +got):\n%s", diff)
	}
	if cursor.Load() != 5 {
		t.Errorf("cursor got = %d, want = 5", cursor.Load())
	}
	if !c.IsClosed() {
		t.Error("reader not closed after LoopRead() returned")
	}
}

func TestBatchReader_Batches(t *testing.T) {
	buffer := []int{0, 1, 2, 3}
	type batch struct {
		First, Second []int
	}
	tests := []struct {
		name         string
		lower, upper int64
		want         batch
	}{
		{name: "single item", lower: 1, upper: 1, want: batch{First: []int{1}}},
		{name: "no wrap", lower: 1, upper: 3, want: batch{First: []int{1, 2, 3}}},
		{name: "wraps", lower: 3, upper: 6, want: batch{First: []int{3}, Second: []int{0, 1, 2}}},
		{name: "full buffer from start", lower: 4, upper: 7, want: batch{First: []int{0, 1, 2, 3}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got batch
			f := func(ptrs [2]*int, lens [2]int) {
				got.First = append([]int(nil), unsafe.Slice(ptrs[0], lens[0])...)
				if lens[1] > 0 {
					got.Second = append([]int(nil), unsafe.Slice(ptrs[1], lens[1])...)
				}
			}
			r, _, _ := NewBatchReader(Upstream{}, f, buffer, zerolog.Nop())
			r.process(test.lower, test.upper)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("process(%d, %d) mismatch (-want +got):\n%s", test.lower, test.upper, diff)
			}
		})
	}
}

func TestReader_WaitsBehindDependents(t *testing.T) {
	buffer := make([]int, 8)
	var writeCursor, upstreamReader pad.Sequence
	var upstreamCloser closer.Closer

	got := make(chan int, 8)
	upstream := Upstream{
		Cursor:     &writeCursor,
		Dependents: []wait.Sequence{&upstreamReader},
		Barrier:    barrier.Alert{Closed: &upstreamCloser},
		Strategy:   wait.NewSpinWait(),
	}
	r, cursor, _ := NewSingleReader(upstream, func(v *int) { got <- *v }, buffer, zerolog.Nop())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.LoopRead()
	}()

	for seq := int64(1); seq <= 4; seq++ {
		buffer[seq&7] = int(seq)
	}
	writeCursor.Store(4)
	time.Sleep(5 * time.Millisecond)
	if n := len(got); n != 0 {
		t.Fatalf("reader read %d items ahead of its dependent", n)
	}

	upstreamReader.Store(2)
	upstreamReader.Store(4)
	upstreamCloser.Close()
	<-done

	close(got)
	var values []int
	for v := range got {
		values = append(values, v)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, values); diff != "" {
		t.Errorf("LoopRead() read mismatch (-want +got):\n%s", diff)
	}
	if cursor.Load() != 4 {
		t.Errorf("cursor got = %d, want = 4", cursor.Load())
	}
}
