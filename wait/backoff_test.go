package wait_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/five-vee/disruptor-spinwait/wait"
)

func TestNextAction(t *testing.T) {
	tests := []struct {
		name        string
		counter     int64
		wantAction  wait.Action
		wantCounter int64
	}{
		{name: "first spin", counter: 0, wantAction: wait.ActionSpin, wantCounter: 1},
		{name: "last spin", counter: 1, wantAction: wait.ActionSpin, wantCounter: 2},
		{name: "first backoff", counter: 2, wantAction: wait.ActionYield, wantCounter: 4},
		{name: "sleep0 index", counter: wait.SpinLimit + wait.Sleep0Interval - 1, wantAction: wait.ActionSleep0, wantCounter: 11},
		{name: "sleep0 second period", counter: wait.SpinLimit + 2*wait.Sleep0Interval - 1, wantAction: wait.ActionSleep0, wantCounter: 19},
		{name: "sleep1 index", counter: wait.SpinLimit + wait.Sleep1Interval - 1, wantAction: wait.ActionSleep1, wantCounter: 131},
		{name: "sleep1 wins over sleep0", counter: wait.SpinLimit + 2*wait.Sleep1Interval - 1, wantAction: wait.ActionSleep1, wantCounter: 259},
		{name: "plain backoff", counter: 100, wantAction: wait.ActionYield, wantCounter: 102},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			action, counter := wait.NextAction(test.counter)
			if action != test.wantAction || counter != test.wantCounter {
				t.Errorf("NextAction(%d) got = (%v, %d), want = (%v, %d)",
					test.counter, action, counter, test.wantAction, test.wantCounter)
			}
		})
	}
}

// A wait that outlives 2^31 backoff steps keeps backing off instead of
// wrapping into the spin phase.
func TestNextAction_LongWait(t *testing.T) {
	for _, counter := range []int64{math.MaxInt32 - 1, math.MaxInt32, math.MaxInt32 + 1, 1 << 40} {
		action, next := wait.NextAction(counter)
		if action == wait.ActionSpin || next != counter+2 {
			t.Errorf("NextAction(%d) got = (%v, %d), want a backoff action and %d", counter, action, next, counter+2)
		}
	}
}

func TestNextAction_CounterAdvance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		counter := rapid.Int64Range(0, 1<<40).Draw(rt, "counter")
		action, next := wait.NextAction(counter)
		if counter < wait.SpinLimit {
			if action != wait.ActionSpin || next != counter+1 {
				rt.Fatalf("NextAction(%d) got = (%v, %d), want = (spin, %d)", counter, action, next, counter+1)
			}
			return
		}
		if next != counter+2 {
			rt.Fatalf("NextAction(%d) advanced to %d, want %d", counter, next, counter+2)
		}
		index := counter - wait.SpinLimit
		want := wait.ActionYield
		switch {
		case index%wait.Sleep1Interval == wait.Sleep1Interval-1:
			want = wait.ActionSleep1
		case index%wait.Sleep0Interval == wait.Sleep0Interval-1:
			want = wait.ActionSleep0
		}
		if action != want {
			rt.Fatalf("NextAction(%d) got action = %v, want = %v", counter, action, want)
		}
	})
}

// cadence counts the sleeps issued over n failed polls of a single wait.
func cadence(n int) (sleep0, sleep1 int) {
	var counter int64
	for range n {
		var action wait.Action
		action, counter = wait.NextAction(counter)
		switch action {
		case wait.ActionSleep0:
			sleep0++
		case wait.ActionSleep1:
			sleep1++
		}
	}
	return sleep0, sleep1
}

// visitedIndices returns the backoff indices a single wait evaluates over
// n failed polls.
func visitedIndices(n int) []int64 {
	var indices []int64
	var counter int64
	for range n {
		if counter >= wait.SpinLimit {
			indices = append(indices, counter-wait.SpinLimit)
		}
		_, counter = wait.NextAction(counter)
	}
	return indices
}

func TestNextAction_Cadence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(wait.SpinLimit+1, 4096).Draw(rt, "polls")
		var want0, want1 int
		for _, index := range visitedIndices(n) {
			switch {
			case index%wait.Sleep1Interval == wait.Sleep1Interval-1:
				want1++
			case index%wait.Sleep0Interval == wait.Sleep0Interval-1:
				want0++
			}
		}
		got0, got1 := cadence(n)
		if got0 != want0 || got1 != want1 {
			rt.Fatalf("cadence(%d) got = (%d, %d), want = (%d, %d)", n, got0, got1, want0, want1)
		}
	})
}

// The counter advances by 2 per backoff step, so a wait only ever visits
// even backoff indices and the odd sleep indices are never reached.
func TestNextAction_EvenStride(t *testing.T) {
	const polls = 10_000
	indices := visitedIndices(polls)
	if got, want := len(indices), polls-wait.SpinLimit; got != want {
		t.Fatalf("visitedIndices(%d) got %d indices, want %d", polls, got, want)
	}
	want := make([]int64, len(indices))
	for i := range want {
		want[i] = 2 * int64(i)
	}
	if diff := cmp.Diff(want, indices); diff != "" {
		t.Errorf("visitedIndices(%d) mismatch (-want +got):\n%s", polls, diff)
	}
	sleep0, sleep1 := cadence(polls)
	if sleep0 != 0 || sleep1 != 0 {
		t.Errorf("cadence(%d) got = (%d, %d), want = (0, 0)", polls, sleep0, sleep1)
	}
}

func TestAction_String(t *testing.T) {
	got := []string{
		wait.ActionSpin.String(),
		wait.ActionYield.String(),
		wait.ActionSleep0.String(),
		wait.ActionSleep1.String(),
		wait.Action(9).String(),
	}
	want := []string{"spin", "yield", "sleep0", "sleep1", "Action(9)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Action.String() mismatch (-want +got):\n%s", diff)
	}
}
