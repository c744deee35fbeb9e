package wait

import "fmt"

const (
	// SpinLimit is the number of failed polls answered with a bare spin hint
	// before the backoff escalates.
	SpinLimit = 2

	// Sleep0Interval is the backoff index period of zero-duration sleeps.
	Sleep0Interval = 8

	// Sleep1Interval is the backoff index period of one millisecond sleeps.
	Sleep1Interval = 128
)

// Action is a single backoff step taken after a failed poll.
type Action int

const (
	// ActionSpin is a short non-yielding pause.
	ActionSpin Action = iota
	// ActionYield yields to another goroutine, spinning if nothing else ran.
	ActionYield
	// ActionSleep0 relinquishes the rest of the thread's scheduling quantum.
	ActionSleep0
	// ActionSleep1 sleeps for about one millisecond.
	ActionSleep1
)

func (a Action) String() string {
	switch a {
	case ActionSpin:
		return "spin"
	case ActionYield:
		return "yield"
	case ActionSleep0:
		return "sleep0"
	case ActionSleep1:
		return "sleep1"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// NextAction is the backoff state machine. Given the attempt counter of a
// wait call it returns the action to take and the advanced counter.
//
// In the spin phase the counter advances by 1. Past SpinLimit it advances by
// 2 per step: once before the interval tests and once after. The counter is
// 64-bit so that it cannot wrap back into the spin phase during a long wait.
func NextAction(counter int64) (Action, int64) {
	if counter < SpinLimit {
		return ActionSpin, counter + 1
	}
	index := counter - SpinLimit
	counter++
	var action Action
	switch {
	case index%Sleep1Interval == Sleep1Interval-1:
		action = ActionSleep1
	case index%Sleep0Interval == Sleep0Interval-1:
		action = ActionSleep0
	default:
		action = ActionYield
	}
	counter++
	return action, counter
}
