// Package wait provides strategies a disruptor consumer uses to wait for a
// sequence to be published.
//
// A consumer waits on the writer's cursor, or, when it sits behind other
// consumers, on the minimum of their sequences. Every strategy checks the
// Barrier before each backoff step, so a shutdown request is observed
// promptly no matter how long the wait has lasted.
//
// SpinWait is the adaptive strategy: it spins briefly, then yields, and
// occasionally sleeps, trading wake-up latency for CPU as the wait drags
// on. It offers no bound on wake-up latency.
package wait
