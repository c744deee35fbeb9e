// Package disruptor provides an implementation of the LMAX Disruptor
// whose readers wait for new data with a pluggable wait.Strategy.
//
// If for some reason you have Go code that needs to process messages at
// sub-microsecond latency, where shaving every nanosecond counts, then
// consider the disruptor pattern. The default wait.SpinWait strategy keeps
// idle readers from burning a full core while still waking up quickly.
package disruptor
