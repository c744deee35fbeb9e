// Command spinwait-bench pushes items through a disruptor whose readers
// wait with a configurable strategy, then exercises a timed wait on an idle
// queue.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	disruptor "github.com/five-vee/disruptor-spinwait"
	"github.com/five-vee/disruptor-spinwait/internal/logging"
)

type object struct{ _ [12]byte }

func main() {
	flags := pflag.NewFlagSet("spinwait-bench", pflag.ExitOnError)
	registerFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spinwait-bench: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Logging, "spinwait-bench")
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}
}

func run(cfg Config, log zerolog.Logger) error {
	if err := runDisruptor(cfg, log); err != nil {
		return err
	}
	return runIdleQueue(cfg, log)
}

// runDisruptor writes cfg.Items items and checks every reader saw all of them.
func runDisruptor(cfg Config, log zerolog.Logger) error {
	strategy, err := newStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	consumed := make([][]int, cfg.ReaderGroups)
	b := disruptor.NewBuilder[object](cfg.Capacity).
		WithWaitStrategy(strategy).
		WithLogger(log)
	for g := range consumed {
		consumed[g] = make([]int, cfg.GroupSize)
		group := make([]disruptor.ReaderFunc, cfg.GroupSize)
		for i := range group {
			counter := &consumed[g][i]
			group[i] = disruptor.SingleReaderFunc(func(o *object) {
				_ = o
				*counter++
			})
		}
		b = b.WithReaderGroup(group...)
	}
	d, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to build disruptor: %w", err)
	}

	start := time.Now()
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.LoopRead()
	}()
	for range cfg.Items {
		d.Write(func(o *object) { *o = object{} })
	}
	d.Close()
	<-done
	elapsed := time.Since(start)

	for g, group := range consumed {
		for i, n := range group {
			if n != cfg.Items {
				return fmt.Errorf("reader %d/%d consumed %d items, want %d", g, i, n, cfg.Items)
			}
		}
	}
	log.Info().
		Str("strategy", cfg.Strategy).
		Int("items", cfg.Items).
		Int("readers", cfg.ReaderGroups*cfg.GroupSize).
		Dur("elapsed", elapsed).
		Float64("items_per_sec", float64(cfg.Items)/elapsed.Seconds()).
		Msg("disruptor run complete")
	return nil
}

// runIdleQueue waits on a queue nobody produces to, bounded by cfg.IdleTimeout.
func runIdleQueue(cfg Config, log zerolog.Logger) error {
	strategy, err := newStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	q, err := disruptor.NewQueueBuilder[object]().
		WithSize(cfg.Capacity).
		WithWaitStrategy(strategy).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build queue: %w", err)
	}
	defer q.Close()
	start := time.Now()
	_, ok, err := q.ConsumeTimeout(cfg.IdleTimeout)
	if err != nil {
		return fmt.Errorf("idle consume failed: %w", err)
	}
	log.Info().
		Bool("received", ok).
		Dur("timeout", cfg.IdleTimeout).
		Dur("elapsed", time.Since(start)).
		Msg("idle queue wait complete")
	return nil
}
