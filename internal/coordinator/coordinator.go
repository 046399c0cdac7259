// Package coordinator fans the benchmark out over worker goroutines and
// joins them before aggregation.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"zoobench/internal/core"
	"zoobench/internal/worker"
)

type Coordinator struct {
	reporter core.Reporter
	clock    core.Clock
	wg       sync.WaitGroup
}

func New(reporter core.Reporter) *Coordinator {
	return &Coordinator{
		reporter: reporter,
		clock:    core.RealClock{},
	}
}

// Run launches one goroutine per worker, waits for all of them to finish,
// and returns the wall-clock duration of the parallel region. The reporter
// sees no writes after Run returns, so the caller may finalize safely.
func (c *Coordinator) Run(ctx context.Context, op core.Op, workers []*worker.Worker) time.Duration {
	start := c.clock.Now()
	for _, w := range workers {
		c.wg.Add(1)
		go func(w *worker.Worker) {
			defer c.wg.Done()
			defer c.recoverPanic(w.Slice.Worker, op)
			w.Run(ctx, op, c.reporter)
		}(w)
	}
	c.wg.Wait()
	return c.clock.Since(start)
}

// recoverPanic turns a panicking worker goroutine into a failed result
// instead of taking down the whole run.
func (c *Coordinator) recoverPanic(workerIndex int, op core.Op) {
	if r := recover(); r != nil {
		c.reporter.Report(core.Result{
			Worker: workerIndex,
			Index:  -1,
			Op:     op,
			OK:     false,
			Err:    fmt.Sprintf("panic: %v", r),
		})
	}
}
