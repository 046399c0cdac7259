// Package worker executes one slice of the benchmark's iteration range.
package worker

import (
	"context"

	"zoobench/internal/core"
	"zoobench/internal/partition"
	"zoobench/internal/ratelimit"
)

// Worker runs the operations for one work slice against the shared session.
// A Worker is NOT safe for concurrent use; the coordinator gives each
// goroutine its own Worker.
type Worker struct {
	Slice     partition.Slice
	Session   core.Session
	Payload   []byte
	Prefix    string
	Ephemeral bool
	Limiter   *ratelimit.Limiter
	Clock     core.Clock
}

// Run issues op for every index in the slice, in increasing order, reporting
// one result per attempted operation. Failures are recorded and the loop
// continues; there are no retries. Returns early only on context
// cancellation.
func (w *Worker) Run(ctx context.Context, op core.Op, rep core.Reporter) {
	clock := w.clock()
	for i := w.Slice.Start; i < w.Slice.End; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := w.Limiter.Wait(ctx); err != nil {
			return
		}

		path := core.NodePath(w.Prefix, i)
		start := clock.Now()
		var err error
		switch op {
		case core.OpRead:
			err = w.Session.Read(path)
		default:
			err = w.Session.Create(path, w.Payload, w.Ephemeral)
		}

		result := core.Result{
			Worker:   w.Slice.Worker,
			Index:    i,
			Op:       op,
			Duration: clock.Since(start),
			OK:       err == nil,
		}
		if err != nil {
			result.Err = err.Error()
		}
		rep.Report(result)
	}
}

func (w *Worker) clock() core.Clock {
	if w.Clock != nil {
		return w.Clock
	}
	return core.RealClock{}
}
