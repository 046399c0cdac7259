// Package collector aggregates operation results and computes statistics.
package collector

import (
	"sync"

	"zoobench/internal/core"
)

// Collector aggregates results from workers. Report is safe for concurrent
// use and never drops a result: every attempted operation counts toward the
// final statistics exactly once.
type Collector struct {
	results []core.Result
	done    int
	failed  int
	ch      chan core.Result
	drained chan struct{}
	mu      sync.Mutex
}

// NewCollector creates a Collector and starts its collection goroutine.
func NewCollector() *Collector {
	c := &Collector{
		results: make([]core.Result, 0),
		ch:      make(chan core.Result, 1024),
		drained: make(chan struct{}),
	}
	go c.collect()
	return c
}

func (c *Collector) collect() {
	for r := range c.ch {
		c.mu.Lock()
		c.results = append(c.results, r)
		c.done++
		if !r.OK {
			c.failed++
		}
		c.mu.Unlock()
	}
	close(c.drained)
}

// Report sends a result to the collector. Blocks if the buffer is full
// rather than dropping; lost results would skew the attempted count.
func (c *Collector) Report(r core.Result) {
	c.ch <- r
}

// Close stops the collector and waits until every reported result has been
// accumulated. Must only be called after all workers have joined.
func (c *Collector) Close() {
	close(c.ch)
	<-c.drained
}

// Results returns a copy of the accumulated results.
func (c *Collector) Results() []core.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Result, len(c.results))
	copy(out, c.results)
	return out
}

// Counts returns the number of results seen so far and how many of them
// failed. Used by the live progress line while workers are still running.
func (c *Collector) Counts() (done, failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done, c.failed
}
