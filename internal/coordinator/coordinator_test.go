package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"zoobench/internal/collector"
	"zoobench/internal/core"
	"zoobench/internal/partition"
	"zoobench/internal/worker"
)

type fakeSession struct {
	mu       sync.Mutex
	failPath map[string]bool
	calls    int
}

func (f *fakeSession) Create(path string, data []byte, ephemeral bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failPath[path] {
		return errors.New("zk: node already exists")
	}
	return nil
}

func (f *fakeSession) Read(path string) error {
	return f.Create(path, nil, false)
}

func buildWorkers(sess core.Session, total, threads int) []*worker.Worker {
	slices := partition.Split(total, threads)
	workers := make([]*worker.Worker, len(slices))
	for i, s := range slices {
		workers[i] = &worker.Worker{
			Slice:   s,
			Session: sess,
			Prefix:  "/zoobench",
		}
	}
	return workers
}

func TestRun_AllSucceed(t *testing.T) {
	sess := &fakeSession{}
	coll := collector.NewCollector()
	coord := New(coll)

	wall := coord.Run(context.Background(), core.OpCreate, buildWorkers(sess, 100, 4))
	coll.Close()

	stats := coll.Compute(core.OpCreate, wall)
	if stats.Attempted != 100 {
		t.Errorf("expected 100 attempted, got %d", stats.Attempted)
	}
	if stats.Succeeded != 100 {
		t.Errorf("expected 100 succeeded, got %d", stats.Succeeded)
	}
	if stats.Failed != 0 {
		t.Errorf("expected 0 failed, got %d", stats.Failed)
	}
	if wall <= 0 {
		t.Errorf("expected positive wall duration, got %v", wall)
	}
}

func TestRun_FailureCountIndependentOfThreads(t *testing.T) {
	failPath := map[string]bool{
		core.NodePath("/zoobench", 3):  true,
		core.NodePath("/zoobench", 17): true,
		core.NodePath("/zoobench", 42): true,
	}

	for _, threads := range []int{1, 3, 8, 64} {
		sess := &fakeSession{failPath: failPath}
		coll := collector.NewCollector()
		coord := New(coll)

		wall := coord.Run(context.Background(), core.OpCreate, buildWorkers(sess, 100, threads))
		coll.Close()

		stats := coll.Compute(core.OpCreate, wall)
		if stats.Attempted != 100 {
			t.Errorf("threads=%d: expected 100 attempted, got %d", threads, stats.Attempted)
		}
		if stats.Failed != len(failPath) {
			t.Errorf("threads=%d: expected %d failed, got %d", threads, len(failPath), stats.Failed)
		}
		if stats.Succeeded+stats.Failed != stats.Attempted {
			t.Errorf("threads=%d: succeeded+failed != attempted", threads)
		}
	}
}

func TestRun_MoreThreadsThanIterations(t *testing.T) {
	sess := &fakeSession{}
	coll := collector.NewCollector()
	coord := New(coll)

	wall := coord.Run(context.Background(), core.OpCreate, buildWorkers(sess, 3, 10))
	coll.Close()

	stats := coll.Compute(core.OpCreate, wall)
	if stats.Attempted != 3 {
		t.Errorf("expected 3 attempted, got %d", stats.Attempted)
	}
}

type panickySession struct{}

func (panickySession) Create(string, []byte, bool) error { panic("boom") }
func (panickySession) Read(string) error                 { panic("boom") }

func TestRun_WorkerPanicRecorded(t *testing.T) {
	coll := collector.NewCollector()
	coord := New(coll)

	wall := coord.Run(context.Background(), core.OpCreate, buildWorkers(panickySession{}, 2, 1))
	coll.Close()

	stats := coll.Compute(core.OpCreate, wall)
	if stats.Failed != 1 {
		t.Fatalf("expected the panic recorded as 1 failure, got %d", stats.Failed)
	}
	for reason := range stats.Errors {
		if reason != "panic: boom" {
			t.Errorf("unexpected failure reason %q", reason)
		}
	}
}
