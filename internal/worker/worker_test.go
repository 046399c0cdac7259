package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"zoobench/internal/core"
	"zoobench/internal/partition"
)

// mockSession records calls and fails for a configured set of paths.
type mockSession struct {
	mu       sync.Mutex
	created  []string
	read     []string
	failPath map[string]bool
}

func (m *mockSession) Create(path string, data []byte, ephemeral bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, path)
	if m.failPath[path] {
		return errors.New("zk: node already exists")
	}
	return nil
}

func (m *mockSession) Read(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.read = append(m.read, path)
	if m.failPath[path] {
		return errors.New("zk: node does not exist")
	}
	return nil
}

// recordingReporter accumulates results in memory.
type recordingReporter struct {
	mu      sync.Mutex
	results []core.Result
}

func (r *recordingReporter) Report(res core.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func TestWorker_RunsSliceInOrder(t *testing.T) {
	sess := &mockSession{}
	rep := &recordingReporter{}
	w := &Worker{
		Slice:   partition.Slice{Worker: 2, Start: 5, End: 10},
		Session: sess,
		Payload: []byte("x"),
		Prefix:  "/zoobench",
	}
	w.Run(context.Background(), core.OpCreate, rep)

	if len(rep.results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(rep.results))
	}
	for i, res := range rep.results {
		wantIndex := 5 + i
		if res.Index != wantIndex {
			t.Errorf("result %d: expected index %d, got %d", i, wantIndex, res.Index)
		}
		if res.Worker != 2 {
			t.Errorf("result %d: expected worker 2, got %d", i, res.Worker)
		}
		if !res.OK {
			t.Errorf("result %d: expected success", i)
		}
	}
	if sess.created[0] != "/zoobench/test-node5" {
		t.Errorf("unexpected first path %q", sess.created[0])
	}
}

func TestWorker_FailureDoesNotAbort(t *testing.T) {
	sess := &mockSession{failPath: map[string]bool{
		core.NodePath("/zoobench", 1): true,
	}}
	rep := &recordingReporter{}
	w := &Worker{
		Slice:   partition.Slice{Worker: 0, Start: 0, End: 4},
		Session: sess,
		Prefix:  "/zoobench",
	}
	w.Run(context.Background(), core.OpCreate, rep)

	if len(rep.results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(rep.results))
	}
	var failed int
	for _, res := range rep.results {
		if !res.OK {
			failed++
			if res.Err == "" {
				t.Error("failed result missing reason")
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
}

func TestWorker_ReadOp(t *testing.T) {
	sess := &mockSession{}
	rep := &recordingReporter{}
	w := &Worker{
		Slice:   partition.Slice{Worker: 0, Start: 0, End: 3},
		Session: sess,
		Prefix:  "/zoobench",
	}
	w.Run(context.Background(), core.OpRead, rep)

	if len(sess.read) != 3 {
		t.Fatalf("expected 3 reads, got %d", len(sess.read))
	}
	if len(sess.created) != 0 {
		t.Errorf("read pass should not create, got %d creates", len(sess.created))
	}
}

func TestWorker_EmptySlice(t *testing.T) {
	rep := &recordingReporter{}
	w := &Worker{
		Slice:   partition.Slice{Worker: 3, Start: 7, End: 7},
		Session: &mockSession{},
		Prefix:  "/zoobench",
	}
	w.Run(context.Background(), core.OpCreate, rep)

	if len(rep.results) != 0 {
		t.Errorf("expected no results from empty slice, got %d", len(rep.results))
	}
}

func TestWorker_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := &recordingReporter{}
	w := &Worker{
		Slice:   partition.Slice{Worker: 0, Start: 0, End: 100},
		Session: &mockSession{},
		Prefix:  "/zoobench",
	}
	w.Run(ctx, core.OpCreate, rep)

	if len(rep.results) != 0 {
		t.Errorf("expected no results after cancellation, got %d", len(rep.results))
	}
}
