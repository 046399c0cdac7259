package core

import (
	"testing"
	"time"
)

func TestNodePath(t *testing.T) {
	got := NodePath("/zoobench", 42)
	want := "/zoobench/test-node42"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNodePath_Distinct(t *testing.T) {
	seen := make(map[string]int)
	for i := 0; i < 10000; i++ {
		p := NodePath("/zoobench", i)
		if prev, ok := seen[p]; ok {
			t.Fatalf("path %q produced by both index %d and %d", p, prev, i)
		}
		seen[p] = i
	}
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)

	if !clock.Now().Equal(start) {
		t.Errorf("expected %v, got %v", start, clock.Now())
	}

	clock.Advance(5 * time.Second)
	if got := clock.Since(start); got != 5*time.Second {
		t.Errorf("expected 5s since start, got %v", got)
	}
}
