package collector

import (
	"sort"
	"time"

	"zoobench/internal/core"
)

// Stats contains the finalized statistics of one benchmark pass.
type Stats struct {
	Op          core.Op
	Attempted   int
	Succeeded   int
	Failed      int
	SuccessRate float64 // percent
	Throughput  float64 // successful ops per second of wall time
	Wall        time.Duration
	Latency     DurationStats
	Errors      map[string]int // failure reason -> count
}

// DurationStats contains latency distribution statistics.
type DurationStats struct {
	Min time.Duration
	Max time.Duration
	Avg time.Duration
	P50 time.Duration
	P90 time.Duration
	P95 time.Duration
	P99 time.Duration
}

// Compute finalizes the collected results of one pass into Stats.
// Must only be called after Close; at that point every worker has joined
// and every result is visible.
func (c *Collector) Compute(op core.Op, wall time.Duration) *Stats {
	return ComputeStats(op, c.Results(), wall)
}

// ComputeStats computes statistics from results. Pure function, no side effects.
func ComputeStats(op core.Op, results []core.Result, wall time.Duration) *Stats {
	s := &Stats{
		Op:     op,
		Wall:   wall,
		Errors: make(map[string]int),
	}

	durations := make([]time.Duration, 0, len(results))
	for _, r := range results {
		s.Attempted++
		if r.OK {
			s.Succeeded++
		} else {
			s.Failed++
			s.Errors[r.Err]++
		}
		durations = append(durations, r.Duration)
	}

	if s.Attempted > 0 {
		s.SuccessRate = float64(s.Succeeded) / float64(s.Attempted) * 100
	}
	if wall > 0 {
		s.Throughput = float64(s.Succeeded) / wall.Seconds()
	}

	s.Latency = ComputeDurationStats(durations)
	return s
}

// ComputePercentile calculates the percentile value from a sorted slice of
// durations using the nearest-rank method. p is between 0 and 1.
func ComputePercentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}

// ComputeDurationStats calculates all latency statistics from a slice of durations.
func ComputeDurationStats(durations []time.Duration) DurationStats {
	if len(durations) == 0 {
		return DurationStats{}
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	return DurationStats{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: total / time.Duration(len(sorted)),
		P50: ComputePercentile(sorted, 0.50),
		P90: ComputePercentile(sorted, 0.90),
		P95: ComputePercentile(sorted, 0.95),
		P99: ComputePercentile(sorted, 0.99),
	}
}
