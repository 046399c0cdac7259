package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// FormatText writes pass statistics in human-readable format.
func FormatText(w io.Writer, passes []*Stats, thresholds *ThresholdResults) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "zoobench - Load Test Results")
	fmt.Fprintln(w, "============================")

	for _, s := range passes {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Pass:         %s\n", s.Op)
		fmt.Fprintf(w, "Duration:     %v\n", s.Wall.Round(time.Millisecond))
		fmt.Fprintf(w, "Attempted:    %s\n", formatNumber(s.Attempted))
		fmt.Fprintf(w, "Success Rate: %.1f%% (%s / %s)\n",
			s.SuccessRate, formatNumber(s.Succeeded), formatNumber(s.Attempted))
		fmt.Fprintf(w, "Ops/sec:      %.1f\n", s.Throughput)
		fmt.Fprintln(w, "Latency:")
		fmt.Fprintf(w, "  Min:    %s\n", FormatDuration(s.Latency.Min))
		fmt.Fprintf(w, "  Avg:    %s\n", FormatDuration(s.Latency.Avg))
		fmt.Fprintf(w, "  P50:    %s\n", FormatDuration(s.Latency.P50))
		fmt.Fprintf(w, "  P90:    %s\n", FormatDuration(s.Latency.P90))
		fmt.Fprintf(w, "  P95:    %s\n", FormatDuration(s.Latency.P95))
		fmt.Fprintf(w, "  P99:    %s\n", FormatDuration(s.Latency.P99))
		fmt.Fprintf(w, "  Max:    %s\n", FormatDuration(s.Latency.Max))

		if len(s.Errors) > 0 {
			fmt.Fprintln(w, "Failures:")
			for _, reason := range sortedReasons(s.Errors) {
				fmt.Fprintf(w, "  %6d  %s\n", s.Errors[reason], reason)
			}
		}
	}

	if thresholds != nil && len(thresholds.Results) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Thresholds:")
		for _, result := range thresholds.Results {
			symbol := "✓"
			if !result.Passed {
				symbol = "✗"
			}
			fmt.Fprintf(w, "  %s %s < %s (actual: %s)\n",
				symbol, result.Name, result.Threshold, result.Actual)
		}
	}
}

// FormatJSON writes pass statistics in JSON format.
func FormatJSON(w io.Writer, passes []*Stats, thresholds *ThresholdResults) {
	output := struct {
		Passes     []jsonPass        `json:"passes"`
		Thresholds *ThresholdResults `json:"thresholds,omitempty"`
	}{
		Passes:     make([]jsonPass, 0, len(passes)),
		Thresholds: thresholds,
	}

	for _, s := range passes {
		output.Passes = append(output.Passes, jsonPass{
			Op:          string(s.Op),
			Duration:    s.Wall.Round(time.Millisecond).String(),
			Attempted:   s.Attempted,
			Succeeded:   s.Succeeded,
			Failed:      s.Failed,
			SuccessRate: s.SuccessRate,
			OpsPerSec:   s.Throughput,
			Latency:     toJSONDurationStats(s.Latency),
			Errors:      s.Errors,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output) // stdout errors are unrecoverable
}

type jsonPass struct {
	Op          string            `json:"op"`
	Duration    string            `json:"duration"`
	Attempted   int               `json:"attempted"`
	Succeeded   int               `json:"succeeded"`
	Failed      int               `json:"failed"`
	SuccessRate float64           `json:"successRate"`
	OpsPerSec   float64           `json:"opsPerSec"`
	Latency     jsonDurationStats `json:"latency"`
	Errors      map[string]int    `json:"errors,omitempty"`
}

type jsonDurationStats struct {
	Min string `json:"min"`
	Max string `json:"max"`
	Avg string `json:"avg"`
	P50 string `json:"p50"`
	P90 string `json:"p90"`
	P95 string `json:"p95"`
	P99 string `json:"p99"`
}

func toJSONDurationStats(d DurationStats) jsonDurationStats {
	return jsonDurationStats{
		Min: FormatDuration(d.Min),
		Max: FormatDuration(d.Max),
		Avg: FormatDuration(d.Avg),
		P50: FormatDuration(d.P50),
		P90: FormatDuration(d.P90),
		P95: FormatDuration(d.P95),
		P99: FormatDuration(d.P99),
	}
}

func sortedReasons(errs map[string]int) []string {
	reasons := make([]string, 0, len(errs))
	for r := range errs {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + fmt.Sprintf(",%03d", n%1000)
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
