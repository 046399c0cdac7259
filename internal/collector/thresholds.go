package collector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Thresholds defines pass/fail criteria evaluated against every benchmark pass.
type Thresholds struct {
	OpDuration *DurationThresholds `yaml:"op_duration"`
	OpFailed   *FailureThresholds  `yaml:"op_failed"`
}

// DurationThresholds defines latency limits. Zero values are not checked.
type DurationThresholds struct {
	Avg time.Duration `yaml:"avg"`
	P50 time.Duration `yaml:"p50"`
	P90 time.Duration `yaml:"p90"`
	P95 time.Duration `yaml:"p95"`
	P99 time.Duration `yaml:"p99"`
}

// UnmarshalYAML accepts duration strings ("250ms", "1.5s").
func (d *DurationThresholds) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Avg string `yaml:"avg"`
		P50 string `yaml:"p50"`
		P90 string `yaml:"p90"`
		P95 string `yaml:"p95"`
		P99 string `yaml:"p99"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	fields := []struct {
		raw string
		dst *time.Duration
	}{
		{raw.Avg, &d.Avg},
		{raw.P50, &d.P50},
		{raw.P90, &d.P90},
		{raw.P95, &d.P95},
		{raw.P99, &d.P99},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("invalid duration threshold %q: %w", f.raw, err)
		}
		*f.dst = parsed
	}
	return nil
}

// FailureThresholds defines error rate limits, e.g. "1%".
type FailureThresholds struct {
	Rate string `yaml:"rate"`
}

// ThresholdResult represents the outcome of a single threshold check.
type ThresholdResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
}

// ThresholdResults contains all threshold check results.
type ThresholdResults struct {
	Passed  bool              `json:"passed"`
	Results []ThresholdResult `json:"results"`
}

// Validate reports malformed threshold settings, so a typo fails the run at
// startup instead of silently passing every check.
func (t *Thresholds) Validate() error {
	if t == nil {
		return nil
	}
	if t.OpFailed != nil && t.OpFailed.Rate != "" {
		if _, err := parsePercentage(t.OpFailed.Rate); err != nil {
			return err
		}
	}
	return nil
}

// Check evaluates all thresholds against the finalized passes.
func (t *Thresholds) Check(passes []*Stats) *ThresholdResults {
	if t == nil {
		return &ThresholdResults{Passed: true, Results: nil}
	}

	results := &ThresholdResults{
		Passed:  true,
		Results: make([]ThresholdResult, 0),
	}

	for _, s := range passes {
		if t.OpDuration != nil {
			results.checkDurationThresholds(s, t.OpDuration)
		}
		if t.OpFailed != nil && t.OpFailed.Rate != "" {
			results.checkFailureRate(s, t.OpFailed)
		}
	}

	return results
}

func (r *ThresholdResults) checkDurationThresholds(s *Stats, thresholds *DurationThresholds) {
	checks := []struct {
		name      string
		threshold time.Duration
		actual    time.Duration
	}{
		{"duration.avg", thresholds.Avg, s.Latency.Avg},
		{"duration.p50", thresholds.P50, s.Latency.P50},
		{"duration.p90", thresholds.P90, s.Latency.P90},
		{"duration.p95", thresholds.P95, s.Latency.P95},
		{"duration.p99", thresholds.P99, s.Latency.P99},
	}

	for _, check := range checks {
		if check.threshold == 0 {
			continue
		}

		passed := check.actual < check.threshold
		if !passed {
			r.Passed = false
		}

		r.Results = append(r.Results, ThresholdResult{
			Name:      fmt.Sprintf("%s_%s", s.Op, check.name),
			Passed:    passed,
			Threshold: FormatDuration(check.threshold),
			Actual:    FormatDuration(check.actual),
		})
	}
}

func (r *ThresholdResults) checkFailureRate(s *Stats, thresholds *FailureThresholds) {
	thresholdRate, err := parsePercentage(thresholds.Rate)
	if err != nil {
		return
	}

	actualRate := 100.0 - s.SuccessRate
	passed := actualRate < thresholdRate

	if !passed {
		r.Passed = false
	}

	r.Results = append(r.Results, ThresholdResult{
		Name:      fmt.Sprintf("%s_failed.rate", s.Op),
		Passed:    passed,
		Threshold: thresholds.Rate,
		Actual:    fmt.Sprintf("%.2f%%", actualRate),
	})
}

func parsePercentage(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("invalid percentage format: %s", s)
	}
	s = strings.TrimSuffix(s, "%")
	return strconv.ParseFloat(s, 64)
}

// Violations returns only the failed threshold results.
func (r *ThresholdResults) Violations() []ThresholdResult {
	violations := make([]ThresholdResult, 0)
	for _, result := range r.Results {
		if !result.Passed {
			violations = append(violations, result)
		}
	}
	return violations
}
