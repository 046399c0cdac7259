// Package config holds the immutable run configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"zoobench/internal/collector"
)

// Size is a byte count that unmarshals from suffixed notation ("128K").
type Size int64

func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	n, err := ParseSize(value.Value)
	if err != nil {
		return err
	}
	*s = Size(n)
	return nil
}

// Config is the process-wide benchmark configuration. Built once at startup
// and read-only thereafter; all workers share it without synchronization.
type Config struct {
	Hosts          string                `yaml:"hosts"`
	TimeoutSeconds int                   `yaml:"timeout"`
	Iterations     int                   `yaml:"iteration"`
	Threads        int                   `yaml:"threads"`
	NodeSize       Size                  `yaml:"node_size"`
	Ephemeral      bool                  `yaml:"ephemeral"`
	Prefix         string                `yaml:"prefix"`
	RPS            int                   `yaml:"rps"`
	SkipReads      bool                  `yaml:"skip_reads"`
	Digest         string                `yaml:"digest"`
	Thresholds     *collector.Thresholds `yaml:"thresholds,omitempty"`
}

// Default returns a Config with the standard flag defaults.
func Default() *Config {
	return &Config{
		TimeoutSeconds: 10,
		Iterations:     1000,
		Threads:        8,
		NodeSize:       128 * 1024,
		Prefix:         "/zoobench",
	}
}

// Load reads a YAML run configuration, overlaying it on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Timeout returns the connect timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values the benchmark cannot run with.
func (c *Config) Validate() error {
	if c.Hosts == "" {
		return fmt.Errorf("hosts is required")
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout must be >= 1 second, got %d", c.TimeoutSeconds)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iteration must be >= 1, got %d", c.Iterations)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be >= 1, got %d", c.Threads)
	}
	if c.NodeSize < 0 {
		return fmt.Errorf("node size must be >= 0, got %d", c.NodeSize)
	}
	if !strings.HasPrefix(c.Prefix, "/") || c.Prefix == "/" {
		return fmt.Errorf("prefix must be an absolute path below the root, got %q", c.Prefix)
	}
	if strings.HasSuffix(c.Prefix, "/") {
		return fmt.Errorf("prefix must not end with a slash, got %q", c.Prefix)
	}
	if c.RPS < 0 {
		return fmt.Errorf("rps must be >= 0, got %d", c.RPS)
	}
	if c.Digest != "" && !strings.Contains(c.Digest, ":") {
		return fmt.Errorf("digest must be user:password, got %q", c.Digest)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	return nil
}

// ParseSize parses a byte count with an optional K/M/G suffix (1024-based,
// a trailing B is accepted): "128K", "1MB", "4096".
func ParseSize(s string) (int64, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if t == "" {
		return 0, fmt.Errorf("empty size")
	}

	mult := int64(1)
	if len(t) > 1 {
		t = strings.TrimSuffix(t, "B")
	}
	switch {
	case strings.HasSuffix(t, "K"):
		mult = 1 << 10
		t = strings.TrimSuffix(t, "K")
	case strings.HasSuffix(t, "M"):
		mult = 1 << 20
		t = strings.TrimSuffix(t, "M")
	case strings.HasSuffix(t, "G"):
		mult = 1 << 30
		t = strings.TrimSuffix(t, "G")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}
	return n * mult, nil
}
