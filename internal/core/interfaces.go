// Package core defines the fundamental interfaces and types for zoobench.
package core

import (
	"strconv"
	"time"
)

// Op identifies which operation a benchmark pass issues against the store.
type Op string

const (
	OpCreate Op = "create"
	OpRead   Op = "read"
)

// Result represents a single measurement of one operation against the store.
type Result struct {
	Worker   int
	Index    int
	Op       Op
	Duration time.Duration
	OK       bool
	Err      string // failure reason, empty on success
}

// Session is the capability view workers hold into the shared connection.
// Implementations must be safe for concurrent use by all worker goroutines.
type Session interface {
	Create(path string, data []byte, ephemeral bool) error
	Read(path string) error
}

// Reporter is the interface workers use to send results to the Collector.
type Reporter interface {
	Report(Result)
}

// NodePath derives the znode path for a global iteration index. Distinct
// indices yield distinct paths regardless of which worker builds them.
func NodePath(prefix string, index int) string {
	return prefix + "/test-node" + strconv.Itoa(index)
}
