// Package payload builds the znode value buffer.
package payload

import "math/rand/v2"

// Generate returns a buffer of exactly size random bytes. The buffer is
// created once per run and shared read-only by all workers; the service only
// cares about its length, not its content.
func Generate(size int) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(rand.UintN(256))
	}
	return buf
}
