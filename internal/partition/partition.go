// Package partition divides the global iteration range across workers.
package partition

// Slice is a contiguous half-open range [Start, End) of global iteration
// indices assigned to one worker. Slices never overlap and together cover
// the full range, so node paths derived from the indices never collide.
type Slice struct {
	Worker int
	Start  int
	End    int
}

// Len returns the number of iterations in the slice.
func (s Slice) Len() int {
	return s.End - s.Start
}

// Split divides total iterations as evenly as possible across workers.
// When total is not divisible, the remainder goes one-by-one to the first
// slices, so sizes differ by at most 1. Workers beyond total get zero-length
// slices rather than an error.
func Split(total, workers int) []Slice {
	slices := make([]Slice, workers)
	base := total / workers
	rem := total % workers

	next := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < rem {
			size++
		}
		slices[i] = Slice{Worker: i, Start: next, End: next + size}
		next += size
	}
	return slices
}
