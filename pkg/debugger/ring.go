package debugger

// ring is a fixed-capacity FIFO that overwrites its oldest element when full.
type ring[T any] struct {
	entries []T
	start   int
	count   int
}

func newRing[T any](size int) *ring[T] {
	if size <= 0 {
		size = 1
	}
	return &ring[T]{
		entries: make([]T, size),
	}
}

// add appends entry and reports whether an older element was evicted.
func (r *ring[T]) add(entry T) bool {
	if r.count < len(r.entries) {
		index := (r.start + r.count) % len(r.entries)
		r.entries[index] = entry
		r.count++
		return false
	}

	r.entries[r.start] = entry
	r.start = (r.start + 1) % len(r.entries)
	return true
}

func (r *ring[T]) len() int {
	return r.count
}

func (r *ring[T]) capacity() int {
	return len(r.entries)
}

func (r *ring[T]) list() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		index := (r.start + i) % len(r.entries)
		out[i] = r.entries[index]
	}
	return out
}

func (r *ring[T]) last() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.entries[(r.start+r.count-1)%len(r.entries)], true
}

func (r *ring[T]) reset() {
	var zero T
	for i := range r.entries {
		r.entries[i] = zero
	}
	r.start = 0
	r.count = 0
}
