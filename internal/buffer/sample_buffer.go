// Package buffer provides SampleBuffer, the fixed-length rolling window of
// samples shown by the input waveform panel.
package buffer

// SampleBuffer is a fixed-length ring of samples. Pushing a chunk shifts out
// the oldest samples so that the length never changes.
//
// A SampleBuffer is not safe for concurrent use; it is owned by the tick loop.
type SampleBuffer struct {
	data []float64
	// next is the slot the next sample is written to, which is also the
	// oldest sample once the ring has wrapped.
	next int
}

// New returns a zero-filled buffer holding size samples. Sizes below one are
// raised to one.
func New(size int) *SampleBuffer {
	if size < 1 {
		size = 1
	}
	return &SampleBuffer{data: make([]float64, size)}
}

// Len returns the fixed window length.
func (b *SampleBuffer) Len() int { return len(b.data) }

// Push appends chunk at the newest end, dropping len(chunk) of the oldest
// samples. A chunk longer than the window keeps only its tail.
func (b *SampleBuffer) Push(chunk []float64) {
	if len(chunk) > len(b.data) {
		chunk = chunk[len(chunk)-len(b.data):]
	}
	for _, s := range chunk {
		b.data[b.next] = s
		b.next++
		if b.next >= len(b.data) {
			b.next = 0
		}
	}
}

// Reset zeroes every sample.
func (b *SampleBuffer) Reset() {
	clear(b.data)
	b.next = 0
}

// Values returns a copy of the window in chronological order (most recent last).
func (b *SampleBuffer) Values() []float64 {
	out := make([]float64, 0, len(b.data))
	out = append(out, b.data[b.next:]...)
	out = append(out, b.data[:b.next]...)
	return out
}

// Tail returns up to the last n samples in chronological order.
func (b *SampleBuffer) Tail(n int) []float64 {
	vals := b.Values()
	if n >= len(vals) {
		return vals
	}
	if n < 0 {
		n = 0
	}
	return vals[len(vals)-n:]
}

// Clone returns an independent copy of b.
func (b *SampleBuffer) Clone() *SampleBuffer {
	c := &SampleBuffer{data: make([]float64, len(b.data)), next: b.next}
	copy(c.data, b.data)
	return c
}
