package analysis

import "sync"

// SampleRing is a thread-safe circular buffer of mono samples. Audio
// callbacks write into it; the display tick copies the latest window out.
type SampleRing struct {
	buf  []float64
	size int
	w    int // write position
	len  int // current fill level
	mu   sync.Mutex
}

// NewSampleRing creates a ring holding up to size samples.
func NewSampleRing(size int) *SampleRing {
	return &SampleRing{
		buf:  make([]float64, size),
		size: size,
	}
}

// Write appends samples, overwriting the oldest data if full.
func (rb *SampleRing) Write(p []float64) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, s := range p {
		rb.buf[rb.w] = s
		rb.w = (rb.w + 1) % rb.size
	}
	rb.len += len(p)
	if rb.len > rb.size {
		rb.len = rb.size
	}
}

// Samples returns up to n most recent samples in chronological order.
func (rb *SampleRing) Samples(n int) []float64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if n > rb.len {
		n = rb.len
	}
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	start := (rb.w - n + rb.size) % rb.size
	for i := range n {
		out[i] = rb.buf[(start+i)%rb.size]
	}
	return out
}

// Clear drops all buffered samples.
func (rb *SampleRing) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.len = 0
}

// Source supplies the most recent mono samples in [-1, 1].
type Source interface {
	Samples(n int) []float64
}
