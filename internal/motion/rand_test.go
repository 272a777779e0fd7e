package motion

import "testing"

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// noRand fails the test if a draw is requested.
type noRand struct{ t *testing.T }

func (r noRand) Float64() float64 {
	r.t.Helper()
	r.t.Fatal("unexpected random draw")
	return 0
}
