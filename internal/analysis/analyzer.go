package analysis

// Band is a half-open window [Lo, Hi) of frequency bins.
type Band struct {
	Lo int `yaml:"lo"`
	Hi int `yaml:"hi"`
}

// DefaultBand covers roughly 20-200 Hz for a 2048-point FFT at 44.1 kHz.
func DefaultBand() Band {
	return Band{Lo: 1, Hi: 10}
}

// Energy holds the scalar metrics extracted from one frequency buffer.
type Energy struct {
	Avg  float64 // mean of all bins, 0-255
	Bass float64 // mean of the bass band, normalized to 0-1
}

// Analyze computes the average energy over the full band and the normalized
// bass energy over band. A band extending past the buffer is clamped to it.
func Analyze(bins []byte, band Band) Energy {
	n := len(bins)
	if n == 0 {
		return Energy{}
	}

	sum := 0
	for _, b := range bins {
		sum += int(b)
	}
	e := Energy{Avg: float64(sum) / float64(n)}

	lo, hi := band.Lo, band.Hi
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi <= lo {
		return e
	}

	bass := 0
	for _, b := range bins[lo:hi] {
		bass += int(b)
	}
	e.Bass = float64(bass) / float64(hi-lo) / 255
	return e
}
