package scene

import "github.com/olivier-w/pulsegrid/internal/analysis"

// constRand returns the same draw forever.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

func loudFrame(n int, beat bool) analysis.Frame {
	bins := make([]byte, n)
	for i := range bins {
		bins[i] = 255
	}
	return analysis.Frame{
		Bins:       bins,
		Waveform:   make([]byte, n),
		AvgEnergy:  255,
		BassEnergy: 1,
		IsBeat:     beat,
	}
}
