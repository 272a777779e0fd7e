package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// ErrSamplerParams reports an unusable sampler configuration.
var ErrSamplerParams = errors.New("invalid sampler parameters")

// SamplerParams mirrors the knobs of a browser AnalyserNode.
type SamplerParams struct {
	FFTSize     int     `yaml:"fft_size"`
	Smoothing   float64 `yaml:"smoothing"`
	MinDecibels float64 `yaml:"min_decibels"`
	MaxDecibels float64 `yaml:"max_decibels"`
}

// DefaultSamplerParams gives 1024 bins with a snappy response.
func DefaultSamplerParams() SamplerParams {
	return SamplerParams{
		FFTSize:     2048,
		Smoothing:   0.6,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

// Validate checks that the FFT size is a power of two and the ranges are sane.
func (p SamplerParams) Validate() error {
	if p.FFTSize < 32 || p.FFTSize&(p.FFTSize-1) != 0 {
		return fmt.Errorf("fft size %d is not a power of two >= 32: %w", p.FFTSize, ErrSamplerParams)
	}
	if p.Smoothing < 0 || p.Smoothing >= 1 {
		return fmt.Errorf("smoothing %.2f outside [0, 1): %w", p.Smoothing, ErrSamplerParams)
	}
	if p.MinDecibels >= p.MaxDecibels {
		return fmt.Errorf("decibel range [%.1f, %.1f] is empty: %w", p.MinDecibels, p.MaxDecibels, ErrSamplerParams)
	}
	return nil
}

// Sampler turns PCM into fixed-length byte frequency and time-domain buffers.
// The returned slices are owned by the Sampler and overwritten by the next
// call to Sample.
type Sampler struct {
	params SamplerParams
	fft    *fourier.FFT
	window []float64
	in     []float64
	coeffs []complex128
	smooth []float64
	bins   []byte
	wave   []byte
}

// NewSampler creates a sampler producing FFTSize/2 bins.
func NewSampler(p SamplerParams) (*Sampler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.FFTSize
	win := make([]float64, n)
	for i := range win {
		win[i] = 1
	}

	s := &Sampler{
		params: p,
		fft:    fourier.NewFFT(n),
		window: window.Blackman(win),
		in:     make([]float64, n),
		coeffs: make([]complex128, n/2+1),
		smooth: make([]float64, n/2),
		bins:   make([]byte, n/2),
		wave:   make([]byte, n/2),
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewSampler",
		"fft_size": n,
		"bins":     n / 2,
	}).Debug("Sampler created")

	return s, nil
}

// Bins returns N, the length of both output buffers.
func (s *Sampler) Bins() int { return len(s.bins) }

// Sample analyzes the most recent FFTSize samples of pcm. Shorter input is
// zero-padded at the front.
func (s *Sampler) Sample(pcm []float64) (bins, wave []byte) {
	n := s.params.FFTSize
	if len(pcm) > n {
		pcm = pcm[len(pcm)-n:]
	}
	pad := n - len(pcm)
	for i := range pad {
		s.in[i] = 0
	}
	for i, v := range pcm {
		s.in[pad+i] = v * s.window[pad+i]
	}

	s.coeffs = s.fft.Coefficients(s.coeffs, s.in)

	tau := s.params.Smoothing
	span := s.params.MaxDecibels - s.params.MinDecibels
	for k := range s.bins {
		mag := cmplx.Abs(s.coeffs[k]) / float64(n)
		s.smooth[k] = tau*s.smooth[k] + (1-tau)*mag
		s.bins[k] = 0
		if s.smooth[k] <= 0 {
			continue
		}
		db := 20 * math.Log10(s.smooth[k])
		s.bins[k] = toByte(255 * (db - s.params.MinDecibels) / span)
	}

	half := len(s.wave)
	for i := range s.wave {
		v := 0.0
		if j := len(pcm) - half + i; j >= 0 {
			v = pcm[j]
		}
		s.wave[i] = toByte(128 * (1 + v))
	}

	return s.bins, s.wave
}

// Reset forgets smoothing history.
func (s *Sampler) Reset() {
	for i := range s.smooth {
		s.smooth[i] = 0
	}
}

func toByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}
