package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSamplerValidates(t *testing.T) {
	p := DefaultSamplerParams()
	p.FFTSize = 1000
	_, err := NewSampler(p)
	require.ErrorIs(t, err, ErrSamplerParams)

	p = DefaultSamplerParams()
	p.Smoothing = 1
	_, err = NewSampler(p)
	require.ErrorIs(t, err, ErrSamplerParams)

	p = DefaultSamplerParams()
	p.MinDecibels = p.MaxDecibels
	_, err = NewSampler(p)
	require.ErrorIs(t, err, ErrSamplerParams)
}

func TestSamplerSilence(t *testing.T) {
	s, err := NewSampler(DefaultSamplerParams())
	require.NoError(t, err)
	require.Equal(t, 1024, s.Bins())

	bins, wave := s.Sample(make([]float64, 2048))
	require.Len(t, bins, 1024)
	require.Len(t, wave, 1024)
	for i := range bins {
		require.Zero(t, bins[i])
		require.EqualValues(t, 128, wave[i])
	}
}

func TestSamplerTonePeaksAtBin(t *testing.T) {
	s, err := NewSampler(DefaultSamplerParams())
	require.NoError(t, err)

	const bin = 64
	pcm := make([]float64, 2048)
	for i := range pcm {
		pcm[i] = 0.01 * math.Sin(2*math.Pi*bin*float64(i)/2048)
	}
	bins, _ := s.Sample(pcm)

	peak := 0
	for i := range bins {
		if bins[i] > bins[peak] {
			peak = i
		}
	}
	assert.Equal(t, bin, peak)
	assert.Greater(t, bins[bin], byte(100))
	assert.Zero(t, bins[400])
}

func TestSamplerPadsShortInput(t *testing.T) {
	s, err := NewSampler(SamplerParams{FFTSize: 64, Smoothing: 0, MinDecibels: -100, MaxDecibels: -30})
	require.NoError(t, err)

	_, wave := s.Sample([]float64{1, -1})
	assert.EqualValues(t, 128, wave[0])
	assert.EqualValues(t, 255, wave[30])
	assert.EqualValues(t, 0, wave[31])
}

func TestSamplerResetClearsSmoothing(t *testing.T) {
	s, err := NewSampler(DefaultSamplerParams())
	require.NoError(t, err)

	pcm := make([]float64, 2048)
	for i := range pcm {
		pcm[i] = 0.5 * math.Sin(2*math.Pi*10*float64(i)/2048)
	}
	s.Sample(pcm)
	s.Reset()

	bins, _ := s.Sample(make([]float64, 2048))
	assert.Zero(t, bins[10])
}
