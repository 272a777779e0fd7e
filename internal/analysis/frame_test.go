package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRejectsMismatchedBuffersOnFirstFrame(t *testing.T) {
	s := NewSession(DefaultBand(), DefaultBeatParams())

	_, err := s.Frame(make([]byte, 8), make([]byte, 4))
	require.ErrorIs(t, err, ErrBufferLength)

	_, err = s.Frame(nil, nil)
	require.ErrorIs(t, err, ErrBufferLength)
}

func TestSessionFrameCarriesEnergyAndBeat(t *testing.T) {
	s := NewSession(DefaultBand(), DefaultBeatParams())

	bins := make([]byte, 16)
	for i := 1; i < 10; i++ {
		bins[i] = 240
	}
	f, err := s.Frame(bins, make([]byte, 16))
	require.NoError(t, err)
	assert.True(t, f.IsBeat)
	assert.InDelta(t, 240.0/255, f.BassEnergy, 1e-9)
	assert.InDelta(t, 240*9/16.0, f.AvgEnergy, 1e-9)
	assert.Equal(t, 16, f.Len())
	assert.Equal(t, 1, s.Beats())
}

func TestSessionResetRestoresDefaults(t *testing.T) {
	p := DefaultBeatParams()
	s := NewSession(DefaultBand(), p)

	bins := make([]byte, 16)
	for i := range bins {
		bins[i] = 255
	}
	_, err := s.Frame(bins, bins)
	require.NoError(t, err)
	require.NotEqual(t, NewBeatState(p), s.State())

	s.Reset()
	assert.Equal(t, NewBeatState(p), s.State())
	assert.Zero(t, s.Beats())

	// Buffer length is re-learned after a reset.
	_, err = s.Frame(make([]byte, 4), make([]byte, 4))
	assert.NoError(t, err)
}

func TestFrameNormWrapsIndex(t *testing.T) {
	f := Frame{Bins: []byte{0, 255}}
	assert.Equal(t, 1.0, f.Norm(3))
	assert.Equal(t, 0.0, f.Norm(4))
	assert.Equal(t, 0.0, Frame{}.Norm(7))
}

func TestSilentFrame(t *testing.T) {
	f := SilentFrame(8)
	assert.Equal(t, 8, f.Len())
	assert.Len(t, f.Waveform, 8)
	assert.EqualValues(t, 128, f.Waveform[3])
	assert.False(t, f.IsBeat)
}
