package motion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/pulsegrid/internal/analysis"
)

func newBox(t *testing.T, bin int) Box {
	t.Helper()
	b, err := NewBox(bin, DefaultBoxParams())
	require.NoError(t, err)
	return b
}

func TestNewBoxRejectsBadRate(t *testing.T) {
	p := DefaultBoxParams()
	p.SpinRate = 0
	_, err := NewBox(0, p)
	assert.ErrorIs(t, err, ErrRate)

	b := newBox(t, 4)
	assert.True(t, b.AtRest(0))
	assert.Equal(t, p.DepthRate, b.Depth.Rate)
}

func TestBoxBeatPopsAndSpins(t *testing.T) {
	b := newBox(t, 2)
	b.Update(frameWith(200, true), &seqRand{vals: []float64{0.5, 0.5}})

	assert.Equal(t, VariantSpinY, b.Variant)
	assert.Equal(t, 60.0, b.Depth.Target)
	assert.Equal(t, math.Pi, b.RotY.Target)
	assert.Zero(t, b.RotX.Target)
	assert.Zero(t, b.RotZ.Target)
	assert.InDelta(t, 12, b.Depth.Current, 1e-12)
}

func TestBoxSpinZIsQuarterTurn(t *testing.T) {
	b := newBox(t, 0)
	b.Update(frameWith(255, true), &seqRand{vals: []float64{0, 0.99}})
	assert.Equal(t, VariantSpinZ, b.Variant)
	assert.Equal(t, math.Pi/2, b.RotZ.Target)
}

func TestBoxActivityDepth(t *testing.T) {
	b := newBox(t, 0)
	b.Update(frameWith(51, false), noRand{t})
	assert.InDelta(t, 6, b.Depth.Target, 1e-12)

	b.Update(frameWith(20, false), noRand{t})
	assert.Zero(t, b.Depth.Target)
}

func TestBoxRelaxesToRestOnSilence(t *testing.T) {
	require.NoError(t, DefaultBoxParams().Validate())

	b := newBox(t, 0)
	rng := &seqRand{vals: []float64{0.4, 0.1, 0.9, 0.5}}
	for range 5 {
		b.Update(frameWith(255, true), rng)
	}
	silent := analysis.SilentFrame(16)
	for range 200 {
		b.Update(silent, noRand{t})
	}
	assert.True(t, b.AtRest(1e-6))
}
