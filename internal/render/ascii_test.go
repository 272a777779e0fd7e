package render

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/pulsegrid/internal/analysis"
	"github.com/olivier-w/pulsegrid/internal/scene"
)

func plainASCII(mode Mode, w, h int) *ASCII {
	a := NewASCII(mode, 30)
	a.profile = colorNone
	a.Resize(w, h)
	return a
}

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	p := scene.DefaultParams()
	p.Flow.Count = 300
	s, err := scene.New(p, 64, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	return s
}

func loud(n int) analysis.Frame {
	bins := make([]byte, n)
	for i := range bins {
		bins[i] = 230
	}
	return analysis.Frame{Bins: bins, Waveform: make([]byte, n), AvgEnergy: 230, BassEnergy: 0.9, IsBeat: true}
}

func TestPresentFillsCanvas(t *testing.T) {
	s := testScene(t)
	s.Tick(loud(64), 1)

	for _, m := range []Mode{ModeGrid, ModeBoxes, ModeParticles, ModeAll} {
		t.Run(m.String(), func(t *testing.T) {
			a := plainASCII(m, 48, 16)
			s.Present(a)

			lines := strings.Split(a.View(), "\n")
			require.Len(t, lines, 16)
			for _, line := range lines[:15] {
				assert.Len(t, line, 48)
			}
			assert.NotEmpty(t, strings.TrimSpace(strings.Join(lines[:15], "")))
			assert.Contains(t, lines[15], m.String())
			assert.Contains(t, lines[15], "BEAT")
		})
	}
}

func TestPresentZeroSize(t *testing.T) {
	a := plainASCII(ModeAll, 0, 0)
	testScene(t).Present(a)
	assert.Empty(t, a.View())
}

func TestSilentGridIsDim(t *testing.T) {
	s := testScene(t)
	s.Settle(1)

	a := plainASCII(ModeGrid, 32, 11)
	s.Present(a)
	lines := strings.Split(a.View(), "\n")
	assert.NotContains(t, lines[len(lines)-1], "BEAT")
	assert.NotContains(t, strings.Join(lines[:10], ""), "@")
}

func TestMeterEasesTowardEnergy(t *testing.T) {
	m := newMeter(30)
	var lvl float64
	for range 120 {
		lvl = m.update(1)
	}
	assert.InDelta(t, 1, lvl, 0.02)
	assert.GreaterOrEqual(t, m.peak, lvl)

	for range 300 {
		lvl = m.update(0)
	}
	assert.InDelta(t, 0, lvl, 0.02)
	assert.Less(t, m.peak, 0.1)
}

func TestTurnGlyph(t *testing.T) {
	assert.Equal(t, byte('#'), turnGlyph(0, '#'))
	assert.Equal(t, byte('/'), turnGlyph(0.785, '#'))
	assert.Equal(t, byte('\\'), turnGlyph(-0.785, '#'))
}

func TestCanvasIgnoresOffscreen(t *testing.T) {
	var cv canvas
	cv.resize(4, 2)
	cv.set(-1, 0, 'x', colorRGB{})
	cv.set(4, 1, 'x', colorRGB{})
	cv.set(3, 1, 'x', colorRGB{})

	var sb strings.Builder
	cv.write(&sb, colorNone)
	assert.Equal(t, "    \n   x", sb.String())
}
