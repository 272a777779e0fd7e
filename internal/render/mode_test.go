package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, name := range []string{"grid", "boxes", "particles", "all"} {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}

	_, err := ParseMode("plasma")
	assert.ErrorIs(t, err, ErrMode)
}

func TestModeNextCycles(t *testing.T) {
	m := ModeGrid
	seen := []Mode{m}
	for range 4 {
		m = m.Next()
		seen = append(seen, m)
	}
	assert.Equal(t, []Mode{ModeGrid, ModeBoxes, ModeParticles, ModeAll, ModeGrid}, seen)
}

func TestModeLayers(t *testing.T) {
	bokeh, flow, cells, boxes := ModeParticles.layers()
	assert.False(t, bokeh)
	assert.True(t, flow)
	assert.False(t, cells)
	assert.False(t, boxes)

	bokeh, flow, cells, boxes = ModeAll.layers()
	assert.True(t, bokeh && flow && boxes)
	assert.False(t, cells)
}
