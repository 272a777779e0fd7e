package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/pulsegrid/internal/motion"
)

func TestLayoutValidate(t *testing.T) {
	cases := []struct {
		name   string
		layout Layout
		ok     bool
	}{
		{"stride", Layout{Cols: 4, Rows: 2, Mapping: MappingStride, Stride: 2}, true},
		{"spread", Layout{Cols: 4, Rows: 2, Mapping: MappingSpread, Span: 200}, true},
		{"zero cols", Layout{Cols: 0, Rows: 2, Mapping: MappingStride, Stride: 2}, false},
		{"zero stride", Layout{Cols: 4, Rows: 2, Mapping: MappingStride}, false},
		{"zero span", Layout{Cols: 4, Rows: 2, Mapping: MappingSpread}, false},
		{"unknown mapping", Layout{Cols: 4, Rows: 2, Mapping: "log", Stride: 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.layout.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrLayout)
			}
		})
	}
}

func TestNewGridBindsStrideBins(t *testing.T) {
	p := DefaultParams().Grid
	g, err := NewGrid(p, 256)
	require.NoError(t, err)

	cells := g.Cells()
	require.Len(t, cells, 160)
	assert.Equal(t, 16, g.Cols())
	assert.Equal(t, 10, g.Rows())
	assert.Equal(t, 0, cells[0].Bin)
	assert.Equal(t, 2, cells[1].Bin)
	assert.Equal(t, 318%256, cells[159].Bin)
}

func TestNewGridRejectsBadRate(t *testing.T) {
	p := DefaultParams().Grid
	p.Cell.ScaleRate = 1.5
	_, err := NewGrid(p, 64)
	assert.ErrorIs(t, err, motion.ErrRate)
}

func TestGridSilenceKeepsCellsAtRest(t *testing.T) {
	g, err := NewGrid(DefaultParams().Grid, 32)
	require.NoError(t, err)

	f := loudFrame(32, false)
	for i := range f.Bins {
		f.Bins[i] = 0
	}
	for range 10 {
		g.Update(f, constRand(0))
	}
	for _, c := range g.Cells() {
		assert.True(t, c.AtRest(1e-12))
	}
}

func TestBoxGridSway(t *testing.T) {
	p := DefaultParams().Boxes
	g, err := NewBoxGrid(p, 128)
	require.NoError(t, err)
	require.Len(t, g.Boxes(), 48)

	g.Update(loudFrame(128, false), constRand(0), 0)
	x, y := g.Sway()
	assert.InDelta(t, p.SwayX, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	// sin peaks at elapsed*0.5 = pi/2.
	g.Update(loudFrame(128, false), constRand(0), 3.141592653589793)
	_, y = g.Sway()
	assert.InDelta(t, p.SwayY, y, 1e-12)
}

func TestBoxGridSpreadsBins(t *testing.T) {
	g, err := NewBoxGrid(DefaultParams().Boxes, 1024)
	require.NoError(t, err)

	boxes := g.Boxes()
	for i := 1; i < len(boxes); i++ {
		assert.GreaterOrEqual(t, boxes[i].Bin, boxes[i-1].Bin)
		assert.Less(t, boxes[i].Bin, 200)
	}
}
