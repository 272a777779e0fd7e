package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/olivier-w/pulsegrid/internal/analysis"
	"github.com/olivier-w/pulsegrid/internal/motion"
)

// ErrLayout reports an unusable grid layout.
var ErrLayout = errors.New("invalid grid layout")

// Bin mapping strategies.
const (
	MappingStride = "stride" // ordinal * stride mod N
	MappingSpread = "spread" // ordinal spread proportionally over Span bins
)

// Layout describes a row-major grid of persistent elements and how they bind
// to frequency bins.
type Layout struct {
	Cols    int    `yaml:"cols"`
	Rows    int    `yaml:"rows"`
	Mapping string `yaml:"mapping"`
	Stride  int    `yaml:"stride"`
	Span    int    `yaml:"span"`
}

// Validate checks grid dimensions and the mapping mode.
func (l Layout) Validate() error {
	if l.Cols <= 0 || l.Rows <= 0 {
		return fmt.Errorf("%dx%d grid: %w", l.Cols, l.Rows, ErrLayout)
	}
	switch l.Mapping {
	case MappingStride:
		if l.Stride <= 0 {
			return fmt.Errorf("stride %d: %w", l.Stride, ErrLayout)
		}
	case MappingSpread:
		if l.Span <= 0 {
			return fmt.Errorf("span %d: %w", l.Span, ErrLayout)
		}
	default:
		return fmt.Errorf("unknown mapping %q: %w", l.Mapping, ErrLayout)
	}
	return nil
}

// Len returns the number of elements.
func (l Layout) Len() int { return l.Cols * l.Rows }

func (l Layout) bin(ordinal, n int) int {
	if l.Mapping == MappingSpread {
		return motion.MapSpread(ordinal, l.Len(), l.Span, n)
	}
	return motion.MapIndex(ordinal, l.Stride, n)
}

// GridParams configures the flat cell grid.
type GridParams struct {
	Layout `yaml:",inline"`
	Cell   motion.CellParams `yaml:"cell"`
}

// Grid is the persistent flat grid: cells never die, only their parameters
// move.
type Grid struct {
	layout Layout
	cells  []motion.Cell
}

// NewGrid binds every cell to a bin of an n-bin spectrum.
func NewGrid(p GridParams, n int) (*Grid, error) {
	if err := p.Layout.Validate(); err != nil {
		return nil, err
	}

	g := &Grid{layout: p.Layout, cells: make([]motion.Cell, p.Len())}
	for i := range g.cells {
		c, err := motion.NewCell(p.bin(i, n), p.Cell)
		if err != nil {
			return nil, fmt.Errorf("grid cell: %w", err)
		}
		g.cells[i] = c
	}
	return g, nil
}

// Update advances every cell by one tick.
func (g *Grid) Update(f analysis.Frame, rng motion.Rand) {
	for i := range g.cells {
		g.cells[i].Update(f, rng)
	}
}

func (g *Grid) Cols() int { return g.layout.Cols }
func (g *Grid) Rows() int { return g.layout.Rows }

// Cells returns the cells in row-major order. Callers must not modify them.
func (g *Grid) Cells() []motion.Cell { return g.cells }

// BoxGridParams configures the 3D box grid.
type BoxGridParams struct {
	Layout `yaml:",inline"`
	Box    motion.BoxParams `yaml:"box"`
	// Sway amplitudes for the whole group, in radians.
	SwayX float64 `yaml:"sway_x"`
	SwayY float64 `yaml:"sway_y"`
}

// BoxGrid is the persistent 3D grid. The whole group sways gently with time.
type BoxGrid struct {
	params BoxGridParams
	boxes  []motion.Box
	rotX   float64
	rotY   float64
}

func NewBoxGrid(p BoxGridParams, n int) (*BoxGrid, error) {
	if err := p.Layout.Validate(); err != nil {
		return nil, err
	}

	g := &BoxGrid{params: p, boxes: make([]motion.Box, p.Len())}
	for i := range g.boxes {
		b, err := motion.NewBox(p.bin(i, n), p.Box)
		if err != nil {
			return nil, fmt.Errorf("grid box: %w", err)
		}
		g.boxes[i] = b
	}
	return g, nil
}

// Update advances every box and the group sway at elapsed seconds.
func (g *BoxGrid) Update(f analysis.Frame, rng motion.Rand, elapsed float64) {
	for i := range g.boxes {
		g.boxes[i].Update(f, rng)
	}
	t := elapsed * 0.5
	g.rotY = math.Sin(t) * g.params.SwayY
	g.rotX = math.Cos(t*0.7) * g.params.SwayX
}

func (g *BoxGrid) Cols() int { return g.params.Cols }
func (g *BoxGrid) Rows() int { return g.params.Rows }

// Boxes returns the boxes in row-major order. Callers must not modify them.
func (g *BoxGrid) Boxes() []motion.Box { return g.boxes }

// Sway returns the group rotation around the X and Y axes.
func (g *BoxGrid) Sway() (x, y float64) { return g.rotX, g.rotY }
