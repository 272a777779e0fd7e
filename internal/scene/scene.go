// Package scene owns every visual subsystem and advances them together, one
// audio frame per tick.
package scene

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/olivier-w/pulsegrid/internal/analysis"
	"github.com/olivier-w/pulsegrid/internal/motion"
)

// Params configures the whole scene.
type Params struct {
	Grid  GridParams    `yaml:"grid"`
	Boxes BoxGridParams `yaml:"boxes"`
	Bokeh BokehParams   `yaml:"bokeh"`
	Flow  FlowParams    `yaml:"flow"`
}

func DefaultParams() Params {
	return Params{
		Grid: GridParams{
			Layout: Layout{Cols: 16, Rows: 10, Mapping: MappingStride, Stride: 2, Span: 200},
			Cell:   motion.DefaultCellParams(),
		},
		Boxes: BoxGridParams{
			Layout: Layout{Cols: 8, Rows: 6, Mapping: MappingSpread, Stride: 2, Span: 200},
			Box:    motion.DefaultBoxParams(),
			SwayX:  0.1,
			SwayY:  0.2,
		},
		Bokeh: DefaultBokehParams(),
		Flow:  DefaultFlowParams(),
	}
}

// Validate checks every subsystem.
func (p Params) Validate() error {
	if err := p.Grid.Layout.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if err := p.Grid.Cell.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if err := p.Boxes.Layout.Validate(); err != nil {
		return fmt.Errorf("boxes: %w", err)
	}
	if err := p.Boxes.Box.Validate(); err != nil {
		return fmt.Errorf("boxes: %w", err)
	}
	if err := p.Bokeh.Validate(); err != nil {
		return fmt.Errorf("bokeh: %w", err)
	}
	if err := p.Flow.Validate(); err != nil {
		return fmt.Errorf("flow: %w", err)
	}
	return nil
}

// View is a read-only snapshot of the scene for one presented frame.
type View struct {
	Frame   analysis.Frame
	Elapsed float64

	Grid  *Grid
	Boxes *BoxGrid
	Bokeh *BokehPool
	Flow  *FlowField
}

// Sink is a render backend.
type Sink interface {
	Present(v View)
}

// Scene advances the grid, box grid, bokeh pool and flow field in a fixed
// order each tick. It is not safe for concurrent use.
type Scene struct {
	grid  *Grid
	boxes *BoxGrid
	bokeh *BokehPool
	flow  *FlowField
	rng   motion.Rand

	n       int
	last    analysis.Frame
	elapsed float64
}

// New builds every subsystem for an n-bin spectrum.
func New(p Params, n int, rng motion.Rand) (*Scene, error) {
	if n <= 0 {
		return nil, fmt.Errorf("scene with %d bins: %w", n, analysis.ErrBufferLength)
	}

	grid, err := NewGrid(p.Grid, n)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	boxes, err := NewBoxGrid(p.Boxes, n)
	if err != nil {
		return nil, fmt.Errorf("boxes: %w", err)
	}
	bokeh, err := NewBokehPool(p.Bokeh, rng)
	if err != nil {
		return nil, fmt.Errorf("bokeh: %w", err)
	}
	flow, err := NewFlowField(p.Flow, rng)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "scene.New",
		"bins":      n,
		"cells":     len(grid.Cells()),
		"boxes":     len(boxes.Boxes()),
		"bokeh":     len(bokeh.Slots()),
		"particles": len(flow.Particles()),
	}).Debug("Scene built")

	return &Scene{
		grid:  grid,
		boxes: boxes,
		bokeh: bokeh,
		flow:  flow,
		rng:   rng,
		n:     n,
		last:  analysis.SilentFrame(n),
	}, nil
}

// Tick advances every subsystem with f at elapsed seconds since start.
func (s *Scene) Tick(f analysis.Frame, elapsed float64) {
	s.grid.Update(f, s.rng)
	s.boxes.Update(f, s.rng, elapsed)
	s.bokeh.Update(f, s.rng)
	s.flow.Update(f, elapsed, s.rng)
	s.last = f
	s.elapsed = elapsed
}

// Settle ticks silent frames so persistent elements relax toward neutral.
// Time does not advance.
func (s *Scene) Settle(ticks int) {
	silent := analysis.SilentFrame(s.n)
	for range ticks {
		s.Tick(silent, s.elapsed)
	}
}

// AtRest reports whether every grid cell and box is within eps of neutral.
func (s *Scene) AtRest(eps float64) bool {
	cells := s.grid.Cells()
	for i := range cells {
		if !cells[i].AtRest(eps) {
			return false
		}
	}
	boxes := s.boxes.Boxes()
	for i := range boxes {
		if !boxes[i].AtRest(eps) {
			return false
		}
	}
	return true
}

// View returns the current state. The frame buffers in it are only valid
// until the next Tick.
func (s *Scene) View() View {
	return View{
		Frame:   s.last,
		Elapsed: s.elapsed,
		Grid:    s.grid,
		Boxes:   s.boxes,
		Bokeh:   s.bokeh,
		Flow:    s.flow,
	}
}

// Present hands the current view to sink.
func (s *Scene) Present(sink Sink) {
	sink.Present(s.View())
}
