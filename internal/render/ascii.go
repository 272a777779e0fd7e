// Package render draws scene views as colored ASCII for the terminal.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/olivier-w/pulsegrid/internal/scene"
)

// Offsets in scene units per grid cell width.
const jitterUnit = 60.0

// ASCII renders scene views into a character grid. It implements scene.Sink.
type ASCII struct {
	width   int
	height  int
	mode    Mode
	profile colorProfile
	canvas  canvas
	meter   meter
	output  string
}

// NewASCII creates a renderer whose footer meter is tuned for fps.
func NewASCII(mode Mode, fps int) *ASCII {
	return &ASCII{
		mode:    mode,
		profile: currentColorProfile(),
		meter:   newMeter(fps),
	}
}

// Resize sets the output size in characters, footer included.
func (a *ASCII) Resize(width, height int) {
	a.width, a.height = max(width, 0), max(height, 0)
}

func (a *ASCII) Mode() Mode { return a.mode }

func (a *ASCII) SetMode(m Mode) { a.mode = m }

// View returns the most recently presented frame.
func (a *ASCII) View() string { return a.output }

// Present draws v. The result is available from View until the next call.
func (a *ASCII) Present(v scene.View) {
	if a.width == 0 || a.height == 0 {
		a.output = ""
		return
	}

	body := a.height - 1
	a.canvas.resize(a.width, body)
	a.canvas.clear()

	bokeh, flow, cells, boxes := a.mode.layers()
	if bokeh && v.Bokeh != nil {
		a.drawBokeh(v.Bokeh)
	}
	if flow && v.Flow != nil {
		a.drawFlow(v.Flow)
	}
	if cells && v.Grid != nil {
		a.drawCells(v)
	}
	if boxes && v.Boxes != nil {
		a.drawBoxes(v)
	}

	var sb strings.Builder
	a.canvas.write(&sb, a.profile)
	if body > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(a.footer(v))
	a.output = sb.String()
}

// project maps normalized coordinates in [-1, 1] to canvas cells, y up.
func (a *ASCII) project(nx, ny float64) (float64, float64) {
	return (nx + 1) / 2 * float64(a.canvas.w), (1 - ny) / 2 * float64(a.canvas.h)
}

func (a *ASCII) drawBokeh(pool *scene.BokehPool) {
	w, h := pool.Extent()
	sin, cos := math.Sincos(pool.Roll())
	for _, s := range pool.Slots() {
		if !s.Active {
			continue
		}
		x := s.Pos.X*cos - s.Pos.Y*sin
		y := s.Pos.X*sin + s.Pos.Y*cos
		cx, cy := a.project(x/(w/2), y/(h/2))

		level := math.Max(s.Color.R, math.Max(s.Color.G, s.Color.B))
		ch := byte('.')
		switch {
		case level > 0.66:
			ch = 'O'
		case level > 0.33:
			ch = 'o'
		}
		a.canvas.set(int(cx), int(cy), ch, fromScene(s.Color, 0.8))
	}
}

func (a *ASCII) drawFlow(ff *scene.FlowField) {
	b := ff.Bounds()
	sin, cos := math.Sincos(ff.Sway())
	for _, p := range ff.Particles() {
		x := p.Pos.X*cos + p.Pos.Z*sin
		z := -p.Pos.X*sin + p.Pos.Z*cos
		cx, cy := a.project(x/b.X, p.Pos.Y/b.Y)

		ch := byte('.')
		if z > b.Z/2 {
			ch = ':'
		}
		near := (z/b.Z + 1) / 2
		a.canvas.set(int(cx), int(cy), ch, fromScene(p.Color, 0.4+0.5*near))
	}
}

func (a *ASCII) drawCells(v scene.View) {
	g := v.Grid
	cw := float64(a.canvas.w) / float64(g.Cols())
	ch := float64(a.canvas.h) / float64(g.Rows())

	for i, c := range g.Cells() {
		col, row := i%g.Cols(), i/g.Cols()
		cx := (float64(col)+0.5)*cw + c.OffsetX.Current/jitterUnit*cw
		cy := (float64(row)+0.5)*ch + c.OffsetY.Current/jitterUnit*ch
		hw := cw * 0.45 * math.Abs(c.Scale.Current*c.ScaleX.Current)
		hh := ch * 0.45 * math.Abs(c.Scale.Current*c.ScaleY.Current)

		norm := v.Frame.Norm(c.Bin)
		glyph := turnGlyph(c.Rotation.Current, rampGlyph(0.3+norm*0.7))
		color := heatColor(norm).dim(c.Opacity.Current * (0.35 + 0.65*norm))
		a.canvas.fill(cx, cy, hw, hh, glyph, color)
	}
}

func (a *ASCII) drawBoxes(v scene.View) {
	g := v.Boxes
	cw := float64(a.canvas.w) / float64(g.Cols())
	ch := float64(a.canvas.h) / float64(g.Rows())
	swayX, swayY := g.Sway()
	dx := math.Sin(swayY) * float64(a.canvas.w) * 0.25
	dy := math.Sin(swayX) * float64(a.canvas.h) * 0.25

	for i, b := range g.Boxes() {
		col, row := i%g.Cols(), i/g.Cols()
		depth := clamp01(b.Depth.Current / 70)
		grow := 1 + depth*0.5
		cx := (float64(col)+0.5)*cw + dx
		cy := (float64(row)+0.5)*ch + dy
		hw := cw * 0.4 * grow * math.Abs(math.Cos(b.RotY.Current))
		hh := ch * 0.4 * grow * math.Abs(math.Cos(b.RotX.Current))

		glyph := turnGlyph(b.RotZ.Current, rampGlyph(0.2+depth*0.8))
		hue := 0.5 + float64(col)/float64(g.Cols())*0.35
		a.canvas.fill(cx, cy, hw, hh, glyph, rgbFromHSV(hue, 0.7, 0.35+0.65*depth))
	}
}

// turnGlyph replaces base with a diagonal while a rotation is mid-turn.
func turnGlyph(rad float64, base byte) byte {
	d := math.Sin(2 * rad)
	switch {
	case d > 0.5:
		return '/'
	case d < -0.5:
		return '\\'
	}
	return base
}

func (a *ASCII) footer(v scene.View) string {
	level := a.meter.update(v.Frame.AvgEnergy / 255)

	label := fmt.Sprintf(" %-9s ", a.mode)
	beat := "     "
	if v.Frame.IsBeat {
		beat = " BEAT"
	}
	barW := a.width - len(label) - len(beat) - 2
	if barW < 1 {
		return truncate(label+beat, a.width)
	}

	filled := int(level * float64(barW))
	peak := min(int(a.meter.peak*float64(barW)), barW-1)

	var sb strings.Builder
	sb.WriteString(label)
	sb.WriteByte('[')
	st := newANSIState(a.profile)
	for i := range barW {
		switch {
		case i < filled:
			st.set(&sb, heatColor(float64(i)/float64(barW)))
			sb.WriteByte('=')
		case i == peak:
			st.set(&sb, heatColor(a.meter.peak))
			sb.WriteByte('|')
		default:
			st.reset(&sb)
			sb.WriteByte(' ')
		}
	}
	st.reset(&sb)
	sb.WriteByte(']')
	sb.WriteString(beat)
	return sb.String()
}

func truncate(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	return s
}
