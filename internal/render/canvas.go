package render

import "strings"

var densityRamp = []byte(" .:-=+*#%@")

type glyph struct {
	ch byte
	c  colorRGB
}

// canvas is a fixed character grid drawn back to front.
type canvas struct {
	w, h  int
	cells []glyph
}

func (cv *canvas) resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if cv.w == w && cv.h == h {
		return
	}
	cv.w, cv.h = w, h
	cv.cells = make([]glyph, w*h)
	cv.clear()
}

func (cv *canvas) clear() {
	for i := range cv.cells {
		cv.cells[i] = glyph{ch: ' '}
	}
}

// set writes one glyph, ignoring points off the canvas.
func (cv *canvas) set(x, y int, ch byte, c colorRGB) {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return
	}
	cv.cells[y*cv.w+x] = glyph{ch: ch, c: c}
}

// fill writes a rectangle centered on (cx, cy) with half extents hw, hh.
func (cv *canvas) fill(cx, cy, hw, hh float64, ch byte, c colorRGB) {
	x0, x1 := int(cx-hw+0.5), int(cx+hw+0.5)
	y0, y1 := int(cy-hh+0.5), int(cy+hh+0.5)
	if x1 == x0 {
		x1++
	}
	if y1 == y0 {
		y1++
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cv.set(x, y, ch, c)
		}
	}
}

func (cv *canvas) at(x, y int) glyph {
	return cv.cells[y*cv.w+x]
}

func (cv *canvas) write(sb *strings.Builder, p colorProfile) {
	for y := range cv.h {
		if y > 0 {
			sb.WriteByte('\n')
		}
		st := newANSIState(p)
		for x := range cv.w {
			g := cv.at(x, y)
			if g.ch != ' ' {
				st.set(sb, g.c)
			}
			sb.WriteByte(g.ch)
		}
		st.reset(sb)
	}
}

func rampGlyph(level float64) byte {
	idx := int(clamp01(level) * float64(len(densityRamp)-1))
	return densityRamp[idx]
}
