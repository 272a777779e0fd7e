package scene

// Vec3 is a point or velocity in scene units.
type Vec3 struct {
	X, Y, Z float64
}

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Scale multiplies every component by k.
func (c Color) Scale(k float64) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

// Lerp blends from c to d by t.
func (c Color) Lerp(d Color, t float64) Color {
	return Color{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
	}
}

// Hex converts a 0xRRGGBB literal.
func Hex(v uint32) Color {
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}
