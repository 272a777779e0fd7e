package scene

import (
	"fmt"
	"math"

	"github.com/olivier-w/pulsegrid/internal/analysis"
	"github.com/olivier-w/pulsegrid/internal/motion"
)

// FlowParams configures the flow-field particle layer.
type FlowParams struct {
	Count     int     `yaml:"count"`
	HalfX     float64 `yaml:"half_x"`
	HalfY     float64 `yaml:"half_y"`
	HalfZ     float64 `yaml:"half_z"`
	Frequency float64 `yaml:"frequency"`  // spatial frequency of the field
	BaseSpeed float64 `yaml:"base_speed"` // speed multiplier at silence
	Gain      float64 `yaml:"gain"`       // extra speed at full energy
	KickEvery int     `yaml:"kick_every"` // every Nth particle is kicked on a beat
	Kick      float64 `yaml:"kick"`       // kick range, centered on zero
	Sway      float64 `yaml:"sway"`       // group rotation amplitude, radians
}

func DefaultFlowParams() FlowParams {
	return FlowParams{
		Count:     4000,
		HalfX:     100,
		HalfY:     50,
		HalfZ:     50,
		Frequency: 0.05,
		BaseSpeed: 0.5,
		Gain:      2.0,
		KickEvery: 10,
		Kick:      2,
		Sway:      0.1,
	}
}

func (p FlowParams) Validate() error {
	switch {
	case p.Count <= 0:
		return fmt.Errorf("flow count %d: %w", p.Count, ErrPool)
	case p.HalfX <= 0 || p.HalfY <= 0 || p.HalfZ <= 0:
		return fmt.Errorf("flow bounds %.1fx%.1fx%.1f: %w", p.HalfX, p.HalfY, p.HalfZ, ErrPool)
	case p.KickEvery <= 0:
		return fmt.Errorf("flow kick_every %d: %w", p.KickEvery, ErrPool)
	}
	return nil
}

var (
	flowCyan   = Hex(0x00ffff)
	flowWhite  = Hex(0xffffff)
	flowPurple = Hex(0x800080)
)

// FlowParticle is a point carried by the field. Color is fixed at creation.
type FlowParticle struct {
	Pos   Vec3
	Color Color
}

// FlowField moves a fixed population of particles through an analytic,
// time-varying velocity field inside a wrapping box.
type FlowField struct {
	params    FlowParams
	particles []FlowParticle
	sway      float64
}

// NewFlowField scatters particles uniformly through the box.
func NewFlowField(p FlowParams, rng motion.Rand) (*FlowField, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ff := &FlowField{params: p, particles: make([]FlowParticle, p.Count)}
	for i := range ff.particles {
		pos := Vec3{
			X: (rng.Float64()*2 - 1) * p.HalfX,
			Y: (rng.Float64()*2 - 1) * p.HalfY,
			Z: (rng.Float64()*2 - 1) * p.HalfZ,
		}
		ff.particles[i] = FlowParticle{Pos: pos, Color: gradient(pos.X / p.HalfX)}
	}
	return ff, nil
}

// gradient maps u in [-1, 1] to cyan, white, purple.
func gradient(u float64) Color {
	t := (u + 1) / 2
	if t < 0.5 {
		return flowCyan.Lerp(flowWhite, t*2)
	}
	return flowWhite.Lerp(flowPurple, (t-0.5)*2)
}

// Velocity samples the unscaled field at pos and time t.
func (ff *FlowField) Velocity(pos Vec3, t float64) Vec3 {
	k := ff.params.Frequency
	return Vec3{
		X: math.Sin(pos.Y*k+t) * math.Cos(pos.Z*k+t*0.5),
		Y: math.Cos(pos.X*k+t) * math.Sin(pos.Z*k+t),
		Z: math.Sin(pos.X*k + t*0.8),
	}
}

// Speed returns the field multiplier for an average energy in 0-255.
func (ff *FlowField) Speed(avg float64) float64 {
	return ff.params.BaseSpeed + avg/255*ff.params.Gain
}

// Update integrates every particle one explicit Euler step at time t.
// rng is only consulted on beats.
func (ff *FlowField) Update(f analysis.Frame, t float64, rng motion.Rand) {
	p := &ff.params
	speed := ff.Speed(f.AvgEnergy)

	for i := range ff.particles {
		pos := &ff.particles[i].Pos
		v := ff.Velocity(*pos, t)
		pos.X += v.X * speed
		pos.Y += v.Y * speed
		pos.Z += v.Z * speed

		if f.IsBeat && i%p.KickEvery == 0 {
			pos.Y += (rng.Float64() - 0.5) * p.Kick
		}

		pos.X = wrap(pos.X, p.HalfX)
		pos.Y = wrap(pos.Y, p.HalfY)
		pos.Z = wrap(pos.Z, p.HalfZ)
	}

	ff.sway = math.Sin(t*0.1) * p.Sway
}

// wrap teleports v to the opposite face once it leaves [-half, half].
func wrap(v, half float64) float64 {
	switch {
	case v > half:
		return -half
	case v < -half:
		return half
	}
	return v
}

// Particles returns the population. Callers must not modify it.
func (ff *FlowField) Particles() []FlowParticle { return ff.particles }

// Sway returns the group rotation around the Y axis.
func (ff *FlowField) Sway() float64 { return ff.sway }

// Bounds returns the half extents of the box.
func (ff *FlowField) Bounds() Vec3 {
	return Vec3{X: ff.params.HalfX, Y: ff.params.HalfY, Z: ff.params.HalfZ}
}
