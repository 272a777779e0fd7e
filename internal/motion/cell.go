package motion

import (
	"fmt"
	"math"

	"github.com/olivier-w/pulsegrid/internal/analysis"
)

// CellParams tunes a flat grid cell.
type CellParams struct {
	ActivityThreshold float64 `yaml:"activity_threshold"`
	BeatThreshold     float64 `yaml:"beat_threshold"`
	PulseDepth        float64 `yaml:"pulse_depth"`
	BeatScale         float64 `yaml:"beat_scale"`
	JitterRange       float64 `yaml:"jitter_range"`
	FlashOpacity      float64 `yaml:"flash_opacity"`
	ScaleRate         float64 `yaml:"scale_rate"`
	RotationRate      float64 `yaml:"rotation_rate"`
	FlipRate          float64 `yaml:"flip_rate"`
	OffsetRate        float64 `yaml:"offset_rate"`
	OpacityRate       float64 `yaml:"opacity_rate"`
}

// DefaultCellParams returns the layered-rate tuning: scale and offsets ease
// fastest, rotation slower, opacity slowest.
func DefaultCellParams() CellParams {
	return CellParams{
		ActivityThreshold: 0.4,
		BeatThreshold:     0.5,
		PulseDepth:        0.1,
		BeatScale:         0.8,
		JitterRange:       20,
		FlashOpacity:      0.4,
		ScaleRate:         0.2,
		RotationRate:      0.15,
		FlipRate:          0.2,
		OffsetRate:        0.2,
		OpacityRate:       0.1,
	}
}

// Validate checks every rate.
func (p CellParams) Validate() error {
	return validateRates(map[string]float64{
		"scale_rate":    p.ScaleRate,
		"rotation_rate": p.RotationRate,
		"flip_rate":     p.FlipRate,
		"offset_rate":   p.OffsetRate,
		"opacity_rate":  p.OpacityRate,
	})
}

// Quarter-turn rotations a cell may snap to, in degrees.
var cellRotations = [...]float64{0, 90, 180, -90}

// Cell is a persistent grid element bound to one frequency bin.
type Cell struct {
	Bin      int
	Scale    Param
	Rotation Param
	ScaleX   Param
	ScaleY   Param
	OffsetX  Param
	OffsetY  Param
	Opacity  Param

	// Variant is the reaction chosen on the most recent tick, if any.
	Variant Variant

	params CellParams
}

// NewCell creates a cell at rest. Every rate must be in (0, 1].
func NewCell(bin int, p CellParams) (Cell, error) {
	c := Cell{Bin: bin, params: p}
	for _, f := range []struct {
		dst  *Param
		rest float64
		rate float64
		name string
	}{
		{&c.Scale, 1, p.ScaleRate, "scale_rate"},
		{&c.Rotation, 0, p.RotationRate, "rotation_rate"},
		{&c.ScaleX, 1, p.FlipRate, "flip_rate"},
		{&c.ScaleY, 1, p.FlipRate, "flip_rate"},
		{&c.OffsetX, 0, p.OffsetRate, "offset_rate"},
		{&c.OffsetY, 0, p.OffsetRate, "offset_rate"},
		{&c.Opacity, 1, p.OpacityRate, "opacity_rate"},
	} {
		param, err := NewParam(f.rest, f.rate)
		if err != nil {
			return Cell{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = param
	}
	return c, nil
}

// Update sets this tick's targets from f and eases every parameter one step.
// Targets start from neutral every tick, so a quiet signal relaxes the cell.
func (c *Cell) Update(f analysis.Frame, rng Rand) {
	p := &c.params
	norm := f.Norm(c.Bin)

	c.Scale.Target = 1
	c.Rotation.Target = 0
	c.ScaleX.Target = 1
	c.ScaleY.Target = 1
	c.OffsetX.Target = 0
	c.OffsetY.Target = 0
	c.Opacity.Target = 1
	c.Variant = VariantNone

	if norm > p.ActivityThreshold {
		c.Scale.Target = 1 - norm*p.PulseDepth
	}

	if f.IsBeat && norm > p.BeatThreshold {
		c.Scale.Target = p.BeatScale
		c.Variant = Pick(CellVariants, rng.Float64())
		switch c.Variant {
		case VariantRotate:
			deg := cellRotations[bucket(rng.Float64(), len(cellRotations))]
			c.Rotation.Target = deg * math.Pi / 180
		case VariantFlip:
			if rng.Float64() > 0.5 {
				c.ScaleX.Target = -1
			} else {
				c.ScaleY.Target = -1
			}
		case VariantJitter:
			c.OffsetX.Target = (rng.Float64() - 0.5) * p.JitterRange
			c.OffsetY.Target = (rng.Float64() - 0.5) * p.JitterRange
		case VariantFlash:
			c.Opacity.Target = p.FlashOpacity
		}
	}

	c.Scale.Step()
	c.Rotation.Step()
	c.ScaleX.Step()
	c.ScaleY.Step()
	c.OffsetX.Step()
	c.OffsetY.Step()
	c.Opacity.Step()
}

// AtRest reports whether the cell is within eps of its neutral pose.
func (c *Cell) AtRest(eps float64) bool {
	near := func(v, want float64) bool { return math.Abs(v-want) <= eps }
	return near(c.Scale.Current, 1) && near(c.Rotation.Current, 0) &&
		near(c.ScaleX.Current, 1) && near(c.ScaleY.Current, 1) &&
		near(c.OffsetX.Current, 0) && near(c.OffsetY.Current, 0) &&
		near(c.Opacity.Current, 1)
}

func validateRates(rates map[string]float64) error {
	for name, r := range rates {
		if err := checkRate(r); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
