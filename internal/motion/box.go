package motion

import (
	"fmt"
	"math"

	"github.com/olivier-w/pulsegrid/internal/analysis"
)

// BoxParams tunes a 3D box. Boxes pop toward the viewer instead of shrinking.
type BoxParams struct {
	ActivityThreshold float64 `yaml:"activity_threshold"`
	BeatThreshold     float64 `yaml:"beat_threshold"`
	DepthGain         float64 `yaml:"depth_gain"`
	PopBase           float64 `yaml:"pop_base"`
	PopRange          float64 `yaml:"pop_range"`
	DepthRate         float64 `yaml:"depth_rate"`
	SpinRate          float64 `yaml:"spin_rate"`
}

func DefaultBoxParams() BoxParams {
	return BoxParams{
		ActivityThreshold: 0.1,
		BeatThreshold:     0.3,
		DepthGain:         30,
		PopBase:           50,
		PopRange:          20,
		DepthRate:         0.2,
		SpinRate:          0.1,
	}
}

func (p BoxParams) Validate() error {
	return validateRates(map[string]float64{
		"depth_rate": p.DepthRate,
		"spin_rate":  p.SpinRate,
	})
}

// Box is a persistent 3D grid element bound to one frequency bin.
type Box struct {
	Bin   int
	Depth Param
	RotX  Param
	RotY  Param
	RotZ  Param

	Variant Variant

	params BoxParams
}

// NewBox creates a box at rest. Every rate must be in (0, 1].
func NewBox(bin int, p BoxParams) (Box, error) {
	depth, err := NewParam(0, p.DepthRate)
	if err != nil {
		return Box{}, fmt.Errorf("depth_rate: %w", err)
	}
	spin, err := NewParam(0, p.SpinRate)
	if err != nil {
		return Box{}, fmt.Errorf("spin_rate: %w", err)
	}
	return Box{
		Bin:    bin,
		Depth:  depth,
		RotX:   spin,
		RotY:   spin,
		RotZ:   spin,
		params: p,
	}, nil
}

// Update sets this tick's targets from f and eases every parameter one step.
func (b *Box) Update(f analysis.Frame, rng Rand) {
	p := &b.params
	norm := f.Norm(b.Bin)

	b.Depth.Target = 0
	b.RotX.Target = 0
	b.RotY.Target = 0
	b.RotZ.Target = 0
	b.Variant = VariantNone

	if norm > p.ActivityThreshold {
		b.Depth.Target = norm * p.DepthGain
	}

	if f.IsBeat && norm > p.BeatThreshold {
		b.Depth.Target = p.PopBase + rng.Float64()*p.PopRange
		b.Variant = Pick(BoxVariants, rng.Float64())
		switch b.Variant {
		case VariantSpinX:
			b.RotX.Target = math.Pi
		case VariantSpinY:
			b.RotY.Target = math.Pi
		case VariantSpinZ:
			b.RotZ.Target = math.Pi / 2
		}
	}

	b.Depth.Step()
	b.RotX.Step()
	b.RotY.Step()
	b.RotZ.Step()
}

// AtRest reports whether the box is within eps of its neutral pose.
func (b *Box) AtRest(eps float64) bool {
	return math.Abs(b.Depth.Current) <= eps && math.Abs(b.RotX.Current) <= eps &&
		math.Abs(b.RotY.Current) <= eps && math.Abs(b.RotZ.Current) <= eps
}
