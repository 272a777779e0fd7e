package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/olivier-w/pulsegrid/internal/analysis"
	"github.com/olivier-w/pulsegrid/internal/motion"
)

// ErrPool reports an unusable bokeh pool configuration.
var ErrPool = errors.New("invalid bokeh pool")

// BokehParams configures the background spawn/death layer.
type BokehParams struct {
	Count      int     `yaml:"count"`
	IdleChance float64 `yaml:"idle_chance"` // per-tick chance of a single spawn without a beat
	BurstBase  int     `yaml:"burst_base"`
	BurstGain  float64 `yaml:"burst_gain"` // extra slots at full energy
	BurstMax   int     `yaml:"burst_max"`
	MinSpeed   float64 `yaml:"min_speed"`
	SpeedRange float64 `yaml:"speed_range"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	NearZ      float64 `yaml:"near_z"`
	Depth      float64 `yaml:"depth"`
	Glow       float64 `yaml:"glow"` // brightening at full energy
	Roll       float64 `yaml:"roll"` // group rotation per tick, radians
}

func DefaultBokehParams() BokehParams {
	return BokehParams{
		Count:      100,
		IdleChance: 0.05,
		BurstBase:  3,
		BurstGain:  5,
		BurstMax:   7,
		MinSpeed:   0.01,
		SpeedRange: 0.03,
		Width:      1200,
		Height:     800,
		NearZ:      -100,
		Depth:      400,
		Glow:       0.5,
		Roll:       0.0005,
	}
}

func (p BokehParams) Validate() error {
	switch {
	case p.Count <= 0:
		return fmt.Errorf("count %d: %w", p.Count, ErrPool)
	case p.MinSpeed <= 0 || p.SpeedRange < 0:
		return fmt.Errorf("speed %.3f+%.3f: %w", p.MinSpeed, p.SpeedRange, ErrPool)
	case p.BurstBase < 0 || p.BurstMax < p.BurstBase:
		return fmt.Errorf("burst %d..%d: %w", p.BurstBase, p.BurstMax, ErrPool)
	case p.IdleChance < 0 || p.IdleChance > 1:
		return fmt.Errorf("idle chance %.2f: %w", p.IdleChance, ErrPool)
	}
	return nil
}

var bokehPalette = []Color{
	Hex(0xff0044), // red
	Hex(0x00ff88), // teal-green
	Hex(0x4444ff), // indigo
	Hex(0xffaa22), // warm gold
	Hex(0xff00ff), // magenta
}

// Bokeh is one pool slot. Slots are reused, never freed.
type Bokeh struct {
	Active   bool
	Progress float64 // in [0, 1) while active
	Speed    float64
	Base     Color
	Color    Color // visible color; zero while inactive
	Pos      Vec3
}

// BokehPool is a fixed pool of fade-in/fade-out particles spawned by beats.
type BokehPool struct {
	params BokehParams
	slots  []Bokeh
	roll   float64
}

// NewBokehPool creates an all-inactive pool. Each slot's speed and base color
// are drawn once here.
func NewBokehPool(p BokehParams, rng motion.Rand) (*BokehPool, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b := &BokehPool{params: p, slots: make([]Bokeh, p.Count)}
	for i := range b.slots {
		b.slots[i].Base = bokehPalette[int(rng.Float64()*float64(len(bokehPalette)))%len(bokehPalette)]
		b.slots[i].Speed = p.MinSpeed + rng.Float64()*p.SpeedRange
	}
	return b, nil
}

// Budget returns how many slots may spawn this tick: a burst scaled by energy
// on a beat, otherwise an occasional single spawn.
func (b *BokehPool) Budget(f analysis.Frame, rng motion.Rand) int {
	p := &b.params
	if f.IsBeat {
		n := p.BurstBase + int(f.AvgEnergy/255*p.BurstGain)
		if n > p.BurstMax {
			n = p.BurstMax
		}
		return n
	}
	if rng.Float64() < p.IdleChance {
		return 1
	}
	return 0
}

// Update advances active slots, retires finished ones, then grants this
// tick's spawn budget to inactive slots in index order. Deaths resolve before
// spawns so a retired slot is cleared before it can be reused.
func (b *BokehPool) Update(f analysis.Frame, rng motion.Rand) {
	p := &b.params
	budget := b.Budget(f, rng)
	glow := 1 + f.AvgEnergy/255*p.Glow

	for i := range b.slots {
		s := &b.slots[i]
		if !s.Active {
			continue
		}
		s.Progress += s.Speed
		if s.Progress >= 1 {
			s.Active = false
			s.Progress = 0
			s.Color = Color{}
			continue
		}
		s.Color = s.Base.Scale(math.Sin(s.Progress*math.Pi) * glow)
	}

	for i := range b.slots {
		if budget == 0 {
			break
		}
		s := &b.slots[i]
		if s.Active {
			continue
		}
		budget--
		s.Active = true
		s.Progress = 0
		s.Color = Color{}
		s.Pos = Vec3{
			X: (rng.Float64() - 0.5) * p.Width,
			Y: (rng.Float64() - 0.5) * p.Height,
			Z: p.NearZ - rng.Float64()*p.Depth,
		}
	}

	b.roll += p.Roll
}

// Slots returns the pool. Callers must not modify it.
func (b *BokehPool) Slots() []Bokeh { return b.slots }

// Active returns the number of live slots.
func (b *BokehPool) Active() int {
	n := 0
	for i := range b.slots {
		if b.slots[i].Active {
			n++
		}
	}
	return n
}

// Roll returns the accumulated group rotation around the view axis.
func (b *BokehPool) Roll() float64 { return b.roll }

// Extent returns the width and height of the spawn area.
func (b *BokehPool) Extent() (w, h float64) { return b.params.Width, b.params.Height }
