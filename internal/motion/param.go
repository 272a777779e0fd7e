// Package motion turns audio frames into smooth, per-element animation
// parameters.
package motion

import (
	"errors"
	"fmt"
	"math"
)

// ErrRate reports a damping rate outside (0, 1].
var ErrRate = errors.New("rate must be in (0, 1]")

// Param is a damped approach toward a target. Each Step moves Current a fixed
// fraction of the remaining distance, so it never overshoots and only reaches
// Target asymptotically.
type Param struct {
	Current float64
	Target  float64
	Rate    float64
}

// NewParam returns a parameter resting at rest.
func NewParam(rest, rate float64) (Param, error) {
	if err := checkRate(rate); err != nil {
		return Param{}, err
	}
	return Param{Current: rest, Target: rest, Rate: rate}, nil
}

// Step advances Current by one tick.
func (p *Param) Step() {
	p.Current += (p.Target - p.Current) * p.Rate
}

// Settled reports whether Current is within eps of Target.
func (p Param) Settled(eps float64) bool {
	return math.Abs(p.Target-p.Current) <= eps
}

func checkRate(rate float64) error {
	if !(rate > 0 && rate <= 1) {
		return fmt.Errorf("rate %v: %w", rate, ErrRate)
	}
	return nil
}
