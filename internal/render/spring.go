package render

import "github.com/charmbracelet/harmonica"

// meter eases the footer energy bar with a spring and holds its peak.
type meter struct {
	spring harmonica.Spring
	level  float64
	vel    float64
	peak   float64
}

const peakDecay = 0.01

func newMeter(fps int) meter {
	return meter{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.7)}
}

// update moves the level toward target and returns it clamped to 0-1.
func (m *meter) update(target float64) float64 {
	m.level, m.vel = m.spring.Update(m.level, m.vel, target)
	lvl := clamp01(m.level)
	if lvl > m.peak {
		m.peak = lvl
	} else {
		m.peak = max(0, m.peak-peakDecay)
	}
	return lvl
}
