// Package engine drives one display tick: pull samples from the active
// source, analyze them, and advance the scene.
package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/olivier-w/pulsegrid/internal/analysis"
	"github.com/olivier-w/pulsegrid/internal/config"
	"github.com/olivier-w/pulsegrid/internal/motion"
	"github.com/olivier-w/pulsegrid/internal/scene"
)

// restEpsilon is how close to neutral every element must be before the scene
// counts as settled.
const restEpsilon = 1e-3

// Engine owns the analysis pipeline and the scene. It is driven from a single
// goroutine; sources may be written to concurrently.
type Engine struct {
	src     analysis.Source
	fftSize int
	sampler *analysis.Sampler
	session *analysis.Session
	scene   *scene.Scene

	frame    analysis.Frame
	ticks    int
	logAt    float64
	logBeats int
}

// New builds the pipeline from cfg. src may be nil; the engine then produces
// silent frames until SetSource.
func New(cfg *config.Config, src analysis.Source, rng motion.Rand) (*Engine, error) {
	sampler, err := analysis.NewSampler(cfg.Analysis.Sampler)
	if err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}
	sc, err := scene.New(cfg.Scene, sampler.Bins(), rng)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	return &Engine{
		src:     src,
		fftSize: cfg.Analysis.Sampler.FFTSize,
		sampler: sampler,
		session: analysis.NewSession(cfg.Analysis.Band, cfg.Analysis.Beat),
		scene:   sc,
		frame:   analysis.SilentFrame(sampler.Bins()),
	}, nil
}

// SetSource switches to a new audio source and resets analysis state.
func (e *Engine) SetSource(src analysis.Source) {
	e.src = src
	e.Reset()
}

// Reset clears beat detector and smoothing history.
func (e *Engine) Reset() {
	logrus.WithFields(logrus.Fields{
		"function": "Engine.Reset",
		"ticks":    e.ticks,
	}).Info("Resetting analysis for new source")

	e.session.Reset()
	e.sampler.Reset()
	e.logBeats = 0
}

// Tick analyzes the source's latest window and advances the scene to elapsed
// seconds.
func (e *Engine) Tick(elapsed float64) (analysis.Frame, error) {
	var pcm []float64
	if e.src != nil {
		pcm = e.src.Samples(e.fftSize)
	}
	bins, wave := e.sampler.Sample(pcm)

	f, err := e.session.Frame(bins, wave)
	if err != nil {
		return analysis.Frame{}, err
	}
	e.scene.Tick(f, elapsed)
	e.frame = f
	e.ticks++

	if elapsed-e.logAt >= 1 {
		beats := e.session.Beats()
		logrus.WithFields(logrus.Fields{
			"function":  "Engine.Tick",
			"beats":     beats - e.logBeats,
			"threshold": e.session.State().Threshold,
			"avg":       f.AvgEnergy,
		}).Debug("Beat rate")
		e.logAt = elapsed
		e.logBeats = beats
	}
	return f, nil
}

// Settle advances the scene by one silent tick and reports whether every
// element has reached its resting pose. Call it once per display frame while
// the source is stopped.
func (e *Engine) Settle() bool {
	e.scene.Settle(1)
	e.frame = e.scene.View().Frame
	return e.scene.AtRest(restEpsilon)
}

// Frame returns the most recent frame.
func (e *Engine) Frame() analysis.Frame { return e.frame }

// Scene exposes the scene for rendering.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Present hands the current scene view to sink.
func (e *Engine) Present(sink scene.Sink) { e.scene.Present(sink) }
