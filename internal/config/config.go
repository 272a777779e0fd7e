// Package config loads and saves the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/olivier-w/pulsegrid/internal/analysis"
	"github.com/olivier-w/pulsegrid/internal/render"
	"github.com/olivier-w/pulsegrid/internal/scene"
)

// ErrInvalid reports a configuration value out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	Audio    AudioConfig    `yaml:"audio"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Scene    scene.Params   `yaml:"scene"`
	Display  DisplayConfig  `yaml:"display"`
	Log      LogConfig      `yaml:"log"`
}

// AudioConfig covers playback and capture.
type AudioConfig struct {
	Volume     float64 `yaml:"volume"`      // initial playback volume, 0-1
	Mic        bool    `yaml:"mic"`         // analyze the default input device instead of a file
	SampleRate float64 `yaml:"sample_rate"` // capture sample rate
	Buffer     int     `yaml:"buffer"`      // capture frames per callback
	History    int     `yaml:"history"`     // samples kept for analysis
}

// AnalysisConfig covers the spectrum sampler and beat detector.
type AnalysisConfig struct {
	Sampler analysis.SamplerParams `yaml:"sampler"`
	Band    analysis.Band          `yaml:"band"`
	Beat    analysis.BeatParams    `yaml:"beat"`
}

// DisplayConfig covers the terminal view.
type DisplayConfig struct {
	FPS  int    `yaml:"fps"`
	Mode string `yaml:"mode"` // grid, boxes, particles, all
	Seed int64  `yaml:"seed"` // 0 picks a time-based seed
}

// LogConfig covers the log file. An empty path discards logs.
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			Volume:     1.0,
			SampleRate: 44100,
			Buffer:     512,
			History:    8192,
		},
		Analysis: AnalysisConfig{
			Sampler: analysis.DefaultSamplerParams(),
			Band:    analysis.DefaultBand(),
			Beat:    analysis.DefaultBeatParams(),
		},
		Scene: scene.DefaultParams(),
		Display: DisplayConfig{
			FPS:  30,
			Mode: render.ModeAll.String(),
		},
		Log: LogConfig{
			Level: "info",
			Path:  DefaultLogPath(),
		},
	}
}

// DefaultLogPath returns pulsegrid.log in the user cache directory, or an
// empty path when there is none.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pulsegrid", "pulsegrid.log")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logrus.WithFields(logrus.Fields{
			"function": "config.Load",
			"path":     path,
		}).Info("Config file not found, using defaults")
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "config.Load",
		"path":     path,
	}).Info("Config loaded")
	return cfg, nil
}

// Save writes c to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks every section. Errors from the engine packages keep their
// own sentinels and also match ErrInvalid.
func (c *Config) Validate() error {
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return invalid("audio.volume %.2f", c.Audio.Volume)
	}
	if c.Audio.SampleRate <= 0 || c.Audio.Buffer <= 0 {
		return invalid("audio capture %.0f Hz x %d", c.Audio.SampleRate, c.Audio.Buffer)
	}
	if c.Audio.History < c.Analysis.Sampler.FFTSize {
		return invalid("audio.history %d shorter than fft_size %d", c.Audio.History, c.Analysis.Sampler.FFTSize)
	}
	if err := c.Analysis.Sampler.Validate(); err != nil {
		return wrap("analysis.sampler", err)
	}
	if c.Analysis.Band.Lo < 0 || c.Analysis.Band.Hi <= c.Analysis.Band.Lo {
		return invalid("analysis.band [%d, %d)", c.Analysis.Band.Lo, c.Analysis.Band.Hi)
	}
	b := c.Analysis.Beat
	if b.Decay <= 0 || b.Decay > 1 || b.Floor < 0 || b.Jump <= 0 {
		return invalid("analysis.beat %+v", b)
	}
	if err := c.Scene.Validate(); err != nil {
		return wrap("scene", err)
	}
	if c.Display.FPS <= 0 || c.Display.FPS > 120 {
		return invalid("display.fps %d", c.Display.FPS)
	}
	if _, err := render.ParseMode(c.Display.Mode); err != nil {
		return wrap("display.mode", err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return wrap("log.level", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalid)
}

func wrap(field string, err error) error {
	return fmt.Errorf("%s: %w: %w", field, ErrInvalid, err)
}
