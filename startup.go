package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olivier-w/pulsegrid/internal/capture"
	"github.com/olivier-w/pulsegrid/internal/config"
	"github.com/olivier-w/pulsegrid/internal/engine"
	"github.com/olivier-w/pulsegrid/internal/media"
	"github.com/olivier-w/pulsegrid/internal/player"
	"github.com/olivier-w/pulsegrid/internal/render"
	"github.com/olivier-w/pulsegrid/internal/ui"
)

type cliOptions struct {
	configPath  string
	writeConfig string
	logPath     string
	mode        string
	mic         bool
	file        string
}

func parseArgs(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("pulsegrid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: pulsegrid [flags] [file]\n\nsupported formats: %s\n\n", media.SupportedExtsList())
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.writeConfig, "write-config", "", "write the effective configuration to `path` and exit")
	fs.StringVar(&opts.logPath, "log", "", "log file (overrides the configuration)")
	fs.StringVar(&opts.mode, "mode", "", "view mode: grid, boxes, particles or all")
	fs.BoolVar(&opts.mic, "mic", false, "analyze the default input device instead of a file")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.file = fs.Arg(0)
	default:
		return cliOptions{}, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}
	if opts.mic && opts.file != "" {
		return cliOptions{}, fmt.Errorf("-mic cannot be combined with a file")
	}
	return opts, nil
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.mode != "" {
		cfg.Display.Mode = opts.mode
	}
	if opts.logPath != "" {
		cfg.Log.Path = opts.logPath
	}
	if opts.mic {
		cfg.Audio.Mic = true
	}
	if opts.file != "" {
		cfg.Audio.Mic = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// checkFile verifies that path is a readable file in a supported format.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	return nil
}

// openModel opens the audio source named by cfg and path and builds the
// visualizer screen around it.
func openModel(cfg *config.Config, path string, rng *rand.Rand) (ui.Model, error) {
	mode, err := render.ParseMode(cfg.Display.Mode)
	if err != nil {
		return ui.Model{}, err
	}
	opts := ui.Options{FPS: cfg.Display.FPS, Mode: mode}

	if cfg.Audio.Mic {
		mic, err := capture.Open(cfg.Audio.SampleRate, cfg.Audio.Buffer, cfg.Audio.History)
		if err != nil {
			return ui.Model{}, err
		}
		eng, err := engine.New(cfg, mic, rng)
		if err != nil {
			mic.Close()
			return ui.Model{}, err
		}
		return ui.NewLive(mic, eng, opts), nil
	}

	if err := checkFile(path); err != nil {
		return ui.Model{}, err
	}
	p, err := player.New(path, player.Options{Volume: cfg.Audio.Volume, History: cfg.Audio.History})
	if err != nil {
		return ui.Model{}, fmt.Errorf("creating player: %w", err)
	}
	eng, err := engine.New(cfg, p, rng)
	if err != nil {
		p.Close()
		return ui.Model{}, err
	}
	return ui.New(p, player.ReadMetadata(path), eng, opts), nil
}
