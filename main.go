package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/olivier-w/pulsegrid/internal/logging"
	"github.com/olivier-w/pulsegrid/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseArgs(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.writeConfig != "" {
		if err := cfg.Save(opts.writeConfig); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", opts.writeConfig)
		return nil
	}

	logs, err := logging.Setup(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logs.Close()

	if !cfg.Audio.Mic && opts.file == "" {
		path, ok, err := browse(".")
		if err != nil || !ok {
			return err
		}
		opts.file = path
	}

	model, err := openModel(cfg, opts.file, newRand(cfg.Display.Seed))
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "run",
		"mode":     cfg.Display.Mode,
		"mic":      cfg.Audio.Mic,
		"file":     opts.file,
	}).Info("Starting visualizer")

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// browse runs the file browser and returns the chosen path. ok is false
// when the user cancelled.
func browse(dir string) (path string, ok bool, err error) {
	browser := ui.NewBrowser(dir)
	if browser.HasError() {
		return "", false, browser.Error()
	}
	finalModel, err := tea.NewProgram(browser, tea.WithAltScreen()).Run()
	if err != nil {
		return "", false, err
	}
	bm, isBrowser := finalModel.(ui.BrowserModel)
	if !isBrowser {
		return "", false, fmt.Errorf("unexpected model type from browser")
	}
	result := bm.Result()
	if result.Cancelled {
		return "", false, nil
	}
	return result.Path, true, nil
}
