package render

import (
	"errors"
	"fmt"
)

// ErrMode reports an unknown layer mode name.
var ErrMode = errors.New("unknown display mode")

// Mode selects which scene layers are drawn.
type Mode uint8

const (
	ModeGrid      Mode = iota // bokeh behind the flat grid
	ModeBoxes                 // bokeh behind the box grid
	ModeParticles             // flow field alone
	ModeAll                   // bokeh, flow field and box grid
)

var modeNames = [...]string{"grid", "boxes", "particles", "all"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", m)
}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// ParseMode resolves a mode by name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrMode)
}

func (m Mode) layers() (bokeh, flow, cells, boxes bool) {
	switch m {
	case ModeGrid:
		return true, false, true, false
	case ModeBoxes:
		return true, false, false, true
	case ModeParticles:
		return false, true, false, false
	default:
		return true, true, false, true
	}
}
