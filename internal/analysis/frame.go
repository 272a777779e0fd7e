package analysis

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrBufferLength reports frequency and waveform buffers that are empty or of
// different lengths.
var ErrBufferLength = errors.New("frequency and waveform buffers must be non-empty and equal length")

// Frame is the per-tick audio snapshot handed to every visual subsystem.
// Bins and Waveform alias the producer's buffers and are only valid until the
// next tick overwrites them.
type Frame struct {
	Bins       []byte
	Waveform   []byte
	AvgEnergy  float64
	BassEnergy float64
	IsBeat     bool
}

// Len returns the number of bins N.
func (f Frame) Len() int { return len(f.Bins) }

// Norm returns bin i scaled to 0-1. Indices wrap modulo N.
func (f Frame) Norm(i int) float64 {
	n := len(f.Bins)
	if n == 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return float64(f.Bins[i]) / 255
}

// SilentFrame returns a frame of n zero bins and a centered waveform.
func SilentFrame(n int) Frame {
	wave := make([]byte, n)
	for i := range wave {
		wave[i] = 128
	}
	return Frame{Bins: make([]byte, n), Waveform: wave}
}

// Session assembles frames and owns the beat detector state for one audio
// source. Loading a new source must call Reset.
type Session struct {
	band   Band
	params BeatParams
	state  BeatState
	n      int
	beats  int
}

// NewSession creates a session with detector state at its defaults.
func NewSession(band Band, params BeatParams) *Session {
	return &Session{
		band:   band,
		params: params,
		state:  NewBeatState(params),
	}
}

// Frame analyzes one tick's buffers. Buffer lengths are validated on the
// first call only; N is then fixed for the session.
func (s *Session) Frame(bins, wave []byte) (Frame, error) {
	if s.n == 0 {
		if len(bins) == 0 || len(bins) != len(wave) {
			return Frame{}, fmt.Errorf("session init with %d bins, %d samples: %w", len(bins), len(wave), ErrBufferLength)
		}
		s.n = len(bins)
	}

	e := Analyze(bins, s.band)
	var isBeat bool
	isBeat, s.state = Detect(e.Bass, s.state, s.params)
	if isBeat {
		s.beats++
	}

	return Frame{
		Bins:       bins,
		Waveform:   wave,
		AvgEnergy:  e.Avg,
		BassEnergy: e.Bass,
		IsBeat:     isBeat,
	}, nil
}

// State returns a copy of the detector state.
func (s *Session) State() BeatState { return s.state }

// Beats returns the number of beats detected since the last reset.
func (s *Session) Beats() int { return s.beats }

// Reset restores detector defaults and forgets the session's buffer length.
func (s *Session) Reset() {
	logrus.WithFields(logrus.Fields{
		"function": "Session.Reset",
		"beats":    s.beats,
	}).Debug("Resetting beat detector state")

	s.state = NewBeatState(s.params)
	s.n = 0
	s.beats = 0
}
