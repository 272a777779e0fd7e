// Package player decodes audio files, plays them through oto and exposes the
// most recently played samples for analysis.
package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"

	"github.com/olivier-w/pulsegrid/internal/analysis"
)

// ErrContextFormat reports a file whose sample rate or channel count differs
// from the audio device opened for the first file. oto allows one context per
// process.
var ErrContextFormat = errors.New("audio format differs from the open output device")

// Options configures a Player.
type Options struct {
	Volume  float64
	History int // samples kept for analysis
}

// Player plays one file and taps what it plays.
type Player struct {
	file        *os.File
	decoder     audioDecoder
	counter     *tapReader
	ring        *analysis.SampleRing
	otoCtx      *oto.Context
	otoPlayer   *oto.Player
	bytesPerSec int64
	frameSize   int64
	duration    time.Duration
	volume      float64
	paused      bool
	canSeek     bool
	done        chan struct{}
	stopMon     chan struct{}
	cleanup     func()
	closeOnce   sync.Once
	mu          sync.Mutex
}

var (
	globalOtoCtx *oto.Context
	otoRate      int
	otoChannels  int
	otoMu        sync.Mutex
)

// initOto opens the shared output context on first use.
func initOto(rate, channels int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if globalOtoCtx != nil {
		if rate != otoRate || channels != otoChannels {
			return nil, fmt.Errorf("%d Hz x %d, device %d Hz x %d: %w", rate, channels, otoRate, otoChannels, ErrContextFormat)
		}
		return globalOtoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	globalOtoCtx, otoRate, otoChannels = ctx, rate, channels
	logrus.WithFields(logrus.Fields{
		"function":    "initOto",
		"sample_rate": rate,
		"channels":    channels,
	}).Info("Audio device opened")
	return ctx, nil
}

// New opens path and starts playback.
func New(path string, opts Options) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := initOto(dec.SampleRate(), dec.ChannelCount())
	if err != nil {
		f.Close()
		return nil, err
	}

	frameSize := int64(dec.ChannelCount()) * 2
	bps := int64(dec.SampleRate()) * frameSize
	ring := analysis.NewSampleRing(max(opts.History, 1))

	p := &Player{
		file:        f,
		decoder:     dec,
		counter:     newTapReader(dec, ring, dec.ChannelCount()),
		ring:        ring,
		otoCtx:      ctx,
		bytesPerSec: bps,
		frameSize:   frameSize,
		duration:    time.Duration(float64(dec.Length()) / float64(bps) * float64(time.Second)),
		volume:      min(max(opts.Volume, 0), 1),
		canSeek:     true,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
	}
	p.cleanup = func() {
		if p.otoPlayer != nil {
			p.otoPlayer.Pause()
		}
		f.Close()
	}

	p.otoPlayer = ctx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	logrus.WithFields(logrus.Fields{
		"function": "player.New",
		"path":     path,
		"duration": p.duration.String(),
	}).Info("Playback started")

	go p.monitor(p.done)
	return p, nil
}

func (p *Player) monitor(done chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		stale := p.done != done
		finished := !p.paused && p.counter.Pos() >= p.decoder.Length()
		p.mu.Unlock()

		if stale {
			return
		}
		if finished {
			close(done)
			return
		}
	}
}

// Done returns a channel closed when playback reaches the end.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Samples returns up to n of the most recently played mono samples.
func (p *Player) Samples(n int) []float64 {
	return p.ring.Samples(n)
}

// Restart seeks to the beginning and resumes playback with a fresh Done
// channel.
func (p *Player) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.seekLocked(0, true); err != nil {
		return err
	}
	p.done = make(chan struct{})
	go p.monitor(p.done)
	return nil
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		p.resumeLocked()
	} else {
		p.pauseLocked()
	}
}

// Pause stops output without toggling.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

func (p *Player) pauseLocked() {
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	p.paused = true
}

func (p *Player) resumeLocked() {
	if p.otoPlayer != nil {
		p.otoPlayer.Play()
	}
	p.paused = false
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	secs := float64(p.counter.Pos()) / float64(p.bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Seek moves playback by delta from the current position.
func (p *Player) Seek(delta time.Duration) error {
	return p.SeekTo(p.Position()+delta, !p.Paused())
}

// SeekTo jumps to target and resumes playback if resume is set.
func (p *Player) SeekTo(target time.Duration, resume bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seekLocked(target, resume)
}

func (p *Player) seekLocked(target time.Duration, resume bool) error {
	if !p.canSeek {
		return nil
	}
	pos := clampSeekByteOffset(target, p.bytesPerSec, p.decoder.Length(), p.frameSize)
	if _, err := p.decoder.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to %s: %w", target, err)
	}
	p.counter.SetPos(pos)

	// A fresh oto player drops audio already buffered at the old position.
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
		p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
		p.otoPlayer.SetVolume(p.volume)
	}
	if resume {
		p.resumeLocked()
	} else {
		p.pauseLocked()
	}
	return nil
}

// clampSeekByteOffset converts target to a byte offset within [0, total],
// aligned down to a whole sample frame.
func clampSeekByteOffset(target time.Duration, bytesPerSec, total, frameSize int64) int64 {
	pos := int64(target.Seconds() * float64(bytesPerSec))
	pos = min(max(pos, 0), total)
	if frameSize > 0 {
		pos -= pos % frameSize
	}
	return pos
}

// Volume returns the current volume in 0-1.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets the volume, clamped to 0-1.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = min(max(v, 0), 1)
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

// AdjustVolume changes the volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.SetVolume(p.Volume() + delta)
}

// Close stops playback and releases the file. It is safe to call twice.
func (p *Player) Close() {
	p.closeOnce.Do(func() {
		if p.stopMon != nil {
			close(p.stopMon)
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.cleanup != nil {
			p.cleanup()
		}
	})
}
