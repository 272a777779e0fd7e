package ui

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/pulsegrid/internal/config"
	"github.com/olivier-w/pulsegrid/internal/engine"
	"github.com/olivier-w/pulsegrid/internal/player"
	"github.com/olivier-w/pulsegrid/internal/render"
)

type stubTransport struct {
	paused   bool
	pos      time.Duration
	volume   float64
	seeks    []time.Duration
	seekErr  error
	restarts int
	closed   int
	done     chan struct{}
}

func newStubTransport() *stubTransport {
	return &stubTransport{volume: 0.5, done: make(chan struct{})}
}

func (s *stubTransport) TogglePause()            { s.paused = !s.paused }
func (s *stubTransport) Paused() bool            { return s.paused }
func (s *stubTransport) AdjustVolume(d float64)  { s.volume = min(max(s.volume+d, 0), 1) }
func (s *stubTransport) Volume() float64         { return s.volume }
func (s *stubTransport) Position() time.Duration { return s.pos }
func (s *stubTransport) Duration() time.Duration { return 3 * time.Minute }
func (s *stubTransport) Done() <-chan struct{}   { return s.done }
func (s *stubTransport) Close()                  { s.closed++ }

func (s *stubTransport) Seek(d time.Duration) error {
	s.seeks = append(s.seeks, d)
	if s.seekErr != nil {
		return s.seekErr
	}
	s.pos += d
	return nil
}

func (s *stubTransport) Restart() error {
	s.restarts++
	s.pos = 0
	s.done = make(chan struct{})
	return nil
}

// toneSource feeds a loud bass tone.
type toneSource struct{}

func (toneSource) Samples(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.9 * math.Sin(2*math.Pi*100*float64(i)/44100)
	}
	return out
}

// boxDeviation sums how far every box is from its resting pose.
func boxDeviation(m Model) float64 {
	var d float64
	for _, b := range m.engine.Scene().View().Boxes.Boxes() {
		d += math.Abs(b.Depth.Current) + math.Abs(b.RotX.Current) +
			math.Abs(b.RotY.Current) + math.Abs(b.RotZ.Current)
	}
	return d
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Scene.Flow.Count = 50
	e, err := engine.New(cfg, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return e
}

func testModel(t *testing.T) (Model, *stubTransport) {
	t.Helper()
	tr := newStubTransport()
	m := New(tr, player.Metadata{Title: "Night Drive", Artist: "Grid"}, testEngine(t), Options{FPS: 30, Mode: render.ModeGrid})
	return m, tr
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestSpaceTogglesPause(t *testing.T) {
	m, tr := testModel(t)

	m, cmd := send(m, key(" "))
	assert.True(t, tr.paused)
	assert.True(t, m.paused)
	assert.NotNil(t, cmd)

	m, _ = send(m, key(" "))
	assert.False(t, m.paused)
}

func TestSeekKeys(t *testing.T) {
	m, tr := testModel(t)
	m, _ = send(m, key("right"))
	m, _ = send(m, key("left"))
	assert.Equal(t, []time.Duration{5 * time.Second, -5 * time.Second}, tr.seeks)
	assert.Zero(t, m.elapsed)

	tr.seekErr = errors.New("not seekable")
	_, _ = send(m, key("right"))
	assert.Len(t, tr.seeks, 3)
}

func TestVolumeKeys(t *testing.T) {
	m, tr := testModel(t)
	m, _ = send(m, key("+"))
	assert.InDelta(t, 0.55, m.volume, 1e-9)
	m, _ = send(m, key("-"))
	m, _ = send(m, key("-"))
	assert.InDelta(t, 0.45, tr.volume, 1e-9)
	assert.InDelta(t, 0.45, m.volume, 1e-9)
}

func TestViewKeyCyclesMode(t *testing.T) {
	m, _ := testModel(t)
	m, _ = send(m, key("v"))
	assert.Equal(t, render.ModeBoxes, m.screen.Mode())
	for range 3 {
		m, _ = send(m, key("v"))
	}
	assert.Equal(t, render.ModeGrid, m.screen.Mode())
}

func TestRepeatRestartsOnEnd(t *testing.T) {
	m, tr := testModel(t)
	m, _ = send(m, key("r"))
	require.Equal(t, RepeatOne, m.repeatMode)

	m, cmd := send(m, playbackEndedMsg{})
	assert.Equal(t, 1, tr.restarts)
	assert.False(t, m.ended)
	assert.NotNil(t, cmd)
}

func TestEndSettlesAndSpaceReplays(t *testing.T) {
	m, tr := testModel(t)
	m, _ = send(m, playbackEndedMsg{})
	require.True(t, m.ended)
	assert.Equal(t, m.duration, m.elapsed)

	for i := 0; !m.settled; i++ {
		require.Less(t, i, 200, "scene did not settle")
		m, _ = send(m, frameMsg(time.Now()))
	}
	assert.True(t, m.engine.Scene().AtRest(1e-3))

	m, _ = send(m, key(" "))
	assert.Equal(t, 1, tr.restarts)
	assert.False(t, m.ended)
}

func TestPauseEasesSceneOverSeveralFrames(t *testing.T) {
	m, _ := testModel(t)
	m.engine.SetSource(toneSource{})
	for i := range 20 {
		m, _ = send(m, frameMsg(m.start.Add(time.Duration(i)*time.Second/30)))
	}
	playing := boxDeviation(m)
	require.Positive(t, playing)

	m, _ = send(m, key(" "))
	require.True(t, m.paused)

	m, _ = send(m, frameMsg(time.Now()))
	first := boxDeviation(m)
	assert.False(t, m.settled)
	assert.Greater(t, first, playing/2)
	assert.Less(t, first, playing)

	prev := first
	for range 5 {
		m, _ = send(m, frameMsg(time.Now()))
		d := boxDeviation(m)
		assert.Less(t, d, prev)
		prev = d
	}
	assert.False(t, m.settled)

	for i := 0; !m.settled; i++ {
		require.Less(t, i, 200, "scene did not settle")
		m, _ = send(m, frameMsg(time.Now()))
	}
	assert.True(t, m.engine.Scene().AtRest(1e-3))

	// Once settled the scene stops moving.
	rest := boxDeviation(m)
	m, _ = send(m, frameMsg(time.Now()))
	assert.Equal(t, rest, boxDeviation(m))
}

func TestFrameFeedsEngineWhilePlaying(t *testing.T) {
	m, _ := testModel(t)
	m, _ = send(m, tea.WindowSizeMsg{Width: 60, Height: 20})

	m, cmd := send(m, frameMsg(m.start.Add(time.Second)))
	require.NotNil(t, cmd)
	assert.False(t, m.settled)

	view := m.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 20)
	assert.Contains(t, lines[0], "Night Drive")
	assert.Contains(t, view, "view grid")
	assert.Contains(t, view, "vol 50%")
}

func TestTickRefreshesStatus(t *testing.T) {
	m, tr := testModel(t)
	tr.pos = 42 * time.Second
	tr.paused = true

	m, cmd := send(m, tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 42*time.Second, m.elapsed)
	assert.True(t, m.paused)
}

func TestQuitClosesSources(t *testing.T) {
	m, tr := testModel(t)
	m, cmd := send(m, key("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, 1, tr.closed)
	assert.Empty(t, m.View())
}

func TestLiveModelIgnoresTransportKeys(t *testing.T) {
	closed := 0
	m := NewLive(closerFunc(func() error { closed++; return nil }), testEngine(t), Options{FPS: 30, Mode: render.ModeAll})

	m, _ = send(m, key(" "))
	assert.False(t, m.paused)
	assert.Contains(t, m.View(), "LIVE")

	_, _ = send(m, key("q"))
	assert.Equal(t, 1, closed)
}
