package ui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/olivier-w/pulsegrid/internal/engine"
	"github.com/olivier-w/pulsegrid/internal/player"
	"github.com/olivier-w/pulsegrid/internal/render"
	"github.com/olivier-w/pulsegrid/internal/util"
)

// chromeLines is the number of rows around the visual: header, progress,
// status and help.
const chromeLines = 4

// Transport controls a playing file. *player.Player implements it.
type Transport interface {
	TogglePause()
	Paused() bool
	Seek(delta time.Duration) error
	AdjustVolume(delta float64)
	Volume() float64
	Position() time.Duration
	Duration() time.Duration
	Done() <-chan struct{}
	Restart() error
	Close()
}

// Options configures the player screen.
type Options struct {
	FPS  int
	Mode render.Mode
}

// Model is the Bubbletea model for the visualizer screen.
type Model struct {
	transport Transport // nil for live capture
	live      io.Closer
	engine    *engine.Engine
	screen    *render.ASCII
	fps       int
	start     time.Time

	metadata   player.Metadata
	elapsed    time.Duration
	duration   time.Duration
	volume     float64
	paused     bool
	ended      bool
	settled    bool
	width      int
	height     int
	quitting   bool
	repeatMode RepeatMode
}

// New creates a model for file playback.
func New(t Transport, meta player.Metadata, eng *engine.Engine, opts Options) Model {
	m := newModel(eng, opts)
	m.transport = t
	m.metadata = meta
	m.duration = t.Duration()
	m.volume = t.Volume()
	return m
}

// NewLive creates a model for microphone capture. c is closed on quit.
func NewLive(c io.Closer, eng *engine.Engine, opts Options) Model {
	m := newModel(eng, opts)
	m.live = c
	m.metadata = player.Metadata{Title: "microphone"}
	return m
}

func newModel(eng *engine.Engine, opts Options) Model {
	fps := max(opts.FPS, 1)
	return Model{
		engine: eng,
		screen: render.NewASCII(opts.Mode, fps),
		fps:    fps,
		start:  time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameCmd(m.fps), tea.SetWindowTitle(windowTitle(m.metadata.Title, false))}
	if m.transport != nil {
		cmds = append(cmds, tickCmd(), checkDone(m.transport))
	}
	return tea.Batch(cmds...)
}

func checkDone(t Transport) tea.Cmd {
	done := t.Done()
	return func() tea.Msg {
		<-done
		return playbackEndedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.refresh()
		return m, tickCmd()

	case frameMsg:
		m.advance(time.Time(msg))
		return m, frameCmd(m.fps)

	case playbackEndedMsg:
		if m.repeatMode == RepeatOne {
			return m.restart()
		}
		m.ended = true
		m.settled = false
		m.elapsed = m.duration
		return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, true))

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height-chromeLines)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		m.close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}
	if msg.String() == "v" {
		m.screen.SetMode(m.screen.Mode().Next())
		return m, nil
	}
	if m.transport == nil {
		return m, nil
	}

	switch msg.String() {
	case " ":
		if m.ended {
			return m.restart()
		}
		m.transport.TogglePause()
		m.paused = m.transport.Paused()
		m.settled = false
		return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, m.paused))
	case "left", "h":
		m.seek(-5 * time.Second)
	case "right", "l":
		m.seek(5 * time.Second)
	case "+", "=", "up", "k":
		m.transport.AdjustVolume(0.05)
		m.volume = m.transport.Volume()
	case "-", "down", "j":
		m.transport.AdjustVolume(-0.05)
		m.volume = m.transport.Volume()
	case "r":
		m.repeatMode = m.repeatMode.Next()
	}
	return m, nil
}

func (m *Model) seek(delta time.Duration) {
	if err := m.transport.Seek(delta); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Model.seek",
			"delta":    delta.String(),
			"error":    err.Error(),
		}).Warn("Seek failed")
	}
	m.elapsed = m.transport.Position()
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	if err := m.transport.Restart(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Model.restart",
			"error":    err.Error(),
		}).Error("Restart failed")
		return m, nil
	}
	m.engine.Reset()
	m.ended = false
	m.paused = false
	m.elapsed = 0
	return m, tea.Batch(checkDone(m.transport), tea.SetWindowTitle(windowTitle(m.metadata.Title, false)))
}

func (m *Model) refresh() {
	if m.transport == nil || m.ended {
		return
	}
	m.elapsed = m.transport.Position()
	m.volume = m.transport.Volume()
	m.paused = m.transport.Paused()
}

// advance runs one visual frame. While paused or ended the scene eases toward
// rest one silent tick per frame and then stops moving.
func (m *Model) advance(now time.Time) {
	if !m.paused && !m.ended {
		if _, err := m.engine.Tick(now.Sub(m.start).Seconds()); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Model.advance",
				"error":    err.Error(),
			}).Error("Frame analysis failed")
		}
		m.settled = false
	} else if !m.settled {
		m.settled = m.engine.Settle()
	}
	m.engine.Present(m.screen)
}

func (m *Model) close() {
	if m.transport != nil {
		m.transport.Close()
	}
	if m.live != nil {
		if err := m.live.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Model.close",
				"error":    err.Error(),
			}).Warn("Closing capture failed")
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 30 {
		w = 50
	}

	header := headerStyle.Render("pulsegrid") + "  " + titleStyle.Render(m.metadata.Title)
	if m.metadata.Artist != "" {
		header += "  " + artistStyle.Render(m.metadata.Artist)
	}

	var progress string
	if m.transport == nil {
		progress = liveStyle.Render("● LIVE") + "  " + statusStyle.Render("default input device")
	} else {
		el, du := util.FormatDuration(m.elapsed), util.FormatDuration(m.duration)
		bar := renderProgressBar(m.elapsed.Seconds(), m.duration.Seconds(), w-len(el)-len(du)-4)
		progress = fmt.Sprintf("%s %s %s", timeStyle.Render(el), bar, timeStyle.Render(du))
	}

	state := "▶  playing"
	switch {
	case m.ended:
		state = "■  ended, space to replay"
	case m.paused:
		state = "❚❚ paused"
	}
	left := state + "  view " + m.screen.Mode().String()
	if icon := m.repeatMode.Icon(); icon != "" {
		left += "  " + icon
	}
	right := ""
	if m.transport != nil {
		right = renderVolumePercent(m.volume)
	}
	status := statusStyle.Render(padBetween(left, right, w-2))

	lines := header + "\n"
	if v := m.screen.View(); v != "" {
		lines += v + "\n"
	}
	lines += progress + "\n"
	lines += status + "\n"
	lines += helpStyle.Render(helpText(m.transport == nil))
	return lines
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " · pulsegrid"
	}
	return "▶ " + title + " · pulsegrid"
}
