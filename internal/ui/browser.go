package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/pulsegrid/internal/media"
)

// BrowserResult holds the outcome of the file browser.
type BrowserResult struct {
	Path      string
	Cancelled bool
}

type audioItem struct {
	name string
	ext  string
}

func (i audioItem) Title() string       { return i.name }
func (i audioItem) Description() string { return i.ext }
func (i audioItem) FilterValue() string { return i.name }

type dirItem struct {
	name string
}

func (i dirItem) Title() string       { return i.name + "/" }
func (i dirItem) Description() string { return "directory" }
func (i dirItem) FilterValue() string { return i.name }

// BrowserModel lists playable files and lets the user walk directories.
type BrowserModel struct {
	dir      string
	list     list.Model
	input    textinput.Model
	pathMode bool
	result   *BrowserResult
	err      error
}

// NewBrowser creates a browser rooted at dir.
func NewBrowser(dir string) BrowserModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#00E5FF"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#00E5FF"})

	l := list.New(nil, delegate, 80, 20)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "/path/to/music"
	ti.CharLimit = 1024
	ti.Width = 60

	m := BrowserModel{list: l, input: ti}
	m.err = m.open(dir)
	return m
}

// open rescans the list for dir.
func (m *BrowserModel) open(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	items, err := scanDir(abs)
	if err != nil {
		return err
	}
	m.dir = abs
	m.list.Title = "pulsegrid  " + abs
	m.list.ResetFilter()
	m.list.Select(0)
	m.list.SetItems(items)
	return nil
}

// scanDir returns the parent entry, subdirectories, then playable files.
func scanDir(dir string) ([]list.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	var dirs, files []list.Item
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, dirItem{name: name})
			continue
		}
		ext := filepath.Ext(name)
		if !media.IsSupportedExt(ext) {
			continue
		}
		files = append(files, audioItem{name: strings.TrimSuffix(name, ext), ext: ext})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].FilterValue() < dirs[j].FilterValue() })
	sort.Slice(files, func(i, j int) bool { return files[i].FilterValue() < files[j].FilterValue() })

	items := make([]list.Item, 0, len(dirs)+len(files)+1)
	if filepath.Dir(dir) != dir {
		items = append(items, dirItem{name: ".."})
	}
	items = append(items, dirs...)
	return append(items, files...), nil
}

// HasError reports whether the starting directory could not be read.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// Result returns the browser result after the program finishes.
func (m BrowserModel) Result() BrowserResult {
	if m.result != nil {
		return *m.result
	}
	return BrowserResult{Cancelled: true}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("pulsegrid")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case dirItem:
				if err := m.open(filepath.Join(m.dir, item.name)); err != nil {
					return m, m.list.NewStatusMessage(err.Error())
				}
				return m, nil
			case audioItem:
				m.result = &BrowserResult{Path: filepath.Join(m.dir, item.name+item.ext)}
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			}
		case "g":
			m.pathMode = true
			m.input.SetValue(m.dir)
			m.input.Focus()
			return m, textinput.Blink
		case "q", "esc", "ctrl+c":
			m.result = &BrowserResult{Cancelled: true}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updatePathInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			m.pathMode = false
			m.input.Blur()
			if path == "" {
				return m, nil
			}
			if info, err := os.Stat(path); err == nil && !info.IsDir() && media.IsSupportedExt(filepath.Ext(path)) {
				m.result = &BrowserResult{Path: path}
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			}
			if err := m.open(path); err != nil {
				return m, m.list.NewStatusMessage(err.Error())
			}
			return m, nil
		case "esc":
			m.pathMode = false
			m.input.Blur()
			return m, nil
		case "ctrl+c":
			m.result = &BrowserResult{Cancelled: true}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.pathMode {
		s := "\n"
		s += "  " + headerStyle.Render("pulsegrid") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Go to directory or file:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	return m.list.View()
}
