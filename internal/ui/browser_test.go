package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	}
	return dir
}

func titles(items []list.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		switch it := it.(type) {
		case audioItem:
			out[i] = it.name + it.ext
		case dirItem:
			out[i] = it.Title()
		}
	}
	return out
}

func TestBrowserListsPlayableFiles(t *testing.T) {
	dir := tempTree(t, "b.mp3", "a.flac", "notes.txt", "clip.aac", ".hidden.wav", "albums/x.ogg")

	m := NewBrowser(dir)
	require.False(t, m.HasError())
	assert.Equal(t, []string{"../", "albums/", "a.flac", "b.mp3"}, titles(m.list.Items()))
}

func TestBrowserSelectionStoresResult(t *testing.T) {
	dir := tempTree(t, "song.mp3")
	m := NewBrowser(dir)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(BrowserModel)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)

	require.NotNil(t, cmd)
	res := m.Result()
	assert.False(t, res.Cancelled)
	assert.Equal(t, filepath.Join(m.dir, "song.mp3"), res.Path)
}

func TestBrowserEntersDirectory(t *testing.T) {
	dir := tempTree(t, "albums/deep.wav")
	m := NewBrowser(dir)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(BrowserModel)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)

	assert.Equal(t, "albums", filepath.Base(m.dir))
	assert.Equal(t, []string{"../", "deep.wav"}, titles(m.list.Items()))
}

func TestBrowserCancel(t *testing.T) {
	m := NewBrowser(tempTree(t))
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.True(t, model.(BrowserModel).Result().Cancelled)
}

func TestBrowserPathPromptOpensFile(t *testing.T) {
	dir := tempTree(t, "other/track.ogg")
	m := NewBrowser(t.TempDir())

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	m = model.(BrowserModel)
	require.True(t, m.pathMode)

	target := filepath.Join(dir, "other", "track.ogg")
	m.input.SetValue(target)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, target, model.(BrowserModel).Result().Path)
}

func TestBrowserMissingDirectory(t *testing.T) {
	m := NewBrowser(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, m.HasError())
	assert.Error(t, m.Error())
}
