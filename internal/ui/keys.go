package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(live bool) string {
	if live {
		return "v view  q quit"
	}
	return "space pause  ←/→ seek  +/- volume  v view  r repeat  q quit"
}
