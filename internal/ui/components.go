package ui

import (
	"fmt"
	"strings"
)

// renderProgressBar draws elapsed/total across width cells.
func renderProgressBar(elapsed, total float64, width int) string {
	width = max(width, 10) - 2

	var ratio float64
	if total > 0 {
		ratio = min(max(elapsed/total, 0), 1)
	}
	filled := int(ratio * float64(width))
	return progressStyle.Render(strings.Repeat("━", filled)) + strings.Repeat("─", width-filled)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

// padBetween joins left and right with spaces so they span width columns.
func padBetween(left, right string, width int) string {
	gap := max(width-len([]rune(left))-len([]rune(right)), 2)
	return left + strings.Repeat(" ", gap) + right
}
