package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Spectrogram palette from quiet to loud
var columnColors = []lipgloss.Color{
	lipgloss.Color("#1E3A8A"),
	lipgloss.Color("#1D4ED8"),
	lipgloss.Color("#0891B2"),
	lipgloss.Color("#22D3EE"),
	lipgloss.Color("#A7F3D0"),
	lipgloss.Color("#FDE68A"),
	lipgloss.Color("#F8B31D"),
	lipgloss.Color("#F5F5F5"),
}

var columnBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// columnLevels resamples a column to width cells, low frequencies first,
// and maps each cell to a block index in [0, 7]. Each cell takes the
// loudest row it covers so narrow peaks stay visible. The column is stored
// top row (highest frequency) first.
func columnLevels(column []float32, width int) []int {
	if len(column) == 0 || width <= 0 {
		return nil
	}
	width = min(width, len(column))

	var peak float32
	for _, v := range column {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	levels := make([]int, width)
	n := len(column)
	for cell := 0; cell < width; cell++ {
		lo := cell * n / width
		hi := max(lo+1, (cell+1)*n/width)

		var loudest float32
		for i := lo; i < hi; i++ {
			loudest = max(loudest, column[n-1-i])
		}

		idx := int(loudest / peak * float32(len(columnBlocks)-1))
		levels[cell] = min(max(idx, 0), len(columnBlocks)-1)
	}
	return levels
}

// renderColumn draws a column as a coloured one-line bar graph
func renderColumn(column []float32, width int) string {
	var b strings.Builder
	for _, level := range columnLevels(column, width) {
		b.WriteString(lipgloss.NewStyle().Foreground(columnColors[level]).Render(string(columnBlocks[level])))
	}
	return b.String()
}
