package cli

import "github.com/charmbracelet/lipgloss"

// Spectrogram palette, dark to bright, shared by the CLI and the progress view
var (
	InkBlue  = lipgloss.Color("#1E3A8A") // Noise floor
	InkCyan  = lipgloss.Color("#22D3EE") // Mid energy
	InkAmber = lipgloss.Color("#F8B31D") // Peaks
	InkWhite = lipgloss.Color("#F5F5F5") // Clipping

	// Accent colours
	SlateGray = lipgloss.Color("#94A3B8") // Subtle text
)
