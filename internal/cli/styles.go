package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Application identity, shared by the banner, version and help output
const (
	AppName        = "monocycle 〰"
	AppDescription = "Render a mono audio stream as a greyscale spectrogram image."
)

// Color palette
var (
	primaryColor   = InkCyan
	accentColor    = InkAmber
	successColor   = lipgloss.Color("#00AA00") // Green
	errorColor     = lipgloss.Color("#DC2626") // Red
	mutedColor     = SlateGray
	highlightColor = lipgloss.Color("#FFFF00") // Yellow
	textColor      = InkWhite
)

// Styles
var (
	// Title style - bold cyan
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Subtitle style - muted gray
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Section header style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1).
			MarginBottom(1)

	// Success message style
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	// Highlight style for important values
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// Box style for framed content
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// PrintBanner prints the application banner
func PrintBanner() {
	banner := TitleStyle.Render(AppName)
	subtitle := SubtitleStyle.Render(AppDescription)
	fmt.Println(banner)
	fmt.Println(subtitle)
	fmt.Println()
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render(AppName))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints an informational message
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Println(HeaderStyle.Render(title))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSpeed formats analysis speed
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.1fx realtime", speed)
}

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// PrintBox prints content in a styled box
func PrintBox(content string) {
	fmt.Println(BoxStyle.Render(content))
}

// Summary describes a finished run for PrintSummary.
type Summary struct {
	Output   string
	Width    int
	Height   int
	MinValue string
	MaxValue string
	Elapsed  time.Duration
	Speed    float64 // Audio seconds analysed per wall-clock second, 0 if unknown
	Size     int64   // Bytes written, 0 if unknown
}

// PrintSummary prints the end-of-run summary in a box
func PrintSummary(s Summary) {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ Spectrogram Complete!"))
	b.WriteString("\n\n")

	b.WriteString(KeyStyle.Render("Output:     "))
	b.WriteString(ValueStyle.Render(s.Output))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Image size: "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%dx%d", s.Width, s.Height)))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Range:      "))
	b.WriteString(ValueStyle.Render(s.MinValue + " .. " + s.MaxValue))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Duration:   "))
	b.WriteString(ValueStyle.Render(FormatDuration(s.Elapsed)))
	if s.Speed > 0 {
		b.WriteString("\n")
		b.WriteString(KeyStyle.Render("Speed:      "))
		b.WriteString(ValueStyle.Render(FormatSpeed(s.Speed)))
	}
	if s.Size > 0 {
		b.WriteString("\n")
		b.WriteString(KeyStyle.Render("File Size:  "))
		b.WriteString(ValueStyle.Render(FormatBytes(s.Size)))
	}

	PrintBox(b.String())
}
