package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/monocycle/internal/cli"
)

// Phase is the stage of a run shown by the progress view
type Phase int

const (
	PhaseAnalysis Phase = iota
	PhaseWriting
	PhaseComplete
)

// AnalysisProgress is sent while the driver produces columns
type AnalysisProgress struct {
	Columns     int
	SamplesRead int64
	Elapsed     time.Duration
	Column      []float32 // Latest column, top row (highest frequency) first
}

// WritingStarted is sent once analysis is done and the image is being composed and saved
type WritingStarted struct {
	Columns int
}

// RunComplete signals the end of the run, successful or not
type RunComplete struct {
	Output  string
	Width   int
	Height  int
	Elapsed time.Duration
	Err     error
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// Model implements the Bubbletea progress view for a single run
type Model struct {
	progressBar progress.Model
	phase       Phase

	totalSamples int64 // 0 when reading an unbounded stream
	sampleRate   int
	fftSize      int
	bufSize      int

	last     AnalysisProgress
	complete *RunComplete

	startTime       time.Time
	width           int
	completionDelay time.Duration
	cancel          func()
}

// NewModel creates the progress view. totalSamples may be 0 when the input
// length is unknown, in which case no progress bar is drawn. cancel is
// called when the user interrupts the run.
func NewModel(totalSamples int64, sampleRate, fftSize, bufSize int, cancel func()) *Model {
	p := progress.New(
		progress.WithGradient(string(cli.InkBlue), string(cli.InkAmber)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:     p,
		phase:           PhaseAnalysis,
		totalSamples:    totalSamples,
		sampleRate:      sampleRate,
		fftSize:         fftSize,
		bufSize:         bufSize,
		startTime:       time.Now(),
		completionDelay: 500 * time.Millisecond,
		cancel:          cancel,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(10, min(msg.Width-30, 50))
		return m, nil

	case AnalysisProgress:
		m.last = msg
		return m, nil

	case WritingStarted:
		m.last.Columns = msg.Columns
		m.phase = PhaseWriting
		return m, nil

	case RunComplete:
		m.complete = &msg
		m.phase = PhaseComplete
		return m, tea.Tick(m.completionDelay, func(t time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.phase == PhaseComplete {
		return m.renderComplete()
	}
	return m.renderProgress()
}

// Phase returns the current phase
func (m *Model) Phase() Phase {
	return m.phase
}

// Ratio is the fraction of the input consumed, or -1 when the total is unknown
func (m *Model) Ratio() float64 {
	if m.totalSamples <= 0 {
		return -1
	}
	return min(1, float64(m.last.SamplesRead)/float64(m.totalSamples))
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.InkCyan).
		Render(cli.AppName)
	s.WriteString(title)
	s.WriteString("\n")

	faint := lipgloss.NewStyle().Faint(true)
	switch m.phase {
	case PhaseWriting:
		s.WriteString(faint.Render("Writing image"))
	default:
		s.WriteString(faint.Render(fmt.Sprintf("Analysing: %d-point FFT, %d-sample steps", m.fftSize, m.bufSize)))
	}
	s.WriteString("\n\n")

	if ratio := m.Ratio(); ratio >= 0 {
		s.WriteString(m.progressBar.ViewAs(ratio))
		s.WriteString(fmt.Sprintf(" %5.1f%%\n\n", ratio*100))
	}

	elapsed := m.last.Elapsed
	if elapsed == 0 {
		elapsed = time.Since(m.startTime)
	}

	labelStyle := lipgloss.NewStyle().Faint(true)
	s.WriteString("  ")
	s.WriteString(labelStyle.Render("Columns:  "))
	s.WriteString(fmt.Sprintf("%8d", m.last.Columns))
	s.WriteString("  │  ")
	s.WriteString(labelStyle.Render("Elapsed: "))
	s.WriteString(formatDuration(elapsed))
	s.WriteString("\n  ")
	s.WriteString(labelStyle.Render("Samples:  "))
	s.WriteString(fmt.Sprintf("%8d", m.last.SamplesRead))
	if m.sampleRate > 0 {
		audio := time.Duration(float64(m.last.SamplesRead) / float64(m.sampleRate) * float64(time.Second))
		s.WriteString("  │  ")
		s.WriteString(labelStyle.Render("Audio:   "))
		s.WriteString(formatDuration(audio))
	}
	s.WriteString("\n")

	if len(m.last.Column) > 0 {
		s.WriteString("\n")
		s.WriteString(faint.Render("Latest column (low → high):"))
		s.WriteString("\n")
		width := 60
		if m.width > 0 {
			width = max(10, min(m.width-8, 76))
		}
		s.WriteString(renderColumn(m.last.Column, width))
		s.WriteString("\n")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.InkCyan).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	if m.complete.Err != nil {
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DC2626")).Render("✗ Failed"))
		s.WriteString("\n\n")
		s.WriteString(m.complete.Err.Error())
	} else {
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4A9B4A")).Render("✓ Spectrogram Complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("  Output:      %s\n", m.complete.Output))
		s.WriteString(fmt.Sprintf("  Image size:  %dx%d\n", m.complete.Width, m.complete.Height))
		s.WriteString(fmt.Sprintf("  Elapsed:     %s", formatDuration(m.complete.Elapsed)))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.InkCyan).
		Padding(1, 2).
		Render(s.String()) + "\n"
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
