package cli

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(InkAmber).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(InkCyan).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(InkCyan)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(InkAmber).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(InkWhite).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(SlateGray).
				Italic(true)
)

// generalGroup holds flags without a group tag, help and version included.
const generalGroup = "General"

// HelpDefaults maps a flag name to the text shown as its default. Sentinel
// defaults such as a -1 meaning "derived from another flag" read better as
// words.
type HelpDefaults map[string]string

// StyledHelpPrinter renders help with flags listed under their kong group
// titles, in the order the groups first appear on the command line struct.
func StyledHelpPrinter(defaults HelpDefaults) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		name := ctx.Model.Name
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(AppName))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render(AppDescription))
		sb.WriteString("\n")

		writeSection(&sb, "Usage")
		fmt.Fprintf(&sb, "  %s <image> [flags] < samples.f32\n", name)
		fmt.Fprintf(&sb, "  %s <image> --input FILE [flags]\n", name)

		if positional := ctx.Model.Node.Positional; len(positional) > 0 {
			writeSection(&sb, "Arguments")
			for _, arg := range positional {
				fmt.Fprintf(&sb, "  %s  %s\n", helpArgStyle.Render(arg.Summary()), arg.Help)
			}
		}

		groups := groupFlags(ctx.Model.Node.Flags, defaults)
		width := 0
		for _, g := range groups {
			for _, row := range g.rows {
				width = max(width, len(row.flags))
			}
		}
		for _, g := range groups {
			writeSection(&sb, g.title)
			for _, row := range g.rows {
				sb.WriteString("  ")
				sb.WriteString(helpFlagStyle.Render(fmt.Sprintf("%-*s", width, row.flags)))
				sb.WriteString("  ")
				sb.WriteString(row.help)
				if row.defaultVal != "" {
					sb.WriteString(" ")
					sb.WriteString(helpDefaultStyle.Render("(default: " + row.defaultVal + ")"))
				}
				sb.WriteString("\n")
			}
		}

		writeSection(&sb, "Input")
		sb.WriteString("  Mono native-endian float32 samples on stdin, for example:\n  ")
		sb.WriteString(helpDefaultStyle.Render("ffmpeg -i talk.flac -ac 1 -f f32le - | " + name + " talk.png"))
		sb.WriteString("\n  or a WAV, FLAC or MP3 file given with --input.\n\n")

		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(title + ":"))
	sb.WriteString("\n")
}

type flagGroup struct {
	title string
	rows  []flagRow
}

type flagRow struct {
	flags      string
	help       string
	defaultVal string
}

// groupFlags sorts flags into their groups. General comes last.
func groupFlags(flags []*kong.Flag, defaults HelpDefaults) []flagGroup {
	var groups []flagGroup
	index := map[string]int{}
	general := flagGroup{title: generalGroup}

	for _, f := range flags {
		if f.Hidden {
			continue
		}
		row := flagRow{
			flags:      flagLabel(f),
			help:       f.Help,
			defaultVal: defaultLabel(f, defaults),
		}

		if f.Group == nil || f.Group.Title == "" {
			general.rows = append(general.rows, row)
			continue
		}
		i, ok := index[f.Group.Title]
		if !ok {
			i = len(groups)
			index[f.Group.Title] = i
			groups = append(groups, flagGroup{title: f.Group.Title})
		}
		groups[i].rows = append(groups[i].rows, row)
	}

	if len(general.rows) > 0 {
		groups = append(groups, general)
	}
	return groups
}

// flagLabel renders "-s, --fftsize=N". Flags without a short form are
// indented to line up with those that have one.
func flagLabel(f *kong.Flag) string {
	label := "    --" + f.Name
	if f.Short != 0 {
		label = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
	}
	if f.IsBool() {
		return label
	}
	return label + "=" + placeholder(f)
}

func placeholder(f *kong.Flag) string {
	if f.PlaceHolder != "" {
		return strings.ToUpper(f.PlaceHolder)
	}
	switch f.Target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "N"
	default:
		return "STRING"
	}
}

func defaultLabel(f *kong.Flag, defaults HelpDefaults) string {
	if label, ok := defaults[f.Name]; ok {
		return label
	}
	if !f.HasDefault || f.IsBool() {
		return ""
	}
	return f.Default
}
