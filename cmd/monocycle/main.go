package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/monocycle/internal/audio"
	"github.com/linuxmatters/monocycle/internal/cli"
	"github.com/linuxmatters/monocycle/internal/config"
	"github.com/linuxmatters/monocycle/internal/renderer"
	"github.com/linuxmatters/monocycle/internal/spectrogram"
	"github.com/linuxmatters/monocycle/internal/ui"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

// Exit codes. Validation failures each get their own code so scripts can
// tell them apart.
const (
	exitOK             = 0
	exitFailure        = 1
	exitNoOutput       = 2
	exitUpperFrequency = 3
	exitLowerFrequency = 4
	exitNoSamples      = 5
	exitTooWide        = 6
	exitWindowTooShort = 7
	exitBufferSize     = 42
)

// progressEvery is how many columns pass between progress view updates
const progressEvery = 16

// Args is the command line
type Args struct {
	Image string `arg:"" name:"image" help:"Output image (.png, .tif, .bmp; anything else is PNG), or raw float32 file with --floats" optional:""`

	FFTSize    int     `short:"s" name:"fftsize" group:"Analysis" help:"Samples per FFT window" default:"2048"`
	BufSize    int     `short:"b" name:"bufsize" group:"Analysis" help:"Samples read per column" default:"512"`
	Skip       int     `name:"skip" group:"Analysis" help:"Samples to discard before the first column" default:"-1"`
	Rate       int     `short:"r" name:"rate" group:"Analysis" help:"Input sample rate in Hz (ignored with --input)" default:"44100"`
	LowerFreq  int     `short:"l" name:"lower-freq" group:"Analysis" help:"Lowest frequency shown, Hz" default:"20"`
	UpperFreq  int     `short:"u" name:"upper-freq" group:"Analysis" help:"Highest frequency shown, Hz" default:"20000"`
	Brightness float64 `short:"B" name:"brightness" group:"Analysis" help:"Brightness in percent" default:"100"`
	Gate       float64 `short:"g" name:"gate" group:"Analysis" help:"Noise gate in dBFS, e.g. --gate=-60; quieter bins are black" default:"-inf"`
	Input      string  `short:"I" name:"input" group:"Analysis" help:"Decode a WAV, FLAC or MP3 file instead of reading float32 samples from stdin" placeholder:"FILE"`

	Normalize bool   `short:"n" group:"Output" help:"Stretch the value range to full scale"`
	Invert    bool   `short:"i" group:"Output" help:"Black on white instead of white on black"`
	Floats    bool   `short:"f" group:"Output" help:"Write raw float32 values instead of an image"`
	Even      bool   `short:"2" group:"Output" help:"Truncate width and height to even numbers"`
	Preview   string `name:"preview" group:"Output" help:"Also write a captioned PNG thumbnail" placeholder:"FILE"`

	Progress bool `group:"Display" help:"Show a progress view on stderr"`
	Verbose  bool `short:"v" group:"Display" help:"Print derived analysis parameters"`
	Version  bool `help:"Show version information"`
}

// helpDefaults names the sentinel defaults in --help
var helpDefaults = cli.HelpDefaults{
	"skip": "bufsize/2",
	"gate": "off",
}

var CLI Args

func main() {
	kong.Parse(&CLI,
		kong.Name("monocycle"),
		kong.Description("Render a mono audio stream as a greyscale spectrogram image."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(helpDefaults)),
	)

	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(exitOK)
	}

	os.Exit(run(CLI))
}

// buildConfig maps command line values onto the analysis configuration.
func buildConfig(args Args) config.Config {
	cfg := config.New()
	cfg.FFTSize = args.FFTSize
	cfg.BufSize = args.BufSize
	cfg.SkipSamples = args.Skip
	if cfg.SkipSamples < 0 {
		cfg.SkipSamples = args.BufSize / 2
	}
	cfg.SampleRate = args.Rate
	cfg.LowerFreq = args.LowerFreq
	cfg.UpperFreq = args.UpperFreq
	cfg.Brightness = config.BrightnessFromPercent(args.Brightness)
	cfg.Gate = config.GateFromDecibels(args.Gate)
	cfg.Normalize = args.Normalize
	cfg.Invert = args.Invert
	cfg.Floats = args.Floats
	cfg.EvenSize = args.Even
	cfg.Output = args.Image
	return cfg
}

// exitCode maps a failure onto the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrNoOutput):
		return exitNoOutput
	case errors.Is(err, config.ErrUpperFrequency):
		return exitUpperFrequency
	case errors.Is(err, config.ErrLowerFrequency):
		return exitLowerFrequency
	case errors.Is(err, spectrogram.ErrNoSamples):
		return exitNoSamples
	case errors.Is(err, spectrogram.ErrImageTooWide):
		return exitTooWide
	case errors.Is(err, config.ErrFFTSize), errors.Is(err, audio.ErrWindowTooShort):
		return exitWindowTooShort
	case errors.Is(err, config.ErrBufferSize):
		return exitBufferSize
	default:
		return exitFailure
	}
}

// input is an open sample source plus what is known about its length.
type input struct {
	source       audio.SampleSource
	totalSamples int64 // 0 when unknown
	fromStdin    bool
	ignoredRate  int // non-default --rate the file's own rate replaced
	close        func() error
}

func openInput(args Args, cfg *config.Config) (*input, error) {
	if args.Input == "" {
		return &input{
			source:    audio.NewRawReader(bufio.NewReaderSize(os.Stdin, 1<<16)),
			fromStdin: true,
			close:     func() error { return nil },
		}, nil
	}

	decoder, err := audio.NewDecoder(args.Input)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", args.Input, err)
	}
	in := &input{
		source:       audio.NewDecoderSource(decoder),
		totalSamples: decoder.NumSamples(),
		close:        decoder.Close,
	}

	// The file's own rate wins over --rate
	fileRate := decoder.SampleRate()
	if args.Rate != config.DefaultSampleRate && args.Rate != fileRate {
		in.ignoredRate = args.Rate
	}
	cfg.SampleRate = fileRate

	return in, nil
}

func run(args Args) int {
	cfg := buildConfig(args)

	// Output is checked before the input is touched
	if cfg.Output == "" {
		cli.PrintError(config.ErrNoOutput.Error())
		return exitNoOutput
	}

	in, err := openInput(args, &cfg)
	if err != nil {
		cli.PrintError(err.Error())
		return exitFailure
	}
	defer in.close()

	if in.ignoredRate != 0 {
		cli.PrintWarning(fmt.Sprintf("--rate %d ignored, %s is %d Hz", in.ignoredRate, args.Input, cfg.SampleRate))
	}

	if err := cfg.Validate(); err != nil {
		cli.PrintError(err.Error())
		return exitCode(err)
	}

	if args.Verbose {
		printParameters(cfg, args)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	var r *spectrogram.Raster
	if args.Progress {
		r, err = runWithProgress(ctx, cancel, cfg, args, in)
	} else {
		r, err = analyse(ctx, cfg, in.source, nil)
		if err == nil {
			err = save(cfg, args, r)
		}
	}
	if err != nil {
		cli.PrintError(err.Error())
		return exitCode(err)
	}

	cli.PrintSuccess("Wrote " + cfg.Output)
	if args.Preview != "" {
		cli.PrintSuccess("Wrote " + args.Preview)
	}

	lo, hi := r.RangeString()
	if r.IsFloat() {
		cli.PrintInfo("Min float value", lo)
		cli.PrintInfo("Max float value", hi)
	} else {
		cli.PrintInfo("Min pixel value", lo)
		cli.PrintInfo("Max pixel value", hi)
	}
	cli.PrintInfo("Image size", fmt.Sprintf("%dx%d", r.Width, r.Height))

	if args.Verbose {
		elapsed := time.Since(start)
		summary := cli.Summary{
			Output:   cfg.Output,
			Width:    r.Width,
			Height:   r.Height,
			MinValue: lo,
			MaxValue: hi,
			Elapsed:  elapsed,
		}
		if elapsed > 0 {
			audioSeconds := float64(r.Width*cfg.BufSize) / float64(cfg.SampleRate)
			summary.Speed = audioSeconds / elapsed.Seconds()
		}
		if info, err := os.Stat(cfg.Output); err == nil {
			summary.Size = info.Size()
		}
		cli.PrintSummary(summary)
	}
	return exitOK
}

// analyse runs the driver over src and composes the result.
func analyse(ctx context.Context, cfg config.Config, src audio.SampleSource, progress spectrogram.ProgressCallback) (*spectrogram.Raster, error) {
	var opts []spectrogram.Option
	if progress != nil {
		opts = append(opts, spectrogram.WithProgress(progress, progressEvery))
	}

	driver, err := spectrogram.NewDriver(cfg, opts...)
	if err != nil {
		return nil, err
	}
	columns, err := driver.Run(ctx, src)
	if err != nil {
		return nil, err
	}

	return spectrogram.Compose(columns, cfg.Height(), spectrogram.ComposeOptions{
		Normalize: cfg.Normalize,
		Floats:    cfg.Floats,
		EvenSize:  cfg.EvenSize,
	})
}

// save writes the raster and, when requested, the preview.
func save(cfg config.Config, args Args, r *spectrogram.Raster) error {
	if err := renderer.Write(cfg.Output, r); err != nil {
		return err
	}
	if args.Preview != "" {
		if err := renderer.WritePreview(args.Preview, r, previewCaption(cfg, r)); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	return nil
}

// runWithProgress runs analysis and saving in a goroutine while the
// progress view owns the terminal.
func runWithProgress(ctx context.Context, cancel context.CancelFunc, cfg config.Config, args Args, in *input) (*spectrogram.Raster, error) {
	model := ui.NewModel(in.totalSamples, cfg.SampleRate, cfg.FFTSize, cfg.BufSize, cancel)

	opts := []tea.ProgramOption{tea.WithOutput(os.Stderr)}
	if in.fromStdin {
		// stdin carries samples, not keystrokes
		opts = append(opts, tea.WithInput(nil))
	}
	p := tea.NewProgram(model, opts...)

	var (
		r      *spectrogram.Raster
		runErr error
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		start := time.Now()

		r, runErr = analyse(ctx, cfg, in.source, func(pr spectrogram.Progress) {
			p.Send(ui.AnalysisProgress{
				Columns:     pr.Columns,
				SamplesRead: pr.SamplesRead,
				Elapsed:     pr.Elapsed,
				Column:      pr.Column,
			})
		})
		if runErr == nil {
			p.Send(ui.WritingStarted{Columns: r.Width})
			runErr = save(cfg, args, r)
		}

		complete := ui.RunComplete{Output: cfg.Output, Elapsed: time.Since(start), Err: runErr}
		if r != nil {
			complete.Width, complete.Height = r.Width, r.Height
		}
		p.Send(complete)
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrInterrupted) {
		cancel()
		<-done
		return nil, fmt.Errorf("running UI: %w", err)
	}

	// An early quit cancels ctx, so the driver stops at its next step
	<-done
	return r, runErr
}

func previewCaption(cfg config.Config, r *spectrogram.Raster) string {
	return fmt.Sprintf("%d-point FFT  %d-%d Hz  %dx%d", cfg.FFTSize, cfg.LowerFreq, cfg.UpperFreq, r.Width, r.Height)
}

func printParameters(cfg config.Config, args Args) {
	cli.PrintBanner()
	cli.PrintSection("Parameters")
	cli.PrintInfo("FFT size", fmt.Sprintf("%d", cfg.FFTSize))
	cli.PrintInfo("Buffer size", fmt.Sprintf("%d", cfg.BufSize))
	cli.PrintInfo("Skip", fmt.Sprintf("%d samples", cfg.SkipSamples))
	cli.PrintInfo("Sample rate", fmt.Sprintf("%d Hz", cfg.SampleRate))
	cli.PrintInfo("Bins", fmt.Sprintf("%d-%d (%d-%d Hz)", cfg.LowerBin(), cfg.UpperBin(), cfg.LowerFreq, cfg.UpperFreq))
	cli.PrintInfo("Height", fmt.Sprintf("%d", cfg.Height()))
	cli.PrintInfo("Brightness", fmt.Sprintf("%.0f%%", args.Brightness))
	if math.IsInf(args.Gate, -1) {
		cli.PrintInfo("Gate", "off")
	} else {
		cli.PrintInfo("Gate", fmt.Sprintf("%.1f dBFS (%g)", args.Gate, cfg.Gate))
	}
	if args.Input != "" {
		cli.PrintInfo("Input", args.Input)
	}
}
