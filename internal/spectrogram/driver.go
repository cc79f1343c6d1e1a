package spectrogram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/linuxmatters/monocycle/internal/audio"
	"github.com/linuxmatters/monocycle/internal/config"
)

var (
	// ErrNoSamples means the input ran out before a single column could be
	// produced, either during the initial skip or on the first read.
	ErrNoSamples = errors.New("no samples - no work")

	// ErrImageTooWide means the input would produce more than
	// config.MaxImageWidth columns.
	ErrImageTooWide = errors.New("image width limit exceeded")

	// ErrEmptyImage means composition was left with a zero dimension.
	ErrEmptyImage = errors.New("image has no pixels")
)

// State is the driver's position in its run.
type State int

const (
	StateSkipping State = iota
	StateReading
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSkipping:
		return "skipping"
	case StateReading:
		return "reading"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress is reported after every produced column.
type Progress struct {
	Columns     int           // Columns kept so far
	SamplesRead int64         // Samples consumed, including the skip
	Elapsed     time.Duration // Time since Run started
	Column      []float32     // Copy of the latest column, top row first
}

// ProgressCallback is called with progress updates during a run
type ProgressCallback func(Progress)

// Driver runs the buffer-fill, window, transform, extract cycle until the
// source is exhausted. A Driver is single use.
type Driver struct {
	cfg       config.Config
	window    []float64
	sliding   *audio.SlidingWindow
	transform *audio.Transform
	extractor *Extractor
	input     []float64
	maxWidth  int

	state       State
	samplesRead int64
	progress    ProgressCallback
	every       int
}

// Option configures a Driver.
type Option func(*Driver)

// WithProgress registers a callback invoked every `every` columns (and once
// more for the final column).
func WithProgress(cb ProgressCallback, every int) Option {
	return func(d *Driver) {
		d.progress = cb
		if every < 1 {
			every = 1
		}
		d.every = every
	}
}

// WithMaxWidth overrides config.MaxImageWidth. Intended for tests.
func WithMaxWidth(width int) Option {
	return func(d *Driver) {
		d.maxWidth = width
	}
}

// NewDriver plans the transform and precomputes the window for cfg, which
// must already be validated.
func NewDriver(cfg config.Config, opts ...Option) (*Driver, error) {
	window, err := audio.BlackmanHarris(cfg.FFTSize)
	if err != nil {
		return nil, err
	}

	transform, err := audio.NewTransform(cfg.FFTSize)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		cfg:       cfg,
		window:    window,
		sliding:   audio.NewSlidingWindow(cfg.FFTSize),
		transform: transform,
		extractor: NewExtractor(cfg),
		input:     make([]float64, cfg.BufSize),
		maxWidth:  config.MaxImageWidth,
		state:     StateSkipping,
		every:     1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// State returns the driver's current state.
func (d *Driver) State() State {
	return d.state
}

// SamplesRead returns the number of samples consumed so far.
func (d *Driver) SamplesRead() int64 {
	return d.samplesRead
}

// Run consumes src and returns the produced columns in time order. The
// column from the read that hits end of stream is dropped, since its window
// is incomplete. Cancelling ctx stops the run between steps.
func (d *Driver) Run(ctx context.Context, src audio.SampleSource) ([][]float32, error) {
	if d.state != StateSkipping {
		return nil, fmt.Errorf("driver already used (state %s)", d.state)
	}
	start := time.Now()

	if err := d.skip(src); err != nil {
		d.state = StateDone
		return nil, err
	}
	d.state = StateReading

	var columns [][]float32
	for {
		if err := ctx.Err(); err != nil {
			d.state = StateDone
			return nil, err
		}

		column, eof, err := d.step(src)
		if err != nil {
			d.state = StateDone
			return nil, err
		}
		if eof {
			// The in-progress window is incomplete; it is not emitted
			break
		}

		if len(columns) >= d.maxWidth {
			d.state = StateDone
			return nil, fmt.Errorf("%w: more than %d columns", ErrImageTooWide, d.maxWidth)
		}
		columns = append(columns, column)

		if d.progress != nil && len(columns)%d.every == 0 {
			d.report(len(columns), column, start)
		}
	}
	d.state = StateDone

	if len(columns) == 0 {
		return nil, ErrNoSamples
	}
	if d.progress != nil && len(columns)%d.every != 0 {
		d.report(len(columns), columns[len(columns)-1], start)
	}
	return columns, nil
}

// skip discards cfg.SkipSamples samples. Reaching end of stream at any point
// of the skip means there is nothing left to analyse.
func (d *Driver) skip(src audio.SampleSource) error {
	remaining := d.cfg.SkipSamples
	if remaining <= 0 {
		return nil
	}

	bufSize := len(d.input)
	if bufSize < remaining {
		for reads := remaining / bufSize; reads > 0; reads-- {
			if err := d.discard(src, bufSize); err != nil {
				return err
			}
		}
		remaining %= bufSize
	}
	return d.discard(src, remaining)
}

func (d *Driver) discard(src audio.SampleSource, count int) error {
	n, err := src.ReadSamples(d.input[:count])
	d.samplesRead += int64(n)
	if errors.Is(err, io.EOF) {
		return ErrNoSamples
	}
	if err != nil {
		return fmt.Errorf("skipping samples: %w", err)
	}
	return nil
}

// step reads one chunk and turns it into a column. eof reports whether the
// read reached end of stream, in which case the column is discarded.
func (d *Driver) step(src audio.SampleSource) (column []float32, eof bool, err error) {
	n, err := src.ReadSamples(d.input)
	d.samplesRead += int64(n)
	if errors.Is(err, io.EOF) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading samples: %w", err)
	}

	frame := d.sliding.Advance(d.input, n)
	audio.ApplyWindow(frame, d.window)

	coeffs, err := d.transform.Coefficients(frame)
	if err != nil {
		return nil, false, err
	}
	return d.extractor.Extract(coeffs), false, nil
}

func (d *Driver) report(columns int, latest []float32, start time.Time) {
	columnCopy := make([]float32, len(latest))
	copy(columnCopy, latest)

	d.progress(Progress{
		Columns:     columns,
		SamplesRead: d.samplesRead,
		Elapsed:     time.Since(start),
		Column:      columnCopy,
	})
}
