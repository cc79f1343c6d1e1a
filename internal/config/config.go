package config

import (
	"errors"
	"fmt"
	"math"
)

// Analysis defaults
const (
	DefaultFFTSize    = 2048
	DefaultBufSize    = 512
	DefaultSampleRate = 44100
	DefaultLowerFreq  = 20
	DefaultUpperFreq  = 20000
	DefaultBrightness = 100.0 // Percent, 100 = unity gain
)

// Resource limits
const (
	// MaxInputBufferBytes caps the input chunk allocation (float32 samples)
	MaxInputBufferBytes = 254016000

	// MaxImageWidth is the largest number of columns a run may produce.
	// PNG allows far more, but few viewers cope with anything past 32k.
	MaxImageWidth = 32768

	// MinFFTSize is the smallest window the Blackman-Harris taper is defined for
	MinFFTSize = 2
)

// Preview thumbnail layout
const (
	PreviewWidth         = 640 // Bounding box for the scaled spectrogram
	PreviewHeight        = 360
	PreviewCaptionHeight = 28 // Strip below the spectrogram for the caption
	PreviewMargin        = 8  // Caption inset from the left edge
	PreviewFontSize      = 14.0
	PreviewMinFontSize   = 6.0

	// Caption colour: brand yellow
	TextColorR = 248
	TextColorG = 179
	TextColorB = 29
)

// GateOff is the threshold used when no noise gate is requested: the
// smallest normal float32, so bins with exactly zero amplitude are still
// gated to black while every audible bin passes.
const GateOff float32 = 0x1p-126

// Validation failures. Each maps to its own exit code in cmd/monocycle.
var (
	ErrNoOutput       = errors.New("no output file specified")
	ErrBufferSize     = errors.New("buffer length is out of range")
	ErrUpperFrequency = errors.New("upper frequency cannot exceed half of sampling frequency")
	ErrLowerFrequency = errors.New("lower frequency must be lower than upper frequency")
	ErrFFTSize        = errors.New("FFT size must be at least 2")
)

// Config is the immutable run configuration. Build it once, call Validate,
// then pass it by value to every stage.
type Config struct {
	FFTSize     int     // Samples per analysis window (N)
	BufSize     int     // Samples read per step
	SkipSamples int     // Samples discarded before the first step
	SampleRate  int     // Input sample rate in Hz
	LowerFreq   int     // Lowest retained frequency in Hz
	UpperFreq   int     // Highest retained frequency in Hz
	Brightness  float64 // Exponent, percent/100 (1.0 = unity gain)
	Gate        float32 // Linear noise gate threshold
	Invert      bool
	Normalize   bool
	Floats      bool // Raw float32 dump instead of an 8-bit image
	EvenSize    bool // Truncate both dimensions to even numbers
	Output      string
}

// New returns a Config populated with the defaults.
func New() Config {
	return Config{
		FFTSize:     DefaultFFTSize,
		BufSize:     DefaultBufSize,
		SkipSamples: DefaultBufSize / 2,
		SampleRate:  DefaultSampleRate,
		LowerFreq:   DefaultLowerFreq,
		UpperFreq:   DefaultUpperFreq,
		Brightness:  BrightnessFromPercent(DefaultBrightness),
		Gate:        GateOff,
	}
}

// BrightnessFromPercent maps the CLI brightness percentage to the exponent
// used by the column extractor.
func BrightnessFromPercent(percent float64) float64 {
	return percent / 100
}

// GateFromDecibels converts a gate level in dBFS to a linear threshold.
// -Inf (the default) and anything that underflows float32 map to GateOff.
func GateFromDecibels(db float64) float32 {
	if math.IsInf(db, -1) || math.IsNaN(db) {
		return GateOff
	}
	gate := float32(math.Pow(10, db/20))
	if gate == 0 {
		return GateOff
	}
	return gate
}

// Validate checks the configuration in the order the checks are reported
// to the user. The first failure wins.
func (c Config) Validate() error {
	if c.Output == "" {
		return ErrNoOutput
	}
	if c.BufSize <= 0 || c.BufSize*4 > MaxInputBufferBytes {
		return fmt.Errorf("%w: %d samples", ErrBufferSize, c.BufSize)
	}
	if c.FFTSize < MinFFTSize {
		return fmt.Errorf("%w: got %d", ErrFFTSize, c.FFTSize)
	}
	if c.UpperFreq > c.SampleRate/2 {
		return fmt.Errorf("%w: %d Hz > %d Hz", ErrUpperFrequency, c.UpperFreq, c.SampleRate/2)
	}
	if c.LowerFreq < 0 || c.LowerFreq >= c.UpperFreq {
		return fmt.Errorf("%w: %d Hz >= %d Hz", ErrLowerFrequency, c.LowerFreq, c.UpperFreq)
	}
	return nil
}

// LowerBin is the transform bin index of LowerFreq, mapped linearly over [0, N-1].
func (c Config) LowerBin() int {
	return freqToBin(c.LowerFreq, c.SampleRate, c.FFTSize)
}

// UpperBin is the transform bin index of UpperFreq, mapped linearly over [0, N-1].
func (c Config) UpperBin() int {
	return freqToBin(c.UpperFreq, c.SampleRate, c.FFTSize)
}

// Height is the number of rows in every column.
func (c Config) Height() int {
	return c.UpperBin() - c.LowerBin() + 1
}

func freqToBin(freq, sampleRate, fftSize int) int {
	return int(float64(freq) / float64(sampleRate) * float64(fftSize-1))
}
