package config

import (
	"errors"
	"math"
	"testing"
)

func validConfig() Config {
	c := New()
	c.Output = "out.png"
	return c
}

// TestNew_Defaults verifies the defaults match the documented CLI defaults,
// including the skip default of half an input buffer.
func TestNew_Defaults(t *testing.T) {
	c := New()

	if c.FFTSize != 2048 {
		t.Errorf("FFTSize = %d, want 2048", c.FFTSize)
	}
	if c.BufSize != 512 {
		t.Errorf("BufSize = %d, want 512", c.BufSize)
	}
	if c.SkipSamples != 256 {
		t.Errorf("SkipSamples = %d, want 256", c.SkipSamples)
	}
	if c.SampleRate != 44100 || c.LowerFreq != 20 || c.UpperFreq != 20000 {
		t.Errorf("unexpected frequency defaults: rate=%d lower=%d upper=%d",
			c.SampleRate, c.LowerFreq, c.UpperFreq)
	}
	if c.Brightness != 1.0 {
		t.Errorf("Brightness = %v, want 1.0", c.Brightness)
	}
	if c.Gate != GateOff {
		t.Errorf("Gate = %v, want GateOff", c.Gate)
	}
}

// TestValidate covers every rejection path and checks the sentinel errors so
// the CLI can map each to its exit code.
func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid defaults", func(c *Config) {}, nil},
		{"missing output", func(c *Config) { c.Output = "" }, ErrNoOutput},
		{"zero buffer", func(c *Config) { c.BufSize = 0 }, ErrBufferSize},
		{"negative buffer", func(c *Config) { c.BufSize = -4 }, ErrBufferSize},
		{"buffer over memory ceiling", func(c *Config) { c.BufSize = MaxInputBufferBytes/4 + 1 }, ErrBufferSize},
		{"buffer at memory ceiling", func(c *Config) { c.BufSize = MaxInputBufferBytes / 4 }, nil},
		{"fft size one", func(c *Config) { c.FFTSize = 1 }, ErrFFTSize},
		{"upper above nyquist", func(c *Config) { c.UpperFreq = 22051 }, ErrUpperFrequency},
		{"upper at nyquist", func(c *Config) { c.UpperFreq = 22050 }, nil},
		{"lower equals upper", func(c *Config) { c.LowerFreq = 20000 }, ErrLowerFrequency},
		{"lower above upper", func(c *Config) { c.LowerFreq = 21000 }, ErrLowerFrequency},
		{"negative lower", func(c *Config) { c.LowerFreq = -1 }, ErrLowerFrequency},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(&c)
			err := c.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

// TestValidate_OutputCheckedFirst ensures a missing output path is reported
// ahead of numeric problems, matching the order users see on the CLI.
func TestValidate_OutputCheckedFirst(t *testing.T) {
	c := New()
	c.BufSize = 0
	if err := c.Validate(); !errors.Is(err, ErrNoOutput) {
		t.Errorf("Validate() = %v, want ErrNoOutput", err)
	}
}

// TestDerivedBins checks the linear frequency-to-bin mapping against values
// computed by hand for the defaults.
func TestDerivedBins(t *testing.T) {
	c := New()

	// 20/44100*2047 = 0.928 -> 0; 20000/44100*2047 = 928.34 -> 928
	if got := c.LowerBin(); got != 0 {
		t.Errorf("LowerBin() = %d, want 0", got)
	}
	if got := c.UpperBin(); got != 928 {
		t.Errorf("UpperBin() = %d, want 928", got)
	}
	if got := c.Height(); got != 929 {
		t.Errorf("Height() = %d, want 929", got)
	}

	c.FFTSize = 1024
	c.LowerFreq = 1000
	c.UpperFreq = 8000
	// 1000/44100*1023 = 23.19; 8000/44100*1023 = 185.58
	if c.LowerBin() != 23 || c.UpperBin() != 185 || c.Height() != 163 {
		t.Errorf("bins = [%d, %d] height %d, want [23, 185] height 163",
			c.LowerBin(), c.UpperBin(), c.Height())
	}
}

func TestGateFromDecibels(t *testing.T) {
	testCases := []struct {
		name string
		db   float64
		want float32
	}{
		{"minus infinity is off", math.Inf(-1), GateOff},
		{"NaN is off", math.NaN(), GateOff},
		{"0 dBFS", 0, 1},
		{"-20 dBFS", -20, 0.1},
		{"-60 dBFS", -60, 0.001},
		{"underflow is off", -2000, GateOff},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := GateFromDecibels(tc.db)
			if math.Abs(float64(got-tc.want)) > 1e-7 {
				t.Errorf("GateFromDecibels(%v) = %v, want %v", tc.db, got, tc.want)
			}
		})
	}
}

func TestBrightnessFromPercent(t *testing.T) {
	if got := BrightnessFromPercent(150); got != 1.5 {
		t.Errorf("BrightnessFromPercent(150) = %v, want 1.5", got)
	}
	if got := BrightnessFromPercent(0); got != 0 {
		t.Errorf("BrightnessFromPercent(0) = %v, want 0", got)
	}
}
