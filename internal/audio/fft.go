package audio

import (
	"fmt"
	"math/bits"

	"github.com/argusdusty/gofft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform is a forward real-to-complex FFT of fixed size, planned once and
// reused for every step. Power-of-two sizes run through gofft's radix-2
// kernel on a pre-allocated complex buffer; any other size falls back to
// gonum's mixed-radix real FFT.
type Transform struct {
	size   int
	radix2 []complex128 // gofft work buffer, nil when using gonum
	plan   *fourier.FFT // gonum plan, nil when using gofft
	out    []complex128 // N/2+1 output bins
}

// NewTransform plans a transform of n samples.
func NewTransform(n int) (*Transform, error) {
	if n < 2 {
		return nil, fmt.Errorf("transform size %d: %w", n, ErrWindowTooShort)
	}

	t := &Transform{
		size: n,
		out:  make([]complex128, n/2+1),
	}

	if isPowerOfTwo(n) {
		if err := gofft.Prepare(n); err != nil {
			return nil, fmt.Errorf("failed to prepare FFT of size %d: %w", n, err)
		}
		t.radix2 = make([]complex128, n)
	} else {
		t.plan = fourier.NewFFT(n)
	}

	return t, nil
}

// Size returns the number of input samples per transform.
func (t *Transform) Size() int {
	return t.size
}

// Bins returns the number of complex output bins, N/2+1.
func (t *Transform) Bins() int {
	return len(t.out)
}

// Coefficients transforms src (length N) and returns the N/2+1 positive
// frequency bins. The result is unnormalised and aliases an internal buffer
// that the next call overwrites.
func (t *Transform) Coefficients(src []float64) ([]complex128, error) {
	if len(src) != t.size {
		return nil, fmt.Errorf("transform input has %d samples, want %d", len(src), t.size)
	}

	if t.plan != nil {
		return t.plan.Coefficients(t.out, src), nil
	}

	for i, v := range src {
		t.radix2[i] = complex(v, 0)
	}
	if err := gofft.FFT(t.radix2); err != nil {
		return nil, fmt.Errorf("FFT computation failed: %w", err)
	}
	copy(t.out, t.radix2[:len(t.out)])
	return t.out, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}
