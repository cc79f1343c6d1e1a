package audio

import (
	"errors"

	"gonum.org/v1/gonum/dsp/window"
)

// ErrWindowTooShort is returned for windows shorter than two samples, where
// the symmetric taper's N-1 denominator is zero.
var ErrWindowTooShort = errors.New("window length must be at least 2")

// BlackmanHarris returns the symmetric 4-term Blackman-Harris taper of length n.
// Sidelobes sit around -92 dB, which keeps quiet partials visible next to
// loud ones in the spectrogram.
func BlackmanHarris(n int) ([]float64, error) {
	if n < 2 {
		return nil, ErrWindowTooShort
	}

	coeffs := make([]float64, n)
	for i := range coeffs {
		coeffs[i] = 1
	}
	return window.BlackmanHarris(coeffs), nil
}

// ApplyWindow multiplies data by coeffs in place. Both must be the same length.
func ApplyWindow(data, coeffs []float64) {
	for i := range data {
		data[i] *= coeffs[i]
	}
}
