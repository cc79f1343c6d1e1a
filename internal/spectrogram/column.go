package spectrogram

import (
	"math"

	"github.com/linuxmatters/monocycle/internal/config"
)

// Extractor maps transform bins onto a column of brightness values.
type Extractor struct {
	lowerBin int
	upperBin int
	height   int
	magScale float64 // sqrt(2N), folded into the amplitude curve
	gain     float64 // 10^(brightness-1), brightness held at float32 precision
	gate     float32
	invert   bool
}

// NewExtractor precomputes the per-run constants of the brightness curve.
func NewExtractor(cfg config.Config) *Extractor {
	return &Extractor{
		lowerBin: cfg.LowerBin(),
		upperBin: cfg.UpperBin(),
		height:   cfg.Height(),
		magScale: math.Sqrt(float64(2 * cfg.FFTSize)),
		gain:     math.Pow(10, float64(float32(cfg.Brightness)-1)),
		gate:     cfg.Gate,
		invert:   cfg.Invert,
	}
}

// Height returns the number of rows in each column.
func (e *Extractor) Height() int {
	return e.height
}

// Extract returns a freshly allocated column for the bins in
// [lowerBin, upperBin), flipped so the highest bin is row 0. The bottom row
// is never written and stays zero.
//
// Luma is amplitude compressed by two square roots, then scaled by the
// brightness gain. It is not clamped.
func (e *Extractor) Extract(coeffs []complex128) []float32 {
	column := make([]float32, e.height)
	top := e.upperBin - e.lowerBin - 1

	for i := e.lowerBin; i < e.upperBin && i < len(coeffs); i++ {
		mag := float32(math.Hypot(real(coeffs[i]), imag(coeffs[i])))
		amp := float32(math.Sqrt(float64(mag)/e.magScale/2) / 2)

		var luma float32
		if amp >= e.gate {
			luma = float32(float64(amp) * e.gain)
		}
		if e.invert {
			luma = 1 - luma
		}

		column[top-(i-e.lowerBin)] = luma
	}

	return column
}
