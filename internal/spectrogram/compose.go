package spectrogram

import (
	"fmt"
	"image"
	"math"
)

// ComposeOptions selects the output format and post-processing.
type ComposeOptions struct {
	Normalize bool // Stretch the global luma range to [0, 1]
	Floats    bool // Keep float32 samples instead of quantizing to 8 bits
	EvenSize  bool // Drop the last row and column when odd
}

// Raster is the composed spectrogram, row-major, time along X.
type Raster struct {
	Width  int
	Height int

	// Exactly one of Gray and Floats is set
	Gray   *image.Gray
	Floats []float32

	// Observed value range after normalization. For 8-bit rasters MinPixel
	// and MaxPixel hold the pre-wrap 16-bit quantized values.
	MinPixel, MaxPixel uint16
	MinFloat, MaxFloat float32
}

// IsFloat reports whether the raster holds float samples.
func (r *Raster) IsFloat() bool {
	return r.Floats != nil
}

// RangeString formats the observed min/max the way the tool reports them:
// four hex digits for pixels, %f for floats.
func (r *Raster) RangeString() (string, string) {
	if r.IsFloat() {
		return fmt.Sprintf("%f", r.MinFloat), fmt.Sprintf("%f", r.MaxFloat)
	}
	return fmt.Sprintf("%04x", r.MinPixel), fmt.Sprintf("%04x", r.MaxPixel)
}

// Compose flattens columns into a raster. Each column must hold at least
// height values. Columns are released as they are consumed: on return every
// entry of columns is nil and the raster is the only remaining copy.
func Compose(columns [][]float32, height int, opts ComposeOptions) (*Raster, error) {
	width := len(columns)
	if opts.EvenSize {
		width &^= 1
		height &^= 1
	}
	if width <= 0 || height <= 0 {
		releaseColumns(columns)
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	for x := 0; x < width; x++ {
		if len(columns[x]) < height {
			releaseColumns(columns)
			return nil, fmt.Errorf("column %d has %d rows, want %d", x, len(columns[x]), height)
		}
	}

	var scale, shift float32 = 1, 0
	if opts.Normalize {
		lo, hi := float32(math.MaxFloat32), float32(-math.MaxFloat32)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				v := columns[x][y]
				if v > hi {
					hi = v
				}
				if v < lo {
					lo = v
				}
			}
		}
		scale = 1 / (hi - lo)
		shift = -lo
	}

	r := &Raster{Width: width, Height: height}
	if opts.Floats {
		r.composeFloats(columns, scale, shift)
	} else {
		r.composeGray(columns, scale, shift)
	}

	releaseColumns(columns)
	return r, nil
}

func (r *Raster) composeFloats(columns [][]float32, scale, shift float32) {
	r.Floats = make([]float32, r.Width*r.Height)
	r.MinFloat, r.MaxFloat = math.MaxFloat32, -math.MaxFloat32

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			v := (columns[x][y] + shift) * scale
			r.Floats[x+y*r.Width] = v
			if v > r.MaxFloat {
				r.MaxFloat = v
			}
			if v < r.MinFloat {
				r.MinFloat = v
			}
		}
	}
}

func (r *Raster) composeGray(columns [][]float32, scale, shift float32) {
	r.Gray = image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	r.MinPixel, r.MaxPixel = 0xffff, 0

	for y := 0; y < r.Height; y++ {
		row := r.Gray.Pix[y*r.Gray.Stride:]
		for x := 0; x < r.Width; x++ {
			p := Quantize((columns[x][y] + shift) * scale)
			row[x] = uint8(p)
			if p > r.MaxPixel {
				r.MaxPixel = p
			}
			if p < r.MinPixel {
				r.MinPixel = p
			}
		}
	}
}

// Quantize maps luma to a pixel value as floor(255*v) with no clamping.
// Out-of-range values wrap instead of saturating: the product is truncated
// to a 32-bit integer (NaN and values beyond int32 become math.MinInt32, as
// x86 truncating conversions do) and then to 16 bits. The low 8 bits are
// the stored pixel.
func Quantize(v float32) uint16 {
	f := float64(255 * v)
	var i int32
	if math.IsNaN(f) || f >= math.MaxInt32+1 || f <= math.MinInt32-1 {
		i = math.MinInt32
	} else {
		i = int32(f)
	}
	return uint16(i)
}

func releaseColumns(columns [][]float32) {
	for i := range columns {
		columns[i] = nil
	}
}
