package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const bytesPerFloat = 4

// RawReader reads native-endian float32 samples from a byte stream, such as
// the output of `ffmpeg -f f32le -`.
type RawReader struct {
	r     io.Reader
	buf   []byte
	order binary.ByteOrder
	read  int64
}

// NewRawReader creates a raw float32 sample reader over r.
func NewRawReader(r io.Reader) *RawReader {
	return &RawReader{r: r, order: binary.NativeEndian}
}

// ReadSamples implements SampleSource. A trailing partial sample (fewer than
// four bytes) at the end of the stream is discarded.
func (r *RawReader) ReadSamples(dst []float64) (int, error) {
	need := len(dst) * bytesPerFloat
	if cap(r.buf) < need {
		r.buf = make([]byte, need)
	}
	buf := r.buf[:need]

	n, err := io.ReadFull(r.r, buf)
	count := n / bytesPerFloat
	for i := 0; i < count; i++ {
		dst[i] = float64(math.Float32frombits(r.order.Uint32(buf[i*bytesPerFloat:])))
	}
	r.read += int64(count)

	switch {
	case err == nil:
		return count, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return count, io.EOF
	default:
		return count, fmt.Errorf("failed to read samples: %w", err)
	}
}

// SamplesRead returns the number of samples delivered so far.
func (r *RawReader) SamplesRead() int64 {
	return r.read
}
