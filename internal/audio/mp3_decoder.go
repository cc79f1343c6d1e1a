package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always outputs interleaved 16-bit little-endian stereo
const mp3BytesPerFrame = 4

// MP3Decoder implements AudioDecoder for MP3 files
type MP3Decoder struct {
	decoder    *mp3.Decoder
	file       *os.File
	buf        []byte
	sampleRate int
}

// NewMP3Decoder creates a new MP3 decoder
func NewMP3Decoder(filename string) (*MP3Decoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	return &MP3Decoder{
		decoder:    decoder,
		file:       f,
		sampleRate: decoder.SampleRate(),
	}, nil
}

// ReadChunk reads up to numSamples mono samples, averaging left and right
func (d *MP3Decoder) ReadChunk(numSamples int) ([]float64, error) {
	need := numSamples * mp3BytesPerFrame
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:need]

	n, err := io.ReadFull(d.decoder, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read MP3 data: %w", err)
	}

	frames := n / mp3BytesPerFrame
	if frames == 0 {
		return nil, io.EOF
	}

	samples := make([]float64, frames)
	for i := range samples {
		left := int16(binary.LittleEndian.Uint16(buf[i*mp3BytesPerFrame:]))
		right := int16(binary.LittleEndian.Uint16(buf[i*mp3BytesPerFrame+2:]))
		samples[i] = (float64(left) + float64(right)) / 2.0 / 32768.0
	}

	return samples, nil
}

// SampleRate returns the sample rate
func (d *MP3Decoder) SampleRate() int {
	return d.sampleRate
}

// NumSamples returns the decoded length in frames
func (d *MP3Decoder) NumSamples() int64 {
	return d.decoder.Length() / mp3BytesPerFrame
}

// NumChannels returns the number of channels go-mp3 decodes to
func (d *MP3Decoder) NumChannels() int {
	return 2
}

// Close closes the decoder and releases resources
func (d *MP3Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
