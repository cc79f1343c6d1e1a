package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVDecoder implements AudioDecoder for PCM WAV files
type WAVDecoder struct {
	decoder    *wav.Decoder
	file       *os.File
	intBuf     *audio.IntBuffer
	sampleRate int
	bitDepth   int
	numChans   int
	numSamples int64
}

// NewWAVDecoder creates a new WAV decoder
func NewWAVDecoder(filename string) (*WAVDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("invalid WAV file")
	}

	// Get format info without reading all samples
	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}

	numChans := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	if numChans == 0 || bitDepth == 0 {
		f.Close()
		return nil, fmt.Errorf("invalid WAV format: %d channels, %d bits", numChans, bitDepth)
	}

	bytesPerFrame := int64(bitDepth/8) * int64(numChans)

	return &WAVDecoder{
		decoder: decoder,
		file:    f,
		intBuf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: numChans,
				SampleRate:  int(decoder.SampleRate),
			},
		},
		sampleRate: int(decoder.SampleRate),
		bitDepth:   bitDepth,
		numChans:   numChans,
		numSamples: int64(decoder.PCMLen()) / bytesPerFrame,
	}, nil
}

// ReadChunk reads up to numSamples mono samples, downmixing multi-channel
// files by averaging the channels of each frame.
func (d *WAVDecoder) ReadChunk(numSamples int) ([]float64, error) {
	// Interleaved data needs numSamples × numChannels slots
	bufSize := numSamples * d.numChans
	if cap(d.intBuf.Data) < bufSize {
		d.intBuf.Data = make([]int, bufSize)
	}
	d.intBuf.Data = d.intBuf.Data[:bufSize]

	n, err := d.decoder.PCMBuffer(d.intBuf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	frames := n / d.numChans
	if frames == 0 {
		return nil, io.EOF
	}

	maxVal := float64(audio.IntMaxSignedValue(d.bitDepth))
	samples := make([]float64, frames)
	for i := range samples {
		var sum float64
		for ch := 0; ch < d.numChans; ch++ {
			sum += float64(d.intBuf.Data[i*d.numChans+ch])
		}
		samples[i] = sum / float64(d.numChans) / maxVal
	}

	return samples, nil
}

// SampleRate returns the sample rate
func (d *WAVDecoder) SampleRate() int {
	return d.sampleRate
}

// NumSamples returns the number of frames in the data chunk
func (d *WAVDecoder) NumSamples() int64 {
	return d.numSamples
}

// NumChannels returns the number of audio channels
func (d *WAVDecoder) NumChannels() int {
	return d.numChans
}

// Close closes the decoder and releases resources
func (d *WAVDecoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
