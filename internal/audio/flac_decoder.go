package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

// FLACDecoder implements AudioDecoder for FLAC files
type FLACDecoder struct {
	stream      *flac.Stream
	file        *os.File
	sampleRate  int
	numSamples  int64
	numChannels int
	pending     []float64 // decoded samples not yet returned
}

// NewFLACDecoder creates a new FLAC decoder. Format details come from the
// STREAMINFO block, which every FLAC stream starts with.
func NewFLACDecoder(filename string) (*FLACDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	// Parse FLAC stream - reads signature and StreamInfo block
	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}

	return &FLACDecoder{
		stream:      stream,
		file:        f,
		sampleRate:  int(stream.Info.SampleRate),
		numSamples:  int64(stream.Info.NSamples),
		numChannels: int(stream.Info.NChannels),
	}, nil
}

// ReadChunk reads up to numSamples mono samples
func (d *FLACDecoder) ReadChunk(numSamples int) ([]float64, error) {
	// Read FLAC frames until we have enough samples
	for len(d.pending) < numSamples {
		frame, err := d.stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		// Normalise to [-1.0, 1.0]; FLAC supports 4-32 bits per sample
		maxVal := float64(int64(1) << (frame.BitsPerSample - 1))
		frameSamples := len(frame.Subframes[0].Samples)
		for i := 0; i < frameSamples; i++ {
			// One subframe per channel, averaged for downmix
			var sum int64
			for _, subframe := range frame.Subframes {
				sum += int64(subframe.Samples[i])
			}
			sample := float64(sum) / float64(len(frame.Subframes))
			d.pending = append(d.pending, sample/maxVal)
		}
	}

	if len(d.pending) == 0 {
		return nil, io.EOF
	}

	n := min(numSamples, len(d.pending))
	samples := make([]float64, n)
	copy(samples, d.pending)
	d.pending = d.pending[n:]
	return samples, nil
}

// SampleRate returns the sample rate
func (d *FLACDecoder) SampleRate() int {
	return d.sampleRate
}

// NumSamples returns the total number of samples
func (d *FLACDecoder) NumSamples() int64 {
	return d.numSamples
}

// NumChannels returns the number of audio channels
func (d *FLACDecoder) NumChannels() int {
	return d.numChannels
}

// Close closes the decoder and releases resources
func (d *FLACDecoder) Close() error {
	if d.stream != nil {
		d.stream.Close()
	}
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
