package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// AudioDecoder defines the interface for all audio format decoders
type AudioDecoder interface {
	// ReadChunk reads up to numSamples mono samples as float64
	// Returns io.EOF once no samples remain
	ReadChunk(numSamples int) ([]float64, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumSamples returns the total number of mono samples in the file
	// Returns 0 if the length is unknown
	NumSamples() int64

	// NumChannels returns the number of channels in the source (1=mono, 2=stereo)
	NumChannels() int

	// Close closes the decoder and releases resources
	Close() error
}

// SampleSource is a blocking stream of mono samples.
//
// ReadSamples fills dst completely unless the stream ends first; in that
// case it returns the short count together with io.EOF. A read that exactly
// drains the stream returns a full count and a nil error, and the next read
// reports io.EOF with zero samples. Any other error is a read failure.
type SampleSource interface {
	ReadSamples(dst []float64) (int, error)
}

// NewDecoder opens filename with the decoder matching its extension.
func NewDecoder(filename string) (AudioDecoder, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav", ".wave":
		return NewWAVDecoder(filename)
	case ".flac":
		return NewFLACDecoder(filename)
	case ".mp3":
		return NewMP3Decoder(filename)
	default:
		return nil, fmt.Errorf("unsupported audio format %q (want .wav, .flac or .mp3)", filepath.Ext(filename))
	}
}

// DecoderSource adapts an AudioDecoder to SampleSource, stitching decoder
// chunks together so every read is full until the file runs out.
type DecoderSource struct {
	decoder AudioDecoder
	pending []float64
	eof     bool
	read    int64
}

// NewDecoderSource wraps decoder. The caller still owns and closes it.
func NewDecoderSource(decoder AudioDecoder) *DecoderSource {
	return &DecoderSource{decoder: decoder}
}

// ReadSamples implements SampleSource.
func (s *DecoderSource) ReadSamples(dst []float64) (int, error) {
	filled := copy(dst, s.pending)
	s.pending = s.pending[filled:]

	// Keep reading until we get the requested number of samples or EOF
	for filled < len(dst) && !s.eof {
		chunk, err := s.decoder.ReadChunk(len(dst) - filled)
		if err != nil {
			if err == io.EOF {
				s.eof = true
				break
			}
			s.read += int64(filled)
			return filled, fmt.Errorf("error reading audio: %w", err)
		}
		n := copy(dst[filled:], chunk)
		filled += n
		if n < len(chunk) {
			s.pending = append(s.pending, chunk[n:]...)
		}
	}

	s.read += int64(filled)
	if filled < len(dst) {
		return filled, io.EOF
	}
	return filled, nil
}

// SamplesRead returns the number of samples delivered so far.
func (s *DecoderSource) SamplesRead() int64 {
	return s.read
}
