package renderer

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/monocycle/internal/spectrogram"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrRasterKind means a float raster was passed where pixels were expected, or vice versa
var ErrRasterKind = errors.New("wrong raster kind")

// Format is an 8-bit image container.
type Format int

const (
	FormatPNG Format = iota
	FormatTIFF
	FormatBMP
)

// FormatFromPath picks the container from the file extension. Anything
// other than a TIFF or BMP extension, including none, is written as PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		return FormatTIFF
	case ".bmp":
		return FormatBMP
	default:
		return FormatPNG
	}
}

// WriteImage encodes an 8-bit raster to path as a single-channel image.
func WriteImage(path string, r *spectrogram.Raster) error {
	if r.Gray == nil {
		return fmt.Errorf("%w: raster holds floats, not pixels", ErrRasterKind)
	}
	format := FormatFromPath(path)
	return writeFile(path, func(w io.Writer) error {
		return encode(w, r.Gray, format)
	})
}

func encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// WriteFloats dumps a float raster as headerless native-endian float32
// values, row after row, top row first.
func WriteFloats(path string, r *spectrogram.Raster) error {
	if r.Floats == nil {
		return fmt.Errorf("%w: raster holds pixels, not floats", ErrRasterKind)
	}

	return writeFile(path, func(w io.Writer) error {
		return binary.Write(w, binary.NativeEndian, r.Floats)
	})
}

// Write stores r at path in whichever form it holds.
func Write(path string, r *spectrogram.Raster) error {
	if r.IsFloat() {
		return WriteFloats(path, r)
	}
	return WriteImage(path, r)
}

// writeFile creates path, buffers fn's output and reports the first failure
// among encoding, flushing and closing.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
