package renderer

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/linuxmatters/monocycle/internal/config"
	"github.com/linuxmatters/monocycle/internal/spectrogram"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var captionFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// getCaptionColor returns the brand yellow used for preview captions
func getCaptionColor() color.RGBA {
	return color.RGBA{R: config.TextColorR, G: config.TextColorG, B: config.TextColorB, A: 255}
}

// WritePreview renders a thumbnail of r with caption underneath and saves
// it as PNG, whatever the extension of path.
func WritePreview(path string, r *spectrogram.Raster, caption string) error {
	img, err := RenderPreview(r, caption)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return encode(w, img, FormatPNG)
	})
}

// RenderPreview scales r to fit config.PreviewWidth x config.PreviewHeight,
// keeping its aspect ratio, and adds a caption strip below it.
func RenderPreview(r *spectrogram.Raster, caption string) (*image.RGBA, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("cannot preview a %dx%d raster", r.Width, r.Height)
	}

	w, h := fitPreview(r.Width, r.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h+config.PreviewCaptionHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	src := previewSource(r)
	draw.BiLinear.Scale(img, image.Rect(0, 0, w, h), src, src.Bounds(), draw.Src, nil)

	if caption != "" {
		if err := drawCaption(img, caption, h); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// fitPreview returns the largest size with the raster's aspect ratio that
// fits the preview box. Neither side drops below one pixel.
func fitPreview(width, height int) (int, int) {
	scale := min(
		float64(config.PreviewWidth)/float64(width),
		float64(config.PreviewHeight)/float64(height),
	)
	w := max(1, int(float64(width)*scale))
	h := max(1, int(float64(height)*scale))
	return w, h
}

// previewSource returns an 8-bit view of r. Float rasters are clamped to
// [0, 1] for display only.
func previewSource(r *spectrogram.Raster) image.Image {
	if r.Gray != nil {
		return r.Gray
	}

	gray := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for i, v := range r.Floats {
		v = min(max(v, 0), 1)
		gray.Pix[i] = uint8(v * 255)
	}
	return gray
}

// drawCaption writes caption into the strip below the spectrogram, at the
// largest size up to config.PreviewFontSize that fits the width.
func drawCaption(img *image.RGBA, caption string, top int) error {
	parsed, err := captionFont()
	if err != nil {
		return fmt.Errorf("failed to parse caption font: %w", err)
	}

	maxWidth := img.Bounds().Dx() - 2*config.PreviewMargin
	face := truetype.NewFace(parsed, &truetype.Options{Size: config.PreviewFontSize, DPI: 72})
	for size := config.PreviewFontSize; size > config.PreviewMinFontSize; size-- {
		width, _ := measureText(face, caption)
		if width <= maxWidth {
			break
		}
		face.Close()
		face = truetype.NewFace(parsed, &truetype.Options{Size: size - 1, DPI: 72})
	}
	defer face.Close()

	// Centre the text vertically in the strip
	_, bounds := measureText(face, caption)
	height := (bounds.Max.Y - bounds.Min.Y).Ceil()
	baseline := top + (config.PreviewCaptionHeight-height)/2 - bounds.Min.Y.Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(getCaptionColor()),
		Face: face,
		Dot:  freetype.Pt(config.PreviewMargin, baseline),
	}
	d.DrawString(caption)
	return nil
}

// measureText returns the width and bounds of rendered text. bounds.Min.Y
// is negative (ascent), bounds.Max.Y positive (descent).
func measureText(face font.Face, text string) (int, fixed.Rectangle26_6) {
	d := &font.Drawer{Face: face}
	bounds, _ := d.BoundString(text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	return width, bounds
}
