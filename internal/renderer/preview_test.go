package renderer

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/monocycle/internal/config"
	"github.com/linuxmatters/monocycle/internal/spectrogram"
)

func TestFitPreview(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"wide", 6400, 929, config.PreviewWidth, 92},
		{"tall", 100, 3600, 10, config.PreviewHeight},
		{"box aspect", 1280, 720, config.PreviewWidth, config.PreviewHeight},
		{"small is enlarged", 64, 36, config.PreviewWidth, config.PreviewHeight},
		{"extreme width", 100000, 2, config.PreviewWidth, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := fitPreview(tc.width, tc.height)
			if w != tc.wantW || h != tc.wantH {
				t.Errorf("fitPreview(%d, %d) = %dx%d, want %dx%d",
					tc.width, tc.height, w, h, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestRenderPreview(t *testing.T) {
	raster := gradientRaster(200, 50)

	img, err := RenderPreview(raster, "2048-point FFT, 20-20000 Hz")
	if err != nil {
		t.Fatalf("RenderPreview() error = %v", err)
	}

	b := img.Bounds()
	if b.Dx() != config.PreviewWidth {
		t.Errorf("width = %d, want %d", b.Dx(), config.PreviewWidth)
	}
	if b.Dy() != 160+config.PreviewCaptionHeight {
		t.Errorf("height = %d, want %d", b.Dy(), 160+config.PreviewCaptionHeight)
	}

	// Antialiased caption pixels are the caption colour scaled by coverage,
	// so red dominates green dominates blue
	found := false
	for y := 160; y < b.Dy() && !found; y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.RGBAAt(x, y)
			if c.R > 64 && c.R > c.G && c.G > c.B {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("caption strip has no caption-coloured pixels")
	}
}

func TestRenderPreview_LongCaptionShrinks(t *testing.T) {
	raster := gradientRaster(20, 200)
	caption := "a caption far too long to fit in a narrow preview at the default size"

	if _, err := RenderPreview(raster, caption); err != nil {
		t.Fatalf("RenderPreview() error = %v", err)
	}
}

func TestRenderPreview_Floats(t *testing.T) {
	raster := floatRaster(10, 10)
	raster.Floats[0] = -3 // clamped for display
	raster.Floats[99] = 7

	img, err := RenderPreview(raster, "")
	if err != nil {
		t.Fatalf("RenderPreview() error = %v", err)
	}
	if img.Bounds().Dy() != config.PreviewHeight+config.PreviewCaptionHeight {
		t.Errorf("height = %d", img.Bounds().Dy())
	}
}

func TestRenderPreview_Empty(t *testing.T) {
	if _, err := RenderPreview(&spectrogram.Raster{}, "x"); err == nil {
		t.Error("RenderPreview() accepted an empty raster")
	}
}

// TestWritePreview checks the preview is always PNG, whatever the extension.
func TestWritePreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.jpg")

	if err := WritePreview(path, gradientRaster(300, 100), "preview"); err != nil {
		t.Fatalf("WritePreview() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("preview is not PNG: %v", err)
	}
	t.Logf("✓ Generated preview: %s", path)
}

func BenchmarkRenderPreview(b *testing.B) {
	raster := gradientRaster(4096, 929)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := RenderPreview(raster, "benchmark"); err != nil {
			b.Fatal(err)
		}
	}
}
