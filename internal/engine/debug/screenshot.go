// Package debug saves frame captures and height previews as PNG files.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/mod1/pkg/heightfield"
)

// Screenshot writes timestamped PNG captures into a directory.
type Screenshot struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewScreenshot creates a capture handler. An empty dir writes to the
// working directory.
func NewScreenshot(dir, prefix string) *Screenshot {
	return &Screenshot{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture will be written to.
func (s *Screenshot) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.now().Format("2006-01-02_15-04-05.000"))
	return filepath.Join(s.dir, name)
}

// SavePixels writes bottom-up RGBA rows, as read back from OpenGL.
func (s *Screenshot) SavePixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := range height {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return s.SaveImage(img)
}

// SaveImage writes img under a fresh timestamped name.
func (s *Screenshot) SaveImage(img image.Image) (string, error) {
	filename := s.Filename()
	if err := WritePNG(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return f.Close()
}

// HeightImage renders a height grid as grayscale, one pixel per lattice
// point, with z growing downwards.
func HeightImage(g *heightfield.Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Size, g.Size))
	for z := range g.Size {
		for x := range g.Size {
			h := min(max(g.At(x, z), 0), 1)
			img.SetGray(x, z, color.Gray{Y: uint8(h*255 + 0.5)})
		}
	}
	return img
}
