// Package export writes pipeline results to disk.
package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Image formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatTGA  = "tga"
)

// DefaultJPEGQuality is used when ImageOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 90

// ImageOptions controls how texture maps are encoded.
type ImageOptions struct {
	Format string
	// Width and Height resize the output when non-zero. Setting only one
	// keeps the aspect ratio.
	Width       int
	Height      int
	JPEGQuality int
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	case FormatTGA:
		return ".tga"
	default:
		return ".png"
	}
}

// Resize scales src to width×height with Catmull-Rom filtering. A zero
// dimension is derived from the other one; src is returned unchanged when
// both are zero or the size already matches.
func Resize(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	if (width <= 0 && height <= 0) || b.Empty() {
		return src
	}
	if width <= 0 {
		width = max(1, int(math.Round(float64(b.Dx()*height)/float64(b.Dy()))))
	}
	if height <= 0 {
		height = max(1, int(math.Round(float64(b.Dy()*width)/float64(b.Dx()))))
	}
	if width == b.Dx() && height == b.Dy() {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// EncodeImage resizes and encodes img to w.
func EncodeImage(w io.Writer, img image.Image, opts ImageOptions) error {
	img = Resize(img, opts.Width, opts.Height)

	switch opts.Format {
	case FormatJPEG:
		q := opts.JPEGQuality
		if q == 0 {
			q = DefaultJPEGQuality
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: q}); err != nil {
			return fmt.Errorf("encoding JPEG: %w", err)
		}
	case FormatTGA:
		if err := EncodeTGA(w, img); err != nil {
			return fmt.Errorf("encoding TGA: %w", err)
		}
	case FormatPNG, "":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	default:
		return fmt.Errorf("unsupported image format %q", opts.Format)
	}
	return nil
}

// WriteImage writes img to dir/name plus the format extension and returns
// the full path.
func WriteImage(dir, name string, img image.Image, opts ImageOptions) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	filename := filepath.Join(dir, name+Extension(opts.Format))

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if err := EncodeImage(file, img, opts); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", filename, err)
	}
	return filename, nil
}
