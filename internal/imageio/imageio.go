// Package imageio decodes source images into pixel buffers, encodes gray
// results as PNG and appends lines to text logs.
package imageio

import (
	"errors"
	"fmt"
	"image/png"
	"os"

	"github.com/born-ml/graybench/internal/pixel"
	"github.com/disintegration/imaging"

	// Register the WebP decoder; imaging covers PNG, JPEG, GIF, BMP and TIFF.
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path into a blue-green-red buffer.
// Alpha is dropped without blending.
func Load(path string) (*pixel.ColorImage, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	color, err := pixel.FromNRGBA(imaging.Clone(img))
	if err != nil {
		return nil, fmt.Errorf("imageio: %s: %w", path, err)
	}
	return color, nil
}

// SavePNG encodes gray as PNG at path using the given compression level.
func SavePNG(path string, gray *pixel.GrayImage, level png.CompressionLevel) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("imageio: close %s: %w", path, cerr)
		}
	}()

	if err := imaging.Encode(f, gray.Image(), imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return nil
}

// AppendLine appends line to the file at path, creating it if needed.
func AppendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("imageio: open %s: %w", path, err)
	}
	_, werr := f.WriteString(line)
	return errors.Join(wrap("write", path, werr), wrap("close", path, f.Close()))
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("imageio: %s %s: %w", op, path, err)
}
