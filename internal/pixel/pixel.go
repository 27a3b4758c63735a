// Package pixel defines the image buffers shared by every grayscale backend
// and the per-pixel luminance conversion they all use.
package pixel

import (
	"errors"
	"fmt"
	"image"
)

// Luminance weights applied to the red, green and blue channels.
const (
	WeightR float32 = 0.299
	WeightG float32 = 0.587
	WeightB float32 = 0.114
)

// Bins is the number of histogram counters, one per byte value.
const Bins = 256

var (
	// ErrEmptyImage is returned for images with a zero dimension.
	ErrEmptyImage = errors.New("pixel: image has zero width or height")
	// ErrSizeMismatch is returned when two buffers do not describe the same image.
	ErrSizeMismatch = errors.New("pixel: image size mismatch")
)

// Luma converts one blue-green-red pixel to a gray byte.
//
// The weighted sum is evaluated in float32, red term first, and truncated
// toward zero. Every product and partial sum is converted explicitly so the
// compiler cannot fuse them into an FMA and change the low bits.
func Luma(b, g, r byte) byte {
	sum := float32(WeightR * float32(r))
	sum = float32(sum + float32(WeightG*float32(g)))
	sum = float32(sum + float32(WeightB*float32(b)))
	return byte(sum)
}

// ColorImage is a row-major image with three bytes per pixel in
// blue, green, red order.
type ColorImage struct {
	Width  int
	Height int
	Pix    []byte
}

// NewColorImage allocates a zeroed color image.
func NewColorImage(width, height int) (*ColorImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	return &ColorImage{Width: width, Height: height, Pix: make([]byte, 3*width*height)}, nil
}

// FromNRGBA copies the color channels of src, dropping alpha.
func FromNRGBA(src *image.NRGBA) (*ColorImage, error) {
	bounds := src.Bounds()
	dst, err := NewColorImage(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < dst.Height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+4*dst.Width]
		out := dst.Pix[3*y*dst.Width : 3*(y+1)*dst.Width]
		for x := 0; x < dst.Width; x++ {
			out[3*x] = row[4*x+2]
			out[3*x+1] = row[4*x+1]
			out[3*x+2] = row[4*x]
		}
	}
	return dst, nil
}

// Len returns the number of pixels.
func (c *ColorImage) Len() int {
	return c.Width * c.Height
}

// At returns the blue, green and red bytes at (x, y).
func (c *ColorImage) At(x, y int) (b, g, r byte) {
	i := 3 * (y*c.Width + x)
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2]
}

// Set stores a blue, green, red pixel at (x, y).
func (c *ColorImage) Set(x, y int, b, g, r byte) {
	i := 3 * (y*c.Width + x)
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = b, g, r
}

// Validate checks that the buffer length matches the dimensions.
func (c *ColorImage) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, c.Width, c.Height)
	}
	if len(c.Pix) != 3*c.Width*c.Height {
		return fmt.Errorf("%w: %dx%d color image has %d bytes", ErrSizeMismatch, c.Width, c.Height, len(c.Pix))
	}
	return nil
}

// GrayImage is a row-major image with one byte per pixel.
type GrayImage struct {
	Width  int
	Height int
	Pix    []byte
}

// NewGrayImage allocates a zero-filled gray image.
func NewGrayImage(width, height int) (*GrayImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	return &GrayImage{Width: width, Height: height, Pix: make([]byte, width*height)}, nil
}

// NewGrayFor allocates a gray image with the dimensions of src.
func NewGrayFor(src *ColorImage) (*GrayImage, error) {
	return NewGrayImage(src.Width, src.Height)
}

// Len returns the number of pixels.
func (g *GrayImage) Len() int {
	return g.Width * g.Height
}

// Matches reports an error unless g can hold the conversion of src.
func (g *GrayImage) Matches(src *ColorImage) error {
	if g.Width != src.Width || g.Height != src.Height || len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: gray %dx%d (%d bytes), color %dx%d",
			ErrSizeMismatch, g.Width, g.Height, len(g.Pix), src.Width, src.Height)
	}
	return nil
}

// Image wraps the buffer as an *image.Gray without copying.
func (g *GrayImage) Image() *image.Gray {
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
}

// Histogram counts the occurrences of each gray value.
type Histogram [Bins]uint32

// Sum returns the total of all counters.
func (h *Histogram) Sum() uint64 {
	var total uint64
	for _, c := range h {
		total += uint64(c)
	}
	return total
}

// NonZero returns the number of counters greater than zero.
func (h *Histogram) NonZero() int {
	n := 0
	for _, c := range h {
		if c != 0 {
			n++
		}
	}
	return n
}

// Reset zeroes every counter.
func (h *Histogram) Reset() {
	*h = Histogram{}
}
