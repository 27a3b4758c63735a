// Package cpu implements the sequential reference kernels: a plain row-then-column
// grayscale conversion used as the timing baseline, and a histogram used as a
// correctness oracle for the accelerated kernels.
package cpu

import (
	"fmt"

	"github.com/born-ml/graybench/internal/pixel"
)

// CPUBackend runs every kernel on the calling goroutine.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Grayscale converts src into dst, visiting rows then columns.
// dst must have the dimensions of src.
func (cpu *CPUBackend) Grayscale(dst *pixel.GrayImage, src *pixel.ColorImage) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("cpu: grayscale: %w", err)
	}
	if err := dst.Matches(src); err != nil {
		return fmt.Errorf("cpu: grayscale: %w", err)
	}

	width := src.Width
	in, out := src.Pix, dst.Pix
	for y := 0; y < src.Height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			out[i] = pixel.Luma(in[3*i], in[3*i+1], in[3*i+2])
		}
	}
	return nil
}

// Histogram counts the gray values of src.
func (cpu *CPUBackend) Histogram(src *pixel.GrayImage) pixel.Histogram {
	var h pixel.Histogram
	for _, v := range src.Pix {
		h[v]++
	}
	return h
}
