// Package device defines the accelerator contract the benchmark harness
// drives: an explicitly created context that hands out one session per run.
package device

import (
	"errors"

	"github.com/born-ml/graybench/internal/pixel"
)

var (
	// ErrUnavailable is returned when an accelerator cannot be initialized.
	ErrUnavailable = errors.New("device: accelerator not available")
	// ErrReleased is returned when a released session or accelerator is used.
	ErrReleased = errors.New("device: use after release")
)

// Accelerator is a process-wide compute context (adapter, device, queue).
// It is created once, passed to whoever needs it and torn down with Release.
type Accelerator interface {
	// Name returns a human readable description of the device.
	Name() string

	// Begin allocates device-resident copies of the color image, a gray
	// output buffer and a zeroed histogram, and transfers src and the
	// histogram to the device.
	Begin(src *pixel.ColorImage) (Session, error)

	// Release tears the context down. Sessions must be released first.
	Release()
}

// Session owns the device buffers of one benchmark run.
//
// Grayscale and Histogram only enqueue work; nothing they produce may be
// observed before Synchronize returns. Read synchronizes on its own.
type Session interface {
	// Grayscale enqueues the grayscale kernel over the whole image.
	Grayscale() error

	// Histogram enqueues the histogram kernel over the gray buffer.
	Histogram() error

	// Synchronize blocks until every enqueued kernel has completed.
	Synchronize() error

	// Read copies the gray buffer and histogram back to host memory.
	Read(gray *pixel.GrayImage, hist *pixel.Histogram) error

	// Release frees every device buffer. It is safe to call more than once.
	Release()
}
