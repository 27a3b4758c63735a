package soft

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/born-ml/graybench/internal/device"
	"github.com/born-ml/graybench/internal/parallel"
	"github.com/born-ml/graybench/internal/pixel"
)

// session holds the device-resident buffers of one run.
type session struct {
	backend       *Backend
	width, height int
	grid, block   parallel.Dim3

	color []byte
	gray  []byte
	hist  []uint32

	stream   *stream
	mu       sync.Mutex
	released bool
}

func (s *session) enqueue(name string, launch func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return fmt.Errorf("soft: %s: %w", name, device.ErrReleased)
	}
	s.stream.submit(launch)
	return nil
}

// Grayscale enqueues the grayscale kernel.
func (s *session) Grayscale() error {
	color, gray, w, h := s.color, s.gray, s.width, s.height
	block, cfg := s.block, s.backend.cfg.Parallel
	return s.enqueue("grayscale", func() {
		launchGrayscale(color, gray, w, h, block, cfg)
	})
}

// Histogram enqueues the histogram kernel. It reads the gray buffer, so it
// must be enqueued after Grayscale; the stream keeps that order.
func (s *session) Histogram() error {
	gray, hist, w, h := s.gray, s.hist, s.width, s.height
	block, cfg := s.block, s.backend.cfg.Parallel
	return s.enqueue("histogram", func() {
		launchHistogram(gray, hist, w, h, block, cfg)
	})
}

// Synchronize waits until the stream is empty.
func (s *session) Synchronize() error {
	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if released {
		return fmt.Errorf("soft: synchronize: %w", device.ErrReleased)
	}
	s.stream.wait()
	return nil
}

// Read waits for pending kernels and copies results to host memory.
func (s *session) Read(gray *pixel.GrayImage, hist *pixel.Histogram) error {
	if err := s.Synchronize(); err != nil {
		return err
	}
	if gray.Width != s.width || gray.Height != s.height || len(gray.Pix) != len(s.gray) {
		return fmt.Errorf("soft: read: %w: gray %dx%d, device %dx%d",
			pixel.ErrSizeMismatch, gray.Width, gray.Height, s.width, s.height)
	}
	copy(gray.Pix, s.gray)
	for i := range hist {
		hist[i] = atomic.LoadUint32(&s.hist[i])
	}
	return nil
}

// Release drains in-flight kernels and frees the device buffers.
func (s *session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.stream.close()

	b := s.backend
	b.mem.Free(uint64(len(s.color)))
	b.mem.Free(uint64(len(s.gray)))
	b.mem.Free(4 * pixel.Bins)
	s.color, s.gray, s.hist = nil, nil, nil

	b.logger.Load().Debug("soft: session released")
}
