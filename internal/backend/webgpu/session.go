//go:build windows

package webgpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/born-ml/graybench/internal/device"
	"github.com/born-ml/graybench/internal/parallel"
	"github.com/born-ml/graybench/internal/pixel"
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

// session holds the GPU buffers of one run.
type session struct {
	backend       *Backend
	width, height int
	grid          parallel.Dim3

	color, gray, hist, params *wgpu.Buffer
	colorSize, graySize       uint64

	mu       sync.Mutex
	released bool
}

// Begin uploads src and a zeroed histogram and allocates the gray buffer.
func (b *Backend) Begin(src *pixel.ColorImage) (device.Session, error) {
	if b.device == nil {
		return nil, fmt.Errorf("webgpu: begin: %w", device.ErrReleased)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("webgpu: begin: %w", err)
	}

	packed := packColor(src.Pix)
	s := &session{
		backend:   b,
		width:     src.Width,
		height:    src.Height,
		grid:      parallel.GridFor(src.Width, src.Height, Block),
		colorSize: uint64(len(packed)),
		graySize:  4 * uint64(src.Len()), //nolint:gosec // G115: validated positive
	}
	storage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst
	s.color = b.upload(packed, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	s.gray = b.alloc(s.graySize, storage)
	s.hist = b.upload(make([]byte, histogramBytes), storage)
	s.params = b.uniform(paramsBytes(src.Width, src.Height))

	b.logger.Load().Debug("webgpu: session started",
		slog.Int("width", src.Width),
		slog.Int("height", src.Height),
		slog.Int("workgroups_x", s.grid.X),
		slog.Int("workgroups_y", s.grid.Y),
	)
	return s, nil
}

func (s *session) check(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return fmt.Errorf("webgpu: %s: %w", op, device.ErrReleased)
	}
	return nil
}

func (s *session) run(name, wgsl string, in, out *wgpu.Buffer, inSize, outSize uint64) error {
	if err := s.check(name); err != nil {
		return err
	}
	return s.backend.launch(name, wgsl, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, in, 0, inSize),
		wgpu.BufferBindingEntry(1, out, 0, outSize),
		wgpu.BufferBindingEntry(2, s.params, 0, paramsSize),
	}, uint32(s.grid.X), uint32(s.grid.Y)) //nolint:gosec // G115: workgroup counts are small and positive
}

// Grayscale records the grayscale shader.
func (s *session) Grayscale() error {
	return s.run("grayscale", grayscaleShader, s.color, s.gray, s.colorSize, s.graySize)
}

// Histogram records the histogram shader over the gray buffer.
func (s *session) Histogram() error {
	return s.run("histogram", histogramShader, s.gray, s.hist, s.graySize, histogramBytes)
}

// Synchronize submits recorded work and waits for the queue to drain.
func (s *session) Synchronize() error {
	if err := s.check("synchronize"); err != nil {
		return err
	}
	s.backend.wait()
	return nil
}

// Read copies gray values and counters back to host memory.
func (s *session) Read(gray *pixel.GrayImage, hist *pixel.Histogram) error {
	if err := s.check("read"); err != nil {
		return err
	}
	if gray.Width != s.width || gray.Height != s.height || len(gray.Pix) != s.width*s.height {
		return fmt.Errorf("webgpu: read: %w: gray %dx%d, device %dx%d",
			pixel.ErrSizeMismatch, gray.Width, gray.Height, s.width, s.height)
	}

	data, err := s.backend.download(
		[]*wgpu.Buffer{s.gray, s.hist},
		[]uint64{s.graySize, histogramBytes},
	)
	if err != nil {
		return fmt.Errorf("webgpu: read: %w", err)
	}
	unpackGray(gray.Pix, data[0])
	unpackHistogram(hist, data[1])
	return nil
}

// Release waits for recorded work and frees every buffer of the session.
func (s *session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true

	b := s.backend
	b.wait()
	b.free(s.color, s.colorSize)
	b.free(s.gray, s.graySize)
	b.free(s.hist, histogramBytes)
	b.free(s.params, paramsSize)
	s.color, s.gray, s.hist, s.params = nil, nil, nil, nil

	b.logger.Load().Debug("webgpu: session released")
}
