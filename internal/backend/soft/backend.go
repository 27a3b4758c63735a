// Package soft implements a software accelerator: kernels are launched over a
// grid of tiles that a pool of goroutines executes, with device memory and an
// in-order command stream modeled explicitly.
package soft

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/born-ml/graybench/internal/device"
	"github.com/born-ml/graybench/internal/parallel"
	"github.com/born-ml/graybench/internal/pixel"
	"golang.org/x/sys/cpu"
)

// cacheLine is the line size of the host CPU in bytes.
const cacheLine = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// tileUnits is the number of work units in a default tile.
const tileUnits = 1024

// DefaultBlock is the tile of work units scheduled together. A tile row of
// gray output is one cache line long (64x16 on amd64, 128x8 on arm64), so
// goroutines working side by side write whole lines.
var DefaultBlock = parallel.Tile(cacheLine, tileUnits/cacheLine)

// Config controls the software accelerator.
type Config struct {
	Parallel parallel.Config
	Block    parallel.Dim3
}

// DefaultConfig returns one worker per CPU and DefaultBlock tiles.
func DefaultConfig() Config {
	return Config{
		Parallel: parallel.DefaultConfig(),
		Block:    DefaultBlock,
	}
}

// Backend is the software accelerator context.
type Backend struct {
	cfg      Config
	logger   atomic.Pointer[slog.Logger]
	released atomic.Bool

	mem device.MemoryTracker
}

// Compile-time check that Backend implements device.Accelerator.
var _ device.Accelerator = (*Backend)(nil)

// New creates a software accelerator.
func New(cfg Config) (*Backend, error) {
	if cfg.Block.X <= 0 || cfg.Block.Y <= 0 {
		return nil, fmt.Errorf("soft: invalid block %dx%d", cfg.Block.X, cfg.Block.Y)
	}
	if cfg.Parallel.NumWorkers <= 0 {
		cfg.Parallel.NumWorkers = 1
		cfg.Parallel.Enabled = false
	}
	b := &Backend{cfg: cfg}
	b.logger.Store(slog.New(slog.DiscardHandler))
	return b, nil
}

// SetLogger sets the logger used for session lifecycle events.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.logger.Store(l)
}

// Name returns the backend name.
func (b *Backend) Name() string {
	name := fmt.Sprintf("Software (%d workers", b.cfg.Parallel.NumWorkers)
	if f := cpuFeatures(); f != "" {
		name += ", " + f
	}
	return name + ")"
}

// Block returns the tile size used by kernel launches.
func (b *Backend) Block() parallel.Dim3 {
	return b.cfg.Block
}

// Begin allocates device buffers for src and uploads it.
func (b *Backend) Begin(src *pixel.ColorImage) (device.Session, error) {
	if b.released.Load() {
		return nil, fmt.Errorf("soft: begin: %w", device.ErrReleased)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("soft: begin: %w", err)
	}

	n := src.Len()
	s := &session{
		backend: b,
		width:   src.Width,
		height:  src.Height,
		block:   b.cfg.Block,
		grid:    parallel.GridFor(src.Width, src.Height, b.cfg.Block),
		color:   b.alloc(3 * n),
		gray:    b.alloc(n),
		hist:    make([]uint32, pixel.Bins),
		stream:  newStream(),
	}
	b.mem.Alloc(4 * pixel.Bins)

	copy(s.color, src.Pix)

	b.logger.Load().Debug("soft: session started",
		slog.Int("width", src.Width),
		slog.Int("height", src.Height),
		slog.Int("grid_x", s.grid.X),
		slog.Int("grid_y", s.grid.Y),
	)
	return s, nil
}

// Release releases the accelerator. Begin fails afterwards.
func (b *Backend) Release() {
	b.released.Store(true)
}

// MemoryStats reports the device buffers held by open sessions.
func (b *Backend) MemoryStats() device.MemoryStats {
	return b.mem.Stats()
}

// alloc returns a zeroed device buffer of size bytes.
func (b *Backend) alloc(size int) []byte {
	b.mem.Alloc(uint64(size)) //nolint:gosec // G115: size is non-negative
	return make([]byte, size)
}

// cpuFeatures names the widest SIMD extension the host reports.
func cpuFeatures() string {
	var f []string
	switch {
	case cpu.X86.HasAVX512F:
		f = append(f, "avx512")
	case cpu.X86.HasAVX2:
		f = append(f, "avx2")
	case cpu.X86.HasSSE41:
		f = append(f, "sse4.1")
	}
	if cpu.ARM64.HasASIMD {
		f = append(f, "neon")
	}
	if cpu.ARM64.HasSVE {
		f = append(f, "sve")
	}
	return strings.Join(f, ",")
}
