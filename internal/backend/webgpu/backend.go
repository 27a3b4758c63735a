//go:build windows

package webgpu

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/born-ml/graybench/internal/device"
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

// Backend owns the adapter, device and queue shared by every session.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	info     *wgpu.AdapterInfoGo

	kernelsMu sync.Mutex
	kernels   map[string]*kernel

	// Recorded since the last Synchronize.
	pendingMu sync.Mutex
	pending   []*wgpu.CommandBuffer

	mem    device.MemoryTracker
	logger atomic.Pointer[slog.Logger]
}

// Compile-time check that Backend implements device.Accelerator.
var _ device.Accelerator = (*Backend)(nil)

// New opens a high-performance adapter and creates a device on it.
// Every failure wraps device.ErrUnavailable.
func New() (*Backend, error) {
	b := &Backend{kernels: make(map[string]*kernel)}
	b.logger.Store(slog.New(slog.DiscardHandler))

	var err error
	if b.instance, err = wgpu.CreateInstance(nil); err != nil {
		return nil, unavailable("create instance", err)
	}
	b.adapter, err = b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		b.Release()
		return nil, unavailable("request adapter", err)
	}
	if b.device, err = b.adapter.RequestDevice(nil); err != nil {
		b.Release()
		return nil, unavailable("request device", err)
	}
	if b.queue = b.device.GetQueue(); b.queue == nil {
		b.Release()
		return nil, unavailable("get queue", nil)
	}

	// The name is cosmetic; an adapter that cannot describe itself still computes.
	if b.info, err = b.adapter.GetInfo(); err != nil {
		b.info = &wgpu.AdapterInfoGo{}
	}
	return b, nil
}

func unavailable(step string, err error) error {
	if err == nil {
		return fmt.Errorf("webgpu: %s: %w", step, device.ErrUnavailable)
	}
	return fmt.Errorf("webgpu: %s: %w: %w", step, device.ErrUnavailable, err)
}

// IsAvailable reports whether the native library loads and an adapter exists.
func IsAvailable() bool {
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return false
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// SetLogger sets the logger used for device and session events.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.logger.Store(l)
	l.Info("webgpu: adapter selected",
		slog.String("name", b.Name()),
		slog.String("architecture", b.info.Architecture),
		slog.String("description", b.info.Description),
	)
}

// Name returns "WebGPU (<device>, <vendor>)", or just "WebGPU" when the
// adapter reports neither.
func (b *Backend) Name() string {
	switch {
	case b.info == nil || (b.info.Device == "" && b.info.Vendor == ""):
		return "WebGPU"
	case b.info.Vendor == "":
		return fmt.Sprintf("WebGPU (%s)", b.info.Device)
	default:
		return fmt.Sprintf("WebGPU (%s, %s)", b.info.Device, b.info.Vendor)
	}
}

// AdapterInfo describes the selected adapter.
func (b *Backend) AdapterInfo() *wgpu.AdapterInfoGo {
	return b.info
}

// MemoryStats reports the GPU buffers held by open sessions.
func (b *Backend) MemoryStats() device.MemoryStats {
	return b.mem.Stats()
}

// enqueue records a finished command buffer for the next submission.
func (b *Backend) enqueue(cmd *wgpu.CommandBuffer) {
	b.pendingMu.Lock()
	b.pending = append(b.pending, cmd)
	b.pendingMu.Unlock()
}

// submit hands every recorded command buffer to the queue in order.
func (b *Backend) submit() {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()

	if len(b.pending) == 0 {
		return
	}
	b.queue.Submit(b.pending...)
	for _, cmd := range b.pending {
		cmd.Release()
	}
	b.pending = b.pending[:0]
}

// wait submits recorded work and blocks until the queue is idle.
func (b *Backend) wait() {
	b.submit()
	b.device.Poll(true)
}

// Release drops cached pipelines and the device. Begin fails afterwards.
func (b *Backend) Release() {
	if b.queue != nil && b.device != nil {
		b.wait()
	}

	b.kernelsMu.Lock()
	for name, k := range b.kernels {
		k.release()
		delete(b.kernels, name)
	}
	b.kernelsMu.Unlock()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
