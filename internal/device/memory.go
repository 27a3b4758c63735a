package device

import "sync"

// MemoryStats reports the device buffers held by open sessions.
type MemoryStats struct {
	// Bytes currently allocated
	TotalAllocatedBytes uint64
	// Highest TotalAllocatedBytes seen
	PeakMemoryBytes uint64
	// Number of live buffers
	ActiveBuffers int64
}

// MemoryTracker accounts buffer allocations of an accelerator.
// The zero value is ready to use and safe for concurrent use.
type MemoryTracker struct {
	mu    sync.Mutex
	stats MemoryStats
}

// Alloc records a new buffer of size bytes.
func (m *MemoryTracker) Alloc(size uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalAllocatedBytes += size
	m.stats.ActiveBuffers++
	m.stats.PeakMemoryBytes = max(m.stats.PeakMemoryBytes, m.stats.TotalAllocatedBytes)
}

// Free records the release of a buffer of size bytes.
func (m *MemoryTracker) Free(size uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalAllocatedBytes -= min(size, m.stats.TotalAllocatedBytes)
	m.stats.ActiveBuffers--
}

// Stats returns a snapshot of the counters.
func (m *MemoryTracker) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
