package device

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryTracker(t *testing.T) {
	var m MemoryTracker
	assert.Equal(t, MemoryStats{}, m.Stats())

	m.Alloc(100)
	m.Alloc(50)
	m.Free(100)

	assert.Equal(t, MemoryStats{
		TotalAllocatedBytes: 50,
		PeakMemoryBytes:     150,
		ActiveBuffers:       1,
	}, m.Stats())
}

func TestMemoryTracker_FreeNeverUnderflows(t *testing.T) {
	var m MemoryTracker
	m.Alloc(10)
	m.Free(64)

	stats := m.Stats()
	assert.Equal(t, uint64(0), stats.TotalAllocatedBytes)
	assert.Equal(t, int64(0), stats.ActiveBuffers)
}

func TestMemoryTracker_Concurrent(t *testing.T) {
	var m MemoryTracker
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Alloc(16)
			m.Free(16)
		}()
	}
	wg.Wait()

	stats := m.Stats()
	assert.Equal(t, uint64(0), stats.TotalAllocatedBytes)
	assert.Equal(t, int64(0), stats.ActiveBuffers)
	assert.LessOrEqual(t, stats.PeakMemoryBytes, uint64(64*16))
}
