// Package parallel provides the goroutine execution grid used by the software accelerator.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1, // Items are whole tiles.
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize || n <= 1 {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// Dim3 is a three dimensional extent or coordinate, X varying fastest.
type Dim3 struct {
	X, Y, Z int
}

// Tile returns a two dimensional extent.
func Tile(x, y int) Dim3 {
	return Dim3{X: x, Y: y, Z: 1}
}

// Size returns the number of elements in the extent.
func (d Dim3) Size() int {
	return d.X * d.Y * max(d.Z, 1)
}

// Unflatten converts a linear index inside d to a coordinate.
func (d Dim3) Unflatten(i int) Dim3 {
	plane := d.X * d.Y
	return Dim3{X: i % d.X, Y: (i % plane) / d.X, Z: i / plane}
}

// GridFor returns the number of blocks needed to cover a width×height domain.
// Counts are rounded up, so the grid may overshoot the right and bottom edges.
func GridFor(width, height int, block Dim3) Dim3 {
	return Dim3{
		X: (width + block.X - 1) / block.X,
		Y: (height + block.Y - 1) / block.Y,
		Z: 1,
	}
}

// ThreadID identifies one work unit inside a launch.
type ThreadID struct {
	Block    Dim3 // Block coordinate inside the grid.
	Thread   Dim3 // Thread coordinate inside the block.
	BlockDim Dim3
	GridDim  Dim3
}

// GlobalX returns the column covered by the work unit.
func (t ThreadID) GlobalX() int {
	return t.Thread.X + t.Block.X*t.BlockDim.X
}

// GlobalY returns the row covered by the work unit.
func (t ThreadID) GlobalY() int {
	return t.Thread.Y + t.Block.Y*t.BlockDim.Y
}

// FlatIndex folds block and thread coordinates into one index:
// thread index within the block plus block index times block size.
// Over a whole grid it enumerates [0, grid.Size()*block.Size()) exactly once.
func (t ThreadID) FlatIndex() int {
	thread := t.Thread.X + t.Thread.Y*t.BlockDim.X
	block := t.Block.X + t.Block.Y*t.GridDim.X
	return thread + block*t.BlockDim.X*t.BlockDim.Y
}

// Launch runs kernel once for every work unit of a grid of blocks and blocks
// until all of them have returned. Blocks are spread across workers; the work
// units of one block run in order on the same goroutine.
func Launch(grid, block Dim3, kernel func(ThreadID), cfg Config) {
	blockSize := block.Size()
	For(grid.Size(), func(b int) {
		id := ThreadID{Block: grid.Unflatten(b), BlockDim: block, GridDim: grid}
		for t := 0; t < blockSize; t++ {
			id.Thread = block.Unflatten(t)
			kernel(id)
		}
	}, cfg)
}
