package soft

import (
	"sync/atomic"

	"github.com/born-ml/graybench/internal/parallel"
	"github.com/born-ml/graybench/internal/pixel"
)

// grayscaleKernel converts the pixel under one work unit. Work units that
// fall outside the image, in tiles overhanging the right or bottom edge,
// return without touching memory.
func grayscaleKernel(color, gray []byte, width, height int) func(parallel.ThreadID) {
	return func(id parallel.ThreadID) {
		x, y := id.GlobalX(), id.GlobalY()
		if x >= width || y >= height {
			return
		}
		i := y*width + x
		gray[i] = pixel.Luma(color[3*i], color[3*i+1], color[3*i+2])
	}
}

// histogramKernel counts the gray value under one work unit.
// Many work units hit the same bin, so the increment must be atomic.
func histogramKernel(gray []byte, hist []uint32) func(parallel.ThreadID) {
	n := len(gray)
	return func(id parallel.ThreadID) {
		i := id.FlatIndex()
		if i >= n {
			return
		}
		atomic.AddUint32(&hist[gray[i]], 1)
	}
}

// launchGrayscale runs the grayscale kernel over a width×height image and
// returns when every tile is done.
func launchGrayscale(color, gray []byte, width, height int, block parallel.Dim3, cfg parallel.Config) {
	grid := parallel.GridFor(width, height, block)
	parallel.Launch(grid, block, grayscaleKernel(color, gray, width, height), cfg)
}

// launchHistogram adds the gray values of a width×height image into hist
// over the same grid the grayscale kernel uses.
func launchHistogram(gray []byte, hist []uint32, width, height int, block parallel.Dim3, cfg parallel.Config) {
	grid := parallel.GridFor(width, height, block)
	parallel.Launch(grid, block, histogramKernel(gray, hist), cfg)
}
