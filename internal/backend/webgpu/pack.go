package webgpu

import (
	"encoding/binary"

	"github.com/born-ml/graybench/internal/parallel"
	"github.com/born-ml/graybench/internal/pixel"
)

// Block is the tile of invocations each workgroup covers.
var Block = parallel.Tile(workgroupDim, workgroupDim)

const (
	// histogramBytes is the size of the device histogram: one u32 per bin.
	histogramBytes = 4 * pixel.Bins
	// paramsSize is the Params uniform: width, height, count and padding.
	paramsSize = 16
)

// packColor returns pix zero-padded to a whole number of u32 words,
// since storage buffer sizes must be multiples of 4.
func packColor(pix []byte) []byte {
	size := (len(pix) + 3) &^ 3
	if size == len(pix) {
		return pix
	}
	out := make([]byte, size)
	copy(out, pix)
	return out
}

// paramsBytes encodes the Params uniform shared by both shaders.
func paramsBytes(width, height int) []byte {
	params := make([]byte, paramsSize)
	putUint32LE(params[0:4], uint32(width))         //nolint:gosec // G115: dimensions are validated positive
	putUint32LE(params[4:8], uint32(height))        //nolint:gosec // G115: dimensions are validated positive
	putUint32LE(params[8:12], uint32(width*height)) //nolint:gosec // G115: dimensions are validated positive
	return params
}

// unpackGray narrows one little-endian u32 per pixel into dst.
func unpackGray(dst, words []byte) {
	for i := range dst {
		dst[i] = byte(binary.LittleEndian.Uint32(words[4*i:]))
	}
}

// unpackHistogram decodes 256 little-endian u32 counters.
func unpackHistogram(h *pixel.Histogram, data []byte) {
	for i := range h {
		h[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
}

func putUint32LE(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}
