//go:build windows

package main

import (
	"github.com/born-ml/graybench/backend/webgpu"
	"github.com/born-ml/graybench/bench"
)

// newAccelerator opens the GPU adapter. It does not fall back to the
// software backend.
func newAccelerator() (bench.Accelerator, error) {
	acc, err := webgpu.New()
	if err != nil {
		return nil, err
	}
	return acc, nil
}
