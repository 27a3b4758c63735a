//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU accelerator for the grayscale benchmark.
//
// Both kernels are WGSL compute shaders dispatched over 16x16 workgroups.
// The device is created once; each benchmark run opens its own session with
// freshly allocated buffers.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	h := bench.New(bench.DefaultConfig(), gpu)
//	res, err := h.Run(ctx)
package webgpu

import (
	internalwebgpu "github.com/born-ml/graybench/internal/backend/webgpu"
	"github.com/born-ml/graybench/internal/device"
)

// Backend represents the WebGPU accelerator.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements device.Accelerator.
var _ device.Accelerator = (*Backend)(nil)

// New creates a new WebGPU accelerator.
//
// Call Release() when done to free GPU resources. Returns an error
// wrapping device.ErrUnavailable if no compatible adapter is found.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
