// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package soft provides an accelerator that runs the tiled kernels on a
// goroutine grid.
//
// It is the accelerator used where no GPU backend is built, and it follows
// the same launch geometry a GPU would: the image is split into fixed
// tiles, each tile runs as one block, and a stream orders
// submissions so that Synchronize acts as the device barrier.
//
// Example:
//
//	acc, err := soft.New(soft.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer acc.Release()
//
//	h := bench.New(bench.DefaultConfig(), acc)
package soft

import (
	"github.com/born-ml/graybench/internal/backend/soft"
	"github.com/born-ml/graybench/internal/device"
)

// Backend is the goroutine-grid accelerator.
type Backend = soft.Backend

// Config controls the worker pool and tile shape.
type Config = soft.Config

// MemoryStats reports buffers held by open sessions.
type MemoryStats = device.MemoryStats

// DefaultConfig returns cache-line-wide tiles on all available cores.
func DefaultConfig() Config {
	return soft.DefaultConfig()
}

// New creates a software accelerator.
//
// Returns an error if the configured tile has a zero dimension.
func New(cfg Config) (*Backend, error) {
	return soft.New(cfg)
}
