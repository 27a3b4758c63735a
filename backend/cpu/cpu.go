// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/graybench/internal/backend/cpu"
)

// Backend is the sequential reference converter.
type Backend = internalcpu.CPUBackend

// New creates a new CPU backend.
//
// Example:
//
//	ref := cpu.New()
//	gray, _ := pixel.NewGrayFor(src)
//	if err := ref.Grayscale(gray, src); err != nil {
//	    log.Fatal(err)
//	}
func New() *Backend {
	return internalcpu.New()
}
