// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bench runs the grayscale benchmark.
//
// A run loads a color image, converts it to 8-bit grayscale on an
// accelerator, histograms the result on the same accelerator, converts it
// again sequentially on the CPU, then appends both timings to a log and
// writes the accelerated gray image as PNG.
//
// # Basic Usage
//
//	acc, err := soft.New(soft.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer acc.Release()
//
//	h := bench.New(bench.DefaultConfig(), acc)
//	res, err := h.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.AcceleratedTime, res.ReferenceTime)
//
// # States
//
// A Harness moves through Idle, Loaded, AcceleratedDone, ReferenceDone and
// Reported, one step at a time. Calling a step out of order returns
// ErrInvalidState and leaves the harness unchanged.
package bench

import (
	"log/slog"
	"time"

	"github.com/born-ml/graybench/internal/bench"
	"github.com/born-ml/graybench/internal/device"
)

// Accelerator runs the grayscale and histogram kernels.
type Accelerator = device.Accelerator

// Harness drives one benchmark run.
type Harness = bench.Harness

// Config controls where a run reads and writes.
type Config = bench.Config

// Result holds the timings and images of a run.
type Result = bench.Result

// State is the position of a Harness in its run.
type State = bench.State

// StageError reports the failed step and file.
type StageError = bench.StageError

// Default file locations, relative to the working directory.
const (
	DefaultInputPath     = bench.DefaultInputPath
	DefaultOutputPath    = bench.DefaultOutputPath
	DefaultTimingLogPath = bench.DefaultTimingLogPath
)

// Harness states.
const (
	Idle            = bench.Idle
	Loaded          = bench.Loaded
	AcceleratedDone = bench.AcceleratedDone
	ReferenceDone   = bench.ReferenceDone
	Reported        = bench.Reported
)

// Errors returned by a run.
var (
	ErrImageLoad    = bench.ErrImageLoad
	ErrImageEncode  = bench.ErrImageEncode
	ErrInvalidState = bench.ErrInvalidState
	ErrUnavailable  = device.ErrUnavailable
)

// New creates a harness that runs on acc.
func New(cfg Config, acc Accelerator) *Harness {
	return bench.New(cfg, acc)
}

// DefaultConfig returns testpic2.png in, result.png and time.txt out,
// with maximum PNG compression.
func DefaultConfig() Config {
	return bench.DefaultConfig()
}

// SetLogger configures logging for the harness and the accelerators it
// is given. Pass nil to disable logging.
func SetLogger(l *slog.Logger) {
	bench.SetLogger(l)
}

// FormatTimingLine renders one timing log line.
func FormatTimingLine(cpuTime, acceleratedTime time.Duration) string {
	return bench.FormatTimingLine(cpuTime, acceleratedTime)
}
