// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the sequential reference grayscale conversion.
//
// # Overview
//
// The backend walks the image row by row on the calling goroutine:
//   - Pure Go, no CGO
//   - Same float32 luma weights as every accelerator
//   - Writes into a caller-owned buffer
//
// Its output is what accelerated results are checked against, and its
// wall time is the "cpu" figure of the timing log.
//
// # Thread Safety
//
// The backend holds no state. Concurrent calls are safe as long as they
// write to different destination images.
package cpu
