// Command graybench converts testpic2.png to grayscale on an accelerator and
// on the CPU, histograms the accelerated result, and writes result.png.
//
// Each run appends one line with both timings to time.txt. The command takes
// no flags and works relative to the current directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/born-ml/graybench/bench"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

// run performs one benchmark in the working directory and returns the exit status.
func run(stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	bench.SetLogger(logger)

	acc, err := newAccelerator()
	if err != nil {
		logger.Error("accelerator unavailable", slog.Any("err", err))
		return 1
	}
	defer acc.Release()
	logger.Info("accelerator selected", slog.String("name", acc.Name()))

	h := bench.New(bench.DefaultConfig(), acc)
	res, err := h.Run(context.Background())
	if res != nil {
		if res.Gray != nil {
			fmt.Fprintf(stdout, "cuda exec time is %.20f\n", res.AcceleratedTime.Seconds())
		}
		if res.Reference != nil {
			fmt.Fprintf(stdout, "cpu exec time is %.20f\n", res.ReferenceTime.Seconds())
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, bench.ErrImageEncode):
		fmt.Fprintf(stderr, "error converting image to PNG: %v\n", err)
		return 1
	default:
		logger.Error("benchmark failed", slog.String("state", h.State().String()), slog.Any("err", err))
		return 1
	}
}
