//go:build !windows

package main

import (
	"github.com/born-ml/graybench/backend/soft"
	"github.com/born-ml/graybench/bench"
)

func newAccelerator() (bench.Accelerator, error) {
	acc, err := soft.New(soft.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return acc, nil
}
