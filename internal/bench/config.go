package bench

import "image/png"

// Default file locations, relative to the working directory.
const (
	DefaultInputPath     = "testpic2.png"
	DefaultOutputPath    = "result.png"
	DefaultTimingLogPath = "time.txt"
)

// Config controls where a benchmark run reads and writes.
type Config struct {
	InputPath      string               // Source color image.
	OutputPath     string               // Grayscale PNG written by Report.
	TimingLogPath  string               // Append-only timing log.
	PNGCompression png.CompressionLevel // Compression level of the output PNG.
}

// DefaultConfig returns the fixed paths and maximum PNG compression.
func DefaultConfig() Config {
	return Config{
		InputPath:      DefaultInputPath,
		OutputPath:     DefaultOutputPath,
		TimingLogPath:  DefaultTimingLogPath,
		PNGCompression: png.BestCompression,
	}
}
