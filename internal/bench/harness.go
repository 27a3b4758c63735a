// Package bench drives one benchmark run: load a color image, convert it on
// an accelerator and on the CPU, histogram the accelerated result, and write
// the timings and the gray image to disk.
package bench

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/graybench/internal/backend/cpu"
	"github.com/born-ml/graybench/internal/device"
	"github.com/born-ml/graybench/internal/imageio"
	"github.com/born-ml/graybench/internal/pixel"
)

// State is the position of a Harness in its run.
type State int

// States, in the only order a run can visit them.
const (
	Idle State = iota
	Loaded
	AcceleratedDone
	ReferenceDone
	Reported
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case AcceleratedDone:
		return "accelerated-done"
	case ReferenceDone:
		return "reference-done"
	case Reported:
		return "reported"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result holds everything a run measured and produced.
type Result struct {
	Accelerator string
	Width       int
	Height      int

	// AcceleratedTime covers the grayscale kernel up to its barrier.
	// The histogram kernel is not timed.
	AcceleratedTime time.Duration
	// ReferenceTime covers the sequential grayscale conversion.
	ReferenceTime time.Duration

	// Gray is the accelerated output; it is what Report encodes.
	Gray *pixel.GrayImage
	// Reference is the sequential output, kept in its own buffer.
	Reference *pixel.GrayImage
	Histogram pixel.Histogram
}

// Match reports whether both grayscale outputs are byte-identical.
func (r *Result) Match() bool {
	return r.Gray != nil && r.Reference != nil && bytes.Equal(r.Gray.Pix, r.Reference.Pix)
}

// Harness runs the benchmark. It owns every host buffer of the run; device
// buffers live in a device.Session scoped to RunAccelerated.
// A Harness is single use and not safe for concurrent use.
type Harness struct {
	cfg    Config
	acc    device.Accelerator
	ref    *cpu.CPUBackend
	logger *slog.Logger

	state  State
	color  *pixel.ColorImage
	result Result
}

// New creates a harness that runs on acc. acc stays owned by the caller.
func New(cfg Config, acc device.Accelerator) *Harness {
	logger := Logger()
	propagateLogger(acc, logger)
	return &Harness{
		cfg:    cfg,
		acc:    acc,
		ref:    cpu.New(),
		logger: logger,
		result: Result{Accelerator: acc.Name()},
	}
}

// State returns the current state.
func (h *Harness) State() State {
	return h.state
}

// Result returns what has been measured so far.
func (h *Harness) Result() *Result {
	return &h.result
}

func (h *Harness) expect(op string, want State) error {
	if h.state != want {
		return fmt.Errorf("bench: %s in state %s: %w", op, h.state, ErrInvalidState)
	}
	return nil
}

func (h *Harness) advance(to State) {
	h.logger.Debug("bench: state", slog.String("from", h.state.String()), slog.String("to", to.String()))
	h.state = to
}

// Load decodes the configured input image.
func (h *Harness) Load() error {
	if err := h.expect("load", Idle); err != nil {
		return err
	}
	img, err := imageio.Load(h.cfg.InputPath)
	if err != nil {
		return &StageError{Stage: "load", Path: h.cfg.InputPath, Kind: ErrImageLoad, Err: err}
	}
	return h.SetSource(img)
}

// SetSource uses an in-memory image instead of loading one.
func (h *Harness) SetSource(img *pixel.ColorImage) error {
	if err := h.expect("set source", Idle); err != nil {
		return err
	}
	if err := img.Validate(); err != nil {
		return &StageError{Stage: "load", Path: h.cfg.InputPath, Kind: ErrImageLoad, Err: err}
	}
	h.color = img
	h.result.Width, h.result.Height = img.Width, img.Height
	h.advance(Loaded)
	return nil
}

// RunAccelerated converts and histograms the image on the accelerator.
// Only the grayscale kernel is timed, and the clock stops after its barrier.
// The session is released on every path.
func (h *Harness) RunAccelerated(ctx context.Context) error {
	if err := h.expect("run accelerated", Loaded); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gray, err := pixel.NewGrayFor(h.color)
	if err != nil {
		return err
	}
	var hist pixel.Histogram

	s, err := h.acc.Begin(h.color)
	if err != nil {
		return fmt.Errorf("bench: begin session: %w", err)
	}
	defer s.Release()

	start := time.Now()
	if err := s.Grayscale(); err != nil {
		return fmt.Errorf("bench: grayscale kernel: %w", err)
	}
	if err := s.Synchronize(); err != nil {
		return fmt.Errorf("bench: grayscale barrier: %w", err)
	}
	elapsed := time.Since(start)

	if err := s.Histogram(); err != nil {
		return fmt.Errorf("bench: histogram kernel: %w", err)
	}
	if err := s.Synchronize(); err != nil {
		return fmt.Errorf("bench: histogram barrier: %w", err)
	}
	if err := s.Read(gray, &hist); err != nil {
		return fmt.Errorf("bench: read results: %w", err)
	}

	h.result.AcceleratedTime = elapsed
	h.result.Gray = gray
	h.result.Histogram = hist
	h.logger.Info("bench: accelerated grayscale",
		slog.String("accelerator", h.result.Accelerator),
		slog.Duration("elapsed", elapsed),
	)
	h.advance(AcceleratedDone)
	return nil
}

// RunReference converts the image sequentially into a separate buffer.
func (h *Harness) RunReference(ctx context.Context) error {
	if err := h.expect("run reference", AcceleratedDone); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gray, err := pixel.NewGrayFor(h.color)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := h.ref.Grayscale(gray, h.color); err != nil {
		return fmt.Errorf("bench: reference grayscale: %w", err)
	}
	elapsed := time.Since(start)

	h.result.ReferenceTime = elapsed
	h.result.Reference = gray
	h.logger.Info("bench: reference grayscale", slog.Duration("elapsed", elapsed))
	if !h.result.Match() {
		h.logger.Warn("bench: accelerated and reference outputs differ")
	}
	h.advance(ReferenceDone)
	return nil
}

// Report appends the timing line to the log and encodes the accelerated
// gray image as PNG.
func (h *Harness) Report() error {
	if err := h.expect("report", ReferenceDone); err != nil {
		return err
	}

	line := FormatTimingLine(h.result.ReferenceTime, h.result.AcceleratedTime)
	if err := imageio.AppendLine(h.cfg.TimingLogPath, line); err != nil {
		return fmt.Errorf("bench: timing log: %w", err)
	}
	if err := imageio.SavePNG(h.cfg.OutputPath, h.result.Gray, h.cfg.PNGCompression); err != nil {
		return &StageError{Stage: "encode", Path: h.cfg.OutputPath, Kind: ErrImageEncode, Err: err}
	}
	h.advance(Reported)
	return nil
}

// Run performs every step in order.
func (h *Harness) Run(ctx context.Context) (*Result, error) {
	if h.state == Idle {
		if err := h.Load(); err != nil {
			return nil, err
		}
	}
	steps := []func() error{
		func() error { return h.RunAccelerated(ctx) },
		func() error { return h.RunReference(ctx) },
		h.Report,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return &h.result, err
		}
	}
	return &h.result, nil
}

// FormatTimingLine renders one timing log line, both times in seconds.
func FormatTimingLine(cpuTime, acceleratedTime time.Duration) string {
	return fmt.Sprintf("cpu exec time is %.20f s , cuda exec time is %.20f s \n",
		cpuTime.Seconds(), acceleratedTime.Seconds())
}
