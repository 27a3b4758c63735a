package bench

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrImageLoad    = errors.New("image load failed")
	ErrImageEncode  = errors.New("image encode failed")
	ErrInvalidState = errors.New("invalid harness state")
)

// StageError reports which step of a run failed and on which file.
type StageError struct {
	Stage string // Step that failed (e.g., "load", "encode")
	Path  string // File involved, if any
	Kind  error  // One of the sentinel errors above
	Err   error  // Underlying cause
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("bench: %s %q: %v: %v", e.Stage, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("bench: %s: %v: %v", e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both the sentinel kind and the cause to errors.Is/As.
func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
