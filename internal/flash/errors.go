package flash

import (
	"errors"
	"fmt"
)

// Domain errors for controller operations.
var (
	// ErrNoTokens indicates an operation that needs at least one token.
	ErrNoTokens = errors.New("flash: no words to flash")

	// ErrNotRecording indicates an advance outside a recording session.
	ErrNotRecording = errors.New("flash: not recording")

	// ErrNoTimings indicates an export before any recording completed.
	ErrNoTimings = errors.New("flash: record some timings first")

	// ErrTimingMismatch indicates the timing sequence no longer matches the tokens.
	ErrTimingMismatch = errors.New("flash: timing count does not match word count")

	// ErrBusy indicates an export is still running.
	ErrBusy = errors.New("flash: export in progress")
)

// ExportError wraps a failure with the frame it happened on.
type ExportError struct {
	Frame   int
	Token   string
	Wrapped error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("flash: frame %d (%q): %v", e.Frame, e.Token, e.Wrapped)
}

func (e *ExportError) Unwrap() error {
	return e.Wrapped
}
