package approx

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrInvalidInput indicates ratio, mask and precision disagree in length,
	// hold fewer than two entries, or carry an unusable tolerance.
	ErrInvalidInput = errors.New("approx: invalid input")

	// ErrUndefinedDomain indicates a ratio entry that is not a finite
	// positive number.
	ErrUndefinedDomain = errors.New("approx: ratio entries must be positive and finite")

	// ErrNoConvergent indicates an accessor was called before the first
	// successful step.
	ErrNoConvergent = errors.New("approx: no convergent computed yet")
)

// InputError wraps an input error with the offending field and index.
// Index is -1 when the error concerns the whole field.
type InputError struct {
	Field   string
	Index   int
	Detail  string
	Wrapped error
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s: %s", e.Wrapped, e.Field, e.Detail)
	}
	return fmt.Sprintf("%v: %s[%d]: %s", e.Wrapped, e.Field, e.Index, e.Detail)
}

func (e *InputError) Unwrap() error {
	return e.Wrapped
}
