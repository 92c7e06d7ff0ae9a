package sim

import (
	"errors"
	"fmt"
)

// ErrNumericDegeneracy indicates bodies whose state became NaN or Inf,
// typically after two of them coincided.
var ErrNumericDegeneracy = errors.New("sim: non-finite body state")

// ErrUnknownParam indicates a tunable name the current policy does not have.
var ErrUnknownParam = errors.New("sim: unknown parameter")

// StepError wraps an error with the step it surfaced in.
type StepError struct {
	Step    int64
	Elapsed float64
	Bodies  []string
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v %v", e.Step, e.Elapsed, e.Wrapped, e.Bodies)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
