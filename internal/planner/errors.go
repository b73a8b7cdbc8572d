package planner

import "fmt"

// GenerationError signals that the oracle path failed: the model call
// errored, or its output could not be parsed or repaired. It surfaces to
// the caller as a server error with diagnostic detail; there is no retry.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("weekly plan generation failed (%s): %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
