package framework

import (
	"errors"
	"fmt"
)

// Phase identifies a stage of the check lifecycle in errors and logs.
type Phase string

// Lifecycle phases.
const (
	PhaseInitialize Phase = "initialize"
	PhaseManipulate Phase = "manipulate"
	PhaseValidate   Phase = "validate"
	PhaseConverge   Phase = "converge"
)

// Sentinel errors for scenario construction and execution
var (
	// ErrEnvironmentRequired indicates that a scenario was built without an environment
	ErrEnvironmentRequired = errors.New("environment is required")

	// ErrNoSteps indicates a scenario with a non-positive upgrade-step budget
	ErrNoSteps = errors.New("scenario needs at least one step")

	// ErrManipulateOverrun indicates a check returned more manipulate
	// batches than fit between initialize and validate
	ErrManipulateOverrun = errors.New("manipulate sequence exceeds upgrade-step budget")
)

// ExecutionError reports an environment failure during a check's
// lifecycle, tagged with the originating check, phase and step index.
// It aborts the remaining steps of the entire run.
type ExecutionError struct {
	Check string
	Phase Phase
	Step  int
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("check %s failed during %s (step %d): %v", e.Check, e.Phase, e.Step, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError creates a new ExecutionError
func NewExecutionError(check string, phase Phase, step int, err error) *ExecutionError {
	return &ExecutionError{
		Check: check,
		Phase: phase,
		Step:  step,
		Err:   err,
	}
}

// ConsistencyError reports a validate assertion mismatch. Consistency
// errors are collected rather than aborting, so one run surfaces every
// failing check.
type ConsistencyError struct {
	Check string
	Err   error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("check %s failed validation: %v", e.Check, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// NewConsistencyError creates a new ConsistencyError
func NewConsistencyError(check string, err error) *ConsistencyError {
	return &ConsistencyError{
		Check: check,
		Err:   err,
	}
}
