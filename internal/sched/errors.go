package sched

import (
	"fmt"
	"strings"
)

// TaskFailure records a unit that panicked or returned an error.
type TaskFailure struct {
	Unit  string
	Err   error
	Stack []byte // set for panics
}

func (f TaskFailure) Error() string {
	return fmt.Sprintf("task %s failed: %v", f.Unit, f.Err)
}

// FailureError is returned by JoinAll once the set has drained and at least
// one unit failed.
type FailureError struct {
	Failures []TaskFailure
}

func (e *FailureError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%d tasks failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the individual unit errors to errors.Is/As.
func (e *FailureError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Err)
	}
	return out
}

// PanicError wraps a value recovered from a panicking unit.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
