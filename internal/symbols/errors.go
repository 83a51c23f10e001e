package symbols

import (
	"errors"
	"fmt"

	"raven/internal/source"
)

var (
	ErrDuplicateSymbol  = errors.New("duplicate symbol")
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
	ErrResolutionCycle  = errors.New("resolution cycle")
	// ErrDependency means the awaited symbol failed on its own; the failure
	// is already reported, so dependents stay silent.
	ErrDependency = errors.New("dependency failed")
)

var (
	ErrNotDeclared = errors.New("symbol not declared")
	ErrBadState    = errors.New("invalid symbol state transition")
)

// DuplicateError is returned by Register when the name is taken.
type DuplicateError struct {
	Name string
	Prev source.Span
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateSymbol, e.Name)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateSymbol }

// ResolveError is returned by Resolve.
type ResolveError struct {
	Name string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Name)
}

func (e *ResolveError) Unwrap() error { return e.Err }
