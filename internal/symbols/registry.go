package symbols

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/hir"
	"raven/internal/sched"
	"raven/internal/source"
	"raven/internal/types"
)

type waiter struct {
	ch   chan struct{}
	unit *sched.Unit
	from string // symbol whose resolution is waiting, "" if unknown
	err  error
}

type entry struct {
	sym      Symbol
	declared bool
	waiters  []*waiter
}

// Registry is the symbol table shared by every unit of one pipeline run.
// A single mutex guards all state; it is never held while a unit waits.
// Lock order: Registry.mu before the coordinator's lock.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*entry
	quiescent bool
	aborted   error
	target    string

	errs *diag.Bag

	funcs   map[string]*hir.Func
	structs map[string]*hir.Struct
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		errs:    diag.NewBag(0),
		funcs:   make(map[string]*hir.Func),
		structs: make(map[string]*hir.Struct),
	}
}

// Register declares name. A second declaration of the same name returns a
// *DuplicateError and leaves the first one in place.
func (r *Registry) Register(name string, kind SymbolKind, decl ast.Decl, span source.Span) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[name]
	if e != nil && e.declared {
		return &DuplicateError{Name: name, Prev: e.sym.Span}
	}
	if e == nil {
		e = &entry{}
		r.entries[name] = e
	}
	module := ""
	if decl != nil {
		module = decl.Info().Module
	}
	e.declared = true
	e.sym = Symbol{
		Name:   name,
		Kind:   kind,
		State:  Unresolved,
		Module: module,
		Span:   span,
		Decl:   decl,
	}
	return nil
}

// Begin moves a declared symbol from Unresolved to Resolving.
func (r *Registry) Begin(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[name]
	if e == nil || !e.declared {
		return fmt.Errorf("begin %s: %w", name, ErrNotDeclared)
	}
	if e.sym.State != Unresolved {
		return fmt.Errorf("begin %s (%s): %w", name, e.sym.State, ErrBadState)
	}
	e.sym.State = Resolving
	return nil
}

// Finalize publishes the resolved value of name and wakes its waiters in
// the order they started waiting.
func (r *Registry) Finalize(name string, value types.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[name]
	if e == nil || !e.declared {
		return fmt.Errorf("finalize %s: %w", name, ErrNotDeclared)
	}
	if e.sym.State == Finalized || e.sym.State == Failed {
		return fmt.Errorf("finalize %s (%s): %w", name, e.sym.State, ErrBadState)
	}
	e.sym.State = Finalized
	e.sym.Value = value
	r.wakeLocked(e.waiters, nil)
	e.waiters = nil
	return nil
}

// Fail marks name as terminally failed; waiters get ErrDependency.
func (r *Registry) Fail(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[name]
	if e == nil || !e.declared || e.sym.State == Finalized || e.sym.State == Failed {
		return
	}
	e.sym.State = Failed
	r.wakeLocked(e.waiters, &ResolveError{Name: name, Err: ErrDependency})
	e.waiters = nil
}

// wakeLocked marks every waiter's unit runnable before its channel is
// closed, so the coordinator never observes it as neither active nor parked.
func (r *Registry) wakeLocked(ws []*waiter, err error) {
	for _, w := range ws {
		w.err = err
		w.unit.Wake()
		close(w.ch)
	}
}

// Resolve returns the finalized symbol called name, suspending the calling
// unit until it is finalized. The state check and the waiter registration
// happen under one lock acquisition.
func (r *Registry) Resolve(ctx context.Context, name string) (*Symbol, error) {
	r.mu.Lock()
	if r.aborted != nil {
		r.mu.Unlock()
		return nil, &ResolveError{Name: name, Err: r.aborted}
	}
	e := r.entries[name]
	if e != nil && e.declared {
		switch e.sym.State {
		case Finalized:
			sym := e.sym
			r.mu.Unlock()
			return &sym, nil
		case Failed:
			r.mu.Unlock()
			return nil, &ResolveError{Name: name, Err: ErrDependency}
		}
	}
	if r.quiescent && (e == nil || !e.declared) {
		r.mu.Unlock()
		return nil, &ResolveError{Name: name, Err: ErrUnresolvedSymbol}
	}
	if e == nil {
		// placeholder for a forward reference; Register keeps its waiters
		e = &entry{sym: Symbol{Name: name}}
		r.entries[name] = e
	}
	w := &waiter{
		ch:   make(chan struct{}),
		unit: sched.UnitFrom(ctx),
		from: Requester(ctx),
	}
	e.waiters = append(e.waiters, w)
	w.unit.Park()
	r.mu.Unlock()

	<-w.ch
	w.unit.Resume()
	if w.err != nil {
		return nil, w.err
	}

	r.mu.Lock()
	sym := e.sym
	r.mu.Unlock()
	return &sym, nil
}

// Lookup returns a snapshot of name without waiting.
func (r *Registry) Lookup(name string) (Symbol, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[name]
	if e == nil || !e.declared {
		return Symbol{}, false
	}
	return e.sym, true
}

// Names returns every declared name, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for name, e := range r.entries {
		if e.declared {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Target returns the designated compile target, "" when none.
func (r *Registry) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// SetTarget designates the function compiled into the entry point.
func (r *Registry) SetTarget(name string) {
	r.mu.Lock()
	r.target = name
	r.mu.Unlock()
}

// IsTarget reports whether name is the designated target.
func (r *Registry) IsTarget(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target != "" && r.target == name
}

// RecordError appends d to the error list. The list never shrinks.
func (r *Registry) RecordError(d diag.Diagnostic) {
	r.errs.Add(d)
}

// Report makes the registry usable as a diag.Reporter.
func (r *Registry) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.errs.Report(code, sev, primary, msg, notes, fixes)
}

// Errors returns a snapshot of the recorded diagnostics.
func (r *Registry) Errors() []diag.Diagnostic {
	return r.errs.Items()
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (r *Registry) HasErrors() bool {
	return r.errs.HasErrors()
}

type requesterKey struct{}

// WithRequester records which symbol the unit running under ctx resolves.
// Resolve uses it to tell cycles apart from waits on missing names.
func WithRequester(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, requesterKey{}, name)
}

// Requester returns the name set by WithRequester.
func Requester(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(requesterKey{}).(string)
	return name
}
