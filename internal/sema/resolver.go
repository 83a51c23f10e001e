package sema

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/source"
	"raven/internal/symbols"
	"raven/internal/trace"
)

// Spawner starts a resolution unit; *sched.Coordinator implements it.
type Spawner interface {
	Spawn(ctx context.Context, name string, fn func(ctx context.Context) error)
}

// Resolver turns registered declarations into finalized symbols.
// Every declaration gets its own unit; function bodies are checked by a
// second unit spawned once the signature is finalized.
type Resolver struct {
	reg   *symbols.Registry
	spawn Spawner
}

// NewResolver creates a resolver over reg.
func NewResolver(reg *symbols.Registry, sp Spawner) *Resolver {
	return &Resolver{reg: reg, spawn: sp}
}

// Spawn starts the resolution unit of decl.
func (r *Resolver) Spawn(ctx context.Context, decl ast.Decl) {
	name := decl.Info().FQN
	r.spawn.Spawn(ctx, "resolve "+name, func(ctx context.Context) error {
		return r.Resolve(ctx, decl)
	})
}

// Resolve runs the resolution of decl on the calling goroutine.
// User-facing problems become diagnostics in the registry and fail the
// symbol; the returned error is reserved for broken invariants.
func (r *Resolver) Resolve(ctx context.Context, decl ast.Decl) error {
	info := decl.Info()
	ctx = symbols.WithRequester(ctx, info.FQN)
	if err := r.reg.Begin(info.FQN); err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	if info.Bad {
		// синтаксическая ошибка уже отражена парсером
		r.reg.Fail(info.FQN)
		return nil
	}

	u := r.newUnit(info.Module)
	var err error
	switch d := decl.(type) {
	case *ast.StructDecl:
		err = u.resolveStruct(ctx, d)
	case *ast.TraitDecl:
		err = u.resolveTrait(ctx, d)
	case *ast.ImplDecl:
		err = u.resolveImpl(ctx, d)
	case *ast.FnDecl:
		err = u.resolveFn(ctx, d)
	default:
		err = fmt.Errorf("resolve %s: unexpected declaration %T", info.FQN, decl)
	}
	if err != nil || u.failed {
		r.reg.Fail(info.FQN)
	}
	trace.Point(trace.FromContext(ctx), trace.ScopeNode, "resolved", info.FQN+" failed="+fmt.Sprint(u.failed || err != nil), trace.CurrentSpan(ctx).SpanID)
	return err
}

// unit holds the state of one resolution unit. It is confined to the
// goroutine running the unit.
type unit struct {
	*Resolver
	module string
	failed bool
}

func (r *Resolver) newUnit(module string) *unit {
	return &unit{Resolver: r, module: module}
}

// Report forwards to the registry and marks the unit failed on errors.
func (u *unit) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	if sev >= diag.SevError {
		u.failed = true
	}
	u.reg.Report(code, sev, primary, msg, notes, fixes)
}

func (u *unit) errorf(code diag.Code, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(u, code, sp, fmt.Sprintf(format, args...))
}

// lookup resolves name, suspending until it is finalized. Resolution
// errors are reported at sp; what names the expected kind of symbol.
func (u *unit) lookup(ctx context.Context, name string, sp source.Span, what string) *symbols.Symbol {
	sym, err := u.reg.Resolve(ctx, name)
	if err != nil {
		u.reportResolve(err, name, sp, what)
		return nil
	}
	return sym
}

func (u *unit) reportResolve(err error, name string, sp source.Span, what string) {
	switch {
	case errors.Is(err, symbols.ErrUnresolvedSymbol):
		b := u.errorf(diag.SemaUnresolvedSymbol, sp, "unresolved %s %s", what, name)
		u.suggest(b, name, sp)
		b.Emit()
	case errors.Is(err, symbols.ErrResolutionCycle):
		u.errorf(diag.SemaResolutionCycle, sp, "resolution cycle through %s", name).Emit()
	default:
		// ErrDependency или остановка прогона: причина уже сообщена
		u.failed = true
	}
}

// suggest attaches a "did you mean" note pointing at the closest
// declared name, plus a fix renaming the reference at sp.
func (u *unit) suggest(b *diag.ReportBuilder, name string, sp source.Span) {
	alt := u.reg.Suggest(name)
	if alt == "" {
		return
	}
	sym, ok := u.reg.Lookup(alt)
	if !ok {
		return
	}
	b.WithNote(sym.Span, "did you mean "+alt+"?")
	replaceLastSegment(b, sp, symbols.LastSegment(name), symbols.LastSegment(alt))
}

// replaceLastSegment предлагает заменить последний сегмент пути, который
// заканчивается ровно в sp.End.
func replaceLastSegment(b *diag.ReportBuilder, sp source.Span, old, alt string) {
	n, err := safecast.Conv[uint32](len(old))
	if err != nil || n == 0 || sp.Len() < n {
		return
	}
	edit := diag.FixEdit{
		Span:    source.Span{File: sp.File, Start: sp.End - n, End: sp.End},
		NewText: alt,
	}
	b.WithFix("replace "+old+" with "+alt, edit)
}
