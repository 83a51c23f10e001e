package sema

import (
	"context"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/hir"
	"raven/internal/source"
	"raven/internal/types"
)

// bodyChecker types one function body.
type bodyChecker struct {
	*unit
	fn  *ast.FnDecl
	sig *types.Fn
	// nil type marks a local whose initializer failed to check; uses of it
	// stay silent
	locals map[string]types.Type
}

func (u *unit) checkBody(ctx context.Context, d *ast.FnDecl, sig *types.Fn, entry bool) error {
	b := &bodyChecker{
		unit:   u,
		fn:     d,
		sig:    sig,
		locals: make(map[string]types.Type, len(d.Params)),
	}
	params := make([]hir.Param, len(d.Params))
	for i, p := range d.Params {
		name := p.Name
		if p.Self {
			name = "self"
		}
		b.locals[name] = sig.Params[i].Type
		params[i] = hir.Param{Name: name, Type: sig.Params[i].Type, Self: p.Self, Span: p.Span}
	}

	block := &hir.Block{Span: d.Body.Span}
	for _, s := range d.Body.Stmts {
		if hs, ok := b.stmt(ctx, s); ok {
			block.Stmts = append(block.Stmts, hs)
		}
	}

	result := sig.ResultType()
	var flags hir.FuncFlags
	if entry {
		flags |= hir.FuncEntrypoint
	}
	if d.Receiver != "" {
		flags |= hir.FuncMethod
	}
	if !endsWithReturn(d.Body) {
		end := closingBrace(d.Body.Span)
		if result.Kind() == types.KindVoid {
			block.Stmts = append(block.Stmts, hir.Stmt{
				Kind: hir.StmtReturn,
				Span: end,
				Data: hir.ReturnData{Implicit: true},
			})
			flags |= hir.FuncImplicitReturn
		} else {
			u.errorf(diag.SemaMissingReturn, d.NameSpan, "function %s must end with a return of %s", d.FQN, result).
				WithNote(end, "body ends here").
				Emit()
		}
	}
	if u.failed {
		return nil
	}
	u.reg.Publish(&hir.Func{
		Name:   d.FQN,
		Module: d.Module,
		Span:   d.Span,
		Params: params,
		Result: result,
		Flags:  flags,
		Body:   block,
	})
	return nil
}

func endsWithReturn(b *ast.Block) bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[len(b.Stmts)-1].(*ast.ReturnStmt)
	return ok
}

func closingBrace(sp source.Span) source.Span {
	if sp.End > sp.Start {
		return source.Span{File: sp.File, Start: sp.End - 1, End: sp.End}
	}
	return sp
}

func (b *bodyChecker) stmt(ctx context.Context, s ast.Stmt) (hir.Stmt, bool) {
	switch s := s.(type) {
	case *ast.LetStmt:
		return b.let(ctx, s)
	case *ast.ReturnStmt:
		return b.ret(ctx, s)
	case *ast.ExprStmt:
		x := b.expr(ctx, s.X)
		if x == nil {
			return hir.Stmt{}, false
		}
		return hir.Stmt{Kind: hir.StmtExpr, Span: s.Span, Data: hir.ExprStmtData{Expr: x}}, true
	}
	b.failed = true
	return hir.Stmt{}, false
}

func (b *bodyChecker) let(ctx context.Context, s *ast.LetStmt) (hir.Stmt, bool) {
	var want types.Type
	annotated := s.Type != nil
	if annotated {
		want = b.typeOf(ctx, *s.Type, false)
	}
	val := b.expr(ctx, s.Value)
	// имя видно дальше даже при ошибке, чтобы не плодить UnknownVariable
	b.locals[s.Name] = want
	if val == nil || (annotated && want == nil) {
		return hir.Stmt{}, false
	}
	if !types.IsValue(val.Type) {
		b.errorf(diag.SemaTypeMismatch, s.Value.ExprSpan(), "cannot bind %s: expression of type %s has no value", s.Name, types.Label(val.Type)).Emit()
		return hir.Stmt{}, false
	}
	if annotated && !types.Identical(want, val.Type) {
		b.errorf(diag.SemaTypeMismatch, s.Value.ExprSpan(), "mismatched types: expected %s, found %s", want, val.Type).Emit()
		return hir.Stmt{}, false
	}
	b.locals[s.Name] = val.Type
	return hir.Stmt{
		Kind: hir.StmtLet,
		Span: s.Span,
		Data: hir.LetData{Name: s.Name, Type: val.Type, Value: val},
	}, true
}

func (b *bodyChecker) ret(ctx context.Context, s *ast.ReturnStmt) (hir.Stmt, bool) {
	result := b.sig.ResultType()
	if s.Value == nil {
		if result.Kind() != types.KindVoid {
			b.errorf(diag.SemaTypeMismatch, s.Span, "function %s must return a value of type %s", b.fn.FQN, result).Emit()
			return hir.Stmt{}, false
		}
		return hir.Stmt{Kind: hir.StmtReturn, Span: s.Span, Data: hir.ReturnData{}}, true
	}
	val := b.expr(ctx, s.Value)
	if val == nil {
		return hir.Stmt{}, false
	}
	if result.Kind() == types.KindVoid {
		b.errorf(diag.SemaTypeMismatch, s.Value.ExprSpan(), "function %s does not return a value", b.fn.FQN).Emit()
		return hir.Stmt{}, false
	}
	if !types.Identical(result, val.Type) {
		b.errorf(diag.SemaTypeMismatch, s.Value.ExprSpan(), "mismatched types: expected %s, found %s", result, types.Label(val.Type)).Emit()
		return hir.Stmt{}, false
	}
	return hir.Stmt{Kind: hir.StmtReturn, Span: s.Span, Data: hir.ReturnData{Value: val}}, true
}
