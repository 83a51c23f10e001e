package sema

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/hir"
	"raven/internal/source"
	"raven/internal/symbols"
	"raven/internal/types"
)

// expr types e. nil means e failed to check; the failure is already
// reported, so callers stay silent.
func (b *bodyChecker) expr(ctx context.Context, e ast.Expr) *hir.Expr {
	switch e := e.(type) {
	case *ast.IntLit:
		return &hir.Expr{
			Kind: hir.ExprLiteral,
			Type: types.I64,
			Span: e.Span,
			Data: hir.LiteralData{Kind: hir.LiteralInt, Text: strconv.FormatInt(e.Value, 10), IntValue: e.Value},
		}
	case *ast.FloatLit:
		text := e.Text
		if text == "" {
			text = strconv.FormatFloat(e.Value, 'g', -1, 64)
		}
		return &hir.Expr{
			Kind: hir.ExprLiteral,
			Type: types.F64,
			Span: e.Span,
			Data: hir.LiteralData{Kind: hir.LiteralFloat, Text: text, FloatValue: e.Value},
		}
	case *ast.PathExpr:
		return b.path(ctx, e)
	case *ast.NegExpr:
		x := b.expr(ctx, e.X)
		if x == nil {
			return nil
		}
		t, ok := types.CheckNeg(x.Type)
		if !ok {
			b.errorf(diag.SemaTypeMismatch, e.Span, "cannot negate a value of type %s", types.Label(x.Type)).Emit()
			return nil
		}
		return &hir.Expr{Kind: hir.ExprNeg, Type: t, Span: e.Span, Data: hir.NegData{Operand: x}}
	case *ast.BinaryExpr:
		l := b.expr(ctx, e.X)
		r := b.expr(ctx, e.Y)
		if l == nil || r == nil {
			return nil
		}
		t, ok := types.CheckBinary(e.Op, l.Type, r.Type)
		if !ok {
			b.errorf(diag.SemaTypeMismatch, e.Span, "operator %s cannot be applied to %s and %s",
				e.Op, types.Label(l.Type), types.Label(r.Type)).Emit()
			return nil
		}
		return &hir.Expr{
			Kind: hir.ExprBinaryOp,
			Type: t,
			Span: e.Span,
			Data: hir.BinaryOpData{Op: e.Op, Left: l, Right: r},
		}
	case *ast.CallExpr:
		return b.call(ctx, e)
	case *ast.MethodCallExpr:
		return b.methodCall(ctx, e)
	case *ast.FieldExpr:
		return b.field(ctx, e)
	case *ast.StructLitExpr:
		return b.structLit(ctx, e)
	}
	// BadExpr: синтаксическая ошибка уже сообщена
	b.failed = true
	return nil
}

func (b *bodyChecker) exprs(ctx context.Context, es []ast.Expr) []*hir.Expr {
	out := make([]*hir.Expr, len(es))
	for i, e := range es {
		out[i] = b.expr(ctx, e)
	}
	return out
}

func (b *bodyChecker) path(ctx context.Context, e *ast.PathExpr) *hir.Expr {
	bare := !e.Path.Qualified()
	if bare {
		name := e.Path.String()
		if t, ok := b.locals[name]; ok {
			if t == nil {
				b.failed = true
				return nil
			}
			return &hir.Expr{Kind: hir.ExprVarRef, Type: t, Span: e.Path.Span, Data: hir.VarRefData{Name: name}}
		}
	}

	// unknown bare names may still be top-level declarations of this module
	name := e.Path.Resolve(b.module)
	sym, err := b.reg.Resolve(ctx, name)
	if err != nil {
		if bare && errors.Is(err, symbols.ErrUnresolvedSymbol) {
			rb := b.errorf(diag.SemaUnknownVariable, e.Path.Span, "unknown variable %s", e.Path.String())
			if alt := b.suggestLocal(e.Path.String()); alt != "" {
				rb.WithNote(e.Path.Span, "did you mean "+alt+"?")
				replaceLastSegment(rb, e.Path.Span, e.Path.String(), alt)
			} else {
				b.suggest(rb, name, e.Path.Span)
			}
			rb.Emit()
			return nil
		}
		b.reportResolve(err, name, e.Path.Span, "name")
		return nil
	}
	if sym.Kind.IsCallable() {
		b.errorf(diag.SemaTypeMismatch, e.Path.Span, "%s %s cannot be used as a value", sym.Kind, name).Emit()
	} else {
		b.errorf(diag.SemaNotAType, e.Path.Span, "%s %s cannot be used as a value", sym.Kind, name).Emit()
	}
	return nil
}

// suggestLocal returns the closest local variable name, "" if none.
func (b *bodyChecker) suggestLocal(name string) string {
	return symbols.Closest(name, slices.Sorted(maps.Keys(b.locals)))
}

func (b *bodyChecker) call(ctx context.Context, e *ast.CallExpr) *hir.Expr {
	if !e.Callee.Qualified() {
		if _, ok := b.locals[e.Callee.String()]; ok {
			b.exprs(ctx, e.Args)
			b.errorf(diag.SemaNotCallable, e.Callee.Span, "%s is a variable, not a function", e.Callee.String()).Emit()
			return nil
		}
	}
	name := e.Callee.Resolve(b.module)
	sym := b.lookup(ctx, name, e.Callee.Span, "function")
	args := b.exprs(ctx, e.Args)
	if sym == nil {
		return nil
	}
	sig, ok := sym.Fn()
	if !ok {
		b.errorf(diag.SemaNotCallable, e.Callee.Span, "%s %s is not callable", sym.Kind, name).Emit()
		return nil
	}
	if sig.HasSelf() {
		b.errorf(diag.SemaNotCallable, e.Callee.Span, "method %s takes self; call it on a receiver", name).Emit()
		return nil
	}
	if !b.checkArgs(name, sig, args, e.Args, e.Span) {
		return nil
	}
	return &hir.Expr{
		Kind: hir.ExprCall,
		Type: sig.ResultType(),
		Span: e.Span,
		Data: hir.CallData{Callee: name, Args: args},
	}
}

func (b *bodyChecker) methodCall(ctx context.Context, e *ast.MethodCallExpr) *hir.Expr {
	recv := b.expr(ctx, e.Recv)
	args := b.exprs(ctx, e.Args)
	if recv == nil {
		return nil
	}
	st, ok := recv.Type.(*types.Struct)
	if !ok {
		b.errorf(diag.SemaUnknownField, e.NameSpan, "type %s has no method %s", types.Label(recv.Type), e.Method).Emit()
		return nil
	}
	name := ast.Qualify(st.Name, e.Method)
	sym, err := b.reg.Resolve(ctx, name)
	if err != nil {
		if errors.Is(err, symbols.ErrUnresolvedSymbol) {
			rb := b.errorf(diag.SemaUnresolvedSymbol, e.NameSpan, "no method %s on %s", e.Method, st.Name)
			b.suggest(rb, name, e.NameSpan)
			rb.Emit()
			return nil
		}
		b.reportResolve(err, name, e.NameSpan, "method")
		return nil
	}
	sig, ok := sym.Fn()
	if !ok || !sig.HasSelf() {
		b.errorf(diag.SemaNotCallable, e.NameSpan, "%s has no self parameter; call it as %s(...)", name, name).Emit()
		return nil
	}
	if !b.checkArgs(name, sig, args, e.Args, e.Span) {
		return nil
	}
	return &hir.Expr{
		Kind: hir.ExprMethodCall,
		Type: sig.ResultType(),
		Span: e.Span,
		Data: hir.MethodCallData{Recv: recv, Method: name, Args: args},
	}
}

// checkArgs matches typed arguments against the explicit parameters of sig.
func (b *bodyChecker) checkArgs(name string, sig *types.Fn, args []*hir.Expr, src []ast.Expr, sp source.Span) bool {
	want := sig.Args()
	if len(want) != len(args) {
		b.errorf(diag.SemaArgCountMismatch, sp, "%s expects %d arguments, found %d", name, len(want), len(args)).Emit()
		return false
	}
	ok := true
	for i, a := range args {
		if a == nil {
			ok = false
			continue
		}
		if !types.Identical(want[i].Type, a.Type) {
			b.errorf(diag.SemaTypeMismatch, src[i].ExprSpan(), "argument %d of %s: expected %s, found %s",
				i+1, name, types.Label(want[i].Type), types.Label(a.Type)).Emit()
			ok = false
		}
	}
	return ok
}

func (b *bodyChecker) field(ctx context.Context, e *ast.FieldExpr) *hir.Expr {
	x := b.expr(ctx, e.X)
	if x == nil {
		return nil
	}
	st, ok := x.Type.(*types.Struct)
	if !ok {
		b.errorf(diag.SemaUnknownField, e.NameSpan, "type %s has no field %s", types.Label(x.Type), e.Field).Emit()
		return nil
	}
	idx, ok := st.FieldIndex(e.Field)
	if !ok {
		b.errorf(diag.SemaUnknownField, e.NameSpan, "struct %s has no field %s", st.Name, e.Field).Emit()
		return nil
	}
	return &hir.Expr{
		Kind: hir.ExprFieldAccess,
		Type: st.Fields[idx].Type,
		Span: e.Span,
		Data: hir.FieldAccessData{Object: x, FieldName: e.Field, FieldIdx: idx},
	}
}

func (b *bodyChecker) structLit(ctx context.Context, e *ast.StructLitExpr) *hir.Expr {
	t := b.typeOf(ctx, e.Type, false)
	values := make([]*hir.Expr, len(e.Fields))
	for i, f := range e.Fields {
		values[i] = b.expr(ctx, f.Value)
	}
	if t == nil {
		return nil
	}
	st, ok := t.(*types.Struct)
	if !ok {
		b.errorf(diag.SemaNotAType, e.Type.Span, "%s is not a struct", t).Emit()
		return nil
	}

	ok = true
	inits := make([]hir.StructFieldInit, len(st.Fields))
	seen := make([]bool, len(st.Fields))
	for i, f := range e.Fields {
		idx, found := st.FieldIndex(f.Name)
		if !found {
			b.errorf(diag.SemaUnknownField, f.NameSpan, "struct %s has no field %s", st.Name, f.Name).Emit()
			ok = false
			continue
		}
		if seen[idx] {
			b.errorf(diag.SemaDuplicateField, f.NameSpan, "field %s initialized twice", f.Name).Emit()
			ok = false
			continue
		}
		seen[idx] = true
		v := values[i]
		if v == nil {
			ok = false
			continue
		}
		if !types.Identical(st.Fields[idx].Type, v.Type) {
			b.errorf(diag.SemaTypeMismatch, f.Value.ExprSpan(), "field %s of %s: expected %s, found %s",
				f.Name, st.Name, st.Fields[idx].Type, types.Label(v.Type)).Emit()
			ok = false
			continue
		}
		inits[idx] = hir.StructFieldInit{Name: f.Name, Value: v, Span: f.NameSpan.Cover(f.Value.ExprSpan())}
	}
	var missing []string
	for i, fld := range st.Fields {
		if !seen[i] {
			missing = append(missing, fld.Name)
		}
	}
	if len(missing) > 0 {
		b.errorf(diag.SemaTypeMismatch, e.Span, "missing fields %s in %s literal", strings.Join(missing, ", "), st.Name).Emit()
		ok = false
	}
	if !ok {
		return nil
	}
	return &hir.Expr{
		Kind: hir.ExprStructLit,
		Type: st,
		Span: e.Span,
		Data: hir.StructLitData{TypeName: st.Name, Fields: inits},
	}
}
