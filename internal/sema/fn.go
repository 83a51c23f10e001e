package sema

import (
	"context"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/source"
	"raven/internal/types"
)

// signature resolves parameter and result types of fn. self is the
// receiver type, nil inside traits.
func (u *unit) signature(ctx context.Context, fn *ast.FnDecl, self types.Type) *types.Fn {
	ok := true
	seen := make(map[string]source.Span, len(fn.Params))
	params := make([]types.Param, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Self {
			params = append(params, types.Param{Name: "self", Type: self, Self: true})
			continue
		}
		if prev, dup := seen[p.Name]; dup {
			u.errorf(diag.SemaDuplicateSymbol, p.Span, "duplicate parameter %s in %s", p.Name, fn.FQN).
				WithNote(prev, "previous parameter here").
				Emit()
			ok = false
			continue
		}
		seen[p.Name] = p.Span
		t := u.typeOf(ctx, *p.Type, false)
		if t == nil {
			ok = false
			continue
		}
		params = append(params, types.Param{Name: p.Name, Type: t})
	}
	var result types.Type = types.Void
	if fn.Result != nil {
		if result = u.typeOf(ctx, *fn.Result, true); result == nil {
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return &types.Fn{Params: params, Result: result}
}

// resolveFn finalizes the signature first so that callers, including
// mutually recursive ones, never wait on a body. The body is checked by
// a separate unit.
func (u *unit) resolveFn(ctx context.Context, d *ast.FnDecl) error {
	var self types.Type
	if d.Receiver != "" && d.HasSelf() {
		// ошибку в заголовке impl сообщает юнит самого impl
		sym, err := u.reg.Resolve(ctx, d.Receiver)
		if err != nil {
			u.failed = true
			return nil
		}
		st, ok := sym.Struct()
		if !ok {
			u.failed = true
			return nil
		}
		self = st
	}
	sig := u.signature(ctx, d, self)
	if sig == nil {
		return nil
	}
	if err := u.reg.Finalize(d.FQN, sig); err != nil {
		return err
	}

	entry := u.reg.IsTarget(d.FQN)
	if entry && !validEntry(sig) {
		u.errorf(diag.SemaEntrypointSignature, d.NameSpan,
			"entry point %s must take no parameters and return i64 or void, found %s", d.FQN, sig).Emit()
	}
	if d.Body == nil {
		return nil
	}
	u.spawn.Spawn(ctx, "body "+d.FQN, func(ctx context.Context) error {
		return u.newUnit(d.Module).checkBody(ctx, d, sig, entry)
	})
	return nil
}

func validEntry(sig *types.Fn) bool {
	if len(sig.Params) != 0 {
		return false
	}
	switch sig.ResultType().Kind() {
	case types.KindInt, types.KindVoid:
		return true
	default:
		return false
	}
}
