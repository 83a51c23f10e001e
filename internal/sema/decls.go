package sema

import (
	"context"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/hir"
	"raven/internal/source"
	"raven/internal/types"
)

// typeOf resolves a type written in the unit's module. Struct types are
// returned only once finalized. Problems are reported; nil means failure.
func (u *unit) typeOf(ctx context.Context, p ast.Path, allowVoid bool) types.Type {
	if !p.Qualified() {
		if b, ok := types.Builtin(p.String()); ok {
			if b.Kind() == types.KindVoid && !allowVoid {
				u.errorf(diag.SemaNotAType, p.Span, "void is not a value type").Emit()
				return nil
			}
			return b
		}
	}
	name := p.Resolve(u.module)
	sym := u.lookup(ctx, name, p.Span, "type")
	if sym == nil {
		return nil
	}
	st, ok := sym.Struct()
	if !ok {
		u.errorf(diag.SemaNotAType, p.Span, "%s is a %s, not a type", name, sym.Kind).Emit()
		return nil
	}
	return st
}

func (u *unit) resolveStruct(ctx context.Context, d *ast.StructDecl) error {
	seen := make(map[string]source.Span, len(d.Fields))
	fields := make([]types.Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if prev, dup := seen[f.Name]; dup {
			u.errorf(diag.SemaDuplicateField, f.Span, "duplicate field %s in struct %s", f.Name, d.FQN).
				WithNote(prev, "previous field here").
				Emit()
			continue
		}
		seen[f.Name] = f.Span
		t := u.typeOf(ctx, f.Type, false)
		if t == nil {
			continue
		}
		fields = append(fields, types.Field{Name: f.Name, Type: t})
	}
	if u.failed {
		return nil
	}
	st := types.NewStruct(d.FQN, fields)
	if err := u.reg.Finalize(d.FQN, st); err != nil {
		return err
	}
	u.reg.PublishStruct(&hir.Struct{Name: d.FQN, Span: d.Span, Type: st})
	return nil
}

func (u *unit) resolveTrait(ctx context.Context, d *ast.TraitDecl) error {
	tr := &types.Trait{Name: d.FQN}
	seen := make(map[string]source.Span, len(d.Methods))
	for _, m := range d.Methods {
		if prev, dup := seen[m.Name]; dup {
			u.errorf(diag.SemaDuplicateSymbol, m.NameSpan, "duplicate method %s in trait %s", m.Name, d.FQN).
				WithNote(prev, "previous declaration here").
				Emit()
			continue
		}
		seen[m.Name] = m.NameSpan
		// receiver of a trait method has no concrete type
		sig := u.signature(ctx, m, nil)
		if sig == nil {
			continue
		}
		tr.Methods = append(tr.Methods, types.Method{Name: m.Name, Sig: sig})
	}
	if u.failed {
		return nil
	}
	return u.reg.Finalize(d.FQN, tr)
}

func (u *unit) resolveImpl(ctx context.Context, d *ast.ImplDecl) error {
	var trait *types.Trait
	traitName := d.Trait.Resolve(u.module)
	if sym := u.lookup(ctx, traitName, d.Trait.Span, "trait"); sym != nil {
		if tr, ok := sym.Trait(); ok {
			trait = tr
		} else {
			u.errorf(diag.SemaNotAType, d.Trait.Span, "%s is a %s, not a trait", traitName, sym.Kind).Emit()
		}
	}
	target := u.typeOf(ctx, d.Target, false)
	if target != nil && target.Kind() != types.KindStruct {
		u.errorf(diag.SemaNotAType, d.Target.Span, "impl target must be a struct, found %s", target).Emit()
		target = nil
	}
	if trait == nil || target == nil {
		return nil
	}

	methods := make(map[string]*ast.FnDecl, len(d.Methods))
	for _, m := range d.Methods {
		methods[m.Name] = m
	}
	for _, want := range trait.Methods {
		m, ok := methods[want.Name]
		if !ok {
			u.errorf(diag.SemaTraitMismatch, d.NameSpan, "impl of %s for %s is missing method %s %s",
				trait.Name, target, want.Name, want.Sig).Emit()
			continue
		}
		sym := u.lookup(ctx, m.FQN, m.NameSpan, "method")
		if sym == nil {
			continue
		}
		got, ok := sym.Fn()
		if !ok || !got.SameSignature(want.Sig) {
			u.errorf(diag.SemaTraitMismatch, m.NameSpan, "method %s has signature %s, trait %s requires %s",
				m.Name, got, trait.Name, want.Sig).Emit()
		}
	}
	for _, m := range d.Methods {
		if _, ok := trait.Method(m.Name); !ok {
			u.errorf(diag.SemaTraitMismatch, m.NameSpan, "method %s is not a member of trait %s", m.Name, trait.Name).Emit()
		}
	}
	if u.failed {
		return nil
	}
	return u.reg.Finalize(d.FQN, nil)
}
