package jit

import (
	"errors"
	"fmt"

	"raven/internal/diag"
	"raven/internal/hir"
	"raven/internal/source"
	"raven/internal/types"
)

type funcEmitter struct {
	c     *Compiler
	src   *hir.Func
	scope map[string]int // имя -> слот фрейма
	slots int
}

func (c *Compiler) emitFunc(f *function, src *hir.Func) error {
	fe := &funcEmitter{
		c:     c,
		src:   src,
		scope: make(map[string]int, len(src.Params)),
	}
	result, err := fe.typeOf(src.Result, src.Span)
	if err != nil {
		return err
	}
	f.result = result

	// entry block: parameters occupy the first slots
	for _, p := range src.Params {
		if _, err := fe.typeOf(p.Type, p.Span); err != nil {
			return err
		}
		fe.scope[p.Name] = fe.alloc()
	}
	if src.Body == nil {
		return fe.errorf(diag.BckNotImplemented, src.Span, "function %s has no body", src.Name)
	}
	body, err := fe.emitBlock(src.Body)
	if err != nil {
		return err
	}
	if result.Kind != types.KindVoid && !src.Body.EndsWithReturn() {
		return fe.errorf(diag.BckMissingReturn, src.Body.Span, "missing return of %s at end of %s", result.Name, src.Name)
	}
	f.body = body
	f.slots = fe.slots
	return nil
}

func (fe *funcEmitter) alloc() int {
	fe.slots++
	return fe.slots - 1
}

func (fe *funcEmitter) errorf(code diag.Code, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Func: fe.src.Name, Span: sp, Msg: fmt.Sprintf(format, args...)}
}

// typeOf resolves t and attributes a failure to the current function.
func (fe *funcEmitter) typeOf(t types.Type, sp source.Span) (*Type, error) {
	bt, err := fe.c.typeOf(t)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && be.Func == "" {
			be.Func = fe.src.Name
			be.Span = sp
		}
		return nil, err
	}
	return bt, nil
}

// emitBlock translates statements in order; a return ends the block and
// anything after it is not translated.
func (fe *funcEmitter) emitBlock(b *hir.Block) ([]execFn, error) {
	out := make([]execFn, 0, len(b.Stmts))
	for i := range b.Stmts {
		s := &b.Stmts[i]
		fn, err := fe.emitStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, fn)
		if s.Kind == hir.StmtReturn {
			break
		}
	}
	return out, nil
}

func (fe *funcEmitter) emitStmt(s *hir.Stmt) (execFn, error) {
	switch data := s.Data.(type) {
	case hir.LetData:
		if _, err := fe.typeOf(data.Type, s.Span); err != nil {
			return nil, err
		}
		val, err := fe.emitExpr(data.Value)
		if err != nil {
			return nil, err
		}
		// слот после значения: `let x = x + 1` читает прежний x
		slot := fe.alloc()
		fe.scope[data.Name] = slot
		return func(fr *frame) (Value, bool, error) {
			v, err := val(fr)
			if err != nil {
				return Value{}, false, err
			}
			fr.slots[slot] = v
			return Value{}, false, nil
		}, nil

	case hir.ExprStmtData:
		val, err := fe.emitExpr(data.Expr)
		if err != nil {
			return nil, err
		}
		return func(fr *frame) (Value, bool, error) {
			_, err := val(fr)
			return Value{}, false, err
		}, nil

	case hir.ReturnData:
		if data.Value == nil {
			return func(*frame) (Value, bool, error) { return Value{}, true, nil }, nil
		}
		val, err := fe.emitExpr(data.Value)
		if err != nil {
			return nil, err
		}
		return func(fr *frame) (Value, bool, error) {
			v, err := val(fr)
			if err != nil {
				return Value{}, false, err
			}
			return v, true, nil
		}, nil
	}
	return nil, fe.errorf(diag.BckNotImplemented, s.Span, "statement %s", s.Kind)
}
