package jit

import (
	"errors"

	"raven/internal/diag"
	"raven/internal/hir"
)

func (fe *funcEmitter) emitExpr(e *hir.Expr) (evalFn, error) {
	if e == nil {
		return nil, fe.errorf(diag.BckNotImplemented, fe.src.Span, "missing expression")
	}
	switch data := e.Data.(type) {
	case hir.LiteralData:
		t, err := fe.typeOf(e.Type, e.Span)
		if err != nil {
			return nil, err
		}
		var v Value
		switch t.Name {
		case "i64":
			v = Value{I: data.IntValue}
		case "f64":
			v = Value{F: data.FloatValue}
		default:
			return nil, fe.errorf(diag.BckMissingType, e.Span, "literal of type %s", t.Name)
		}
		return func(*frame) (Value, error) { return v, nil }, nil

	case hir.VarRefData:
		slot, ok := fe.scope[data.Name]
		if !ok {
			return nil, fe.errorf(diag.BckUnknownVariable, e.Span, "unknown variable %s", data.Name)
		}
		return func(fr *frame) (Value, error) { return fr.slots[slot], nil }, nil

	case hir.NegData:
		t, err := fe.typeOf(e.Type, e.Span)
		if err != nil {
			return nil, err
		}
		if t.neg == nil {
			return nil, fe.errorf(diag.BckNotImplemented, e.Span, "negation of %s", t.Name)
		}
		x, err := fe.emitExpr(data.Operand)
		if err != nil {
			return nil, err
		}
		neg := t.neg
		return func(fr *frame) (Value, error) {
			v, err := x(fr)
			if err != nil {
				return Value{}, err
			}
			return neg(v), nil
		}, nil

	case hir.BinaryOpData:
		return fe.emitBinary(e, data)

	case hir.CallData:
		return fe.emitCall(e, data)

	case hir.MethodCallData:
		return nil, fe.errorf(diag.BckNotImplemented, e.Span, "method call %s", data.Method)

	case hir.FieldAccessData:
		obj, err := fe.emitExpr(data.Object)
		if err != nil {
			return nil, err
		}
		if _, err := fe.typeOf(data.Object.Type, data.Object.Span); err != nil {
			return nil, err
		}
		idx := data.FieldIdx
		return func(fr *frame) (Value, error) {
			v, err := obj(fr)
			if err != nil {
				return Value{}, err
			}
			return v.Fields[idx], nil
		}, nil

	case hir.StructLitData:
		t, err := fe.typeOf(e.Type, e.Span)
		if err != nil {
			return nil, err
		}
		if len(data.Fields) != len(t.Fields) {
			return nil, fe.errorf(diag.BckMissingType, e.Span, "literal of %s has %d fields, type has %d",
				t.Name, len(data.Fields), len(t.Fields))
		}
		fields := make([]evalFn, len(data.Fields))
		for i, f := range data.Fields {
			if fields[i], err = fe.emitExpr(f.Value); err != nil {
				return nil, err
			}
		}
		return func(fr *frame) (Value, error) {
			vals := make([]Value, len(fields))
			for i, f := range fields {
				v, err := f(fr)
				if err != nil {
					return Value{}, err
				}
				vals[i] = v
			}
			return Value{Fields: vals}, nil
		}, nil
	}
	return nil, fe.errorf(diag.BckNotImplemented, e.Span, "expression %s", e.Kind)
}

func (fe *funcEmitter) emitBinary(e *hir.Expr, data hir.BinaryOpData) (evalFn, error) {
	// таблица операторов берётся у типа левого операнда
	lt, err := fe.typeOf(data.Left.Type, data.Left.Span)
	if err != nil {
		return nil, err
	}
	op := lt.binary[data.Op]
	if op == nil {
		return nil, fe.errorf(diag.BckNotImplemented, e.Span, "operator %s on %s", data.Op, lt.Name)
	}
	l, err := fe.emitExpr(data.Left)
	if err != nil {
		return nil, err
	}
	r, err := fe.emitExpr(data.Right)
	if err != nil {
		return nil, err
	}
	span := e.Span
	return func(fr *frame) (Value, error) {
		a, err := l(fr)
		if err != nil {
			return Value{}, err
		}
		b, err := r(fr)
		if err != nil {
			return Value{}, err
		}
		v, err := op(a, b)
		if errors.Is(err, errDivisionByZero) {
			return Value{}, &Trap{Kind: TrapDivisionByZero, Message: err.Error(), Span: span}
		}
		return v, err
	}, nil
}

func (fe *funcEmitter) emitCall(e *hir.Expr, data hir.CallData) (evalFn, error) {
	callee, err := fe.c.function(data.Callee)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && be.Span.Empty() && be.Func == data.Callee {
			be.Span = e.Span
		}
		return nil, err
	}
	args := make([]evalFn, len(data.Args))
	for i, a := range data.Args {
		if args[i], err = fe.emitExpr(a); err != nil {
			return nil, err
		}
	}
	caller, span := fe.src.Name, e.Span
	return func(fr *frame) (Value, error) {
		vals := make([]Value, len(args))
		for i, a := range args {
			v, err := a(fr)
			if err != nil {
				return Value{}, err
			}
			vals[i] = v
		}
		depth := fr.depth + 1
		if depth > MaxCallDepth {
			return Value{}, &Trap{Kind: TrapCallDepth, Message: "call depth exceeded calling " + callee.name, Span: span,
				Backtrace: []BacktraceFrame{{Func: caller, Span: span}}}
		}
		v, err := callee.invoke(vals, depth)
		if err != nil {
			var trap *Trap
			if errors.As(err, &trap) {
				trap.unwind(caller, span)
			}
			return Value{}, err
		}
		return v, nil
	}, nil
}
