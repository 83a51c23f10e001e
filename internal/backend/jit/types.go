package jit

import (
	"errors"

	"raven/internal/ast"
	"raven/internal/types"
)

var errDivisionByZero = errors.New("integer division by zero")

type (
	binaryOp func(a, b Value) (Value, error)
	unaryOp  func(a Value) Value
)

// Type is the backend view of a Raven type: its layout and the
// operators defined on it.
type Type struct {
	Name   string
	Kind   types.Kind
	Fields []*Type // structs only, in declaration order
	binary map[ast.BinaryOp]binaryOp
	neg    unaryOp
}

func newTypeTable() map[string]*Type {
	return map[string]*Type{
		"i64":  intType(),
		"f64":  floatType(),
		"void": {Name: "void", Kind: types.KindVoid},
	}
}

// Целочисленная арифметика с переполнением по модулю 2^64, как в Go.
func intType() *Type {
	return &Type{
		Name: "i64",
		Kind: types.KindInt,
		binary: map[ast.BinaryOp]binaryOp{
			ast.OpAdd: func(a, b Value) (Value, error) { return Value{I: a.I + b.I}, nil },
			ast.OpSub: func(a, b Value) (Value, error) { return Value{I: a.I - b.I}, nil },
			ast.OpMul: func(a, b Value) (Value, error) { return Value{I: a.I * b.I}, nil },
			ast.OpDiv: func(a, b Value) (Value, error) {
				if b.I == 0 {
					return Value{}, errDivisionByZero
				}
				return Value{I: a.I / b.I}, nil
			},
			ast.OpRem: func(a, b Value) (Value, error) {
				if b.I == 0 {
					return Value{}, errDivisionByZero
				}
				return Value{I: a.I % b.I}, nil
			},
		},
		neg: func(a Value) Value { return Value{I: -a.I} },
	}
}

func floatType() *Type {
	return &Type{
		Name: "f64",
		Kind: types.KindFloat,
		binary: map[ast.BinaryOp]binaryOp{
			ast.OpAdd: func(a, b Value) (Value, error) { return Value{F: a.F + b.F}, nil },
			ast.OpSub: func(a, b Value) (Value, error) { return Value{F: a.F - b.F}, nil },
			ast.OpMul: func(a, b Value) (Value, error) { return Value{F: a.F * b.F}, nil },
			ast.OpDiv: func(a, b Value) (Value, error) { return Value{F: a.F / b.F}, nil },
		},
		neg: func(a Value) Value { return Value{F: -a.F} },
	}
}
