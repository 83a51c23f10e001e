package hir

import (
	"raven/internal/source"
	"raven/internal/types"
)

// FuncFlags represents function properties as a bitmask.
type FuncFlags uint32

const (
	// FuncEntrypoint marks the designated compile target.
	FuncEntrypoint FuncFlags = 1 << iota
	// FuncMethod marks an impl method.
	FuncMethod
	// FuncImplicitReturn is set when the body of a void function got a
	// synthesized trailing return.
	FuncImplicitReturn
)

// HasFlag returns true if the given flag is set.
func (f FuncFlags) HasFlag(flag FuncFlags) bool {
	return f&flag != 0
}

// String returns a human-readable representation of flags.
func (f FuncFlags) String() string {
	s := ""
	if f.HasFlag(FuncEntrypoint) {
		s += "@entrypoint "
	}
	if f.HasFlag(FuncMethod) {
		s += "@method "
	}
	if f.HasFlag(FuncImplicitReturn) {
		s += "@implicit_return "
	}
	return s
}

// Param represents a function parameter.
type Param struct {
	Name string
	Type types.Type
	Self bool
	Span source.Span
}

// Func is a finalized function: resolved signature and a typed body.
type Func struct {
	Name   string // fully qualified
	Module string
	Span   source.Span
	Params []Param
	Result types.Type // types.Void when the declaration has no `->`
	Flags  FuncFlags
	Body   *Block
}

// Signature returns the function type of f.
func (f *Func) Signature() *types.Fn {
	params := make([]types.Param, len(f.Params))
	for i, p := range f.Params {
		params[i] = types.Param{Name: p.Name, Type: p.Type, Self: p.Self}
	}
	return &types.Fn{Params: params, Result: f.Result}
}

// HasBody returns true if this function has a body.
func (f *Func) HasBody() bool {
	return f.Body != nil
}

// IsVoid reports whether f returns nothing.
func (f *Func) IsVoid() bool {
	return f.Result == nil || f.Result.Kind() == types.KindVoid
}

// Struct is a finalized struct declaration.
type Struct struct {
	Name string
	Span source.Span
	Type *types.Struct
}
