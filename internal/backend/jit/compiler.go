// Package jit compiles finalized Raven functions into Go closures.
//
// A compiled function is a list of statement closures over a frame of
// value slots. The target is compiled when Compile is called; callees and
// struct types are compiled the first time something references them and
// memoized by fully qualified name.
package jit

import (
	"errors"
	"fmt"
	"slices"

	"raven/internal/diag"
	"raven/internal/hir"
	"raven/internal/source"
	"raven/internal/types"
)

// Compiler owns the backend state of one pipeline run. It is not safe for
// concurrent use.
type Compiler struct {
	types map[string]*Type
	funcs map[string]*function
	order []string

	srcFuncs   map[string]*hir.Func
	srcStructs map[string]*hir.Struct
}

// NewCompiler builds the fixed type table. This is the backend warm-up
// done before the front end finishes.
func NewCompiler() *Compiler {
	return &Compiler{
		types: newTypeTable(),
		funcs: make(map[string]*function),
	}
}

// Compile translates target and everything it reaches. An empty target
// yields no entry point and no error.
func (c *Compiler) Compile(target string, funcs map[string]*hir.Func, structs map[string]*hir.Struct) (*EntryPoint, error) {
	if target == "" {
		return nil, nil
	}
	c.srcFuncs = funcs
	c.srcStructs = structs
	fn, err := c.function(target)
	if err != nil {
		return nil, err
	}
	return &EntryPoint{Name: target, fn: fn}, nil
}

// Compiled returns the functions compiled so far, in completion order.
func (c *Compiler) Compiled() []string {
	return slices.Clone(c.order)
}

// Lookup returns the backend type called name if it is in the table.
func (c *Compiler) Lookup(name string) (*Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

type function struct {
	name   string
	span   source.Span
	params int
	slots  int
	result *Type
	body   []execFn
}

// function returns the compiled form of name, compiling it on first use.
// The memo entry is created before the body is translated, so a call
// cycle finds the entry in progress and links to it.
func (c *Compiler) function(name string) (*function, error) {
	if f, ok := c.funcs[name]; ok {
		return f, nil
	}
	src, ok := c.srcFuncs[name]
	if !ok || src == nil {
		return nil, &Error{Code: diag.BckMissingFunction, Func: name, Msg: "no checked body for function " + name}
	}
	f := &function{name: name, span: src.Span, params: len(src.Params)}
	c.funcs[name] = f
	if err := c.emitFunc(f, src); err != nil {
		return nil, err
	}
	c.order = append(c.order, name)
	return f, nil
}

// typeOf maps a checked type to the backend table. Structs enter the
// table on first reference.
func (c *Compiler) typeOf(t types.Type) (*Type, error) {
	if t == nil {
		return c.types["void"], nil
	}
	name := t.String()
	if bt, ok := c.types[name]; ok {
		return bt, nil
	}
	if _, ok := t.(*types.Struct); !ok {
		return nil, &Error{Code: diag.BckMissingType, Msg: "no backend type for " + name}
	}
	src, ok := c.srcStructs[name]
	if !ok || src == nil || src.Type == nil {
		return nil, &Error{Code: diag.BckMissingType, Msg: "unknown struct " + name}
	}
	bt := &Type{Name: name, Kind: types.KindStruct}
	c.types[name] = bt
	for _, f := range src.Type.Fields {
		ft, err := c.typeOf(f.Type)
		if err != nil {
			delete(c.types, name)
			return nil, err
		}
		bt.Fields = append(bt.Fields, ft)
	}
	return bt, nil
}

// invoke runs f with args in a fresh frame at the given call depth.
func (f *function) invoke(args []Value, depth int) (Value, error) {
	fr := &frame{slots: make([]Value, f.slots), depth: depth}
	copy(fr.slots, args)
	for _, s := range f.body {
		v, done, err := s(fr)
		if err != nil {
			return Value{}, err
		}
		if done {
			return v, nil
		}
	}
	return Value{}, nil
}

// EntryPoint is the compiled designated target.
type EntryPoint struct {
	Name string
	fn   *function
}

// Call runs the entry point. A void target yields 0. Runtime traps are
// returned as *Trap.
func (e *EntryPoint) Call() (ret int64, err error) {
	if e == nil || e.fn == nil {
		return 0, errors.New("jit: nil entry point")
	}
	defer func() {
		if r := recover(); r != nil {
			err = &Trap{Kind: TrapInternal, Message: fmt.Sprint(r), Span: e.fn.span}
		}
	}()
	v, err := e.fn.invoke(nil, 1)
	if err != nil {
		return 0, err
	}
	return v.I, nil
}
