package symbols

import (
	"raven/internal/ast"
	"raven/internal/source"
	"raven/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolMethod
	SymbolStruct
	SymbolTrait
	SymbolImpl
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolMethod:
		return "method"
	case SymbolStruct:
		return "struct"
	case SymbolTrait:
		return "trait"
	case SymbolImpl:
		return "impl"
	default:
		return "invalid"
	}
}

// IsType reports whether symbols of kind k name a type.
func (k SymbolKind) IsType() bool {
	return k == SymbolStruct
}

// IsCallable reports whether symbols of kind k can be called.
func (k SymbolKind) IsCallable() bool {
	return k == SymbolFunction || k == SymbolMethod
}

// State is the resolution state of a symbol. Transitions only move forward:
// Unresolved -> Resolving -> Finalized | Failed.
type State uint8

const (
	Unresolved State = iota
	Resolving
	Finalized
	Failed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Finalized:
		return "finalized"
	case Failed:
		return "failed"
	default:
		return "invalid"
	}
}

// Symbol is a snapshot of one registry entry.
type Symbol struct {
	Name   string // fully qualified
	Kind   SymbolKind
	State  State
	Module string
	Span   source.Span
	Decl   ast.Decl
	// Value is the finalized descriptor: *types.Fn for functions and
	// methods, *types.Struct, *types.Trait; nil for impls.
	Value types.Type
}

// Fn returns the finalized signature of a function or method.
func (s *Symbol) Fn() (*types.Fn, bool) {
	fn, ok := s.Value.(*types.Fn)
	return fn, ok
}

// Struct returns the finalized struct descriptor.
func (s *Symbol) Struct() (*types.Struct, bool) {
	st, ok := s.Value.(*types.Struct)
	return st, ok
}

// Trait returns the finalized trait descriptor.
func (s *Symbol) Trait() (*types.Trait, bool) {
	tr, ok := s.Value.(*types.Trait)
	return tr, ok
}
