package ast

import "raven/internal/source"

// DeclInfo carries what every registered declaration shares.
type DeclInfo struct {
	FQN      string
	Module   string
	Name     string
	NameSpan source.Span
	Span     source.Span
	// Bad is set when the declaration contained syntax errors; the resolver
	// fails it silently so that dependents do not cascade.
	Bad bool
}

func (d *DeclInfo) Info() *DeclInfo { return d }

// Decl is a top-level declaration or an impl method.
type Decl interface {
	Info() *DeclInfo
	declNode()
}

type Param struct {
	Name string
	Self bool
	Type *Path // nil for `self`
	Span source.Span
}

type FnDecl struct {
	DeclInfo
	Params []Param
	Result *Path  // nil: void
	Body   *Block // nil for trait method signatures
	// Receiver is the struct FQN for impl methods, "" otherwise.
	Receiver string
}

type Field struct {
	Name string
	Type Path
	Span source.Span
}

type StructDecl struct {
	DeclInfo
	Fields []Field
}

type TraitDecl struct {
	DeclInfo
	Methods []*FnDecl
}

type ImplDecl struct {
	DeclInfo
	Trait   Path
	Target  Path
	Methods []*FnDecl
}

func (*FnDecl) declNode()     {}
func (*StructDecl) declNode() {}
func (*TraitDecl) declNode()  {}
func (*ImplDecl) declNode()   {}

// HasSelf reports whether the first parameter is `self`.
func (f *FnDecl) HasSelf() bool {
	return len(f.Params) > 0 && f.Params[0].Self
}
