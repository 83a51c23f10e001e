package types

import "strings"

// Param is a typed parameter; Self marks a method receiver.
type Param struct {
	Name string
	Type Type
	Self bool
}

// Fn describes a function or method signature.
type Fn struct {
	Params []Param
	Result Type // Void when the declaration has no `->`
}

func (*Fn) Kind() Kind { return KindFn }

func (f *Fn) String() string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Self {
			sb.WriteString("self")
			continue
		}
		sb.WriteString(Label(p.Type))
	}
	sb.WriteByte(')')
	if f.Result != nil && f.Result.Kind() != KindVoid {
		sb.WriteString(" -> ")
		sb.WriteString(f.Result.String())
	}
	return sb.String()
}

// HasSelf reports whether the first parameter is a receiver.
func (f *Fn) HasSelf() bool {
	return len(f.Params) > 0 && f.Params[0].Self
}

// Args returns the parameters a caller supplies explicitly.
func (f *Fn) Args() []Param {
	if f.HasSelf() {
		return f.Params[1:]
	}
	return f.Params
}

// ResultType returns the result, mapping nil to Void.
func (f *Fn) ResultType() Type {
	if f.Result == nil {
		return Void
	}
	return f.Result
}

// SameSignature compares parameter and result types; names are ignored.
// A receiver matches a receiver regardless of its recorded type, which lets
// a trait signature be compared against an impl method.
func (f *Fn) SameSignature(g *Fn) bool {
	if f == nil || g == nil {
		return f == g
	}
	if len(f.Params) != len(g.Params) {
		return false
	}
	for i := range f.Params {
		a, b := f.Params[i], g.Params[i]
		if a.Self != b.Self {
			return false
		}
		if a.Self {
			continue
		}
		if !Identical(a.Type, b.Type) {
			return false
		}
	}
	return Identical(f.ResultType(), g.ResultType())
}
