package types

import "fmt"

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindInt
	KindFloat
	KindStruct
	KindFn
	KindTrait
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStruct:
		return "struct"
	case KindFn:
		return "fn"
	case KindTrait:
		return "trait"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is implemented by every finalized type descriptor.
// Descriptors are immutable once published, so they are shared between
// resolution units without locking.
type Type interface {
	Kind() Kind
	String() string
}

// Basic is a built-in scalar type.
type Basic struct {
	kind Kind
	name string
}

func (b *Basic) Kind() Kind     { return b.kind }
func (b *Basic) String() string { return b.name }

var (
	Invalid = &Basic{kind: KindInvalid, name: "<invalid>"}
	Void    = &Basic{kind: KindVoid, name: "void"}
	I64     = &Basic{kind: KindInt, name: "i64"}
	F64     = &Basic{kind: KindFloat, name: "f64"}
)

var builtins = map[string]*Basic{
	"i64":  I64,
	"f64":  F64,
	"void": Void,
}

// Builtin returns the built-in type called name.
func Builtin(name string) (*Basic, bool) {
	b, ok := builtins[name]
	return b, ok
}

// IsBuiltinName reports whether name is reserved for a built-in type.
func IsBuiltinName(name string) bool {
	_, ok := builtins[name]
	return ok
}

// IsValue reports whether values of t can be stored in a variable.
func IsValue(t Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case KindInt, KindFloat, KindStruct:
		return true
	default:
		return false
	}
}

// Identical reports whether a and b denote the same type.
// Structs are nominal: two descriptors are identical when they carry the
// same fully qualified name.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Basic:
		return true
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x.Name == y.Name
	case *Trait:
		y, ok := b.(*Trait)
		return ok && x.Name == y.Name
	case *Fn:
		y, ok := b.(*Fn)
		return ok && x.SameSignature(y)
	}
	return false
}

// Label returns the user-facing spelling of t.
func Label(t Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}
