package types

import "strings"

// Field is one named member of a struct, in declaration order.
type Field struct {
	Name string
	Type Type
}

// Struct is a nominal record type identified by its fully qualified name.
type Struct struct {
	Name   string
	Fields []Field
	index  map[string]int
}

// NewStruct builds a struct descriptor. Field names must be unique.
func NewStruct(name string, fields []Field) *Struct {
	st := &Struct{
		Name:   name,
		Fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		st.index[f.Name] = i
	}
	return st
}

func (*Struct) Kind() Kind { return KindStruct }

func (s *Struct) String() string { return s.Name }

// FieldIndex returns the position of the named field.
func (s *Struct) FieldIndex(name string) (int, bool) {
	if s == nil {
		return -1, false
	}
	i, ok := s.index[name]
	return i, ok
}

// Describe renders the struct with its fields, e.g. `geo::Point { x: i64, y: i64 }`.
func (s *Struct) Describe() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteString(" {")
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(Label(f.Type))
	}
	sb.WriteString(" }")
	return sb.String()
}
