package ast

import "raven/internal/source"

// File is the parse result of one source file.
type File struct {
	ID     source.FileID
	Path   string
	Module string
	Span   source.Span
	Decls  []Decl
}

// Path is a `::`-separated name such as `math::ops::add`.
type Path struct {
	Segments []string
	Span     source.Span
}

func (p Path) String() string {
	switch len(p.Segments) {
	case 0:
		return ""
	case 1:
		return p.Segments[0]
	}
	n := 0
	for _, s := range p.Segments {
		n += len(s) + 2
	}
	buf := make([]byte, 0, n)
	for i, s := range p.Segments {
		if i > 0 {
			buf = append(buf, ':', ':')
		}
		buf = append(buf, s...)
	}
	return string(buf)
}

// Qualified reports whether the path names a module explicitly.
func (p Path) Qualified() bool { return len(p.Segments) > 1 }

// Qualify builds the fully qualified name of name inside module.
func Qualify(module, name string) string {
	if module == "" {
		return name
	}
	return module + "::" + name
}

// Resolve returns the fully qualified name p refers to from module:
// qualified paths are taken literally, bare names live in module.
func (p Path) Resolve(module string) string {
	if p.Qualified() {
		return p.String()
	}
	return Qualify(module, p.String())
}
