package ast

import (
	"io"
	"strconv"
	"strings"
)

// ExprString renders e as source text with every binary expression parenthesized.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

// Format renders the declarations of f back into canonical Raven source.
// Formatting a parsed file and parsing the output again yields the same tree.
func Format(w io.Writer, f *File) error {
	var b strings.Builder
	for i, d := range f.Decls {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeDecl(&b, d, "")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDecl(b *strings.Builder, d Decl, indent string) {
	switch d := d.(type) {
	case *FnDecl:
		writeFn(b, d, indent)
	case *StructDecl:
		b.WriteString(indent + "struct " + d.Name + " {\n")
		for _, fld := range d.Fields {
			b.WriteString(indent + "    " + fld.Name + ": " + fld.Type.String() + ",\n")
		}
		b.WriteString(indent + "}\n")
	case *TraitDecl:
		b.WriteString(indent + "trait " + d.Name + " {\n")
		for _, m := range d.Methods {
			writeFn(b, m, indent+"    ")
		}
		b.WriteString(indent + "}\n")
	case *ImplDecl:
		b.WriteString(indent + "impl " + d.Trait.String() + " for " + d.Target.String() + " {\n")
		for _, m := range d.Methods {
			writeFn(b, m, indent+"    ")
		}
		b.WriteString(indent + "}\n")
	}
}

func writeFn(b *strings.Builder, f *FnDecl, indent string) {
	b.WriteString(indent + "fn " + f.Name + "(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Self {
			b.WriteString("self")
			continue
		}
		b.WriteString(p.Name + ": " + p.Type.String())
	}
	b.WriteByte(')')
	if f.Result != nil {
		b.WriteString(" -> " + f.Result.String())
	}
	if f.Body == nil {
		b.WriteString(";\n")
		return
	}
	b.WriteString(" {\n")
	for _, s := range f.Body.Stmts {
		b.WriteString(indent + "    ")
		writeStmt(b, s)
		b.WriteByte('\n')
	}
	b.WriteString(indent + "}\n")
}

func writeStmt(b *strings.Builder, s Stmt) {
	switch s := s.(type) {
	case *LetStmt:
		b.WriteString("let " + s.Name)
		if s.Type != nil {
			b.WriteString(": " + s.Type.String())
		}
		b.WriteString(" = ")
		writeExpr(b, s.Value)
	case *ReturnStmt:
		b.WriteString("return")
		if s.Value != nil {
			b.WriteByte(' ')
			writeExpr(b, s.Value)
		}
	case *ExprStmt:
		writeExpr(b, s.X)
	}
	b.WriteByte(';')
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *IntLit:
		b.WriteString(strconv.FormatInt(e.Value, 10))
	case *FloatLit:
		if e.Text != "" {
			b.WriteString(e.Text)
		} else {
			b.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
		}
	case *PathExpr:
		b.WriteString(e.Path.String())
	case *BinaryExpr:
		b.WriteByte('(')
		writeExpr(b, e.X)
		b.WriteString(" " + e.Op.String() + " ")
		writeExpr(b, e.Y)
		b.WriteByte(')')
	case *NegExpr:
		b.WriteByte('-')
		writeExpr(b, e.X)
	case *CallExpr:
		b.WriteString(e.Callee.String())
		writeArgs(b, e.Args)
	case *MethodCallExpr:
		writeExpr(b, e.Recv)
		b.WriteString("." + e.Method)
		writeArgs(b, e.Args)
	case *FieldExpr:
		writeExpr(b, e.X)
		b.WriteString("." + e.Field)
	case *StructLitExpr:
		b.WriteString(e.Type.String() + " { ")
		for i, f := range e.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name + ": ")
			writeExpr(b, f.Value)
		}
		b.WriteString(" }")
	case *BadExpr:
		b.WriteString("<bad>")
	}
}

func writeArgs(b *strings.Builder, args []Expr) {
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, a)
	}
	b.WriteByte(')')
}
