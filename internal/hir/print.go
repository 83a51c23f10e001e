//nolint:errcheck // Type assertions are checked by construction
package hir

import (
	"fmt"
	"io"
	"strings"

	"raven/internal/types"
)

// Printer is used to dump HIR to text format.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new HIR printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// DumpFunc writes a formatted function to w.
func DumpFunc(w io.Writer, f *Func) error {
	return NewPrinter(w).PrintFunc(f)
}

// PrintStruct prints a struct declaration.
func (p *Printer) PrintStruct(s *Struct) error {
	p.printf("struct %s\n", s.Type.Describe())
	return p.err
}

// PrintFunc prints a function.
func (p *Printer) PrintFunc(f *Func) error {
	p.printf("%sfn %s(", f.Flags.String(), f.Name)
	for i, param := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		if param.Self {
			p.printf("self: %s", types.Label(param.Type))
			continue
		}
		p.printf("%s: %s", param.Name, types.Label(param.Type))
	}
	p.printf(")")
	if !f.IsVoid() {
		p.printf(" -> %s", types.Label(f.Result))
	}
	if f.Body != nil {
		p.printf(" {\n")
		p.indent++
		for i := range f.Body.Stmts {
			p.printStmt(&f.Body.Stmts[i])
		}
		p.indent--
		p.printf("}")
	}
	p.printf("\n")
	return p.err
}

func (p *Printer) printStmt(s *Stmt) {
	p.printIndent()
	switch s.Kind {
	case StmtLet:
		data := s.Data.(LetData)
		p.printf("let %s: %s = ", data.Name, types.Label(data.Type))
		p.printExpr(data.Value)
	case StmtExpr:
		data := s.Data.(ExprStmtData)
		p.printExpr(data.Expr)
	case StmtReturn:
		data := s.Data.(ReturnData)
		p.printf("return")
		if data.Value != nil {
			p.printf(" ")
			p.printExpr(data.Value)
		}
		if data.Implicit {
			p.printf(" /* implicit */")
		}
	}
	p.printf(";\n")
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>")
		return
	}
	switch e.Kind {
	case ExprLiteral:
		data := e.Data.(LiteralData)
		p.printf("%s", data.Text)
	case ExprVarRef:
		data := e.Data.(VarRefData)
		p.printf("%s", data.Name)
	case ExprNeg:
		data := e.Data.(NegData)
		p.printf("-")
		p.printExpr(data.Operand)
	case ExprBinaryOp:
		data := e.Data.(BinaryOpData)
		p.printf("(")
		p.printExpr(data.Left)
		p.printf(" %s ", data.Op)
		p.printExpr(data.Right)
		p.printf(")")
	case ExprCall:
		data := e.Data.(CallData)
		p.printf("%s(", data.Callee)
		p.printArgs(data.Args)
		p.printf(")")
	case ExprMethodCall:
		data := e.Data.(MethodCallData)
		p.printExpr(data.Recv)
		p.printf(".<%s>(", data.Method)
		p.printArgs(data.Args)
		p.printf(")")
	case ExprFieldAccess:
		data := e.Data.(FieldAccessData)
		p.printExpr(data.Object)
		p.printf(".%s", data.FieldName)
	case ExprStructLit:
		data := e.Data.(StructLitData)
		parts := make([]string, 0, len(data.Fields))
		for _, f := range data.Fields {
			var sb strings.Builder
			sub := &Printer{w: &sb}
			sub.printExpr(f.Value)
			parts = append(parts, f.Name+": "+sb.String())
		}
		p.printf("%s { %s }", data.TypeName, strings.Join(parts, ", "))
	}
	p.printf(": %s", types.Label(e.Type))
}

func (p *Printer) printArgs(args []*Expr) {
	for i, a := range args {
		if i > 0 {
			p.printf(", ")
		}
		p.printExpr(a)
	}
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("    ", p.indent))
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
