package hir

import (
	"strings"
	"testing"

	"raven/internal/ast"
	"raven/internal/types"
)

func TestDumpFunc(t *testing.T) {
	a := &Expr{Kind: ExprVarRef, Type: types.I64, Data: VarRefData{Name: "a"}}
	two := &Expr{Kind: ExprLiteral, Type: types.I64, Data: LiteralData{Kind: LiteralInt, Text: "2", IntValue: 2}}
	sum := &Expr{Kind: ExprBinaryOp, Type: types.I64, Data: BinaryOpData{Op: ast.OpAdd, Left: a, Right: two}}
	fn := &Func{
		Name:   "main::inc",
		Params: []Param{{Name: "a", Type: types.I64}},
		Result: types.I64,
		Body: &Block{Stmts: []Stmt{
			{Kind: StmtReturn, Data: ReturnData{Value: sum}},
		}},
	}

	var sb strings.Builder
	if err := DumpFunc(&sb, fn); err != nil {
		t.Fatalf("DumpFunc: %v", err)
	}
	want := "fn main::inc(a: i64) -> i64 {\n    return (a: i64 + 2: i64): i64;\n}\n"
	if sb.String() != want {
		t.Fatalf("dump mismatch:\n got: %q\nwant: %q", sb.String(), want)
	}
	if !fn.Body.EndsWithReturn() {
		t.Fatalf("EndsWithReturn = false")
	}
	if fn.IsVoid() {
		t.Fatalf("IsVoid = true")
	}
	if got := fn.Signature().String(); got != "fn(i64) -> i64" {
		t.Fatalf("Signature = %q", got)
	}
}

func TestFuncFlagsString(t *testing.T) {
	f := FuncEntrypoint | FuncImplicitReturn
	if got := f.String(); got != "@entrypoint @implicit_return " {
		t.Fatalf("flags = %q", got)
	}
}
