package jit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/hir"
	"raven/internal/parser"
	"raven/internal/sched"
	"raven/internal/sema"
	"raven/internal/source"
	"raven/internal/symbols"
	"raven/internal/types"
)

// frontEnd parses and checks path/source pairs and returns the compile arena.
func frontEnd(t *testing.T, files ...string) *symbols.Arena {
	t.Helper()
	reg := symbols.NewRegistry()
	c := sched.New(sched.Options{OnStall: func() { reg.Quiesce() }})
	res := sema.NewResolver(reg, c)
	fs := source.NewFileSet()
	release := c.Hold()
	for i := 0; i+1 < len(files); i += 2 {
		id := fs.AddVirtual(files[i], []byte(files[i+1]))
		c.Spawn(context.Background(), "parse", func(ctx context.Context) error {
			parser.ParseFile(ctx, fs, id, reg, parser.Options{
				Reporter: reg,
				Spawn:    func(d ast.Decl) { res.Spawn(ctx, d) },
			})
			return nil
		})
	}
	release()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.JoinAll(ctx))
	require.Empty(t, reg.Errors())
	return reg.Arena()
}

func compile(t *testing.T, target string, files ...string) (*Compiler, *EntryPoint, error) {
	t.Helper()
	arena := frontEnd(t, files...)
	c := NewCompiler()
	ep, err := c.Compile(target, arena.Funcs, arena.Structs)
	return c, ep, err
}

func run(t *testing.T, src string) int64 {
	t.Helper()
	_, ep, err := compile(t, "main::main", "main.rv", src)
	require.NoError(t, err)
	require.NotNil(t, ep)
	got, err := ep.Call()
	require.NoError(t, err)
	return got
}

func TestReturnSum(t *testing.T) {
	require.Equal(t, int64(5), run(t, "fn main() -> i64 { return 2 + 3; }"))
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"2 + 3 * 4 - 10 / 3", 11},
		{"(2 + 3) * 4", 20},
		{"-7 % 3", -1},
		{"-(7 % 3)", -1},
		{"7 / -2", -3},
		{"9223372036854775807 + 1", -9223372036854775808},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			require.Equal(t, tt.want, run(t, "fn main() -> i64 { return "+tt.expr+"; }"))
		})
	}
}

func TestLetsCallsAndStructs(t *testing.T) {
	_, ep, err := compile(t, "main::main",
		"main.rv", `
fn main() -> i64 {
    let a = geo::Point { y: 4, x: 3 };
    let b = geo::Point { x: 1, y: 2 };
    let d = geo::dot(a, b);
    let d = d * 10;
    return d + a.y;
}
`,
		"geo.rv", `
struct Point { x: i64, y: i64 }
fn dot(a: Point, b: Point) -> i64 { return a.x * b.x + a.y * b.y; }
`)
	require.NoError(t, err)
	got, err := ep.Call()
	require.NoError(t, err)
	require.Equal(t, int64(114), got)
}

func TestFloatsAndVoidTarget(t *testing.T) {
	got := run(t, `
fn half(x: f64) -> f64 { return x / 2.0; }
fn main() { let h = half(3.0) * -1.5; }
`)
	require.Zero(t, got)
}

func TestLazyCompilation(t *testing.T) {
	c, _, err := compile(t, "main::main", "main.rv", `
fn sq(x: i64) -> i64 { return x * x; }
fn unused() -> i64 { return 1; }
fn main() -> i64 { return sq(3) + sq(4); }
`)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"main::sq", "main::main"}, c.Compiled()); diff != "" {
		t.Fatalf("compiled set mismatch (-want +got):\n%s", diff)
	}

	_, ok := c.Lookup("i64")
	require.True(t, ok)
}

func TestMutualRecursionCompiles(t *testing.T) {
	c, ep, err := compile(t, "main::even", "main.rv", `
fn even(n: i64) -> i64 { return odd(n - 1); }
fn odd(n: i64) -> i64 { return even(n - 1); }
`)
	require.NoError(t, err)
	require.NotNil(t, ep)
	require.ElementsMatch(t, []string{"main::even", "main::odd"}, c.Compiled())

	// без ветвлений рекурсия бесконечна: срабатывает ловушка глубины
	_, err = ep.Call()
	var trap *Trap
	require.ErrorAs(t, err, &trap)
	require.Equal(t, TrapCallDepth, trap.Kind)
	require.Len(t, trap.Backtrace, maxBacktrace)
}

func TestDivisionByZeroTrap(t *testing.T) {
	_, ep, err := compile(t, "main::main", "main.rv", `
fn div(a: i64, b: i64) -> i64 { return a / b; }
fn main() -> i64 { return div(1, 0); }
`)
	require.NoError(t, err)
	_, err = ep.Call()
	var trap *Trap
	require.ErrorAs(t, err, &trap)
	require.Equal(t, TrapDivisionByZero, trap.Kind)
	require.Equal(t, "trap: integer division by zero", trap.Error())
	require.Len(t, trap.Backtrace, 1)
	require.Equal(t, "main::main", trap.Backtrace[0].Func)
}

func TestRemainderByZeroTrap(t *testing.T) {
	_, ep, err := compile(t, "main::main", "main.rv", "fn main() -> i64 { let z = 0; return 5 % z; }")
	require.NoError(t, err)
	_, err = ep.Call()
	var trap *Trap
	require.ErrorAs(t, err, &trap)
	require.Equal(t, TrapDivisionByZero, trap.Kind)
}

func TestMethodCallsAreNotImplemented(t *testing.T) {
	_, ep, err := compile(t, "main::main", "main.rv", `
trait Shape { fn area(self) -> i64; }
struct Sq { s: i64 }
impl Shape for Sq { fn area(self) -> i64 { return self.s * self.s; } }
fn main() -> i64 { let q = Sq { s: 2 }; return q.area(); }
`)
	require.Nil(t, ep)
	var be *Error
	require.ErrorAs(t, err, &be)
	require.Equal(t, diag.BckNotImplemented, be.Code)
	require.Equal(t, "main::main", be.Func)
}

func TestNoTarget(t *testing.T) {
	ep, err := NewCompiler().Compile("", nil, nil)
	require.NoError(t, err)
	require.Nil(t, ep)
}

func lit(v int64) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprLiteral, Type: types.I64, Data: hir.LiteralData{Kind: hir.LiteralInt, IntValue: v}}
}

func TestAuthoringErrors(t *testing.T) {
	point := types.NewStruct("geo::Point", []types.Field{{Name: "x", Type: types.I64}})
	tests := []struct {
		name string
		fn   *hir.Func
		code diag.Code
	}{
		{
			name: "missing return",
			fn: &hir.Func{Name: "main::main", Result: types.I64, Body: &hir.Block{Stmts: []hir.Stmt{
				{Kind: hir.StmtExpr, Data: hir.ExprStmtData{Expr: lit(1)}},
			}}},
			code: diag.BckMissingReturn,
		},
		{
			name: "unknown variable",
			fn: &hir.Func{Name: "main::main", Result: types.I64, Body: &hir.Block{Stmts: []hir.Stmt{
				{Kind: hir.StmtReturn, Data: hir.ReturnData{Value: &hir.Expr{
					Kind: hir.ExprVarRef, Type: types.I64, Data: hir.VarRefData{Name: "ghost"},
				}}},
			}}},
			code: diag.BckUnknownVariable,
		},
		{
			name: "missing struct type",
			fn: &hir.Func{Name: "main::main", Result: types.Void, Body: &hir.Block{Stmts: []hir.Stmt{
				{Kind: hir.StmtExpr, Data: hir.ExprStmtData{Expr: &hir.Expr{
					Kind: hir.ExprStructLit, Type: point,
					Data: hir.StructLitData{TypeName: "geo::Point", Fields: []hir.StructFieldInit{{Name: "x", Value: lit(1)}}},
				}}},
			}}},
			code: diag.BckMissingType,
		},
		{
			name: "unknown callee",
			fn: &hir.Func{Name: "main::main", Result: types.I64, Body: &hir.Block{Stmts: []hir.Stmt{
				{Kind: hir.StmtReturn, Data: hir.ReturnData{Value: &hir.Expr{
					Kind: hir.ExprCall, Type: types.I64, Data: hir.CallData{Callee: "main::nope"},
				}}},
			}}},
			code: diag.BckMissingFunction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := NewCompiler().Compile("main::main", map[string]*hir.Func{"main::main": tt.fn}, nil)
			require.Nil(t, ep)
			var be *Error
			require.True(t, errors.As(err, &be), "got %v", err)
			require.Equal(t, tt.code, be.Code)
			require.Equal(t, tt.code, be.Diagnostic().Code)
		})
	}
}

func TestStructsEnterTableLazily(t *testing.T) {
	c, _, err := compile(t, "main::main", "main.rv", `
struct Used { a: i64 }
struct Unused { b: f64 }
fn main() -> i64 { let u = Used { a: 7 }; return u.a; }
`)
	require.NoError(t, err)
	_, ok := c.Lookup("main::Used")
	require.True(t, ok)
	_, ok = c.Lookup("main::Unused")
	require.False(t, ok)
}
