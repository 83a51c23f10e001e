package parser

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/symbols"
	"raven/internal/testkit"
)

const sample = `// geometry
struct Point {
    x: i64,
    y: i64,
}

trait Shape {
    fn area(self) -> i64;
    fn scale(self, k: i64) -> Point;
}

impl Shape for Point {
    fn area(self) -> i64 {
        return self.x * self.y;
    }
    fn scale(self, k: i64) -> Point {
        return Point { x: self.x * k, y: self.y * k };
    }
}

/* entry /* nested */ point */
fn main() -> i64 {
    let p: Point = Point { x: 2, y: 3 };
    let q = p.scale(2);
    return q.x + math::ops::add(1, -2) * 3;
}
`

func TestParseSampleRegistersEverything(t *testing.T) {
	reg := symbols.NewRegistry()
	got := parseWith(t, reg, "main.rv", sample)
	if len(got.res.Errors) != 0 {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(got.res.Errors))
	}

	want := []string{
		"main::Point",
		"main::Shape",
		"main::impl(Shape for Point)",
		"main::Point::area",
		"main::Point::scale",
		"main::main",
	}
	if diff := cmp.Diff(want, fqns(got.res.Decls)); diff != "" {
		t.Fatalf("registered decls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, fqns(got.spawned)); diff != "" {
		t.Fatalf("spawned decls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, reg.Names(), cmpSorted()); diff != "" {
		t.Fatalf("registry names mismatch (-want +got):\n%s", diff)
	}

	sym, ok := reg.Lookup("main::Point::scale")
	if !ok || sym.Kind != symbols.SymbolMethod || sym.State != symbols.Unresolved {
		t.Fatalf("scale symbol = %+v, %v", sym, ok)
	}
	scale := sym.Decl.(*ast.FnDecl)
	if scale.Receiver != "main::Point" || !scale.HasSelf() || len(scale.Params) != 2 {
		t.Fatalf("scale decl = %+v", scale)
	}

	if err := testkit.CheckSpanInvariants(got.res.File, got.sf); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}

func cmpSorted() cmp.Option {
	return cmp.Transformer("sorted", func(in []string) []string {
		out := slices.Clone(in)
		slices.Sort(out)
		return out
	})
}

func TestModuleNameFromPath(t *testing.T) {
	got := parseWith(t, nil, "math/ops.rv", "fn add(a: i64, b: i64) -> i64 { return a + b; }")
	if len(got.res.File.Decls) != 1 {
		t.Fatalf("decls = %d", len(got.res.File.Decls))
	}
	if fqn := got.res.File.Decls[0].Info().FQN; fqn != "math::ops::add" {
		t.Fatalf("FQN = %q", fqn)
	}
	// without a registry nothing is registered or spawned
	if len(got.res.Decls) != 0 || len(got.spawned) != 0 {
		t.Fatalf("nothing should be registered without a registry")
	}
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"-a * b", "(-a * b)"},
		{"-(a + b) % 4", "(-(a + b) % 4)"},
		{"a.b.c(1, 2).d", "a.b.c(1, 2).d"},
		{"-p.x", "-p.x"},
		{"f(g(1), 2.5e1)", "f(g(1), 2.5e1)"},
		{"geo::Point { x: 1, y: 2 }.x", "geo::Point { x: 1, y: 2 }.x"},
		{"8 / 2 / 2", "((8 / 2) / 2)"},
	}
	for _, tt := range tests {
		got := parseSource(t, "fn f() { "+tt.src+"; }")
		if len(got.res.Errors) != 0 {
			t.Errorf("%q: unexpected errors: %s", tt.src, diagnosticsSummary(got.res.Errors))
			continue
		}
		fn := got.res.File.Decls[0].(*ast.FnDecl)
		stmt := fn.Body.Stmts[0].(*ast.ExprStmt)
		if s := ast.ExprString(stmt.X); s != tt.want {
			t.Errorf("%q parsed as %q, want %q", tt.src, s, tt.want)
		}
	}
}

func TestMissingSemicolonKeepsDeclaration(t *testing.T) {
	src := `fn a() -> i64 {
    let x = 1
    return x;
}
fn b() -> i64 { return 2; }
`
	got := parseSource(t, src)
	if diff := cmp.Diff([]diag.Code{diag.SynExpectSemicolon}, codes(got.res.Errors)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s\n%s", diff, diagnosticsSummary(got.res.Errors))
	}
	// the error sits right after `1`, not on the next line
	d := got.res.Errors[0]
	if start, _ := got.fs.Resolve(d.Primary); start.Line != 2 {
		t.Fatalf("error reported on line %d", start.Line)
	}
	wantFix := []diag.Fix{{Title: "insert ';'", Edits: []diag.FixEdit{{Span: d.Primary, NewText: ";"}}}}
	if diff := cmp.Diff(wantFix, d.Fixes); diff != "" {
		t.Fatalf("fix mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"main::a", "main::b"}, fqns(got.res.Decls)); diff != "" {
		t.Fatalf("decls mismatch (-want +got):\n%s", diff)
	}
	a := got.res.Decls[0].(*ast.FnDecl)
	b := got.res.Decls[1].(*ast.FnDecl)
	if !a.Bad || b.Bad {
		t.Fatalf("Bad flags: a=%v b=%v", a.Bad, b.Bad)
	}
	if len(a.Body.Stmts) != 2 {
		t.Fatalf("recovered statements = %d, want 2", len(a.Body.Stmts))
	}
}

func TestTopLevelResync(t *testing.T) {
	src := "let x = 1;\n42 garbage\nfn ok() {}\n"
	got := parseSource(t, src)
	if diff := cmp.Diff([]diag.Code{diag.SynUnexpectedTopLevel}, codes(got.res.Errors)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"main::ok"}, fqns(got.res.Decls)); diff != "" {
		t.Fatalf("decls mismatch (-want +got):\n%s", diff)
	}
}

func TestUnclosedBraceStopsAtNextItem(t *testing.T) {
	src := "fn f() {\n    let x = 1;\nfn g() {}\n"
	got := parseSource(t, src)
	if diff := cmp.Diff([]diag.Code{diag.SynUnclosedBrace}, codes(got.res.Errors)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if len(got.res.Errors[0].Notes) != 1 {
		t.Fatalf("expected a note pointing at the opening brace")
	}
	if diff := cmp.Diff([]string{"main::f", "main::g"}, fqns(got.res.Decls)); diff != "" {
		t.Fatalf("decls mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidCharactersMarkDeclBad(t *testing.T) {
	got := parseSource(t, "fn f() -> i64 { return 1 + @2; }\nfn g() {}\n")
	if diff := cmp.Diff([]diag.Code{diag.LexUnknownChar}, codes(got.res.Errors)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	f := got.res.Decls[0].(*ast.FnDecl)
	g := got.res.Decls[1].(*ast.FnDecl)
	if !f.Bad || g.Bad {
		t.Fatalf("Bad flags: f=%v g=%v", f.Bad, g.Bad)
	}
	ret := f.Body.Stmts[0].(*ast.ReturnStmt)
	if s := ast.ExprString(ret.Value); s != "(1 + 2)" {
		t.Fatalf("invalid characters should be skipped, got %q", s)
	}
}

func TestBadNumberIsBadExpr(t *testing.T) {
	got := parseSource(t, "fn f() -> i64 { return 99999999999999999999; }")
	if diff := cmp.Diff([]diag.Code{diag.LexBadNumber}, codes(got.res.Errors)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	f := got.res.Decls[0].(*ast.FnDecl)
	if !f.Bad {
		t.Fatalf("decl with a bad literal must be marked Bad")
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	reg := symbols.NewRegistry()
	got := parseWith(t, reg, "main.rv", "fn f() {}\nstruct f { x: i64 }\n")
	items := got.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaDuplicateSymbol {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(items))
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Msg != "previous declaration here" {
		t.Fatalf("notes = %+v", items[0].Notes)
	}
	// duplicates are not scheduled
	if diff := cmp.Diff([]string{"main::f"}, fqns(got.spawned)); diff != "" {
		t.Fatalf("spawned mismatch (-want +got):\n%s", diff)
	}
	sym, _ := reg.Lookup("main::f")
	if sym.Kind != symbols.SymbolFunction {
		t.Fatalf("first declaration must win, got %s", sym.Kind)
	}
	// syntax error list does not include semantic diagnostics
	if len(got.res.Errors) != 0 {
		t.Fatalf("Result.Errors = %s", diagnosticsSummary(got.res.Errors))
	}
}

func TestSelfOutsideMethod(t *testing.T) {
	got := parseSource(t, "fn f(self) {}")
	if diff := cmp.Diff([]diag.Code{diag.SynUnexpectedToken}, codes(got.res.Errors)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingNameIsNotRegistered(t *testing.T) {
	got := parseSource(t, "fn (a: i64) {}\nfn ok() {}")
	if diff := cmp.Diff([]diag.Code{diag.SynExpectIdentifier}, codes(got.res.Errors)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"main::ok"}, fqns(got.res.Decls)); diff != "" {
		t.Fatalf("decls mismatch (-want +got):\n%s", diff)
	}
}

func TestParserTerminatesOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"fn",
		"fn f(",
		"fn f() -> { }",
		"struct S { x: , y i64 z: }",
		"impl for {",
		"impl T for S { let }",
		"trait T { fn a(self) { } }",
		"fn f() { let = ; return (1 + ; g(1, ; S { a: } }",
		"}}}} ))) ;;; fn g() {}",
		strings.Repeat("(", 50),
	}
	for _, in := range inputs {
		_ = parseSource(t, in)
	}
}
