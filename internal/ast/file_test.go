package ast

import "testing"

func TestPathResolve(t *testing.T) {
	cases := []struct {
		segs   []string
		module string
		want   string
	}{
		{[]string{"add"}, "math::ops", "math::ops::add"},
		{[]string{"util", "helper"}, "main", "util::helper"},
		{[]string{"main"}, "", "main"},
	}
	for _, tc := range cases {
		p := Path{Segments: tc.segs}
		if got := p.Resolve(tc.module); got != tc.want {
			t.Errorf("Resolve(%v, %q) = %q, want %q", tc.segs, tc.module, got, tc.want)
		}
	}
}

func TestExprString(t *testing.T) {
	e := &BinaryExpr{
		Op: OpAdd,
		X:  &IntLit{Value: 1},
		Y: &BinaryExpr{
			Op: OpMul,
			X:  &NegExpr{X: &PathExpr{Path: Path{Segments: []string{"x"}}}},
			Y:  &CallExpr{Callee: Path{Segments: []string{"m", "f"}}, Args: []Expr{&FloatLit{Value: 2.5}}},
		},
	}
	if got := ExprString(e); got != "(1 + (-x * m::f(2.5)))" {
		t.Fatalf("ExprString = %q", got)
	}
}
