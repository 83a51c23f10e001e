package ast

import "raven/internal/source"

type Block struct {
	Stmts []Stmt
	Span  source.Span
}

type Stmt interface {
	StmtSpan() source.Span
	stmtNode()
}

type LetStmt struct {
	Name     string
	NameSpan source.Span
	Type     *Path // optional annotation
	Value    Expr
	Span     source.Span
}

type ReturnStmt struct {
	Value Expr // nil for bare `return;`
	Span  source.Span
}

type ExprStmt struct {
	X    Expr
	Span source.Span
}

func (s *LetStmt) StmtSpan() source.Span    { return s.Span }
func (s *ReturnStmt) StmtSpan() source.Span { return s.Span }
func (s *ExprStmt) StmtSpan() source.Span   { return s.Span }

func (*LetStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
