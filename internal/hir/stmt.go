package hir

import (
	"raven/internal/source"
	"raven/internal/types"
)

// StmtKind enumerates HIR statement kinds.
type StmtKind uint8

const (
	// StmtLet represents variable declaration (let x = ...).
	StmtLet StmtKind = iota
	// StmtExpr represents an expression statement.
	StmtExpr
	// StmtReturn represents return statement (always explicit in HIR).
	StmtReturn
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtExpr:
		return "Expr"
	case StmtReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

// Stmt represents an HIR statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// LetData holds data for StmtLet.
type LetData struct {
	Name  string
	Type  types.Type
	Value *Expr
}

func (LetData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// ReturnData holds data for StmtReturn; Value is nil for a void return.
type ReturnData struct {
	Value    *Expr
	Implicit bool
}

func (ReturnData) stmtData() {}

// Block is a statement list.
type Block struct {
	Stmts []Stmt
	Span  source.Span
}

// EndsWithReturn reports whether the last statement is a return.
func (b *Block) EndsWithReturn() bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	return b.Stmts[len(b.Stmts)-1].Kind == StmtReturn
}
