package ast

import "raven/internal/source"

type Expr interface {
	ExprSpan() source.Span
	exprNode()
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
)

var binaryOpText = [...]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpRem: "%"}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

type (
	IntLit struct {
		Value int64
		Span  source.Span
	}
	FloatLit struct {
		Value float64
		Text  string
		Span  source.Span
	}
	// PathExpr is a variable, `self`, or a reference to a top-level name.
	PathExpr struct {
		Path Path
	}
	BinaryExpr struct {
		Op   BinaryOp
		X, Y Expr
		Span source.Span
	}
	NegExpr struct {
		X    Expr
		Span source.Span
	}
	CallExpr struct {
		Callee Path
		Args   []Expr
		Span   source.Span
	}
	MethodCallExpr struct {
		Recv     Expr
		Method   string
		NameSpan source.Span
		Args     []Expr
		Span     source.Span
	}
	FieldExpr struct {
		X        Expr
		Field    string
		NameSpan source.Span
		Span     source.Span
	}
	FieldInit struct {
		Name     string
		NameSpan source.Span
		Value    Expr
	}
	StructLitExpr struct {
		Type   Path
		Fields []FieldInit
		Span   source.Span
	}
	// BadExpr stands in for an expression that failed to parse.
	BadExpr struct {
		Span source.Span
	}
)

func (e *IntLit) ExprSpan() source.Span         { return e.Span }
func (e *FloatLit) ExprSpan() source.Span       { return e.Span }
func (e *PathExpr) ExprSpan() source.Span       { return e.Path.Span }
func (e *BinaryExpr) ExprSpan() source.Span     { return e.Span }
func (e *NegExpr) ExprSpan() source.Span        { return e.Span }
func (e *CallExpr) ExprSpan() source.Span       { return e.Span }
func (e *MethodCallExpr) ExprSpan() source.Span { return e.Span }
func (e *FieldExpr) ExprSpan() source.Span      { return e.Span }
func (e *StructLitExpr) ExprSpan() source.Span  { return e.Span }
func (e *BadExpr) ExprSpan() source.Span        { return e.Span }

func (*IntLit) exprNode()         {}
func (*FloatLit) exprNode()       {}
func (*PathExpr) exprNode()       {}
func (*BinaryExpr) exprNode()     {}
func (*NegExpr) exprNode()        {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*FieldExpr) exprNode()      {}
func (*StructLitExpr) exprNode()  {}
func (*BadExpr) exprNode()        {}
