package hir

import (
	"raven/internal/ast"
	"raven/internal/source"
	"raven/internal/types"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral is an int or float constant.
	ExprLiteral ExprKind = iota
	// ExprVarRef reads a local variable or parameter.
	ExprVarRef
	// ExprNeg is unary minus.
	ExprNeg
	// ExprBinaryOp is arithmetic over two operands of one type.
	ExprBinaryOp
	// ExprCall is a direct call of a top-level function.
	ExprCall
	// ExprMethodCall calls an impl method on a struct value.
	ExprMethodCall
	// ExprFieldAccess loads a struct field.
	ExprFieldAccess
	// ExprStructLit builds a struct value.
	ExprStructLit
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVarRef:
		return "VarRef"
	case ExprNeg:
		return "Neg"
	case ExprBinaryOp:
		return "BinaryOp"
	case ExprCall:
		return "Call"
	case ExprMethodCall:
		return "MethodCall"
	case ExprFieldAccess:
		return "FieldAccess"
	case ExprStructLit:
		return "StructLit"
	default:
		return "Unknown"
	}
}

// Expr represents an HIR expression with type information.
type Expr struct {
	Kind ExprKind
	Type types.Type
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
)

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind       LiteralKind
	Text       string
	IntValue   int64
	FloatValue float64
}

func (LiteralData) exprData() {}

// VarRefData holds data for ExprVarRef.
type VarRefData struct {
	Name string
}

func (VarRefData) exprData() {}

// NegData holds data for ExprNeg.
type NegData struct {
	Operand *Expr
}

func (NegData) exprData() {}

// BinaryOpData holds data for ExprBinaryOp.
type BinaryOpData struct {
	Op    ast.BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryOpData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Callee string // fully qualified
	Args   []*Expr
}

func (CallData) exprData() {}

// MethodCallData holds data for ExprMethodCall.
type MethodCallData struct {
	Recv   *Expr
	Method string // fully qualified: <struct>::<method>
	Args   []*Expr
}

func (MethodCallData) exprData() {}

// FieldAccessData holds data for ExprFieldAccess.
type FieldAccessData struct {
	Object    *Expr
	FieldName string
	FieldIdx  int
}

func (FieldAccessData) exprData() {}

// StructLitData holds data for ExprStructLit. Fields are in declaration
// order of the struct, whatever the order in the source.
type StructLitData struct {
	TypeName string
	Fields   []StructFieldInit
}

func (StructLitData) exprData() {}

// StructFieldInit represents a field initializer in a struct literal.
type StructFieldInit struct {
	Name  string
	Value *Expr
	Span  source.Span
}
