package types

import "raven/internal/ast"

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint32

const (
	FamilyNone FamilyMask = 0
	FamilyAny  FamilyMask = 1 << iota
	FamilySignedInt
	FamilyFloat
	FamilyStruct
)

const FamilyNumeric = FamilySignedInt | FamilyFloat

// BinaryResult describes how to derive the result type for an operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	BinaryResultLeft
)

// BinaryFlags annotate special handling for binary operators.
type BinaryFlags uint16

const (
	BinaryFlagNone        BinaryFlags = 0
	BinaryFlagCommutative BinaryFlags = 1 << iota
	BinaryFlagSameFamily
)

// BinarySpec lists operand families and expected result for an operation.
type BinarySpec struct {
	Left   FamilyMask
	Right  FamilyMask
	Result BinaryResult
	Flags  BinaryFlags
}

// UnarySpec describes operand expectations for negation.
type UnarySpec struct {
	Operand FamilyMask
}

// There are no implicit conversions: both operands share one type and the
// result is that type.
var binarySpecTable = map[ast.BinaryOp][]BinarySpec{
	ast.OpAdd: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultLeft, Flags: BinaryFlagCommutative | BinaryFlagSameFamily},
	},
	ast.OpSub: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultLeft, Flags: BinaryFlagSameFamily},
	},
	ast.OpMul: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultLeft, Flags: BinaryFlagCommutative | BinaryFlagSameFamily},
	},
	ast.OpDiv: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultLeft, Flags: BinaryFlagSameFamily},
	},
	ast.OpRem: {
		{Left: FamilySignedInt, Right: FamilySignedInt, Result: BinaryResultLeft, Flags: BinaryFlagSameFamily},
	},
}

var negSpec = UnarySpec{Operand: FamilyNumeric}

// BinarySpecs returns the operand specs for op.
func BinarySpecs(op ast.BinaryOp) []BinarySpec {
	return binarySpecTable[op]
}

// FamilyOf maps a type to its operator family.
func FamilyOf(t Type) FamilyMask {
	if t == nil {
		return FamilyNone
	}
	switch t.Kind() {
	case KindInt:
		return FamilySignedInt
	case KindFloat:
		return FamilyFloat
	case KindStruct:
		return FamilyStruct
	default:
		return FamilyNone
	}
}

// CheckBinary returns the result type of `l op r`, or false when no spec
// admits the operand types.
func CheckBinary(op ast.BinaryOp, l, r Type) (Type, bool) {
	lf, rf := FamilyOf(l), FamilyOf(r)
	for _, spec := range binarySpecTable[op] {
		if spec.Left&lf == 0 || spec.Right&rf == 0 {
			continue
		}
		if spec.Flags&BinaryFlagSameFamily != 0 && !Identical(l, r) {
			continue
		}
		if spec.Result == BinaryResultLeft {
			return l, true
		}
	}
	return nil, false
}

// CheckNeg returns the result type of `-x`.
func CheckNeg(x Type) (Type, bool) {
	if negSpec.Operand&FamilyOf(x) == 0 {
		return nil, false
	}
	return x, true
}
