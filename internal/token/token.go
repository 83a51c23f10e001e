package token

import (
	"raven/internal/source"
)

// CodeData describes the innermost `{ ... }` block enclosing a token.
// Tokens of the same block share one *CodeData; it is never mutated after creation.
type CodeData struct {
	StartLine uint32 // 1-based line of the opening brace
	Depth     uint32 // 1 for a top-level body
}

// Token represents a single source token with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Start source.LineCol
	End   source.LineCol
	Text  string
	Block *CodeData // nil at file scope
}

// IsLiteral reports whether the token is a numeric literal.
func (t Token) IsLiteral() bool {
	return t.Kind == IntLit || t.Kind == FloatLit
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= RBrace
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn && t.Kind <= KwSelf
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsItemStart reports whether the token opens a top-level declaration.
// The parser resynchronises on these after a syntax error.
func (t Token) IsItemStart() bool {
	switch t.Kind {
	case KwFn, KwStruct, KwTrait, KwImpl:
		return true
	default:
		return false
	}
}
