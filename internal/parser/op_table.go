package parser

import (
	"raven/internal/ast"
	"raven/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
)

// binaryPrec возвращает приоритет оператора или -1, если это не бинарный оператор.
// Все операторы левоассоциативны.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return -1
	}
}

// binaryOp преобразует токен в тип бинарного оператора
func binaryOp(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.Plus:
		return ast.OpAdd
	case token.Minus:
		return ast.OpSub
	case token.Star:
		return ast.OpMul
	case token.Slash:
		return ast.OpDiv
	default:
		return ast.OpRem
	}
}
