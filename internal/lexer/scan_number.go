package lexer

import (
	"strconv"

	"raven/internal/diag"
	"raven/internal/token"
)

// Поддержка: 0, 123, 1.0, 1e-3, 1.5e+10.
// Целые проверяются на переполнение i64; неверные формы репортим, токен всё равно завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// дробная часть только если после точки цифра: `1.x` это поле, а не число
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		expMark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		} else if kind == token.FloatLit {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected digits in exponent")
		} else {
			// `12e` без цифр - не экспонента, хвост разберём ниже
			lx.cursor.Reset(expMark)
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	// число сразу за которым идёт буква: 12abc
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid digit in number literal")
		return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	if kind == token.IntLit {
		if _, err := strconv.ParseInt(text, 10, 64); err != nil {
			lx.errLex(diag.LexBadNumber, sp, "integer literal "+text+" overflows i64")
		}
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}
