package lexer

import (
	"raven/internal/diag"
)

// skipTrivia пропускает пробелы и комментарии перед значимым токеном.
// - //... до \n
// - /* ... */ с вложенностью; незакрытый комментарий репортим и обрезаем на EOF
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isSpace(b) {
			lx.cursor.Bump()
			continue
		}
		if b == '/' && lx.skipComment() {
			continue
		}
		return
	}
}

func (lx *Lexer) skipComment() bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return true

	case '*':
		start := lx.cursor.Mark()
		lx.cursor.Advance(2)
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			if c0, c1, ok := lx.cursor.Peek2(); ok {
				if c0 == '/' && c1 == '*' {
					lx.cursor.Advance(2)
					depth++
					continue
				}
				if c0 == '*' && c1 == '/' {
					lx.cursor.Advance(2)
					depth--
					continue
				}
			}
			lx.cursor.Bump()
		}
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		return true
	}
	return false
}
