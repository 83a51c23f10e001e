package lexer

import (
	"fmt"
	"unicode/utf8"

	"raven/internal/diag"
	"raven/internal/token"
)

// Жадность: сначала 2-символьные (::, ->), затем 1-символьные.
// Всё остальное - последовательность InvalidCharacters.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		return token.Token{Kind: k, Span: lx.cursor.SpanFrom(start)}
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok {
		switch {
		case b0 == ':' && b1 == ':':
			lx.cursor.Advance(2)
			return emit(token.ColonColon)
		case b0 == '-' && b1 == '>':
			lx.cursor.Advance(2)
			return emit(token.Arrow)
		}
	}

	switch lx.cursor.Peek() {
	case '+':
		lx.cursor.Bump()
		return emit(token.Plus)
	case '-':
		lx.cursor.Bump()
		return emit(token.Minus)
	case '*':
		lx.cursor.Bump()
		return emit(token.Star)
	case '/':
		lx.cursor.Bump()
		return emit(token.Slash)
	case '%':
		lx.cursor.Bump()
		return emit(token.Percent)
	case '=':
		lx.cursor.Bump()
		return emit(token.Assign)
	case ':':
		lx.cursor.Bump()
		return emit(token.Colon)
	case ';':
		lx.cursor.Bump()
		return emit(token.Semicolon)
	case ',':
		lx.cursor.Bump()
		return emit(token.Comma)
	case '.':
		lx.cursor.Bump()
		return emit(token.Dot)
	case '(':
		lx.cursor.Bump()
		return emit(token.LParen)
	case ')':
		lx.cursor.Bump()
		return emit(token.RParen)
	case '{':
		lx.cursor.Bump()
		return emit(token.LBrace)
	case '}':
		lx.cursor.Bump()
		return emit(token.RBrace)
	}
	return lx.scanInvalid()
}

// scanInvalid съедает максимальную серию байтов, с которых не начинается ни один токен,
// и репортит её одной диагностикой. Лексинг продолжается после серии.
func (lx *Lexer) scanInvalid() token.Token {
	start := lx.cursor.Mark()
	badUTF8 := false
	for first := true; !lx.cursor.EOF() && (first || !lx.startsToken()); first = false {
		r, sz := lx.peekRune()
		if r == utf8.RuneError && sz <= 1 {
			badUTF8 = true
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	raw := lx.file.Content[sp.Start:sp.End]
	if badUTF8 {
		lx.errLex(diag.LexInvalidUTF8, sp, fmt.Sprintf("invalid UTF-8 sequence %q", raw))
	} else {
		lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("invalid characters %q", raw))
	}
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(raw)}
}
