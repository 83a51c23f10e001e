package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = 0x80

// peekRune читает текущую руну; для битого UTF-8 возвращает RuneError и size 1
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Advance(usz)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// ASCII fast-path для идентификаторов; Unicode - через isIdentStartRune/Continue.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}
func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// isPunctByte reports bytes that start an operator or punctuation token.
func isPunctByte(b byte) bool {
	switch b {
	case '+', '-', '*', '/', '%', '=', ':', ';', ',', '.', '(', ')', '{', '}':
		return true
	}
	return false
}

// startsToken reports whether the rune at the cursor can begin a valid token.
func (lx *Lexer) startsToken() bool {
	b := lx.cursor.Peek()
	if b < utf8RuneSelf {
		return isIdentStartByte(b) || isDec(b) || isPunctByte(b) || isSpace(b)
	}
	r, sz := lx.peekRune()
	return !(r == utf8.RuneError && sz <= 1) && isIdentStartRune(r)
}
