package lexer

import (
	"fmt"
	"iter"

	"fortio.org/safecast"

	"raven/internal/source"
	"raven/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token       // 1 элементный буфер для токена
	blocks []*token.CodeData // стек открытых { ... }
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return lx.finish(token.Token{Kind: token.EOF, Span: lx.emptySpan()})
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case ch >= utf8RuneSelf:
		// Unicode идентификатор или мусор - scanIdentOrKeyword разберётся
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	return lx.finish(tok)
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokens returns the remaining tokens as a lazy sequence. The sequence yields
// the EOF token once and then ends.
func (lx *Lexer) Tokens() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// finish fills positions, text and block metadata.
func (lx *Lexer) finish(tok token.Token) token.Token {
	tok.Start = lx.file.LineCol(tok.Span.Start)
	tok.End = lx.file.LineCol(tok.Span.End)
	if tok.Text == "" {
		tok.Text = source.TrimmedText(lx.file.Content, tok.Span.Start, tok.Span.End)
	}

	switch tok.Kind {
	case token.LBrace:
		tok.Block = lx.currentBlock()
		depth, err := safecast.Conv[uint32](len(lx.blocks) + 1)
		if err != nil {
			panic(fmt.Errorf("block depth overflow: %w", err))
		}
		lx.blocks = append(lx.blocks, &token.CodeData{StartLine: tok.Start.Line, Depth: depth})
	case token.RBrace:
		if n := len(lx.blocks); n > 0 {
			lx.blocks = lx.blocks[:n-1]
		}
		tok.Block = lx.currentBlock()
	default:
		tok.Block = lx.currentBlock()
	}
	return tok
}

func (lx *Lexer) currentBlock() *token.CodeData {
	if len(lx.blocks) == 0 {
		return nil
	}
	return lx.blocks[len(lx.blocks)-1]
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
