package parser

import (
	"raven/internal/diag"
	"raven/internal/source"
	"raven/internal/token"
)

// peek пропускает Invalid-токены: лексер уже сообщил о них, а текущая
// декларация помечается как испорченная.
func (p *Parser) peek() token.Token {
	for {
		tok := p.lx.Peek()
		if tok.Kind != token.Invalid {
			return tok
		}
		p.lx.Next()
		p.bad = true
	}
}

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat съедает токен k, если он следующий.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// afterLast - пустой span сразу за последним съеденным токеном.
// Для "пропущенных" токенов (';', ')') это точнее, чем span следующего.
func (p *Parser) afterLast() source.Span {
	return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// expect - ожидаем конкретный токен. Если нет - репортим на следующем токене.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	tok := p.peek()
	p.report(code, tok.Span, msg+", found "+describe(tok))
	return token.Token{Kind: token.Invalid, Span: tok.Span}, false
}

// expectSemicolon репортит пропущенную ';' сразу за предыдущим токеном.
func (p *Parser) expectSemicolon(what string) bool {
	if _, ok := p.eat(token.Semicolon); ok {
		return true
	}
	sp := p.afterLast()
	p.errorAt(diag.SynExpectSemicolon, sp, "expected ';' after "+what+", found "+describe(p.peek())).
		WithFix("insert ';'", diag.FixEdit{Span: sp, NewText: ";"}).
		Emit()
	return false
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.reportWithNote(code, sp, msg, source.Span{}, "")
}

func (p *Parser) reportWithNote(code diag.Code, sp source.Span, msg string, noteSpan source.Span, note string) {
	rb := p.errorAt(code, sp, msg)
	if note != "" {
		rb.WithNote(noteSpan, note)
	}
	rb.Emit()
}

// errorAt помечает декларацию испорченной и возвращает builder;
// nil, если лимит ошибок уже исчерпан.
func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	p.bad = true
	p.nerrs++
	if p.opts.MaxErrors > 0 && p.nerrs > p.opts.MaxErrors {
		return nil // достигли максимального количества ошибок
	}
	return diag.ReportError(p.reporter, code, sp, msg)
}

// skipUntil прокручивает токены до одного из kinds, начала item или EOF.
// Сам найденный токен не съедается.
func (p *Parser) skipUntil(kinds ...token.Kind) {
	for {
		tok := p.peek()
		if tok.Kind == token.EOF || tok.IsItemStart() || p.atOr(kinds...) {
			return
		}
		p.advance()
	}
}
