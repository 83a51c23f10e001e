package parser

import (
	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/token"
)

// parseType разбирает тип; в языке это всегда путь (i64, f64, geo::Point).
func (p *Parser) parseType() (ast.Path, bool) {
	if !p.at(token.Ident) {
		tok := p.peek()
		p.report(diag.SynExpectType, tok.Span, "expected type, found "+describe(tok))
		return ast.Path{}, false
	}
	return p.parsePath()
}

// parseNamedPath - как parseType, но для имён трейтов и целей impl.
func (p *Parser) parseNamedPath(msg string) (ast.Path, bool) {
	if !p.at(token.Ident) {
		tok := p.peek()
		p.report(diag.SynExpectIdentifier, tok.Span, msg+", found "+describe(tok))
		return ast.Path{}, false
	}
	return p.parsePath()
}

// parsePath разбирает `IDENT (:: IDENT)*`; текущий токен - Ident.
func (p *Parser) parsePath() (ast.Path, bool) {
	first := p.advance()
	path := ast.Path{Segments: []string{first.Text}, Span: first.Span}
	for p.at(token.ColonColon) {
		p.advance()
		seg, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after '::'")
		if !ok {
			return path, false
		}
		path.Segments = append(path.Segments, seg.Text)
		path.Span = path.Span.Cover(seg.Span)
	}
	return path, true
}
