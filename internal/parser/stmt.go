package parser

import (
	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/token"
)

// parseBlock разбирает `{ stmt* }`; текущий токен - '{'.
func (p *Parser) parseBlock() *ast.Block {
	lb := p.advance()
	b := &ast.Block{}
	for {
		tok := p.peek()
		if tok.Kind == token.RBrace {
			p.advance()
			break
		}
		// начало следующего item внутри блока значит, что '}' потеряна
		if tok.Kind == token.EOF || tok.IsItemStart() {
			p.reportWithNote(diag.SynUnclosedBrace, tok.Span,
				"expected '}' to close block, found "+describe(tok), lb.Span, "block opened here")
			break
		}
		if s := p.parseStmt(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	b.Span = lb.Span.Cover(p.lastSpan)
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	tok := p.peek()
	switch tok.Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwReturn:
		return p.parseReturn()
	case token.Semicolon:
		// пустая инструкция
		p.advance()
		return nil
	}
	x := p.parseExpr()
	p.endStmt(x, "expression")
	return &ast.ExprStmt{X: x, Span: tok.Span.Cover(p.lastSpan)}
}

func (p *Parser) parseLet() ast.Stmt {
	kw := p.advance() // 'let'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name after 'let'")
	if !ok {
		p.recoverStmt()
		return nil
	}
	s := &ast.LetStmt{Name: nameTok.Text, NameSpan: nameTok.Span}
	if _, ok := p.eat(token.Colon); ok {
		if ty, ok := p.parseType(); ok {
			s.Type = &ty
		}
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in let statement"); !ok {
		p.recoverStmt()
		return nil
	}
	s.Value = p.parseExpr()
	p.endStmt(s.Value, "let statement")
	s.Span = kw.Span.Cover(p.lastSpan)
	return s
}

func (p *Parser) parseReturn() ast.Stmt {
	kw := p.advance() // 'return'
	s := &ast.ReturnStmt{}
	if !p.atOr(token.Semicolon, token.RBrace) {
		s.Value = p.parseExpr()
	}
	p.endStmt(s.Value, "return")
	s.Span = kw.Span.Cover(p.lastSpan)
	return s
}

// endStmt съедает завершающую ';'. Если выражение уже испорчено, об ошибке
// сообщено и вторую не добавляем.
func (p *Parser) endStmt(x ast.Expr, what string) {
	if _, ok := p.eat(token.Semicolon); ok {
		return
	}
	if _, isBad := x.(*ast.BadExpr); !isBad {
		p.report(diag.SynExpectSemicolon, p.afterLast(), "expected ';' after "+what+", found "+describe(p.peek()))
	}
	p.recoverStmt()
}

// recoverStmt - восстановление внутри блока: до ';' (съедаем) или до '}'.
// Если дальше сразу начинается новая инструкция, ничего не пропускаем.
func (p *Parser) recoverStmt() {
	if p.atOr(token.RBrace, token.KwLet, token.KwReturn) {
		return
	}
	p.skipUntil(token.Semicolon, token.RBrace)
	p.eat(token.Semicolon)
}
