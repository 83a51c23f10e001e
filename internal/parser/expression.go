package parser

import (
	"strconv"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/token"
)

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(0)
}

// parseBinary - precedence climbing; все операторы левоассоциативны.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		opTok := p.peek()
		prec := binaryPrec(opTok.Kind)
		if prec < 0 || prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		left = &ast.BinaryExpr{
			Op:   binaryOp(opTok.Kind),
			X:    left,
			Y:    right,
			Span: left.ExprSpan().Cover(right.ExprSpan()),
		}
	}
}

// parseUnary: унарный минус связывает сильнее бинарных операторов,
// постфиксные операции - сильнее минуса.
func (p *Parser) parseUnary() ast.Expr {
	if minus, ok := p.eat(token.Minus); ok {
		x := p.parseUnary()
		return &ast.NegExpr{X: x, Span: minus.Span.Cover(x.ExprSpan())}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for p.at(token.Dot) {
		p.advance()
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field or method name after '.'")
		if !ok {
			return x
		}
		if p.at(token.LParen) {
			args := p.parseArgs()
			x = &ast.MethodCallExpr{
				Recv:     x,
				Method:   nameTok.Text,
				NameSpan: nameTok.Span,
				Args:     args,
				Span:     x.ExprSpan().Cover(p.lastSpan),
			}
			continue
		}
		x = &ast.FieldExpr{
			X:        x,
			Field:    nameTok.Text,
			NameSpan: nameTok.Span,
			Span:     x.ExprSpan().Cover(nameTok.Span),
		}
	}
	return x
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			// лексер уже сообщил о плохом числе
			p.bad = true
			return &ast.BadExpr{Span: tok.Span}
		}
		return &ast.IntLit{Value: v, Span: tok.Span}

	case token.FloatLit:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.bad = true
			return &ast.BadExpr{Span: tok.Span}
		}
		return &ast.FloatLit{Value: v, Text: tok.Text, Span: tok.Span}

	case token.KwSelf:
		p.advance()
		return &ast.PathExpr{Path: ast.Path{Segments: []string{"self"}, Span: tok.Span}}

	case token.Ident:
		path, ok := p.parsePath()
		if !ok {
			return &ast.BadExpr{Span: path.Span}
		}
		switch {
		case p.at(token.LParen):
			args := p.parseArgs()
			return &ast.CallExpr{Callee: path, Args: args, Span: path.Span.Cover(p.lastSpan)}
		case p.at(token.LBrace):
			return p.parseStructLit(path)
		}
		return &ast.PathExpr{Path: path}

	case token.LParen:
		lp := p.advance()
		x := p.parseExpr()
		if _, ok := p.eat(token.RParen); !ok {
			next := p.peek()
			p.reportWithNote(diag.SynUnclosedParen, next.Span,
				"expected ')', found "+describe(next), lp.Span, "opening parenthesis here")
		}
		return x
	}

	p.report(diag.SynExpectExpression, tok.Span, "expected expression, found "+describe(tok))
	if !isExprStop(tok) {
		p.advance()
	}
	return &ast.BadExpr{Span: tok.Span}
}

// isExprStop - токены, которые выражение не съедает при ошибке:
// ими заканчивается окружающая конструкция.
func isExprStop(tok token.Token) bool {
	switch tok.Kind {
	case token.Semicolon, token.RBrace, token.RParen, token.Comma, token.EOF,
		token.KwLet, token.KwReturn:
		return true
	}
	return tok.IsItemStart()
}

// parseArgs разбирает `( expr, ... )`; текущий токен - '('.
func (p *Parser) parseArgs() []ast.Expr {
	lp := p.advance()
	var args []ast.Expr
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseExpr())
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.RParen); !ok {
		tok := p.peek()
		p.reportWithNote(diag.SynUnclosedParen, tok.Span,
			"expected ')' to close the argument list, found "+describe(tok), lp.Span, "opening parenthesis here")
	}
	return args
}

// parseStructLit разбирает `Path { name: expr, ... }`; текущий токен - '{'.
func (p *Parser) parseStructLit(path ast.Path) ast.Expr {
	lb := p.advance()
	lit := &ast.StructLitExpr{Type: path}
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.peek().IsItemStart() {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name in struct literal")
		if !ok {
			p.skipUntil(token.Comma, token.RBrace, token.Semicolon)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
			continue
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field "+nameTok.Text); !ok {
			p.skipUntil(token.Comma, token.RBrace, token.Semicolon)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
			continue
		}
		val := p.parseExpr()
		lit.Fields = append(lit.Fields, ast.FieldInit{Name: nameTok.Text, NameSpan: nameTok.Span, Value: val})
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.RBrace); !ok {
		tok := p.peek()
		p.reportWithNote(diag.SynUnclosedBrace, tok.Span,
			"expected '}' to close the struct literal, found "+describe(tok), lb.Span, "literal opened here")
	}
	lit.Span = path.Span.Cover(p.lastSpan)
	return lit
}
