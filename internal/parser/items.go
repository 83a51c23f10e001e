package parser

import (
	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/token"
)

type fnKind uint8

const (
	fnTopLevel fnKind = iota
	fnTraitSig        // сигнатура в trait, без тела
	fnMethod          // метод внутри impl
)

// parseFn разбирает `fn name(params) (-> type)? block`. owner - FQN трейта
// или структуры-получателя для методов. false означает, что даже имя не
// разобралось и декларацию регистрировать нельзя.
func (p *Parser) parseFn(kind fnKind, owner string) (*ast.FnDecl, bool) {
	kw := p.advance() // 'fn'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name after 'fn'")
	if !ok {
		if kind == fnTopLevel {
			p.resyncTop()
		} else {
			p.skipUntil(token.RBrace)
		}
		return nil, false
	}

	fn := &ast.FnDecl{}
	fn.Name = nameTok.Text
	fn.NameSpan = nameTok.Span
	fn.Module = p.module
	if kind == fnTopLevel {
		fn.FQN = ast.Qualify(p.module, fn.Name)
	} else {
		fn.FQN = owner + "::" + fn.Name
	}
	if kind == fnMethod {
		fn.Receiver = owner
	}

	p.parseParams(fn, kind)

	if _, ok := p.eat(token.Arrow); ok {
		if ty, ok := p.parseType(); ok {
			fn.Result = &ty
		}
	}

	switch {
	case kind == fnTraitSig:
		if p.at(token.LBrace) {
			p.report(diag.SynUnexpectedToken, p.peek().Span, "trait methods are signatures and cannot have a body")
			p.parseBlock()
		} else {
			p.expectSemicolon("method signature")
		}
	case p.at(token.LBrace):
		fn.Body = p.parseBlock()
	default:
		tok := p.peek()
		p.report(diag.SynUnexpectedToken, tok.Span, "expected '{' to start the body of "+fn.Name+", found "+describe(tok))
		p.skipUntil(token.LBrace)
		if p.at(token.LBrace) {
			fn.Body = p.parseBlock()
		}
	}

	fn.Span = kw.Span.Cover(p.lastSpan)
	fn.Bad = p.bad
	return fn, true
}

func (p *Parser) parseParams(fn *ast.FnDecl, kind fnKind) {
	lp, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name")
	if !ok {
		p.skipUntil(token.LBrace, token.Arrow, token.Semicolon)
		return
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if selfTok, ok := p.eat(token.KwSelf); ok {
			switch {
			case kind == fnTopLevel:
				p.report(diag.SynUnexpectedToken, selfTok.Span, "'self' is only allowed in methods")
			case len(fn.Params) > 0:
				p.report(diag.SynUnexpectedToken, selfTok.Span, "'self' must be the first parameter")
			}
			fn.Params = append(fn.Params, ast.Param{Name: "self", Self: true, Span: selfTok.Span})
		} else if nameTok, ok := p.eat(token.Ident); ok {
			param := ast.Param{Name: nameTok.Text, Span: nameTok.Span}
			if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after parameter "+nameTok.Text); ok {
				if ty, ok := p.parseType(); ok {
					param.Type = &ty
					param.Span = nameTok.Span.Cover(ty.Span)
				}
			}
			fn.Params = append(fn.Params, param)
		} else {
			tok := p.peek()
			p.report(diag.SynExpectIdentifier, tok.Span, "expected parameter name, found "+describe(tok))
			p.skipUntil(token.Comma, token.RParen, token.LBrace)
			if p.at(token.LBrace) {
				break
			}
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.RParen); !ok {
		tok := p.peek()
		p.reportWithNote(diag.SynUnclosedParen, tok.Span,
			"expected ')' to close the parameter list, found "+describe(tok), lp.Span, "opening parenthesis here")
		p.skipUntil(token.RParen, token.LBrace, token.Arrow)
		p.eat(token.RParen)
	}
}

// parseStruct разбирает `struct Name { field: type, ... }`.
func (p *Parser) parseStruct() (*ast.StructDecl, bool) {
	kw := p.advance() // 'struct'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected struct name after 'struct'")
	if !ok {
		p.resyncTop()
		return nil, false
	}
	st := &ast.StructDecl{}
	st.Name = nameTok.Text
	st.NameSpan = nameTok.Span
	st.Module = p.module
	st.FQN = ast.Qualify(p.module, st.Name)

	lb, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after struct name")
	if !ok {
		p.resyncTop()
		st.Span = kw.Span.Cover(p.lastSpan)
		st.Bad = true
		return st, true
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.peek().IsItemStart() {
		fieldTok, ok := p.eat(token.Ident)
		if !ok {
			tok := p.peek()
			p.report(diag.SynExpectIdentifier, tok.Span, "expected field name, found "+describe(tok))
			p.advance()
			p.skipUntil(token.Comma, token.RBrace)
			p.eat(token.Comma)
			continue
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field "+fieldTok.Text); !ok {
			p.skipUntil(token.Comma, token.RBrace)
			p.eat(token.Comma)
			continue
		}
		ty, ok := p.parseType()
		if !ok {
			p.skipUntil(token.Comma, token.RBrace)
			p.eat(token.Comma)
			continue
		}
		st.Fields = append(st.Fields, ast.Field{
			Name: fieldTok.Text,
			Type: ty,
			Span: fieldTok.Span.Cover(ty.Span),
		})
		p.eat(token.Comma)
	}
	p.closeBrace(lb, "struct "+st.Name)
	st.Span = kw.Span.Cover(p.lastSpan)
	st.Bad = p.bad
	return st, true
}

// parseTrait разбирает `trait Name { fn sig; ... }`.
func (p *Parser) parseTrait() (*ast.TraitDecl, bool) {
	kw := p.advance() // 'trait'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected trait name after 'trait'")
	if !ok {
		p.resyncTop()
		return nil, false
	}
	tr := &ast.TraitDecl{}
	tr.Name = nameTok.Text
	tr.NameSpan = nameTok.Span
	tr.Module = p.module
	tr.FQN = ast.Qualify(p.module, tr.Name)

	lb, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after trait name")
	if !ok {
		p.resyncTop()
		tr.Span = kw.Span.Cover(p.lastSpan)
		tr.Bad = true
		return tr, true
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		tok := p.peek()
		if tok.Kind == token.KwFn {
			if m, ok := p.parseFn(fnTraitSig, tr.FQN); ok {
				tr.Methods = append(tr.Methods, m)
			}
			continue
		}
		if tok.IsItemStart() {
			break
		}
		p.report(diag.SynUnexpectedToken, tok.Span, "expected 'fn' in trait body, found "+describe(tok))
		p.advance()
		p.skipUntil(token.RBrace)
	}
	p.closeBrace(lb, "trait "+tr.Name)
	tr.Span = kw.Span.Cover(p.lastSpan)
	tr.Bad = p.bad
	return tr, true
}

// parseImpl разбирает `impl Trait for Type { fn ... }`.
// Методы получают имена `<FQN структуры>::<метод>`.
func (p *Parser) parseImpl() (*ast.ImplDecl, bool) {
	kw := p.advance() // 'impl'
	traitPath, ok := p.parseNamedPath("expected trait name after 'impl'")
	if !ok {
		p.resyncTop()
		return nil, false
	}
	if _, ok := p.expect(token.KwFor, diag.SynUnexpectedToken, "expected 'for' after trait name"); !ok {
		p.resyncTop()
		return nil, false
	}
	target, ok := p.parseNamedPath("expected type name after 'for'")
	if !ok {
		p.resyncTop()
		return nil, false
	}

	im := &ast.ImplDecl{Trait: traitPath, Target: target}
	im.Name = "impl(" + traitPath.String() + " for " + target.String() + ")"
	im.NameSpan = kw.Span.Cover(target.Span)
	im.Module = p.module
	im.FQN = ast.Qualify(p.module, im.Name)
	receiver := target.Resolve(p.module)

	lb, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after impl header")
	if !ok {
		p.resyncTop()
		im.Span = kw.Span.Cover(p.lastSpan)
		im.Bad = true
		return im, true
	}
	headerBad := p.bad
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		tok := p.peek()
		if tok.Kind == token.KwFn {
			p.bad = false
			if m, ok := p.parseFn(fnMethod, receiver); ok {
				im.Methods = append(im.Methods, m)
			}
			headerBad = headerBad || p.bad
			continue
		}
		if tok.IsItemStart() {
			break
		}
		p.bad = true
		headerBad = true
		p.report(diag.SynUnexpectedToken, tok.Span, "expected 'fn' in impl body, found "+describe(tok))
		p.advance()
		p.skipUntil(token.RBrace)
	}
	p.bad = headerBad
	p.closeBrace(lb, "impl")
	im.Span = kw.Span.Cover(p.lastSpan)
	im.Bad = p.bad
	return im, true
}

func (p *Parser) closeBrace(open token.Token, what string) {
	if _, ok := p.eat(token.RBrace); ok {
		return
	}
	tok := p.peek()
	p.reportWithNote(diag.SynUnclosedBrace, tok.Span,
		"expected '}' to close "+what+", found "+describe(tok), open.Span, "opening brace here")
}
