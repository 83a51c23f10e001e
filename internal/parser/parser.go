package parser

import (
	"context"
	"errors"
	"slices"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/lexer"
	"raven/internal/source"
	"raven/internal/symbols"
	"raven/internal/token"
	"raven/internal/trace"
)

// Registry receives every top-level declaration as soon as it is parsed.
// *symbols.Registry implements it.
type Registry interface {
	Register(name string, kind symbols.SymbolKind, decl ast.Decl, span source.Span) error
}

type Options struct {
	// Reporter получает лексические и синтаксические ошибки, а также DuplicateSymbol.
	Reporter diag.Reporter
	// Spawn запускает разрешение успешно зарегистрированной декларации.
	// Вызывается до возврата из ParseFile.
	Spawn func(ast.Decl)
	// MaxErrors ограничивает число синтаксических ошибок на файл; 0 - без лимита.
	MaxErrors uint
}

type Result struct {
	File *ast.File
	// Decls lists the declarations that were registered, in source order.
	Decls []ast.Decl
	// Errors holds the lexical and syntax diagnostics of this file.
	Errors []diag.Diagnostic
}

// Parser - состояние парсера на один файл
type Parser struct {
	ctx      context.Context
	lx       *lexer.Lexer
	file     *source.File
	module   string
	reg      Registry
	opts     Options
	reporter diag.Reporter
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики

	errs    []diag.Diagnostic
	nerrs   uint
	bad     bool       // в текущей декларации были синтаксические ошибки
	decls   []ast.Decl // зарегистрированные, включая методы impl
	allDecl []ast.Decl // только верхний уровень
}

// ParseFile разбирает один файл, регистрирует его декларации в reg и
// передаёт каждую зарегистрированную в opts.Spawn. reg может быть nil:
// тогда файл только разбирается.
func ParseFile(ctx context.Context, fs *source.FileSet, id source.FileID, reg Registry, opts Options) Result {
	sf := fs.Get(id)
	if sf == nil {
		return Result{}
	}
	p := &Parser{
		ctx:    ctx,
		file:   sf,
		module: sf.Module,
		reg:    reg,
		opts:   opts,
	}
	p.reporter = &collector{p: p, next: diag.NewDedupReporter(opts.Reporter)}
	p.lx = lexer.New(sf, lexer.Options{Reporter: p.reporter})
	p.lastSpan = source.Span{File: sf.ID}

	start := p.peek().Span
	p.parseItems()
	end := p.lx.Peek().Span

	return Result{
		File: &ast.File{
			ID:     sf.ID,
			Path:   sf.Path,
			Module: sf.Module,
			Span:   start.Cover(end),
			Decls:  p.allDecl,
		},
		Decls:  p.decls,
		Errors: p.errs,
	}
}

// collector remembers this file's diagnostics and forwards them.
type collector struct {
	p    *Parser
	next diag.Reporter
}

func (c *collector) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	if sev >= diag.SevError && code < diag.SemaInfo {
		c.p.errs = append(c.p.errs, diag.Diagnostic{
			Severity: sev, Code: code, Message: msg,
			Primary: primary, Notes: notes, Fixes: fixes,
		})
	}
	c.next.Report(code, sev, primary, msg, notes, fixes)
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// parseItems - основной цикл верхнего уровня: пока не EOF - parseItem.
func (p *Parser) parseItems() {
	for !p.at(token.EOF) {
		p.bad = false
		tok := p.peek()
		switch tok.Kind {
		case token.KwFn:
			if fn, ok := p.parseFn(fnTopLevel, ""); ok {
				p.allDecl = append(p.allDecl, fn)
				p.declare(fn, symbols.SymbolFunction)
			}
		case token.KwStruct:
			if st, ok := p.parseStruct(); ok {
				p.allDecl = append(p.allDecl, st)
				p.declare(st, symbols.SymbolStruct)
			}
		case token.KwTrait:
			if tr, ok := p.parseTrait(); ok {
				p.allDecl = append(p.allDecl, tr)
				p.declare(tr, symbols.SymbolTrait)
			}
		case token.KwImpl:
			if im, ok := p.parseImpl(); ok {
				p.allDecl = append(p.allDecl, im)
				p.declare(im, symbols.SymbolImpl)
				for _, m := range im.Methods {
					p.declare(m, symbols.SymbolMethod)
				}
			}
		default:
			p.report(diag.SynUnexpectedTopLevel, tok.Span,
				"expected 'fn', 'struct', 'trait' or 'impl', found "+describe(tok))
			p.advance()
			p.resyncTop()
		}
	}
}

// declare регистрирует декларацию и запускает её разрешение.
// При коллизии имени сообщаем DuplicateSymbol; дубликат не планируется.
func (p *Parser) declare(d ast.Decl, kind symbols.SymbolKind) {
	info := d.Info()
	if p.reg == nil {
		return
	}
	if err := p.reg.Register(info.FQN, kind, d, info.NameSpan); err != nil {
		rb := diag.ReportError(p.reporter, diag.SemaDuplicateSymbol, info.NameSpan,
			"duplicate declaration of "+kind.String()+" "+info.FQN)
		var dup *symbols.DuplicateError
		if errors.As(err, &dup) {
			rb.WithNote(dup.Prev, "previous declaration here")
		}
		rb.Emit()
		return
	}
	trace.Point(trace.FromContext(p.ctx), trace.ScopeNode, "register", info.FQN, trace.CurrentSpan(p.ctx).SpanID)
	p.decls = append(p.decls, d)
	if p.opts.Spawn != nil {
		p.opts.Spawn(d)
	}
}

// resyncTop - восстановление после ошибки на верхнем уровне:
// прокручиваем до стартового токена следующего item или EOF.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) && !p.peek().IsItemStart() {
		p.advance()
	}
}

func describe(tok token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return "end of file"
	case tok.Text != "":
		return "'" + tok.Text + "'"
	default:
		return tok.Kind.String()
	}
}
