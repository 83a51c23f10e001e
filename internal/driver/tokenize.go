package driver

import (
	"context"
	"path/filepath"

	"fortio.org/safecast"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/lexer"
	"raven/internal/parser"
	"raven/internal/source"
	"raven/internal/symbols"
	"raven/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes a single file; lexical errors land in the bag.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	// Токенизация: собираем все токены до EOF включительно
	var tokens []token.Token
	for tok := range lx.Tokens() {
		tokens = append(tokens, tok)
	}

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	AST     *ast.File
	Bag     *diag.Bag
}

// Parse parses a single file without resolving it. Duplicate declarations
// inside the file are still reported.
func Parse(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}

	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	res := parser.ParseFile(ctx, fs, fileID, symbols.NewRegistry(), parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})
	bag.Sort()

	return &ParseResult{
		FileSet: fs,
		File:    fs.Get(fileID),
		AST:     res.File,
		Bag:     bag,
	}, nil
}
