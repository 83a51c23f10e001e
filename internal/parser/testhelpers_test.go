package parser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"raven/internal/ast"
	"raven/internal/diag"
	"raven/internal/source"
	"raven/internal/symbols"
)

type parsed struct {
	fs      *source.FileSet
	sf      *source.File
	res     Result
	bag     *diag.Bag
	spawned []ast.Decl
}

func parseWith(t *testing.T, reg Registry, path, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(src))
	bag := diag.NewBag(0)
	var mu sync.Mutex
	var spawned []ast.Decl
	res := ParseFile(context.Background(), fs, id, reg, Options{
		Reporter: bag,
		Spawn: func(d ast.Decl) {
			mu.Lock()
			spawned = append(spawned, d)
			mu.Unlock()
		},
	})
	return parsed{fs: fs, sf: fs.Get(id), res: res, bag: bag, spawned: spawned}
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	return parseWith(t, symbols.NewRegistry(), "main.rv", src)
}

func diagnosticsSummary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func codes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func fqns(decls []ast.Decl) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.Info().FQN
	}
	return out
}
