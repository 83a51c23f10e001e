package lexer_test

import (
	"fmt"
	"testing"

	"raven/internal/diag"
	"raven/internal/lexer"
	"raven/internal/source"
	"raven/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rv", []byte(input))
	bag := diag.NewBag(0)
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: bag}), bag
}

func errorMessages(bag *diag.Bag) []string {
	items := bag.Items()
	out := make([]string, 0, len(items))
	for _, d := range items {
		out = append(out, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return out
}

// collectAllTokens собирает все токены без EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var out []token.Token
	for tok := range lx.Tokens() {
		if tok.Kind == token.EOF {
			break
		}
		out = append(out, tok)
	}
	return out
}

func expectTokens(t *testing.T, input string, expected ...token.Kind) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokens, errorMessages(bag))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func TestFunctionHeader(t *testing.T) {
	expectTokens(t, "fn add(a: i64, b: i64) -> i64 { return a + b; }",
		token.KwFn, token.Ident, token.LParen,
		token.Ident, token.Colon, token.Ident, token.Comma,
		token.Ident, token.Colon, token.Ident, token.RParen,
		token.Arrow, token.Ident, token.LBrace,
		token.KwReturn, token.Ident, token.Plus, token.Ident, token.Semicolon,
		token.RBrace)
}

func TestPathsAndDecls(t *testing.T) {
	expectTokens(t, "impl math::Shape for geo::Point { fn area(self) -> f64 { 0.5 } }",
		token.KwImpl, token.Ident, token.ColonColon, token.Ident, token.KwFor,
		token.Ident, token.ColonColon, token.Ident, token.LBrace,
		token.KwFn, token.Ident, token.LParen, token.KwSelf, token.RParen, token.Arrow, token.Ident,
		token.LBrace, token.FloatLit, token.RBrace, token.RBrace)
	expectTokens(t, "struct P { x: i64 } trait T { fn f(); } let q = P { x: 1 }.x % 2 - 3 * 4 / 5;",
		token.KwStruct, token.Ident, token.LBrace, token.Ident, token.Colon, token.Ident, token.RBrace,
		token.KwTrait, token.Ident, token.LBrace, token.KwFn, token.Ident, token.LParen, token.RParen, token.Semicolon, token.RBrace,
		token.KwLet, token.Ident, token.Assign, token.Ident, token.LBrace, token.Ident, token.Colon, token.IntLit, token.RBrace,
		token.Dot, token.Ident, token.Percent, token.IntLit, token.Minus, token.IntLit, token.Star, token.IntLit,
		token.Slash, token.IntLit, token.Semicolon)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind token.Kind
		text string
	}{
		{"0", token.IntLit, "0"},
		{"9223372036854775807", token.IntLit, "9223372036854775807"},
		{"1.25", token.FloatLit, "1.25"},
		{"1e10", token.FloatLit, "1e10"},
		{"2.5E-3", token.FloatLit, "2.5E-3"},
	}
	for _, tc := range cases {
		lx, bag := makeTestLexer(tc.in)
		tok := lx.Next()
		if tok.Kind != tc.kind || tok.Text != tc.text {
			t.Errorf("%q: got %v %q", tc.in, tok.Kind, tok.Text)
		}
		if bag.Len() != 0 {
			t.Errorf("%q: unexpected errors %v", tc.in, errorMessages(bag))
		}
	}
}

func TestIntFieldAccessIsNotFloat(t *testing.T) {
	expectTokens(t, "1.x", token.IntLit, token.Dot, token.Ident)
}

func TestBadNumbers(t *testing.T) {
	for _, in := range []string{"9223372036854775808", "12abc", "1.5e+"} {
		lx, bag := makeTestLexer(in)
		collectAllTokens(lx)
		items := bag.Items()
		if len(items) != 1 || items[0].Code != diag.LexBadNumber {
			t.Errorf("%q: expected one LexBadNumber, got %v", in, errorMessages(bag))
		}
	}
}

func TestInvalidCharactersContinue(t *testing.T) {
	lx, bag := makeTestLexer("let a = 1 @#$ + 2;")
	tokens := collectAllTokens(lx)

	kinds := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.KwLet, token.Ident, token.Assign, token.IntLit, token.Invalid, token.Plus, token.IntLit, token.Semicolon}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	inv := tokens[4]
	if inv.Text != "@#$" || inv.Span.Start != 10 || inv.Span.End != 13 {
		t.Fatalf("invalid token = %+v", inv)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexUnknownChar || items[0].Primary != inv.Span {
		t.Fatalf("diagnostics = %v", errorMessages(bag))
	}
}

func TestInvalidUTF8(t *testing.T) {
	lx, bag := makeTestLexer("a \xff\xfe b")
	expect := []token.Kind{token.Ident, token.Invalid, token.Ident}
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expect) {
		t.Fatalf("tokens = %v", tokens)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexInvalidUTF8 {
		t.Fatalf("diagnostics = %v", errorMessages(bag))
	}
}

func TestCommentsSkipped(t *testing.T) {
	expectTokens(t, "// line\nfn /* block /* nested */ still */ main", token.KwFn, token.Ident)

	lx, bag := makeTestLexer("/* unterminated\nfoo")
	if tok := lx.Next(); tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok.Kind)
	}
	if items := bag.Items(); len(items) != 1 || items[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("diagnostics = %v", errorMessages(bag))
	}
}

func TestPositions(t *testing.T) {
	lx, _ := makeTestLexer("fn main()\n  -> i64")
	tokens := collectAllTokens(lx)
	arrow := tokens[4]
	if arrow.Kind != token.Arrow {
		t.Fatalf("tokens[4] = %v", arrow.Kind)
	}
	if arrow.Start != (source.LineCol{Line: 2, Col: 3}) || arrow.End != (source.LineCol{Line: 2, Col: 5}) {
		t.Fatalf("arrow at %+v-%+v", arrow.Start, arrow.End)
	}
}

func TestBlockMetadata(t *testing.T) {
	lx, _ := makeTestLexer("fn f() {\n  let a = S {\n x: 1 };\n}\nfn g() {}")
	tokens := collectAllTokens(lx)

	byText := func(text string, nth int) token.Token {
		for _, tok := range tokens {
			if tok.Text == text {
				if nth == 0 {
					return tok
				}
				nth--
			}
		}
		t.Fatalf("token %q not found", text)
		return token.Token{}
	}

	if tok := byText("fn", 0); tok.Block != nil {
		t.Fatalf("file-scope token has block %+v", tok.Block)
	}
	outer := byText("let", 0).Block
	if outer == nil || outer.Depth != 1 || outer.StartLine != 1 {
		t.Fatalf("let block = %+v", outer)
	}
	inner := byText("x", 0).Block
	if inner == nil || inner.Depth != 2 || inner.StartLine != 2 {
		t.Fatalf("x block = %+v", inner)
	}
	if byText(";", 0).Block != outer {
		t.Fatal("tokens of the same block must share CodeData")
	}
	if tok := byText("g", 0); tok.Block != nil {
		t.Fatalf("second fn name must be at file scope, got %+v", tok.Block)
	}
}

func TestNFCIdentifiers(t *testing.T) {
	// "é" как e + combining acute и как precomposed
	lx, bag := makeTestLexer("cafe\u0301 caf\u00e9")
	tokens := collectAllTokens(lx)
	if len(tokens) != 2 || bag.Len() != 0 {
		t.Fatalf("tokens = %v, errors = %v", tokens, errorMessages(bag))
	}
	if tokens[0].Text != tokens[1].Text {
		t.Fatalf("NFC mismatch: %q vs %q", tokens[0].Text, tokens[1].Text)
	}
}

func TestEOFRepeatsAndPeek(t *testing.T) {
	lx, _ := makeTestLexer("x")
	if lx.Peek().Kind != token.Ident || lx.Peek().Kind != token.Ident {
		t.Fatal("Peek must not consume")
	}
	lx.Next()
	for range 3 {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v", tok.Kind)
		}
	}
}

func TestTokensStopsAfterEOF(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	n := 0
	var last token.Token
	for tok := range lx.Tokens() {
		n++
		last = tok
	}
	if n != 3 || last.Kind != token.EOF {
		t.Fatalf("yielded %d tokens, last %v", n, last.Kind)
	}
}
