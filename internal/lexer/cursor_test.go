package lexer

import (
	"testing"

	"raven/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rv", []byte(content))
	return fs.Get(id)
}

// "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if cursor.Peek() != want {
			t.Fatalf("Peek = %q, want %q", cursor.Peek(), want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() {
		t.Fatal("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("Peek/Bump past EOF must return 0")
	}
}

func TestPeek2(t *testing.T) {
	cursor := NewCursor(createFile("ab"))
	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != 'a' || b1 != 'b' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	cursor.Bump()
	if _, _, ok := cursor.Peek2(); ok {
		t.Fatal("Peek2 must fail with a single byte left")
	}
}

func TestMarkResetSpan(t *testing.T) {
	file := createFile("hello")
	cursor := NewCursor(file)
	m := cursor.Mark()
	cursor.Advance(3)
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 3 || sp.File != file.ID {
		t.Fatalf("span = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Fatalf("Reset left Off=%d", cursor.Off)
	}
	cursor.Advance(100)
	if !cursor.EOF() || cursor.Off != 5 {
		t.Fatalf("Advance must clamp at EOF, Off=%d", cursor.Off)
	}
}

func TestEat(t *testing.T) {
	cursor := NewCursor(createFile("->"))
	if cursor.Eat('>') {
		t.Fatal("Eat must not consume a mismatching byte")
	}
	if !cursor.Eat('-') || !cursor.Eat('>') || cursor.Eat('>') {
		t.Fatal("unexpected Eat results")
	}
}
