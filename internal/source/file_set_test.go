package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.rv", []byte("fn main() {}"), 0)
	id2 := fs.Add("main.rv", []byte("fn main() -> i64 { return 1; }"), 0)
	if id1 == id2 {
		t.Fatalf("expected a fresh FileID for the second Add")
	}

	latest, ok := fs.GetLatest("main.rv")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "fn main() {}" {
		t.Errorf("old version lost, got %q", got)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// "a\nb\n" -> LineIdx = [1,3]
	id := fs.AddVirtual("a.rv", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestAddInputNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddInput(Input{Path: "x.rv", Content: []byte("\xEF\xBB\xBFa\r\nb\r\n")})
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Fatalf("content = %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", file.Flags)
	}
}

func TestCRLFNormalization(t *testing.T) {
	original := []byte("a\r\nb\r\n")
	normalized, changed := normalizeCRLF(original)
	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}
	if string(normalized) != "a\nb\n" {
		t.Errorf("Expected normalized content %q, got %q", "a\nb\n", normalized)
	}

	// одиночный \r не трогаем
	lone, changed := normalizeCRLF([]byte("a\rb"))
	if changed || string(lone) != "a\rb" {
		t.Errorf("lone CR must be preserved, got %q changed=%v", lone, changed)
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()

	// α занимает 2 байта
	id := fs.AddVirtual("test.rv", []byte("α\n"))
	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})

	if start != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("end = %+v", end)
	}
}

func TestResolveSecondLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.rv", []byte("fn a() {}\nfn b() {}\n"))
	start, end := fs.Resolve(Span{File: id, Start: 13, End: 14})
	if start != (LineCol{Line: 2, Col: 4}) || end != (LineCol{Line: 2, Col: 5}) {
		t.Fatalf("got %+v-%+v", start, end)
	}
}

func TestGetUnknownID(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(7) != nil {
		t.Fatal("expected nil for unknown id")
	}
	start, end := fs.Resolve(Span{File: 7})
	if start != (LineCol{}) || end != (LineCol{}) {
		t.Fatal("expected zero positions for unknown file")
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	if f := fs.Get(fs.AddVirtual("empty.rv", []byte{})); len(f.LineIdx) != 0 {
		t.Errorf("Expected empty LineIdx for empty file, got %v", f.LineIdx)
	}
	if f := fs.Get(fs.AddVirtual("no_newlines.rv", []byte("hello"))); len(f.LineIdx) != 0 {
		t.Errorf("Expected empty LineIdx for file without newlines, got %v", f.LineIdx)
	}
	if f := fs.Get(fs.AddVirtual("only_newline.rv", []byte("\n"))); len(f.LineIdx) != 1 || f.LineIdx[0] != 0 {
		t.Errorf("Expected LineIdx [0] for file with only newline, got %v", f.LineIdx)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("l.rv", []byte("first\nsecond\nthird")))
	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestModuleNameFromBaseDir(t *testing.T) {
	base := t.TempDir()
	fs := NewFileSetWithBase(base)

	id := fs.Add(filepath.Join(base, "math", "ops.rv"), []byte(""), 0)
	if got := fs.Get(id).Module; got != "math::ops" {
		t.Fatalf("Module = %q, want math::ops", got)
	}
	id = fs.Add(filepath.Join(base, "main.rv"), []byte(""), 0)
	if got := fs.Get(id).Module; got != "main" {
		t.Fatalf("Module = %q, want main", got)
	}
}

func TestFileSetConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fs.AddVirtual(fmt.Sprintf("f%d.rv", i), []byte("x\n"))
			if fs.Get(id) == nil {
				t.Errorf("file %d vanished", i)
			}
		}(i)
	}
	wg.Wait()
	if fs.Len() != 32 {
		t.Fatalf("Len = %d, want 32", fs.Len())
	}
	for i, f := range fs.Files() {
		if int(f.ID) != i {
			t.Fatalf("Files()[%d].ID = %d", i, f.ID)
		}
	}
}

func TestLoadBOMAndCRLF(t *testing.T) {
	fs := NewFileSet()
	path := filepath.Join(t.TempDir(), "m.rv")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected file content 'a\\nb\\n', got %q", string(file.Content))
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
	if file.LineIdx[0] != 1 || file.LineIdx[1] != 3 {
		t.Errorf("LineIdx = %v", file.LineIdx)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.rv")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if fs.Len() != 0 {
		t.Fatal("failed load must not add a file")
	}
}
