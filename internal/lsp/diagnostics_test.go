package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"raven/internal/diag"
	"raven/internal/source"
)

func TestConvertDiagnostic(t *testing.T) {
	fs := source.NewFileSetWithBase("/proj")
	id := fs.AddVirtual("src/main.rv", []byte("fn main() -> i64 {\n    return \"é\" + x;\n}\n"))
	d := diag.NewError(diag.SemaUnknownVariable, source.Span{File: id, Start: 37, End: 38}, "unknown variable x")
	d = d.WithNote(source.Span{File: id, Start: 3, End: 7}, "in function main::main")
	d = d.WithNote(source.Span{}, "detached")

	uri, got := ConvertDiagnostic(fs, &d)
	if uri != "file:///proj/src/main.rv" {
		t.Fatalf("uri = %q", uri)
	}
	want := Diagnostic{
		// "é" занимает два байта, но одну UTF-16 единицу
		Range:    Range{Start: Position{Line: 1, Character: 17}, End: Position{Line: 1, Character: 18}},
		Severity: SeverityError,
		Code:     "SEM3022",
		Source:   "raven",
		Message:  "unknown variable x",
		RelatedInformation: []DiagnosticRelatedInformation{{
			Location: Location{URI: uri, Range: Range{Start: Position{Character: 3}, End: Position{Character: 7}}},
			Message:  "in function main::main",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFramesPublishAndErrors(t *testing.T) {
	fs := source.NewFileSetWithBase("/proj")
	a := fs.AddVirtual("a.rv", []byte("fn a() {}\nfn a() {}\n"))
	b := fs.AddVirtual("b.rv", []byte("x"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaDuplicateSymbol, source.Span{File: a, Start: 13, End: 14}, "duplicate symbol a::a"))
	bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: b, Start: 0, End: 1}, "w"))
	bag.Add(diag.NewError(diag.SemaTypeMismatch, source.Span{File: a, Start: 3, End: 4}, "mismatch"))
	bag.Add(diag.NewError(diag.PipTaskFailure, source.Span{}, "task parse failed"))
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "cannot load c.rv: denied"))

	var buf bytes.Buffer
	if err := Write(&buf, bag, fs); err != nil {
		t.Fatal(err)
	}

	r := bufio.NewReader(&buf)
	var msgs []map[string]json.RawMessage
	for range 4 {
		payload, err := ReadMessage(r)
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(payload, &m); err != nil {
			t.Fatal(err)
		}
		msgs = append(msgs, m)
	}
	if _, err := ReadMessage(r); err == nil {
		t.Fatal("unexpected extra message")
	}

	var pa PublishDiagnosticsParams
	if err := json.Unmarshal(msgs[0]["params"], &pa); err != nil {
		t.Fatal(err)
	}
	if string(msgs[0]["method"]) != `"textDocument/publishDiagnostics"` || pa.URI != "file:///proj/a.rv" || len(pa.Diagnostics) != 2 {
		t.Fatalf("first message = %+v", pa)
	}
	if _, ok := msgs[0]["id"]; ok {
		t.Fatal("notification carries an id")
	}

	var pb PublishDiagnosticsParams
	if err := json.Unmarshal(msgs[1]["params"], &pb); err != nil {
		t.Fatal(err)
	}
	if pb.URI != "file:///proj/b.rv" || pb.Diagnostics[0].Severity != SeverityWarning {
		t.Fatalf("second message = %+v", pb)
	}

	if string(msgs[2]["id"]) != "null" {
		t.Fatalf("error id = %s", msgs[2]["id"])
	}
	var e1, e2 struct {
		Code    ErrorCode       `json:"code"`
		Message string          `json:"message"`
		Data    DiagnosticError `json:"data"`
	}
	if err := json.Unmarshal(msgs[2]["error"], &e1); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(msgs[3]["error"], &e2); err != nil {
		t.Fatal(err)
	}
	if e1.Code != InternalError || e1.Message != "PIP6101: task parse failed" || e1.Data.URI != "" || e1.Data.Diagnostic.Code != "PIP6101" {
		t.Fatalf("task failure = %+v", e1)
	}
	if e2.Code != RequestFailed || !strings.HasPrefix(e2.Message, "IO4001: ") {
		t.Fatalf("load error = %+v", e2)
	}
}
