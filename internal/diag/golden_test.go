package diag

import (
	"testing"

	"raven/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/sample.rv", []byte("a\nb\n"), 0)
	otherFile := fs.Add("/workspace/src/other.rv", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaError,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevError,
			Code:     SemaUnresolvedSymbol,
			Message:  "unresolved",
			Primary:  source.Span{File: otherFile, Start: 0, End: 1},
		},
		{
			Severity: SevError,
			Code:     SemaUnresolvedSymbol,
			Message:  "dangling file id is skipped",
			Primary:  source.Span{File: 42},
		},
	}

	expected := "error SEM3005 src/other.rv:1:1 unresolved\n" +
		"error SYN2001 src/sample.rv:1:1 first line second\n" +
		"note SYN2001 src/sample.rv:2:1 note line\n" +
		"warning SEM3001 src/sample.rv:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:      "LEX1001",
		SynUnexpectedToken:  "SYN2001",
		SemaMissingReturn:   "SEM3126",
		SemaResolutionCycle: "SEM3127",
		IOLoadFileError:     "IO4001",
		ObsTimings:          "OBS6001",
		PipTaskFailure:      "PIP6101",
		BckNotImplemented:   "BCK9003",
		BckMissingFunction:  "BCK9005",
		UnknownCode:         "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
	if Code(4242).Title() != "Unknown error" {
		t.Errorf("unknown codes must fall back to the generic title")
	}
}
