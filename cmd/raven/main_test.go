package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"raven/internal/diagfmt"
	"raven/internal/lsp"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetArgs(append(args, "--color", "off", "--ui", "off"))
	err = cmd.Execute()
	return out.String(), errb.String(), err
}

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "calc.rv", "fn main() -> i64 { return 2 + 3; }\n")

	out, _, err := execute(t, "run", path)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

func TestRunDirectoryWithEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app/start.rv", "fn go() -> i64 { return lib::twice(21); }\n")
	writeFile(t, dir, "lib.rv", "fn twice(x: i64) -> i64 { return x * 2; }\n")

	out, _, err := execute(t, "run", dir, "--entry", "app::start::go")
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestRunTrap(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.rv", `
fn div(a: i64, b: i64) -> i64 { return a / b; }
fn main() -> i64 { return div(1, 0); }
`)
	out, errOut, err := execute(t, "run", path)
	require.ErrorIs(t, err, errReported)
	require.Empty(t, out)
	require.Contains(t, errOut, "trap: integer division by zero")
}

func TestInitThenRunFromManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hello")
	out, _, err := execute(t, "init", dir)
	require.NoError(t, err)
	require.Contains(t, out, "created raven.toml")
	require.Contains(t, out, "created src/main.rv")

	t.Chdir(dir)
	out, _, err = execute(t, "run")
	require.NoError(t, err)
	require.Equal(t, "42\n", out)

	_, _, err = execute(t, "init", dir)
	require.Error(t, err)
}

func TestCheckWithoutManifest(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, "check")
	require.ErrorContains(t, err, "no raven.toml found")
}

func TestCheckReportsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rv", "fn a() -> i64 { return nothere(); }\n")
	writeFile(t, dir, "b.rv", "fn b() -> i64 { return 1 }\n")

	out, _, err := execute(t, "check", dir, "--format", "short")
	require.ErrorIs(t, err, errReported)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	for _, line := range lines {
		require.Contains(t, line, ": ERROR ")
	}
}

func TestCheckCleanPretty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rv", "fn a() -> i64 { return 1; }\n")

	out, errOut, err := execute(t, "check", dir)
	require.NoError(t, err)
	require.Empty(t, out)
	require.Equal(t, "ok: 1 files checked\n", errOut)
}

func TestCheckJSONWithTimings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rv", "fn a() -> i64 { return 1; }\n")

	out, _, err := execute(t, "check", dir, "--format", "json", "--timings")
	require.NoError(t, err)
	var doc diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, 1, doc.Count)
	require.Equal(t, "OBS6001", doc.Diagnostics[0].Code)
	require.Len(t, doc.Diagnostics[0].Notes, 1)
}

func TestCheckJSONSuggestsFixes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rv", "fn a() -> i64 {\n    let x = 1\n    return x;\n}\n")
	writeFile(t, dir, "b.rv", "fn b() -> i64 { let count = 1; return cnt; }\n")

	out, _, err := execute(t, "check", dir, "--format", "json", "--suggest", "--preview")
	require.ErrorIs(t, err, errReported)
	var doc diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, 2, doc.Count, out)

	byCode := make(map[string]diagfmt.DiagnosticJSON)
	for _, d := range doc.Diagnostics {
		byCode[d.Code] = d
	}
	semi, ok := byCode["SYN2012"]
	require.True(t, ok, out)
	require.Len(t, semi.Fixes, 1)
	require.Equal(t, "insert ';'", semi.Fixes[0].Title)
	edit := semi.Fixes[0].Edits[0]
	require.Equal(t, ";", edit.NewText)
	require.Equal(t, []string{"    let x = 1"}, edit.BeforeLines)
	require.Equal(t, []string{"    let x = 1;"}, edit.AfterLines)

	unknown, ok := byCode["SEM3022"]
	require.True(t, ok, out)
	require.Len(t, unknown.Fixes, 1)
	require.Equal(t, "count", unknown.Fixes[0].Edits[0].NewText)
	require.Equal(t, []string{"fn b() -> i64 { let count = 1; return count; }"}, unknown.Fixes[0].Edits[0].AfterLines)
}

func TestCheckLSPFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rv", "fn a() -> i64 { return 1 }\n")

	out, _, err := execute(t, "check", dir, "--format", "lsp")
	require.ErrorIs(t, err, errReported)
	payload, err := lsp.ReadMessage(bufio.NewReader(strings.NewReader(out)))
	require.NoError(t, err)
	var msg struct {
		Method string                       `json:"method"`
		Params lsp.PublishDiagnosticsParams `json:"params"`
	}
	require.NoError(t, json.Unmarshal(payload, &msg))
	require.Equal(t, "textDocument/publishDiagnostics", msg.Method)
	require.True(t, strings.HasSuffix(msg.Params.URI, "/a.rv"))
	require.NotEmpty(t, msg.Params.Diagnostics)
}

func TestUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "check", t.TempDir(), "--format", "xml")
	require.ErrorContains(t, err, `unknown format "xml"`)
}

func TestTokenizeJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "t.rv", "fn x() {}")

	out, _, err := execute(t, "tokenize", path, "--format", "json")
	require.NoError(t, err)
	var toks []diagfmt.TokenOutput
	require.NoError(t, json.Unmarshal([]byte(out), &toks))
	require.Equal(t, "EOF", toks[len(toks)-1].Kind)
}

func TestParsePrintsCanonicalSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p.rv", "fn f()->i64{return 1+2;}")

	out, _, err := execute(t, "parse", path)
	require.NoError(t, err)
	require.Contains(t, out, "fn f() -> i64 {")
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "raven", payload.Tool)
	require.NotEmpty(t, payload.Version)
}

func TestResolveBuildFlagsOverrideManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "raven.toml", "[package]\nname = \"p\"\n\n[build]\nentry = \"app::main\"\nsources = [\"code\"]\njobs = 3\n")
	t.Chdir(dir)

	opts, err := resolveBuild(nil, buildFlags{extension: ".rvx"}, globalOptions{jobs: 0}, true)
	require.NoError(t, err)
	require.Equal(t, "app::main", opts.Target)
	require.Equal(t, ".rvx", opts.Extension)
	require.Equal(t, 3, opts.Jobs)
	require.Len(t, opts.Roots, 1)
	require.Equal(t, "code", filepath.Base(opts.Roots[0]))

	opts, err = resolveBuild(nil, buildFlags{entry: "x::y"}, globalOptions{jobs: 2}, false)
	require.NoError(t, err)
	require.Equal(t, "x::y", opts.Target)
	require.Equal(t, 2, opts.Jobs)
}
