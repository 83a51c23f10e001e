package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"raven/internal/diag"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, ManifestName), `
[package]
name = "demo"
version = "1.2.0"

[build]
entry = "app::main"
sources = ["src", "lib"]
jobs = 4
`)
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m, ok, err := Load(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, m.Root)
	want := Config{
		Package: PackageConfig{Name: "demo", Version: "1.2.0"},
		Build:   BuildConfig{Entry: "app::main", Sources: []string{"src", "lib"}, Extension: ".rv", Jobs: 4},
	}
	if diff := cmp.Diff(want, m.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{filepath.Join(root, "src"), filepath.Join(root, "lib")}, m.SourceRoots())
}

func TestLoadWithoutManifest(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	require.NoError(t, err)
	// временный каталог может лежать под чужим raven.toml только в экзотических окружениях
	if ok {
		t.Skip("a raven.toml exists above the temp dir")
	}
	require.Nil(t, m)
}

func TestDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	write(t, path, "[package]\nname = \"x\"\n")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultEntry, cfg.Build.Entry)
	require.Equal(t, []string{DefaultSourceDir}, cfg.Build.Sources)
	require.Equal(t, DefaultExtension, cfg.Build.Extension)
}

func TestInvalidManifests(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"no package", "[build]\nentry = \"main::main\"\n", "missing [package]"},
		{"no name", "[package]\nversion = \"1.0.0\"\n", "missing [package].name"},
		{"bad version", "[package]\nname = \"x\"\nversion = \"one\"\n", `[package].version "one" is not a semantic version`},
		{"unknown key", "[package]\nname = \"x\"\nedition = 2024\n", "unknown key package.edition"},
		{"absolute source", "[package]\nname = \"x\"\n[build]\nsources = [\"/src\"]\n", `[build].sources must be relative, found "/src"`},
		{"bad extension", "[package]\nname = \"x\"\n[build]\nextension = \"rv\"\n", `[build].extension must start with '.', found "rv"`},
		{"negative jobs", "[package]\nname = \"x\"\n[build]\njobs = -1\n", "[build].jobs must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			write(t, path, tt.content)
			_, err := LoadFile(path)
			require.ErrorIs(t, err, ErrInvalidManifest)
			var me *ManifestError
			require.True(t, errors.As(err, &me))
			require.Equal(t, tt.msg, me.Msg)
			require.Equal(t, diag.ProjInvalidManifest, me.Diagnostic().Code)
		})
	}
}

func TestSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	write(t, path, "[package\nname = ")
	_, err := LoadFile(path)
	require.ErrorIs(t, err, ErrInvalidManifest)
	require.Contains(t, err.Error(), "failed to parse TOML")
}

func TestVersionPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	write(t, path, "[package]\nname = \"x\"\nversion = \"v2.0.0-rc.1\"\n")
	_, err := LoadFile(path)
	require.NoError(t, err)
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hello")
	res, err := Init(dir)
	require.NoError(t, err)
	require.Equal(t, []string{ManifestName, "src/main.rv"}, res.Created)

	m, ok, err := Load(dir)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", m.Config.Package.Name)
	require.Equal(t, "0.1.0", m.Config.Package.Version)
	require.Equal(t, DefaultEntry, m.Config.Build.Entry)

	_, err = Init(dir)
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInitKeepsExistingMain(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "src", "main.rv")
	write(t, main, "fn main() { }")
	res, err := Init(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"src/main.rv"}, res.Kept)
	data, err := os.ReadFile(main)
	require.NoError(t, err)
	require.Equal(t, "fn main() { }", string(data))
}
