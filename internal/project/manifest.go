package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"

	"raven/internal/diag"
	"raven/internal/source"
)

// ManifestName is the file that marks a project root.
const ManifestName = "raven.toml"

const (
	DefaultEntry     = "main::main"
	DefaultSourceDir = "src"
	DefaultExtension = ".rv"
)

// ErrInvalidManifest is wrapped by every validation failure of Load.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is a located and validated raven.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version,omitempty"`
}

type BuildConfig struct {
	// Entry is the fully qualified entry function, e.g. "main::main".
	Entry string `toml:"entry"`
	// Sources lists source directories relative to the project root.
	Sources   []string `toml:"sources"`
	Extension string   `toml:"extension,omitempty"`
	Jobs      int      `toml:"jobs,omitempty"`
}

// ManifestError reports a manifest that could not be parsed or validated.
type ManifestError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ManifestError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *ManifestError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidManifest
}

// Diagnostic renders the error as a PRJ5012 diagnostic.
func (e *ManifestError) Diagnostic() diag.Diagnostic {
	return diag.NewError(diag.ProjInvalidManifest, source.Span{}, e.Error())
}

// FindManifest walks up from startDir to locate raven.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and validates the manifest governing startDir. ok is false
// when no manifest exists up to the filesystem root.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadFile decodes and validates one manifest file and fills defaults.
func LoadFile(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, &ManifestError{Path: path, Err: fmt.Errorf("%w: failed to parse TOML: %w", ErrInvalidManifest, err)}
	}
	invalid := func(format string, args ...any) error {
		return &ManifestError{Path: path, Msg: fmt.Sprintf(format, args...)}
	}
	if !meta.IsDefined("package") {
		return Config{}, invalid("missing [package]")
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, invalid("missing [package].name")
	}
	if v := cfg.Package.Version; v != "" && !semver.IsValid(canonicalVersion(v)) {
		return Config{}, invalid("[package].version %q is not a semantic version", v)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, invalid("unknown key %s", undecoded[0])
	}

	b := &cfg.Build
	if strings.TrimSpace(b.Entry) == "" {
		b.Entry = DefaultEntry
	}
	if len(b.Sources) == 0 {
		b.Sources = []string{DefaultSourceDir}
	}
	for _, s := range b.Sources {
		if filepath.IsAbs(s) {
			return Config{}, invalid("[build].sources must be relative, found %q", s)
		}
	}
	if b.Extension == "" {
		b.Extension = DefaultExtension
	}
	if !strings.HasPrefix(b.Extension, ".") {
		return Config{}, invalid("[build].extension must start with '.', found %q", b.Extension)
	}
	if b.Jobs < 0 {
		return Config{}, invalid("[build].jobs must not be negative")
	}
	return cfg, nil
}

// canonicalVersion adds the "v" prefix semver expects.
func canonicalVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// SourceRoots returns the absolute source directories of the project.
func (m *Manifest) SourceRoots() []string {
	out := make([]string, 0, len(m.Config.Build.Sources))
	for _, s := range m.Config.Build.Sources {
		out = append(out, filepath.Join(m.Root, filepath.FromSlash(s)))
	}
	return out
}
