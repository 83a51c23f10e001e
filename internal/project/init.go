package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrAlreadyInitialized is returned by Init when dir already has a manifest.
var ErrAlreadyInitialized = errors.New("project already initialized")

// InitResult lists what Init wrote, relative to the project directory.
type InitResult struct {
	Dir     string
	Created []string
	Kept    []string
}

// Init creates dir if needed and writes a manifest plus a hello-world
// entry file. An existing entry file is left untouched.
func Init(dir string) (*InitResult, error) {
	if st, err := os.Stat(dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", dir)
	}

	manifestPath := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, fmt.Errorf("%w: %s exists", ErrAlreadyInitialized, manifestPath)
	}

	name := strings.TrimSpace(filepath.Base(dir))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "raven-project"
	}
	cfg := Config{
		Package: PackageConfig{Name: name, Version: "0.1.0"},
		Build:   BuildConfig{Entry: DefaultEntry, Sources: []string{DefaultSourceDir}},
	}
	res := &InitResult{Dir: dir}
	if err := writeManifest(manifestPath, cfg); err != nil {
		return nil, err
	}
	res.Created = append(res.Created, ManifestName)

	srcDir := filepath.Join(dir, DefaultSourceDir)
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", srcDir, err)
	}
	mainRel := filepath.ToSlash(filepath.Join(DefaultSourceDir, "main"+DefaultExtension))
	mainPath := filepath.Join(dir, filepath.FromSlash(mainRel))
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMain), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", mainRel, err)
		}
		res.Created = append(res.Created, mainRel)
	} else {
		res.Kept = append(res.Kept, mainRel)
	}
	return res, nil
}

func writeManifest(path string, cfg Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if _, err := f.WriteString("# Raven project manifest\n"); err != nil {
		f.Close()
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return f.Close()
}

const defaultMain = `// Raven hello world: the exit value of main is printed by "raven run".
fn answer(a: i64, b: i64) -> i64 {
    return a * b;
}

fn main() -> i64 {
    return answer(6, 7);
}
`
