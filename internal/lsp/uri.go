package lsp

import (
	"net/url"
	"path/filepath"

	"raven/internal/source"
)

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// fileURI resolves relative file paths against the file set base directory.
func fileURI(fs *source.FileSet, f *source.File) string {
	path := filepath.FromSlash(f.Path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(fs.BaseDir(), path)
	}
	return pathToURI(path)
}
