package diag

import (
	"raven/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a data-only suggestion; nothing in the toolchain applies it automatically.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// IsError reports whether d blocks code generation.
func (d Diagnostic) IsError() bool {
	return d.Severity >= SevError
}
