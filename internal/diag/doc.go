// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer, parser, resolver and backend.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// Package diag does not perform any formatting beyond the single-line golden
// form. Rendering lives in internal/diagfmt, LSP mapping in internal/lsp.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue. File and
//     line/column are derived from it through source.FileSet.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional suggested edits (for example "did you mean" renames).
//
// # Emitting diagnostics
//
// Resolution units run concurrently, so every Reporter shared between units must
// be safe for concurrent use. *Bag is; DedupReporter is; the symbol registry
// implements Reporter by appending to its error list.
//
// Diagnostics are unordered until rendered. Renderers call SortDiagnostics (or
// Bag.Sort) to get a deterministic order: file, offset, severity, code.
package diag
