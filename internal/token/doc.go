// Package token defines lexical token kinds for the Raven compiler.
// Invariants:
//   - Token.Span covers the token bytes; Token.Text is the whitespace-trimmed
//     slice of those bytes (identifiers additionally NFC-normalized).
//   - Start/End are 1-based line/column positions of Span.Start and Span.End.
//   - Block points at the innermost enclosing brace block, nil at file scope.
//   - Built-in type names (i64, f64) are identifiers; the resolver recognises them.
package token
