package diagfmt

import (
	"fmt"
	"io"

	"raven/internal/diag"
	"raven/internal/source"
)

// Short prints one line per diagnostic with the full span:
// <path>:<line>:<col>-<line>:<col> [<start>..<end>]: <SEV> <CODE>: <Message>
// Удобен для grep и для сравнения вывода в тестах.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		if hasLocation(fs, d.Primary) {
			f := fs.Get(d.Primary.File)
			start, end := fs.Resolve(d.Primary)
			fmt.Fprintf(w, "%s:%d:%d-%d:%d [%d..%d]: ", formatPath(fs, f, mode),
				start.Line, start.Col, end.Line, end.Col, d.Primary.Start, d.Primary.End)
		}
		fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Code.ID(), d.Message)
	}
}
