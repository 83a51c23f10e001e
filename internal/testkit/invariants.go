package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"raven/internal/ast"
	"raven/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span is non-empty and within file content bounds
// 2) every declaration span is non-empty and fully contained in file.Span
// 3) declarations do not overlap and appear in source order
// 4) a declaration's name span lies inside the declaration
// 5) file.Span covers the union of declaration spans (if any exist)
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}

	// 1) file span sanity
	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	var union source.Span
	var haveDecl bool
	var prevEnd uint32
	for _, d := range f.Decls {
		info := d.Info()
		sp := info.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty span for %s: %v", info.FQN, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("span file mismatch for %s: got=%d want=%d", info.FQN, sp.File, sf.ID)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("span %v of %s is outside file span %v", sp, info.FQN, f.Span)
		}
		if !sp.Contains(info.NameSpan) {
			return fmt.Errorf("name span %v of %s is outside its declaration %v", info.NameSpan, info.FQN, sp)
		}
		if haveDecl && sp.Start < prevEnd {
			return fmt.Errorf("span %v of %s overlaps the previous declaration", sp, info.FQN)
		}
		prevEnd = sp.End
		if im, ok := d.(*ast.ImplDecl); ok {
			for _, m := range im.Methods {
				if !sp.Contains(m.Span) {
					return fmt.Errorf("method %s lies outside its impl %v", m.FQN, sp)
				}
			}
		}
		if !haveDecl {
			union = sp
			haveDecl = true
		} else {
			union = union.Cover(sp)
		}
	}

	if haveDecl {
		if union.Start < f.Span.Start || union.End > f.Span.End {
			return fmt.Errorf("file span %v does not cover union of declarations %v", f.Span, union)
		}
	}
	return nil
}
