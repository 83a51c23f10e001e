package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"raven/internal/diag"
	"raven/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

var errNoPreview = errors.New("edit outside of known source")

// buildFixEditPreview renders the whole lines an edit touches, as they are
// now and as they would be once the edit is applied.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errNoPreview
	}
	f := fs.Get(edit.Span.File)
	if f == nil || edit.Span.End < edit.Span.Start || int(edit.Span.End) > len(f.Content) {
		return fixEditPreview{}, errNoPreview
	}

	from, to := lineBounds(f.Content, int(edit.Span.Start), int(edit.Span.End))
	block := string(f.Content[from:to])
	relStart, relEnd := int(edit.Span.Start)-from, int(edit.Span.End)-from
	if relStart < 0 || relEnd > len(block) {
		return fixEditPreview{}, fmt.Errorf("edit %d..%d does not fit preview block", edit.Span.Start, edit.Span.End)
	}

	return fixEditPreview{
		before: previewLines(block),
		after:  previewLines(block[:relStart] + edit.NewText + block[relEnd:]),
	}, nil
}

// lineBounds расширяет [start, end) до границ строк без завершающего '\n'.
func lineBounds(content []byte, start, end int) (from, to int) {
	from = start
	for from > 0 && content[from-1] != '\n' {
		from--
	}
	to = end
	for to < len(content) && content[to] != '\n' {
		to++
	}
	return from, to
}

func previewLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
