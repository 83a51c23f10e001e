package diag

import (
	"sync"
	"testing"

	"raven/internal/source"
)

func TestBagConcurrentAdd(t *testing.T) {
	bag := NewBag(0)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ReportError(bag, SemaTypeMismatch, source.Span{Start: uint32(i)}, "mismatch").Emit()
		}(i)
	}
	wg.Wait()
	if bag.Len() != 50 {
		t.Fatalf("Len = %d, want 50", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatal("expected errors")
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for range 5 {
		bag.Add(NewError(SemaError, source.Span{}, "x"))
	}
	if bag.Len() != 2 || bag.Dropped() != 3 {
		t.Fatalf("Len=%d Dropped=%d", bag.Len(), bag.Dropped())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Start: 5, End: 6}, "b"))
	bag.Add(New(SevWarning, SemaError, source.Span{File: 0, Start: 9, End: 9}, "w"))
	bag.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Start: 5, End: 6}, "b again"))
	bag.Add(NewError(LexUnknownChar, source.Span{File: 0, Start: 1, End: 2}, "a"))

	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	want := []Code{LexUnknownChar, SemaError, SemaTypeMismatch}
	for i, code := range want {
		if items[i].Code != code {
			t.Fatalf("items[%d].Code = %s, want %s", i, items[i].Code.ID(), code.ID())
		}
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(bag)
	sp := source.Span{File: 0, Start: 1, End: 3}
	r.Report(SynUnexpectedToken, SevError, sp, "unexpected", nil, nil)
	r.Report(SynUnexpectedToken, SevError, sp, "unexpected", nil, nil)
	r.Report(SynUnexpectedToken, SevError, sp, "other message", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(bag, SemaUnresolvedSymbol, source.Span{}, "unresolved symbol `foo`").
		WithNote(source.Span{Start: 4}, "declared here").
		WithFix("replace with `for`", FixEdit{Span: source.Span{}, NewText: "for"})
	b.Emit()
	b.Emit()
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(items))
	}
	if len(items[0].Notes) != 1 || len(items[0].Fixes) != 1 {
		t.Fatalf("notes/fixes lost: %+v", items[0])
	}
}
