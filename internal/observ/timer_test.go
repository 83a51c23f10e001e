package observ

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"raven/internal/diag"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("parse")
	time.Sleep(time.Millisecond)
	tm.End(a, "3 files")
	b := tm.Begin("compile")
	tm.End(b, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	p, ok := r.Phase("parse")
	if !ok || p.Note != "3 files" || p.DurationMS <= 0 {
		t.Fatalf("parse phase = %+v, %v", p, ok)
	}
	if r.TotalMS < p.DurationMS {
		t.Fatalf("total %.3f below phase %.3f", r.TotalMS, p.DurationMS)
	}
	if _, ok := r.Phase("link"); ok {
		t.Fatal("unexpected phase link")
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:\n", "parse", "// 3 files", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
}

func TestTimerConcurrentPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("unit"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("phases = %d, want 16", n)
	}
}

func TestReportDiagnostic(t *testing.T) {
	r := Report{TotalMS: 1.5, Phases: []PhaseReport{{Name: "parse", DurationMS: 1.5}}}
	d := r.Diagnostic("")
	if d.Code != diag.ObsTimings || d.Severity != diag.SevInfo {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Message != "timings (pipeline): total 1.50 ms" {
		t.Fatalf("message = %q", d.Message)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("notes = %d", len(d.Notes))
	}
	var payload struct {
		Kind   string        `json:"kind"`
		Phases []PhaseReport `json:"phases"`
	}
	if err := json.Unmarshal([]byte(d.Notes[0].Msg), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Kind != "pipeline" || len(payload.Phases) != 1 || payload.Phases[0].Name != "parse" {
		t.Fatalf("payload = %+v", payload)
	}
}
