package buildpipeline

import (
	"time"

	"raven/internal/backend/jit"
	"raven/internal/diag"
	"raven/internal/observ"
	"raven/internal/sched"
	"raven/internal/source"
)

// State is the orchestrator's position in the run.
type State uint8

const (
	StateSpawning State = iota
	StateAwaiting
	StateChecking
	StateCompiling
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning-parsers"
	case StateAwaiting:
		return "awaiting-quiescence"
	case StateChecking:
		return "checking-errors"
	case StateCompiling:
		return "compiling"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends the run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Status captures progress state of one file or of the whole run.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	State   State
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from parse
// units concurrently.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

// Request configures one pipeline run.
type Request struct {
	Inputs []source.Input
	// Target is the fully qualified function compiled into the entry
	// point; "" means check only.
	Target string
	// Extension filters Inputs by path suffix; "" means ".rv".
	Extension string
	// BaseDir is stripped from paths before module names are derived.
	BaseDir string
	// Workers bounds concurrently running units; <= 0 means GOMAXPROCS.
	Workers int
	// MaxErrors caps syntax errors per file; 0 means no cap.
	MaxErrors uint
	// Heartbeat emits coordinator snapshots to the context tracer.
	Heartbeat time.Duration
	Progress  ProgressSink
}

// Result is the outcome of a run. A failed run has State == StateFailed
// and the complete diagnostic list; Entry is nil then. A successful run
// without a target has State == StateDone and Entry == nil.
type Result struct {
	State       State
	Entry       *jit.EntryPoint
	Diagnostics []diag.Diagnostic
	FileSet     *source.FileSet
	Timings     observ.Report
	Failures    []sched.TaskFailure
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}
