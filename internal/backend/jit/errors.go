package jit

import (
	"fmt"
	"strings"

	"raven/internal/diag"
	"raven/internal/source"
)

// Error is an authoring defect found while compiling: the input reached
// the backend although it cannot be translated. Code is one of the
// diag.Bck* codes.
type Error struct {
	Code diag.Code
	Func string // function being compiled, "" if unknown
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	if e.Func == "" {
		return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code.ID(), e.Func, e.Msg)
}

// Diagnostic converts e for the pipeline's diagnostic list.
func (e *Error) Diagnostic() diag.Diagnostic {
	msg := e.Msg
	if e.Func != "" {
		msg = e.Func + ": " + msg
	}
	return diag.NewError(e.Code, e.Span, msg)
}

// TrapKind identifies the runtime condition that stopped execution.
type TrapKind uint8

const (
	TrapDivisionByZero TrapKind = iota + 1
	TrapCallDepth
	// TrapInternal wraps a Go panic inside compiled code.
	TrapInternal
)

func (k TrapKind) String() string {
	switch k {
	case TrapDivisionByZero:
		return "division by zero"
	case TrapCallDepth:
		return "call depth exceeded"
	case TrapInternal:
		return "internal error"
	default:
		return fmt.Sprintf("TrapKind(%d)", k)
	}
}

// MaxCallDepth bounds nested calls of compiled functions.
const MaxCallDepth = 10000

// maxBacktrace caps the frames recorded on a trap; deep recursion would
// otherwise copy thousands of identical frames.
const maxBacktrace = 32

// BacktraceFrame is one active call at the moment of a trap.
type BacktraceFrame struct {
	Func string
	Span source.Span
}

// Trap is a runtime error raised by compiled code.
type Trap struct {
	Kind      TrapKind
	Message   string
	Span      source.Span
	Backtrace []BacktraceFrame // innermost first
}

func (t *Trap) Error() string {
	return fmt.Sprintf("trap: %s", t.Message)
}

func (t *Trap) unwind(fn string, sp source.Span) {
	if len(t.Backtrace) < maxBacktrace {
		t.Backtrace = append(t.Backtrace, BacktraceFrame{Func: fn, Span: sp})
	}
}

// FormatWithFiles renders the trap with resolved file:line:col positions.
func (t *Trap) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "trap: %s\n", t.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(t.Span, files))
	sb.WriteString("\n")
	if len(t.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, fr := range t.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, fr.Func, formatSpan(fr.Span, files))
		}
	}
	return sb.String()
}

func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0) {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}
