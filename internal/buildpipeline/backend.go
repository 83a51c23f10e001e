package buildpipeline

import (
	"runtime/debug"

	"raven/internal/backend/jit"
	"raven/internal/sched"
	"raven/internal/symbols"
	"raven/internal/trace"
)

type backendResult struct {
	entry *jit.EntryPoint
	err   error
}

// backend is the compile unit. It lives outside the coordinator's task set:
// its wait on proceed must not keep the set from draining.
type backend struct {
	proceed chan bool
	result  chan backendResult
	sent    bool
}

func startBackend(reg *symbols.Registry, tracer trace.Tracer, parent uint64) *backend {
	b := &backend{
		proceed: make(chan bool, 1),
		result:  make(chan backendResult, 1),
	}
	go func() {
		span := trace.Begin(tracer, trace.ScopeUnit, "backend", parent)
		detail := "skipped"
		defer func() { span.End(detail) }()
		defer func() {
			if r := recover(); r != nil {
				detail = "panic"
				b.result <- backendResult{err: &sched.PanicError{Value: r}}
				trace.Point(tracer, trace.ScopeUnit, "backend-panic", string(debug.Stack()), parent)
			}
		}()

		// прогрев: таблица типов строится, пока фронтенд ещё работает
		c := jit.NewCompiler()
		if !<-b.proceed {
			return
		}
		arena := reg.Arena()
		ep, err := c.Compile(reg.Target(), arena.Funcs, arena.Structs)
		detail = "compiled"
		if err != nil {
			detail = "error"
		}
		b.result <- backendResult{entry: ep, err: err}
	}()
	return b
}

// release lets the backend go. Only the first call has an effect.
func (b *backend) release(compile bool) {
	if b.sent {
		return
	}
	b.sent = true
	b.proceed <- compile
}
