package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raven/internal/ast"
	"raven/internal/backend/jit"
	"raven/internal/diag"
	"raven/internal/observ"
	"raven/internal/parser"
	"raven/internal/sched"
	"raven/internal/sema"
	"raven/internal/source"
	"raven/internal/symbols"
	"raven/internal/trace"
)

// DefaultExtension selects the inputs compiled when Request.Extension is empty.
const DefaultExtension = ".rv"

// Run drives one build: parse every input, resolve and check all
// declarations concurrently, then hand the checked arena to the backend.
// Problems in the program end up in Result.Diagnostics; the returned error
// is reserved for infrastructure failures such as a cancelled context.
func Run(ctx context.Context, req *Request) (Result, error) {
	if req == nil {
		return Result{State: StateFailed}, errors.New("buildpipeline: nil request")
	}
	r := newRun(ctx, req)
	defer r.close()
	return r.run(ctx)
}

type run struct {
	req    *Request
	tracer trace.Tracer
	timer  *observ.Timer
	root   *trace.Span
	start  time.Time

	fs       *source.FileSet
	reg      *symbols.Registry
	coord    *sched.Coordinator
	resolver *sema.Resolver
	back     *backend
	beat     *trace.Heartbeat

	state State
	phase int
	span  *trace.Span
	extra []diag.Diagnostic
}

func newRun(ctx context.Context, req *Request) *run {
	r := &run{
		req:    req,
		tracer: trace.FromContext(ctx),
		timer:  observ.NewTimer(),
		start:  time.Now(),
		fs:     source.NewFileSetWithBase(req.BaseDir),
		reg:    symbols.NewRegistry(),
	}
	r.root = trace.Begin(r.tracer, trace.ScopeDriver, "buildpipeline", 0)
	r.reg.SetTarget(req.Target)
	r.coord = sched.New(sched.Options{
		Workers: req.Workers,
		OnStall: func() {
			n := r.reg.Quiesce()
			trace.Point(r.tracer, trace.ScopePass, "quiesce", fmt.Sprintf("%d waiters failed", n), r.root.ID())
		},
		Tracer: r.tracer,
	})
	r.resolver = sema.NewResolver(r.reg, r.coord)
	r.back = startBackend(r.reg, r.tracer, r.root.ID())
	r.beat = trace.StartHeartbeat(r.tracer, req.Heartbeat, r.coord.Probe)
	return r
}

func (r *run) close() {
	// бэкенд не должен висеть на proceed, если до компиляции не дошли
	r.back.release(false)
	r.beat.Stop()
	r.root.End(r.state.String())
}

func (r *run) run(ctx context.Context) (Result, error) {
	r.enter(StateSpawning)
	files := r.spawnParsers(ctx)
	r.leave(fmt.Sprintf("%d files", files))

	r.enter(StateAwaiting)
	err := r.coord.JoinAll(ctx)
	r.leave(r.coord.Stats().String())
	if err != nil {
		var fe *sched.FailureError
		if !errors.As(err, &fe) {
			// отмена: ждущие юниты получают ошибку, результат не собираем
			r.reg.Abort(err)
			r.finish(StateFailed)
			return r.result(nil, nil), fmt.Errorf("buildpipeline: %w", err)
		}
		for _, f := range fe.Failures {
			r.extra = append(r.extra, diag.NewError(diag.PipTaskFailure, source.Span{}, f.Error()))
		}
		r.finish(StateFailed)
		return r.result(nil, fe.Failures), nil
	}

	r.enter(StateChecking)
	r.checkTarget()
	failed := r.reg.HasErrors()
	r.leave(fmt.Sprintf("%d diagnostics", len(r.reg.Errors())))
	if failed {
		r.finish(StateFailed)
		return r.result(nil, nil), nil
	}

	r.enter(StateCompiling)
	r.back.release(true)
	var res backendResult
	select {
	case res = <-r.back.result:
	case <-ctx.Done():
		r.leave("cancelled")
		r.finish(StateFailed)
		return r.result(nil, nil), fmt.Errorf("buildpipeline: %w", ctx.Err())
	}
	if res.err != nil {
		r.leave("error")
		var be *jit.Error
		if errors.As(res.err, &be) {
			r.extra = append(r.extra, be.Diagnostic())
		} else {
			r.extra = append(r.extra, diag.NewError(diag.PipTaskFailure, source.Span{}, "task backend failed: "+res.err.Error()))
		}
		r.finish(StateFailed)
		return r.result(nil, nil), nil
	}
	if res.entry != nil {
		r.leave("entry " + res.entry.Name)
	} else {
		r.leave("no entry point")
	}
	r.finish(StateDone)
	return r.result(res.entry, nil), nil
}

// spawnParsers starts one parse unit per matching input. The hold keeps the
// set from looking drained before the last unit is spawned.
func (r *run) spawnParsers(ctx context.Context) int {
	release := r.coord.Hold()
	defer release()

	ext := r.req.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	n := 0
	for _, in := range r.req.Inputs {
		if !source.HasExtension(in.Path, ext) {
			continue
		}
		n++
		if in.Err != nil {
			d := diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("cannot load %s: %v", in.Path, in.Err))
			r.reg.RecordError(d)
			r.emit(Event{File: in.Path, State: StateSpawning, Status: StatusError, Err: in.Err})
			continue
		}
		id := r.fs.AddInput(in)
		path := in.Path
		r.emit(Event{File: path, State: StateSpawning, Status: StatusQueued})
		r.coord.Spawn(ctx, "parse "+path, func(ctx context.Context) error {
			began := time.Now()
			r.emit(Event{File: path, State: StateSpawning, Status: StatusWorking})
			res := parser.ParseFile(ctx, r.fs, id, r.reg, parser.Options{
				Reporter:  r.reg,
				Spawn:     func(d ast.Decl) { r.resolver.Spawn(ctx, d) },
				MaxErrors: r.req.MaxErrors,
			})
			status := StatusDone
			if len(res.Errors) > 0 {
				status = StatusError
			}
			r.emit(Event{File: path, State: StateSpawning, Status: status, Elapsed: time.Since(began)})
			return nil
		})
	}
	return n
}

// checkTarget reports a designated entry point that no file declares.
func (r *run) checkTarget() {
	target := r.reg.Target()
	if target == "" {
		return
	}
	sym, ok := r.reg.Lookup(target)
	if ok && sym.Kind == symbols.SymbolFunction {
		return
	}
	msg := fmt.Sprintf("entry point %s not found", target)
	if ok {
		msg = fmt.Sprintf("entry point %s is a %s, not a function", target, sym.Kind)
	}
	b := diag.ReportError(r.reg, diag.SemaUnresolvedSymbol, sym.Span, msg)
	if !ok {
		if s := r.reg.Suggest(target); s != "" {
			if alt, found := r.reg.Lookup(s); found {
				b.WithNote(alt.Span, fmt.Sprintf("did you mean %s?", s))
			}
		}
	}
	b.Emit()
}

func (r *run) enter(s State) {
	r.state = s
	r.phase = r.timer.Begin(s.String())
	r.span = trace.Begin(r.tracer, trace.ScopePass, s.String(), r.root.ID())
	r.emit(Event{State: s, Status: StatusWorking, Elapsed: time.Since(r.start)})
}

func (r *run) leave(note string) {
	r.timer.End(r.phase, note)
	r.span.End(note)
}

func (r *run) finish(s State) {
	r.state = s
	status := StatusDone
	if s == StateFailed {
		status = StatusError
	}
	r.emit(Event{State: s, Status: status, Elapsed: time.Since(r.start)})
}

func (r *run) emit(ev Event) {
	if r.req.Progress != nil {
		r.req.Progress.OnEvent(ev)
	}
}

func (r *run) result(entry *jit.EntryPoint, failures []sched.TaskFailure) Result {
	diags := r.reg.Errors()
	diags = append(diags, r.extra...)
	diag.SortDiagnostics(diags)
	return Result{
		State:       r.state,
		Entry:       entry,
		Diagnostics: diags,
		FileSet:     r.fs,
		Timings:     r.timer.Report(),
		Failures:    failures,
	}
}
