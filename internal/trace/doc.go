// Package trace provides the tracing subsystem of the raven toolchain.
//
// Tracing follows a build through its pipeline states and units so that slow
// phases and hangs (units parked forever, a missing handshake) can be seen.
//
// # Usage
//
//	raven check --trace=- --trace-level=detail src/
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer dumped after a task failure
//   - MultiTracer: combines stream and ring
//   - Heartbeat: periodic liveness events carrying a pipeline Probe snapshot
//
// # Scopes
//
//   - ScopeDriver: CLI commands, discovery, loading
//   - ScopePass: pipeline states
//   - ScopeUnit: parse, resolution and backend units
//   - ScopeNode: registry traffic (park, wake, finalize)
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "awaiting-quiescence", parentID)
//	defer span.End("")
package trace
