package symbols

import (
	"maps"

	"raven/internal/hir"
)

// Arena is the set of finalized function and struct bodies handed to the
// backend after the compile handshake.
type Arena struct {
	Funcs   map[string]*hir.Func
	Structs map[string]*hir.Struct
}

// Func returns the published function called name.
func (a *Arena) Func(name string) (*hir.Func, bool) {
	if a == nil {
		return nil, false
	}
	f, ok := a.Funcs[name]
	return f, ok
}

// Struct returns the published struct called name.
func (a *Arena) Struct(name string) (*hir.Struct, bool) {
	if a == nil {
		return nil, false
	}
	s, ok := a.Structs[name]
	return s, ok
}

// Publish adds a type-checked function to the compile arena.
func (r *Registry) Publish(fn *hir.Func) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.funcs[fn.Name] = fn
	r.mu.Unlock()
}

// PublishStruct adds a finalized struct to the compile arena.
func (r *Registry) PublishStruct(st *hir.Struct) {
	if st == nil {
		return
	}
	r.mu.Lock()
	r.structs[st.Name] = st
	r.mu.Unlock()
}

// Arena returns a snapshot of the compile arenas.
func (r *Registry) Arena() *Arena {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Arena{
		Funcs:   maps.Clone(r.funcs),
		Structs: maps.Clone(r.structs),
	}
}
