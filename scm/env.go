package scm

// Env is the public handle onto a lexical scope chain. It wraps an
// envFrame pointer so the heap can remain entirely unexported while hosts
// and the evaluator still get a stable type to pass around.
type Env struct {
	heap  *Heap
	frame *envFrame
}

// Global returns the top-level environment of h.
func (h *Heap) Global() Env {
	return Env{heap: h, frame: h.globals}
}

// Child allocates a new frame nested inside e, as happens on every lambda
// application and every `let`.
func (e Env) Child() Env {
	return Env{heap: e.heap, frame: e.heap.newFrame(e.frame)}
}

// Define binds name to v in e's own frame, shadowing any outer binding of
// the same name. Used by `define`, `defun`, lambda parameter binding and
// `let`.
func (e Env) Define(name string, v Value) {
	e.frame.vars[internSymbol(name)] = v
}

// Lookup searches e and its ancestors for name, returning ok=false if no
// frame in the chain binds it (the caller turns this into a spanned
// EvalError.UndefinedSymbol).
func (e Env) Lookup(name string) (Value, bool) {
	name = internSymbol(name)
	for f := e.frame; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Set mutates the nearest existing binding of name in e's chain, returning
// ok=false if name is unbound anywhere in the chain (the caller turns this
// into EvalError.SetUnbound; `set!` never creates a new binding).
func (e Env) Set(name string, v Value) bool {
	name = internSymbol(name)
	for f := e.frame; f != nil; f = f.parent {
		if _, ok := f.vars[name]; ok {
			f.vars[name] = v
			return true
		}
	}
	return false
}

// frameRef exposes the underlying envFrame for the evaluator's own root
// tracking (PushEnvRoot/PopEnvRoot) and closure capture; it is unexported,
// so not part of the embedding API.
func (e Env) frameRef() *envFrame { return e.frame }
