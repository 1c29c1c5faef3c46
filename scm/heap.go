package scm

import (
	"sync"

	"github.com/google/btree"
)

// consCell is a single pair cell. It is the only recursive, potentially
// cyclic structure in the value set (together with envFrame, reachable
// through Procedure closures), which is exactly why reference counting is
// insufficient and a tracing collector is used instead.
type consCell struct {
	car, cdr Value
	// span is the span of this cell's own car token, as produced by the
	// parser. Since a list's N-th cons cell always holds the list's N-th
	// element as its car, this lets the evaluator recover an exact
	// sub-expression span (for ArityMismatch/NotASymbol diagnostics) just by
	// walking to the relevant cell, with no separate span-tracking tree.
	span   Span
	marked bool
	slot   int
}

// envFrame is one lexical scope: a set of bindings plus a parent pointer.
// Procedures close over the envFrame active at their definition site, which
// is how closures can keep an otherwise-dead frame alive (and how frames can
// end up in reference cycles with the procedures they contain).
type envFrame struct {
	vars   map[string]Value
	parent *envFrame
	marked bool
	slot   int
}

// procedure is the heap-allocated payload of a Procedure value: either a
// Lambda (body + params + closure env) or a Native (Go function), tagged by
// isNative. Macros reuse this same struct with isMacro set.
type procedure struct {
	isNative bool
	isMacro  bool

	// Lambda/Macro fields.
	params  []string
	rest    string // "" if no rest parameter
	body    []Value
	closure *envFrame
	name    string // for diagnostics only, may be ""

	// Native fields.
	fn       NativeFunc
	minArity int
	maxArity int // -1 means unbounded

	marked bool
	slot   int
}

// NativeFunc is the Go-side implementation of a built-in procedure. span is
// the call site's span, for well-located EvalErrors raised via
// NewCustomError or the builtins_util.go helpers.
type NativeFunc func(h *Heap, args []Value, span Span) (Value, error)

// foreignObject is the heap payload of a Foreign value: an opaque handle a
// host embeds into the language, with an optional destructor run at sweep
// time once the collector proves it unreachable.
type foreignObject struct {
	tag     string
	data    interface{}
	destroy func(interface{})
	marked  bool
	slot    int
}

// gcObject is implemented by every heap-resident payload type so the
// collector can mark/sweep them uniformly without a type switch at every
// step of tracing.
type gcObject interface {
	isMarked() bool
	setMarked(bool)
	trace(h *Heap, mark func(Value))
	onSweep()
	getSlot() int
	setSlot(int)
}

func (c *consCell) isMarked() bool     { return c.marked }
func (c *consCell) setMarked(m bool)   { c.marked = m }
func (c *consCell) getSlot() int       { return c.slot }
func (c *consCell) setSlot(s int)      { c.slot = s }
func (c *consCell) trace(h *Heap, mark func(Value)) {
	mark(c.car)
	mark(c.cdr)
}
func (c *consCell) onSweep() {}

func (e *envFrame) isMarked() bool   { return e.marked }
func (e *envFrame) setMarked(m bool) { e.marked = m }
func (e *envFrame) getSlot() int     { return e.slot }
func (e *envFrame) setSlot(s int)    { e.slot = s }
func (e *envFrame) trace(h *Heap, mark func(Value)) {
	for _, v := range e.vars {
		mark(v)
	}
	if e.parent != nil {
		h.markFrame(e.parent)
	}
}
func (e *envFrame) onSweep() {}

func (p *procedure) isMarked() bool   { return p.marked }
func (p *procedure) setMarked(m bool) { p.marked = m }
func (p *procedure) getSlot() int     { return p.slot }
func (p *procedure) setSlot(s int)    { p.slot = s }
func (p *procedure) trace(h *Heap, mark func(Value)) {
	for _, b := range p.body {
		mark(b)
	}
	if p.closure != nil {
		h.markFrame(p.closure)
	}
}
func (p *procedure) onSweep() {}

func (f *foreignObject) isMarked() bool   { return f.marked }
func (f *foreignObject) setMarked(m bool) { f.marked = m }
func (f *foreignObject) getSlot() int     { return f.slot }
func (f *foreignObject) setSlot(s int)    { f.slot = s }
func (f *foreignObject) trace(h *Heap, mark func(Value)) {}
func (f *foreignObject) onSweep() {
	if f.destroy != nil {
		f.destroy(f.data)
	}
}

// HeapStats reports collector activity, exercised by the testable property
// in spec.md §8 that asks for an observable count of reclaimed objects.
type HeapStats struct {
	Live        int
	Freed       int
	Collections int
}

// Heap is the arena: every Cons, Procedure and Foreign value is allocated
// through it and traced by its mark-sweep collector. Roots are tracked
// explicitly rather than scanned off the Go stack, since this package keeps
// the interpreter's live data in ordinary Go values the real Go GC would
// otherwise keep alive forever — our own sweep is the only thing that ever
// drops a Cons/Frame/Foreign for good and fires Foreign destructors.
type Heap struct {
	mu sync.Mutex

	objects  []gcObject
	free     *btree.BTreeG[int]
	liveAtGC int

	globals *envFrame

	// envRoots mirrors the evaluator's active call stack: one entry is
	// pushed at each eval entry (replaced whenever the trampoline moves on
	// to a tail position's environment) and popped on return, so a
	// frame the evaluator is still working inside of is always a root even
	// if nothing else in the heap still points to it.
	envRoots []*envFrame
	// argRoots holds operands evaluated so far in an in-progress
	// application, so partially-evaluated argument lists survive a
	// collection triggered mid-call.
	argRoots []Value

	growthFactor float64
	threshold    int
}

func intLess(a, b int) bool { return a < b }

// NewHeap creates an empty heap with the global frame pre-allocated.
func NewHeap(growthFactor float64, threshold int) *Heap {
	h := &Heap{
		free:         btree.NewG[int](32, intLess),
		growthFactor: growthFactor,
		threshold:    threshold,
	}
	h.globals = &envFrame{vars: make(map[string]Value)}
	h.register(h.globals)
	return h
}

// register inserts a freshly allocated object into the arena, reusing the
// lowest free slot index if the sweep phase has one available.
func (h *Heap) register(obj gcObject) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if idx, ok := h.free.Min(); ok {
		h.free.Delete(idx)
		h.objects[idx] = obj
		obj.setSlot(idx)
		return
	}
	obj.setSlot(len(h.objects))
	h.objects = append(h.objects, obj)
}

func (h *Heap) NewCons(car, cdr Value) Value {
	c := &consCell{car: car, cdr: cdr}
	h.register(c)
	return consValue(c)
}

// NewConsSpan is NewCons plus the span of car's leading token, as recorded
// by the parser.
func (h *Heap) NewConsSpan(car, cdr Value, span Span) Value {
	c := &consCell{car: car, cdr: cdr, span: span}
	h.register(c)
	return consValue(c)
}

// SpanOf returns the span recorded for v if v is a Cons produced by the
// parser with span information, and ok=false otherwise (e.g. v is an atom,
// or a cons built by the evaluator itself with no source span to report).
func SpanOf(v Value) (Span, bool) {
	if v.kind != KindCons || v.cons == nil {
		return Span{}, false
	}
	if v.cons.span == (Span{}) {
		return Span{}, false
	}
	return v.cons.span, true
}

func (h *Heap) newFrame(parent *envFrame) *envFrame {
	f := &envFrame{vars: make(map[string]Value), parent: parent}
	h.register(f)
	return f
}

func (h *Heap) newLambda(params []string, rest string, body []Value, closure *envFrame, name string) Value {
	p := &procedure{params: params, rest: rest, body: body, closure: closure, name: name}
	h.register(p)
	return procValue(p)
}

func (h *Heap) newMacro(params []string, rest string, body []Value, closure *envFrame, name string) Value {
	p := &procedure{params: params, rest: rest, body: body, closure: closure, name: name, isMacro: true}
	h.register(p)
	return procValue(p)
}

func (h *Heap) newNative(name string, minArity, maxArity int, fn NativeFunc) Value {
	p := &procedure{isNative: true, name: name, minArity: minArity, maxArity: maxArity, fn: fn}
	h.register(p)
	return procValue(p)
}

func (h *Heap) NewForeign(tag string, data interface{}, destroy func(interface{})) Value {
	f := &foreignObject{tag: tag, data: data, destroy: destroy}
	h.register(f)
	return foreignValue(f)
}

// Globals returns the top-level environment frame, always a GC root.
func (h *Heap) Globals() *envFrame { return h.globals }

// PushEnvRoot marks frame as reachable for the duration of the caller's
// stack frame; pair with a deferred PopEnvRoot. Mirrors the evaluator's own
// Go call stack one-to-one, satisfying the "every environment frame on the
// active call stack is a root" rule.
func (h *Heap) PushEnvRoot(f *envFrame) {
	h.mu.Lock()
	h.envRoots = append(h.envRoots, f)
	h.mu.Unlock()
}

func (h *Heap) PopEnvRoot() {
	h.mu.Lock()
	h.envRoots = h.envRoots[:len(h.envRoots)-1]
	h.mu.Unlock()
}

// PushArgRoot protects v while further operands of the same application are
// still being evaluated.
func (h *Heap) PushArgRoot(v Value) {
	h.mu.Lock()
	h.argRoots = append(h.argRoots, v)
	h.mu.Unlock()
}

// PopArgRoots drops the top n argument roots once an application has
// consumed them (become part of a new call frame, or discarded on error).
func (h *Heap) PopArgRoots(n int) {
	h.mu.Lock()
	h.argRoots = h.argRoots[:len(h.argRoots)-n]
	h.mu.Unlock()
}

// markFrame marks an envFrame and, transitively, its parent chain and every
// value reachable from its bindings. Idempotent: returns immediately for an
// already-marked frame, which is what makes cyclic parent/closure graphs
// terminate.
func (h *Heap) markFrame(f *envFrame) {
	if f == nil || f.marked {
		return
	}
	f.marked = true
	f.trace(h, h.markValue)
}

func (h *Heap) markValue(v Value) {
	switch v.kind {
	case KindCons:
		if v.cons == nil || v.cons.marked {
			return
		}
		v.cons.marked = true
		v.cons.trace(h, h.markValue)
	case KindProcedure:
		if v.proc == nil || v.proc.marked {
			return
		}
		v.proc.marked = true
		v.proc.trace(h, h.markValue)
	case KindForeign:
		if v.fgn == nil || v.fgn.marked {
			return
		}
		v.fgn.marked = true
	}
}

// ProtectedHandle lets a host keep a value alive across calls into the
// evaluator even though it isn't reachable from globals or the call stack
// (spec.md §4.3's "host-registered protected handles" root class).
type ProtectedHandle struct {
	h *Heap
	v Value
}

// Protect registers v as a permanent extra root until Release is called.
func (h *Heap) Protect(v Value) *ProtectedHandle {
	h.mu.Lock()
	h.argRoots = append(h.argRoots, v)
	h.mu.Unlock()
	return &ProtectedHandle{h: h, v: v}
}

// Release un-roots the handle's value. Safe to call at most once.
func (ph *ProtectedHandle) Release() {
	h := ph.h
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.argRoots) - 1; i >= 0; i-- {
		if Eq(h.argRoots[i], ph.v) {
			h.argRoots = append(h.argRoots[:i], h.argRoots[i+1:]...)
			return
		}
	}
}

// MaybeCollect runs Collect if the live object count has grown past the
// configured threshold/growth factor since the last collection. The
// evaluator calls this once per trampoline iteration — a safe point where
// no primitive is mid-execution and no partially-built argument list is
// unrooted, per spec.md §4.3's "the evaluator announces safe points".
func (h *Heap) MaybeCollect() {
	h.mu.Lock()
	live := len(h.objects) - h.free.Len()
	shouldCollect := live >= h.threshold && float64(live) >= float64(h.liveAtGC)*h.growthFactor
	h.mu.Unlock()
	if shouldCollect {
		h.Collect()
	}
}

// Collect runs a full mark-sweep pass: mark every root and everything
// transitively reachable from it, then sweep every unmarked arena slot,
// firing Foreign destructors and returning the slot to the free index.
func (h *Heap) Collect() HeapStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, obj := range h.objects {
		if obj != nil {
			obj.setMarked(false)
		}
	}

	h.markFrame(h.globals)
	for _, f := range h.envRoots {
		h.markFrame(f)
	}
	for _, v := range h.argRoots {
		h.markValue(v)
	}

	freed := 0
	for i, obj := range h.objects {
		if obj == nil {
			continue
		}
		if !obj.isMarked() {
			obj.onSweep()
			h.objects[i] = nil
			h.free.ReplaceOrInsert(i)
			freed++
		}
	}

	live := len(h.objects) - h.free.Len()
	h.liveAtGC = live
	return HeapStats{Live: live, Freed: freed, Collections: 1}
}

// Stats reports the current live/free counts without forcing a collection.
func (h *Heap) Stats() HeapStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HeapStats{Live: len(h.objects) - h.free.Len()}
}
