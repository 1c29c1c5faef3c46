package scm

// Evaluator ties together a heap and a global environment and runs the
// trampolined tree-walking interpreter over parsed expressions. It is not
// safe for concurrent use: it owns its heap exclusively, matching the
// single-threaded, synchronous resource model.
type Evaluator struct {
	heap         *Heap
	global       Env
	stdout       Writer
	stdin        Reader
	declarations map[string]*Declaration
}

// Writer and Reader are the host I/O callbacks the prelude's display/print/
// read primitives delegate to; the core never touches stdin/stdout itself.
type Writer interface {
	WriteString(s string) (int, error)
}
type Reader interface {
	ReadLine() (string, error)
}

// NewEvaluator builds an evaluator with an empty global frame — no
// special forms or primitives are implicit; special forms are always
// recognized (they're part of the language, not the prelude), but no
// native procedure is bound until WithPrelude or explicit Define calls.
func NewEvaluator(opts ...Option) *Evaluator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	h := NewHeap(cfg.gcGrowthFactor, cfg.gcThreshold)
	ev := &Evaluator{heap: h, global: h.Global(), stdout: cfg.stdout, stdin: cfg.stdin}
	return ev
}

// WithPrelude preloads the standard primitive and prelude-sugar bindings
// (arithmetic, comparisons, list ops, I/O, cadr/caddr family, map, gensym,
// make-parser) into a freshly built evaluator.
func WithPrelude(opts ...Option) *Evaluator {
	ev := NewEvaluator(opts...)
	ev.registerPrelude()
	return ev
}

// Heap exposes the evaluator's arena, e.g. so a host can call Collect or
// Protect a value across calls.
func (ev *Evaluator) Heap() *Heap { return ev.heap }

// Globals returns the root environment frame for host read/write access.
func (ev *Evaluator) Globals() Env { return ev.global }

// DefineNative registers a host function as a named global binding.
func (ev *Evaluator) DefineNative(name string, minArity, maxArity int, fn NativeFunc) {
	ev.global.Define(name, ev.heap.newNative(name, minArity, maxArity, fn))
}

// RegisterForeign declares a foreign value of the given tag, wiring an
// optional destructor invoked by the GC once it proves a value unreachable.
func (ev *Evaluator) RegisterForeign(tag string, data interface{}, destroy func(interface{})) Value {
	return ev.heap.NewForeign(tag, data, destroy)
}

// Eval parses nothing; it evaluates an already-parsed expression tree and
// is the sole public boundary that turns internal panics into typed
// errors, per spec: the evaluator never panics from the caller's
// perspective.
func (ev *Evaluator) Eval(expr Value) (result Value, err error) {
	ev.heap.mu.Lock()
	argDepth := len(ev.heap.argRoots)
	ev.heap.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			// Drop the argument roots of applications the panic abandoned.
			ev.heap.mu.Lock()
			if len(ev.heap.argRoots) > argDepth {
				ev.heap.argRoots = ev.heap.argRoots[:argDepth]
			}
			ev.heap.mu.Unlock()
			if asErr, ok := r.(error); ok {
				err = asErr
				return
			}
			err = NewCustomError(Span{}, "internal evaluator panic")
		}
	}()
	result = ev.eval(expr, ev.global)
	return result, nil
}

// eval is the trampoline: the loop body rewrites expr/env in place for
// every tail position instead of recursing, so deep tail recursion runs in
// constant Go stack depth. It panics (caught by Eval's recover) on error;
// this is an internal control-transfer convenience, never exposed.
func (ev *Evaluator) eval(expr Value, env Env) Value {
	ev.heap.PushEnvRoot(env.frameRef())
	defer ev.heap.PopEnvRoot()

	for {
		ev.heap.MaybeCollect()

		switch expr.kind {
		case KindNil, KindInteger, KindFloat, KindBoolean, KindString, KindProcedure, KindForeign:
			return expr
		case KindSymbol:
			v, ok := env.Lookup(expr.s)
			if !ok {
				panic(newUndefinedSymbol(Span{}, expr.s))
			}
			return v
		case KindCons:
			// fallthrough to list evaluation below
		default:
			panic(NewCustomError(Span{}, "unknown expression kind"))
		}

		items, proper := ToList(expr)
		if !proper || len(items) == 0 {
			panic(newTypeError(callSpan(expr), "list", "improper or empty list"))
		}

		if head := items[0]; head.kind == KindSymbol {
			if nextExpr, nextEnv, result, isTail, done := ev.evalSpecialForm(head.s, items, expr, env); done {
				if !isTail {
					return result
				}
				expr, env = nextExpr, nextEnv
				ev.heap.PopEnvRoot()
				ev.heap.PushEnvRoot(env.frameRef())
				continue
			}
		}

		// Procedure application.
		callee := ev.eval(items[0], env)
		if callee.kind != KindProcedure {
			panic(newNotCallable(callSpan(expr)))
		}
		ev.heap.PushArgRoot(callee)
		proc := callee.proc

		if proc.isMacro {
			ev.heap.PopArgRoots(1)
			expansion := ev.applyLambda(proc, items[1:], nil, callSpan(expr))
			expr = expansion
			continue
		}

		args := ev.evalArgs(items[1:], env)
		if proc.isNative {
			checkNativeArity(proc, args, callSpan(expr))
			result, err := proc.fn(ev.heap, args, callSpan(expr))
			ev.heap.PopArgRoots(len(args) + 1)
			if err != nil {
				panic(err)
			}
			return result
		}

		nextEnv, tailExpr := ev.bindLambdaArgs(proc, args, callSpan(expr))
		ev.heap.PopArgRoots(len(args) + 1)
		expr, env = tailExpr, nextEnv
		ev.heap.PopEnvRoot()
		ev.heap.PushEnvRoot(env.frameRef())
	}
}

// callSpan recovers the call/form site's span: the span recorded on expr's
// own cons cell, which (per the parser's construction) is the span of
// expr's leading token — the operator symbol for a call form.
func callSpan(expr Value) Span {
	if s, ok := SpanOf(expr); ok {
		return s
	}
	return Span{}
}

// elemSpan returns the span of the i-th element of list form (0-indexed),
// by walking to the cons cell that holds it as its car.
func elemSpan(form Value, i int) Span {
	v := form
	for ; i > 0 && v.kind == KindCons; i-- {
		v = v.cons.cdr
	}
	if s, ok := SpanOf(v); ok {
		return s
	}
	return Span{}
}

// evalArgs evaluates operands left-to-right, rooting each as it's produced
// so a collection triggered by a later operand can't reclaim an earlier
// one that's only reachable from this in-progress argument list.
func (ev *Evaluator) evalArgs(operands []Value, env Env) []Value {
	args := make([]Value, len(operands))
	for i, o := range operands {
		args[i] = ev.eval(o, env)
		ev.heap.PushArgRoot(args[i])
	}
	return args
}

// bindLambdaArgs binds args to proc's parameters in a fresh child of its
// closure (lexical scoping: the child of the *defining* environment, never
// the caller's), and returns the environment plus the final body form in
// tail position — the caller loops on these instead of recursing.
func (ev *Evaluator) bindLambdaArgs(proc *procedure, args []Value, span Span) (Env, Value) {
	callerHeap := ev.heap
	closureEnv := Env{heap: callerHeap, frame: proc.closure}
	child := closureEnv.Child()
	bindParams(child, proc, args, span)
	if len(proc.body) == 0 {
		return child, Nil
	}
	for _, form := range proc.body[:len(proc.body)-1] {
		ev.eval(form, child)
	}
	return child, proc.body[len(proc.body)-1]
}

// applyLambda runs proc (used for macro expansion, where arguments are the
// unevaluated operand forms) to completion and returns its result/expansion
// directly, since macro expansion happens before the trampoline resumes.
func (ev *Evaluator) applyLambda(proc *procedure, operands []Value, _ []Value, span Span) Value {
	closureEnv := Env{heap: ev.heap, frame: proc.closure}
	child := closureEnv.Child()
	bindParams(child, proc, operands, span)
	var result Value = Nil
	for _, form := range proc.body {
		result = ev.eval(form, child)
	}
	return result
}

func bindParams(child Env, proc *procedure, args []Value, span Span) {
	if proc.rest == "" && len(args) != len(proc.params) {
		panic(newArityMismatch(span, len(proc.params), len(args)))
	}
	if proc.rest != "" && len(args) < len(proc.params) {
		panic(newArityRange(span, len(proc.params), -1, len(args)))
	}
	for i, p := range proc.params {
		child.Define(p, args[i])
	}
	if proc.rest != "" {
		child.Define(proc.rest, FromSlice(child.heap, args[len(proc.params):]))
	}
}

// checkNativeArity validates args against proc's declared Min/MaxParameter
// bounds before its Go function runs, the native-call counterpart to
// bindParams' lambda-arity check. Every native indexes args[i] up to its own
// declared arity assuming this already holds; skipping it turns a missing
// argument into a raw Go index-out-of-range panic instead of a structured
// ArityMismatch.
func checkNativeArity(proc *procedure, args []Value, span Span) {
	if len(args) < proc.minArity || (proc.maxArity >= 0 && len(args) > proc.maxArity) {
		panic(newArityRange(span, proc.minArity, proc.maxArity, len(args)))
	}
}
