package scm

// registerCoreBuiltins wires the type-predicate, equality and gensym
// primitives that don't belong to the math/list/string groups.
func (ev *Evaluator) registerCoreBuiltins() {
	ev.declare(&Declaration{
		Name: "eq?", Desc: "tests whether two values are identical",
		MinParameter: 2, MaxParameter: 2, Returns: "bool",
		Params: []DeclarationParameter{{"a", "any", ""}, {"b", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		a := expectArg(args, 0, span)
		b := expectArg(args, 1, span)
		return Bool(Eq(a, b)), nil
	})

	ev.declare(&Declaration{
		Name: "not", Desc: "logical negation",
		MinParameter: 1, MaxParameter: 1, Returns: "bool",
		Params: []DeclarationParameter{{"x", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Bool(!expectArg(args, 0, span).IsTruthy()), nil
	})

	ev.declare(&Declaration{
		Name: "null?", Desc: "tests whether a value is the empty list",
		MinParameter: 1, MaxParameter: 1, Returns: "bool",
		Params: []DeclarationParameter{{"x", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Bool(expectArg(args, 0, span).IsNil()), nil
	})

	ev.declare(&Declaration{
		Name: "pair?", Desc: "tests whether a value is a cons cell",
		MinParameter: 1, MaxParameter: 1, Returns: "bool",
		Params: []DeclarationParameter{{"x", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Bool(expectArg(args, 0, span).IsCons()), nil
	})

	ev.declare(&Declaration{
		Name: "number?", Desc: "tests whether a value is an integer or a float",
		MinParameter: 1, MaxParameter: 1, Returns: "bool",
		Params: []DeclarationParameter{{"x", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Bool(expectArg(args, 0, span).IsNumber()), nil
	})

	ev.declare(&Declaration{
		Name: "symbol?", Desc: "tests whether a value is a symbol",
		MinParameter: 1, MaxParameter: 1, Returns: "bool",
		Params: []DeclarationParameter{{"x", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Bool(expectArg(args, 0, span).IsSymbol()), nil
	})

	ev.declare(&Declaration{
		Name: "string?", Desc: "tests whether a value is a string",
		MinParameter: 1, MaxParameter: 1, Returns: "bool",
		Params: []DeclarationParameter{{"x", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Bool(expectArg(args, 0, span).IsString()), nil
	})

	ev.declare(&Declaration{
		Name: "procedure?", Desc: "tests whether a value is callable",
		MinParameter: 1, MaxParameter: 1, Returns: "bool",
		Params: []DeclarationParameter{{"x", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Bool(expectArg(args, 0, span).IsProcedure()), nil
	})

	ev.declare(&Declaration{
		Name: "gensym", Desc: "produces a fresh symbol with a unique, UUID-based name; the symbol is interned like any other",
		MinParameter: 0, MaxParameter: 0, Returns: "symbol",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Symbol(newGensym()), nil
	})

	ev.declare(&Declaration{
		Name: "apply", Desc: "calls a procedure with a list of arguments",
		MinParameter: 2, MaxParameter: 2, Returns: "any",
		Params: []DeclarationParameter{{"fn", "func", ""}, {"args", "list", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		proc := expectProcedure(args, 0, span)
		callArgs := expectList(args, 1, span)
		return ev.callProcedure(proc, callArgs, span), nil
	})
}

// callProcedure invokes a Lambda or Native procedure directly with already
// evaluated arguments, for use by natives like `apply` and `map` that need
// to call back into a procedure value they were handed.
func (ev *Evaluator) callProcedure(proc *procedure, args []Value, span Span) Value {
	if proc.isNative {
		checkNativeArity(proc, args, span)
		result, err := proc.fn(ev.heap, args, span)
		if err != nil {
			panic(err)
		}
		return result
	}
	env, tailExpr := ev.bindLambdaArgs(proc, args, span)
	return ev.eval(tailExpr, env)
}
