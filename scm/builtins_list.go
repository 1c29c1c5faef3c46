package scm

// registerListBuiltins wires cons-list construction, access, and the
// cadr/caddr/cddr/cdar family plus map, all present in the reference
// prelude this spec was distilled from.
func (ev *Evaluator) registerListBuiltins() {
	ev.declare(&Declaration{
		Name: "cons", Desc: "constructs a pair from a head and a tail",
		MinParameter: 2, MaxParameter: 2, Returns: "pair",
		Params: []DeclarationParameter{{"car", "any", ""}, {"cdr", "any", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		a := expectArg(args, 0, span)
		d := expectArg(args, 1, span)
		return h.NewCons(a, d), nil
	})
	ev.declare(&Declaration{
		Name: "car", Desc: "extracts the head of a pair",
		MinParameter: 1, MaxParameter: 1, Returns: "any",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return expectCons(args, 0, span).Car(), nil
	})
	ev.declare(&Declaration{
		Name: "cdr", Desc: "extracts the tail of a pair",
		MinParameter: 1, MaxParameter: 1, Returns: "any",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return expectCons(args, 0, span).Cdr(), nil
	})

	type accessor struct {
		name string
		path string // sequence of 'a'/'d' applied right-to-left, e.g. "ad" = (car (cdr x))
	}
	for _, acc := range []accessor{
		{"caar", "aa"}, {"cadr", "ad"}, {"cdar", "da"}, {"cddr", "dd"},
		{"caaar", "aaa"}, {"caddr", "add"}, {"cdddr", "ddd"}, {"cddar", "dda"},
	} {
		path := acc.path
		ev.declare(&Declaration{
			Name: acc.name, Desc: "composed car/cdr accessor", MinParameter: 1, MaxParameter: 1, Returns: "any",
		}, func(h *Heap, args []Value, span Span) (Value, error) {
			v := expectCons(args, 0, span)
			for i := len(path) - 1; i >= 0; i-- {
				if !v.IsCons() {
					panic(newTypeError(span, "pair", v.Kind().String()))
				}
				if path[i] == 'a' {
					v = v.Car()
				} else {
					v = v.Cdr()
				}
			}
			return v, nil
		})
	}

	ev.declare(&Declaration{
		Name: "list", Desc: "constructs a list from its arguments",
		MinParameter: 0, MaxParameter: -1, Returns: "list",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return FromSlice(h, args), nil
	})
	ev.declare(&Declaration{
		Name: "length", Desc: "counts the elements of a proper list",
		MinParameter: 1, MaxParameter: 1, Returns: "int",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Integer(int64(len(expectList(args, 0, span)))), nil
	})
	ev.declare(&Declaration{
		Name: "append", Desc: "concatenates lists into a new list",
		MinParameter: 0, MaxParameter: -1, Returns: "list",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		var all []Value
		for i := range args {
			all = append(all, expectList(args, i, span)...)
		}
		return FromSlice(h, all), nil
	})
	ev.declare(&Declaration{
		Name: "reverse", Desc: "reverses a list",
		MinParameter: 1, MaxParameter: 1, Returns: "list",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		items := expectList(args, 0, span)
		out := make([]Value, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return FromSlice(h, out), nil
	})
	ev.declare(&Declaration{
		Name: "map", Desc: "applies a procedure to every element of a list, returning the results as a new list",
		MinParameter: 2, MaxParameter: 2, Returns: "list",
		Params: []DeclarationParameter{{"fn", "func", ""}, {"list", "list", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		proc := expectProcedure(args, 0, span)
		items := expectList(args, 1, span)
		out := make([]Value, len(items))
		for i, v := range items {
			out[i] = ev.callProcedure(proc, []Value{v}, span)
		}
		return FromSlice(h, out), nil
	})
}
