package scm

import "strconv"

// registerMathBuiltins wires arithmetic and numeric comparison primitives.
// Mixed integer/float operands coerce to float, per spec.md §4.4.
func (ev *Evaluator) registerMathBuiltins() {
	ev.declare(&Declaration{
		Name: "+", Desc: "sums its arguments", MinParameter: 1, MaxParameter: -1, Returns: "number",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return numFold(args, span, 0, func(a, b float64) float64 { return a + b }, func(a, b int64) int64 { return a + b }), nil
	})
	ev.declare(&Declaration{
		Name: "-", Desc: "subtracts the rest from the first argument (or negates a single argument)",
		MinParameter: 1, MaxParameter: -1, Returns: "number",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		if len(args) == 1 {
			v := expectArg(args, 0, span)
			if v.IsInteger() {
				return Integer(-v.AsInteger()), nil
			}
			return Float(-expectNumber(args, 0, span)), nil
		}
		return numFold(args, span, 1, func(a, b float64) float64 { return a - b }, func(a, b int64) int64 { return a - b }), nil
	})
	ev.declare(&Declaration{
		Name: "*", Desc: "multiplies its arguments", MinParameter: 1, MaxParameter: -1, Returns: "number",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return numFold(args, span, 0, func(a, b float64) float64 { return a * b }, func(a, b int64) int64 { return a * b }), nil
	})
	ev.declare(&Declaration{
		Name: "/", Desc: "divides the first argument by the rest", MinParameter: 2, MaxParameter: -1, Returns: "number",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		allInt := true
		for _, a := range args {
			if !a.IsInteger() {
				allInt = false
				break
			}
		}
		if allInt {
			result := expectArg(args, 0, span).AsInteger()
			for i := 1; i < len(args); i++ {
				d := expectArg(args, i, span).AsInteger()
				if d == 0 {
					panic(newDivByZero(span))
				}
				if result%d != 0 {
					return divFloat(args, span), nil
				}
				result /= d
			}
			return Integer(result), nil
		}
		return divFloat(args, span), nil
	})
	ev.declare(&Declaration{
		Name: "%", Desc: "integer remainder", MinParameter: 2, MaxParameter: 2, Returns: "int",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		a, b := expectInt(args, 0, span), expectInt(args, 1, span)
		if b == 0 {
			panic(newDivByZero(span))
		}
		return Integer(a % b), nil
	})

	cmp := func(name, desc string, intCmp func(int64, int64) bool, floatCmp func(float64, float64) bool) {
		ev.declare(&Declaration{Name: name, Desc: desc, MinParameter: 2, MaxParameter: -1, Returns: "bool"},
			func(h *Heap, args []Value, span Span) (Value, error) {
				for i := 0; i+1 < len(args); i++ {
					a, b := expectArg(args, i, span), expectArg(args, i+1, span)
					if a.IsInteger() && b.IsInteger() {
						if !intCmp(a.AsInteger(), b.AsInteger()) {
							return False, nil
						}
					} else {
						if !floatCmp(expectNumber(args, i, span), expectNumber(args, i+1, span)) {
							return False, nil
						}
					}
				}
				return True, nil
			})
	}
	cmp("=", "numeric equality", func(a, b int64) bool { return a == b }, func(a, b float64) bool { return a == b })
	cmp("<", "less than", func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b })
	cmp("<=", "less than or equal", func(a, b int64) bool { return a <= b }, func(a, b float64) bool { return a <= b })
	cmp(">", "greater than", func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b })
	cmp(">=", "greater than or equal", func(a, b int64) bool { return a >= b }, func(a, b float64) bool { return a >= b })

	ev.declare(&Declaration{
		Name: "num-parse", Desc: "parses a string into an integer or a float",
		MinParameter: 1, MaxParameter: 1, Returns: "number",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return parseNumber(expectString(args, 0, span), span), nil
	})
	ev.declare(&Declaration{
		Name: "read-num", Desc: "reads a line from the host and parses it as a number",
		MinParameter: 0, MaxParameter: 0, Returns: "number",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		line := ev.readLine(span)
		return parseNumber(line, span), nil
	})
}

func numFold(args []Value, span Span, identity int64, floatOp func(a, b float64) float64, intOp func(a, b int64) int64) Value {
	allInt := true
	for _, a := range args {
		if !a.IsInteger() {
			allInt = false
			break
		}
	}
	if allInt {
		result := expectArg(args, 0, span).AsInteger()
		for i := 1; i < len(args); i++ {
			result = intOp(result, expectArg(args, i, span).AsInteger())
		}
		return Integer(result)
	}
	result := expectNumber(args, 0, span)
	for i := 1; i < len(args); i++ {
		result = floatOp(result, expectNumber(args, i, span))
	}
	return Float(result)
}

func parseNumber(s string, span Span) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Integer(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	panic(newTypeError(span, "number", "string "+strconv.Quote(s)))
}

func divFloat(args []Value, span Span) Value {
	result := expectNumber(args, 0, span)
	for i := 1; i < len(args); i++ {
		d := expectNumber(args, i, span)
		if d == 0 {
			panic(newDivByZero(span))
		}
		result /= d
	}
	return Float(result)
}
