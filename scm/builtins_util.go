package scm

import "fmt"

// Argument-checking helpers used by every native procedure in the prelude
// (and available to a host's own natives) so that a malformed argument
// always produces a consistently worded, correctly spanned TypeError
// instead of each primitive hand-rolling its own message. Named and shaped
// after the reference prelude's eval_into_foreign/eval_into_int style
// helpers.

func expectNumber(args []Value, i int, span Span) float64 {
	v := expectArg(args, i, span)
	if !v.IsNumber() {
		panic(newTypeError(span, "number", v.Kind().String()))
	}
	return v.AsFloat()
}

func expectInt(args []Value, i int, span Span) int64 {
	v := expectArg(args, i, span)
	if !v.IsInteger() {
		panic(newTypeError(span, "integer", v.Kind().String()))
	}
	return v.AsInteger()
}

func expectString(args []Value, i int, span Span) string {
	v := expectArg(args, i, span)
	if !v.IsString() {
		panic(newTypeError(span, "string", v.Kind().String()))
	}
	return v.AsString()
}

func expectSymbol(args []Value, i int, span Span) string {
	v := expectArg(args, i, span)
	if !v.IsSymbol() {
		panic(newTypeError(span, "symbol", v.Kind().String()))
	}
	return v.AsSymbol()
}

func expectCons(args []Value, i int, span Span) Value {
	v := expectArg(args, i, span)
	if !v.IsCons() {
		panic(newTypeError(span, "pair", v.Kind().String()))
	}
	return v
}

func expectList(args []Value, i int, span Span) []Value {
	v := expectArg(args, i, span)
	items, ok := ToList(v)
	if !ok {
		panic(newTypeError(span, "list", v.Kind().String()))
	}
	return items
}

func expectProcedure(args []Value, i int, span Span) *procedure {
	v := expectArg(args, i, span)
	if !v.IsProcedure() {
		panic(newTypeError(span, "procedure", v.Kind().String()))
	}
	return v.proc
}

// expectForeign asserts args[i] is a Foreign value tagged exactly tag, a
// convenience for host natives embedding their own opaque types.
func expectForeign(args []Value, i int, tag string, span Span) interface{} {
	v := expectArg(args, i, span)
	if !v.IsForeign() || v.fgn.tag != tag {
		panic(newTypeError(span, fmt.Sprintf("foreign(%s)", tag), v.Kind().String()))
	}
	return v.fgn.data
}

func expectArg(args []Value, i int, span Span) Value {
	if i >= len(args) {
		panic(newArityRange(span, i+1, -1, len(args)))
	}
	return args[i]
}
