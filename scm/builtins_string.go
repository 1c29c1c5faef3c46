package scm

import (
	"strconv"
	"strings"
)

// registerStringBuiltins wires string construction, inspection and
// symbol/string conversion, trimmed down from the teacher's much larger
// strings.go (which also carries collation-aware comparison for a SQL
// engine that has no equivalent here) to the handful of operations a
// Scheme prelude is expected to offer.
func (ev *Evaluator) registerStringBuiltins() {
	ev.declare(&Declaration{
		Name: "string-append", Desc: "concatenates strings",
		MinParameter: 0, MaxParameter: -1, Returns: "string",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		var b strings.Builder
		for i := range args {
			b.WriteString(expectString(args, i, span))
		}
		return String(b.String()), nil
	})

	ev.declare(&Declaration{
		Name: "string-length", Desc: "counts the runes of a string",
		MinParameter: 1, MaxParameter: 1, Returns: "int",
		Params: []DeclarationParameter{{"s", "string", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Integer(int64(len([]rune(expectString(args, 0, span))))), nil
	})

	ev.declare(&Declaration{
		Name: "substring", Desc: "extracts the substring [start, end) by rune offset",
		MinParameter: 3, MaxParameter: 3, Returns: "string",
		Params: []DeclarationParameter{{"s", "string", ""}, {"start", "int", ""}, {"end", "int", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		r := []rune(expectString(args, 0, span))
		start := expectInt(args, 1, span)
		end := expectInt(args, 2, span)
		if start < 0 || end > int64(len(r)) || start > end {
			panic(NewCustomError(span, "substring: index out of range"))
		}
		return String(string(r[start:end])), nil
	})

	ev.declare(&Declaration{
		Name: "string-upcase", Desc: "uppercases a string",
		MinParameter: 1, MaxParameter: 1, Returns: "string",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return String(strings.ToUpper(expectString(args, 0, span))), nil
	})
	ev.declare(&Declaration{
		Name: "string-downcase", Desc: "lowercases a string",
		MinParameter: 1, MaxParameter: 1, Returns: "string",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return String(strings.ToLower(expectString(args, 0, span))), nil
	})

	ev.declare(&Declaration{
		Name: "string-split", Desc: "splits a string on a separator into a list of strings",
		MinParameter: 2, MaxParameter: 2, Returns: "list",
		Params: []DeclarationParameter{{"s", "string", ""}, {"sep", "string", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		parts := strings.Split(expectString(args, 0, span), expectString(args, 1, span))
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = String(p)
		}
		return FromSlice(h, out), nil
	})

	ev.declare(&Declaration{
		Name: "string=?", Desc: "tests strings for equality",
		MinParameter: 2, MaxParameter: 2, Returns: "bool",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Bool(expectString(args, 0, span) == expectString(args, 1, span)), nil
	})

	ev.declare(&Declaration{
		Name: "symbol->string", Desc: "converts a symbol to a string",
		MinParameter: 1, MaxParameter: 1, Returns: "string",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return String(expectSymbol(args, 0, span)), nil
	})
	ev.declare(&Declaration{
		Name: "string->symbol", Desc: "converts a string to a symbol",
		MinParameter: 1, MaxParameter: 1, Returns: "symbol",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return Symbol(expectString(args, 0, span)), nil
	})

	ev.declare(&Declaration{
		Name: "number->string", Desc: "renders a number as a string",
		MinParameter: 1, MaxParameter: 1, Returns: "string",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		v := expectArg(args, 0, span)
		if !v.IsNumber() {
			panic(newTypeError(span, "number", v.Kind().String()))
		}
		return String(Display(v)), nil
	})
	ev.declare(&Declaration{
		Name: "string->number", Desc: "parses a string as a number, or #f on failure",
		MinParameter: 1, MaxParameter: 1, Returns: "any",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		s := expectString(args, 0, span)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Integer(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
		return False, nil
	})
}
