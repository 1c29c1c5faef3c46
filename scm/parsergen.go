package scm

import (
	packrat "github.com/launix-de/go-packrat/v2"
)

// registerParserGen wires `(make-parser grammar)` and `(parse-with parser
// string)`. This lets a host script build its own little parser for a
// host-domain text format (a config line format, a tiny protocol) from
// inside the language, without that ever becoming part of the language's
// own reader — mirrors the teacher's own `parser` special form
// (scm/packrat.go's parseSyntax/ScmParser), rebuilt as ordinary prelude
// primitives instead of a special form since nothing here needs
// unevaluated access to the grammar expression.
func (ev *Evaluator) registerParserGen() {
	ev.declare(&Declaration{
		Name: "make-parser", Desc: "compiles a grammar expression into a reusable parser",
		MinParameter: 1, MaxParameter: 1, Returns: "foreign",
		Params: []DeclarationParameter{{"grammar", "list", "grammar expression, see the grammar mini-language"}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		p := compileGrammar(expectArg(args, 0, span), span)
		return h.NewForeign("parser", p, nil), nil
	})

	ev.declare(&Declaration{
		Name: "parse-with", Desc: "runs a compiled parser over a string, returning the extracted value",
		MinParameter: 2, MaxParameter: 2, Returns: "any",
		Params: []DeclarationParameter{{"parser", "foreign", ""}, {"text", "string", ""}},
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		p, _ := expectForeign(args, 0, "parser", span).(packrat.Parser)
		if p == nil {
			panic(newTypeError(span, "foreign(parser)", "foreign"))
		}
		text := expectString(args, 1, span)
		scanner := packrat.NewScanner(text, packrat.SkipWhitespaceAndCommentsRegex)
		node, err := packrat.Parse(p, scanner)
		if err != nil {
			panic(NewCustomError(span, "parse-with: "+err.Error()))
		}
		return extractNode(h, node), nil
	})
}

// compileGrammar turns a grammar expression (ordinary cons-list data) into
// a packrat.Parser, following the teacher's own grammar mini-language:
// string literal or (atom s) => literal match; (regex s) => regex match;
// (list a b...) => sequence; (or a b...) => alternation; (* sub [sep]),
// (+ sub [sep]) => repetition; (? sub) => optional; symbol "$" => end of
// input; symbol "empty" => epsilon.
func compileGrammar(grammar Value, span Span) packrat.Parser {
	switch grammar.kind {
	case KindString:
		return packrat.NewAtomParser(grammar.AsString(), false, true)
	case KindSymbol:
		switch grammar.AsSymbol() {
		case "$":
			return packrat.NewEndParser(true)
		case "empty":
			return packrat.NewEmptyParser()
		default:
			panic(NewCustomError(span, "make-parser: unknown grammar atom "+grammar.AsSymbol()))
		}
	case KindCons:
		items, ok := ToList(grammar)
		if !ok || len(items) == 0 || items[0].kind != KindSymbol {
			panic(NewCustomError(span, "make-parser: malformed grammar node"))
		}
		head := items[0].AsSymbol()
		rest := items[1:]
		switch head {
		case "atom":
			caseInsensitive := len(rest) > 1 && rest[1].IsTruthy()
			skipWS := len(rest) < 3 || rest[2].IsTruthy()
			return packrat.NewAtomParser(rest[0].AsString(), caseInsensitive, skipWS)
		case "regex":
			caseInsensitive := len(rest) > 1 && rest[1].IsTruthy()
			skipWS := len(rest) < 3 || rest[2].IsTruthy()
			return packrat.NewRegexParser(rest[0].AsString(), caseInsensitive, skipWS)
		case "list":
			subs := make([]packrat.Parser, len(rest))
			for i, s := range rest {
				subs[i] = compileGrammar(s, span)
			}
			return packrat.NewAndParser(subs...)
		case "or":
			subs := make([]packrat.Parser, len(rest))
			for i, s := range rest {
				subs[i] = compileGrammar(s, span)
			}
			return packrat.NewOrParser(subs...)
		case "*", "+":
			sub := compileGrammar(rest[0], span)
			var sep packrat.Parser = packrat.NewEmptyParser()
			if len(rest) > 1 {
				sep = compileGrammar(rest[1], span)
			}
			return packrat.NewKleeneParser(sub, sep)
		case "?":
			return packrat.NewMaybeParser(compileGrammar(rest[0], span))
		default:
			panic(NewCustomError(span, "make-parser: unknown grammar form "+head))
		}
	default:
		panic(NewCustomError(span, "make-parser: grammar must be a string, symbol, or list"))
	}
}

// extractNode turns a packrat parse tree into a Value: sequences/
// alternations/optionals collapse the way the grammar implies rather than
// exposing packrat's own node shape to scripts.
func extractNode(h *Heap, n *packrat.Node) Value {
	switch n.Parser.(type) {
	case *packrat.AndParser:
		items := make([]Value, len(n.Children))
		for i, c := range n.Children {
			items[i] = extractNode(h, c)
		}
		return FromSlice(h, items)
	case *packrat.OrParser:
		if len(n.Children) == 0 {
			return Nil
		}
		return extractNode(h, n.Children[0])
	case *packrat.KleeneParser:
		var items []Value
		for i := 0; i < len(n.Children); i += 2 {
			items = append(items, extractNode(h, n.Children[i]))
		}
		return FromSlice(h, items)
	case *packrat.MaybeParser:
		if len(n.Children) == 0 {
			return Nil
		}
		return extractNode(h, n.Children[0])
	default:
		return String(n.Matched)
	}
}
