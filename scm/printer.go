package scm

import (
	"strconv"
	"strings"
)

// Display renders v the way `display` does: human-readable, strings
// unquoted. Write renders v the way `print`/the REPL's echo does:
// machine-readable, strings quoted and escaped so the result can be read
// back by the parser.
func Display(v Value) string {
	var b strings.Builder
	writeValue(&b, v, false)
	return b.String()
}

func Write(v Value) string {
	var b strings.Builder
	writeValue(&b, v, true)
	return b.String()
}

func writeValue(b *strings.Builder, v Value, quoteStrings bool) {
	switch v.kind {
	case KindNil:
		b.WriteString("()")
	case KindBoolean:
		if v.b {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case KindInteger:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		if quoteStrings {
			b.WriteString(strconv.Quote(v.s))
		} else {
			b.WriteString(v.s)
		}
	case KindSymbol:
		b.WriteString(v.s)
	case KindCons:
		if sigil, arg, ok := quoteShorthand(v); ok {
			b.WriteString(sigil)
			writeValue(b, arg, quoteStrings)
			return
		}
		writeList(b, v, quoteStrings)
	case KindProcedure:
		writeProcedure(b, v.proc)
	case KindForeign:
		b.WriteString("#<foreign:" + v.fgn.tag + ">")
	default:
		b.WriteString("#<unknown>")
	}
}

// quoteShorthand recognizes a two-element list (quote x), (quasiquote x),
// (unquote x), or (unquote-splicing x) produced by the reader macros '/`/,/
// ,@ and reports the sigil it should be printed with instead of the full
// parenthesized form, matching the way the reader accepted it.
func quoteShorthand(v Value) (sigil string, arg Value, ok bool) {
	if v.kind != KindCons || v.cons.car.kind != KindSymbol {
		return "", Value{}, false
	}
	rest := v.cons.cdr
	if rest.kind != KindCons || rest.cons.cdr.kind != KindNil {
		return "", Value{}, false
	}
	switch v.cons.car.s {
	case "quote":
		return "'", rest.cons.car, true
	case "quasiquote":
		return "`", rest.cons.car, true
	case "unquote":
		return ",", rest.cons.car, true
	case "unquote-splicing":
		return ",@", rest.cons.car, true
	default:
		return "", Value{}, false
	}
}

func writeList(b *strings.Builder, v Value, quoteStrings bool) {
	b.WriteByte('(')
	first := true
	for {
		if v.kind == KindNil {
			break
		}
		if v.kind != KindCons {
			// improper tail
			b.WriteString(" . ")
			writeValue(b, v, quoteStrings)
			break
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		writeValue(b, v.cons.car, quoteStrings)
		v = v.cons.cdr
	}
	b.WriteByte(')')
}

func writeProcedure(b *strings.Builder, p *procedure) {
	if p == nil {
		b.WriteString("#<procedure>")
		return
	}
	if p.isNative {
		if p.name != "" {
			b.WriteString("#<native:" + p.name + ">")
		} else {
			b.WriteString("#<native>")
		}
		return
	}
	kind := "lambda"
	if p.isMacro {
		kind = "macro"
	}
	if p.name != "" {
		b.WriteString("#<" + kind + ":" + p.name + ">")
		return
	}
	b.WriteString("#<" + kind + ">")
}
