package scm

// Parser is a stateful, incremental consumer of tokens. A host pushes
// tokens as they become available (e.g. one REPL line at a time) and calls
// Parse repeatedly; Parse returns ok=false, err=nil when no tokens are
// pending or the tokens pushed so far form an unclosed prefix, which is what
// lets a REPL prompt for another line instead of erroring on a multi-line
// form.
type Parser struct {
	heap   *Heap
	tokens []Token
	pos    int
}

func NewParser(h *Heap) *Parser {
	return &Parser{heap: h}
}

// PushTokens appends more tokens to the pending stream.
func (p *Parser) PushTokens(toks []Token) {
	p.tokens = append(p.tokens, toks...)
}

// Parse consumes one top-level expression's worth of tokens and returns it.
// ok=false, err=nil means the pushed tokens are an incomplete prefix — call
// PushTokens with more and try again. err != nil is a hard structural error
// (unexpected ')', a malformed dotted pair, or an atom token that can't be
// used as read).
func (p *Parser) Parse() (Value, bool, error) {
	v, newPos, _, complete, err := p.parseExpr(p.pos)
	if err != nil {
		return Value{}, false, err
	}
	if !complete {
		return Value{}, false, nil
	}
	p.pos = newPos
	// Compact consumed tokens so a long-lived REPL parser doesn't retain
	// the whole session's token history.
	if p.pos > 0 {
		p.tokens = append([]Token(nil), p.tokens[p.pos:]...)
		p.pos = 0
	}
	return v, true, nil
}

// parseExpr parses one expression starting at cursor, returning the value,
// the cursor just past it, the span of its leading token (for the caller to
// attach to a wrapping cons cell), and whether it completed.
func (p *Parser) parseExpr(cursor int) (v Value, next int, span Span, complete bool, err error) {
	if cursor >= len(p.tokens) {
		return Value{}, cursor, Span{}, false, nil
	}
	tok := p.tokens[cursor]
	switch tok.Kind {
	case TokLParen:
		v, next, complete, err = p.parseList(cursor + 1)
		return v, next, tok.Span, complete, err
	case TokRParen:
		return Value{}, cursor, tok.Span, false, &ParseError{
			Kind: UnexpectedRParen, Span: tok.Span, Msg: "unexpected ')'",
		}
	case TokDot:
		return Value{}, cursor, tok.Span, false, &ParseError{
			Kind: UnexpectedDot, Span: tok.Span, Msg: "unexpected '.'",
		}
	case TokQuote:
		return p.parseReaderMacro(cursor, "quote")
	case TokBackquote:
		return p.parseReaderMacro(cursor, "quasiquote")
	case TokComma:
		return p.parseReaderMacro(cursor, "unquote")
	case TokCommaAt:
		return p.parseReaderMacro(cursor, "unquote-splicing")
	case TokInteger:
		return Integer(tok.Int), cursor + 1, tok.Span, true, nil
	case TokFloat:
		return Float(tok.Float), cursor + 1, tok.Span, true, nil
	case TokString:
		return String(tok.Str), cursor + 1, tok.Span, true, nil
	case TokBoolean:
		return Bool(tok.Bool), cursor + 1, tok.Span, true, nil
	case TokSymbol:
		return Symbol(tok.Str), cursor + 1, tok.Span, true, nil
	default:
		return Value{}, cursor, tok.Span, false, &ParseError{
			Kind: InvalidAtom, Span: tok.Span, Msg: "unrecognized token",
		}
	}
}

func (p *Parser) parseReaderMacro(cursor int, sym string) (Value, int, Span, bool, error) {
	tok := p.tokens[cursor]
	sub, next, subSpan, complete, err := p.parseExpr(cursor + 1)
	if err != nil {
		return Value{}, cursor, tok.Span, false, err
	}
	if !complete {
		return Value{}, cursor, tok.Span, false, nil
	}
	tail := p.heap.NewConsSpan(sub, Nil, subSpan)
	wrapped := p.heap.NewConsSpan(Symbol(sym), tail, tok.Span)
	return wrapped, next, tok.Span, true, nil
}

// parseList parses list elements up to and including the closing ')',
// given cursor just past the opening '('. Supports the dotted-pair form
// "(a . b)".
func (p *Parser) parseList(cursor int) (Value, int, bool, error) {
	type elem struct {
		v    Value
		span Span
	}
	var items []elem

	for {
		if cursor >= len(p.tokens) {
			return Value{}, cursor, false, nil
		}
		tok := p.tokens[cursor]
		if tok.Kind == TokRParen {
			cursor++
			result := Nil
			for i := len(items) - 1; i >= 0; i-- {
				result = p.heap.NewConsSpan(items[i].v, result, items[i].span)
			}
			return result, cursor, true, nil
		}
		if tok.Kind == TokDot {
			tailVal, next, _, complete, err := p.parseExpr(cursor + 1)
			if err != nil {
				return Value{}, cursor, false, err
			}
			if !complete {
				return Value{}, cursor, false, nil
			}
			if next >= len(p.tokens) {
				return Value{}, cursor, false, nil
			}
			if p.tokens[next].Kind != TokRParen {
				return Value{}, cursor, false, &ParseError{
					Kind: UnexpectedDot, Span: tok.Span, Msg: "expected ')' after dotted tail",
				}
			}
			result := tailVal
			for i := len(items) - 1; i >= 0; i-- {
				result = p.heap.NewConsSpan(items[i].v, result, items[i].span)
			}
			return result, next + 1, true, nil
		}
		v, next, span, complete, err := p.parseExpr(cursor)
		if err != nil {
			return Value{}, cursor, false, err
		}
		if !complete {
			return Value{}, cursor, false, nil
		}
		items = append(items, elem{v: v, span: span})
		cursor = next
	}
}

// ParseAll parses every complete top-level expression currently available,
// stopping (without error) at the first incomplete trailing prefix. Use
// Pending to tell an intentional REPL continuation apart from a script that
// ran out of input mid-form.
func (p *Parser) ParseAll() ([]Value, error) {
	var exprs []Value
	for {
		v, ok, err := p.Parse()
		if err != nil {
			return exprs, err
		}
		if !ok {
			return exprs, nil
		}
		exprs = append(exprs, v)
	}
}

// Pending reports whether tokens pushed so far contain an unclosed trailing
// form (e.g. a dangling "(" with no matching ")"). A REPL treats this as an
// invitation to read another line; a one-shot script load treats it as an
// UnexpectedEOF parse error.
func (p *Parser) Pending() bool {
	return p.pos < len(p.tokens)
}

// UnexpectedEOFError builds the hard parse error a host raises when it
// knows no more input is coming but Pending reports an unclosed form.
func (p *Parser) UnexpectedEOFError() error {
	span := Span{}
	if p.pos < len(p.tokens) {
		span = p.tokens[p.pos].Span
	}
	return &ParseError{Kind: UnexpectedEOF, Span: span, Msg: "unexpected end of input"}
}
