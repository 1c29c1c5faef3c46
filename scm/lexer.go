package scm

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenize turns source into a token stream. It is pure: no package-level
// state survives between calls, so a REPL may tokenize each submitted line
// independently and feed the results to the same incremental Parser.
func Tokenize(source string, sourceID *uint32) ([]Token, error) {
	lx := &lexer{src: source, sourceID: sourceID, line: 1, col: 1}
	return lx.run()
}

type lexer struct {
	src      string
	pos      int
	line     uint32
	col      uint32
	sourceID *uint32
	tokens   []Token
}

func (lx *lexer) run() ([]Token, error) {
	for lx.pos < len(lx.src) {
		ch, size := utf8.DecodeRuneInString(lx.src[lx.pos:])

		switch {
		case ch == '\n':
			lx.advance(size)
			lx.line++
			lx.col = 1
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.advance(size)
		case ch == ';':
			lx.skipComment()
		case ch == '(':
			lx.emit(TokLParen, 1)
			lx.advance(size)
		case ch == ')':
			lx.emit(TokRParen, 1)
			lx.advance(size)
		case ch == '\'':
			lx.emit(TokQuote, 1)
			lx.advance(size)
		case ch == '`':
			lx.emit(TokBackquote, 1)
			lx.advance(size)
		case ch == ',':
			if lx.peekAt(size) == '@' {
				lx.emit(TokCommaAt, 2)
				lx.advance(size)
				lx.advance(1)
			} else {
				lx.emit(TokComma, 1)
				lx.advance(size)
			}
		case ch == '"':
			if err := lx.lexString(); err != nil {
				return nil, err
			}
		case ch == '#':
			if err := lx.lexHash(); err != nil {
				return nil, err
			}
		case isDigit(ch) || ((ch == '+' || ch == '-') && isDigit(lx.peekAt(size))):
			if err := lx.lexNumber(); err != nil {
				return nil, err
			}
		case ch == '.' && lx.isBareDot():
			lx.emit(TokDot, 1)
			lx.advance(size)
		case !unicode.IsGraphic(ch):
			return nil, &LexError{
				Kind: UnexpectedChar,
				Span: lx.span(1),
				Msg:  "unexpected non-printable character",
			}
		default:
			lx.lexSymbol()
		}
	}
	return lx.tokens, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isDelimiter(r rune) bool {
	switch r {
	case 0, ' ', '\t', '\r', '\n', '(', ')', '\'', '`', ',', ';', '"':
		return true
	default:
		return false
	}
}

// peekAt returns the rune offset bytes past the current position, or the
// NUL rune past end of input.
func (lx *lexer) peekAt(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos+offset:])
	return r
}

// isBareDot reports whether the '.' at the current position stands alone
// (a Dot token), as opposed to being the first character of a symbol like
// "...".
func (lx *lexer) isBareDot() bool {
	next := lx.peekAt(1)
	return isDelimiter(next)
}

func (lx *lexer) advance(n int) {
	lx.pos += n
	lx.col += uint32(n)
}

func (lx *lexer) span(length int) Span {
	return Span{Line: lx.line, Column: lx.col, Length: uint32(length), SourceID: lx.sourceID}
}

func (lx *lexer) emit(kind TokenKind, length int) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Span: lx.span(length)})
}

func (lx *lexer) skipComment() {
	for lx.pos < len(lx.src) {
		ch, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if ch == '\n' {
			return
		}
		lx.advance(size)
	}
}

var stringEscapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r", `\\`, `\`, `\"`, `"`)

func (lx *lexer) lexString() error {
	startLine, startCol := lx.line, lx.col
	start := lx.pos
	lx.advance(1) // opening quote
	var raw strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			return &LexError{
				Kind: UnterminatedString,
				Span: Span{Line: startLine, Column: startCol, Length: uint32(lx.pos - start), SourceID: lx.sourceID},
				Msg:  "unterminated string literal",
			}
		}
		ch, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if ch == '"' {
			lx.advance(size)
			break
		}
		if ch == '\\' {
			raw.WriteRune(ch)
			lx.advance(size)
			if lx.pos < len(lx.src) {
				ch2, size2 := utf8.DecodeRuneInString(lx.src[lx.pos:])
				raw.WriteRune(ch2)
				lx.advance(size2)
			}
			continue
		}
		if ch == '\n' {
			return &LexError{
				Kind: UnterminatedString,
				Span: Span{Line: startLine, Column: startCol, Length: uint32(lx.pos - start), SourceID: lx.sourceID},
				Msg:  "unterminated string literal",
			}
		}
		raw.WriteRune(ch)
		lx.advance(size)
	}
	decoded := norm.NFC.String(stringEscapes.Replace(raw.String()))
	length := lx.pos - start
	lx.tokens = append(lx.tokens, Token{
		Kind: TokString,
		Span: Span{Line: startLine, Column: startCol, Length: uint32(length), SourceID: lx.sourceID},
		Str:  decoded,
	})
	return nil
}

func (lx *lexer) lexHash() error {
	startLine, startCol := lx.line, lx.col
	start := lx.pos
	lx.advance(1) // '#'
	if lx.pos >= len(lx.src) {
		return &LexError{Kind: InvalidHash, Span: Span{Line: startLine, Column: startCol, Length: 1, SourceID: lx.sourceID}, Msg: "bare '#'"}
	}
	ch, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	if ch == 't' || ch == 'f' {
		lx.advance(size)
		lx.tokens = append(lx.tokens, Token{
			Kind: TokBoolean,
			Span: Span{Line: startLine, Column: startCol, Length: uint32(lx.pos - start), SourceID: lx.sourceID},
			Bool: ch == 't',
		})
		return nil
	}
	return &LexError{
		Kind: InvalidHash,
		Span: Span{Line: startLine, Column: startCol, Length: 2, SourceID: lx.sourceID},
		Msg:  "unrecognized '#' literal",
	}
}

func (lx *lexer) lexNumber() error {
	startLine, startCol := lx.line, lx.col
	start := lx.pos
	if lx.peek() == '+' || lx.peek() == '-' {
		lx.advance(1)
	}
	isFloat := false
	for lx.pos < len(lx.src) {
		ch, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if isDigit(ch) {
			lx.advance(size)
			continue
		}
		if ch == '.' && !isFloat {
			isFloat = true
			lx.advance(size)
			continue
		}
		break
	}
	text := lx.src[start:lx.pos]
	length := lx.pos - start
	span := Span{Line: startLine, Column: startCol, Length: uint32(length), SourceID: lx.sourceID}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return &LexError{Kind: InvalidNumber, Span: span, Msg: "malformed float literal " + text}
		}
		lx.tokens = append(lx.tokens, Token{Kind: TokFloat, Span: span, Float: f})
		return nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return &LexError{Kind: InvalidNumber, Span: span, Msg: "integer literal out of range " + text}
	}
	lx.tokens = append(lx.tokens, Token{Kind: TokInteger, Span: span, Int: i})
	return nil
}

func (lx *lexer) peek() rune {
	if lx.pos >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r
}

func (lx *lexer) lexSymbol() {
	startLine, startCol := lx.line, lx.col
	start := lx.pos
	for lx.pos < len(lx.src) {
		ch, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if isDelimiter(ch) {
			break
		}
		lx.advance(size)
	}
	text := lx.src[start:lx.pos]
	lx.tokens = append(lx.tokens, Token{
		Kind: TokSymbol,
		Span: Span{Line: startLine, Column: startCol, Length: uint32(lx.pos - start), SourceID: lx.sourceID},
		Str:  norm.NFC.String(text),
	})
}
