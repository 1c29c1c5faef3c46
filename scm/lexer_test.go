package scm

import "testing"

func TestTokenizeBasic(t *testing.T) {
	toks, err := Tokenize(`(+ 1 2.5 "hi" #t #f sym)`, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []TokenKind{
		TokLParen, TokSymbol, TokInteger, TokFloat, TokString, TokBoolean, TokBoolean, TokSymbol, TokRParen,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got kind %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeSignedNumberVsSymbol(t *testing.T) {
	toks, err := Tokenize("(+ -5 +3 - + <= %)", nil)
	if err != nil {
		t.Fatal(err)
	}
	// (+ -5 +3 - + <= %) => LPAREN SYM INT INT SYM SYM SYM SYM RPAREN
	wantKinds := []TokenKind{
		TokLParen, TokSymbol, TokInteger, TokInteger, TokSymbol, TokSymbol, TokSymbol, TokSymbol, TokRParen,
	}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d (%q): got kind %v, want %v", i, toks[i].Str, toks[i].Kind, k)
		}
	}
	if toks[2].Int != -5 {
		t.Errorf("expected -5, got %d", toks[2].Int)
	}
	if toks[3].Int != 3 {
		t.Errorf("expected +3 to parse as 3, got %d", toks[3].Int)
	}
}

func TestTokenizeQuoteFamily(t *testing.T) {
	toks, err := Tokenize("'a `b ,c ,@d", nil)
	if err != nil {
		t.Fatal(err)
	}
	wantKinds := []TokenKind{
		TokQuote, TokSymbol, TokBackquote, TokSymbol, TokComma, TokSymbol, TokCommaAt, TokSymbol,
	}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: got kind %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(`"a\nb\tc\\d\"e"`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 1 || toks[0].Kind != TokString {
		t.Fatalf("expected a single string token, got %v", toks)
	}
	want := "a\nb\tc\\d\"e"
	if toks[0].Str != want {
		t.Errorf("got %q, want %q", toks[0].Str, want)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"abc`, nil)
	le, ok := err.(*LexError)
	if !ok || le.Kind != UnterminatedString {
		t.Fatalf("expected UnterminatedString, got %v", err)
	}
}

func TestTokenizeInvalidHash(t *testing.T) {
	_, err := Tokenize("#z", nil)
	le, ok := err.(*LexError)
	if !ok || le.Kind != InvalidHash {
		t.Fatalf("expected InvalidHash, got %v", err)
	}
}

func TestTokenizeInvalidNumberOverflow(t *testing.T) {
	_, err := Tokenize("99999999999999999999999999999", nil)
	le, ok := err.(*LexError)
	if !ok || le.Kind != InvalidNumber {
		t.Fatalf("expected InvalidNumber, got %v", err)
	}
}

// TestTokenizeRoundTripModuloWhitespace checks the round-trip invariant:
// re-spacing a program must not change its token sequence, only the spans.
func TestTokenizeRoundTripModuloWhitespace(t *testing.T) {
	tight := `(define(f x y)(+ x(* y 2)))`
	spaced := "(define (f x y)\n  (+ x (* y 2)))"
	tightToks, err := Tokenize(tight, nil)
	if err != nil {
		t.Fatal(err)
	}
	spacedToks, err := Tokenize(spaced, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tightToks) != len(spacedToks) {
		t.Fatalf("token count differs: %d vs %d", len(tightToks), len(spacedToks))
	}
	for i := range tightToks {
		a, b := tightToks[i], spacedToks[i]
		if a.Kind != b.Kind || a.Int != b.Int || a.Float != b.Float || a.Str != b.Str || a.Bool != b.Bool {
			t.Fatalf("token %d differs: %v vs %v", i, a, b)
		}
	}
}

func TestTokenizeUnexpectedChar(t *testing.T) {
	_, err := Tokenize("(+ 1 \x01)", nil)
	le, ok := err.(*LexError)
	if !ok || le.Kind != UnexpectedChar {
		t.Fatalf("expected UnexpectedChar, got %v", err)
	}
}
