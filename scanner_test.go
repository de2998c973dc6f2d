package kjson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	s := NewScanner([]byte(src), true)
	var toks []Token
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("scanning %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	return toks
}

func TestScannerLiteralDisambiguation(t *testing.T) {
	cases := []struct {
		src  string
		kind TokenKind
	}{
		{"123", TokNumber},
		{"-123", TokNumber},
		{"1.5e10", TokNumber},
		{"123n", TokBigInt},
		{"3.5m", TokDecimal},
		{"550e8400-e29b-41d4-a716-446655440000", TokUUID},
		{"2024-01-15T10:30:00Z", TokInstant},
		{"P1Y2M3DT4H5M6S", TokDuration},
		{"foo_bar", TokIdent},
		{"true", TokTrue},
		{"NaN", TokNaN},
		{"-Infinity", TokNegInf},
	}
	for _, c := range cases {
		toks := scanAll(t, c.src)
		if len(toks) < 1 || toks[0].Kind != c.kind {
			t.Errorf("scan(%q) kind = %v, want %v", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestScannerStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tcA\\d"`)
	want := "a\nb\tc" + "A" + `\` + "d"
	if toks[0].Lexeme != want {
		t.Fatalf("Lexeme = %q, want %q", toks[0].Lexeme, want)
	}
}

func TestScannerSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE as a UTF-16 surrogate pair.
	toks := scanAll(t, `"\`+`ud83d\`+`ude00"`)
	r := []rune(toks[0].Lexeme)
	if len(r) != 1 || r[0] != 0x1F600 {
		t.Fatalf("decoded surrogate pair = %v, want [0x1F600]", r)
	}
}

func TestScannerMixedQuoting(t *testing.T) {
	for _, src := range []string{`'hi'`, `"hi"`, "`hi`"} {
		toks := scanAll(t, src)
		if toks[0].Kind != TokString || toks[0].Lexeme != "hi" {
			t.Errorf("scan(%q) = %+v, want String(hi)", src, toks[0])
		}
	}
}

func TestScannerBacktickAllowsBareNewline(t *testing.T) {
	toks := scanAll(t, "`line one\nline two`")
	want := "line one\nline two"
	if toks[0].Kind != TokString || toks[0].Lexeme != want {
		t.Fatalf("scan(backtick with newline) = %+v, want String(%q)", toks[0], want)
	}
}

func TestScannerSingleAndDoubleQuoteRejectBareNewline(t *testing.T) {
	for _, src := range []string{"'a\nb'", "\"a\nb\""} {
		s := NewScanner([]byte(src), true)
		_, err := s.Next()
		if err == nil {
			t.Fatalf("scan(%q): expected error for bare newline", src)
		}
		kerr, ok := err.(*Error)
		if !ok || kerr.Kind != ErrUnterminatedString {
			t.Fatalf("scan(%q) err = %v, want ErrUnterminatedString", src, err)
		}
	}
}

func TestScannerUnterminatedString(t *testing.T) {
	s := NewScanner([]byte(`"abc`), true)
	_, err := s.Next()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	kerr, ok := err.(*Error)
	if !ok || kerr.Kind != ErrUnterminatedString {
		t.Fatalf("err = %v, want ErrUnterminatedString", err)
	}
}

func TestScannerCommentsDisallowed(t *testing.T) {
	s := NewScanner([]byte("// hi\n1"), false)
	_, err := s.Next()
	if err == nil {
		t.Fatal("expected error when comments disallowed")
	}
}

func TestScannerLineColumnTracking(t *testing.T) {
	toks := scanAll(t, "1,\n  2")
	opt := cmpopts.IgnoreFields(Token{}, "Offset")
	want := Token{Kind: TokNumber, Lexeme: "2", Line: 2, Column: 3}
	if diff := cmp.Diff(want, toks[2], opt); diff != "" {
		t.Fatalf("position mismatch (-want +got):\n%s", diff)
	}
}
