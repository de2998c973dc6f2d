package kjson

// TokenKind identifies the lexical category of a scanned token (spec
// §4.1).
type TokenKind int

const (
	TokLBrace TokenKind = iota
	TokRBrace
	TokLBracket
	TokRBracket
	TokColon
	TokComma
	TokString
	TokIdent
	TokNumber
	TokBigInt
	TokDecimal
	TokUUID
	TokInstant
	TokDuration
	TokTrue
	TokFalse
	TokNull
	TokUndefined
	TokInf
	TokNegInf
	TokNaN
	TokEOF
)

func (k TokenKind) String() string {
	names := [...]string{
		"LBrace", "RBrace", "LBracket", "RBracket", "Colon", "Comma",
		"String", "Ident", "Number", "BigInt", "Decimal", "Uuid",
		"InstantLit", "DurationLit", "True", "False", "Null", "Undefined",
		"Inf", "NegInf", "NaN", "EOF",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Token is a single lexical unit with its source position. Lexeme is
// the raw source text (for String tokens, the unescaped value — escape
// decoding happens once, in the scanner, rather than being redone by
// every caller).
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
	Offset int
}
