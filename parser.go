package kjson

import (
	"strconv"
	"strings"
)

// DuplicateKeyPolicy controls how the parser handles an object with a
// repeated key (spec §4.2).
type DuplicateKeyPolicy int

const (
	KeepLast DuplicateKeyPolicy = iota
	KeepFirst
	DuplicateKeyError
)

// ParseOptions configures the text parser (spec §4.2). The zero value
// is not the default; use DefaultParseOptions.
type ParseOptions struct {
	AllowComments          bool
	AllowTrailingCommas    bool
	AllowUnquotedKeys      bool
	ParseDates             bool
	ParseNumbersAsDecimals bool
	MaxDepth               int
	OnDuplicateKey         DuplicateKeyPolicy
}

// DefaultParseOptions returns the spec-mandated defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		AllowComments:          true,
		AllowTrailingCommas:    true,
		AllowUnquotedKeys:      true,
		ParseDates:             true,
		ParseNumbersAsDecimals: false,
		MaxDepth:               1024,
		OnDuplicateKey:         KeepLast,
	}
}

// Parser consumes tokens from a Scanner and produces Values (spec §4.2).
// Not safe for concurrent use (spec §5).
type Parser struct {
	opts ParseOptions
	s    *Scanner
	tok  Token
}

// ParseText parses source as a single kJSON value (spec §6: parseText).
func ParseText(source []byte, opts ParseOptions) (Value, error) {
	p := &Parser{opts: opts, s: NewScanner(source, opts.AllowComments)}
	tok, err := p.s.Next()
	if err != nil {
		return Value{}, err
	}
	p.tok = tok

	v, err := p.parseValue(0)
	if err != nil {
		return Value{}, err
	}

	if p.tok.Kind != TokEOF {
		return Value{}, &Error{Kind: ErrTrailingContent, Offset: p.tok.Offset, Line: p.tok.Line, Column: p.tok.Column,
			Msg: "unexpected trailing content"}
	}
	return v, nil
}

// IsValidText reports whether source parses without error (spec §6).
func IsValidText(source []byte, opts ParseOptions) bool {
	_, err := ParseText(source, opts)
	return err == nil
}

// SafeParseText parses source, returning fallback on any error (spec
// §6). It never panics or returns an error itself.
func SafeParseText(source []byte, fallback Value, opts ParseOptions) Value {
	v, err := ParseText(source, opts)
	if err != nil {
		return fallback
	}
	return v
}

func (p *Parser) advance() error {
	tok, err := p.s.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) parseValue(depth int) (Value, error) {
	if depth > p.opts.MaxDepth {
		return Value{}, &Error{Kind: ErrDepthExceeded, Offset: p.tok.Offset, Line: p.tok.Line, Column: p.tok.Column,
			Msg: "maximum depth exceeded"}
	}
	tok := p.tok
	switch tok.Kind {
	case TokLBrace:
		return p.parseObject(depth)
	case TokLBracket:
		return p.parseArray(depth)
	case TokString:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return String(tok.Lexeme), nil
	case TokIdent:
		return Value{}, &Error{Kind: ErrUnexpectedChar, Offset: tok.Offset, Line: tok.Line, Column: tok.Column,
			Msg: "unexpected identifier " + tok.Lexeme}
	case TokNumber:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		if p.opts.ParseNumbersAsDecimals {
			return parseDecimalLiteral(tok)
		}
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return Value{}, &Error{Kind: ErrInvalidNumber, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid number: " + tok.Lexeme}
		}
		return Number(f), nil
	case TokBigInt:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		digits := strings.TrimSuffix(tok.Lexeme, "n")
		b, err := NewBigIntFromString(digits)
		if err != nil {
			return Value{}, err
		}
		return BigIntValue(b), nil
	case TokDecimal:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return parseDecimalLiteral(tok)
	case TokUUID:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		id, err := ParseUUID(tok.Lexeme)
		if err != nil {
			e := err.(*Error)
			e.Offset, e.Line, e.Column = tok.Offset, tok.Line, tok.Column
			return Value{}, e
		}
		return UUIDValue(id), nil
	case TokInstant:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		if !p.opts.ParseDates {
			return String(tok.Lexeme), nil
		}
		inst, err := parseInstantLiteral(tok)
		if err != nil {
			return Value{}, err
		}
		return InstantValue(inst), nil
	case TokDuration:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		dur, err := parseDurationLiteral(tok)
		if err != nil {
			return Value{}, err
		}
		return DurationValue(dur), nil
	case TokTrue:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Bool(true), nil
	case TokFalse:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Bool(false), nil
	case TokNull:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Null(), nil
	case TokUndefined:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Undefined(), nil
	case TokInf:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Number(posInf()), nil
	case TokNegInf:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Number(negInf()), nil
	case TokNaN:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Number(nan()), nil
	case TokEOF:
		return Value{}, &Error{Kind: ErrUnexpectedChar, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "unexpected end of input"}
	default:
		return Value{}, &Error{Kind: ErrUnexpectedChar, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "unexpected token"}
	}
}

func (p *Parser) parseObject(depth int) (Value, error) {
	if err := p.advance(); err != nil { // consume '{'
		return Value{}, err
	}
	obj := NewObject()
	seen := map[string]int{}

	if p.tok.Kind == TokRBrace {
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return ObjectValue(obj), nil
	}

	for {
		keyTok := p.tok
		var key string
		switch keyTok.Kind {
		case TokString:
			key = keyTok.Lexeme
		case TokIdent, TokTrue, TokFalse, TokNull, TokUndefined, TokInf, TokNaN:
			if !p.opts.AllowUnquotedKeys {
				return Value{}, &Error{Kind: ErrUnquotedKeyDisallowed, Offset: keyTok.Offset, Line: keyTok.Line, Column: keyTok.Column,
					Msg: "unquoted keys are disallowed"}
			}
			key = keyTok.Lexeme
		default:
			return Value{}, &Error{Kind: ErrUnexpectedChar, Offset: keyTok.Offset, Line: keyTok.Line, Column: keyTok.Column,
				Msg: "invalid character at start of object name"}
		}
		if err := p.advance(); err != nil {
			return Value{}, err
		}

		if p.tok.Kind != TokColon {
			return Value{}, &Error{Kind: ErrUnexpectedChar, Offset: p.tok.Offset, Line: p.tok.Line, Column: p.tok.Column,
				Msg: "expected ':' after object key"}
		}
		if err := p.advance(); err != nil {
			return Value{}, err
		}

		val, err := p.parseValue(depth + 1)
		if err != nil {
			return Value{}, err
		}

		if idx, ok := seen[key]; ok {
			switch p.opts.OnDuplicateKey {
			case DuplicateKeyError:
				return Value{}, &Error{Kind: ErrDuplicateKey, Offset: keyTok.Offset, Line: keyTok.Line, Column: keyTok.Column,
					Msg: "duplicate key " + strconv.Quote(key)}
			case KeepFirst:
				// Drop this occurrence; keep the original.
				_ = idx
			default: // KeepLast
				obj.Members[idx].Value = val
			}
		} else {
			seen[key] = len(obj.Members)
			obj.Append(key, val)
		}

		switch p.tok.Kind {
		case TokComma:
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			if p.tok.Kind == TokRBrace {
				if !p.opts.AllowTrailingCommas {
					return Value{}, &Error{Kind: ErrTrailingCommaDisallowed, Offset: p.tok.Offset, Line: p.tok.Line, Column: p.tok.Column,
						Msg: "trailing commas are disallowed"}
				}
				if err := p.advance(); err != nil {
					return Value{}, err
				}
				return ObjectValue(obj), nil
			}
		case TokRBrace:
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			return ObjectValue(obj), nil
		default:
			return Value{}, &Error{Kind: ErrUnexpectedChar, Offset: p.tok.Offset, Line: p.tok.Line, Column: p.tok.Column,
				Msg: "expected ',' or '}' after object value"}
		}
	}
}

func (p *Parser) parseArray(depth int) (Value, error) {
	if err := p.advance(); err != nil { // consume '['
		return Value{}, err
	}
	var elems []Value

	if p.tok.Kind == TokRBracket {
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return ArrayValue(elems), nil
	}

	for {
		v, err := p.parseValue(depth + 1)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)

		switch p.tok.Kind {
		case TokComma:
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			if p.tok.Kind == TokRBracket {
				if !p.opts.AllowTrailingCommas {
					return Value{}, &Error{Kind: ErrTrailingCommaDisallowed, Offset: p.tok.Offset, Line: p.tok.Line, Column: p.tok.Column,
						Msg: "trailing commas are disallowed"}
				}
				if err := p.advance(); err != nil {
					return Value{}, err
				}
				return ArrayValue(elems), nil
			}
		case TokRBracket:
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			return ArrayValue(elems), nil
		default:
			return Value{}, &Error{Kind: ErrUnexpectedChar, Offset: p.tok.Offset, Line: p.tok.Line, Column: p.tok.Column,
				Msg: "expected ',' or ']' after array value"}
		}
	}
}
