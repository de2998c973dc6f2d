package kjson

import (
	"math"
	"strconv"
	"strings"
	"time"
)

func posInf() float64 { return math.Inf(1) }
func negInf() float64 { return math.Inf(-1) }
func nan() float64    { return math.NaN() }

// parseDecimalLiteral converts a scanned TokNumber or TokDecimal lexeme
// into a canonical Decimal128 (spec §4.1, concrete scenario 1: "3.5m"
// -> Decimal128(+, "35", -1)).
func parseDecimalLiteral(tok Token) (Value, error) {
	lex := strings.TrimSuffix(tok.Lexeme, "m")
	neg := false
	if strings.HasPrefix(lex, "-") {
		neg, lex = true, lex[1:]
	}

	mantissa := lex
	explicitExp := int32(0)
	if i := strings.IndexAny(lex, "eE"); i >= 0 {
		mantissa = lex[:i]
		e, err := strconv.ParseInt(lex[i+1:], 10, 32)
		if err != nil {
			return Value{}, &Error{Kind: ErrInvalidNumber, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid decimal exponent"}
		}
		explicitExp = int32(e)
	}

	intPart, fracPart := mantissa, ""
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		intPart, fracPart = mantissa[:i], mantissa[i+1:]
	}

	significand := intPart + fracPart
	exponent := explicitExp - int32(len(fracPart))

	d, err := NewDecimal128FromParts(neg, significand, exponent)
	if err != nil {
		e := err.(*Error)
		e.Offset, e.Line, e.Column = tok.Offset, tok.Line, tok.Column
		return Value{}, e
	}
	return Decimal128Value(d), nil
}

// parseInstantLiteral converts a scanned TokInstant lexeme to a UTC
// Instant (spec §4.1, §3: "Non-UTC offsets are normalised to UTC on
// parse").
func parseInstantLiteral(tok Token) (Instant, error) {
	lex := tok.Lexeme
	if len(lex) < 19 {
		return Instant{}, &Error{Kind: ErrInvalidInstant, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid instant: " + lex}
	}
	year, err1 := strconv.Atoi(lex[0:4])
	month, err2 := strconv.Atoi(lex[5:7])
	day, err3 := strconv.Atoi(lex[8:10])
	hour, err4 := strconv.Atoi(lex[11:13])
	minute, err5 := strconv.Atoi(lex[14:16])
	second, err6 := strconv.Atoi(lex[17:19])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
		return Instant{}, &Error{Kind: ErrInvalidInstant, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid instant: " + lex}
	}

	rest := lex[19:]
	var nanos uint32
	if strings.HasPrefix(rest, ".") {
		j := 1
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		frac := rest[1:j]
		for len(frac) < 9 {
			frac += "0"
		}
		frac = frac[:9]
		n, err := strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return Instant{}, &Error{Kind: ErrInvalidInstant, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid instant fraction: " + lex}
		}
		nanos = uint32(n)
		rest = rest[j:]
	}

	offsetSeconds := 0
	switch {
	case rest == "" || rest == "Z":
		offsetSeconds = 0
	case len(rest) == 6 && (rest[0] == '+' || rest[0] == '-'):
		oh, errA := strconv.Atoi(rest[1:3])
		om, errB := strconv.Atoi(rest[4:6])
		if errA != nil || errB != nil {
			return Instant{}, &Error{Kind: ErrInvalidInstant, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid instant offset: " + lex}
		}
		offsetSeconds = oh*3600 + om*60
		if rest[0] == '-' {
			offsetSeconds = -offsetSeconds
		}
	default:
		return Instant{}, &Error{Kind: ErrInvalidInstant, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid instant suffix: " + lex}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	seconds := t.Unix() - int64(offsetSeconds)
	return Instant{Seconds: seconds, Nanos: nanos}, nil
}

// parseDurationLiteral converts a scanned TokDuration lexeme (e.g.
// "-P1Y2M3DT4H5M6.5S") into a Duration (spec §4.1, §3).
func parseDurationLiteral(tok Token) (Duration, error) {
	lex := tok.Lexeme
	sign := int8(1)
	if strings.HasPrefix(lex, "-") {
		sign = -1
		lex = lex[1:]
	}
	if !strings.HasPrefix(lex, "P") {
		return Duration{}, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
	}
	lex = lex[1:]

	datePart, timePart := lex, ""
	if i := strings.IndexByte(lex, 'T'); i >= 0 {
		datePart, timePart = lex[:i], lex[i+1:]
	}

	d := Duration{Sign: sign}
	var err error
	if datePart != "" {
		if d.Years, d.Months, d.Days, err = parseDateComponents(datePart, tok); err != nil {
			return Duration{}, err
		}
	}
	if timePart != "" {
		if d.Hours, d.Minutes, d.Seconds, d.Nanos, err = parseTimeComponents(timePart, tok); err != nil {
			return Duration{}, err
		}
	}
	if d.IsZero() {
		d.Sign = 1
	}
	return d, nil
}

func parseDateComponents(s string, tok Token) (years, months, days int64, err error) {
	for len(s) > 0 {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
		}
		n, convErr := strconv.ParseInt(s[:i], 10, 64)
		if convErr != nil || i >= len(s) {
			return 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
		}
		switch s[i] {
		case 'Y':
			years = n
		case 'M':
			months = n
		case 'W':
			days += n * 7
		case 'D':
			days += n
		default:
			return 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
		}
		s = s[i+1:]
	}
	return years, months, days, nil
}

func parseTimeComponents(s string, tok Token) (hours, minutes, seconds int64, nanos uint32, err error) {
	for len(s) > 0 {
		i := 0
		for i < len(s) && ((s[i] >= '0' && s[i] <= '9') || s[i] == '.') {
			i++
		}
		if i == 0 || i >= len(s) {
			return 0, 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
		}
		numStr := s[:i]
		unit := s[i]
		switch unit {
		case 'H':
			n, convErr := strconv.ParseInt(numStr, 10, 64)
			if convErr != nil {
				return 0, 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
			}
			hours = n
		case 'M':
			n, convErr := strconv.ParseInt(numStr, 10, 64)
			if convErr != nil {
				return 0, 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
			}
			minutes = n
		case 'S':
			if j := strings.IndexByte(numStr, '.'); j >= 0 {
				whole, convErr := strconv.ParseInt(numStr[:j], 10, 64)
				frac := numStr[j+1:]
				for len(frac) < 9 {
					frac += "0"
				}
				frac = frac[:9]
				fracVal, convErr2 := strconv.ParseUint(frac, 10, 32)
				if convErr != nil || convErr2 != nil {
					return 0, 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
				}
				seconds = whole
				nanos = uint32(fracVal)
			} else {
				n, convErr := strconv.ParseInt(numStr, 10, 64)
				if convErr != nil {
					return 0, 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
				}
				seconds = n
			}
		default:
			return 0, 0, 0, 0, &Error{Kind: ErrInvalidDuration, Offset: tok.Offset, Line: tok.Line, Column: tok.Column, Msg: "invalid duration: " + tok.Lexeme}
		}
		s = s[i+1:]
	}
	return hours, minutes, seconds, nanos, nil
}
