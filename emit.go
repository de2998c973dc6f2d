package kjson

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// EmitOptions configures the text emitter (spec §4.3). The zero value
// is not the default; use DefaultEmitOptions.
type EmitOptions struct {
	Pretty bool
	Indent string
	// QuoteKeys forces every object key to be quoted, and — so that
	// emitText(parseText(d), {QuoteKeys:true}) of a standard-JSON d is
	// itself valid standard JSON (spec §8 testable property 3) — also
	// forces every key and string value to use double-quote rather
	// than going through the minimal-escape quote selection.
	QuoteKeys      bool
	BigintSuffix   bool
	DecimalSuffix  bool
	SortKeys       bool
	EscapeNonASCII bool
}

// DefaultEmitOptions returns the spec-mandated defaults (compact,
// unquoted identifier keys, suffixed extended-number literals).
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{
		Pretty:         false,
		Indent:         "  ",
		QuoteKeys:      false,
		BigintSuffix:   true,
		DecimalSuffix:  true,
		SortKeys:       false,
		EscapeNonASCII: false,
	}
}

// EmitText renders v as kJSON text (spec §6: emitText).
func EmitText(v Value, opts EmitOptions) string {
	var b strings.Builder
	e := &emitter{opts: opts, out: &b}
	e.writeValue(v, 0)
	return b.String()
}

type emitter struct {
	opts EmitOptions
	out  *strings.Builder
}

func (e *emitter) newline(depth int) {
	if !e.opts.Pretty {
		return
	}
	e.out.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.out.WriteString(e.opts.Indent)
	}
}

func (e *emitter) writeValue(v Value, depth int) {
	switch v.kind {
	case KindNull:
		e.out.WriteString("null")
	case KindUndefined:
		e.out.WriteString("undefined")
	case KindBool:
		if v.boolVal {
			e.out.WriteString("true")
		} else {
			e.out.WriteString("false")
		}
	case KindNumber:
		e.writeNumber(v.numberVal)
	case KindString:
		e.writeQuotedString(v.stringVal)
	case KindBigInt:
		e.writeBigInt(v.bigIntVal)
	case KindDecimal128:
		e.writeDecimal128(v.decVal)
	case KindUUID:
		e.out.WriteString(v.uuidVal.String())
	case KindInstant:
		e.out.WriteString(FormatInstant(v.instantVal))
	case KindDuration:
		e.out.WriteString(FormatDuration(v.durVal))
	case KindBinary:
		// Binary has no textual kJSON form (spec §3: "only representable
		// in kJSONB"); render it the way the emitter renders any value
		// it cannot express textually, as a quoted escaped string of its
		// bytes, so EmitText stays total for well-formed Values (spec §7).
		e.writeQuotedString(string(v.binVal))
	case KindArray:
		e.writeArray(v.arrVal, depth)
	case KindObject:
		e.writeObject(v.objVal, depth)
	}
}

func (e *emitter) writeArray(elems []Value, depth int) {
	e.out.WriteByte('[')
	if len(elems) == 0 {
		e.out.WriteByte(']')
		return
	}
	for i, el := range elems {
		if i > 0 {
			e.out.WriteByte(',')
			if !e.opts.Pretty {
				e.out.WriteByte(' ')
			}
		}
		e.newline(depth + 1)
		e.writeValue(el, depth+1)
	}
	e.newline(depth)
	e.out.WriteByte(']')
}

func (e *emitter) writeObject(o *Object, depth int) {
	e.out.WriteByte('{')
	n := o.Len()
	if n == 0 {
		e.out.WriteByte('}')
		return
	}
	members := o.Members
	if e.opts.SortKeys {
		members = append([]Member(nil), members...)
		sort.SliceStable(members, func(i, j int) bool { return members[i].Key < members[j].Key })
	}
	for i, m := range members {
		if i > 0 {
			e.out.WriteByte(',')
			if !e.opts.Pretty {
				e.out.WriteByte(' ')
			}
		}
		e.newline(depth + 1)
		e.writeKey(m.Key)
		e.out.WriteByte(':')
		e.out.WriteByte(' ')
		e.writeValue(m.Value, depth+1)
	}
	e.newline(depth)
	e.out.WriteByte('}')
}

var reservedWords = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true,
	"Infinity": true, "NaN": true,
}

// isBareIdentifier reports whether key matches [A-Za-z_$][A-Za-z0-9_$]*
// and is not a reserved word (spec §4.3 key-quoting policy).
func isBareIdentifier(key string) bool {
	if key == "" || reservedWords[key] {
		return false
	}
	for i, r := range key {
		letter := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		if i == 0 {
			if !(r == '_' || r == '$' || letter) {
				return false
			}
			continue
		}
		if !(r == '_' || r == '$' || letter || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func (e *emitter) writeKey(key string) {
	if !e.opts.QuoteKeys && isBareIdentifier(key) {
		e.out.WriteString(key)
		return
	}
	e.writeQuotedString(key)
}

// writeQuotedString picks the delimiter among ' " ` that minimises the
// number of required escapes, breaking ties single > double > backtick
// (spec §4.3, §8 testable property 5). When QuoteKeys is set, the
// delimiter is always double-quote instead, so that
// emitText(parseText(d), {quoteKeys:true}) of a standard-JSON input d
// is itself valid standard JSON (spec §8 testable property 3).
func (e *emitter) writeQuotedString(s string) {
	quote := e.selectQuote(s)
	e.out.WriteByte(quote)
	for _, r := range s {
		e.writeEscapedRune(r, quote)
	}
	e.out.WriteByte(quote)
}

func (e *emitter) selectQuote(s string) byte {
	if e.opts.QuoteKeys {
		return '"'
	}
	return chooseQuote(s)
}

func chooseQuote(s string) byte {
	needsEscape := func(quote byte) int {
		n := 0
		for _, r := range s {
			if r < 0x80 && byte(r) == quote {
				n++
			} else if r == '\n' {
				if quote != '`' {
					n++
				}
			} else if r < 0x20 {
				n++
			} else if r == '\\' {
				n++
			}
		}
		return n
	}
	costs := [3]int{needsEscape('\''), needsEscape('"'), needsEscape('`')}
	quotes := [3]byte{'\'', '"', '`'}
	best := 0
	for i := 1; i < 3; i++ {
		if costs[i] < costs[best] {
			best = i
		}
	}
	return quotes[best]
}

func (e *emitter) writeEscapedRune(r rune, quote byte) {
	switch {
	case byte(r) == quote && r < 0x80:
		e.out.WriteByte('\\')
		e.out.WriteByte(quote)
	case r == '\\':
		e.out.WriteString(`\\`)
	case r == '\n':
		if quote == '`' {
			e.out.WriteByte('\n')
		} else {
			e.out.WriteString(`\n`)
		}
	case r == '\r':
		e.out.WriteString(`\r`)
	case r == '\t':
		e.out.WriteString(`\t`)
	case r == '\b':
		e.out.WriteString(`\b`)
	case r == '\f':
		e.out.WriteString(`\f`)
	case r < 0x20:
		fmt.Fprintf(e.out, `\u%04x`, r)
	case r >= 0x7F && e.opts.EscapeNonASCII:
		if r > 0xFFFF {
			r1, r2 := utf16Encode(r)
			fmt.Fprintf(e.out, `\u%04x\u%04x`, r1, r2)
		} else {
			fmt.Fprintf(e.out, `\u%04x`, r)
		}
	default:
		e.out.WriteRune(r)
	}
}

func utf16Encode(r rune) (rune, rune) {
	r -= 0x10000
	return 0xD800 + (r >> 10), 0xDC00 + (r & 0x3FF)
}

// writeNumber renders the shortest round-trippable decimal (spec §4.3),
// using NaN/Infinity/-Infinity bare identifiers for non-finite values.
func (e *emitter) writeNumber(f float64) {
	switch {
	case math.IsNaN(f):
		e.out.WriteString("NaN")
	case math.IsInf(f, 1):
		e.out.WriteString("Infinity")
	case math.IsInf(f, -1):
		e.out.WriteString("-Infinity")
	default:
		e.out.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
}

func (e *emitter) writeBigInt(b BigInt) {
	if b.Negative {
		e.out.WriteByte('-')
	}
	e.out.WriteString(b.Digits)
	if e.opts.BigintSuffix {
		e.out.WriteByte('n')
	}
}

// writeDecimal128 renders d in decimal-point form when its exponent is
// zero or negative, and as significand + "e" + exponent when it is
// positive, the inverse of parseDecimalLiteral's split of a literal's
// mantissa into (significand, exponent) — so that parsing the output
// yields the same (significand, exponent) pair (spec §8 concrete
// scenario 1: "3.5m" -> Decimal128(+,"35",-1) -> "3.5m", not "35e-1m").
func (e *emitter) writeDecimal128(d Decimal128) {
	if d.Negative {
		e.out.WriteByte('-')
	}
	digits := d.Significand
	switch {
	case d.Exponent >= 0:
		e.out.WriteString(digits)
		if d.Exponent > 0 {
			e.out.WriteByte('e')
			e.out.WriteString(strconv.FormatInt(int64(d.Exponent), 10))
		}
	case int(-d.Exponent) < len(digits):
		fracLen := int(-d.Exponent)
		e.out.WriteString(digits[:len(digits)-fracLen])
		e.out.WriteByte('.')
		e.out.WriteString(digits[len(digits)-fracLen:])
	default:
		e.out.WriteString("0.")
		for i := 0; i < int(-d.Exponent)-len(digits); i++ {
			e.out.WriteByte('0')
		}
		e.out.WriteString(digits)
	}
	if e.opts.DecimalSuffix {
		e.out.WriteByte('m')
	}
}

// FormatInstant renders i as the canonical YYYY-MM-DDTHH:MM:SS[.frac]Z
// form, with the minimum fractional digits (0, 3, 6, or 9) needed to
// represent Nanos exactly (spec §4.3).
func FormatInstant(i Instant) string {
	t := i.Time()
	base := t.Format("2006-01-02T15:04:05")
	if i.Nanos == 0 {
		return base + "Z"
	}
	frac := fmt.Sprintf("%09d", i.Nanos)
	switch {
	case i.Nanos%1000 == 0 && i.Nanos%1_000_000 != 0:
		frac = frac[:6]
	case i.Nanos%1_000_000 == 0:
		frac = frac[:3]
	default:
		// full 9 digits
	}
	return base + "." + frac + "Z"
}

// FormatDuration renders d as canonical ISO-8601, omitting zero fields
// except for the zero duration itself, which is rendered "PT0S" (spec
// §4.3).
func FormatDuration(d Duration) string {
	var b strings.Builder
	if d.Sign < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if d.Years != 0 {
		fmt.Fprintf(&b, "%dY", d.Years)
	}
	if d.Months != 0 {
		fmt.Fprintf(&b, "%dM", d.Months)
	}
	if d.Days != 0 {
		fmt.Fprintf(&b, "%dD", d.Days)
	}
	hasTime := d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 || d.Nanos != 0
	if hasTime {
		b.WriteByte('T')
		if d.Hours != 0 {
			fmt.Fprintf(&b, "%dH", d.Hours)
		}
		if d.Minutes != 0 {
			fmt.Fprintf(&b, "%dM", d.Minutes)
		}
		if d.Seconds != 0 || d.Nanos != 0 {
			if d.Nanos != 0 {
				frac := strings.TrimRight(fmt.Sprintf("%09d", d.Nanos), "0")
				fmt.Fprintf(&b, "%d.%sS", d.Seconds, frac)
			} else {
				fmt.Fprintf(&b, "%dS", d.Seconds)
			}
		}
	}
	if d.IsZero() {
		return "PT0S"
	}
	return b.String()
}
