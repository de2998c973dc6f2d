package kjson

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// Binary type tags (spec §4.4).
const (
	tagNull      byte = 0x00
	tagFalse     byte = 0x01
	tagTrue      byte = 0x02
	tagInt8      byte = 0x10
	tagInt16     byte = 0x11
	tagInt32     byte = 0x12
	tagInt64     byte = 0x13
	tagUint64    byte = 0x14
	tagFloat32   byte = 0x15
	tagFloat64   byte = 0x16
	tagBigInt    byte = 0x17
	tagDecimal   byte = 0x18
	tagString    byte = 0x20
	tagBinary    byte = 0x21
	tagInstant   byte = 0x30
	tagUUID      byte = 0x31
	tagInstantNs byte = 0x32 // forward-compat nanosecond instant, see spec §9 and SPEC_FULL.md
	tagArray     byte = 0x40
	tagObject    byte = 0x41
	tagUndefined byte = 0xF0
)

const defaultMaxVarint = 1 << 31

// EncodeOptions configures kJSONB encoding.
type EncodeOptions struct {
	// PreserveNanos opts into emitting tagInstantNs (0x32, full
	// nanosecond precision) instead of the reference millisecond-
	// truncating tagInstant (0x30). Off by default to match spec §9's
	// documented reference behaviour (a).
	PreserveNanos bool
}

// DecodeOptions configures kJSONB decoding (spec §4.4).
type DecodeOptions struct {
	MaxDepth  int
	MaxVarint uint64
}

// DefaultDecodeOptions returns the spec-mandated defaults.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{MaxDepth: 1024, MaxVarint: defaultMaxVarint}
}

// EncodeBinary encodes v as kJSONB (spec §6: encodeBinary).
func EncodeBinary(v Value, opts EncodeOptions) []byte {
	buf := make([]byte, 0, 64)
	return appendValue(buf, v, opts)
}

func appendVarint(buf []byte, v uint64) []byte {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	return append(buf, tmp[:n]...)
}

func appendValue(buf []byte, v Value, opts EncodeOptions) []byte {
	switch v.kind {
	case KindNull, KindUndefined:
		if v.kind == KindUndefined {
			return append(buf, tagUndefined)
		}
		return append(buf, tagNull)
	case KindBool:
		if v.boolVal {
			return append(buf, tagTrue)
		}
		return append(buf, tagFalse)
	case KindNumber:
		return appendNumber(buf, v.numberVal)
	case KindString:
		buf = append(buf, tagString)
		buf = appendVarint(buf, uint64(len(v.stringVal)))
		return append(buf, v.stringVal...)
	case KindBigInt:
		buf = append(buf, tagBigInt)
		digits := v.bigIntVal.Digits
		header := uint64(len(digits)) << 1
		if v.bigIntVal.Negative {
			header |= 1
		}
		buf = appendVarint(buf, header)
		return append(buf, digits...)
	case KindDecimal128:
		text := decimalText(v.decVal) // sign + significand [+ "e" exp], no "m" suffix
		buf = append(buf, tagDecimal)
		buf = appendVarint(buf, uint64(len(text)))
		return append(buf, text...)
	case KindUUID:
		buf = append(buf, tagUUID)
		return append(buf, v.uuidVal[:]...)
	case KindInstant:
		if opts.PreserveNanos {
			buf = append(buf, tagInstantNs)
			buf = appendInt64LE(buf, v.instantVal.Seconds)
			return appendUint32LE(buf, v.instantVal.Nanos)
		}
		buf = append(buf, tagInstant)
		ms := v.instantVal.Seconds*1000 + int64(v.instantVal.Nanos)/1_000_000
		return appendInt64LE(buf, ms)
	case KindDuration:
		// Durations have no dedicated kJSONB tag in spec §4.4; encode
		// canonically as their textual form, the same total-for-well-
		// formed-values posture the emitter takes for Binary in kJSON
		// text (see emit.go).
		text := FormatDuration(v.durVal)
		buf = append(buf, tagString)
		buf = appendVarint(buf, uint64(len(text)))
		return append(buf, text...)
	case KindBinary:
		buf = append(buf, tagBinary)
		buf = appendVarint(buf, uint64(len(v.binVal)))
		return append(buf, v.binVal...)
	case KindArray:
		buf = append(buf, tagArray)
		buf = appendVarint(buf, uint64(len(v.arrVal)))
		for _, e := range v.arrVal {
			buf = appendValue(buf, e, opts)
		}
		return buf
	case KindObject:
		buf = append(buf, tagObject)
		n := v.objVal.Len()
		buf = appendVarint(buf, uint64(n))
		for _, m := range v.objVal.Members {
			buf = appendVarint(buf, uint64(len(m.Key)))
			buf = append(buf, m.Key...)
			buf = appendValue(buf, m.Value, opts)
		}
		return buf
	default:
		return append(buf, tagNull)
	}
}

// appendNumber picks the smallest tag that losslessly fits n (spec §4.4,
// §8 testable property 6): integer-valued, finite floats encode as the
// smallest of Int8/Int16/Int32/Int64/Uint64 that holds them; NaN and
// ±Inf encode as Null; any other value encodes as Float32 when a
// float32 holds it exactly, and as Float64 otherwise.
func appendNumber(buf []byte, n float64) []byte {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return append(buf, tagNull)
	}
	if i := int64(n); float64(i) == n {
		switch {
		case i >= math.MinInt8 && i <= math.MaxInt8:
			return append(buf, tagInt8, byte(int8(i)))
		case i >= math.MinInt16 && i <= math.MaxInt16:
			buf = append(buf, tagInt16)
			return appendInt16LE(buf, int16(i))
		case i >= math.MinInt32 && i <= math.MaxInt32:
			buf = append(buf, tagInt32)
			return appendInt32LE(buf, int32(i))
		default:
			buf = append(buf, tagInt64)
			return appendInt64LE(buf, i)
		}
	}
	if n >= 0 && n == math.Trunc(n) && n <= math.MaxUint64 {
		buf = append(buf, tagUint64)
		return appendUint64LE(buf, uint64(n))
	}
	if f32 := float32(n); float64(f32) == n {
		buf = append(buf, tagFloat32)
		return appendUint32LE(buf, math.Float32bits(f32))
	}
	buf = append(buf, tagFloat64)
	return appendUint64LE(buf, math.Float64bits(n))
}

func appendInt16LE(buf []byte, v int16) []byte { return appendUint16LE(buf, uint16(v)) }
func appendInt32LE(buf []byte, v int32) []byte { return appendUint32LE(buf, uint32(v)) }
func appendInt64LE(buf []byte, v int64) []byte { return appendUint64LE(buf, uint64(v)) }

func appendUint16LE(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}
func appendUint32LE(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
func appendUint64LE(buf []byte, v uint64) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// DecodeBinary decodes a single kJSONB value from b. The value must
// consume the entire input (spec §6) unless the caller uses the
// streaming decoder (not applicable here — see DecodeBinaryPrefix for
// the streaming-friendly variant).
func DecodeBinary(b []byte, opts DecodeOptions) (Value, error) {
	v, n, err := decodeValue(b, 0, opts)
	if err != nil {
		return Value{}, err
	}
	if n != len(b) {
		return Value{}, &Error{Kind: ErrTrailingContent, Offset: n, Msg: "trailing bytes after top-level value"}
	}
	return v, nil
}

// DecodeBinaryPrefix decodes a single kJSONB value from the start of b
// and reports how many bytes it consumed, allowing callers to decode a
// sequence of concatenated values (spec §4.4 "Streaming").
func DecodeBinaryPrefix(b []byte, opts DecodeOptions) (Value, int, error) {
	return decodeValue(b, 0, opts)
}

func decodeValue(b []byte, depth int, opts DecodeOptions) (Value, int, error) {
	if depth > opts.MaxDepth {
		return Value{}, 0, &Error{Kind: ErrDepthExceeded, Msg: "maximum depth exceeded"}
	}
	if len(b) < 1 {
		return Value{}, 0, &Error{Kind: ErrUnexpectedEOF, Msg: "unexpected end of input reading type byte"}
	}
	tag := b[0]
	rest := b[1:]
	consumed := 1

	readN := func(n int) ([]byte, error) {
		if len(rest) < n {
			return nil, &Error{Kind: ErrUnexpectedEOF, Msg: "unexpected end of input reading payload"}
		}
		out := rest[:n]
		rest = rest[n:]
		consumed += n
		return out, nil
	}
	readVarint := func() (uint64, error) {
		v, n := binary.Uvarint(rest)
		if n <= 0 {
			if n == 0 {
				return 0, &Error{Kind: ErrUnexpectedEOF, Msg: "unexpected end of input reading varint"}
			}
			return 0, &Error{Kind: ErrVarintOverflow, Msg: "varint too large"}
		}
		if n > 10 {
			return 0, &Error{Kind: ErrVarintOverflow, Msg: "varint longer than 10 bytes"}
		}
		if v > opts.MaxVarint {
			return 0, &Error{Kind: ErrVarintOverflow, Msg: "varint exceeds configured payload bound"}
		}
		rest = rest[n:]
		consumed += n
		return v, nil
	}

	switch tag {
	case tagNull:
		return Null(), consumed, nil
	case tagUndefined:
		return Undefined(), consumed, nil
	case tagFalse:
		return Bool(false), consumed, nil
	case tagTrue:
		return Bool(true), consumed, nil
	case tagInt8:
		p, err := readN(1)
		if err != nil {
			return Value{}, 0, err
		}
		return Number(float64(int8(p[0]))), consumed, nil
	case tagInt16:
		p, err := readN(2)
		if err != nil {
			return Value{}, 0, err
		}
		return Number(float64(int16(binary.LittleEndian.Uint16(p)))), consumed, nil
	case tagInt32:
		p, err := readN(4)
		if err != nil {
			return Value{}, 0, err
		}
		return Number(float64(int32(binary.LittleEndian.Uint32(p)))), consumed, nil
	case tagInt64:
		p, err := readN(8)
		if err != nil {
			return Value{}, 0, err
		}
		return Number(float64(int64(binary.LittleEndian.Uint64(p)))), consumed, nil
	case tagUint64:
		p, err := readN(8)
		if err != nil {
			return Value{}, 0, err
		}
		return Number(float64(binary.LittleEndian.Uint64(p))), consumed, nil
	case tagFloat32:
		p, err := readN(4)
		if err != nil {
			return Value{}, 0, err
		}
		return Number(float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))), consumed, nil
	case tagFloat64:
		p, err := readN(8)
		if err != nil {
			return Value{}, 0, err
		}
		return Number(math.Float64frombits(binary.LittleEndian.Uint64(p))), consumed, nil
	case tagBigInt:
		header, err := readVarint()
		if err != nil {
			return Value{}, 0, err
		}
		neg := header&1 != 0
		length := header >> 1
		if length > opts.MaxVarint {
			return Value{}, 0, &Error{Kind: ErrCountExceedsInput, Msg: "bigint digit length exceeds bound"}
		}
		p, err := readN(int(length))
		if err != nil {
			return Value{}, 0, err
		}
		b, err := NewBigIntFromString(string(p))
		if err != nil {
			return Value{}, 0, err
		}
		if neg && b.Digits != "0" {
			b.Negative = true
		}
		return BigIntValue(b), consumed, nil
	case tagDecimal:
		length, err := readVarint()
		if err != nil {
			return Value{}, 0, err
		}
		p, err := readN(int(length))
		if err != nil {
			return Value{}, 0, err
		}
		v, perr := decimalFromText(string(p))
		if perr != nil {
			return Value{}, 0, perr
		}
		return Decimal128Value(v), consumed, nil
	case tagString:
		length, err := readVarint()
		if err != nil {
			return Value{}, 0, err
		}
		if length > uint64(len(rest)) {
			return Value{}, 0, &Error{Kind: ErrCountExceedsInput, Msg: "string length exceeds remaining input"}
		}
		p, err := readN(int(length))
		if err != nil {
			return Value{}, 0, err
		}
		return String(string(p)), consumed, nil
	case tagBinary:
		length, err := readVarint()
		if err != nil {
			return Value{}, 0, err
		}
		if length > uint64(len(rest)) {
			return Value{}, 0, &Error{Kind: ErrCountExceedsInput, Msg: "binary length exceeds remaining input"}
		}
		p, err := readN(int(length))
		if err != nil {
			return Value{}, 0, err
		}
		return BinaryValue(append(Binary(nil), p...)), consumed, nil
	case tagInstant:
		p, err := readN(8)
		if err != nil {
			return Value{}, 0, err
		}
		ms := int64(binary.LittleEndian.Uint64(p))
		sec, nsRemainder := floorDivMod(ms, 1000)
		return InstantValue(Instant{Seconds: sec, Nanos: uint32(nsRemainder) * 1_000_000}), consumed, nil
	case tagInstantNs:
		p, err := readN(12)
		if err != nil {
			return Value{}, 0, err
		}
		sec := int64(binary.LittleEndian.Uint64(p[:8]))
		nanos := binary.LittleEndian.Uint32(p[8:])
		return InstantValue(Instant{Seconds: sec, Nanos: nanos}), consumed, nil
	case tagUUID:
		p, err := readN(16)
		if err != nil {
			return Value{}, 0, err
		}
		var id UUID
		copy(id[:], p)
		return UUIDValue(id), consumed, nil
	case tagArray:
		count, err := readVarint()
		if err != nil {
			return Value{}, 0, err
		}
		const minElemSize = 1 // smallest possible encoded value (e.g. tagNull)
		if count*minElemSize > uint64(len(rest)) {
			return Value{}, 0, &Error{Kind: ErrCountExceedsInput, Msg: "array count exceeds remaining input"}
		}
		elems := make([]Value, 0, count)
		for i := uint64(0); i < count; i++ {
			el, n, err := decodeValue(rest, depth+1, opts)
			if err != nil {
				return Value{}, 0, err
			}
			rest = rest[n:]
			consumed += n
			elems = append(elems, el)
		}
		return ArrayValue(elems), consumed, nil
	case tagObject:
		count, err := readVarint()
		if err != nil {
			return Value{}, 0, err
		}
		const minPairSize = 2 // 1-byte varint key length + at least 1-byte value tag
		if count*minPairSize > uint64(len(rest)) {
			return Value{}, 0, &Error{Kind: ErrCountExceedsInput, Msg: "object count exceeds remaining input"}
		}
		obj := NewObject()
		for i := uint64(0); i < count; i++ {
			klen, n := binary.Uvarint(rest)
			if n <= 0 {
				return Value{}, 0, &Error{Kind: ErrUnexpectedEOF, Msg: "unexpected end of input reading key length"}
			}
			rest = rest[n:]
			consumed += n
			if klen > uint64(len(rest)) {
				return Value{}, 0, &Error{Kind: ErrCountExceedsInput, Msg: "key length exceeds remaining input"}
			}
			key := string(rest[:klen])
			rest = rest[klen:]
			consumed += int(klen)

			val, n2, err := decodeValue(rest, depth+1, opts)
			if err != nil {
				return Value{}, 0, err
			}
			rest = rest[n2:]
			consumed += n2
			obj.Append(key, val)
		}
		return ObjectValue(obj), consumed, nil
	default:
		return Value{}, 0, &Error{Kind: ErrUnknownType, Msg: "unknown type byte"}
	}
}

func floorDivMod(a, b int64) (q, r int64) {
	q = a / b
	r = a % b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

// decimalText renders d as sign + significand [+ "e" exp], the inverse
// of decimalFromText, with no "m" suffix (that belongs to the kJSON
// text emitter's DecimalSuffix option).
func decimalText(d Decimal128) string {
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteString(d.Significand)
	if d.Exponent != 0 {
		b.WriteByte('e')
		if d.Exponent > 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.FormatInt(int64(d.Exponent), 10))
	}
	return b.String()
}

// decimalFromText parses the textual form kJSONB stores for Decimal128
// (sign + significand [+ "e" exp], no "m" suffix) back into a canonical
// Decimal128.
func decimalFromText(s string) (Decimal128, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg, s = true, s[1:]
	}
	significand, exp := s, int32(0)
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' {
			significand = s[:i]
			e, err := parseInt32(s[i+1:])
			if err != nil {
				return Decimal128{}, &Error{Kind: ErrInvalidNumber, Msg: "invalid decimal128 payload"}
			}
			exp = e
			break
		}
	}
	return NewDecimal128FromParts(neg, significand, exp)
}

func parseInt32(s string) (int32, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var v int32
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, &Error{Kind: ErrInvalidNumber, Msg: "invalid exponent digit"}
		}
		v = v*10 + int32(s[i]-'0')
	}
	if neg {
		v = -v
	}
	return v, nil
}
