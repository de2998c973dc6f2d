package kjson

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBinaryRoundTripScalars(t *testing.T) {
	c := qt.New(t)
	vals := []Value{
		Null(), Undefined(), Bool(true), Bool(false),
		Number(0), Number(-1), Number(127), Number(128), Number(32768),
		Number(1 << 40), Number(3.14159),
		String("hello"), String(""),
		BigIntValue(BigInt{Digits: "123456789012345678901234567890"}),
		BinaryValue(Binary{0x01, 0x02, 0xFF}),
	}
	opts := DefaultDecodeOptions()
	for _, v := range vals {
		enc := EncodeBinary(v, EncodeOptions{})
		dec, err := DecodeBinary(enc, opts)
		c.Assert(err, qt.IsNil, qt.Commentf("value %v", v))
		c.Assert(dec.Equal(v), qt.IsTrue, qt.Commentf("got %v want %v", dec, v))
	}
}

func TestBinaryNonFiniteNumbersEncodeAsNull(t *testing.T) {
	// spec §4.4: kJSONB has no non-finite float representation; NaN and
	// ±Infinity encode as Null rather than round-tripping losslessly.
	for _, n := range []float64{nan(), posInf(), negInf()} {
		enc := EncodeBinary(Number(n), EncodeOptions{})
		if enc[0] != tagNull {
			t.Fatalf("Number(%v) tag = 0x%02x, want tagNull", n, enc[0])
		}
	}
}

func TestBinaryRoundTripUUIDAndInstant(t *testing.T) {
	id, err := ParseUUID("550e8400-e29b-41d4-a716-446655440000")
	if err != nil {
		t.Fatal(err)
	}
	v := UUIDValue(id)
	enc := EncodeBinary(v, EncodeOptions{})
	dec, err := DecodeBinary(enc, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Equal(v) {
		t.Fatalf("uuid round trip mismatch: %v != %v", dec, v)
	}

	inst, err := parseInstantLiteral(Token{Lexeme: "2024-01-15T10:30:00.123Z"})
	if err != nil {
		t.Fatal(err)
	}
	iv := InstantValue(inst)

	// Default: millisecond precision, loses sub-ms nanos.
	enc2 := EncodeBinary(iv, EncodeOptions{})
	dec2, err := DecodeBinary(enc2, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !dec2.Equal(iv) {
		t.Fatalf("instant (ms) round trip mismatch: %v != %v", dec2, iv)
	}

	// PreserveNanos: full precision through the 0x32 tag.
	instNs, err := parseInstantLiteral(Token{Lexeme: "2024-01-15T10:30:00.123456789Z"})
	if err != nil {
		t.Fatal(err)
	}
	ivNs := InstantValue(instNs)
	enc3 := EncodeBinary(ivNs, EncodeOptions{PreserveNanos: true})
	if enc3[0] != tagInstantNs {
		t.Fatalf("expected tagInstantNs, got 0x%02x", enc3[0])
	}
	dec3, err := DecodeBinary(enc3, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !dec3.Equal(ivNs) {
		t.Fatalf("instant (ns) round trip mismatch: %v != %v", dec3, ivNs)
	}
}

func TestBinaryRoundTripDecimal(t *testing.T) {
	d, err := NewDecimal128FromParts(true, "123456789012345678901234567890123456", -5)
	if err != nil {
		t.Fatal(err)
	}
	v := Decimal128Value(d)
	enc := EncodeBinary(v, EncodeOptions{})
	dec, err := DecodeBinary(enc, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Equal(v) {
		t.Fatalf("decimal round trip mismatch: %v != %v", dec, v)
	}
}

func TestBinaryRoundTripArrayAndObject(t *testing.T) {
	obj := NewObject()
	obj.Append("a", Number(1))
	obj.Append("b", ArrayValue([]Value{String("x"), Null(), Bool(true)}))
	v := ObjectValue(obj)

	enc := EncodeBinary(v, EncodeOptions{})
	dec, err := DecodeBinary(enc, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Equal(v) {
		t.Fatalf("object round trip mismatch")
	}
}

func TestBinaryIntegerSmallestFit(t *testing.T) {
	cases := []struct {
		n    float64
		tag  byte
	}{
		{0, tagInt8},
		{127, tagInt8},
		{128, tagInt16},
		{32767, tagInt16},
		{32768, tagInt32},
		{1 << 31, tagInt64},
		{1 << 40, tagInt64},
	}
	for _, c := range cases {
		enc := EncodeBinary(Number(c.n), EncodeOptions{})
		if enc[0] != c.tag {
			t.Errorf("Number(%v) tag = 0x%02x, want 0x%02x", c.n, enc[0], c.tag)
		}
	}
}

func TestBinaryUnknownTypeRejected(t *testing.T) {
	_, err := DecodeBinary([]byte{0xEE}, DefaultDecodeOptions())
	if err == nil {
		t.Fatal("expected error for unknown type byte")
	}
	if kerr := err.(*Error); kerr.Kind != ErrUnknownType {
		t.Fatalf("Kind = %v, want ErrUnknownType", kerr.Kind)
	}
}

func TestBinaryTruncatedPayloadRejected(t *testing.T) {
	// tagInt32 requires 4 payload bytes; supply only 2.
	_, err := DecodeBinary([]byte{tagInt32, 0x01, 0x02}, DefaultDecodeOptions())
	if err == nil {
		t.Fatal("expected error for truncated payload")
	}
	if kerr := err.(*Error); kerr.Kind != ErrUnexpectedEOF {
		t.Fatalf("Kind = %v, want ErrUnexpectedEof", kerr.Kind)
	}
}

func TestBinaryMaxDepthEnforced(t *testing.T) {
	v := Number(1)
	for i := 0; i < 20; i++ {
		v = ArrayValue([]Value{v})
	}
	enc := EncodeBinary(v, EncodeOptions{})
	_, err := DecodeBinary(enc, DecodeOptions{MaxDepth: 5, MaxVarint: defaultMaxVarint})
	if err == nil {
		t.Fatal("expected depth exceeded error")
	}
	if kerr := err.(*Error); kerr.Kind != ErrDepthExceeded {
		t.Fatalf("Kind = %v, want ErrDepthExceeded", kerr.Kind)
	}
}

func TestBinaryDeclaredCountExceedsInputRejected(t *testing.T) {
	// Array tag declaring a huge element count with no payload behind it.
	buf := []byte{tagArray}
	buf = appendVarint(buf, 1<<30)
	_, err := DecodeBinary(buf, DefaultDecodeOptions())
	if err == nil {
		t.Fatal("expected error for declared count exceeding remaining input")
	}
	if kerr := err.(*Error); kerr.Kind != ErrCountExceedsInput {
		t.Fatalf("Kind = %v, want ErrCountExceedsInput", kerr.Kind)
	}
}

func TestBinaryTrailingContentRejected(t *testing.T) {
	enc := EncodeBinary(Number(1), EncodeOptions{})
	enc = append(enc, 0xFF)
	_, err := DecodeBinary(enc, DefaultDecodeOptions())
	if err == nil {
		t.Fatal("expected trailing content error")
	}
}

func TestBinaryLargeBigIntRoundTrip(t *testing.T) {
	digits := strings.Repeat("9", 10000)
	b, err := NewBigIntFromString(digits)
	if err != nil {
		t.Fatal(err)
	}
	v := BigIntValue(b)
	enc := EncodeBinary(v, EncodeOptions{})
	dec, err := DecodeBinary(enc, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Equal(v) {
		t.Fatal("10,000-digit bigint round trip mismatch")
	}
}

func TestDecodeBinaryPrefixSequence(t *testing.T) {
	var buf []byte
	buf = append(buf, EncodeBinary(Number(1), EncodeOptions{})...)
	buf = append(buf, EncodeBinary(String("two"), EncodeOptions{})...)

	v1, n1, err := DecodeBinaryPrefix(buf, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	v2, n2, err := DecodeBinaryPrefix(buf[n1:], DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := v1.Number(); f != 1 {
		t.Fatalf("v1 = %v, want 1", f)
	}
	if s, _ := v2.String_(); s != "two" {
		t.Fatalf("v2 = %v, want two", s)
	}
	if n1+n2 != len(buf) {
		t.Fatalf("consumed %d+%d, want %d", n1, n2, len(buf))
	}
}
