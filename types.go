package kjson

import (
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UUID is a 128-bit universally unique identifier, stored big-endian as
// defined by RFC 4122 (spec §3, invariant 4). It is the google/uuid
// representation directly: both types are a plain [16]byte under the
// hood, so parsing, formatting, and byte-order are delegated to that
// library rather than re-implemented.
type UUID = uuid.UUID

// ParseUUID parses the canonical 8-4-4-4-12 hex-with-hyphens form.
func ParseUUID(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, newError(ErrInvalidUUID, 0, 0, 0, "invalid uuid: %v", err)
	}
	return id, nil
}

// BigInt is an arbitrary-precision signed integer. Digits is the
// canonical decimal digit string: no leading zeros, and "0" is always
// stored with Negative=false (spec §3, invariant 1).
type BigInt struct {
	Negative bool
	Digits   string
}

// NewBigIntFromString parses a signed decimal digit string (no exponent,
// no fractional part) into canonical BigInt form.
func NewBigIntFromString(s string) (BigInt, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return BigInt{}, newError(ErrInvalidNumber, 0, 0, 0, "empty bigint digits")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return BigInt{}, newError(ErrInvalidNumber, 0, 0, 0, "invalid bigint digit %q", s[i])
		}
	}
	return newBigIntCanonical(neg, s), nil
}

// newBigIntCanonical strips leading zeros and enforces invariant 1.
func newBigIntCanonical(neg bool, digits string) BigInt {
	i := 0
	for i < len(digits)-1 && digits[i] == '0' {
		i++
	}
	digits = digits[i:]
	if digits == "0" {
		neg = false
	}
	return BigInt{Negative: neg, Digits: digits}
}

// Int returns the value as a math/big.Int for callers that need actual
// arithmetic; this package itself never computes with it (spec §9:
// Decimal128/BigInt are text-preserving, not computational, types).
func (b BigInt) Int() *big.Int {
	n := new(big.Int)
	n.SetString(b.Digits, 10)
	if b.Negative {
		n.Neg(n)
	}
	return n
}

// String renders sign + digits, with no "n" suffix (that belongs to the
// text emitter's bigintSuffix option).
func (b BigInt) String() string {
	if b.Negative {
		return "-" + b.Digits
	}
	return b.Digits
}

// Equal reports whether two BigInt values denote the same canonical
// integer.
func (b BigInt) Equal(o BigInt) bool {
	return b.Negative == o.Negative && b.Digits == o.Digits
}

// Decimal128 represents ±d.d…d × 10^e in a text-preserving, non-
// arithmetic form (spec §3, §9). Significand is the canonical decimal
// digit string of the significand (no leading zeros, "0" for zero).
type Decimal128 struct {
	Negative    bool
	Significand string
	Exponent    int32
}

// NewDecimal128FromParts builds a canonical Decimal128, enforcing
// invariant 2: an all-zero significand forces Negative=false and
// Exponent=0.
func NewDecimal128FromParts(negative bool, significand string, exponent int32) (Decimal128, error) {
	if significand == "" {
		return Decimal128{}, newError(ErrInvalidNumber, 0, 0, 0, "empty decimal significand")
	}
	for i := 0; i < len(significand); i++ {
		if significand[i] < '0' || significand[i] > '9' {
			return Decimal128{}, newError(ErrInvalidNumber, 0, 0, 0, "invalid decimal digit %q", significand[i])
		}
	}
	i := 0
	for i < len(significand)-1 && significand[i] == '0' {
		i++
	}
	significand = significand[i:]
	if significand == "0" {
		negative = false
		exponent = 0
	}
	return Decimal128{Negative: negative, Significand: significand, Exponent: exponent}, nil
}

// Equal reports whether two Decimal128 values have the same canonical
// (sign, significand, exponent) triple. This is textual equality, not
// numeric equality (1.0m and 1m are distinct canonical forms).
func (d Decimal128) Equal(o Decimal128) bool {
	return d.Negative == o.Negative && d.Significand == o.Significand && d.Exponent == o.Exponent
}

// Instant is an absolute UTC point in time with nanosecond resolution
// (spec §3). Non-UTC offsets are normalised to UTC on parse.
type Instant struct {
	Seconds int64  // seconds since Unix epoch
	Nanos   uint32 // spec invariant 3: in [0, 1_000_000_000)
}

// NewInstant validates invariant 3 and constructs an Instant.
func NewInstant(seconds int64, nanos uint32) (Instant, error) {
	if nanos >= 1_000_000_000 {
		return Instant{}, newError(ErrInvalidInstant, 0, 0, 0, "nanos %d out of range [0, 1e9)", nanos)
	}
	return Instant{Seconds: seconds, Nanos: nanos}, nil
}

// InstantFromTime converts a time.Time to an Instant, normalising to UTC.
func InstantFromTime(t time.Time) Instant {
	t = t.UTC()
	return Instant{Seconds: t.Unix(), Nanos: uint32(t.Nanosecond())}
}

// Time returns the UTC time.Time this Instant denotes.
func (i Instant) Time() time.Time {
	return time.Unix(i.Seconds, int64(i.Nanos)).UTC()
}

// Equal reports whether two Instants denote the same point in time.
func (i Instant) Equal(o Instant) bool { return i.Seconds == o.Seconds && i.Nanos == o.Nanos }

// Duration is an ISO-8601 duration. Calendar components (Years, Months,
// Days) and exact components (Hours, Minutes, Seconds, Nanos) are kept
// separate, rather than collapsed into a single seconds count, so that
// textual round-tripping preserves which fields were present in the
// source (spec §4.3, §9).
type Duration struct {
	Sign                     int8 // +1 or -1
	Years, Months, Days      int64
	Hours, Minutes, Seconds  int64
	Nanos                    uint32
}

// NewDuration constructs a Duration, normalising Sign to +1 for an
// all-zero duration.
func NewDuration(sign int8, years, months, days, hours, minutes, seconds int64, nanos uint32) Duration {
	d := Duration{
		Sign: sign, Years: years, Months: months, Days: days,
		Hours: hours, Minutes: minutes, Seconds: seconds, Nanos: nanos,
	}
	if d.IsZero() {
		d.Sign = 1
	}
	return d
}

// IsZero reports whether every component of the duration is zero.
func (d Duration) IsZero() bool {
	return d.Years == 0 && d.Months == 0 && d.Days == 0 &&
		d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0 && d.Nanos == 0
}

// TotalMonths returns the calendar months component (months, seconds,
// nanos, sign) tuple from spec §3.
func (d Duration) TotalMonths() int64 { return d.Years*12 + d.Months }

// TotalSeconds returns the exact seconds component of the (months,
// seconds, nanos, sign) tuple from spec §3.
func (d Duration) TotalSeconds() int64 {
	return d.Days*86400 + d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// Equal reports whether two Durations have identical components.
func (d Duration) Equal(o Duration) bool {
	return d.Sign == o.Sign && d.Years == o.Years && d.Months == o.Months && d.Days == o.Days &&
		d.Hours == o.Hours && d.Minutes == o.Minutes && d.Seconds == o.Seconds && d.Nanos == o.Nanos
}

// Binary is raw octet data, only representable in kJSONB (spec §3, §6).
type Binary []byte

// Equal reports byte-for-byte equality.
func (b Binary) Equal(o Binary) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}
