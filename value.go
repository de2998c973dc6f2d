package kjson

// Kind discriminates the variant a Value currently holds. Go has no sum
// types, so the tagged union from spec §3 is emulated with a kind
// discriminator plus per-variant fields (spec §9).
type Kind int

const (
	KindNull Kind = iota
	KindUndefined
	KindBool
	KindNumber
	KindString
	KindBigInt
	KindDecimal128
	KindUUID
	KindInstant
	KindDuration
	KindBinary
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindUndefined:
		return "Undefined"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBigInt:
		return "BigInt"
	case KindDecimal128:
		return "Decimal128"
	case KindUUID:
		return "Uuid"
	case KindInstant:
		return "Instant"
	case KindDuration:
		return "Duration"
	case KindBinary:
		return "Binary"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Member is a single (key, value) pair of an Object. Order of Members in
// the containing Object is significant (spec §3, §5).
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered sequence of (key, Value) pairs. Keys are never
// nil (they are plain Go strings); empty keys are permitted (spec §3,
// invariant 5).
type Object struct {
	Members []Member
}

// NewObject returns an empty Object ready to accept members.
func NewObject() *Object { return &Object{} }

// Len reports the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// Index returns the position of key's most recent occurrence, or -1.
func (o *Object) Index(key string) int {
	if o == nil {
		return -1
	}
	for i := len(o.Members) - 1; i >= 0; i-- {
		if o.Members[i].Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value for key and whether it was present. When a key
// occurs more than once, the last occurrence wins, matching the default
// onDuplicateKey=keep-last parser policy (spec §4.2).
func (o *Object) Get(key string) (Value, bool) {
	if i := o.Index(key); i >= 0 {
		return o.Members[i].Value, true
	}
	return Value{}, false
}

// Set appends a new member, or overwrites the value of the first
// existing occurrence of key if present. Callers that need parser-style
// duplicate-key policies should use the parser's onDuplicateKey option
// instead of Set.
func (o *Object) Set(key string, v Value) {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = v
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// Append unconditionally appends a member without checking for an
// existing key, used by the parser to build objects member by member
// under its own duplicate-key policy.
func (o *Object) Append(key string, v Value) {
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// Keys returns the member keys in order (including duplicates, if any
// remain after parsing).
func (o *Object) Keys() []string {
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{Members: make([]Member, len(o.Members))}
	for i, m := range o.Members {
		out.Members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
	}
	return out
}

// Value is the tagged in-memory representation of a kJSON datum (spec
// §3). The zero Value is Null.
type Value struct {
	kind Kind

	boolVal    bool
	numberVal  float64
	stringVal  string
	bigIntVal  BigInt
	decVal     Decimal128
	uuidVal    UUID
	instantVal Instant
	durVal     Duration
	binVal     Binary
	arrVal     []Value
	objVal     *Object
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Constructors, one per variant (spec §6: "Type predicates and
// constructors for each extended type").

func Null() Value      { return Value{kind: KindNull} }
func Undefined() Value { return Value{kind: KindUndefined} }
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }
func Number(n float64) Value { return Value{kind: KindNumber, numberVal: n} }
func String(s string) Value  { return Value{kind: KindString, stringVal: s} }
func BigIntValue(b BigInt) Value       { return Value{kind: KindBigInt, bigIntVal: b} }
func Decimal128Value(d Decimal128) Value { return Value{kind: KindDecimal128, decVal: d} }
func UUIDValue(u UUID) Value           { return Value{kind: KindUUID, uuidVal: u} }
func InstantValue(i Instant) Value     { return Value{kind: KindInstant, instantVal: i} }
func DurationValue(d Duration) Value   { return Value{kind: KindDuration, durVal: d} }
func BinaryValue(b Binary) Value       { return Value{kind: KindBinary, binVal: b} }
func ArrayValue(elems []Value) Value   { return Value{kind: KindArray, arrVal: elems} }
func ObjectValue(o *Object) Value      { return Value{kind: KindObject, objVal: o} }

// Predicates.

func (v Value) IsNull() bool       { return v.kind == KindNull }
func (v Value) IsUndefined() bool  { return v.kind == KindUndefined }
func (v Value) IsBool() bool       { return v.kind == KindBool }
func (v Value) IsNumber() bool     { return v.kind == KindNumber }
func (v Value) IsString() bool     { return v.kind == KindString }
func (v Value) IsBigInt() bool     { return v.kind == KindBigInt }
func (v Value) IsDecimal128() bool { return v.kind == KindDecimal128 }
func (v Value) IsUUID() bool       { return v.kind == KindUUID }
func (v Value) IsInstant() bool    { return v.kind == KindInstant }
func (v Value) IsDuration() bool   { return v.kind == KindDuration }
func (v Value) IsBinary() bool     { return v.kind == KindBinary }
func (v Value) IsArray() bool      { return v.kind == KindArray }
func (v Value) IsObject() bool     { return v.kind == KindObject }

// Accessors. Each returns the zero value and false if v is not of the
// matching kind.

func (v Value) Bool() (bool, bool)             { return v.boolVal, v.kind == KindBool }
func (v Value) Number() (float64, bool)         { return v.numberVal, v.kind == KindNumber }
func (v Value) String_() (string, bool)         { return v.stringVal, v.kind == KindString }
func (v Value) BigInt() (BigInt, bool)          { return v.bigIntVal, v.kind == KindBigInt }
func (v Value) Decimal128() (Decimal128, bool)  { return v.decVal, v.kind == KindDecimal128 }
func (v Value) UUID() (UUID, bool)              { return v.uuidVal, v.kind == KindUUID }
func (v Value) Instant() (Instant, bool)        { return v.instantVal, v.kind == KindInstant }
func (v Value) Duration() (Duration, bool)      { return v.durVal, v.kind == KindDuration }
func (v Value) Binary() (Binary, bool)          { return v.binVal, v.kind == KindBinary }
func (v Value) Array() ([]Value, bool)          { return v.arrVal, v.kind == KindArray }
func (v Value) Object() (*Object, bool)         { return v.objVal, v.kind == KindObject }

// Clone returns a deep copy of v. Values are logically immutable once
// built (spec §3 "Lifecycle"); Clone exists for callers that want to
// mutate a tree via Object.Set/Append without aliasing the source.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arrVal))
		for i, e := range v.arrVal {
			arr[i] = e.Clone()
		}
		return Value{kind: KindArray, arrVal: arr}
	case KindObject:
		return Value{kind: KindObject, objVal: v.objVal.Clone()}
	default:
		return v
	}
}

// Depth returns the maximum nesting depth of v (a leaf has depth 1).
func (v Value) Depth() int {
	switch v.kind {
	case KindArray:
		max := 0
		for _, e := range v.arrVal {
			if d := e.Depth(); d > max {
				max = d
			}
		}
		return max + 1
	case KindObject:
		max := 0
		if v.objVal != nil {
			for _, m := range v.objVal.Members {
				if d := m.Value.Depth(); d > max {
					max = d
				}
			}
		}
		return max + 1
	default:
		return 1
	}
}

// Equal reports deep structural equality between two Values, following
// each extended type's own Equal semantics (textual equality for
// BigInt/Decimal128, not numeric equality).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull, KindUndefined:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindNumber:
		return v.numberVal == o.numberVal || (isNaN(v.numberVal) && isNaN(o.numberVal))
	case KindString:
		return v.stringVal == o.stringVal
	case KindBigInt:
		return v.bigIntVal.Equal(o.bigIntVal)
	case KindDecimal128:
		return v.decVal.Equal(o.decVal)
	case KindUUID:
		return v.uuidVal == o.uuidVal
	case KindInstant:
		return v.instantVal.Equal(o.instantVal)
	case KindDuration:
		return v.durVal.Equal(o.durVal)
	case KindBinary:
		return v.binVal.Equal(o.binVal)
	case KindArray:
		if len(v.arrVal) != len(o.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(o.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		a, b := v.objVal.Len(), o.objVal.Len()
		if a != b {
			return false
		}
		for i := 0; i < a; i++ {
			if v.objVal.Members[i].Key != o.objVal.Members[i].Key ||
				!v.objVal.Members[i].Value.Equal(o.objVal.Members[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isNaN(f float64) bool { return f != f }
