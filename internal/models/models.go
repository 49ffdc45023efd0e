package models

import (
	"math/big"
	"strconv"
)

// Kind identifies which variant of the value tree a Value is.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ObjectKind
	ArrayKind
)

var kindNames = [...]string{
	NullKind:   "null",
	BoolKind:   "boolean",
	NumberKind: "number",
	StringKind: "string",
	ObjectKind: "object",
	ArrayKind:  "array",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a node of a parsed JSON document.
// The concrete types are Null, Bool, Number, String, *Object and Array.
type Value interface {
	Kind() Kind
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number kept in its validated source form, so no precision
// is lost before a consumer picks a numeric type.
type Number string

// String is a decoded JSON string.
type String string

// Array is an ordered sequence of values.
type Array []Value

func (Null) Kind() Kind    { return NullKind }
func (Bool) Kind() Kind    { return BoolKind }
func (Number) Kind() Kind  { return NumberKind }
func (String) Kind() Kind  { return StringKind }
func (*Object) Kind() Kind { return ObjectKind }
func (Array) Kind() Kind   { return ArrayKind }

// Int64 converts the number to an int64. It fails for fractions, exponents
// and values out of range.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 converts the number to the nearest float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// BigFloat converts the number with the given precision in bits.
func (n Number) BigFloat(prec uint) (*big.Float, error) {
	f, _, err := big.ParseFloat(string(n), 10, prec, big.ToNearestEven)
	return f, err
}

func (n Number) String() string {
	return string(n)
}

// Object maps string keys to values and remembers the order in which keys
// were first seen. Setting an existing key replaces its value in place.
type Object struct {
	keys    []string
	members map[string]Value
}

// NewObject returns an empty object with room for size members.
func NewObject(size int) *Object {
	return &Object{
		keys:    make([]string, 0, size),
		members: make(map[string]Value, size),
	}
}

// Set stores value under key. A later Set for the same key wins.
func (o *Object) Set(key string, value Value) {
	if _, exists := o.members[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.members[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.members[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of distinct keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Range calls fn for each member in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, value Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.members[k]) {
			return
		}
	}
}

// IntermediateRepresentation wraps a parsed document together with facts
// about its root that callers commonly branch on.
type IntermediateRepresentation struct {
	Root        Value
	RootIsArray bool // True if the root of the JSON is an array vs an object
}
