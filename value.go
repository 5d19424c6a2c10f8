package toon

import (
	"strings"
)

// Kind identifies which of the six shapes a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a TOON value. It holds exactly one of null, bool, number,
// string, array or object. Numbers are always float64; integers decoded
// from text are stored as their float64 equivalent.
//
// Arrays and objects own their children. Do not place the same *Value in
// two containers; use Clone when a subtree must be reused.
//
// A nil *Value is treated as null by every method.
type Value struct {
	kind Kind

	boolVal bool
	numVal  float64
	strVal  string

	arrVal []*Value
	objVal *Object
}

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, boolVal: b}
}

// Number creates a numeric value.
func Number(n float64) *Value {
	return &Value{kind: KindNumber, numVal: n}
}

// Int creates a numeric value from an integer. Values beyond 2^53 lose
// precision exactly as a float64 conversion would.
func Int(i int64) *Value {
	return &Value{kind: KindNumber, numVal: float64(i)}
}

// Str creates a string value.
func Str(s string) *Value {
	return &Value{kind: KindString, strVal: s}
}

// Array creates an array value holding items in order.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindArray, arrVal: items}
}

// Obj creates an object value from members. Later members overwrite
// earlier ones with the same key.
func Obj(members ...Member) *Value {
	o := NewObject()
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return &Value{kind: KindObject, objVal: o}
}

// ObjectValue wraps o as a value. A nil o yields an empty object.
func ObjectValue(o *Object) *Value {
	if o == nil {
		o = NewObject()
	}
	return &Value{kind: KindObject, objVal: o}
}

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null.
func (v *Value) IsNull() bool {
	return v.Kind() == KindNull
}

// IsPrimitive reports whether v is null, a bool, a number or a string.
func (v *Value) IsPrimitive() bool {
	switch v.Kind() {
	case KindNull, KindBool, KindNumber, KindString:
		return true
	}
	return false
}

// AsBool returns the boolean held by v.
func (v *Value) AsBool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.boolVal, true
}

// AsNumber returns the number held by v.
func (v *Value) AsNumber() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	return v.numVal, true
}

// AsStr returns the string held by v.
func (v *Value) AsStr() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.strVal, true
}

// AsArray returns the elements of v. Elements may be modified in place;
// use AsArrayMut to grow or shrink the array.
func (v *Value) AsArray() ([]*Value, bool) {
	if v.Kind() != KindArray {
		return nil, false
	}
	return v.arrVal, true
}

// AsArrayMut returns a pointer to the element slice of v.
func (v *Value) AsArrayMut() (*[]*Value, bool) {
	if v.Kind() != KindArray {
		return nil, false
	}
	return &v.arrVal, true
}

// AsObject returns the object held by v. The returned object is live:
// changes to it are visible through v.
func (v *Value) AsObject() (*Object, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	return v.objVal, true
}

// Equal reports whether v and other hold structurally equal values.
// Object key order is not significant. NaN is never equal to itself.
func (v *Value) Equal(other *Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindNumber:
		return v.numVal == other.numVal
	case KindString:
		return v.strVal == other.strVal
	case KindArray:
		if len(v.arrVal) != len(other.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(other.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.objVal.Equal(other.objVal)
	}
	return false
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	switch v.Kind() {
	case KindNull:
		return Null()
	case KindArray:
		items := make([]*Value, len(v.arrVal))
		for i, item := range v.arrVal {
			items[i] = item.Clone()
		}
		return Array(items...)
	case KindObject:
		return ObjectValue(v.objVal.Clone())
	}
	cp := *v
	return &cp
}

// String renders v with strict JSON-like quoting. It is meant for
// debugging; use Encode for TOON text.
func (v *Value) String() string {
	var b strings.Builder
	v.writeDebug(&b)
	return b.String()
}

func (v *Value) writeDebug(b *strings.Builder) {
	switch v.Kind() {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.boolVal {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(FormatNumber(v.numVal))
	case KindString:
		b.WriteString(quoteJSON(v.strVal))
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.arrVal {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeDebug(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, m := range v.objVal.Members() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteJSON(m.Key))
			b.WriteString(": ")
			m.Value.writeDebug(b)
		}
		b.WriteByte('}')
	}
}

// EncodeOptions controls rendering.
type EncodeOptions struct {
	// Pretty is reserved; top-level containers are always laid out over
	// multiple lines.
	Pretty bool
	// Indent is the number of spaces per nesting level.
	Indent int
	// EscapeNonASCII is reserved and currently ignored.
	EscapeNonASCII bool
}

// DefaultEncodeOptions returns the options used by Encode.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: 2}
}
