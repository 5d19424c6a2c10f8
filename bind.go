package toon

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

var (
	valueType           = reflect.TypeOf(Value{})
	valuePtrType        = reflect.TypeOf((*Value)(nil))
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// maxExactInt is the largest integer every smaller integer of which a
// float64 represents exactly.
const maxExactInt = 1 << 53

// FromGo converts a Go value to a Value.
//
// nil and nil pointers become null; bools, integers, floats and strings
// map to their primitive counterparts; slices and arrays become arrays;
// maps with string keys and structs become objects. Struct fields are
// named by their `toon` tag, falling back to the `json` tag and then the
// field name. Any other type fails with ErrUnsupportedType.
func FromGo(v any) (*Value, error) {
	return fromReflect(reflect.ValueOf(v), "$")
}

func fromReflect(rv reflect.Value, path string) (*Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}

	// Values reached through unexported embedded fields cannot be
	// converted with Interface.
	if rv.CanInterface() {
		switch rv.Type() {
		case valuePtrType:
			if rv.IsNil() {
				return Null(), nil
			}
			return rv.Interface().(*Value).Clone(), nil
		case valueType:
			v := rv.Interface().(Value)
			return v.Clone(), nil
		}
	}

	if rv.CanInterface() && rv.Type().Implements(textMarshalerType) {
		if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
			return Null(), nil
		}
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, fmt.Errorf("%w: %s at %s: %v", ErrUnsupportedType, rv.Type(), path, err)
		}
		return Str(string(text)), nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromReflect(rv.Elem(), path)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.String:
		return Str(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromSequence(rv, path)
	case reflect.Array:
		return fromSequence(rv, path)
	case reflect.Map:
		return fromMap(rv, path)
	case reflect.Struct:
		obj := NewObject()
		if err := fromStruct(rv, obj, path); err != nil {
			return nil, err
		}
		return ObjectValue(obj), nil
	}
	return nil, fmt.Errorf("%w: %s at %s", ErrUnsupportedType, rv.Type(), path)
}

func fromSequence(rv reflect.Value, path string) (*Value, error) {
	items := make([]*Value, rv.Len())
	for i := range items {
		item, err := fromReflect(rv.Index(i), path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return Array(items...), nil
}

func fromMap(rv reflect.Value, path string) (*Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: map key must be string, got %s at %s", ErrUnsupportedType, rv.Type().Key(), path)
	}
	if rv.IsNil() {
		return Null(), nil
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	obj := NewObject()
	for _, k := range keys {
		val, err := fromReflect(rv.MapIndex(k), path+"."+k.String())
		if err != nil {
			return nil, err
		}
		obj.Set(k.String(), val)
	}
	return ObjectValue(obj), nil
}

func fromStruct(rv reflect.Value, obj *Object, path string) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, omitEmpty, skip := fieldTag(f)
		if skip {
			continue
		}
		fv := rv.Field(i)

		if f.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Ptr {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				if err := fromStruct(inner, obj, path); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if omitEmpty && fv.IsZero() {
			continue
		}

		val, err := fromReflect(fv, path+"."+name)
		if err != nil {
			return err
		}
		obj.Set(name, val)
	}
	return nil
}

// fieldTag reads the `toon` tag of f, or its `json` tag when absent.
func fieldTag(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("toon")
	if tag == "" {
		tag = f.Tag.Get("json")
	}
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty, false
}

// ToGo converts v to plain Go values: nil, bool, int64 for integral
// numbers within ±2^53, float64 otherwise, string, []any and
// map[string]any.
func ToGo(v *Value) any {
	switch v.Kind() {
	case KindBool:
		return v.boolVal
	case KindNumber:
		n := v.numVal
		if n == math.Trunc(n) && math.Abs(n) <= maxExactInt {
			return int64(n)
		}
		return n
	case KindString:
		return v.strVal
	case KindArray:
		out := make([]any, len(v.arrVal))
		for i, item := range v.arrVal {
			out[i] = ToGo(item)
		}
		return out
	case KindObject:
		out := make(map[string]any, v.objVal.Len())
		for _, m := range v.objVal.Members() {
			out[m.Key] = ToGo(m.Value)
		}
		return out
	}
	return nil
}

// Assign stores v in the Go value pointed to by target, the way
// Unmarshal does.
func Assign(v *Value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("%w: Unmarshal(non-pointer %v)", ErrUnsupportedType, reflect.TypeOf(target))
	}
	return assign(v, rv.Elem(), "$")
}

func assign(v *Value, dst reflect.Value, path string) error {
	if v == nil {
		v = Null()
	}

	switch dst.Type() {
	case valuePtrType:
		dst.Set(reflect.ValueOf(v.Clone()))
		return nil
	case valueType:
		dst.Set(reflect.ValueOf(*v.Clone()))
		return nil
	}

	if s, ok := v.AsStr(); ok && dst.CanAddr() && dst.Addr().Type().Implements(textUnmarshalerType) {
		if err := dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("%w: %s at %s: %v", ErrUnsupportedType, dst.Type(), path, err)
		}
		return nil
	}

	switch dst.Kind() {
	case reflect.Ptr:
		if v.IsNull() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assign(v, dst.Elem(), path)
	case reflect.Interface:
		if dst.NumMethod() != 0 {
			return mismatch(v, dst, path)
		}
		if g := ToGo(v); g != nil {
			dst.Set(reflect.ValueOf(g))
		} else {
			dst.Set(reflect.Zero(dst.Type()))
		}
		return nil
	}

	if v.IsNull() {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	switch dst.Kind() {
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return mismatch(v, dst, path)
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.AsNumber()
		if !ok || n != math.Trunc(n) {
			return mismatch(v, dst, path)
		}
		if n < math.MinInt64 || n >= math.MaxInt64 || dst.OverflowInt(int64(n)) {
			return fmt.Errorf("%w: %s overflows %s at %s", ErrUnsupportedType, FormatNumber(n), dst.Type(), path)
		}
		dst.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := v.AsNumber()
		if !ok || n != math.Trunc(n) {
			return mismatch(v, dst, path)
		}
		if n < 0 || n >= math.MaxUint64 || dst.OverflowUint(uint64(n)) {
			return fmt.Errorf("%w: %s overflows %s at %s", ErrUnsupportedType, FormatNumber(n), dst.Type(), path)
		}
		dst.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		n, ok := v.AsNumber()
		if !ok {
			return mismatch(v, dst, path)
		}
		if dst.OverflowFloat(n) {
			return fmt.Errorf("%w: %s overflows %s at %s", ErrUnsupportedType, FormatNumber(n), dst.Type(), path)
		}
		dst.SetFloat(n)
	case reflect.String:
		s, ok := v.AsStr()
		if !ok {
			return mismatch(v, dst, path)
		}
		dst.SetString(s)
	case reflect.Slice:
		items, ok := v.AsArray()
		if !ok {
			return mismatch(v, dst, path)
		}
		s := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(item, s.Index(i), path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		dst.Set(s)
	case reflect.Array:
		items, ok := v.AsArray()
		if !ok {
			return mismatch(v, dst, path)
		}
		for i := 0; i < dst.Len(); i++ {
			if i >= len(items) {
				dst.Index(i).Set(reflect.Zero(dst.Type().Elem()))
				continue
			}
			if err := assign(items[i], dst.Index(i), path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case reflect.Map:
		return assignMap(v, dst, path)
	case reflect.Struct:
		obj, ok := v.AsObject()
		if !ok {
			return mismatch(v, dst, path)
		}
		for _, m := range obj.Members() {
			f := findField(dst, m.Key)
			if !f.IsValid() || !f.CanSet() {
				continue
			}
			if err := assign(m.Value, f, path+"."+m.Key); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %s at %s", ErrUnsupportedType, dst.Type(), path)
	}
	return nil
}

func assignMap(v *Value, dst reflect.Value, path string) error {
	t := dst.Type()
	if t.Key().Kind() != reflect.String {
		return fmt.Errorf("%w: map key must be string, got %s at %s", ErrUnsupportedType, t.Key(), path)
	}
	obj, ok := v.AsObject()
	if !ok {
		return mismatch(v, dst, path)
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMapWithSize(t, obj.Len()))
	}
	for _, m := range obj.Members() {
		elem := reflect.New(t.Elem()).Elem()
		if err := assign(m.Value, elem, path+"."+m.Key); err != nil {
			return err
		}
		dst.SetMapIndex(reflect.ValueOf(m.Key).Convert(t.Key()), elem)
	}
	return nil
}

func mismatch(v *Value, dst reflect.Value, path string) error {
	return fmt.Errorf("%w: cannot assign %s to %s at %s", ErrUnsupportedType, v.Kind(), dst.Type(), path)
}

// findField returns the field of strct named by a `toon` or `json` tag,
// or by a case-insensitive match of the Go field name. Fields of embedded
// structs are searched as well.
func findField(strct reflect.Value, name string) reflect.Value {
	t := strct.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tagName, _, skip := fieldTag(f)
		if skip {
			continue
		}
		if tagName == name {
			return strct.Field(i)
		}
		if tagName == "" && f.Anonymous {
			inner := strct.Field(i)
			if inner.Kind() == reflect.Ptr {
				if inner.Type().Elem().Kind() != reflect.Struct {
					continue
				}
				if inner.IsNil() {
					if !inner.CanSet() {
						continue
					}
					inner.Set(reflect.New(inner.Type().Elem()))
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				if found := findField(inner, name); found.IsValid() {
					return found
				}
			}
			continue
		}
		if tagName == "" && strings.EqualFold(f.Name, name) {
			return strct.Field(i)
		}
	}
	return reflect.Value{}
}
