package toon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	null := Null()
	assert.True(t, null.IsNull())
	_, ok := null.AsBool()
	assert.False(t, ok)

	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	n, ok := Number(42).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 42.0, n)

	s, ok := Str("test").AsStr()
	require.True(t, ok)
	assert.Equal(t, "test", s)

	arr, ok := Array(Number(1)).AsArray()
	require.True(t, ok)
	assert.Len(t, arr, 1)

	obj, ok := Obj(Member{"key", Str("value")}).AsObject()
	require.True(t, ok)
	assert.Equal(t, 1, obj.Len())

	_, ok = Str("x").AsNumber()
	assert.False(t, ok)
	_, ok = Number(1).AsStr()
	assert.False(t, ok)
	_, ok = Null().AsArray()
	assert.False(t, ok)
	_, ok = Array().AsObject()
	assert.False(t, ok)
}

func TestNilValueIsNull(t *testing.T) {
	var v *Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.IsPrimitive())
	assert.Equal(t, "null", v.String())
	_, ok := v.AsObject()
	assert.False(t, ok)
	assert.True(t, v.Equal(Null()))
}

func TestIsPrimitive(t *testing.T) {
	for _, v := range []*Value{Null(), Bool(false), Number(1.5), Str("")} {
		assert.True(t, v.IsPrimitive(), v.Kind().String())
	}
	assert.False(t, Array().IsPrimitive())
	assert.False(t, Obj().IsPrimitive())
}

func TestAsArrayMut(t *testing.T) {
	v := Array(Number(1))
	items, ok := v.AsArrayMut()
	require.True(t, ok)
	*items = append(*items, Number(2))

	got, _ := v.AsArray()
	assert.Len(t, got, 2)

	_, ok = Str("x").AsArrayMut()
	assert.False(t, ok)
}

func TestValueEqual(t *testing.T) {
	a := Obj(Member{"a", Number(1)}, Member{"b", Array(Str("x"), Null())})
	b := Obj(Member{"b", Array(Str("x"), Null())}, Member{"a", Number(1)})
	assert.True(t, a.Equal(b), "object key order must not matter")

	c := Obj(Member{"a", Number(1)}, Member{"b", Array(Null(), Str("x"))})
	assert.False(t, a.Equal(c), "array order matters")

	assert.False(t, Number(1).Equal(Str("1")))
	assert.False(t, Obj(Member{"a", Null()}).Equal(Obj()))
	assert.True(t, Int(3).Equal(Number(3)))
}

func TestValueClone(t *testing.T) {
	orig := Obj(Member{"list", Array(Number(1))})
	cp := orig.Clone()
	require.True(t, orig.Equal(cp))

	obj, _ := cp.AsObject()
	list, _ := obj.Get("list")
	items, _ := list.AsArrayMut()
	*items = append(*items, Number(2))

	assert.False(t, orig.Equal(cp))
}

func TestValueString(t *testing.T) {
	tests := []struct {
		value *Value
		want  string
	}{
		{Null(), "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(42), "42"},
		{Number(3.14), "3.14"},
		{Str("hello"), `"hello"`},
		{Str(`qu"ote`), `"qu\"ote"`},
		{Str("a<b"), `"a<b"`},
		{Array(Number(1), Number(2), Number(3)), "[1, 2, 3]"},
		{Obj(Member{"a", Number(1)}, Member{"b", Number(2)}), `{"a": 1, "b": 2}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.value.String())
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestObjectOrdering(t *testing.T) {
	o := NewObject()
	o.Set("z", Number(1))
	o.Set("a", Number(2))
	o.Set("m", Number(3))
	o.Set("z", Number(4))

	assert.Equal(t, []string{"z", "a", "m"}, o.Keys())
	v, ok := o.Get("z")
	require.True(t, ok)
	assert.True(t, v.Equal(Number(4)))

	assert.True(t, o.Delete("a"))
	assert.False(t, o.Delete("a"))
	assert.Equal(t, []string{"z", "m"}, o.Keys())
	v, ok = o.Get("m")
	require.True(t, ok)
	assert.True(t, v.Equal(Number(3)))

	var keys []string
	for k := range o.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"z", "m"}, keys)
}

func TestObjectSetNil(t *testing.T) {
	o := NewObject()
	o.Set("k", nil)
	v, ok := o.Get("k")
	require.True(t, ok)
	assert.True(t, v.IsNull())
	assert.True(t, o.Has("k"))
	assert.False(t, o.Has("missing"))
}

func TestDefaultEncodeOptions(t *testing.T) {
	opts := DefaultEncodeOptions()
	assert.Equal(t, 2, opts.Indent)
	assert.False(t, opts.Pretty)
	assert.False(t, opts.EscapeNonASCII)
}
