package toon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFromYAML(t *testing.T) {
	doc := `
name: Alice
age: 30
ratio: 0.5
active: true
nothing: ~
tags: [a, b]
quoted: "true"
`
	v, err := FromYAML([]byte(doc))
	require.NoError(t, err)

	want := Obj(
		Member{"name", Str("Alice")},
		Member{"age", Number(30)},
		Member{"ratio", Number(0.5)},
		Member{"active", Bool(true)},
		Member{"nothing", Null()},
		Member{"tags", Array(Str("a"), Str("b"))},
		Member{"quoted", Str("true")},
	)
	assert.True(t, want.Equal(v), "got %s", v)

	obj, _ := v.AsObject()
	assert.Equal(t, []string{"name", "age", "ratio", "active", "nothing", "tags", "quoted"}, obj.Keys())
}

func TestFromYAMLAliases(t *testing.T) {
	v, err := FromYAML([]byte("base: &b {x: 1}\ncopy: *b\n"))
	require.NoError(t, err)
	obj, _ := v.AsObject()
	base, _ := obj.Get("base")
	cp, _ := obj.Get("copy")
	assert.True(t, base.Equal(cp))
	assert.NotSame(t, base, cp)
}

func TestFromYAMLEmpty(t *testing.T) {
	v, err := FromYAML(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestFromYAMLErrors(t *testing.T) {
	_, err := FromYAML([]byte("a: [1, 2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = FromYAML([]byte("? [a, b]\n: 1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestYAMLRoundTrip(t *testing.T) {
	v := Obj(
		Member{"name", Str("Alice")},
		Member{"reserved", Str("null")},
		Member{"numbers", Array(Number(3), Number(-2.5), Number(1e21), Number(math.Inf(1)))},
		Member{"empty", Array()},
		Member{"nested", Obj(Member{"inner", Obj()}, Member{"flag", Bool(false)})},
		Member{"missing", Null()},
	)
	out, err := ToYAML(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: Alice\n")

	back, err := FromYAML(out)
	require.NoError(t, err)
	assert.True(t, v.Equal(back), "got %s from:\n%s", back, out)
}

func TestValueYAMLMarshaler(t *testing.T) {
	type envelope struct {
		ID   int    `yaml:"id"`
		Body *Value `yaml:"body"`
	}

	out, err := yaml.Marshal(envelope{ID: 1, Body: mustDecode(t, "{kind: ping}")})
	require.NoError(t, err)
	assert.Equal(t, "id: 1\nbody:\n    kind: ping\n", string(out))

	var env envelope
	require.NoError(t, yaml.Unmarshal(out, &env))
	assert.Equal(t, 1, env.ID)
	assert.True(t, Obj(Member{"kind", Str("ping")}).Equal(env.Body))
}
