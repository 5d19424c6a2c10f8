package toon

import (
	"math"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONKeepsOrder(t *testing.T) {
	v, err := FromJSON([]byte(`{"b": 1, "a": [true, null, "x"], "c": {"d": 1.5}}`))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a", "c"}, obj.Keys())
}

func TestFromJSONRejectsToonSyntax(t *testing.T) {
	for _, in := range []string{`{a: 1}`, `[x]`, "a: 1", `{"a": 1,}`, ""} {
		_, err := FromJSON([]byte(in))
		require.Error(t, err, "FromJSON(%q)", in)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	}
}

func TestToJSON(t *testing.T) {
	v := Obj(
		Member{"b", Number(1)},
		Member{"a", Array(Bool(true), Null(), Str("x"))},
		Member{"c", Obj(Member{"d", Number(1.5)})},
		Member{"html", Str("<a href=\"x\">\n")},
	)
	out, err := ToJSON(v)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,null,"x"],"c":{"d":1.5},"html":"<a href=\"x\">\n"}`, string(out))
}

func TestToJSONNonFinite(t *testing.T) {
	for _, n := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ToJSON(Array(Number(n)))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSerialization)
	}
}

func TestToJSONIndent(t *testing.T) {
	v := Obj(Member{"a", Array(Number(1), Number(2))})
	out, err := ToJSONIndent(v, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"a\": [\n    1,")

	back, err := FromJSON(out)
	require.NoError(t, err)
	assert.True(t, v.Equal(back))
}

func TestValueJSONMarshaler(t *testing.T) {
	type envelope struct {
		ID   int    `json:"id"`
		Body *Value `json:"body"`
	}

	out, err := gojson.Marshal(envelope{ID: 1, Body: mustDecode(t, "{kind: ping, seq: [1, 2]}")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 1, "body": {"kind": "ping", "seq": [1, 2]}}`, string(out))

	var env envelope
	require.NoError(t, gojson.Unmarshal([]byte(`{"id": 2, "body": {"z": null, "a": "b"}}`), &env))
	assert.Equal(t, 2, env.ID)
	require.NotNil(t, env.Body)
	obj, ok := env.Body.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a"}, obj.Keys())
}

func TestJSONBridgeRoundTrip(t *testing.T) {
	toonText := "users: [id, name]\n1, Alice\n2, \"Bob Smith\"\nmeta: {total: 2, next: null}"
	v := mustDecode(t, toonText)

	js, err := ToJSON(v)
	require.NoError(t, err)
	back, err := FromJSON(js)
	require.NoError(t, err)
	assert.True(t, v.Equal(back))
	assert.Equal(t, toonText, mustEncode(t, back))
}
