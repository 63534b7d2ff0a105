package shelf_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shelf"
)

func TestToJSON_ReturnsText(t *testing.T) {
	ctx := context.Background()
	reg := newCounterRegistry()
	h := NewHolder()
	h.Name = "Pyjamas"

	s, err := reg.ToJSON(ctx, h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"0.2.0","name":"Pyjamas","a":{"version":"0.1.0","value":0},"b":1}`, s)
}

func TestFromJSON(t *testing.T) {
	ctx := context.Background()
	reg := newCounterRegistry()

	v, err := reg.FromJSON(ctx, HolderType, []byte(`{"version":"0.2.0","name":"n","a":{"version":"0.1.0","value":3},"b":"x"}`))
	require.NoError(t, err)
	h := v.(*Holder)
	assert.Equal(t, "n", h.Name)
	assert.Equal(t, &Counter{Value: 3}, h.A)
	assert.Equal(t, "x", h.B)
}

func TestFromJSON_RoundTripsThroughUpgrades(t *testing.T) {
	ctx := context.Background()
	reg := personRegistry()

	v, err := reg.FromJSON(ctx, PersonType, []byte(`{"version":"0.2.2","name":"tom"}`))
	require.NoError(t, err)
	assert.Equal(t, &Person{Name: "hello goodbye tom"}, v)

	s, err := reg.ToJSON(ctx, v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.2.3","name":"hello goodbye tom"}`, s)
}

func TestFromJSON_ParseError(t *testing.T) {
	ctx := context.Background()
	reg := newCounterRegistry()

	_, err := reg.FromJSON(ctx, CounterType, []byte(`{"value":`))
	iss, ok := shelf.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, shelf.CodeParseError, iss[0].Code)
	assert.Equal(t, "/", iss[0].Path)
}

func TestYAML_RoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := newCarRegistry()
	in := &Car{Model: "m", Engine: &Engine{Serial: "s"}}

	doc, err := reg.ToYAML(ctx, in)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "1.0.0")

	out, err := reg.FromYAML(ctx, CarType, doc)
	require.NoError(t, err)
	assert.Equal(t, "m", out.(*Car).Model)
	assert.Equal(t, "s", out.(*Car).Engine.Serial)
}

func TestFromYAML_UnquotedVersions(t *testing.T) {
	ctx := context.Background()
	reg := personRegistry()

	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"integer", "version: 1\nname: tom\n", "tom"},
		{"float", "version: 0.6\nname: tom\n", "hello tom"},
		{"string", "version: \"0.1.0\"\nname: tom\n", "hello goodbye tom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := reg.FromYAML(ctx, PersonType, []byte(tc.doc))
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.(*Person).Name)
		})
	}
}

func TestDecodeYAML_Normalizes(t *testing.T) {
	got, err := shelf.DecodeYAML([]byte("a:\n  - b: 1\n  - 2\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{map[string]any{"b": 1}, 2}}, got)

	_, err = shelf.DecodeYAML([]byte("a: [1"))
	iss, ok := shelf.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, shelf.CodeParseError, iss[0].Code)
}

type Wide struct {
	N int64 `json:"n"`
}

func TestFromJSON_Int64Bounds(t *testing.T) {
	ctx := context.Background()
	wideType := shelf.Define[Wide]("test.Wide", nil)
	reg := shelf.NewRegistry()
	reg.Register(wideType, "1.0.0", shelf.Fields{"n": shelf.Primitive})

	v, err := reg.FromJSON(ctx, wideType, []byte(`{"n":9007199254740992}`))
	require.NoError(t, err)
	assert.Equal(t, &Wide{N: 1 << 53}, v)

	// Rounds to 2^63 as a float64, one past the largest int64.
	_, err = reg.FromJSON(ctx, wideType, []byte(`{"n":9223372036854775807}`))
	iss, ok := shelf.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, shelf.CodeInvalidType, iss[0].Code)
	assert.Equal(t, "/n", iss[0].Path)
}
