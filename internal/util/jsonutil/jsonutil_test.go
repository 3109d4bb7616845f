package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"a": "<b>&"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"<b>&"}`, string(b))

	b, err = MarshalNoEscapeIndent(map[string]int{"a": 1}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(b))
}

func TestUnmarshalFlex(t *testing.T) {
	type rec struct {
		A int `json:"a"`
	}
	cases := map[string]string{
		"plain":         `{"a":1}`,
		"fenced":        "```json\n{\"a\":1}\n```",
		"bare fence":    "```\n{\"a\":1}```",
		"string":        `"{\"a\":1}"`,
		"fenced string": "\"```json\\n{\\\"a\\\":1}\\n```\"",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			var r rec
			require.NoError(t, UnmarshalFlex([]byte(in), &r))
			assert.Equal(t, 1, r.A)
		})
	}

	var r rec
	assert.Error(t, UnmarshalFlex([]byte(`{"a":`), &r))
}

func TestDecodeObject(t *testing.T) {
	var m map[string]any
	require.NoError(t, DecodeObject([]byte(` {"items":[]} `), &m))
	assert.ErrorIs(t, DecodeObject([]byte(`[1]`), &m), ErrNotObject)
	assert.ErrorIs(t, DecodeObject([]byte(``), &m), ErrNotObject)
	assert.Error(t, DecodeObject([]byte(`{"a":1} {"b":2}`), &m))
	assert.Error(t, DecodeObject([]byte(`{"a":`), &m))
}
