package source_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/verdict"
	"github.com/reoring/verdict/source"
)

func TestJSON_KeepsNumberLiterals(t *testing.T) {
	v, err := source.JSON([]byte(`{"n": 3, "f": 3.0, "big": 12345678901234567890}`))
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok, "expected object, got %T", v)
	assert.Equal(t, json.Number("3"), m["n"])
	assert.True(t, verdict.IsInt().Test(m["n"]))
	assert.False(t, verdict.IsInt().Test(m["f"]))
	assert.True(t, verdict.IsFloat().Test(m["f"]))
	assert.Equal(t, "12345678901234567890", m["big"].(json.Number).String())
}

func TestJSON_Errors(t *testing.T) {
	_, err := source.JSON([]byte(`{"a": 1} {"b": 2}`))
	assert.ErrorIs(t, err, source.ErrTrailingData)

	_, err = source.JSON([]byte(`{"a": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")

	_, err = source.JSON([]byte(`[1, 2, 3]`), source.WithMaxBytes(4))
	assert.ErrorIs(t, err, source.ErrTooLarge)

	v, err := source.JSON([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestJSONReader_MaxBytes(t *testing.T) {
	_, err := source.JSONReader(strings.NewReader(`"0123456789"`), source.WithMaxBytes(5))
	assert.True(t, errors.Is(err, source.ErrTooLarge))

	v, err := source.JSONReader(strings.NewReader(`["a"]`), source.WithMaxBytes(5))
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, v)

	v, err = source.JSONReader(strings.NewReader(` {"k": true} `))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": true}, v)
}

func TestYAML_Normalizes(t *testing.T) {
	doc := []byte(`
title: Hyperion
tags: [scifi, classic]
meta:
  pages: 482
  rating: 4.5
`)
	v, err := source.YAML(doc)
	require.NoError(t, err)

	m, ok := verdict.AsDict(v)
	require.True(t, ok)
	meta, _ := m.Lookup("meta")
	_, isDict := meta.(map[string]any)
	assert.True(t, isDict, "nested mappings should be map[string]any, got %T", meta)

	p := verdict.IsDictWhere(
		verdict.Required("title", verdict.IsStr()),
		verdict.Required("tags", verdict.IsListOf(verdict.IsStr())),
		verdict.Required("meta", verdict.IsDictWhere(
			verdict.Required("pages", verdict.IsInt()),
			verdict.Required("rating", verdict.IsFloat()),
		)),
	)
	assert.True(t, p.Test(v), p.Explain(v).Summary())
}

func TestYAMLDocuments(t *testing.T) {
	docs, err := source.YAMLDocuments([]byte("a: 1\n---\nb: 2\n---\n- x\n"))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, map[string]any{"a": 1}, docs[0])
	assert.Equal(t, []any{"x"}, docs[2])

	first, err := source.YAML([]byte("a: 1\n---\nb: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, first)

	empty, err := source.YAML(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = source.YAML([]byte("a: [1, 2"))
	assert.Error(t, err)

	_, err = source.YAML([]byte("a: 1"), source.WithMaxBytes(2))
	assert.ErrorIs(t, err, source.ErrTooLarge)
}
