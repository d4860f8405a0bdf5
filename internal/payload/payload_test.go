package payload

import (
	"testing"

	"textdrop/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRaw(t *testing.T) {
	docs, err := Decode("hello\nworld", FormatRaw)
	require.NoError(t, err)
	assert.Equal(t, []any{"hello\nworld"}, docs)
}

func TestDecodeJSONStream(t *testing.T) {
	// two dropped files, joined with a newline
	docs, err := Decode(`{"name":"a"}`+"\n"+`[1,2]`, FormatJSON)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, map[string]any{"name": "a"}, docs[0])
	assert.Len(t, docs[1], 2)
}

func TestDecodeYAMLDocuments(t *testing.T) {
	docs, err := Decode("name: a\n---\nname: b\n", FormatYAML)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, map[string]any{"name": "a"}, docs[0])
	assert.Equal(t, map[string]any{"name": "b"}, docs[1])
}

func TestDecodeEmpty(t *testing.T) {
	docs, err := Decode("", FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(`{"name":`, FormatJSON)
	require.Error(t, err)
	assert.Equal(t, errors.DecodeFailed, errors.KindOf(err))

	_, err = Decode("a: [1, 2", FormatYAML)
	require.Error(t, err)
	assert.Equal(t, errors.DecodeFailed, errors.KindOf(err))

	_, err = Decode("x", "toml")
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestRender(t *testing.T) {
	out, err := Render(`{"b":1}`+"\n"+`{"c":2}`, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1\n}\n{\n  \"c\": 2\n}\n", out)

	out, err = Render("a: 1\n---\nb: 2\n", FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n---\nb: 2\n", out)

	out, err = Render("  untouched  ", FormatRaw)
	require.NoError(t, err)
	assert.Equal(t, "  untouched  ", out)
}
