package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"items": [1, 2]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items": [1, 2]}`, string(doc))

	// Scalars and arrays are valid documents too; only syntax is checked.
	doc, err = ParseDocument([]byte(`[1, 2, 3]`))
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2, 3]`, string(doc))

	doc, err = ParseDocument(nil)
	require.NoError(t, err)
	assert.Nil(t, doc)

	doc, err = ParseDocument([]byte{})
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestParseDocumentRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{`{"broken":`, `not json`, `{}}`} {
		_, err := ParseDocument([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidJSON, "input %q", raw)
	}
}

func TestEmptyDocument(t *testing.T) {
	assert.JSONEq(t, `{}`, string(EmptyDocument()))
}

func TestProductDisplayTitleFallsBack(t *testing.T) {
	assert.Equal(t, "Travel Insurance", Product{TitleProd: "Travel Insurance", ProductCode: "P1"}.DisplayTitle())
	assert.Equal(t, "Described", Product{ProductDescription: "Described", ProductCode: "P1"}.DisplayTitle())
	assert.Equal(t, "P1", Product{ProductCode: "P1"}.DisplayTitle())
}
