package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treesimjoin/simjoin/pkg/apperr"
)

func TestParseSimple(t *testing.T) {
	n, err := Parse("{a{b}{c}}")
	require.NoError(t, err)
	assert.Equal(t, "a", n.Label)
	require.Len(t, n.Children, 2)
	assert.Equal(t, "b", n.Children[0].Label)
	assert.Equal(t, "c", n.Children[1].Label)
}

func TestParseSingleton(t *testing.T) {
	n, err := Parse("{a}")
	require.NoError(t, err)
	assert.Equal(t, "a", n.Label)
	assert.Empty(t, n.Children)
}

func TestParseNested(t *testing.T) {
	n, err := Parse("{a{b{c}}}")
	require.NoError(t, err)
	assert.Equal(t, "a", n.Label)
	require.Len(t, n.Children, 1)
	assert.Equal(t, "b", n.Children[0].Label)
	require.Len(t, n.Children[0].Children, 1)
	assert.Equal(t, "c", n.Children[0].Children[0].Label)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestParseMissingCloseBrace(t *testing.T) {
	_, err := Parse("{a{b}")
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestParseTrailingData(t *testing.T) {
	_, err := Parse("{a}{b}")
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestSize(t *testing.T) {
	n, err := Parse("{a{b}{c{d}}}")
	require.NoError(t, err)
	assert.Equal(t, 4, n.Size())
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"{a}", "{a{b}{c}}", "{a{b{c}}}"} {
		n, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, n.String())
	}
}

func TestClassifyJSON(t *testing.T) {
	assert.Equal(t, KindObject, ClassifyJSON("{}"))
	assert.Equal(t, KindArray, ClassifyJSON("[]"))
	assert.Equal(t, KindKey, ClassifyJSON("name:"))
	assert.Equal(t, KindValue, ClassifyJSON("hello"))
}
