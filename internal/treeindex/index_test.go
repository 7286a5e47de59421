package treeindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/label"
)

func mustParse(t *testing.T, s string) *bracket.Node {
	t.Helper()
	n, err := bracket.Parse(s)
	require.NoError(t, err)
	return n
}

func TestBuildBasicSizeParentChildren(t *testing.T) {
	root := mustParse(t, "{a{b}{c}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic)

	require.Equal(t, 3, idx.Size)
	rootPostl := idx.Size - 1
	assert.Equal(t, 3, idx.PostlToSize[rootPostl])
	assert.Equal(t, -1, idx.PostlToParent[rootPostl])
	assert.Len(t, idx.PostlToChildren[rootPostl], 2)

	for postl, parent := range idx.PostlToParent {
		if postl == rootPostl {
			continue
		}
		assert.Equal(t, rootPostl, parent)
	}
}

func TestBuildLldLeafIsSelf(t *testing.T) {
	root := mustParse(t, "{a{b}{c}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic)
	for postl, children := range idx.PostlToChildren {
		if len(children) == 0 {
			assert.Equal(t, postl, idx.PostlToLld[postl])
		}
	}
}

func TestBuildPrePostRoundTrip(t *testing.T) {
	root := mustParse(t, "{a{b{d}{e}}{c}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapPrePost)
	for postl, pre := range idx.PostlToPrel {
		assert.Equal(t, postl, idx.PrelToPostl[pre])
	}
	for pre, prer := range idx.PrelToPrer {
		assert.Equal(t, pre, idx.PrerToPrel[prer])
	}
	for i, lld := range idx.PostlToLld {
		assert.LessOrEqual(t, lld, i)
	}
}

func TestBuildKeyrootsContainsRoot(t *testing.T) {
	root := mustParse(t, "{a{b{d}{e}}{c}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapKeyroot)
	rootPostl := idx.Size - 1
	assert.Contains(t, idx.ListKr, rootPostl)
	for _, kr := range idx.ListKr {
		assert.GreaterOrEqual(t, idx.PostlToKrAncestor[kr], kr)
	}
}

func TestBuildKeyrootsExcludesLeftmostChild(t *testing.T) {
	root := mustParse(t, "{a{b}{c}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapKeyroot)
	rootPostl := idx.Size - 1
	leftmost := idx.PostlToChildren[rootPostl][0]
	assert.NotContains(t, idx.ListKr, leftmost)
}

func TestBuildLchAndSubtreeMaxDepth(t *testing.T) {
	root := mustParse(t, "{a{b{d}}{c}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapLch)
	rootPostl := idx.Size - 1
	assert.NotEqual(t, -1, idx.PostlToLch[rootPostl])
	assert.Equal(t, 2, idx.PostlToSubtreeMaxDepth[rootPostl])
}

func TestBuildInvertedListSortedAscending(t *testing.T) {
	root := mustParse(t, "{a{a}{a}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapInvertedList)
	aID, ok := dict.Lookup("a")
	require.True(t, ok)
	list := idx.InvertedList[aID]
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1], list[i])
	}
}

func TestBuildJSONTypeClassification(t *testing.T) {
	// Built as a literal: bracket notation ends a label at '{' or '}',
	// so an object label "{}" cannot be written as bracket text.
	root := &bracket.Node{Label: "{}", Children: []*bracket.Node{
		{Label: "k1:", Children: []*bracket.Node{{Label: "v1"}}},
	}}
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapJSON)
	rootPostl := idx.Size - 1
	assert.Equal(t, bracket.KindObject, idx.PostlToType[rootPostl])
}

func TestBuildFavorableChildPicksDeepest(t *testing.T) {
	root := mustParse(t, "{a{b}{c{d{e}}}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapLch|CapJOFilter)
	rootPostl := idx.Size - 1
	fav := idx.PostlToFavChild[rootPostl]
	require.NotEqual(t, -1, fav)
	assert.Equal(t, idx.PostlToSubtreeMaxDepth[rootPostl], idx.PostlToSubtreeMaxDepth[fav])
}

func TestBuildAPTEDCostSums(t *testing.T) {
	root := mustParse(t, "{a{b}{c}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapAPTED)

	// Keyroots of a(b,c) are {a, c} (sizes 3+1), reversed keyroots
	// {a, b}; the all-paths sum folds to 3*6/2 - (3+1+1).
	rootPre := 0
	assert.Equal(t, int64(4), idx.PrelToCostLeft[rootPre])
	assert.Equal(t, int64(4), idx.PrelToCostRight[rootPre])
	assert.Equal(t, int64(4), idx.PrelToCostAll[rootPre])
	for pre := 1; pre < idx.Size; pre++ {
		assert.Equal(t, int64(1), idx.PrelToCostLeft[pre], "leaf")
		assert.Equal(t, int64(1), idx.PrelToCostRight[pre], "leaf")
		assert.Equal(t, int64(1), idx.PrelToCostAll[pre], "leaf")
	}
}

func TestBuildLnAndPostrRld(t *testing.T) {
	root := mustParse(t, "{a{b}{c}}")
	dict := label.New()
	idx := Build(root, dict, CapBasic|CapPrePost)

	// Preorder a,b,c: no leaf precedes a or b; b precedes c.
	assert.Equal(t, []int{-1, -1, 1}, idx.PrelToLn)
	// Mirror postorder c,b,a: rld(a) is c, at mirror-postorder 0.
	assert.Equal(t, []int{0, 1, 0}, idx.PostrToRld)

	for postr, pre := range idx.PostrToPrel {
		assert.Equal(t, idx.PrelToLabelID[pre], idx.PostrToLabelID[postr])
	}
}

func TestChainTreeDoesNotPanic(t *testing.T) {
	s := "{a"
	for i := 0; i < 2000; i++ {
		s += "{a"
	}
	for i := 0; i < 2001; i++ {
		s += "}"
	}
	root := mustParse(t, s)
	dict := label.New()
	assert.NotPanics(t, func() {
		Build(root, dict, CapAll)
	})
}
