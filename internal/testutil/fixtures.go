// Package testutil provides bracket-tree fixtures shared by tests
// across the engine packages.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// MustParse parses a bracket-notation tree, failing the test on a
// malformed string.
func MustParse(t *testing.T, s string) *bracket.Node {
	t.Helper()
	root, err := bracket.Parse(s)
	require.NoError(t, err, "bracket fixture %q", s)
	return root
}

// BuildIndex parses s and builds its index against dict with caps.
func BuildIndex(t *testing.T, s string, dict *label.Dictionary, caps treeindex.Capability) *treeindex.Index {
	t.Helper()
	return treeindex.Build(MustParse(t, s), dict, caps)
}

// BuildCorpus builds one index per bracket string, sharing a single
// fresh label dictionary, the way a join invocation indexes its input.
func BuildCorpus(t *testing.T, brackets []string, caps treeindex.Capability) []*treeindex.Index {
	t.Helper()
	dict := label.New()
	return BuildCorpusWithDict(t, brackets, dict, caps)
}

// BuildCorpusWithDict is BuildCorpus against a caller-owned dictionary,
// for tests that index a query tree into the same label space
// afterwards.
func BuildCorpusWithDict(t *testing.T, brackets []string, dict *label.Dictionary, caps treeindex.Capability) []*treeindex.Index {
	t.Helper()
	out := make([]*treeindex.Index, len(brackets))
	for i, s := range brackets {
		out[i] = treeindex.Build(MustParse(t, s), dict, caps)
	}
	return out
}
