package join

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/testutil"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// joinCorpus mixes near-duplicates (within one or two edits), a chain,
// a star, and label-disjoint outliers.
var joinCorpus = []string{
	"{a{b}{c}}",
	"{a{b}{c}}",
	"{a{b}{d}}",
	"{a{b}{c}{d}}",
	"{a{b{c}}}",
	"{x{y}{z}}",
	"{a{b}{c}{d}{e}{f}}",
	"{q}",
}

func buildCorpus(t *testing.T, brackets []string) []*treeindex.Index {
	t.Helper()
	return testutil.BuildCorpus(t, brackets, treeindex.CapAll)
}

func pairSet(results []JoinResultElement) map[[2]int]bool {
	set := make(map[[2]int]bool)
	for _, r := range results {
		set[[2]int{r.TreeID1, r.TreeID2}] = true
	}
	return set
}

func referencePairs(t *testing.T, trees []*treeindex.Index, tau int) map[[2]int]bool {
	t.Helper()
	model := costmodel.Unit{}
	zs := ted.NewZhangShasha()
	set := make(map[[2]int]bool)
	for i := 0; i < len(trees); i++ {
		for j := i + 1; j < len(trees); j++ {
			if zs.TED(trees[i], trees[j], model) <= float64(tau) {
				set[[2]int{i, j}] = true
			}
		}
	}
	return set
}

func assertJoinMatchesReference(t *testing.T, results []JoinResultElement, want map[[2]int]bool, tau int) {
	t.Helper()
	assert.Equal(t, want, pairSet(results))
	for _, r := range results {
		assert.Less(t, r.TreeID1, r.TreeID2)
		assert.LessOrEqual(t, r.Distance, float64(tau))
	}
}

func TestNaiveJoinMatchesReference(t *testing.T) {
	for _, tau := range []int{0, 1, 2, 20} {
		trees := buildCorpus(t, joinCorpus)
		want := referencePairs(t, trees, tau)
		d := NewNaiveJoin()
		got := d.Execute(context.Background(), trees, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), tau)
		assertJoinMatchesReference(t, got, want, tau)
	}
}

func TestTJoinMatchesNaive(t *testing.T) {
	for _, tau := range []int{0, 1, 2, 20} {
		trees := buildCorpus(t, joinCorpus)
		want := referencePairs(t, trees, tau)
		d := NewTJoinDriver(tau + 1)
		got := d.Execute(context.Background(), trees, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), tau)
		assertJoinMatchesReference(t, got, want, tau)
	}
}

func TestTangJoinMatchesNaive(t *testing.T) {
	for _, tau := range []int{0, 1, 2, 20} {
		trees := buildCorpus(t, joinCorpus)
		want := referencePairs(t, trees, tau)
		d := NewTangDriver()
		got := d.Execute(context.Background(), trees, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), tau)
		assertJoinMatchesReference(t, got, want, tau)
	}
}

func TestGuhaJoinMatchesNaive(t *testing.T) {
	for _, variant := range []GuhaVariant{GuhaRSB, GuhaRSC} {
		for _, tau := range []int{1, 2} {
			trees := buildCorpus(t, joinCorpus)
			want := referencePairs(t, trees, tau)
			d := NewGuhaDriver(variant, 42)
			got := d.Execute(context.Background(), trees, costmodel.Unit{},
				ted.NewTouzet(ted.TouzetKRSet), ted.NewConstrained(), ted.NewAPTED(), tau)
			assertJoinMatchesReference(t, got, want, tau)
		}
	}
}

func TestJoinTauZeroEmitsOnlyDuplicates(t *testing.T) {
	trees := buildCorpus(t, joinCorpus)
	d := NewNaiveJoin()
	got := d.Execute(context.Background(), trees, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), 0)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].TreeID1)
	assert.Equal(t, 1, got[0].TreeID2)
	assert.Zero(t, got[0].Distance)
}

func TestJoinHugeTauEmitsEveryPair(t *testing.T) {
	trees := buildCorpus(t, joinCorpus)
	n := len(trees)
	d := NewNaiveJoin()
	got := d.Execute(context.Background(), trees, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), 100)
	assert.Len(t, got, n*(n-1)/2)
}

func TestIndexedLookupMatchesScan(t *testing.T) {
	dict := label.New()
	corpus := testutil.BuildCorpusWithDict(t, joinCorpus, dict, treeindex.CapAll)
	query := testutil.BuildIndex(t, "{a{b}{c}}", dict, treeindex.CapAll)

	for _, tau := range []int{0, 1, 2} {
		scan := NewScanLookup().Execute(context.Background(), query, corpus, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), tau)

		lookup := NewIndexedLookup(corpus)
		indexed := lookup.Execute(context.Background(), query, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), tau)

		scanIDs := make(map[int]bool)
		for _, r := range scan {
			scanIDs[r.TreeID2] = true
		}
		gotIDs := make(map[int]bool)
		for _, r := range indexed {
			gotIDs[r.TreeID2] = true
		}
		assert.Equal(t, scanIDs, gotIDs, "tau=%d", tau)
	}
}

func TestIndexedLookupUpperBoundStillComplete(t *testing.T) {
	dict := label.New()
	corpus := testutil.BuildCorpusWithDict(t, joinCorpus, dict, treeindex.CapAll)
	query := testutil.BuildIndex(t, "{a{b}{c}}", dict, treeindex.CapAll)

	tau := 2
	scan := NewScanLookup().Execute(context.Background(), query, corpus, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), tau)

	lookup := NewIndexedLookup(corpus)
	lookup.UseUpperBound = true
	lookup.LGMWindow = tau + 1
	indexed := lookup.Execute(context.Background(), query, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), tau)

	scanIDs := make(map[int]bool)
	for _, r := range scan {
		scanIDs[r.TreeID2] = true
	}
	gotIDs := make(map[int]bool)
	for _, r := range indexed {
		gotIDs[r.TreeID2] = true
	}
	assert.Equal(t, scanIDs, gotIDs)
}

func TestDriverCountersPopulated(t *testing.T) {
	trees := buildCorpus(t, joinCorpus)
	d := NewTJoinDriver(3)
	d.Execute(context.Background(), trees, costmodel.Unit{}, ted.NewTouzet(ted.TouzetKRSet), 2)
	assert.Greater(t, d.GetVerificationCount()+d.GetUTResultPairs(), uint64(0))
	assert.Greater(t, d.GetSubproblemCount(), uint64(0))

	d.Reset()
	assert.Zero(t, d.GetVerificationCount())
	assert.Zero(t, d.GetSubproblemCount())
}
