package ted

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

func buildPair(t *testing.T, s1, s2 string) (*treeindex.Index, *treeindex.Index) {
	t.Helper()
	r1, err := bracket.Parse(s1)
	require.NoError(t, err)
	r2, err := bracket.Parse(s2)
	require.NoError(t, err)
	dict := label.New()
	return treeindex.Build(r1, dict, treeindex.CapAll), treeindex.Build(r2, dict, treeindex.CapAll)
}

var pairs = []struct {
	name string
	a, b string
}{
	{"identical", "{a{b}{c}}", "{a{b}{c}}"},
	{"one-rename", "{a{b}{c}}", "{a{b}{x}}"},
	{"one-insert", "{a{b}{c}}", "{a{b}{c}{d}}"},
	{"one-delete", "{a{b}{c}{d}}", "{a{b}{c}}"},
	{"disjoint-labels", "{a{b}}", "{x{y}}"},
	{"different-shape", "{a{b{c}}}", "{a{b}{c}}"},
	{"chain", "{a{b{c{d}}}}", "{a{b{c{d{e}}}}}"},
}

func TestZhangShashaIdentityIsZero(t *testing.T) {
	model := costmodel.Unit{}
	for _, p := range pairs {
		t1, t2 := buildPair(t, p.a, p.a)
		k := NewZhangShasha()
		assert.Zero(t, k.TED(t1, t2, model), p.name)
	}
}

func TestZhangShashaSymmetric(t *testing.T) {
	model := costmodel.Unit{}
	for _, p := range pairs {
		t1, t2 := buildPair(t, p.a, p.b)
		t2r, t1r := buildPair(t, p.b, p.a)
		k := NewZhangShasha()
		d1 := k.TED(t1, t2, model)
		d2 := k.TED(t1r, t2r, model)
		assert.Equal(t, d1, d2, p.name)
	}
}

func TestKernelsAgreeWithZhangShasha(t *testing.T) {
	model := costmodel.Unit{}
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			t1, t2 := buildPair(t, p.a, p.b)
			want := NewZhangShasha().TED(t1, t2, model)

			t1a, t2a := buildPair(t, p.a, p.b)
			assert.Equal(t, want, NewAPTED().TED(t1a, t2a, model), "apted")

			t1c, t2c := buildPair(t, p.a, p.b)
			assert.Equal(t, want, NewConstrained().TED(t1c, t2c, model), "cted")

			t1t, t2t := buildPair(t, p.a, p.b)
			assert.Equal(t, want, NewTouzet(TouzetKRSet).TED(t1t, t2t, model), "touzet")
		})
	}
}

func TestTouzetTedKMatchesUnboundedWhenKLargeEnough(t *testing.T) {
	model := costmodel.Unit{}
	for _, p := range pairs {
		t1, t2 := buildPair(t, p.a, p.b)
		full := NewZhangShasha().TED(t1, t2, model)

		t1k, t2k := buildPair(t, p.a, p.b)
		k := NewTouzet(TouzetKRSet)
		bounded := k.TedK(t1k, t2k, model, t1k.Size+t2k.Size)
		assert.Equal(t, full, bounded, p.name)
	}
}

func TestTouzetTedKPrunesBelowTrueDistance(t *testing.T) {
	t1, t2 := buildPair(t, "{a{b}{c}}", "{x{y}{z}}")
	model := costmodel.Unit{}
	full := NewZhangShasha().TED(t1, t2, model)
	require.Greater(t, full, 1.0)

	t1k, t2k := buildPair(t, "{a{b}{c}}", "{x{y}{z}}")
	k := NewTouzet(TouzetKRSet)
	bounded := k.TedK(t1k, t2k, model, 1)
	assert.Greater(t, bounded, 1.0, "pruned result must still certify ted > k")
}

func TestKnownDistances(t *testing.T) {
	model := costmodel.Unit{}
	cases := []struct {
		a, b string
		want float64
	}{
		{"{a{b}{c}}", "{a{b}{c}}", 0},
		{"{a{b}{c}}", "{a{b}{d}}", 1},
		{"{a{b{c}}}", "{a{c}}", 1},
		// Ordered trees: reversing three children costs two renames
		// (b->d, d->b with c fixed); no cheaper mapping preserves order.
		{"{a{b}{c}{d}}", "{a{d}{c}{b}}", 2},
	}
	for _, c := range cases {
		t1, t2 := buildPair(t, c.a, c.b)
		assert.Equal(t, c.want, NewZhangShasha().TED(t1, t2, model), "zs %s vs %s", c.a, c.b)

		t1a, t2a := buildPair(t, c.a, c.b)
		assert.Equal(t, c.want, NewAPTED().TED(t1a, t2a, model), "apted %s vs %s", c.a, c.b)
	}
}

func TestEmptyTreeCostsWholeOtherTree(t *testing.T) {
	model := costmodel.Unit{}
	empty := &treeindex.Index{}
	dict := label.New()
	root, err := bracket.Parse("{a{b}{c}}")
	require.NoError(t, err)
	full := treeindex.Build(root, dict, treeindex.CapAll)

	assert.Equal(t, 3.0, NewZhangShasha().TED(empty, full, model))
	assert.Equal(t, 3.0, NewZhangShasha().TED(full, empty, model))
	assert.Equal(t, 3.0, NewAPTED().TED(empty, full, model))
	assert.Equal(t, 3.0, NewConstrained().TED(full, empty, model))
}

func TestSingletonTreesCostOneRename(t *testing.T) {
	model := costmodel.Unit{}
	t1, t2 := buildPair(t, "{a}", "{b}")
	assert.Equal(t, 1.0, NewZhangShasha().TED(t1, t2, model))
	t1a, t2a := buildPair(t, "{a}", "{b}")
	assert.Equal(t, 1.0, NewAPTED().TED(t1a, t2a, model))
}

func TestTouzetTedKZeroDistinguishesIdentity(t *testing.T) {
	model := costmodel.Unit{}
	same1, same2 := buildPair(t, "{a{b}{c}}", "{a{b}{c}}")
	assert.Zero(t, NewTouzet(TouzetKRSet).TedK(same1, same2, model, 0))

	diff1, diff2 := buildPair(t, "{a{b}{c}}", "{a{b}{d}}")
	assert.Greater(t, NewTouzet(TouzetKRSet).TedK(diff1, diff2, model, 0), 0.0)
}

func TestTouzetVariantsAgree(t *testing.T) {
	model := costmodel.Unit{}
	for _, p := range pairs {
		want := -1.0
		for _, v := range []TouzetVariant{TouzetBaseline, TouzetDepthPruning, TouzetKRSet} {
			t1, t2 := buildPair(t, p.a, p.b)
			got := NewTouzet(v).TED(t1, t2, model)
			if want < 0 {
				want = got
				continue
			}
			assert.Equal(t, want, got, "%s variant %d", p.name, v)
		}
	}
}

func TestSubproblemCountsAreNonNegativeAndReset(t *testing.T) {
	t1, t2 := buildPair(t, "{a{b}{c}}", "{a{b}{x}}")
	model := costmodel.Unit{}
	k := NewZhangShasha()
	k.TED(t1, t2, model)
	assert.Greater(t, k.GetSubproblemCount(), uint64(0))
	k.Reset()
	assert.Zero(t, k.GetSubproblemCount())
}

func TestTriangleInequalityHoldsForZhangShasha(t *testing.T) {
	model := costmodel.Unit{}
	k := NewZhangShasha()

	ab1, ab2 := buildPair(t, "{a{b}{c}}", "{a{b}{c}{d}}")
	ab := k.TED(ab1, ab2, model)

	ac1, ac2 := buildPair(t, "{a{b}{c}}", "{x{y}}")
	ac := k.TED(ac1, ac2, model)

	bc1, bc2 := buildPair(t, "{a{b}{c}{d}}", "{x{y}}")
	bc := k.TED(bc1, bc2, model)

	assert.LessOrEqual(t, ac, ab+bc)
}
