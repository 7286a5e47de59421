package bounds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

func buildIndex(t *testing.T, s string, dict *label.Dictionary) *treeindex.Index {
	t.Helper()
	root, err := bracket.Parse(s)
	require.NoError(t, err)
	return treeindex.Build(root, dict, treeindex.CapAll)
}

var boundPairs = []struct {
	name string
	a, b string
}{
	{"identical", "{a{b}{c}}", "{a{b}{c}}"},
	{"one-rename", "{a{b}{c}}", "{a{b}{x}}"},
	{"one-insert", "{a{b}{c}}", "{a{b}{c}{d}}"},
	{"disjoint-labels", "{a{b}}", "{x{y}}"},
	{"different-shape", "{a{b{c}}}", "{a{b}{c}}"},
}

func TestSEDIsLowerBoundOnTED(t *testing.T) {
	model := costmodel.Unit{}
	for _, p := range boundPairs {
		dict := label.New()
		t1 := buildIndex(t, p.a, dict)
		t2 := buildIndex(t, p.b, dict)
		exact := ted.NewZhangShasha().TED(t1, t2, model)
		lb := SED(t1, t2)
		assert.LessOrEqual(t, lb, exact, p.name)
	}
}

func TestSEDIdentityIsZero(t *testing.T) {
	dict := label.New()
	t1 := buildIndex(t, "{a{b}{c}}", dict)
	t2 := buildIndex(t, "{a{b}{c}}", dict)
	assert.Zero(t, SED(t1, t2))
}

func TestLabelIntersectionLBIsLowerBoundOnTED(t *testing.T) {
	model := costmodel.Unit{}
	for _, p := range boundPairs {
		dict := label.New()
		t1 := buildIndex(t, p.a, dict)
		t2 := buildIndex(t, p.b, dict)
		exact := ted.NewZhangShasha().TED(t1, t2, model)
		lb := LabelIntersectionLB(t1, t2)
		assert.LessOrEqual(t, lb, exact, p.name)
	}
}

func TestLGMIsUpperBoundOnTED(t *testing.T) {
	model := costmodel.Unit{}
	for _, p := range boundPairs {
		dict := label.New()
		t1 := buildIndex(t, p.a, dict)
		t2 := buildIndex(t, p.b, dict)
		exact := ted.NewZhangShasha().TED(t1, t2, model)
		ub := LGM(t1, t2, model, 2)
		assert.GreaterOrEqual(t, ub, exact, p.name)
	}
}

func TestLGMIdentityIsZero(t *testing.T) {
	dict := label.New()
	t1 := buildIndex(t, "{a{b}{c}}", dict)
	t2 := buildIndex(t, "{a{b}{c}}", dict)
	model := costmodel.Unit{}
	assert.Zero(t, LGM(t1, t2, model, 2))
}

func TestBitmapFilterIsLowerBoundOnTED(t *testing.T) {
	model := costmodel.Unit{}
	for _, policy := range []BitmapPolicy{BitmapSet, BitmapXor, BitmapLinearProbe} {
		for _, p := range boundPairs {
			dict := label.New()
			t1 := buildIndex(t, p.a, dict)
			t2 := buildIndex(t, p.b, dict)
			exact := ted.NewZhangShasha().TED(t1, t2, model)
			f := NewBitmapFilter(64, policy)
			lb := f.LowerBound(t1, t2)
			assert.LessOrEqual(t, lb, exact, p.name)
		}
	}
}

func TestBitmapFilterIdenticalBitmapsAreEqual(t *testing.T) {
	dict := label.New()
	t1 := buildIndex(t, "{a{b}{c}}", dict)
	t2 := buildIndex(t, "{a{b}{c}}", dict)
	f := NewBitmapFilter(64, BitmapSet)
	assert.Equal(t, f.Bitmap(t1), f.Bitmap(t2))
}
