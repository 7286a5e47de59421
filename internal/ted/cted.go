package ted

import (
	"math"

	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/matrix"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// Constrained computes CTED, the constrained tree edit distance: like TED
// but every subtree of one tree maps wholly into a subtree (or forest) of
// the other, so sibling alignments never interleave. CTED is an upper
// bound on TED and doubles as a join/lookup verification shortcut.
//
// For each pair (i, j) the forest distance df is the minimum of mapping
// forest(i) into a single child forest of j (inserting the rest of j's
// forest), the symmetric deletion case, and an ordered child-subforest
// alignment whose primitives are the already-final child subtree
// distances. The min-over-children terms are not rescanned per cell:
// after (i, j) is computed, df(i,j)-df(i,0) is relaxed into the parent
// row of df, and df(i,j)-df(0,j) into the rolling df2 vector (same for
// dt), which is what keeps the parent updates linear.
type Constrained struct {
	subproblems uint64
}

// NewConstrained returns a fresh CTED kernel.
func NewConstrained() *Constrained { return &Constrained{} }

// GetSubproblemCount returns the number of DP cells filled.
func (c *Constrained) GetSubproblemCount() uint64 { return c.subproblems }

// Reset zeroes the subproblem counter for reuse across calls.
func (c *Constrained) Reset() { c.subproblems = 0 }

// TED returns the constrained tree edit distance between t1 and t2.
func (c *Constrained) TED(t1, t2 *treeindex.Index, model costmodel.Model) float64 {
	n1, n2 := t1.Size, t2.Size
	if n1 == 0 {
		return sumIns(t2, model)
	}
	if n2 == 0 {
		return sumDel(t1, model)
	}
	inf := math.Inf(1)

	// 1-based: row/column 0 are the empty tree/forest.
	dt := matrix.New[float64](n1+1, n2+1)
	df := matrix.New[float64](n1+1, n2+1)
	e := matrix.New[float64](n1+1, n2+1)
	dt.FillWith(inf)
	df.FillWith(inf)

	dt2 := make([]float64, n2+1)
	df2 := make([]float64, n2+1)

	dt.MustSet(0, 0, 0)
	df.MustSet(0, 0, 0)
	for i := 1; i <= n1; i++ {
		var fdel float64
		for _, k := range t1.PostlToChildren[i-1] {
			fdel += dt.MustAt(k+1, 0)
		}
		df.MustSet(i, 0, fdel)
		dt.MustSet(i, 0, fdel+model.Del(t1.PostlToLabelID[i-1]))
	}
	for j := 1; j <= n2; j++ {
		var fins float64
		for _, k := range t2.PostlToChildren[j-1] {
			fins += dt.MustAt(0, k+1)
		}
		df.MustSet(0, j, fins)
		dt.MustSet(0, j, fins+model.Ins(t2.PostlToLabelID[j-1]))
	}

	for i := 1; i <= n1; i++ {
		for j := range dt2 {
			dt2[j] = inf
			df2[j] = inf
		}
		c1 := t1.PostlToChildren[i-1]

		for j := 1; j <= n2; j++ {
			c2 := t2.PostlToChildren[j-1]

			// Ordered child-subforest alignment with the child subtree
			// distances as substitution primitives.
			e.MustSet(0, 0, 0)
			for s := 1; s <= len(c1); s++ {
				e.MustSet(s, 0, e.MustAt(s-1, 0)+dt.MustAt(c1[s-1]+1, 0))
			}
			for t := 1; t <= len(c2); t++ {
				e.MustSet(0, t, e.MustAt(0, t-1)+dt.MustAt(0, c2[t-1]+1))
			}
			for s := 1; s <= len(c1); s++ {
				for t := 1; t <= len(c2); t++ {
					c.subproblems++
					a := e.MustAt(s, t-1) + dt.MustAt(0, c2[t-1]+1)
					b := e.MustAt(s-1, t) + dt.MustAt(c1[s-1]+1, 0)
					m := e.MustAt(s-1, t-1) + dt.MustAt(c1[s-1]+1, c2[t-1]+1)
					e.MustSet(s, t, minOf3(a, b, m))
				}
			}

			// df(i,j): at this point df(i,j) still holds the relaxed
			// min over i's children of df(child,j)-df(child,0), and
			// df2[j] the symmetric min over j's children.
			dfij := minOf3(
				df.MustAt(0, j)+df2[j],
				df.MustAt(i, 0)+df.MustAt(i, j),
				e.MustAt(len(c1), len(c2)),
			)
			df.MustSet(i, j, dfij)

			dtij := minOf3(
				dt.MustAt(0, j)+dt2[j],
				dt.MustAt(i, 0)+dt.MustAt(i, j),
				dfij+model.Ren(t1.PostlToLabelID[i-1], t2.PostlToLabelID[j-1]),
			)
			dt.MustSet(i, j, dtij)

			if p2 := t2.PostlToParent[j-1]; p2 > -1 {
				if v := dfij - df.MustAt(0, j); v < df2[p2+1] {
					df2[p2+1] = v
				}
				if v := dtij - dt.MustAt(0, j); v < dt2[p2+1] {
					dt2[p2+1] = v
				}
			}
			if p1 := t1.PostlToParent[i-1]; p1 > -1 {
				if v := dfij - df.MustAt(i, 0); v < df.MustAt(p1+1, j) {
					df.MustSet(p1+1, j, v)
				}
				if v := dtij - dt.MustAt(i, 0); v < dt.MustAt(p1+1, j) {
					dt.MustSet(p1+1, j, v)
				}
			}
		}
	}
	return dt.MustAt(n1, n2)
}
