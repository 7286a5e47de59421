// Package ted implements the exact tree-edit-distance kernel family:
// Zhang-Shasha, APTED, Touzet (k-bounded), and CTED (constrained). Every
// kernel takes two *treeindex.Index built with the capability set it
// declares and a costmodel.Model, and returns the exact distance (or, for
// Touzet, a value known only to exceed a given bound).
//
// Grounded on the teacher's internal/analyzer dominator-tree fixed-point
// iteration style (dense matrices, explicit row/column loops, a running
// counter field on the kernel struct) generalized from dominator sets to
// edit-distance DP tables.
package ted

import (
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/matrix"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// ZhangShasha computes the exact tree edit distance via keyroot
// decomposition (Zhang & Shasha, 1989). Requires treeindex.CapKeyroot.
type ZhangShasha struct {
	subproblems uint64
}

// NewZhangShasha returns a fresh kernel with a zeroed subproblem counter.
func NewZhangShasha() *ZhangShasha { return &ZhangShasha{} }

// GetSubproblemCount returns the number of non-trivial DP cells filled
// since construction (or the last Reset).
func (z *ZhangShasha) GetSubproblemCount() uint64 { return z.subproblems }

// Reset zeroes the subproblem counter for reuse across calls.
func (z *ZhangShasha) Reset() { z.subproblems = 0 }

// TED returns the exact tree edit distance between t1 and t2 under model.
func (z *ZhangShasha) TED(t1, t2 *treeindex.Index, model costmodel.Model) float64 {
	n1, n2 := t1.Size, t2.Size
	if n1 == 0 && n2 == 0 {
		return 0
	}
	if n1 == 0 {
		return sumIns(t2, model)
	}
	if n2 == 0 {
		return sumDel(t1, model)
	}

	// 1-based node ids map to postorder id-1. lld is likewise 1-based.
	l1 := func(i int) int { return t1.PostlToLld[i-1] + 1 }
	l2 := func(j int) int { return t2.PostlToLld[j-1] + 1 }
	label1 := func(i int) label.ID { return t1.PostlToLabelID[i-1] }
	label2 := func(j int) label.ID { return t2.PostlToLabelID[j-1] }

	td := matrix.New[float64](n1+1, n2+1)

	for _, kr1p := range t1.ListKr {
		kr1 := kr1p + 1
		for _, kr2p := range t2.ListKr {
			kr2 := kr2p + 1
			z.forestDist(t1, t2, model, td, kr1, kr2, l1, l2, label1, label2)
		}
	}
	return td.MustAt(n1, n2)
}

func (z *ZhangShasha) forestDist(
	t1, t2 *treeindex.Index,
	model costmodel.Model,
	td *matrix.Matrix[float64],
	kr1, kr2 int,
	l1, l2 func(int) int,
	label1, label2 func(int) label.ID,
) {
	L1, L2 := l1(kr1), l2(kr2)
	m := kr1 - L1 + 2
	n := kr2 - L2 + 2
	fd := matrix.New[float64](m, n)

	for i1 := 1; i1 < m; i1++ {
		fd.MustSet(i1, 0, fd.MustAt(i1-1, 0)+model.Del(label1(L1+i1-1)))
	}
	for j1 := 1; j1 < n; j1++ {
		fd.MustSet(0, j1, fd.MustAt(0, j1-1)+model.Ins(label2(L2+j1-1)))
	}

	for i1 := 1; i1 < m; i1++ {
		x := L1 + i1 - 1
		for j1 := 1; j1 < n; j1++ {
			y := L2 + j1 - 1
			z.subproblems++
			del := fd.MustAt(i1-1, j1) + model.Del(label1(x))
			ins := fd.MustAt(i1, j1-1) + model.Ins(label2(y))
			if l1(x) == L1 && l2(y) == L2 {
				ren := fd.MustAt(i1-1, j1-1) + model.Ren(label1(x), label2(y))
				best := minOf3(del, ins, ren)
				fd.MustSet(i1, j1, best)
				td.MustSet(x, y, best)
			} else {
				skip := fd.MustAt(l1(x)-L1, l2(y)-L2) + td.MustAt(x, y)
				fd.MustSet(i1, j1, minOf3(del, ins, skip))
			}
		}
	}
}

func minOf3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func sumDel(t *treeindex.Index, model costmodel.Model) float64 {
	var total float64
	for _, l := range t.PostlToLabelID {
		total += model.Del(l)
	}
	return total
}

func sumIns(t *treeindex.Index, model costmodel.Model) float64 {
	var total float64
	for _, l := range t.PostlToLabelID {
		total += model.Ins(l)
	}
	return total
}
