package jsonted

import (
	"math"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/matrix"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// JEDI computes JEDI-Baseline, the JSON-aware tree edit distance. The
// recurrence is the constrained one: for each node pair, forest(i) can
// map into a single child forest of j (inserting the rest), the
// symmetric deletion case applies, or the two child forests align
// directly — and how they align depends on the node kinds. Arrays align
// children in order (a string-edit DP over child subtree distances),
// objects align children by minimum-cost assignment (order-free), a key
// forwards to its single child's distance, and values have empty
// forests. Nodes of different kinds can never be renamed into each
// other; such a pair costs del(i)+ins(j) at the node, though their
// children still map through the forest term.
//
// Requires treeindex.CapJSON.
type JEDI struct {
	subproblems uint64
}

// NewJEDI returns a fresh JEDI-Baseline kernel.
func NewJEDI() *JEDI { return &JEDI{} }

// GetSubproblemCount returns the number of DP cells filled.
func (j *JEDI) GetSubproblemCount() uint64 { return j.subproblems }

// Reset zeroes the subproblem counter for reuse across calls.
func (j *JEDI) Reset() { j.subproblems = 0 }

// TED returns the JEDI-Baseline distance between t1 and t2.
func (j *JEDI) TED(t1, t2 *treeindex.Index, model costmodel.Model) float64 {
	n1, n2 := t1.Size, t2.Size
	if n1 == 0 {
		return sumCosts(t2, model.Ins)
	}
	if n2 == 0 {
		return sumCosts(t1, model.Del)
	}
	inf := math.Inf(1)

	dt := matrix.New[float64](n1+1, n2+1)
	df := matrix.New[float64](n1+1, n2+1)
	e := matrix.New[float64](n1+1, n2+1)
	dt.FillWith(inf)
	df.FillWith(inf)

	initBorders(t1, t2, model, dt, df)

	for i := 1; i <= n1; i++ {
		c1 := t1.PostlToChildren[i-1]
		for jj := 1; jj <= n2; jj++ {
			c2 := t2.PostlToChildren[jj-1]

			forDel, treeDel := minOverRight(dt, df, c2, i, jj)
			forIns, treeIns := minOverLeft(dt, df, c1, i, jj)

			forRen := j.forestRename(t1, t2, dt, e, i, jj, c1, c2)

			dfij := minOf3(forDel, forIns, forRen)
			df.MustSet(i, jj, dfij)

			var node float64
			if t1.PostlToType[i-1] != t2.PostlToType[jj-1] {
				node = model.Del(t1.PostlToLabelID[i-1]) + model.Ins(t2.PostlToLabelID[jj-1])
			} else {
				node = model.Ren(t1.PostlToLabelID[i-1], t2.PostlToLabelID[jj-1])
			}
			dt.MustSet(i, jj, minOf3(treeDel, treeIns, dfij+node))
		}
	}
	return dt.MustAt(n1, n2)
}

// forestRename is the kind-cased direct alignment of the two child
// forests: ordered string-edit DP for array pairs, the single child pair
// for key pairs, zero for value pairs (both forests empty), and
// minimum-cost assignment for everything else (object pairs and
// mixed-kind pairs).
func (j *JEDI) forestRename(t1, t2 *treeindex.Index, dt, e *matrix.Matrix[float64], i, jj int, c1, c2 []int) float64 {
	k1, k2 := t1.PostlToType[i-1], t2.PostlToType[jj-1]
	switch {
	case k1 == bracket.KindArray && k2 == bracket.KindArray:
		return j.orderedAlign(dt, e, c1, c2)
	case k1 == bracket.KindKey && k2 == bracket.KindKey && len(c1) > 0 && len(c2) > 0:
		return dt.MustAt(c1[0]+1, c2[0]+1)
	case k1 == bracket.KindValue && k2 == bracket.KindValue:
		return 0
	default:
		return j.assignmentAlign(dt, c1, c2)
	}
}

// orderedAlign is the array case: a string-edit DP over the child
// subtree distances, preserving sibling order.
func (j *JEDI) orderedAlign(dt, e *matrix.Matrix[float64], c1, c2 []int) float64 {
	e.MustSet(0, 0, 0)
	for s := 1; s <= len(c1); s++ {
		e.MustSet(s, 0, e.MustAt(s-1, 0)+dt.MustAt(c1[s-1]+1, 0))
	}
	for t := 1; t <= len(c2); t++ {
		e.MustSet(0, t, e.MustAt(0, t-1)+dt.MustAt(0, c2[t-1]+1))
	}
	for s := 1; s <= len(c1); s++ {
		for t := 1; t <= len(c2); t++ {
			j.subproblems++
			a := e.MustAt(s, t-1) + dt.MustAt(0, c2[t-1]+1)
			b := e.MustAt(s-1, t) + dt.MustAt(c1[s-1]+1, 0)
			m := e.MustAt(s-1, t-1) + dt.MustAt(c1[s-1]+1, c2[t-1]+1)
			e.MustSet(s, t, minOf3(a, b, m))
		}
	}
	return e.MustAt(len(c1), len(c2))
}

// assignmentAlign builds the square (|c1|+|c2|) cost matrix with every
// pad slot carrying the full subtree delete/insert cost, then solves
// minimum assignment: each child is either mapped to a child on the
// other side or paid off entirely against a pad slot.
func (j *JEDI) assignmentAlign(dt *matrix.Matrix[float64], c1, c2 []int) float64 {
	s, t := len(c1), len(c2)
	n := s + t
	if n == 0 {
		return 0
	}
	cost := make([][]float64, n)
	for p := 0; p < n; p++ {
		cost[p] = make([]float64, n)
		for q := 0; q < n; q++ {
			switch {
			case p < s && q < t:
				cost[p][q] = dt.MustAt(c1[p]+1, c2[q]+1)
			case p < s:
				cost[p][q] = dt.MustAt(c1[p]+1, 0)
			case q < t:
				cost[p][q] = dt.MustAt(0, c2[q]+1)
			}
		}
	}
	j.subproblems += uint64(n * n)
	return hungarianMinCost(cost)
}

// initBorders fills row and column 0 of dt/df bottom-up: the empty-tree
// distances are the subtree delete/insert cost sums.
func initBorders(t1, t2 *treeindex.Index, model costmodel.Model, dt, df *matrix.Matrix[float64]) {
	dt.MustSet(0, 0, 0)
	df.MustSet(0, 0, 0)
	for i := 1; i <= t1.Size; i++ {
		var fdel float64
		for _, k := range t1.PostlToChildren[i-1] {
			fdel += dt.MustAt(k+1, 0)
		}
		df.MustSet(i, 0, fdel)
		dt.MustSet(i, 0, fdel+model.Del(t1.PostlToLabelID[i-1]))
	}
	for jj := 1; jj <= t2.Size; jj++ {
		var fins float64
		for _, k := range t2.PostlToChildren[jj-1] {
			fins += dt.MustAt(0, k+1)
		}
		df.MustSet(0, jj, fins)
		dt.MustSet(0, jj, fins+model.Ins(t2.PostlToLabelID[jj-1]))
	}
}

// minOverRight computes the cost of mapping forest(i) (resp. subtree i)
// into the forest of one child of jj while inserting the rest of jj's
// forest: df(0,jj) + min over children t of jj of (df(i,t)-df(0,t)),
// and the dt analogue.
func minOverRight(dt, df *matrix.Matrix[float64], c2 []int, i, jj int) (forest, tree float64) {
	forest, tree = math.Inf(1), math.Inf(1)
	for _, t := range c2 {
		if v := df.MustAt(i, t+1) - df.MustAt(0, t+1); v < forest {
			forest = v
		}
		if v := dt.MustAt(i, t+1) - dt.MustAt(0, t+1); v < tree {
			tree = v
		}
	}
	return forest + df.MustAt(0, jj), tree + dt.MustAt(0, jj)
}

// minOverLeft is the symmetric deletion direction: df(i,0) + min over
// children s of i of (df(s,jj)-df(s,0)), and the dt analogue.
func minOverLeft(dt, df *matrix.Matrix[float64], c1 []int, i, jj int) (forest, tree float64) {
	forest, tree = math.Inf(1), math.Inf(1)
	for _, s := range c1 {
		if v := df.MustAt(s+1, jj) - df.MustAt(s+1, 0); v < forest {
			forest = v
		}
		if v := dt.MustAt(s+1, jj) - dt.MustAt(s+1, 0); v < tree {
			tree = v
		}
	}
	return forest + df.MustAt(i, 0), tree + dt.MustAt(i, 0)
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

func sumCosts(t *treeindex.Index, cost func(label.ID) float64) float64 {
	var total float64
	for _, l := range t.PostlToLabelID {
		total += cost(l)
	}
	return total
}
