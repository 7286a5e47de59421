package jsonted

import (
	"math"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/matrix"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// JOFilter computes a threshold-tau-bounded JEDI distance: the same
// constrained recurrence as JEDI, but only cells within the postorder
// band |i-j| <= tau are ever stored or computed. Any alignment whose
// node pairs drift further apart than tau cannot be part of a mapping
// of cost <= tau, so reading an out-of-band cell as infinity keeps the
// result exact whenever the true distance is within tau, and an upper
// bound otherwise. Rows of T1 are visited in favorable-child order
// (treeindex.PostlToFavorder), which still resolves every child row
// before its parent and places each node's heaviest subtree last among
// its siblings.
//
// Requires treeindex.CapJSON | treeindex.CapJOFilter.
type JOFilter struct {
	subproblems uint64
}

// NewJOFilter returns a fresh JOFilter kernel.
func NewJOFilter() *JOFilter { return &JOFilter{} }

// GetSubproblemCount returns the number of DP cells filled.
func (f *JOFilter) GetSubproblemCount() uint64 { return f.subproblems }

// Reset zeroes the subproblem counter for reuse across calls.
func (f *JOFilter) Reset() { f.subproblems = 0 }

// TedTau returns the exact JEDI distance if it is <= tau, else a value
// known only to exceed tau.
func (f *JOFilter) TedTau(t1, t2 *treeindex.Index, model costmodel.Model, tau int) float64 {
	n1, n2 := t1.Size, t2.Size
	if abs(n1-n2) > tau {
		return float64(tau + 1)
	}
	if n1 == 0 {
		return sumCosts(t2, model.Ins)
	}
	if n2 == 0 {
		return sumCosts(t1, model.Del)
	}
	inf := math.Inf(1)

	dt := matrix.NewBand[float64](n1+1, tau)
	df := matrix.NewBand[float64](n1+1, tau)
	dt.FillWith(inf)
	df.FillWith(inf)
	e := matrix.New[float64](n1+1, n2+1)

	// Border row/column 0 live outside the band; keep them as slices.
	dtDel := make([]float64, n1+1) // dt(i, 0)
	dfDel := make([]float64, n1+1)
	dtIns := make([]float64, n2+1) // dt(0, j)
	dfIns := make([]float64, n2+1)
	for i := 1; i <= n1; i++ {
		var fdel float64
		for _, k := range t1.PostlToChildren[i-1] {
			fdel += dtDel[k+1]
		}
		dfDel[i] = fdel
		dtDel[i] = fdel + model.Del(t1.PostlToLabelID[i-1])
	}
	for jj := 1; jj <= n2; jj++ {
		var fins float64
		for _, k := range t2.PostlToChildren[jj-1] {
			fins += dtIns[k+1]
		}
		dfIns[jj] = fins
		dtIns[jj] = fins + model.Ins(t2.PostlToLabelID[jj-1])
	}

	getDT := func(i, jj int) float64 {
		if i == 0 {
			return dtIns[jj]
		}
		if jj == 0 {
			return dtDel[i]
		}
		if !dt.InBand(i, jj) {
			return inf
		}
		return dt.MustAt(i, jj)
	}
	getDF := func(i, jj int) float64 {
		if i == 0 {
			return dfIns[jj]
		}
		if jj == 0 {
			return dfDel[i]
		}
		if !df.InBand(i, jj) {
			return inf
		}
		return df.MustAt(i, jj)
	}

	for _, ip := range favorableOrder(t1) {
		i := ip + 1
		lo, hi := i-tau, i+tau
		if lo < 1 {
			lo = 1
		}
		if hi > n2 {
			hi = n2
		}
		c1 := t1.PostlToChildren[i-1]
		for jj := lo; jj <= hi; jj++ {
			c2 := t2.PostlToChildren[jj-1]

			forDel, treeDel := inf, inf
			for _, t := range c2 {
				if v := getDF(i, t+1) - dfIns[t+1]; v < forDel {
					forDel = v
				}
				if v := getDT(i, t+1) - dtIns[t+1]; v < treeDel {
					treeDel = v
				}
			}
			forDel += dfIns[jj]
			treeDel += dtIns[jj]

			forIns, treeIns := inf, inf
			for _, s := range c1 {
				if v := getDF(s+1, jj) - dfDel[s+1]; v < forIns {
					forIns = v
				}
				if v := getDT(s+1, jj) - dtDel[s+1]; v < treeIns {
					treeIns = v
				}
			}
			forIns += dfDel[i]
			treeIns += dtDel[i]

			forRen := f.forestRename(t1, t2, getDT, e, i, jj, c1, c2)

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

	return getDT(n1, n2)
}

func (f *JOFilter) forestRename(t1, t2 *treeindex.Index, getDT func(int, int) float64, e *matrix.Matrix[float64], i, jj int, c1, c2 []int) float64 {
	k1, k2 := t1.PostlToType[i-1], t2.PostlToType[jj-1]
	switch {
	case k1 == bracket.KindArray && k2 == bracket.KindArray:
		e.MustSet(0, 0, 0)
		for s := 1; s <= len(c1); s++ {
			e.MustSet(s, 0, e.MustAt(s-1, 0)+getDT(c1[s-1]+1, 0))
		}
		for t := 1; t <= len(c2); t++ {
			e.MustSet(0, t, e.MustAt(0, t-1)+getDT(0, c2[t-1]+1))
		}
		for s := 1; s <= len(c1); s++ {
			for t := 1; t <= len(c2); t++ {
				f.subproblems++
				a := e.MustAt(s, t-1) + getDT(0, c2[t-1]+1)
				b := e.MustAt(s-1, t) + getDT(c1[s-1]+1, 0)
				m := e.MustAt(s-1, t-1) + getDT(c1[s-1]+1, c2[t-1]+1)
				e.MustSet(s, t, minOf3(a, b, m))
			}
		}
		return e.MustAt(len(c1), len(c2))
	case k1 == bracket.KindKey && k2 == bracket.KindKey && len(c1) > 0 && len(c2) > 0:
		return getDT(c1[0]+1, c2[0]+1)
	case k1 == bracket.KindValue && k2 == bracket.KindValue:
		return 0
	default:
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
					// An out-of-band child pair reads as +inf; the
					// assignment solver needs finite cells, so cap it by
					// the always-available delete+insert route.
					v := getDT(c1[p]+1, c2[q]+1)
					if alt := getDT(c1[p]+1, 0) + getDT(0, c2[q]+1); alt < v {
						v = alt
					}
					cost[p][q] = v
				case p < s:
					cost[p][q] = getDT(c1[p]+1, 0)
				case q < t:
					cost[p][q] = getDT(0, c2[q]+1)
				}
			}
		}
		f.subproblems += uint64(n * n)
		return hungarianMinCost(cost)
	}
}

func favorableOrder(t *treeindex.Index) []int {
	order := make([]int, t.Size)
	for postl, rank := range t.PostlToFavorder {
		order[rank] = postl
	}
	return order
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
