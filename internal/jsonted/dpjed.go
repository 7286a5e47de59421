package jsonted

import (
	"math"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/matrix"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// DPJED is a JSON upper bound in the same family as JEDI-Baseline: the
// identical constrained recurrence, except that object children are
// paired greedily — equal key labels first (ascending postorder), then
// leftovers by position — instead of through an exact minimum-cost
// assignment. Any one-to-one pairing costs at least the assignment
// optimum, so DPJED >= JEDI cell by cell and stays a valid upper bound.
//
// Requires treeindex.CapJSON.
type DPJED struct {
	subproblems uint64
}

// NewDPJED returns a fresh DPJED kernel.
func NewDPJED() *DPJED { return &DPJED{} }

// GetSubproblemCount returns the number of DP cells filled.
func (d *DPJED) GetSubproblemCount() uint64 { return d.subproblems }

// Reset zeroes the subproblem counter for reuse across calls.
func (d *DPJED) Reset() { d.subproblems = 0 }

// TED returns the DPJED upper-bound distance between t1 and t2.
func (d *DPJED) TED(t1, t2 *treeindex.Index, model costmodel.Model) float64 {
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

			forRen := d.forestRename(t1, t2, dt, e, i, jj, c1, c2)

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

func (d *DPJED) forestRename(t1, t2 *treeindex.Index, dt, e *matrix.Matrix[float64], i, jj int, c1, c2 []int) float64 {
	k1, k2 := t1.PostlToType[i-1], t2.PostlToType[jj-1]
	switch {
	case k1 == bracket.KindArray && k2 == bracket.KindArray:
		return d.orderedAlign(dt, e, c1, c2)
	case k1 == bracket.KindKey && k2 == bracket.KindKey && len(c1) > 0 && len(c2) > 0:
		return dt.MustAt(c1[0]+1, c2[0]+1)
	case k1 == bracket.KindValue && k2 == bracket.KindValue:
		return 0
	default:
		return d.greedyAlign(t1, t2, dt, c1, c2)
	}
}

func (d *DPJED) orderedAlign(dt, e *matrix.Matrix[float64], c1, c2 []int) float64 {
	e.MustSet(0, 0, 0)
	for s := 1; s <= len(c1); s++ {
		e.MustSet(s, 0, e.MustAt(s-1, 0)+dt.MustAt(c1[s-1]+1, 0))
	}
	for t := 1; t <= len(c2); t++ {
		e.MustSet(0, t, e.MustAt(0, t-1)+dt.MustAt(0, c2[t-1]+1))
	}
	for s := 1; s <= len(c1); s++ {
		for t := 1; t <= len(c2); t++ {
			d.subproblems++
			a := e.MustAt(s, t-1) + dt.MustAt(0, c2[t-1]+1)
			b := e.MustAt(s-1, t) + dt.MustAt(c1[s-1]+1, 0)
			m := e.MustAt(s-1, t-1) + dt.MustAt(c1[s-1]+1, c2[t-1]+1)
			e.MustSet(s, t, minOf3(a, b, m))
		}
	}
	return e.MustAt(len(c1), len(c2))
}

// greedyAlign pairs children by equal label first (ascending postorder
// on both sides), then pairs the leftovers positionally, and pays the
// subtree delete/insert cost for whatever remains unmatched.
func (d *DPJED) greedyAlign(t1, t2 *treeindex.Index, dt *matrix.Matrix[float64], c1, c2 []int) float64 {
	byLabel := make(map[label.ID][]int)
	for _, b := range c2 {
		l := t2.PostlToLabelID[b]
		byLabel[l] = append(byLabel[l], b)
	}
	used2 := make(map[int]bool)

	var total float64
	var leftover1 []int
	for _, a := range c1 {
		d.subproblems++
		matched := -1
		for _, b := range byLabel[t1.PostlToLabelID[a]] {
			if !used2[b] {
				matched = b
				break
			}
		}
		if matched >= 0 {
			used2[matched] = true
			total += dt.MustAt(a+1, matched+1)
		} else {
			leftover1 = append(leftover1, a)
		}
	}
	var leftover2 []int
	for _, b := range c2 {
		if !used2[b] {
			leftover2 = append(leftover2, b)
		}
	}
	n := len(leftover1)
	if len(leftover2) < n {
		n = len(leftover2)
	}
	for k := 0; k < n; k++ {
		a, b := leftover1[k], leftover2[k]
		pair := dt.MustAt(a+1, b+1)
		if alt := dt.MustAt(a+1, 0) + dt.MustAt(0, b+1); alt < pair {
			pair = alt
		}
		total += pair
	}
	for _, a := range leftover1[n:] {
		total += dt.MustAt(a+1, 0)
	}
	for _, b := range leftover2[n:] {
		total += dt.MustAt(0, b+1)
	}
	return total
}

// ModPJED wraps DPJED with a node-kind histogram prune: when the
// histogram distance alone already proves no alignment can beat
// deleting one tree and inserting the other, the DP is skipped
// entirely.
type ModPJED struct {
	inner *DPJED
}

// NewModPJED returns a fresh ModPJED kernel.
func NewModPJED() *ModPJED { return &ModPJED{inner: NewDPJED()} }

// GetSubproblemCount returns the number of DP cells filled by the
// underlying DPJED computation.
func (m *ModPJED) GetSubproblemCount() uint64 { return m.inner.GetSubproblemCount() }

// TED returns the ModPJED upper-bound distance between t1 and t2.
func (m *ModPJED) TED(t1, t2 *treeindex.Index, model costmodel.Model) float64 {
	h1 := typeHistogram(t1)
	h2 := typeHistogram(t2)
	histDist := 0
	for k := range h1 {
		d := h1[k] - h2[k]
		if d < 0 {
			d = -d
		}
		histDist += d
	}
	for k := range h2 {
		if _, ok := h1[k]; ok {
			continue
		}
		histDist += h2[k]
	}

	delAll := sumCosts(t1, model.Del)
	insAll := sumCosts(t2, model.Ins)
	if float64(histDist) >= delAll+insAll {
		return delAll + insAll
	}
	return m.inner.TED(t1, t2, model)
}

func typeHistogram(t *treeindex.Index) map[bracket.JSONKind]int {
	h := make(map[bracket.JSONKind]int)
	for _, k := range t.PostlToType {
		h[k]++
	}
	return h
}
