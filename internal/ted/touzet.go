package ted

import (
	"math"

	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/matrix"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// TouzetVariant selects which k-relevance enumeration Touzet uses.
type TouzetVariant int

const (
	// TouzetBaseline iterates every k-relevant (x,y) pair in the k-strip.
	TouzetBaseline TouzetVariant = iota
	// TouzetDepthPruning restricts ancestor walks to nodes whose depth
	// is within the current e-budget (the "truncated-tree fix").
	TouzetDepthPruning
	// TouzetKRSet collapses k-relevant pairs to one representative per
	// keyroot pair before calling tree_dist.
	TouzetKRSet
)

// Touzet computes ted_k, the k-bounded exact tree edit distance: the
// exact TED if it is <= k, else a value known only to exceed k. Requires
// treeindex.CapKeyroot | treeindex.CapLch.
type Touzet struct {
	Variant     TouzetVariant
	subproblems uint64
}

// NewTouzet returns a Touzet kernel using variant.
func NewTouzet(variant TouzetVariant) *Touzet {
	return &Touzet{Variant: variant}
}

// GetSubproblemCount returns the number of DP cells filled.
func (t *Touzet) GetSubproblemCount() uint64 { return t.subproblems }

// Reset zeroes the subproblem counter for reuse across calls.
func (t *Touzet) Reset() { t.subproblems = 0 }

// kRelevant implements the k-relevance test from spec.md §4.5.
func kRelevant(t1, t2 *treeindex.Index, x, y, k int) bool {
	n1, n2 := t1.Size, t2.Size
	szX, szY := t1.PostlToSize[x], t2.PostlToSize[y]
	a := absInt((n1 - x - 1 - t1.PostlToDepth[x]) - (n2 - y - 1 - t2.PostlToDepth[y]))
	b := absInt(t1.PostlToDepth[x] - t2.PostlToDepth[y])
	c := absInt(szX - szY)
	d := absInt((x + 1 - szX) - (y + 1 - szY))
	return a+b+c+d <= k
}

// eBudget implements the e-budget formula from spec.md §4.5, clamped to
// 0 per the Open Question decision (a negative budget here is a
// documented possible-bug in the source; this port never propagates a
// negative value downstream).
func eBudget(t1, t2 *treeindex.Index, x, y, k int) int {
	n1, n2 := t1.Size, t2.Size
	szX, szY := t1.PostlToSize[x], t2.PostlToSize[y]
	a := absInt((n1 - x - 1 - t1.PostlToDepth[x]) - (n2 - y - 1 - t2.PostlToDepth[y]))
	b := absInt(t1.PostlToDepth[x] - t2.PostlToDepth[y])
	d := absInt((x + 1 - szX) - (y + 1 - szY))
	e := k - (a + b + d)
	if e < 0 {
		e = 0
	}
	return e
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

const infDist = math.MaxInt32

// TedK returns the exact TED if it is <= k, else a value > k.
func (t *Touzet) TedK(t1, t2 *treeindex.Index, model costmodel.Model, k int) float64 {
	n1, n2 := t1.Size, t2.Size
	if absInt(n1-n2) > k {
		return float64(k + 1)
	}
	if n1 == 0 && n2 == 0 {
		return 0
	}

	td := matrix.NewBand[float64](n1, k)
	td.FillWith(float64(infDist))

	pairs := t.pairsForVariant(t1, t2, k)
	for _, p := range pairs {
		x, y := p[0], p[1]
		e := eBudget(t1, t2, x, y, k)
		if t.Variant == TouzetDepthPruning {
			// Height difference lower-bounds the subtree distance (one
			// edit moves a tree's height by at most one), so a pair
			// whose subtree heights differ by more than e can never be
			// stored in td; skip its whole DP slice.
			h1 := t1.PostlToSubtreeMaxDepth[x] - t1.PostlToDepth[x]
			h2 := t2.PostlToSubtreeMaxDepth[y] - t2.PostlToDepth[y]
			if absInt(h1-h2) > e {
				continue
			}
		}
		dist := t.treeDist(t1, t2, model, td, x, y, k, e)
		if dist <= float64(e) {
			td.MustSet(x, y, dist)
		}
	}

	root1, root2 := n1-1, n2-1
	if !td.InBand(root1, root2) {
		return float64(k + 1)
	}
	result := td.MustAt(root1, root2)
	if result >= float64(infDist) {
		return float64(k + 1)
	}
	return result
}

// TED wraps TedK, doubling k from |n1-n2|+1 until the returned value is
// within the bound.
func (t *Touzet) TED(t1, t2 *treeindex.Index, model costmodel.Model) float64 {
	k := absInt(t1.Size-t2.Size) + 1
	for {
		d := t.TedK(t1, t2, model, k)
		if d <= float64(k) {
			return d
		}
		k *= 2
	}
}

// pairsForVariant enumerates the (x,y) candidate pairs to run tree_dist
// on, per t.Variant.
func (t *Touzet) pairsForVariant(t1, t2 *treeindex.Index, k int) [][2]int {
	var all [][2]int
	for x := 0; x < t1.Size; x++ {
		lo := x - k
		hi := x + k
		if lo < 0 {
			lo = 0
		}
		if hi >= t2.Size {
			hi = t2.Size - 1
		}
		for y := lo; y <= hi; y++ {
			if kRelevant(t1, t2, x, y, k) {
				all = append(all, [2]int{x, y})
			}
		}
	}
	switch t.Variant {
	case TouzetKRSet:
		return t.krSetRepresentatives(t1, t2, all)
	default:
		// TouzetBaseline and TouzetDepthPruning share the same
		// enumeration; depth pruning only changes how treeDist walks
		// ancestors inside the DP (see treeDist), not which pairs are
		// visited.
		return all
	}
}

// krSetRepresentatives packs (kr_anc(x), kr_anc(y)) into a 64-bit key
// and keeps one representative pair per keyroot-pair, taking the entry
// with the maximum y for a given key (spec.md §4.5 KR-Set variant).
func (t *Touzet) krSetRepresentatives(t1, t2 *treeindex.Index, pairs [][2]int) [][2]int {
	type key struct{ a, b int }
	best := make(map[key][2]int)
	var order []key
	for i := len(pairs) - 1; i >= 0; i-- {
		x, y := pairs[i][0], pairs[i][1]
		k := key{t1.PostlToKrAncestor[x], t2.PostlToKrAncestor[y]}
		if cur, ok := best[k]; !ok {
			best[k] = [2]int{x, y}
			order = append(order, k)
		} else if y > cur[1] {
			best[k] = [2]int{x, y}
		}
	}
	out := make([][2]int, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, best[order[i]])
	}
	return out
}

// treeDist fills the forest-distance slice for the subtree pair (x,y)
// within the e-budget, returning the resulting subtree distance (which
// the caller stores into td iff it is <= e).
func (t *Touzet) treeDist(t1, t2 *treeindex.Index, model costmodel.Model, td *matrix.BandMatrix[float64], x, y, k, e int) float64 {
	sizeX := t1.PostlToSize[x]
	sizeY := t2.PostlToSize[y]
	lldX := x - sizeX + 1
	lldY := y - sizeY + 1

	fd := matrix.New[float64](sizeX+1, sizeY+1)
	inf := float64(infDist)
	fd.FillWith(inf)
	fd.MustSet(0, 0, 0)

	for i := 1; i <= sizeX; i++ {
		node := lldX + i - 1
		v := fd.MustAt(i-1, 0)
		if v < inf {
			fd.MustSet(i, 0, v+model.Del(t1.PostlToLabelID[node]))
		}
	}
	for j := 1; j <= sizeY; j++ {
		node := lldY + j - 1
		v := fd.MustAt(0, j-1)
		if v < inf {
			fd.MustSet(0, j, v+model.Ins(t2.PostlToLabelID[node]))
		}
	}

	for i := 1; i <= sizeX; i++ {
		nx := lldX + i - 1
		for j := 1; j <= sizeY; j++ {
			ny := lldY + j - 1
			if absInt(i-j) > k {
				continue
			}
			t.subproblems++
			del := inf
			if v := fd.MustAt(i-1, j); v < inf {
				del = v + model.Del(t1.PostlToLabelID[nx])
			}
			ins := inf
			if v := fd.MustAt(i, j-1); v < inf {
				ins = v + model.Ins(t2.PostlToLabelID[ny])
			}
			var ren float64
			childLldX := nx - t1.PostlToSize[nx] + 1
			childLldY := ny - t2.PostlToSize[ny] + 1
			if childLldX == lldX && childLldY == lldY {
				if v := fd.MustAt(i-1, j-1); v < inf {
					ren = v + model.Ren(t1.PostlToLabelID[nx], t2.PostlToLabelID[ny])
				} else {
					ren = inf
				}
			} else {
				ri, rj := childLldX-lldX, childLldY-lldY
				var sub float64
				if td.InBand(nx, ny) {
					sub = td.MustAt(nx, ny)
				} else {
					sub = inf
				}
				base := inf
				if ri >= 0 && rj >= 0 {
					if v := fd.MustAt(ri, rj); v < inf && sub < inf {
						base = v + sub
					}
				}
				ren = base
			}
			fd.MustSet(i, j, minOf3(del, ins, ren))
		}
	}
	return fd.MustAt(sizeX, sizeY)
}
