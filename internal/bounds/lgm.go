package bounds

import (
	"sort"

	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// LGMPair is one (t1 postorder, t2 postorder) node mapping produced by
// the label-guided greedy mapping upper bound.
type LGMPair struct {
	X, Y int
}

// LGM computes the label-guided greedy mapping upper bound. Candidate
// pairs come greedily from a per-label inverted list of T2 within a
// sliding 2*window+1 postorder window; the candidates are then repaired
// into a valid TED mapping, and the postorder gaps between consecutive
// surviving pairs are swept for additional renames. Every pair the
// final mapping carries passes the pairwise order and ancestry
// consistency test, so the returned value
// |T1| + |T2| - 2*|mapping| + sum of ren() is always the cost of a
// valid edit mapping, hence an upper bound on TED.
func LGM(t1, t2 *treeindex.Index, model costmodel.Model, window int) float64 {
	candidates := candidatePairs(t1, t2, window)
	mapping := repairMapping(t1, t2, candidates)
	mapping = fillGaps(t1, t2, mapping)

	var renameCost float64
	for _, p := range mapping {
		renameCost += model.Ren(t1.PostlToLabelID[p.X], t2.PostlToLabelID[p.Y])
	}
	return float64(t1.Size+t2.Size) - 2*float64(len(mapping)) + renameCost
}

// candidatePairs walks T1 in postorder and greedily grabs, per node, the
// first unused same-labeled node of T2 within the postorder window,
// marking it used so no T2 node is claimed twice.
func candidatePairs(t1, t2 *treeindex.Index, window int) []LGMPair {
	il := groupByLabel(t2)
	startPos := make(map[label.ID]int, len(il))
	used := make(map[int]bool)

	var out []LGMPair
	for x := 0; x < t1.Size; x++ {
		l := t1.PostlToLabelID[x]
		ys, ok := il[l]
		if !ok {
			continue
		}
		pos := startPos[l]
		for pos < len(ys) && ys[pos] < x-window {
			pos++
		}
		startPos[l] = pos
		for p := pos; p < len(ys) && ys[p] <= x+window; p++ {
			if used[ys[p]] {
				continue
			}
			out = append(out, LGMPair{X: x, Y: ys[p]})
			used[ys[p]] = true
			break
		}
	}
	return out
}

func groupByLabel(t *treeindex.Index) map[label.ID][]int {
	out := make(map[label.ID][]int)
	for postl, l := range t.PostlToLabelID {
		out[l] = append(out[l], postl)
	}
	for _, ys := range out {
		sort.Ints(ys)
	}
	return out
}

// consistent reports whether adding (x,y) keeps the mapping a valid TED
// mapping: against every accepted pair, left-to-right order and the
// ancestor relation must agree between the two trees.
func consistent(t1, t2 *treeindex.Index, x, y int, accepted []LGMPair) bool {
	for _, p := range accepted {
		if p.X == x || p.Y == y {
			return false
		}
		if (x < p.X) != (y < p.Y) {
			return false
		}
		// In postorder, an ancestor has the larger id and its subtree
		// spans [lld, id].
		xAncOfP := p.X < x && p.X >= t1.PostlToLld[x]
		yAncOfP := p.Y < y && p.Y >= t2.PostlToLld[y]
		if xAncOfP != yAncOfP {
			return false
		}
		pAncOfX := x < p.X && x >= t1.PostlToLld[p.X]
		pAncOfY := y < p.Y && y >= t2.PostlToLld[p.Y]
		if pAncOfX != pAncOfY {
			return false
		}
	}
	return true
}

// repairMapping keeps a maximal consistent subsequence of the greedy
// candidates, dropping any pair that would break order or ancestry
// against the pairs kept before it.
func repairMapping(t1, t2 *treeindex.Index, candidates []LGMPair) []LGMPair {
	var kept []LGMPair
	for _, c := range candidates {
		if consistent(t1, t2, c.X, c.Y, kept) {
			kept = append(kept, c)
		}
	}
	return kept
}

// fillGaps sweeps the postorder ranges between consecutive surviving
// pairs and zips remaining unmapped nodes positionally as extra rename
// pairs, admitting each only if it stays consistent with everything
// accepted so far.
func fillGaps(t1, t2 *treeindex.Index, mapping []LGMPair) []LGMPair {
	if len(mapping) == 0 {
		return mapping
	}
	used1 := make(map[int]bool)
	used2 := make(map[int]bool)
	for _, p := range mapping {
		used1[p.X] = true
		used2[p.Y] = true
	}

	out := append([]LGMPair(nil), mapping...)
	prevX, prevY := -1, -1
	for _, p := range mapping {
		out = sweepGap(t1, t2, prevX, prevY, p.X, p.Y, used1, used2, out)
		prevX, prevY = p.X, p.Y
	}
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}

func sweepGap(t1, t2 *treeindex.Index, a, b, c, d int, used1, used2 map[int]bool, accepted []LGMPair) []LGMPair {
	var xs, ys []int
	for x := a + 1; x < c; x++ {
		if !used1[x] {
			xs = append(xs, x)
		}
	}
	for y := b + 1; y < d; y++ {
		if !used2[y] {
			ys = append(ys, y)
		}
	}
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	for i := 0; i < n; i++ {
		if !consistent(t1, t2, xs[i], ys[i], accepted) {
			continue
		}
		accepted = append(accepted, LGMPair{X: xs[i], Y: ys[i]})
		used1[xs[i]] = true
		used2[ys[i]] = true
	}
	return accepted
}
