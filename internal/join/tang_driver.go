package join

import (
	"context"
	"sort"

	"github.com/treesimjoin/simjoin/internal/candidate"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// TangDriver runs Tang's partition-based join. Trees are processed in
// ascending size order; each tree first probes the index with every
// node of its binary form at all owning-tree sizes within [|T|-tau,
// |T|], then is either partitioned and indexed (|T| >= 2*tau+1) or
// dropped into a per-size small-tree bucket that later trees pair with
// directly. Probing strictly before inserting keeps every candidate
// pair ordered and visited once.
type TangDriver struct {
	Counters
}

// NewTangDriver returns a fresh Tang partition join driver.
func NewTangDriver() *TangDriver { return &TangDriver{} }

// Execute runs the Tang partition join over trees at threshold tau.
func (d *TangDriver) Execute(ctx context.Context, trees []*treeindex.Index, model costmodel.Model, touzet *ted.Touzet, tau int) []JoinResultElement {
	ctx, end := startInvocation(ctx, "join.tang")
	defer end()

	stopConvert := d.startPhase(ctx, "convert")
	delta := 2*tau + 1
	idx := candidate.NewTangIndex(delta, tau)

	order := make([]int, len(trees))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return trees[order[a]].Size < trees[order[b]].Size
	})

	smallTrees := make(map[int][]int)
	candSet := make(map[[2]int]bool)
	addPair := func(i, j int) {
		if i == j {
			return
		}
		if i > j {
			i, j = j, i
		}
		candSet[[2]int{i, j}] = true
	}

	for _, i := range order {
		t := trees[i]
		size := t.Size
		root := candidate.ToBinary(t)
		nodes := candidate.PostorderNodes(root)

		lo := size - tau
		if lo < 0 {
			lo = 0
		}
		for n := lo; n <= size; n++ {
			for p, node := range nodes {
				for _, j := range idx.Probe(node, n, p) {
					addPair(j, i)
				}
			}
			for _, j := range smallTrees[n] {
				addPair(j, i)
			}
		}

		if size < delta {
			smallTrees[size] = append(smallTrees[size], i)
		} else {
			idx.Insert(i, root, size)
		}
	}

	pairs := make([][2]int, 0, len(candSet))
	for p := range candSet {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
	d.preCandidates += uint64(len(pairs))
	d.ilLookups += uint64(idx.GetNumberOfILLookups())

	bbHist := make([]*candidate.BinaryBranchHistogram, len(trees))
	for i, t := range trees {
		bbHist[i] = candidate.BuildBinaryBranchHistogram(t)
	}
	stopConvert()

	stopShortcut := d.startPhase(ctx, "ub-shortcut")
	var toVerify [][2]int
	for _, p := range pairs {
		if bbHist[p[0]].LowerBound(bbHist[p[1]]) > float64(tau) {
			continue
		}
		d.candidates++
		toVerify = append(toVerify, p)
	}
	stopShortcut()

	var out []JoinResultElement
	stopVerify := d.startPhase(ctx, "verify")
	for _, p := range toVerify {
		i, j := p[0], p[1]
		d.verifications++
		before := touzet.GetSubproblemCount()
		dist := touzet.TedK(trees[i], trees[j], model, tau)
		d.subproblems += touzet.GetSubproblemCount() - before
		if dist <= float64(tau) {
			out = append(out, pair(i, j, dist))
		}
	}
	stopVerify()

	sort.Slice(out, func(a, b int) bool {
		if out[a].TreeID1 != out[b].TreeID1 {
			return out[a].TreeID1 < out[b].TreeID1
		}
		if out[a].TreeID2 != out[b].TreeID2 {
			return out[a].TreeID2 < out[b].TreeID2
		}
		return out[a].Distance < out[b].Distance
	})
	return out
}
