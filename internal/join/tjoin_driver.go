package join

import (
	"context"
	"sort"

	"github.com/treesimjoin/simjoin/internal/bounds"
	"github.com/treesimjoin/simjoin/internal/candidate"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// TJoinDriver runs the full TJoin pipeline: label-set conversion,
// prefix/structural-filter candidate retrieval, a degree-histogram
// lower-bound prune, an LGM upper-bound shortcut, and Touzet
// verification for whatever survives.
type TJoinDriver struct {
	Counters
	LGMWindow int // sliding window for the LGM upper-bound shortcut
}

// NewTJoinDriver returns a driver with the given LGM candidate window.
func NewTJoinDriver(lgmWindow int) *TJoinDriver {
	return &TJoinDriver{LGMWindow: lgmWindow}
}

// Execute runs the TJoin pipeline over trees at threshold tau.
func (d *TJoinDriver) Execute(ctx context.Context, trees []*treeindex.Index, model costmodel.Model, touzet *ted.Touzet, tau int) []JoinResultElement {
	ctx, end := startInvocation(ctx, "join.tjoin")
	defer end()

	stopConvert := d.startPhase(ctx, "convert")
	ranks := candidate.GlobalRanks(trees)
	sets := make([]*candidate.LabelSet, len(trees))
	for i, t := range trees {
		sets[i] = candidate.BuildLabelSet(i, t, ranks)
	}
	degHist := make([]*candidate.DegreeHistogram, len(trees))
	for i, t := range trees {
		degHist[i] = candidate.BuildDegreeHistogram(t)
	}
	stopConvert()

	tj := candidate.NewTJoin(tau)
	var out []JoinResultElement

	type pendingPair struct{ i, j int }
	var pending []pendingPair

	stopGen := d.startPhase(ctx, "candidate-gen")
	for i, ls := range sets {
		for _, j := range tj.Candidates(ls) {
			d.candidates++
			pending = append(pending, pendingPair{i: j, j: i})
		}
		tj.Append(ls)
	}
	d.preCandidates += uint64(tj.GetNumberOfPreCandidates())
	d.ilLookups += uint64(tj.GetNumberOfILLookups())
	stopGen()

	stopShortcut := d.startPhase(ctx, "ub-shortcut")
	var verify []pendingPair
	for _, p := range pending {
		i, j := p.i, p.j
		if degHist[i].LowerBound(degHist[j]) > float64(tau) {
			continue
		}
		ub := bounds.LGM(trees[i], trees[j], model, d.LGMWindow)
		if ub <= float64(tau) {
			d.lTCandidates++
			d.uTResultPairs++
			out = append(out, pair(i, j, ub))
			continue
		}
		verify = append(verify, p)
	}
	stopShortcut()

	stopVerify := d.startPhase(ctx, "verify")
	for _, p := range verify {
		i, j := p.i, p.j
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

func pair(i, j int, d float64) JoinResultElement {
	if i > j {
		i, j = j, i
	}
	return JoinResultElement{TreeID1: i, TreeID2: j, Distance: d}
}
