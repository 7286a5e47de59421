package join

import (
	"context"
	"sort"

	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// Kernel is the method set shared by the TED kernels (Zhang-Shasha,
// APTED, Touzet, CTED). The join and lookup drivers take their kernels
// as concrete types, not as a Kernel.
type Kernel interface {
	TED(t1, t2 *treeindex.Index, model costmodel.Model) float64
	GetSubproblemCount() uint64
}

// NaiveJoin is the nested-loop join baseline: every pair i<j is fed to
// Touzet's ted_k (spec.md §4.9), and emitted when the result is <= tau.
type NaiveJoin struct {
	Counters
}

// NewNaiveJoin returns a fresh naive join driver.
func NewNaiveJoin() *NaiveJoin { return &NaiveJoin{} }

// Execute runs the nested-loop join over trees at threshold tau using
// touzet's bounded TedK for every pair.
func (n *NaiveJoin) Execute(ctx context.Context, trees []*treeindex.Index, model costmodel.Model, touzet *ted.Touzet, tau int) []JoinResultElement {
	ctx, end := startInvocation(ctx, "join.naive")
	defer end()

	var out []JoinResultElement
	stopVerify := n.startPhase(ctx, "verify")
	for i := 0; i < len(trees); i++ {
		for j := i + 1; j < len(trees); j++ {
			n.candidates++
			n.verifications++
			before := touzet.GetSubproblemCount()
			d := touzet.TedK(trees[i], trees[j], model, tau)
			n.subproblems += touzet.GetSubproblemCount() - before
			if d <= float64(tau) {
				out = append(out, JoinResultElement{TreeID1: i, TreeID2: j, Distance: d})
			}
		}
	}
	stopVerify()
	sort.Slice(out, func(i, j int) bool {
		if out[i].TreeID1 != out[j].TreeID1 {
			return out[i].TreeID1 < out[j].TreeID1
		}
		if out[i].TreeID2 != out[j].TreeID2 {
			return out[i].TreeID2 < out[j].TreeID2
		}
		return out[i].Distance < out[j].Distance
	})
	return out
}
