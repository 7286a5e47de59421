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

// GuhaVariant selects the vector scheme a GuhaDriver builds: RSB (plain
// TED vectors) or RSC (SED-lower/CTED-upper vector pairs).
type GuhaVariant int

const (
	GuhaRSB GuhaVariant = iota
	GuhaRSC
)

// GuhaDriver runs Guha's reference-set join (spec.md §4.9): sample and
// cluster a subset of the corpus into a reference set, build per-tree
// distance vectors against it, prune by the resulting metric bounds,
// then refine surviving candidates with SED/CTED before exact
// verification.
type GuhaDriver struct {
	Counters
	Variant GuhaVariant
	Seed    int64
}

// NewGuhaDriver returns a driver of the given variant using seed for
// reference-set sampling (required, per the SPEC_FULL open question
// decision on Guha's RNG).
func NewGuhaDriver(variant GuhaVariant, seed int64) *GuhaDriver {
	return &GuhaDriver{Variant: variant, Seed: seed}
}

// Execute runs the Guha RSB/RSC join over trees at threshold tau.
func (d *GuhaDriver) Execute(ctx context.Context, trees []*treeindex.Index, model costmodel.Model, touzet *ted.Touzet, cted *ted.Constrained, apted *ted.APTED, tau int) []JoinResultElement {
	ctx, end := startInvocation(ctx, "join.guha")
	defer end()

	aptedDist := func(t1, t2 *treeindex.Index) float64 {
		before := apted.GetSubproblemCount()
		dist := apted.TED(t1, t2, model)
		d.subproblems += apted.GetSubproblemCount() - before
		return dist
	}

	stopConvert := d.startPhase(ctx, "convert")
	ref := candidate.NewReferenceSet(trees, tau, aptedDist, d.Seed)

	var lb, ub candidate.DistanceFunc
	var vectors []candidate.Vector
	switch d.Variant {
	case GuhaRSB:
		vectors = candidate.BuildRSBVectors(trees, ref, aptedDist)
	default:
		lb = bounds.SED
		ub = func(t1, t2 *treeindex.Index) float64 {
			before := cted.GetSubproblemCount()
			dist := cted.TED(t1, t2, model)
			d.subproblems += cted.GetSubproblemCount() - before
			return dist
		}
		vectors = candidate.BuildRSCVectors(trees, ref, lb, ub)
	}
	stopConvert()

	stopGen := d.startPhase(ctx, "candidate-gen")
	type survivor struct{ i, j int }
	var survivors []survivor
	var out []JoinResultElement
	for i := 0; i < len(trees); i++ {
		for j := i + 1; j < len(trees); j++ {
			d.candidates++
			var lbv, ubv float64
			if d.Variant == GuhaRSB {
				lbv, ubv = candidate.RSBBound(vectors[i], vectors[j])
			} else {
				lbv, ubv = candidate.RSCBound(vectors[i], vectors[j])
			}
			if ubv <= float64(tau) {
				d.uTResultPairs++
				out = append(out, JoinResultElement{TreeID1: i, TreeID2: j, Distance: ubv})
				continue
			}
			if lbv > float64(tau) {
				continue
			}
			d.preCandidates++
			survivors = append(survivors, survivor{i: i, j: j})
		}
	}
	stopGen()

	stopShortcut := d.startPhase(ctx, "ub-shortcut")
	var toVerify []survivor
	for _, s := range survivors {
		i, j := s.i, s.j
		sed := bounds.SED(trees[i], trees[j])
		if sed > float64(tau) {
			continue
		}
		d.sedCandidates++

		before := cted.GetSubproblemCount()
		ubCted := cted.TED(trees[i], trees[j], model)
		d.subproblems += cted.GetSubproblemCount() - before
		if ubCted <= float64(tau) {
			d.ctedResultPairs++
			out = append(out, JoinResultElement{TreeID1: i, TreeID2: j, Distance: ubCted})
			continue
		}
		toVerify = append(toVerify, s)
	}
	stopShortcut()

	stopVerify := d.startPhase(ctx, "verify")
	for _, s := range toVerify {
		i, j := s.i, s.j
		d.verifications++
		dist := aptedDist(trees[i], trees[j])
		if dist <= float64(tau) {
			out = append(out, JoinResultElement{TreeID1: i, TreeID2: j, Distance: dist})
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
