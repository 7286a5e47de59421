package join

import (
	"context"
	"sort"

	"github.com/treesimjoin/simjoin/internal/bounds"
	"github.com/treesimjoin/simjoin/internal/candidate"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
	"github.com/treesimjoin/simjoin/pkg/collections"
)

// IndexedLookup is the two-stage inverted-list lookup driver: corpus
// label-sets feed a per-label inverted list; a query probes only its
// own prefix (rarest labels until the accumulated weight passes tau+1),
// candidates are pruned by the node-intersection lower bound, then
// optionally shortcut by the LGM upper bound before exact verification.
type IndexedLookup struct {
	Counters

	// UseUpperBound enables the LGM shortcut between the lower-bound
	// prune and exact verification.
	UseUpperBound bool
	// LGMWindow is the LGM candidate window when UseUpperBound is set.
	LGMWindow int

	corpus []*treeindex.Index
	sets   []*candidate.LabelSet
	ranks  map[label.ID]int
	il     map[label.ID][]int // label -> corpus tree ids, ascending
}

// NewIndexedLookup builds the inverted-list index over corpus.
func NewIndexedLookup(corpus []*treeindex.Index) *IndexedLookup {
	l := &IndexedLookup{
		corpus: corpus,
		ranks:  candidate.GlobalRanks(corpus),
		il:     make(map[label.ID][]int),
	}
	l.sets = make([]*candidate.LabelSet, len(corpus))
	for i, t := range corpus {
		l.sets[i] = candidate.BuildLabelSet(i, t, l.ranks)
		for _, e := range l.sets[i].Entries {
			l.il[e.Label] = append(l.il[e.Label], i)
		}
	}
	return l
}

// Execute looks up query against the indexed corpus at threshold tau.
// Results carry TreeID1 = -1 (the query) and the corpus id in TreeID2.
func (l *IndexedLookup) Execute(ctx context.Context, query *treeindex.Index, model costmodel.Model, touzet *ted.Touzet, tau int) []JoinResultElement {
	ctx, end := startInvocation(ctx, "join.lookup.indexed")
	defer end()

	stopConvert := l.startPhase(ctx, "convert")
	qls := candidate.BuildLabelSet(-1, query, l.ranks)
	stopConvert()

	stopGen := l.startPhase(ctx, "candidate-gen")
	seen := collections.NewBitset(len(l.corpus))
	var cands []int
	admit := func(j int) {
		if seen.Test(j) {
			return
		}
		if l.corpus[j].Size < query.Size-tau || l.corpus[j].Size > query.Size+tau {
			return
		}
		seen.Set(j)
		cands = append(cands, j)
	}
	if query.Size <= tau {
		// A small query need not share any label with its matches.
		for j := range l.corpus {
			admit(j)
		}
	} else {
		prefixWeight := 0
		for i, e := range qls.Entries {
			if prefixWeight > tau+1 {
				break
			}
			prefixWeight = qls.PrefixSize[i]
			for _, j := range l.il[e.Label] {
				l.ilLookups++
				admit(j)
			}
		}
	}
	sort.Ints(cands)
	l.preCandidates += uint64(len(cands))
	stopGen()

	var out []JoinResultElement

	stopShortcut := l.startPhase(ctx, "ub-shortcut")
	var toVerify []int
	for _, j := range cands {
		l.candidates++

		common := nodeIntersection(qls, l.sets[j])
		maxN := query.Size
		if l.corpus[j].Size > maxN {
			maxN = l.corpus[j].Size
		}
		if float64(maxN-common) > float64(tau) {
			continue
		}

		if l.UseUpperBound {
			ub := bounds.LGM(query, l.corpus[j], model, l.LGMWindow)
			if ub <= float64(tau) {
				l.uTResultPairs++
				out = append(out, JoinResultElement{TreeID1: -1, TreeID2: j, Distance: ub})
				continue
			}
		}
		toVerify = append(toVerify, j)
	}
	stopShortcut()

	stopVerify := l.startPhase(ctx, "verify")
	for _, j := range toVerify {
		l.verifications++
		before := touzet.GetSubproblemCount()
		d := touzet.TedK(query, l.corpus[j], model, tau)
		l.subproblems += touzet.GetSubproblemCount() - before
		if d <= float64(tau) {
			out = append(out, JoinResultElement{TreeID1: -1, TreeID2: j, Distance: d})
		}
	}
	stopVerify()

	sort.Slice(out, func(a, b int) bool {
		if out[a].Distance != out[b].Distance {
			return out[a].Distance < out[b].Distance
		}
		return out[a].TreeID2 < out[b].TreeID2
	})
	return out
}

// nodeIntersection sums the per-label min occurrence count between two
// label-sets, the basis of the node-intersection lower bound.
func nodeIntersection(a, b *candidate.LabelSet) int {
	bWeights := make(map[label.ID]int, len(b.Entries))
	for _, e := range b.Entries {
		bWeights[e.Label] = e.Weight
	}
	total := 0
	for _, e := range a.Entries {
		if w, ok := bWeights[e.Label]; ok {
			if w < e.Weight {
				total += w
			} else {
				total += e.Weight
			}
		}
	}
	return total
}
