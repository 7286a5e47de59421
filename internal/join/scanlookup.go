package join

import (
	"context"
	"sort"

	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// ScanLookup is the brute-force lookup baseline (original_source/'s
// two-tree scan lookup): checks every corpus tree against the query
// with the exact kernel, no candidate filtering. Used both as a
// correctness oracle and as a selectable lookup strategy.
type ScanLookup struct {
	Counters
}

// NewScanLookup returns a fresh scan lookup driver.
func NewScanLookup() *ScanLookup { return &ScanLookup{} }

// Execute compares query against every tree in corpus and returns the
// corpus indices within tau, sorted by (distance, index).
func (s *ScanLookup) Execute(ctx context.Context, query *treeindex.Index, corpus []*treeindex.Index, model costmodel.Model, touzet *ted.Touzet, tau int) []JoinResultElement {
	ctx, end := startInvocation(ctx, "join.lookup.scan")
	defer end()

	var out []JoinResultElement
	stopVerify := s.startPhase(ctx, "verify")
	for i, t := range corpus {
		s.candidates++
		s.verifications++
		before := touzet.GetSubproblemCount()
		d := touzet.TedK(query, t, model, tau)
		s.subproblems += touzet.GetSubproblemCount() - before
		if d <= float64(tau) {
			out = append(out, JoinResultElement{TreeID1: -1, TreeID2: i, Distance: d})
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
