// Package candidate implements the join engine's candidate-generation
// filters: TJoin's label-set inverted list with structural filtering,
// binary-branch and degree histograms, Tang's partition-based index, and
// Guha's reference-set metric bounds.
package candidate

import (
	"sort"

	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// StructuralVector is the per-occurrence (postorder, #left, #right,
// #ancestors, #descendants) record TJoin's structural filter compares.
type StructuralVector struct {
	Postorder   int
	NodesLeft   int
	NodesRight  int
	Ancestors   int
	Descendants int
}

// LabelOccurrence is one distinct label in a tree's label-set, carrying
// its occurrence count (weight) and a structural vector per occurrence.
type LabelOccurrence struct {
	Label       label.ID
	Rank        int
	Weight      int
	Occurrences []StructuralVector
}

// LabelSet is a tree's label-set conversion: its distinct labels sorted
// ascending by global frequency rank (rarest first), each carrying a
// cumulative weight-so-far prefix used by TJoin's prefix filter.
type LabelSet struct {
	TreeID     int
	Size       int
	Entries    []LabelOccurrence
	PrefixSize []int // PrefixSize[i] = sum of Entries[0..i].Weight
}

// GlobalRanks assigns global frequency ranks (rarest label first) over
// a corpus of trees, used to order each tree's label-set ascending.
func GlobalRanks(trees []*treeindex.Index) map[label.ID]int {
	freq := make(map[label.ID]int)
	for _, t := range trees {
		seen := make(map[label.ID]bool)
		for _, l := range t.PostlToLabelID {
			if !seen[l] {
				seen[l] = true
				freq[l]++
			}
		}
	}
	type kv struct {
		l label.ID
		f int
	}
	var all []kv
	for l, f := range freq {
		all = append(all, kv{l, f})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].f != all[j].f {
			return all[i].f < all[j].f
		}
		return all[i].l < all[j].l
	})
	ranks := make(map[label.ID]int, len(all))
	for i, e := range all {
		ranks[e.l] = i
	}
	return ranks
}

// BuildLabelSet converts an indexed tree into its TJoin label-set:
// distinct labels with occurrence structural vectors, sorted ascending
// by global rank, with a running weight prefix.
func BuildLabelSet(treeID int, t *treeindex.Index, ranks map[label.ID]int) *LabelSet {
	byLabel := make(map[label.ID][]StructuralVector)
	for postl, l := range t.PostlToLabelID {
		size := t.PostlToSize[postl]
		depth := t.PostlToDepth[postl]
		sv := StructuralVector{
			Postorder: postl,
			// Nodes entirely to the left: everything before this node in
			// postorder that is not a descendant.
			NodesLeft: postl + 1 - size,
			// Nodes entirely to the right: everything after it that is
			// not an ancestor.
			NodesRight:  t.Size - (postl + 1) - depth,
			Ancestors:   depth,
			Descendants: size - 1,
		}
		byLabel[l] = append(byLabel[l], sv)
	}

	ls := &LabelSet{TreeID: treeID, Size: t.Size}
	for l, occs := range byLabel {
		sort.Slice(occs, func(i, j int) bool { return occs[i].Postorder < occs[j].Postorder })
		ls.Entries = append(ls.Entries, LabelOccurrence{
			Label:       l,
			Rank:        ranks[l],
			Weight:      len(occs),
			Occurrences: occs,
		})
	}
	sort.Slice(ls.Entries, func(i, j int) bool {
		if ls.Entries[i].Rank != ls.Entries[j].Rank {
			return ls.Entries[i].Rank < ls.Entries[j].Rank
		}
		return ls.Entries[i].Label < ls.Entries[j].Label
	})

	running := 0
	ls.PrefixSize = make([]int, len(ls.Entries))
	for i, e := range ls.Entries {
		running += e.Weight
		ls.PrefixSize[i] = running
	}
	return ls
}

// StructuralMatch reports whether two occurrences of the same label are
// tau-valid: the sum of their structural-vector deltas is within tau.
func StructuralMatch(a, b StructuralVector, tau int) bool {
	d := absInt(a.NodesLeft-b.NodesLeft) + absInt(a.NodesRight-b.NodesRight) +
		absInt(a.Ancestors-b.Ancestors) + absInt(a.Descendants-b.Descendants)
	return d <= tau
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
