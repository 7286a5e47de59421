package candidate

import (
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// DegreeHistogram counts nodes by child count, a coarse structural
// fingerprint used to prune candidate pairs before verification.
type DegreeHistogram struct {
	Counts map[int]int
}

// BuildDegreeHistogram derives t's degree histogram from its child
// adjacency list.
func BuildDegreeHistogram(t *treeindex.Index) *DegreeHistogram {
	h := &DegreeHistogram{Counts: make(map[int]int)}
	for _, children := range t.PostlToChildren {
		h.Counts[len(children)]++
	}
	return h
}

// LowerBound returns a TED lower bound from the two degree histograms.
// A single insert or delete moves the parent between degree buckets and
// adds or removes one node's own bucket entry, shifting the L1 distance
// by at most 3; a rename shifts it by 0. Hence TED >= L1/3.
func (h *DegreeHistogram) LowerBound(other *DegreeHistogram) float64 {
	return float64(histogramL1(h.Counts, other.Counts)) / 3
}

func histogramL1(a, b map[int]int) int {
	d := 0
	for k, ca := range a {
		d += absInt(ca - b[k])
	}
	for k, cb := range b {
		if _, ok := a[k]; !ok {
			d += cb
		}
	}
	return d
}

// BinaryBranchKey is one binary branch: a node's label, its leftmost
// child's label, and its next sibling's label, with label.None standing
// in where either is missing. This is the node's neighborhood in the
// left-child/right-sibling binary form of the tree.
type BinaryBranchKey struct {
	Own, Left, Sibling label.ID
}

// BinaryBranchHistogram counts nodes per binary branch.
type BinaryBranchHistogram struct {
	Counts map[BinaryBranchKey]int
}

// BuildBinaryBranchHistogram walks t and records every node's binary
// branch. The binary form is implicit: a node's binary-left child is
// its first tree-child and its binary-right child is its next sibling.
func BuildBinaryBranchHistogram(t *treeindex.Index) *BinaryBranchHistogram {
	h := &BinaryBranchHistogram{Counts: make(map[BinaryBranchKey]int)}
	for postl := 0; postl < t.Size; postl++ {
		key := BinaryBranchKey{Own: t.PostlToLabelID[postl], Left: label.None, Sibling: label.None}
		if children := t.PostlToChildren[postl]; len(children) > 0 {
			key.Left = t.PostlToLabelID[children[0]]
		}
		if parent := t.PostlToParent[postl]; parent >= 0 {
			siblings := t.PostlToChildren[parent]
			for i, c := range siblings {
				if c == postl && i+1 < len(siblings) {
					key.Sibling = t.PostlToLabelID[siblings[i+1]]
				}
			}
		}
		h.Counts[key]++
	}
	return h
}

// LowerBound returns the binary branch TED lower bound: one edit
// operation touches at most 5 binary branches, so TED >= L1/5 (Yang,
// Kalnis, Tung).
func (h *BinaryBranchHistogram) LowerBound(other *BinaryBranchHistogram) float64 {
	d := 0
	for k, ca := range h.Counts {
		d += absInt(ca - other.Counts[k])
	}
	for k, cb := range other.Counts {
		if _, ok := h.Counts[k]; !ok {
			d += cb
		}
	}
	return float64(d) / 5
}
