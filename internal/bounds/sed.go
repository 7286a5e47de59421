// Package bounds implements the TED lower and upper bounds used to
// shortcut or prune join/lookup verification: SED (string edit distance
// lower bound), bitmap/label-histogram lower bounds, and LGM (label-
// guided greedy mapping upper bound with TED-mapping repair).
package bounds

import (
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// SED returns the string edit distance lower bound on TED: the max of
// the edit distance between the two trees' postorder label sequences
// and between their preorder label sequences. Unit-cost only (spec.md
// §4.8); computed with two rolling vectors in O(n1*n2) time and
// O(min(n1,n2)) memory. Requires treeindex.CapPrePost for the preorder
// sequence.
func SED(t1, t2 *treeindex.Index) float64 {
	post := stringEditDistance(t1.PostlToLabelID, t2.PostlToLabelID)
	var pre1, pre2 []label.ID
	if t1.PrelToPostl != nil && t2.PrelToPostl != nil {
		pre1 = preorderLabels(t1)
		pre2 = preorderLabels(t2)
	} else {
		pre1 = t1.PostlToLabelID
		pre2 = t2.PostlToLabelID
	}
	pre := stringEditDistance(pre1, pre2)
	if post > pre {
		return post
	}
	return pre
}

func preorderLabels(t *treeindex.Index) []label.ID {
	out := make([]label.ID, t.Size)
	for pre, postl := range t.PrelToPostl {
		out[pre] = t.PostlToLabelID[postl]
	}
	return out
}

// stringEditDistance is unit-cost Levenshtein distance over label id
// sequences, using two rolling rows.
func stringEditDistance(a, b []label.ID) float64 {
	n, m := len(a), len(b)
	if n < m {
		a, b = b, a
		n, m = m, n
	}
	prev := make([]float64, m+1)
	cur := make([]float64, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = float64(j)
	}
	for i := 1; i <= n; i++ {
		cur[0] = float64(i)
		for j := 1; j <= m; j++ {
			cost := 1.0
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = minOf3(del, ins, sub)
		}
		prev, cur = cur, prev
	}
	return prev[m]
}

func minOf3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// LabelIntersectionLB is the label-histogram lower bound: max(|T1|,|T2|)
// minus the sum of min per-label counts.
func LabelIntersectionLB(t1, t2 *treeindex.Index) float64 {
	h1 := labelHistogram(t1)
	h2 := labelHistogram(t2)
	var overlap int
	for l, c1 := range h1 {
		if c2, ok := h2[l]; ok {
			if c1 < c2 {
				overlap += c1
			} else {
				overlap += c2
			}
		}
	}
	n1, n2 := t1.Size, t2.Size
	maxN := n1
	if n2 > maxN {
		maxN = n2
	}
	return float64(maxN - overlap)
}

func labelHistogram(t *treeindex.Index) map[label.ID]int {
	h := make(map[label.ID]int)
	for _, l := range t.PostlToLabelID {
		h[l]++
	}
	return h
}
