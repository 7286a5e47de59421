package candidate

import (
	"math"
	"math/rand"
	"sort"

	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// DistanceFunc computes a (possibly approximate) tree edit distance,
// used by Guha's reference-set construction to stay agnostic of which
// kernel the caller wired in (APTED per spec.md, but any symmetric
// kernel works).
type DistanceFunc func(t1, t2 *treeindex.Index) float64

// ReferenceSet is Guha's small set of "pivot" trees (indices into the
// corpus) used for metric-space lower/upper bounding.
type ReferenceSet struct {
	Indices []int
}

// NewReferenceSet builds a reference set from a corpus of indexed
// trees. seed is required (SPEC_FULL open question decision: the
// source's hard-coded/system-default seed is replaced with an explicit
// parameter so results are reproducible).
func NewReferenceSet(trees []*treeindex.Index, tau int, dist DistanceFunc, seed int64) *ReferenceSet {
	n := len(trees)
	if n == 0 {
		return &ReferenceSet{}
	}
	rng := rand.New(rand.NewSource(seed))

	sampleSize := int(math.Ceil(math.Sqrt(float64(n)) * math.Log10(float64(n))))
	if sampleSize < 1 {
		sampleSize = 1
	}
	if sampleSize > n {
		sampleSize = n
	}
	sample := rng.Perm(n)[:sampleSize]

	clusters := clusterGreedy(sample, trees, tau, dist, rng)

	var filtered [][]int
	for _, c := range clusters {
		if len(c) > 1 {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) < 3 {
		if n < 2 {
			return &ReferenceSet{Indices: []int{sample[0]}}
		}
		perm := rng.Perm(n)
		return &ReferenceSet{Indices: []int{perm[0], perm[1]}}
	}

	sort.Slice(filtered, func(i, j int) bool { return len(filtered[i]) > len(filtered[j]) })
	k := chooseK(filtered, sampleSize)

	var refs []int
	for i := 0; i < k; i++ {
		c := filtered[i]
		refs = append(refs, c[rng.Intn(len(c))])
	}
	return &ReferenceSet{Indices: refs}
}

// clusterGreedy repeatedly picks a random remaining tree as a cluster
// seed and absorbs every other remaining tree within ceil(tau/2) of it.
func clusterGreedy(sample []int, trees []*treeindex.Index, tau int, dist DistanceFunc, rng *rand.Rand) [][]int {
	radius := (tau + 1) / 2
	remaining := append([]int(nil), sample...)
	var clusters [][]int
	for len(remaining) > 0 {
		seedPos := rng.Intn(len(remaining))
		seed := remaining[seedPos]
		var cluster []int
		var rest []int
		for _, idx := range remaining {
			if idx == seed {
				cluster = append(cluster, idx)
				continue
			}
			if dist(trees[seed], trees[idx]) <= float64(radius) {
				cluster = append(cluster, idx)
			} else {
				rest = append(rest, idx)
			}
		}
		clusters = append(clusters, cluster)
		remaining = rest
	}
	return clusters
}

// chooseK applies the Guha formula, ascending i until it is violated:
// (1 - (sum|C_<=i|)/|sample|)^2 / f_i > i/(i+1), where f_i is cluster
// i's size as a fraction of the sample.
func chooseK(sortedClusters [][]int, sampleSize int) int {
	cum := 0
	for i, c := range sortedClusters {
		cum += len(c)
		fi := float64(len(c)) / float64(sampleSize)
		lhs := math.Pow(1-float64(cum)/float64(sampleSize), 2) / fi
		rhs := float64(i) / float64(i+1)
		if lhs <= rhs {
			if i == 0 {
				return 1
			}
			return i
		}
	}
	return len(sortedClusters)
}

// Vector is a tree's distance vector to every reference-set pivot.
type Vector struct {
	TED []float64 // RSB: exact/approx distance to each pivot
	LB  []float64 // RSC: SED lower bound to each pivot
	UB  []float64 // RSC: CTED upper bound to each pivot
}

// BuildRSBVectors computes one TED vector per input tree against every
// reference-set pivot, for the RSB (reference-set bound) variant.
func BuildRSBVectors(trees []*treeindex.Index, ref *ReferenceSet, dist DistanceFunc) []Vector {
	out := make([]Vector, len(trees))
	for i, t := range trees {
		v := Vector{TED: make([]float64, len(ref.Indices))}
		for k, r := range ref.Indices {
			v.TED[k] = dist(t, trees[r])
		}
		out[i] = v
	}
	return out
}

// BuildRSCVectors computes (lb,ub) vectors per input tree against every
// pivot, for the RSC (reference-set cascade) variant.
func BuildRSCVectors(trees []*treeindex.Index, ref *ReferenceSet, lb, ub DistanceFunc) []Vector {
	out := make([]Vector, len(trees))
	for i, t := range trees {
		v := Vector{LB: make([]float64, len(ref.Indices)), UB: make([]float64, len(ref.Indices))}
		for k, r := range ref.Indices {
			v.LB[k] = lb(t, trees[r])
			v.UB[k] = ub(t, trees[r])
		}
		out[i] = v
	}
	return out
}

// RSBBound returns (lower, upper) metric bounds for a pair under the
// RSB vector scheme: LB = max_k |vi[k]-vj[k]|, UB = min_k vi[k]+vj[k].
func RSBBound(vi, vj Vector) (lb, ub float64) {
	ub = math.Inf(1)
	for k := range vi.TED {
		d := math.Abs(vi.TED[k] - vj.TED[k])
		if d > lb {
			lb = d
		}
		if s := vi.TED[k] + vj.TED[k]; s < ub {
			ub = s
		}
	}
	return lb, ub
}

// RSCBound returns (lower, upper) metric bounds for a pair under the
// RSC (lb,ub)-vector scheme: LB = max_k max(0, lbj[k]-ubi[k],
// lbi[k]-ubj[k]), UB = min_k ubi[k]+ubj[k].
func RSCBound(vi, vj Vector) (lb, ub float64) {
	ub = math.Inf(1)
	for k := range vi.LB {
		d := math.Max(0, math.Max(vj.LB[k]-vi.UB[k], vi.LB[k]-vj.UB[k]))
		if d > lb {
			lb = d
		}
		if s := vi.UB[k] + vj.UB[k]; s < ub {
			ub = s
		}
	}
	return lb, ub
}
