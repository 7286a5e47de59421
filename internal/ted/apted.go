package ted

import (
	"math"

	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/matrix"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// APTED computes the exact tree edit distance with the Pawlik-Augsten
// all-path decomposition. A strategy matrix is computed first: for every
// subtree pair it records which root-leaf path (leftmost, rightmost, or
// an inner one, in either tree) minimizes the total number of
// subproblems. gted then recurses along the chosen paths and resolves
// each pair with the matching single-path function: spf1 when either
// subtree is a single node, spfL/spfR (keyroot forest distances along
// the left/right path) for boundary paths, and spfA (the general
// inner-path algorithm with the fn/ft leaf-successor arrays) otherwise.
//
// The delta matrix is shared between phases: a cell holds the strategy
// path id until the moment the single-path functions overwrite it with
// the pair's forest distance, which is exactly after its strategy value
// was consumed.
//
// Requires treeindex.CapAPTED (which implies the pre/post translation
// set).
type APTED struct {
	subproblems uint64
}

// NewAPTED returns a fresh kernel.
func NewAPTED() *APTED { return &APTED{} }

// GetSubproblemCount returns the number of DP cells filled.
func (a *APTED) GetSubproblemCount() uint64 { return a.subproblems }

// Reset zeroes the subproblem counter for reuse across calls.
func (a *APTED) Reset() { a.subproblems = 0 }

// aptedSide pairs a tree index with its model-resolved subtree
// delete/insert cost sums (preorder-indexed). Both directions are kept
// because a subtree pair whose strategy path lies in the second tree
// swaps the roles of the inputs.
type aptedSide struct {
	idx    *treeindex.Index
	subDel []float64
	subIns []float64
}

func newAptedSide(t *treeindex.Index, model costmodel.Model) *aptedSide {
	n := t.Size
	s := &aptedSide{
		idx:    t,
		subDel: make([]float64, n),
		subIns: make([]float64, n),
	}
	for postl := 0; postl < n; postl++ {
		del := model.Del(t.PostlToLabelID[postl])
		ins := model.Ins(t.PostlToLabelID[postl])
		for _, c := range t.PostlToChildren[postl] {
			cpre := t.PostlToPrel[c]
			del += s.subDel[cpre]
			ins += s.subIns[cpre]
		}
		pre := t.PostlToPrel[postl]
		s.subDel[pre] = del
		s.subIns[pre] = ins
	}
	return s
}

type aptedRun struct {
	kernel *APTED
	model  costmodel.Model
	t1, t2 *aptedSide

	delta *matrix.Matrix[float64]
	q     []float64
	fn    []int
	ft    []int
}

// TED returns the exact tree edit distance between t1 and t2 under model.
func (a *APTED) TED(t1, t2 *treeindex.Index, model costmodel.Model) float64 {
	if t1.Size == 0 {
		return sumIns(t2, model)
	}
	if t2.Size == 0 {
		return sumDel(t1, model)
	}
	r := &aptedRun{
		kernel: a,
		model:  model,
		t1:     newAptedSide(t1, model),
		t2:     newAptedSide(t2, model),
	}
	r.delta = r.computeOptStrategyPostL()
	r.tedInit()
	return r.gted(0, 0)
}

// computeOptStrategyPostL fills the strategy matrix in left-to-right
// postorder of the first tree, maintaining per-node cumulative
// left/right/inner path cost rows and propagating them to parents (the
// postorder-L variant of the opt-strategy heuristic).
func (r *aptedRun) computeOptStrategyPostL() *matrix.Matrix[float64] {
	t1, t2 := r.t1.idx, r.t2.idx
	size1, size2 := t1.Size, t2.Size
	strategy := matrix.New[float64](size1, size2)

	cost1L := make([][]int64, size1)
	cost1R := make([][]int64, size1)
	cost1I := make([][]int64, size1)
	cost2L := make([]int64, size2)
	cost2R := make([]int64, size2)
	cost2I := make([]int64, size2)
	cost2Path := make([]float64, size2)
	leafRow := make([]int64, size2)
	pathIDOffset := float64(size1)

	var rowsToReuseL, rowsToReuseR, rowsToReuseI [][]int64

	for v := 0; v < size1; v++ {
		vInPreL := t1.PostlToPrel[v]
		isVLeaf := t1.PrelToSize[vInPreL] == 1
		parentVPreL := t1.PrelToParent[vInPreL]
		parentVPostL := -1
		if parentVPreL != -1 {
			parentVPostL = t1.PrelToPostl[parentVPreL]
		}

		sizeV := t1.PrelToSize[vInPreL]
		leftPathV := float64(-(t1.PrerToPrel[t1.PrelToPrer[vInPreL]+sizeV-1] + 1))
		rightPathV := float64(vInPreL + sizeV - 1 + 1)
		krSumV := t1.PrelToCostLeft[vInPreL]
		revkrSumV := t1.PrelToCostRight[vInPreL]
		descSumV := t1.PrelToCostAll[vInPreL]

		if isVLeaf {
			cost1L[v] = leafRow
			cost1R[v] = leafRow
			cost1I[v] = leafRow
			for i := 0; i < size2; i++ {
				strategy.MustSet(vInPreL, t2.PostlToPrel[i], float64(vInPreL))
			}
		}

		costLv := cost1L[v]
		costRv := cost1R[v]
		costIv := cost1I[v]

		if parentVPreL != -1 && cost1L[parentVPostL] == nil {
			if len(rowsToReuseL) == 0 {
				cost1L[parentVPostL] = make([]int64, size2)
				cost1R[parentVPostL] = make([]int64, size2)
				cost1I[parentVPostL] = make([]int64, size2)
			} else {
				last := len(rowsToReuseL) - 1
				cost1L[parentVPostL] = rowsToReuseL[last]
				cost1R[parentVPostL] = rowsToReuseR[last]
				cost1I[parentVPostL] = rowsToReuseI[last]
				rowsToReuseL = rowsToReuseL[:last]
				rowsToReuseR = rowsToReuseR[:last]
				rowsToReuseI = rowsToReuseI[:last]
			}
		}

		var costLparentV, costRparentV, costIparentV []int64
		if parentVPreL != -1 {
			costLparentV = cost1L[parentVPostL]
			costRparentV = cost1R[parentVPostL]
			costIparentV = cost1I[parentVPostL]
		}

		for i := range cost2L {
			cost2L[i] = 0
			cost2R[i] = 0
			cost2I[i] = 0
			cost2Path[i] = 0
		}

		for w := 0; w < size2; w++ {
			wInPreL := t2.PostlToPrel[w]
			parentWPreL := t2.PrelToParent[wInPreL]
			parentWPostL := -1
			if parentWPreL != -1 {
				parentWPostL = t2.PrelToPostl[parentWPreL]
			}

			sizeW := t2.PrelToSize[wInPreL]
			if sizeW == 1 {
				cost2L[w] = 0
				cost2R[w] = 0
				cost2I[w] = 0
				cost2Path[w] = float64(wInPreL)
			}

			minCost := int64(math.MaxInt64)
			strategyPath := -1.0

			if sizeV <= 1 || sizeW <= 1 {
				if sizeV > sizeW {
					minCost = int64(sizeV)
				} else {
					minCost = int64(sizeW)
				}
			} else {
				if tmp := int64(sizeV)*t2.PrelToCostLeft[wInPreL] + costLv[w]; tmp < minCost {
					minCost = tmp
					strategyPath = leftPathV
				}
				if tmp := int64(sizeV)*t2.PrelToCostRight[wInPreL] + costRv[w]; tmp < minCost {
					minCost = tmp
					strategyPath = rightPathV
				}
				if tmp := int64(sizeV)*t2.PrelToCostAll[wInPreL] + costIv[w]; tmp < minCost {
					minCost = tmp
					strategyPath = strategy.MustAt(vInPreL, wInPreL) + 1
				}
				if tmp := int64(sizeW)*krSumV + cost2L[w]; tmp < minCost {
					minCost = tmp
					strategyPath = -(float64(t2.PrerToPrel[t2.PrelToPrer[wInPreL]+sizeW-1]) + pathIDOffset + 1)
				}
				if tmp := int64(sizeW)*revkrSumV + cost2R[w]; tmp < minCost {
					minCost = tmp
					strategyPath = float64(wInPreL+sizeW-1) + pathIDOffset + 1
				}
				if tmp := int64(sizeW)*descSumV + cost2I[w]; tmp < minCost {
					minCost = tmp
					strategyPath = cost2Path[w] + pathIDOffset + 1
				}
			}

			if parentVPreL != -1 {
				costRparentV[w] += minCost
				tmp := -minCost + costIv[w]
				if tmp < costIparentV[w] {
					costIparentV[w] = tmp
					strategy.MustSet(parentVPreL, wInPreL, strategy.MustAt(vInPreL, wInPreL))
				}
				if t1.PrelToTypeRight[vInPreL] {
					costIparentV[w] += costRparentV[w]
					costRparentV[w] += costRv[w] - minCost
				}
				if t1.PrelToTypeLeft[vInPreL] {
					costLparentV[w] += costLv[w]
				} else {
					costLparentV[w] += minCost
				}
			}
			if parentWPreL != -1 {
				cost2R[parentWPostL] += minCost
				tmp := -minCost + cost2I[w]
				if tmp < cost2I[parentWPostL] {
					cost2I[parentWPostL] = tmp
					cost2Path[parentWPostL] = cost2Path[w]
				}
				if t2.PrelToTypeRight[wInPreL] {
					cost2I[parentWPostL] += cost2R[parentWPostL]
					cost2R[parentWPostL] += cost2R[w] - minCost
				}
				if t2.PrelToTypeLeft[wInPreL] {
					cost2L[parentWPostL] += cost2L[w]
				} else {
					cost2L[parentWPostL] += minCost
				}
			}
			strategy.MustSet(vInPreL, wInPreL, strategyPath)
		}

		if !isVLeaf {
			for i := range cost1L[v] {
				cost1L[v][i] = 0
				cost1R[v][i] = 0
				cost1I[v][i] = 0
			}
			rowsToReuseL = append(rowsToReuseL, cost1L[v])
			rowsToReuseR = append(rowsToReuseR, cost1R[v])
			rowsToReuseI = append(rowsToReuseI, cost1I[v])
		}
	}
	return strategy
}

// tedInit sizes the working arrays and prefills delta for pairs where
// either subtree is a single node: the forest cost without the root
// nodes, read later by the single-path functions.
func (r *aptedRun) tedInit() {
	t1, t2 := r.t1.idx, r.t2.idx
	maxSize := t1.Size
	if t2.Size > maxSize {
		maxSize = t2.Size
	}
	maxSize++
	r.q = make([]float64, maxSize)
	r.fn = make([]int, maxSize+1)
	r.ft = make([]int, maxSize+1)

	for x := 0; x < t1.Size; x++ {
		sizeX := t1.PrelToSize[x]
		for y := 0; y < t2.Size; y++ {
			sizeY := t2.PrelToSize[y]
			if sizeX == 1 && sizeY == 1 {
				r.delta.MustSet(x, y, 0)
			} else if sizeX == 1 {
				r.delta.MustSet(x, y, r.t2.subIns[y]-r.model.Ins(t2.PrelToLabelID[y]))
			} else if sizeY == 1 {
				r.delta.MustSet(x, y, r.t1.subDel[x]-r.model.Del(t1.PrelToLabelID[x]))
			}
		}
	}
}

// gted resolves the subtree pair (v, w) (preorder roots): it reads the
// pair's strategy, recurses on every subtree hanging off the chosen
// path, then runs the matching single-path function on the pair itself.
func (r *aptedRun) gted(v, w int) float64 {
	t1, t2 := r.t1.idx, r.t2.idx
	sizeV := t1.PrelToSize[v]
	sizeW := t2.PrelToSize[w]

	if sizeV == 1 || sizeW == 1 {
		return r.spf1(v, w)
	}

	strategyPathID := int(r.delta.MustAt(v, w))
	pathIDOffset := t1.Size
	currentPathNode := absIntT(strategyPathID) - 1

	if currentPathNode < pathIDOffset {
		strategyPathType := getStrategyPathType(strategyPathID, pathIDOffset, v, sizeV)
		parent := t1.PrelToParent[currentPathNode]
		for parent >= v {
			for _, child := range t1.PrelToChildren[parent] {
				if child != currentPathNode {
					r.gted(child, w)
				}
			}
			currentPathNode = parent
			parent = t1.PrelToParent[currentPathNode]
		}
		switch strategyPathType {
		case 0:
			return r.spfL(r.t1, v, r.t2, w, false)
		case 1:
			return r.spfR(r.t1, v, r.t2, w, false)
		}
		return r.spfA(r.t1, v, r.t2, w, absIntT(strategyPathID)-1, strategyPathType, false)
	}

	currentPathNode -= pathIDOffset
	strategyPathType := getStrategyPathType(strategyPathID, pathIDOffset, w, sizeW)
	parent := t2.PrelToParent[currentPathNode]
	for parent >= w {
		for _, child := range t2.PrelToChildren[parent] {
			if child != currentPathNode {
				r.gted(v, child)
			}
		}
		currentPathNode = parent
		parent = t2.PrelToParent[currentPathNode]
	}
	switch strategyPathType {
	case 0:
		return r.spfL(r.t2, w, r.t1, v, true)
	case 1:
		return r.spfR(r.t2, w, r.t1, v, true)
	}
	return r.spfA(r.t2, w, r.t1, v, absIntT(strategyPathID)-pathIDOffset-1, strategyPathType, true)
}

// spf1 handles pairs where either subtree is a single node: delete or
// insert the whole other subtree, renaming the singleton onto whichever
// node makes that cheapest.
func (r *aptedRun) spf1(v, w int) float64 {
	t1, t2 := r.t1.idx, r.t2.idx
	sizeV := t1.PrelToSize[v]
	sizeW := t2.PrelToSize[w]
	if sizeV == 1 && sizeW == 1 {
		l1 := t1.PrelToLabelID[v]
		l2 := t2.PrelToLabelID[w]
		maxCost := r.model.Del(l1) + r.model.Ins(l2)
		if ren := r.model.Ren(l1, l2); ren < maxCost {
			return ren
		}
		return maxCost
	}
	if sizeV == 1 {
		l1 := t1.PrelToLabelID[v]
		cost := r.t2.subIns[w]
		maxCost := cost + r.model.Del(l1)
		minRenMinusIns := cost
		for i := w; i < w+sizeW; i++ {
			l2 := t2.PrelToLabelID[i]
			if d := r.model.Ren(l1, l2) - r.model.Ins(l2); d < minRenMinusIns {
				minRenMinusIns = d
			}
		}
		cost += minRenMinusIns
		if cost < maxCost {
			return cost
		}
		return maxCost
	}
	l2 := t2.PrelToLabelID[w]
	cost := r.t1.subDel[v]
	maxCost := cost + r.model.Ins(l2)
	minRenMinusDel := cost
	for i := v; i < v+sizeV; i++ {
		l1 := t1.PrelToLabelID[i]
		if d := r.model.Ren(l1, l2) - r.model.Del(l1); d < minRenMinusDel {
			minRenMinusDel = d
		}
	}
	cost += minRenMinusDel
	if cost < maxCost {
		return cost
	}
	return maxCost
}

// spfL computes the distance for a pair whose strategy chose the
// leftmost path of F: Zhang-Shasha keyroot decomposition of G along
// left paths, writing subtree distances into delta as it goes.
func (r *aptedRun) spfL(f *aptedSide, fRoot int, g *aptedSide, gRoot int, treesSwapped bool) float64 {
	keyRoots := make([]int, g.idx.PrelToSize[gRoot])
	for i := range keyRoots {
		keyRoots[i] = -1
	}
	pathID := g.idx.PrelToLld[gRoot]
	firstKeyRoot := r.computeKeyRoots(g.idx, gRoot, pathID, keyRoots, 0)
	forestdist := matrix.New[float64](f.idx.PrelToSize[fRoot]+1, g.idx.PrelToSize[gRoot]+1)
	for i := firstKeyRoot - 1; i >= 0; i-- {
		r.treeEditDist(f, g, fRoot, keyRoots[i], forestdist, treesSwapped)
	}
	return forestdist.MustAt(f.idx.PrelToSize[fRoot], g.idx.PrelToSize[gRoot])
}

func (r *aptedRun) computeKeyRoots(t *treeindex.Index, subtreeRootNode, pathID int, keyRoots []int, index int) int {
	keyRoots[index] = subtreeRootNode
	index++
	pathNode := pathID
	for pathNode > subtreeRootNode {
		parent := t.PrelToParent[pathNode]
		for _, child := range t.PrelToChildren[parent] {
			if child != pathNode {
				index = r.computeKeyRoots(t, child, t.PrelToLld[child], keyRoots, index)
			}
		}
		pathNode = parent
	}
	return index
}

func (r *aptedRun) treeEditDist(f, g *aptedSide, fSubtree, gSubtree int, forestdist *matrix.Matrix[float64], treesSwapped bool) {
	t1, t2 := f.idx, g.idx
	i := t1.PrelToPostl[fSubtree]
	j := t2.PrelToPostl[gSubtree]
	ioff := t1.PostlToLld[i] - 1
	joff := t2.PostlToLld[j] - 1

	forestdist.MustSet(0, 0, 0)
	for i1 := 1; i1 <= i-ioff; i1++ {
		forestdist.MustSet(i1, 0, forestdist.MustAt(i1-1, 0)+r.opCost(treesSwapped, t1.PostlToLabelID[i1+ioff], true))
	}
	for j1 := 1; j1 <= j-joff; j1++ {
		forestdist.MustSet(0, j1, forestdist.MustAt(0, j1-1)+r.opCost(treesSwapped, t2.PostlToLabelID[j1+joff], false))
	}
	for i1 := 1; i1 <= i-ioff; i1++ {
		for j1 := 1; j1 <= j-joff; j1++ {
			r.kernel.subproblems++
			var u float64
			if treesSwapped {
				u = r.model.Ren(t2.PostlToLabelID[j1+joff], t1.PostlToLabelID[i1+ioff])
			} else {
				u = r.model.Ren(t1.PostlToLabelID[i1+ioff], t2.PostlToLabelID[j1+joff])
			}
			da := forestdist.MustAt(i1-1, j1) + r.opCost(treesSwapped, t1.PostlToLabelID[i1+ioff], true)
			db := forestdist.MustAt(i1, j1-1) + r.opCost(treesSwapped, t2.PostlToLabelID[j1+joff], false)
			var dc float64
			if t1.PostlToLld[i1+ioff] == t1.PostlToLld[i] && t2.PostlToLld[j1+joff] == t2.PostlToLld[j] {
				dc = forestdist.MustAt(i1-1, j1-1) + u
				if treesSwapped {
					r.delta.MustSet(t2.PostlToPrel[j1+joff], t1.PostlToPrel[i1+ioff], forestdist.MustAt(i1-1, j1-1))
				} else {
					r.delta.MustSet(t1.PostlToPrel[i1+ioff], t2.PostlToPrel[j1+joff], forestdist.MustAt(i1-1, j1-1))
				}
			} else {
				var d float64
				if treesSwapped {
					d = r.delta.MustAt(t2.PostlToPrel[j1+joff], t1.PostlToPrel[i1+ioff])
				} else {
					d = r.delta.MustAt(t1.PostlToPrel[i1+ioff], t2.PostlToPrel[j1+joff])
				}
				dc = forestdist.MustAt(t1.PostlToLld[i1+ioff]-1-ioff, t2.PostlToLld[j1+joff]-1-joff) + d + u
			}
			forestdist.MustSet(i1, j1, minOf3(da, db, dc))
		}
	}
}

// spfR is spfL's mirror along rightmost paths, working in right-to-left
// postorder.
func (r *aptedRun) spfR(f *aptedSide, fRoot int, g *aptedSide, gRoot int, treesSwapped bool) float64 {
	revKeyRoots := make([]int, g.idx.PrelToSize[gRoot])
	for i := range revKeyRoots {
		revKeyRoots[i] = -1
	}
	pathID := g.idx.PrelToRld[gRoot]
	firstKeyRoot := r.computeRevKeyRoots(g.idx, gRoot, pathID, revKeyRoots, 0)
	forestdist := matrix.New[float64](f.idx.PrelToSize[fRoot]+1, g.idx.PrelToSize[gRoot]+1)
	for i := firstKeyRoot - 1; i >= 0; i-- {
		r.revTreeEditDist(f, g, fRoot, revKeyRoots[i], forestdist, treesSwapped)
	}
	return forestdist.MustAt(f.idx.PrelToSize[fRoot], g.idx.PrelToSize[gRoot])
}

func (r *aptedRun) computeRevKeyRoots(t *treeindex.Index, subtreeRootNode, pathID int, revKeyRoots []int, index int) int {
	revKeyRoots[index] = subtreeRootNode
	index++
	pathNode := pathID
	for pathNode > subtreeRootNode {
		parent := t.PrelToParent[pathNode]
		for _, child := range t.PrelToChildren[parent] {
			if child != pathNode {
				index = r.computeRevKeyRoots(t, child, t.PrelToRld[child], revKeyRoots, index)
			}
		}
		pathNode = parent
	}
	return index
}

func (r *aptedRun) revTreeEditDist(f, g *aptedSide, fSubtree, gSubtree int, forestdist *matrix.Matrix[float64], treesSwapped bool) {
	t1, t2 := f.idx, g.idx
	i := t1.PrelToPostr[fSubtree]
	j := t2.PrelToPostr[gSubtree]
	ioff := t1.PostrToRld[i] - 1
	joff := t2.PostrToRld[j] - 1

	forestdist.MustSet(0, 0, 0)
	for i1 := 1; i1 <= i-ioff; i1++ {
		forestdist.MustSet(i1, 0, forestdist.MustAt(i1-1, 0)+r.opCost(treesSwapped, t1.PostrToLabelID[i1+ioff], true))
	}
	for j1 := 1; j1 <= j-joff; j1++ {
		forestdist.MustSet(0, j1, forestdist.MustAt(0, j1-1)+r.opCost(treesSwapped, t2.PostrToLabelID[j1+joff], false))
	}
	for i1 := 1; i1 <= i-ioff; i1++ {
		for j1 := 1; j1 <= j-joff; j1++ {
			r.kernel.subproblems++
			var u float64
			if treesSwapped {
				u = r.model.Ren(t2.PostrToLabelID[j1+joff], t1.PostrToLabelID[i1+ioff])
			} else {
				u = r.model.Ren(t1.PostrToLabelID[i1+ioff], t2.PostrToLabelID[j1+joff])
			}
			da := forestdist.MustAt(i1-1, j1) + r.opCost(treesSwapped, t1.PostrToLabelID[i1+ioff], true)
			db := forestdist.MustAt(i1, j1-1) + r.opCost(treesSwapped, t2.PostrToLabelID[j1+joff], false)
			var dc float64
			if t1.PostrToRld[i1+ioff] == t1.PostrToRld[i] && t2.PostrToRld[j1+joff] == t2.PostrToRld[j] {
				dc = forestdist.MustAt(i1-1, j1-1) + u
				if treesSwapped {
					r.delta.MustSet(t2.PostrToPrel[j1+joff], t1.PostrToPrel[i1+ioff], forestdist.MustAt(i1-1, j1-1))
				} else {
					r.delta.MustSet(t1.PostrToPrel[i1+ioff], t2.PostrToPrel[j1+joff], forestdist.MustAt(i1-1, j1-1))
				}
			} else {
				var d float64
				if treesSwapped {
					d = r.delta.MustAt(t2.PostrToPrel[j1+joff], t1.PostrToPrel[i1+ioff])
				} else {
					d = r.delta.MustAt(t1.PostrToPrel[i1+ioff], t2.PostrToPrel[j1+joff])
				}
				dc = forestdist.MustAt(t1.PostrToRld[i1+ioff]-1-ioff, t2.PostrToRld[j1+joff]-1-joff) + d + u
			}
			forestdist.MustSet(i1, j1, minOf3(da, db, dc))
		}
	}
}

// opCost is the deletion (f side) or insertion (g side) cost, swapped
// when the strategy chose a path in the second input tree.
func (r *aptedRun) opCost(treesSwapped bool, l label.ID, fSide bool) float64 {
	if fSide {
		if treesSwapped {
			return r.model.Ins(l)
		}
		return r.model.Del(l)
	}
	if treesSwapped {
		return r.model.Del(l)
	}
	return r.model.Ins(l)
}

func getStrategyPathType(pathIDWithOffset, pathIDOffset, currentRootNodePreL, currentSubtreeSize int) int {
	if pathIDWithOffset < 0 {
		return 0
	}
	pathID := absIntT(pathIDWithOffset) - 1
	if pathID >= pathIDOffset {
		pathID -= pathIDOffset
	}
	if pathID == currentRootNodePreL+currentSubtreeSize-1 {
		return 1
	}
	return 2
}

func (r *aptedRun) updateFnArray(lnForNode, node, currentSubtreePreL int) {
	if lnForNode >= currentSubtreePreL {
		r.fn[node] = r.fn[lnForNode]
		r.fn[lnForNode] = node
	} else {
		r.fn[node] = r.fn[len(r.fn)-1]
		r.fn[len(r.fn)-1] = node
	}
}

func (r *aptedRun) updateFtArray(lnForNode, node int) {
	r.ft[node] = lnForNode
	if r.fn[node] > -1 {
		r.ft[r.fn[node]] = node
	}
}

func absIntT(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
