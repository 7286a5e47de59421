// Package treeindex builds, once per tree per invocation, the bundle of
// linear per-node arrays the TED kernels and join drivers read. The
// traversals are iterative (explicit stack) rather than recursive so that
// chain-shaped trees beyond platform stack depth still index correctly,
// except the favorable-child ordering pass (CapJOFilter), which recurses
// once per tree level.
package treeindex

import (
	"sort"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/pkg/collections"
)

// Index is the materialized array bundle TI(T) for one input tree.
// Every field is read-only after Build returns; a field is populated
// only when the Capability that names it was requested.
type Index struct {
	Caps Capability
	Size int // tree_size

	// Basic (postorder-indexed).
	PostlToSize    []int
	PostlToParent  []int
	PostlToChildren [][]int
	PostlToLabelID []label.ID
	PostlToDepth   []int
	PostlToLld     []int

	// Pre/post translations.
	PrelToPostl []int
	PostlToPrel []int
	PrelToPrer  []int
	PrerToPrel  []int
	PrelToPostr []int
	PostrToPrel []int
	PrelToSize  []int
	PrelToLld   []int
	PrelToRld   []int

	// Preorder-indexed structure (APTED's working orientation).
	PrelToParent   []int
	PrelToChildren [][]int
	PrelToLabelID  []label.ID
	PostrToLabelID []label.ID

	// Next-leaf-to-the-left indexes and the postr-side rightmost-leaf
	// descendants, filled by dedicated post-passes.
	PrelToLn   []int
	PrerToLn   []int
	PostrToRld []int

	// Keyroots (Zhang-Shasha).
	ListKr             []int
	PostlToKrAncestor  []int

	// Leftmost-child / depth (Touzet, APTED support).
	PostlToLch               []int
	PostlToSubtreeMaxDepth   []int

	// APTED strategy support. The cost sums are structural node counts:
	// cost_all is the sum over the subtree of each node's subtree size
	// under the all-paths decomposition, cost_left/cost_right the
	// keyroot / reversed-keyroot subtree-size sums.
	PrelToTypeLeft  []bool
	PrelToTypeRight []bool
	PrelToCostAll   []int64
	PrelToCostLeft  []int64
	PrelToCostRight []int64
	PrelToSubtreeDelCost []float64
	PrelToSubtreeInsCost []float64

	// JSON node kind (JEDI/JOFilter).
	PostlToType []bracket.JSONKind

	// JOFilter favorable-child order.
	PostlToFavChild []int
	PostlToFavorder []int

	// Label inverted list.
	InvertedList map[label.ID][]int
}

type rawNode struct {
	parentPre   int
	labelID     label.ID
	labelText   string
	depth       int
	childrenPre []int
}

// Build materializes TI(T) for the tree rooted at root, requesting the
// array set named by caps. dict interns every label encountered.
func Build(root *bracket.Node, dict *label.Dictionary, caps Capability) *Index {
	nodes := flattenPreorder(root, dict)
	n := len(nodes)

	idx := &Index{Caps: caps, Size: n}

	prelToPostl, postlToPrel := numberPostorder(nodes)
	idx.Size = n

	// Every other array family is derived from the basic set (size,
	// parent, children, label, depth, lld), so it is always populated
	// regardless of which capability bits the caller requested.
	buildBasic(idx, nodes, prelToPostl, postlToPrel)

	// APTED works in the preorder orientation, so its capability pulls
	// in the full translation set.
	if caps.Has(CapPrePost) || caps.Has(CapAPTED) {
		buildPrePost(idx, nodes, prelToPostl, postlToPrel)
	}
	if caps.Has(CapKeyroot) {
		buildKeyroots(idx)
	}
	// JOFilter's favorable-child order reads subtree_max_depth, so Lch
	// is built whenever either capability is requested.
	if caps.Has(CapLch) || caps.Has(CapJOFilter) {
		buildLch(idx)
	}
	if caps.Has(CapAPTED) {
		buildAPTEDCosts(idx, prelToPostl, postlToPrel)
	}
	if caps.Has(CapJSON) {
		buildJSONType(idx, nodes, postlToPrel)
	}
	if caps.Has(CapJOFilter) {
		buildFavorable(idx)
	}
	if caps.Has(CapInvertedList) {
		buildInvertedList(idx)
	}
	return idx
}

// flattenPreorder performs an iterative preorder traversal with an
// explicit stack, assigning preorder ids 0..n-1 left to right.
func flattenPreorder(root *bracket.Node, dict *label.Dictionary) []rawNode {
	type frame struct {
		node      *bracket.Node
		parentPre int
		depth     int
	}
	var nodes []rawNode
	stack := collections.NewStack[frame](32)
	stack.Push(frame{root, -1, 0})
	for !stack.IsEmpty() {
		f, _ := stack.Pop()

		pre := len(nodes)
		nodes = append(nodes, rawNode{
			parentPre: f.parentPre,
			labelID:   dict.Insert(f.node.Label),
			labelText: f.node.Label,
			depth:     f.depth,
		})
		if f.parentPre >= 0 {
			nodes[f.parentPre].childrenPre = append(nodes[f.parentPre].childrenPre, pre)
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack.Push(frame{f.node.Children[i], pre, f.depth + 1})
		}
	}
	return nodes
}

// numberPostorder assigns postorder ids to a preorder-flattened tree
// using an explicit stack, avoiding recursion on chain-shaped trees.
func numberPostorder(nodes []rawNode) (prelToPostl, postlToPrel []int) {
	n := len(nodes)
	prelToPostl = make([]int, n)
	postlToPrel = make([]int, n)
	type entry struct {
		pre      int
		childIdx int
	}
	stack := []entry{{0, 0}}
	post := 0
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := nodes[top.pre].childrenPre
		if top.childIdx < len(children) {
			childPre := children[top.childIdx]
			top.childIdx++
			stack = append(stack, entry{childPre, 0})
			continue
		}
		postlToPrel[post] = top.pre
		prelToPostl[top.pre] = post
		post++
		stack = stack[:len(stack)-1]
	}
	return prelToPostl, postlToPrel
}

func buildBasic(idx *Index, nodes []rawNode, prelToPostl, postlToPrel []int) {
	n := len(nodes)
	idx.PostlToParent = make([]int, n)
	idx.PostlToChildren = make([][]int, n)
	idx.PostlToLabelID = make([]label.ID, n)
	idx.PostlToDepth = make([]int, n)
	idx.PostlToSize = make([]int, n)
	idx.PostlToLld = make([]int, n)

	for postl, pre := range postlToPrel {
		rn := nodes[pre]
		if rn.parentPre < 0 {
			idx.PostlToParent[postl] = -1
		} else {
			idx.PostlToParent[postl] = prelToPostl[rn.parentPre]
		}
		idx.PostlToLabelID[postl] = rn.labelID
		idx.PostlToDepth[postl] = rn.depth

		children := make([]int, len(rn.childrenPre))
		for i, childPre := range rn.childrenPre {
			children[i] = prelToPostl[childPre]
		}
		sort.Ints(children)
		idx.PostlToChildren[postl] = children
	}

	// size and lld require children processed before parents, which
	// postorder already guarantees.
	for postl := 0; postl < n; postl++ {
		size := 1
		lld := postl
		children := idx.PostlToChildren[postl]
		if len(children) > 0 {
			lld = idx.PostlToLld[children[0]]
		}
		for _, c := range children {
			size += idx.PostlToSize[c]
		}
		idx.PostlToSize[postl] = size
		idx.PostlToLld[postl] = lld
	}
}

func buildPrePost(idx *Index, nodes []rawNode, prelToPostl, postlToPrel []int) {
	n := len(nodes)
	idx.PrelToPostl = append([]int(nil), prelToPostl...)
	idx.PostlToPrel = append([]int(nil), postlToPrel...)

	// prer: preorder ids assigned by a mirror traversal (children
	// visited right to left). postr is the postorder counterpart.
	prerToPrel := make([]int, n)
	prelToPrer := make([]int, n)
	postrToPrel := make([]int, n)
	prelToPostr := make([]int, n)

	type frame struct {
		pre int
	}
	order := make([]int, 0, n)
	stack := []frame{{0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, f.pre)
		children := nodes[f.pre].childrenPre
		for i := 0; i < len(children); i++ {
			stack = append(stack, frame{children[i]})
		}
	}
	for prer, pre := range order {
		prerToPrel[prer] = pre
		prelToPrer[pre] = prer
	}

	// postr: postorder of the mirror (right-to-left) traversal, via an
	// iterative stack analogous to numberPostorder but walking children
	// in reverse.
	type entry struct {
		pre      int
		childIdx int
	}
	st := []entry{{0, 0}}
	postr := 0
	for len(st) > 0 {
		top := &st[len(st)-1]
		children := nodes[top.pre].childrenPre
		ci := len(children) - 1 - top.childIdx
		if top.childIdx < len(children) {
			top.childIdx++
			st = append(st, entry{children[ci], 0})
			continue
		}
		postrToPrel[postr] = top.pre
		prelToPostr[top.pre] = postr
		postr++
		st = st[:len(st)-1]
	}

	idx.PrerToPrel = prerToPrel
	idx.PrelToPrer = prelToPrer
	idx.PostrToPrel = postrToPrel
	idx.PrelToPostr = prelToPostr

	idx.PrelToSize = make([]int, n)
	idx.PrelToLld = make([]int, n)
	idx.PrelToRld = make([]int, n)
	idx.PrelToParent = make([]int, n)
	idx.PrelToChildren = make([][]int, n)
	idx.PrelToLabelID = make([]label.ID, n)
	for pre := 0; pre < n; pre++ {
		postl := prelToPostl[pre]
		idx.PrelToSize[pre] = idx.PostlToSize[postl]
		idx.PrelToLld[pre] = leafDescendantPre(idx, postl, true)
		idx.PrelToRld[pre] = leafDescendantPre(idx, postl, false)
		idx.PrelToParent[pre] = nodes[pre].parentPre
		idx.PrelToChildren[pre] = append([]int(nil), nodes[pre].childrenPre...)
		idx.PrelToLabelID[pre] = nodes[pre].labelID
	}

	idx.PostrToLabelID = make([]label.ID, n)
	for postr := 0; postr < n; postr++ {
		idx.PostrToLabelID[postr] = idx.PrelToLabelID[postrToPrel[postr]]
	}

	fillLn(idx)
	fillRld(idx)
}

// fillLn records, per preorder (and reversed-preorder) position, the
// nearest leaf seen earlier in that order, -1 before the first leaf.
func fillLn(idx *Index) {
	n := idx.Size
	idx.PrelToLn = make([]int, n)
	idx.PrerToLn = make([]int, n)
	currentLeafPrel := -1
	currentLeafPrer := -1
	for i := 0; i < n; i++ {
		idx.PrelToLn[i] = currentLeafPrel
		if idx.PrelToSize[i] == 1 {
			currentLeafPrel = i
		}
		idx.PrerToLn[i] = currentLeafPrer
		if idx.PrelToSize[idx.PrerToPrel[i]] == 1 {
			currentLeafPrer = i
		}
	}
}

// fillRld resolves each node's rightmost-leaf descendant in the
// right-to-left postorder numbering. Children precede parents in that
// order, so one ascending pass suffices.
func fillRld(idx *Index) {
	n := idx.Size
	idx.PostrToRld = make([]int, n)
	for i := 0; i < n; i++ {
		pre := idx.PostrToPrel[i]
		if idx.PrelToSize[pre] == 1 {
			idx.PostrToRld[i] = i
		} else {
			children := idx.PrelToChildren[pre]
			last := children[len(children)-1]
			idx.PostrToRld[i] = idx.PostrToRld[idx.PrelToPostr[last]]
		}
	}
}

// leafDescendantPre resolves the leftmost/rightmost leaf descendant of the
// subtree rooted at postl, expressed as a preorder id.
func leafDescendantPre(idx *Index, postl int, leftmost bool) int {
	cur := postl
	for {
		kids := idx.PostlToChildren[cur]
		if len(kids) == 0 {
			break
		}
		if leftmost {
			cur = kids[0]
		} else {
			cur = kids[len(kids)-1]
		}
	}
	return idx.PostlToPrel[cur]
}

func buildKeyroots(idx *Index) {
	n := idx.Size
	idx.ListKr = nil
	isLeftmostChild := make([]bool, n)
	for postl := 0; postl < n; postl++ {
		children := idx.PostlToChildren[postl]
		for i, c := range children {
			isLeftmostChild[c] = i == 0
		}
	}
	for postl := 0; postl < n; postl++ {
		if idx.PostlToParent[postl] == -1 || !isLeftmostChild[postl] {
			idx.ListKr = append(idx.ListKr, postl)
		}
	}
	sort.Ints(idx.ListKr)

	idx.PostlToKrAncestor = make([]int, n)
	for _, kr := range idx.ListKr {
		cur := kr
		for {
			idx.PostlToKrAncestor[cur] = kr
			lch := idx.postlLch(cur)
			if lch == -1 {
				break
			}
			cur = lch
		}
	}
}

// postlLch returns the leftmost child of postl, or -1 if it is a leaf.
func (idx *Index) postlLch(postl int) int {
	children := idx.PostlToChildren[postl]
	if len(children) == 0 {
		return -1
	}
	return children[0]
}

func buildLch(idx *Index) {
	n := idx.Size
	idx.PostlToLch = make([]int, n)
	idx.PostlToSubtreeMaxDepth = make([]int, n)
	for postl := 0; postl < n; postl++ {
		idx.PostlToLch[postl] = idx.postlLch(postl)
		maxDepth := idx.PostlToDepth[postl]
		for _, c := range idx.PostlToChildren[postl] {
			if idx.PostlToSubtreeMaxDepth[c] > maxDepth {
				maxDepth = idx.PostlToSubtreeMaxDepth[c]
			}
		}
		idx.PostlToSubtreeMaxDepth[postl] = maxDepth
	}
}

func buildAPTEDCosts(idx *Index, prelToPostl, postlToPrel []int) {
	n := idx.Size
	idx.PrelToTypeLeft = make([]bool, n)
	idx.PrelToTypeRight = make([]bool, n)
	idx.PrelToCostAll = make([]int64, n)
	idx.PrelToCostLeft = make([]int64, n)
	idx.PrelToCostRight = make([]int64, n)
	idx.PrelToSubtreeDelCost = make([]float64, n)
	idx.PrelToSubtreeInsCost = make([]float64, n)

	for postl := 0; postl < n; postl++ {
		children := idx.PostlToChildren[postl]
		for i, c := range children {
			pre := postlToPrel[c]
			idx.PrelToTypeLeft[pre] = i == 0
			idx.PrelToTypeRight[pre] = i == len(children)-1
		}
	}

	// Process postorder ascending so children (smaller postl) are
	// finalized before their parent.
	//
	// cost_left is the sum of keyroot subtree sizes within the subtree:
	// the node itself plus every non-leftmost child anywhere below. A
	// child's own sum already counts the child as a keyroot, so the
	// leftmost child's size is taken back out. cost_right mirrors this
	// with rightmost children, and cost_all folds the sum of all
	// subtree sizes into size*(size+3)/2.
	sizeSums := make([]int64, n)
	for postl := 0; postl < n; postl++ {
		pre := postlToPrel[postl]
		size := int64(idx.PostlToSize[postl])
		children := idx.PostlToChildren[postl]

		var leftSum, rightSum int64
		sizeSums[postl] = size
		var delSum, insSum float64
		for _, c := range children {
			cpre := postlToPrel[c]
			sizeSums[postl] += sizeSums[c]
			leftSum += idx.PrelToCostLeft[cpre]
			rightSum += idx.PrelToCostRight[cpre]
			delSum += idx.PrelToSubtreeDelCost[cpre]
			insSum += idx.PrelToSubtreeInsCost[cpre]
		}
		if len(children) > 0 {
			leftSum -= int64(idx.PostlToSize[children[0]])
			rightSum -= int64(idx.PostlToSize[children[len(children)-1]])
		}
		idx.PrelToCostAll[pre] = size*(size+3)/2 - sizeSums[postl]
		idx.PrelToCostLeft[pre] = leftSum + size
		idx.PrelToCostRight[pre] = rightSum + size
		idx.PrelToSubtreeDelCost[pre] = delSum + 1
		idx.PrelToSubtreeInsCost[pre] = insSum + 1
	}
}

func buildJSONType(idx *Index, nodes []rawNode, postlToPrel []int) {
	n := idx.Size
	idx.PostlToType = make([]bracket.JSONKind, n)
	for postl := 0; postl < n; postl++ {
		pre := postlToPrel[postl]
		idx.PostlToType[postl] = bracket.ClassifyJSON(nodes[pre].labelText)
	}
}

func buildFavorable(idx *Index) {
	n := idx.Size
	idx.PostlToFavChild = make([]int, n)
	for postl := 0; postl < n; postl++ {
		best := -1
		bestHeight := -1
		for _, c := range idx.PostlToChildren[postl] {
			h := idx.PostlToSubtreeMaxDepth[c] - idx.PostlToDepth[c]
			if best == -1 || h > bestHeight {
				best = c
				bestHeight = h
			}
		}
		idx.PostlToFavChild[postl] = best
	}

	idx.PostlToFavorder = make([]int, n)
	rank := 0
	var visit func(postl int)
	visit = func(postl int) {
		fav := idx.PostlToFavChild[postl]
		for _, c := range idx.PostlToChildren[postl] {
			if c != fav {
				visit(c)
			}
		}
		if fav != -1 {
			visit(fav)
		}
		idx.PostlToFavorder[postl] = rank
		rank++
	}
	if n > 0 {
		root := n - 1
		visit(root)
	}
}

func buildInvertedList(idx *Index) {
	idx.InvertedList = make(map[label.ID][]int)
	for postl, l := range idx.PostlToLabelID {
		idx.InvertedList[l] = append(idx.InvertedList[l], postl)
	}
	for _, list := range idx.InvertedList {
		sort.Ints(list)
	}
}
