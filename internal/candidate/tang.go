package candidate

import (
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// BinaryNode is a node of the left-child/right-sibling binary form of a
// tree, the representation Tang's partition join indexes. IsLeaf is "no
// children" in the standard sense.
type BinaryNode struct {
	Label label.ID
	Left  *BinaryNode
	Right *BinaryNode

	// PostID is the node's binary-form postorder id, assigned by
	// PostorderNodes for probing and by TangIndex.Insert while carving.
	PostID int

	subgraphSize int
	detached     int
}

// IsLeaf reports whether n has neither a left nor a right child.
func (n *BinaryNode) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// ToBinary converts the indexed tree into its left-child/right-sibling
// binary form: a node's binary-left child is its first tree-child, its
// binary-right child is its next tree-sibling.
func ToBinary(t *treeindex.Index) *BinaryNode {
	if t.Size == 0 {
		return nil
	}
	root := t.Size - 1
	n := &BinaryNode{Label: t.PostlToLabelID[root]}
	if children := t.PostlToChildren[root]; len(children) > 0 {
		n.Left = toBinaryChain(t, children)
	}
	return n
}

func toBinaryChain(t *treeindex.Index, siblings []int) *BinaryNode {
	head := &BinaryNode{Label: t.PostlToLabelID[siblings[0]]}
	if kids := t.PostlToChildren[siblings[0]]; len(kids) > 0 {
		head.Left = toBinaryChain(t, kids)
	}
	if len(siblings) > 1 {
		head.Right = toBinaryChain(t, siblings[1:])
	}
	return head
}

// PostorderNodes returns root's nodes in binary postorder (left, right,
// node), assigning each node's PostID along the way.
func PostorderNodes(root *BinaryNode) []*BinaryNode {
	var out []*BinaryNode
	var walk func(n *BinaryNode)
	walk = func(n *BinaryNode) {
		if n == nil {
			return
		}
		walk(n.Left)
		walk(n.Right)
		n.PostID = len(out)
		out = append(out, n)
	}
	walk(root)
	return out
}

// TopTwigLabel is a subgraph root's own label concatenated with its left
// and right child labels, label.None where a child is missing. Tang's
// index bucketizes subgraphs by this key.
type TopTwigLabel struct {
	Own, L, R label.ID
}

func topTwig(n *BinaryNode) TopTwigLabel {
	t := TopTwigLabel{Own: n.Label, L: label.None, R: label.None}
	if n.Left != nil {
		t.L = n.Left.Label
	}
	if n.Right != nil {
		t.R = n.Right.Label
	}
	return t
}

// TangKey addresses one bucket of the three-level index: owning tree
// size, subgraph-root postorder position, top-twig label.
type TangKey struct {
	Size int
	Post int
	Twig TopTwigLabel
}

type tangEntry struct {
	treeID int
	root   *BinaryNode
}

// TangIndex is the size -> postorder-window -> top-twig-label subgraph
// index from Tang's partition join. Trees of at least delta nodes are
// partitioned into up to delta node-disjoint subgraphs of at least
// gamma nodes each; each subgraph is indexed across the postorder
// window [post-lambda, post+lambda] with lambda = max(0, tau -
// subgraph_ordinal/2).
type TangIndex struct {
	Delta int
	Tau   int

	byKey     map[TangKey][]tangEntry
	ilLookups int
}

// NewTangIndex returns an empty index for partition count delta at join
// threshold tau.
func NewTangIndex(delta, tau int) *TangIndex {
	return &TangIndex{Delta: delta, Tau: tau, byKey: make(map[TangKey][]tangEntry)}
}

// GetNumberOfILLookups returns the number of index entries scanned by
// Probe calls so far.
func (idx *TangIndex) GetNumberOfILLookups() int { return idx.ilLookups }

// Insert partitions root (owning treeSize nodes) and indexes the carved
// subgraphs. The tree must have at least Delta nodes.
func (idx *TangIndex) Insert(treeID int, root *BinaryNode, treeSize int) {
	gamma := maxMinSize(root, treeSize, idx.Delta)
	post, subgraphID := 0, 0
	idx.updateInvertedList(root, gamma, treeSize, treeID, &post, &subgraphID)
}

// maxMinSize finds the largest gamma such that the tree is
// (delta,gamma)-partitionable, by binary search between size/delta and
// the smallest gamma that could still fit delta subgraphs.
func maxMinSize(root *BinaryNode, treeSize, delta int) int {
	gammaMax := treeSize / delta
	gammaMin := (treeSize + delta - 1) / (2*delta - 1)
	c := gammaMax - gammaMin + 1
	for c > 1 {
		mid := gammaMin + c/2
		found := 0
		if recursivePartitionable(root, delta, mid, &found) {
			gammaMin = mid
			c = c - c/2
		} else {
			c = c / 2
		}
	}
	return gammaMin
}

// recursivePartitionable greedily carves bottom-up subgraphs of at
// least gamma non-detached nodes, returning true once delta of them
// exist.
func recursivePartitionable(n *BinaryNode, delta, gamma int, found *int) bool {
	n.subgraphSize = 1
	n.detached = 0
	if n.Left != nil {
		if recursivePartitionable(n.Left, delta, gamma, found) {
			return true
		}
		n.subgraphSize += n.Left.subgraphSize
		n.detached += n.Left.detached
	}
	if n.Right != nil {
		if recursivePartitionable(n.Right, delta, gamma, found) {
			return true
		}
		n.subgraphSize += n.Right.subgraphSize
		n.detached += n.Right.detached
	}
	if n.subgraphSize-n.detached >= gamma {
		*found++
		n.detached = n.subgraphSize
		if *found >= delta {
			return true
		}
	}
	return false
}

// updateInvertedList repeats the greedy carve, assigning binary
// postorder ids as it goes, and indexes each carved subgraph root
// across its postorder window. Stops after Delta subgraphs.
func (idx *TangIndex) updateInvertedList(n *BinaryNode, gamma, treeSize, treeID int, post, subgraphID *int) bool {
	n.subgraphSize = 1
	n.detached = 0
	if n.Left != nil {
		if idx.updateInvertedList(n.Left, gamma, treeSize, treeID, post, subgraphID) {
			return true
		}
		n.subgraphSize += n.Left.subgraphSize
		n.detached += n.Left.detached
	}
	if n.Right != nil {
		if idx.updateInvertedList(n.Right, gamma, treeSize, treeID, post, subgraphID) {
			return true
		}
		n.subgraphSize += n.Right.subgraphSize
		n.detached += n.Right.detached
	}

	n.PostID = *post
	*post++

	if n.subgraphSize-n.detached >= gamma {
		*subgraphID++
		n.detached = n.subgraphSize

		twig := topTwig(n)
		lambda := idx.Tau - *subgraphID/2
		if lambda < 0 {
			lambda = 0
		}
		lo := n.PostID - lambda
		if lo < 0 {
			lo = 0
		}
		for p := lo; p <= n.PostID+lambda; p++ {
			key := TangKey{Size: treeSize, Post: p, Twig: twig}
			idx.byKey[key] = append(idx.byKey[key], tangEntry{treeID: treeID, root: n})
		}

		if *subgraphID >= idx.Delta {
			return true
		}
	}
	return false
}

// Probe looks up node (at binary postorder position post of the probing
// tree) against subgraphs of indexed trees of the given size, trying
// the four top-twig variants the probe node admits, and returns the
// owning tree ids whose subgraph structurally matches.
func (idx *TangIndex) Probe(node *BinaryNode, size, post int) []int {
	var out []int
	try := func(tw TopTwigLabel) {
		for _, e := range idx.byKey[TangKey{Size: size, Post: post, Twig: tw}] {
			idx.ilLookups++
			if checkSubgraphs(node, e.root) {
				out = append(out, e.treeID)
			}
		}
	}
	if node.Left != nil && node.Right != nil {
		try(TopTwigLabel{Own: node.Label, L: node.Left.Label, R: node.Right.Label})
	}
	if node.Left != nil {
		try(TopTwigLabel{Own: node.Label, L: node.Left.Label, R: label.None})
	}
	if node.Right != nil {
		try(TopTwigLabel{Own: node.Label, L: label.None, R: node.Right.Label})
	}
	try(TopTwigLabel{Own: node.Label, L: label.None, R: label.None})
	return out
}

// checkSubgraphs reports whether the indexed subgraph rooted at b is
// structurally identical to the probe tree at a: labels equal,
// recursing only into b-children that are not themselves fully
// detached (those belong to other subgraphs of b's tree).
func checkSubgraphs(a, b *BinaryNode) bool {
	if a.Label != b.Label {
		return false
	}
	if b.Left != nil && b.Left.subgraphSize != b.Left.detached {
		if a.Left == nil || !checkSubgraphs(a.Left, b.Left) {
			return false
		}
	}
	if b.Right != nil && b.Right.subgraphSize != b.Right.detached {
		if a.Right == nil || !checkSubgraphs(a.Right, b.Right) {
			return false
		}
	}
	return true
}
