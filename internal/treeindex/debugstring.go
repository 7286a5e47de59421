package treeindex

import (
	"fmt"
	"strings"

	"github.com/treesimjoin/simjoin/internal/label"
)

// DebugString renders the postorder id, label and parent postorder id of
// every node, one per line, the way the original implementation's
// to_string_converters dumped a tree index for test failures.
func (idx *Index) DebugString(dict *label.Dictionary) string {
	var b strings.Builder
	for postl := 0; postl < idx.Size; postl++ {
		lbl := dict.Label(idx.PostlToLabelID[postl])
		fmt.Fprintf(&b, "%d\t%s\tparent=%d\n", postl, lbl, idx.PostlToParent[postl])
	}
	return b.String()
}
