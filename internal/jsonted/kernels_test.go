package jsonted

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// jsonObj builds a JSON object node with the given key/value children,
// jsonArr an array node, jsonKey a single-child key node, jsonVal a leaf.
func jsonObj(children ...*bracket.Node) *bracket.Node {
	return &bracket.Node{Label: "{}", Children: children}
}

func jsonArr(children ...*bracket.Node) *bracket.Node {
	return &bracket.Node{Label: "[]", Children: children}
}

func jsonKey(name string, value *bracket.Node) *bracket.Node {
	return &bracket.Node{Label: name + ":", Children: []*bracket.Node{value}}
}

func jsonVal(v string) *bracket.Node {
	return &bracket.Node{Label: v}
}

// testDict is shared by every buildJSON call so label ids are comparable
// across the trees a test compares.
var testDict = label.New()

func buildJSON(root *bracket.Node) *treeindex.Index {
	return treeindex.Build(root, testDict, treeindex.CapAll)
}

func TestJEDIIdenticalTreesAreZero(t *testing.T) {
	root := jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2")))
	t1 := buildJSON(root)
	t2 := buildJSON(root)
	model := costmodel.Unit{}
	assert.Zero(t, NewJEDI().TED(t1, t2, model))
}

func TestJEDIObjectChildrenAreUnordered(t *testing.T) {
	model := costmodel.Unit{}
	a := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2"))))
	b := buildJSON(jsonObj(jsonKey("b", jsonVal("2")), jsonKey("a", jsonVal("1"))))
	assert.Zero(t, NewJEDI().TED(a, b, model), "reordering object members must cost nothing")
}

func TestJEDIArrayChildrenAreOrdered(t *testing.T) {
	model := costmodel.Unit{}
	a := buildJSON(jsonArr(jsonVal("1"), jsonVal("2")))
	b := buildJSON(jsonArr(jsonVal("2"), jsonVal("1")))
	dist := NewJEDI().TED(a, b, model)
	assert.Greater(t, dist, 0.0, "reordering array elements must cost something")
}

func TestJEDITypeMismatchForbidsRename(t *testing.T) {
	model := costmodel.Unit{}
	obj := buildJSON(jsonObj(jsonKey("a", jsonVal("1"))))
	arr := buildJSON(jsonArr(jsonVal("1")))
	dist := NewJEDI().TED(obj, arr, model)
	// The object and array wrappers cannot be renamed into each other
	// (del {} + ins []), the key is deleted, and the two "1" values map:
	// 2 + 1 + 0.
	assert.Equal(t, 3.0, dist)
}

func TestJOFilterAgreesWithJEDIWhenTauLarge(t *testing.T) {
	model := costmodel.Unit{}
	a := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2"))))
	b := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("c", jsonVal("3"))))

	want := NewJEDI().TED(a, b, model)

	a2 := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2"))))
	b2 := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("c", jsonVal("3"))))
	got := NewJOFilter().TedTau(a2, b2, model, a2.Size+b2.Size)
	assert.Equal(t, want, got)
}

func TestJOFilterExceedsTauWhenPruned(t *testing.T) {
	model := costmodel.Unit{}
	a := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2")), jsonKey("c", jsonVal("3"))))
	b := buildJSON(jsonArr(jsonVal("1"), jsonVal("2"), jsonVal("3")))
	dist := NewJOFilter().TedTau(a, b, model, 1)
	assert.Greater(t, dist, 1.0, "a result within a pruned band must still certify ted > tau")
}

func TestDPJEDIsUpperBoundOnJEDI(t *testing.T) {
	model := costmodel.Unit{}
	a := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2")), jsonKey("c", jsonVal("3"))))
	b := buildJSON(jsonObj(jsonKey("a", jsonVal("9")), jsonKey("c", jsonVal("2")), jsonKey("b", jsonVal("3"))))

	exact := NewJEDI().TED(a, b, model)

	a2 := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2")), jsonKey("c", jsonVal("3"))))
	b2 := buildJSON(jsonObj(jsonKey("a", jsonVal("9")), jsonKey("c", jsonVal("2")), jsonKey("b", jsonVal("3"))))
	upper := NewDPJED().TED(a2, b2, model)

	assert.GreaterOrEqual(t, upper, exact)
}

func TestModPJEDIsUpperBoundOnJEDI(t *testing.T) {
	model := costmodel.Unit{}
	a := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2"))))
	b := buildJSON(jsonObj(jsonKey("a", jsonVal("2")), jsonKey("b", jsonVal("1"))))

	exact := NewJEDI().TED(a, b, model)

	a2 := buildJSON(jsonObj(jsonKey("a", jsonVal("1")), jsonKey("b", jsonVal("2"))))
	b2 := buildJSON(jsonObj(jsonKey("a", jsonVal("2")), jsonKey("b", jsonVal("1"))))
	upper := NewModPJED().TED(a2, b2, model)

	assert.GreaterOrEqual(t, upper, exact)
}
