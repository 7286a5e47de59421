// Package bracket parses the external bracket-notation tree format:
// {label{childL{...}}{childR{...}}...}. Labels are opaque strings; this
// parser does no validation beyond well-formedness of the braces.
package bracket

import (
	"fmt"
	"strings"

	"github.com/treesimjoin/simjoin/pkg/apperr"
)

// Node is a parsed bracket-notation tree node.
type Node struct {
	Label    string
	Children []*Node
}

// Parse parses a single bracket string into a Node tree. The string must
// be a single top-level {...} group; surrounding whitespace is trimmed.
func Parse(s string) (*Node, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "empty input")
	}
	p := &parser{s: s}
	n, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.s) {
		return nil, apperr.New(apperr.CodeInvalidInput, fmt.Sprintf("trailing data at offset %d", p.pos))
	}
	return n, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) parseNode() (*Node, error) {
	if p.pos >= len(p.s) || p.s[p.pos] != '{' {
		return nil, apperr.New(apperr.CodeInvalidInput, fmt.Sprintf("expected '{' at offset %d", p.pos))
	}
	p.pos++ // consume '{'

	labelStart := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != '{' && p.s[p.pos] != '}' {
		p.pos++
	}
	if p.pos >= len(p.s) {
		return nil, apperr.New(apperr.CodeInvalidInput, fmt.Sprintf("unterminated node starting at offset %d", labelStart))
	}
	node := &Node{Label: p.s[labelStart:p.pos]}

	for p.pos < len(p.s) && p.s[p.pos] == '{' {
		child, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	if p.pos >= len(p.s) || p.s[p.pos] != '}' {
		return nil, apperr.New(apperr.CodeInvalidInput, fmt.Sprintf("expected '}' at offset %d", p.pos))
	}
	p.pos++ // consume '}'
	return node, nil
}

// Size returns the node count of the subtree rooted at n.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Size()
	}
	return total
}

// String reconstructs the bracket-notation form of n.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteByte('{')
	b.WriteString(n.Label)
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteByte('}')
}

// JSONKind classifies a label by its lexical form for the JSON tree
// variant: "{}" is an object, "[]" is an array, a label ending in ":"
// is a key, anything else is a scalar value.
type JSONKind int

const (
	// KindValue is a scalar JSON value (string/number/bool/null).
	KindValue JSONKind = iota
	// KindObject is a JSON object node, labeled "{}".
	KindObject
	// KindArray is a JSON array node, labeled "[]".
	KindArray
	// KindKey is an object member key, labeled with a trailing ":".
	KindKey
)

// ClassifyJSON returns the JSONKind implied by a label's lexical form.
func ClassifyJSON(label string) JSONKind {
	switch {
	case label == "{}":
		return KindObject
	case label == "[]":
		return KindArray
	case strings.HasSuffix(label, ":"):
		return KindKey
	default:
		return KindValue
	}
}
