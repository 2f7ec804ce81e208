// Package report materializes explanation graphs into a generic insertion
// tree and a JSON document suitable for rendering or transport.
package report

import "fmt"

// NodeType identifies the kind of a report tree node.
type NodeType string

const (
	// TypeObject marks a terminal pointing at a document fragment.
	TypeObject NodeType = "object"
	// TypeAnd marks a conjunction of jointly required children.
	TypeAnd NodeType = "AND"
	// TypeOr marks a disjunction where any one child suffices.
	TypeOr NodeType = "OR"
	// TypeUnknown marks provenance that could not be determined.
	TypeUnknown NodeType = "unknown"
)

// Data is the record carried by one tree node. Object nodes carry the part
// (designator path segments, outermost first) and the subject: a document
// path expression such as "body[1]/section[2]/div[1]", or the literal form
// "constant <value>" for constants.
type Data struct {
	Type    NodeType `json:"type"`
	Part    []string `json:"part,omitempty"`
	Subject string   `json:"subject,omitempty"`
}

type treeNode struct {
	id       int
	data     Data
	children []int
}

// Tree is an insertion-ordered tree of report nodes addressed by integer
// identifiers.
type Tree struct {
	nodes  map[int]*treeNode
	roots  []int
	nextID int
}

// New constructs an empty tree.
func New() *Tree {
	return &Tree{
		nodes: map[int]*treeNode{},
	}
}

// Insert adds a root-level node and returns its identifier.
func (t *Tree) Insert(data Data) int {
	id := t.insert(data)
	t.roots = append(t.roots, id)
	return id
}

// InsertAt adds a node under parent and returns its identifier.
func (t *Tree) InsertAt(parent int, data Data) (int, error) {
	node, ok := t.nodes[parent]
	if !ok {
		return 0, fmt.Errorf("report: unknown parent node %d", parent)
	}
	id := t.insert(data)
	node.children = append(node.children, id)
	return id, nil
}

func (t *Tree) insert(data Data) int {
	id := t.nextID
	t.nextID++
	t.nodes[id] = &treeNode{id: id, data: data}
	return id
}

// Node returns the data stored for id.
func (t *Tree) Node(id int) (Data, bool) {
	node, ok := t.nodes[id]
	if !ok {
		return Data{}, false
	}
	return node.data, true
}

// Children returns a copy of the ordered child identifiers of id.
func (t *Tree) Children(id int) []int {
	node, ok := t.nodes[id]
	if !ok || len(node.children) == 0 {
		return nil
	}
	return append([]int(nil), node.children...)
}

// Roots returns a copy of the root-level identifiers in insertion order.
func (t *Tree) Roots() []int {
	if len(t.roots) == 0 {
		return nil
	}
	return append([]int(nil), t.roots...)
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}
