package lineage

import "strings"

// Node is one vertex of an explanation graph. AND nodes mean all children are
// jointly required, OR nodes mean any one child suffices, unknown nodes mark
// provenance that could not be determined, and object nodes are terminals
// pointing at a designated object. The variant set is closed.
type Node interface {
	// ID returns the node's identifier, unique within the tracer run that
	// created it.
	ID() int
	// Children returns the node's ordered child sequence. The slice is owned
	// by the node; callers must not mutate it.
	Children() []Node
	// AddChild appends a child. AND nodes splice the children of AND
	// children directly in, OR nodes do the same for OR children, and
	// unknown nodes accept no children at all.
	AddChild(child Node)
	String() string

	render(sb *strings.Builder, depth int)
	isNode()
}

type nodeBase struct {
	id       int
	children []Node
}

func (n *nodeBase) ID() int {
	return n.id
}

func (n *nodeBase) Children() []Node {
	return n.children
}

func (n *nodeBase) renderChildren(sb *strings.Builder, depth int) {
	for _, child := range n.children {
		child.render(sb, depth)
	}
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteByte(' ')
	}
}

// AndNode explains its parent through the conjunction of all its children.
type AndNode struct {
	nodeBase
}

func (n *AndNode) AddChild(child Node) {
	if child == nil {
		return
	}
	// An AND of ANDs is one AND.
	if and, ok := child.(*AndNode); ok {
		n.children = append(n.children, and.children...)
		return
	}
	n.children = append(n.children, child)
}

func (n *AndNode) String() string {
	var sb strings.Builder
	n.render(&sb, 0)
	return sb.String()
}

func (n *AndNode) render(sb *strings.Builder, depth int) {
	indent(sb, depth)
	sb.WriteString("^\n")
	n.renderChildren(sb, depth+1)
}

func (*AndNode) isNode() {}

// OrNode explains its parent through any one of its children.
type OrNode struct {
	nodeBase
}

func (n *OrNode) AddChild(child Node) {
	if child == nil {
		return
	}
	if or, ok := child.(*OrNode); ok {
		n.children = append(n.children, or.children...)
		return
	}
	n.children = append(n.children, child)
}

func (n *OrNode) String() string {
	var sb strings.Builder
	n.render(&sb, 0)
	return sb.String()
}

func (n *OrNode) render(sb *strings.Builder, depth int) {
	indent(sb, depth)
	sb.WriteString("v\n")
	n.renderChildren(sb, depth+1)
}

func (*OrNode) isNode() {}

// UnknownNode is a terminal marker for provenance that could not be resolved.
type UnknownNode struct {
	nodeBase
}

// AddChild is a no-op: unknown nodes are terminal.
func (n *UnknownNode) AddChild(Node) {}

func (n *UnknownNode) String() string {
	var sb strings.Builder
	n.render(&sb, 0)
	return sb.String()
}

func (n *UnknownNode) render(sb *strings.Builder, depth int) {
	indent(sb, depth)
	sb.WriteString("?\n")
}

func (*UnknownNode) isNode() {}

// ObjectNode is a terminal pointing at a designated object. The tracer
// guarantees at most one instance per distinct designated object within a
// run, so object nodes may be shared between parents and the graph is a DAG.
type ObjectNode struct {
	nodeBase
	designated DesignatedObject
}

// Designated returns the designated object this node points at.
func (n *ObjectNode) Designated() DesignatedObject {
	return n.designated
}

func (n *ObjectNode) AddChild(child Node) {
	if child == nil {
		return
	}
	n.children = append(n.children, child)
}

func (n *ObjectNode) String() string {
	var sb strings.Builder
	n.render(&sb, 0)
	return sb.String()
}

func (n *ObjectNode) render(sb *strings.Builder, depth int) {
	indent(sb, depth)
	sb.WriteString(n.designated.String())
	sb.WriteByte('\n')
	n.renderChildren(sb, depth+1)
}

func (*ObjectNode) isNode() {}
