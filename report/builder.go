package report

import (
	"fmt"

	lineage "github.com/goliatone/go-lineage"
)

// FromExplanation materializes the explanation's graph into a tree.
func FromExplanation(explanation lineage.Explanation) *Tree {
	return FromGraph(explanation.Root)
}

// FromGraph walks the node graph rooted at root and inserts one tree node per
// graph vertex. Object nodes shared between parents in the graph appear once
// per parent in the tree, since a tree cannot share subtrees.
func FromGraph(root lineage.Node) *Tree {
	tree := New()
	if root == nil {
		return tree
	}
	id := tree.Insert(dataOf(root))
	insertChildren(tree, id, root)
	return tree
}

func insertChildren(tree *Tree, parent int, node lineage.Node) {
	for _, child := range node.Children() {
		id, err := tree.InsertAt(parent, dataOf(child))
		if err != nil {
			// The parent was created by this walk, so it always exists.
			continue
		}
		insertChildren(tree, id, child)
	}
}

func dataOf(node lineage.Node) Data {
	switch n := node.(type) {
	case *lineage.AndNode:
		return Data{Type: TypeAnd}
	case *lineage.OrNode:
		return Data{Type: TypeOr}
	case *lineage.UnknownNode:
		return Data{Type: TypeUnknown}
	case *lineage.ObjectNode:
		designated := n.Designated()
		return Data{
			Type:    TypeObject,
			Part:    partOf(designated.Designator()),
			Subject: subjectOf(designated),
		}
	default:
		return Data{Type: TypeUnknown}
	}
}

// partOf decomposes a designator into its access steps, outermost first.
func partOf(d lineage.Designator) []string {
	if d == nil || lineage.EqualDesignators(d, lineage.Nothing) {
		return []string{lineage.Nothing.String()}
	}
	var parts []string
	for !lineage.EqualDesignators(d, lineage.Nothing) {
		parts = append(parts, d.Head().String())
		d = d.Tail()
	}
	return parts
}

// subjectOf renders the subject of a terminal: the object's document path when
// it knows one, the literal form for constants, and a plain rendering
// otherwise.
func subjectOf(designated lineage.DesignatedObject) string {
	object := designated.Object()
	if pathed, ok := object.(lineage.Pathed); ok {
		return pathed.Path()
	}
	if constant, ok := designated.Designator().(lineage.Constant); ok {
		return fmt.Sprintf("constant %v", constant.Value)
	}
	if object == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", object)
}
