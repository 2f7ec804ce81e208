package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DocumentNode is the serialized form of one tree node.
type DocumentNode struct {
	ID       int      `json:"id"`
	Type     NodeType `json:"type"`
	Part     []string `json:"part,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Children []int    `json:"children,omitempty"`
}

// Document is the serialized form of a report tree: nodes in identifier order
// plus the root identifiers.
type Document struct {
	Roots []int          `json:"roots,omitempty"`
	Nodes []DocumentNode `json:"nodes"`
}

// DocumentFromTree flattens a tree into its serialized form.
func DocumentFromTree(tree *Tree) Document {
	doc := Document{Roots: tree.Roots()}
	for id := 0; id < tree.nextID; id++ {
		data, ok := tree.Node(id)
		if !ok {
			continue
		}
		doc.Nodes = append(doc.Nodes, DocumentNode{
			ID:       id,
			Type:     data.Type,
			Part:     data.Part,
			Subject:  data.Subject,
			Children: tree.Children(id),
		})
	}
	return doc
}

// Tree reconstructs the tree the document was flattened from.
func (d Document) Tree() (*Tree, error) {
	tree := New()
	for _, node := range d.Nodes {
		id := tree.insert(Data{Type: node.Type, Part: node.Part, Subject: node.Subject})
		if id != node.ID {
			return nil, fmt.Errorf("report: non-contiguous node identifier %d", node.ID)
		}
	}
	for _, node := range d.Nodes {
		parent := tree.nodes[node.ID]
		for _, child := range node.Children {
			if _, ok := tree.nodes[child]; !ok {
				return nil, fmt.Errorf("report: node %d references unknown child %d", node.ID, child)
			}
			parent.children = append(parent.children, child)
		}
	}
	for _, root := range d.Roots {
		if _, ok := tree.nodes[root]; !ok {
			return nil, fmt.Errorf("report: unknown root node %d", root)
		}
		tree.roots = append(tree.roots, root)
	}
	return tree, nil
}

// ToJSON serialises the document for logging or transport helpers.
func (d Document) ToJSON() ([]byte, error) {
	type alias Document
	return json.Marshal(alias(d))
}

// DocumentFromJSON deserialises a JSON payload that was previously generated
// via ToJSON.
func DocumentFromJSON(payload []byte) (Document, error) {
	type alias Document
	var doc alias
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Document{}, err
	}
	return Document(doc), nil
}

// Digest returns a stable content hash of the document.
func (d Document) Digest() string {
	data, err := d.ToJSON()
	if err != nil {
		// json.Marshal should never fail for the constructed payload; fall back
		// to an empty digest to avoid panics.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
