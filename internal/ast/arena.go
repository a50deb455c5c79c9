package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Nodes stores all allocated nodes in a compact slice-based arena.
type Nodes struct {
	data []Node
}

// NewNodes creates an arena with optional capacity hint.
func NewNodes(capacity uint32) *Nodes {
	if capacity == 0 {
		capacity = 64
	}
	return &Nodes{
		data: make([]Node, 1, capacity+1), // index 0 reserved for NoNodeID
	}
}

// New allocates a node and returns its ID. Parent links of children are not
// touched here; the builder wires them.
func (n *Nodes) New(node Node) NodeID {
	value, err := safecast.Conv[uint32](len(n.data))
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	id := NodeID(value)
	n.data = append(n.data, node)
	return id
}

// Get returns the node pointer or nil if ID is invalid.
func (n *Nodes) Get(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(n.data) {
		return nil
	}
	return &n.data[id]
}

// Len reports total number of nodes excluding the sentinel.
func (n *Nodes) Len() int { return len(n.data) - 1 }

// Kind returns the node kind, KindInvalid for bad IDs.
func (n *Nodes) Kind(id NodeID) NodeKind {
	node := n.Get(id)
	if node == nil {
		return KindInvalid
	}
	return node.Kind
}

// Parent returns the parent ID, NoNodeID at roots or for bad IDs.
func (n *Nodes) Parent(id NodeID) NodeID {
	node := n.Get(id)
	if node == nil {
		return NoNodeID
	}
	return node.Parent
}

// LastChild returns the last child of id, NoNodeID when empty.
func (n *Nodes) LastChild(id NodeID) NodeID {
	node := n.Get(id)
	if node == nil || len(node.Children) == 0 {
		return NoNodeID
	}
	return node.Children[len(node.Children)-1]
}

// EnclosingFunction walks up from id to the nearest function-like owner:
// a func declaration, a constructor, or a lambda. NoNodeID when none.
func (n *Nodes) EnclosingFunction(id NodeID) NodeID {
	for cur := n.Parent(id); cur.IsValid(); cur = n.Parent(cur) {
		switch n.Kind(cur) {
		case KindFuncDecl, KindPrimaryCtor, KindSecondaryCtor, KindLambdaExpr:
			return cur
		}
	}
	return NoNodeID
}

// OwningClass walks up from id to the nearest class or object declaration.
func (n *Nodes) OwningClass(id NodeID) NodeID {
	for cur := n.Parent(id); cur.IsValid(); cur = n.Parent(cur) {
		switch n.Kind(cur) {
		case KindClassDecl, KindObjectDecl:
			return cur
		}
	}
	return NoNodeID
}

// FileOf walks up from id to the containing file node.
func (n *Nodes) FileOf(id NodeID) NodeID {
	for cur := id; cur.IsValid(); cur = n.Parent(cur) {
		if n.Kind(cur) == KindFile {
			return cur
		}
	}
	return NoNodeID
}

// IsLocal reports whether the declaration is nested inside a function-like
// body, i.e. reachable only along specific control paths.
func (n *Nodes) IsLocal(id NodeID) bool {
	return n.EnclosingFunction(id).IsValid()
}
