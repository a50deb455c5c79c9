package fragment

import (
	"probe/internal/ast"
)

// AnchorKind classifies canonical anchors. Context resolution dispatches
// exhaustively over this tag.
type AnchorKind uint8

const (
	AnchorNone AnchorKind = iota
	AnchorPrimaryCtor
	AnchorSecondaryCtor
	AnchorClass
	AnchorFile
	AnchorElement
)

func (k AnchorKind) String() string {
	switch k {
	case AnchorPrimaryCtor:
		return "primary-ctor"
	case AnchorSecondaryCtor:
		return "secondary-ctor"
	case AnchorClass:
		return "class"
	case AnchorFile:
		return "file"
	case AnchorElement:
		return "element"
	default:
		return "none"
	}
}

// Anchor is the canonical context point derived from a raw context node.
type Anchor struct {
	Kind AnchorKind
	Node ast.NodeID
}

// AnchorRefiner maps raw context nodes to canonical anchors. Pure; holds
// only the node arena.
type AnchorRefiner struct {
	nodes *ast.Nodes
}

func NewAnchorRefiner(nodes *ast.Nodes) *AnchorRefiner {
	return &AnchorRefiner{nodes: nodes}
}

// Refine applies the first-match refinement rules once and classifies the
// result. Already-canonical anchors map to themselves.
func (r *AnchorRefiner) Refine(raw ast.NodeID) Anchor {
	node := r.canonicalize(raw)
	return r.classify(node)
}

func (r *AnchorRefiner) canonicalize(raw ast.NodeID) ast.NodeID {
	node := r.nodes.Get(raw)
	if node == nil {
		return ast.NoNodeID
	}
	switch node.Kind {
	case ast.KindParam:
		return r.nodes.EnclosingFunction(raw)
	case ast.KindProperty:
		// Delegate or initializer; a bare declaration anchors at itself.
		if node.Init.IsValid() {
			return node.Init
		}
		return raw
	case ast.KindPrimaryCtor, ast.KindSecondaryCtor:
		return raw
	case ast.KindLambdaExpr:
		// Last statement of the body; an empty lambda has no anchor.
		return r.nodes.LastChild(node.Body)
	case ast.KindFuncDecl:
		if node.Body.IsValid() {
			return node.Body
		}
		return raw
	case ast.KindBlock:
		return r.nodes.LastChild(raw)
	default:
		if node.Kind.IsProgramElement() {
			return raw
		}
		return ast.NoNodeID
	}
}

func (r *AnchorRefiner) classify(node ast.NodeID) Anchor {
	switch r.nodes.Kind(node) {
	case ast.KindInvalid:
		return Anchor{Kind: AnchorNone}
	case ast.KindPrimaryCtor:
		return Anchor{Kind: AnchorPrimaryCtor, Node: node}
	case ast.KindSecondaryCtor:
		return Anchor{Kind: AnchorSecondaryCtor, Node: node}
	case ast.KindClassDecl, ast.KindObjectDecl:
		return Anchor{Kind: AnchorClass, Node: node}
	case ast.KindFile:
		return Anchor{Kind: AnchorFile, Node: node}
	default:
		return Anchor{Kind: AnchorElement, Node: node}
	}
}
