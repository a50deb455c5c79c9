// Package flow derives control-flow-sensitive narrowing facts: the
// nullability state of bindings valid at a specific program point.
package flow

import (
	"probe/internal/ast"
	"probe/internal/binding"
	"probe/internal/types"
)

// Facts maps declaration nodes to their narrowed types at one point.
// The zero value is the empty fact set.
type Facts struct {
	narrowed map[ast.NodeID]types.TypeID
}

// Empty returns the empty fact set, used at non-flow anchors.
func Empty() Facts {
	return Facts{}
}

func (f Facts) IsEmpty() bool {
	return len(f.narrowed) == 0
}

func (f Facts) Len() int {
	return len(f.narrowed)
}

// Narrowed returns the narrowed type for a declaration, if any.
func (f Facts) Narrowed(decl ast.NodeID) (types.TypeID, bool) {
	t, ok := f.narrowed[decl]
	return t, ok
}

func (f *Facts) put(decl ast.NodeID, t types.TypeID) {
	if f.narrowed == nil {
		f.narrowed = make(map[ast.NodeID]types.TypeID)
	}
	f.narrowed[decl] = t
}

// At accumulates the facts valid immediately after anchor by inspecting the
// conditions guarding every path that reaches it: for each enclosing if, the
// branch the anchor sits in decides whether the condition holds. Outer
// conditions apply first so inner ones override.
func At(nodes *ast.Nodes, ctx binding.Reader, in *types.Interner, anchor ast.NodeID) Facts {
	if nodes == nil || ctx == nil || !anchor.IsValid() {
		return Empty()
	}

	type guard struct {
		cond    ast.NodeID
		negated bool
	}
	var guards []guard

	cur := anchor
	for parent := nodes.Parent(cur); parent.IsValid(); cur, parent = parent, nodes.Parent(parent) {
		node := nodes.Get(parent)
		if node == nil || node.Kind != ast.KindIf {
			continue
		}
		switch cur {
		case node.Then:
			guards = append(guards, guard{cond: node.Cond})
		case node.Else:
			guards = append(guards, guard{cond: node.Cond, negated: true})
		}
	}

	facts := Empty()
	for i := len(guards) - 1; i >= 0; i-- {
		narrowFromCond(nodes, ctx, in, guards[i].cond, guards[i].negated, &facts)
	}
	return facts
}

// narrowFromCond extracts nullability facts from one guarding condition.
// Recognized shapes: `x != null` (holds ⇒ x non-null) and `x == null`
// (negated ⇒ x non-null).
func narrowFromCond(nodes *ast.Nodes, ctx binding.Reader, in *types.Interner, cond ast.NodeID, negated bool, facts *Facts) {
	node := nodes.Get(cond)
	if node == nil || node.Kind != ast.KindBinaryExpr {
		return
	}

	var nonNullOnTrue bool
	switch node.Op {
	case ast.OpNotEq:
		nonNullOnTrue = true
	case ast.OpEq:
		nonNullOnTrue = false
	default:
		return
	}
	if nonNullOnTrue == negated {
		return
	}

	name := nullComparand(nodes, node.Left, node.Right)
	if !name.IsValid() {
		return
	}
	decl, ok := ctx.RefOf(name)
	if !ok {
		return
	}
	declared, ok := ctx.TypeOf(decl)
	if !ok || !in.IsOptional(declared) {
		return
	}
	facts.put(decl, in.Unwrap(declared))
}

// nullComparand returns the name expression compared against a null literal,
// NoNodeID when the comparison has a different shape.
func nullComparand(nodes *ast.Nodes, left, right ast.NodeID) ast.NodeID {
	if nodes.Kind(left) == ast.KindNameExpr && nodes.Kind(right) == ast.KindNullLit {
		return left
	}
	if nodes.Kind(right) == ast.KindNameExpr && nodes.Kind(left) == ast.KindNullLit {
		return right
	}
	return ast.NoNodeID
}
