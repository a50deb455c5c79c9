package sema

import (
	"fmt"

	"probe/internal/ast"
	"probe/internal/diag"
	"probe/internal/scope"
	"probe/internal/types"
)

// resolveTypeRef resolves a type reference against sc. Bare references to
// generic types are rejected unless allowBare is set. The resolved type is
// recorded on the reference node.
func (a *analyzer) resolveTypeRef(sc *scope.Scope, ref ast.NodeID, allowBare bool) types.TypeID {
	bt := a.p.types.Builtins()
	node := a.nodes().Get(ref)
	if node == nil || node.Kind != ast.KindTypeRef {
		return bt.Error
	}

	b, ok := sc.LookupClass(node.Name)
	if !ok {
		a.report(diag.ResUnresolvedType, diag.SevError, node.Span,
			fmt.Sprintf("unresolved type '%s'", a.nameOf(node.Name)))
		a.rec.RecordType(ref, bt.Error)
		return bt.Error
	}

	arity := b.TypeParams
	argCount := len(node.Children)
	var t types.TypeID
	switch {
	case argCount == 0 && arity > 0:
		if !allowBare {
			a.report(diag.ResBareGenericType, diag.SevError, node.Span,
				fmt.Sprintf("type '%s' requires %d type argument(s)", a.nameOf(node.Name), arity))
			t = bt.Error
			break
		}
		t = a.p.types.Class(node.Name)
	case argCount != arity:
		a.report(diag.ResWrongTypeArity, diag.SevError, node.Span,
			fmt.Sprintf("type '%s' expects %d type argument(s), got %d", a.nameOf(node.Name), arity, argCount))
		t = bt.Error
	case argCount == 0:
		t = b.Type
		if !t.IsValid() {
			t = a.p.types.Class(node.Name)
		}
	default:
		args := make([]types.TypeID, 0, argCount)
		for _, arg := range node.Children {
			args = append(args, a.resolveTypeRef(sc, arg, allowBare))
		}
		t = a.p.types.Class(node.Name, args...)
	}

	if node.Flags&ast.FlagOptional != 0 && t != bt.Error {
		t = a.p.types.Optional(t)
	}
	a.rec.RecordType(ref, t)
	return t
}
