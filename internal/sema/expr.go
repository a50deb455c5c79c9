package sema

import (
	"fmt"

	"probe/internal/ast"
	"probe/internal/diag"
	"probe/internal/scope"
	"probe/internal/types"
)

// inferExpr types one expression against sc, recording the scope, the type
// and name references into a.rec. Flow facts in a.facts narrow resolved
// bindings. Diagnostics degrade to the error type, never panic.
func (a *analyzer) inferExpr(sc *scope.Scope, expr ast.NodeID, expected types.TypeID, isStatement bool) types.TypeID {
	bt := a.p.types.Builtins()
	node := a.nodes().Get(expr)
	if node == nil {
		return bt.Error
	}
	a.rec.RecordScope(expr, sc)

	var t types.TypeID
	switch node.Kind {
	case ast.KindIntLit:
		t = bt.Int
	case ast.KindStringLit:
		t = bt.String
	case ast.KindNullLit:
		t = bt.Null
	case ast.KindNameExpr:
		t = a.inferName(sc, expr, node)
	case ast.KindBinaryExpr:
		t = a.inferBinary(sc, expr, node)
	case ast.KindCallExpr, ast.KindDelegationCall:
		t = a.inferCall(sc, expr, node)
	case ast.KindLambdaExpr:
		t = a.inferLambda(sc, expr, node)
	case ast.KindBlock:
		t = a.inferBlock(sc, expr, node, isStatement)
	case ast.KindIf:
		t = a.inferIf(sc, expr, node, isStatement)
	default:
		t = bt.Error
	}

	a.rec.RecordType(expr, t)
	_ = expected // no expected-type propagation beyond assignability checks
	return t
}

func (a *analyzer) inferName(sc *scope.Scope, expr ast.NodeID, node *ast.Node) types.TypeID {
	bt := a.p.types.Builtins()
	b, ok := sc.Lookup(node.Name)
	if !ok {
		a.report(diag.ResUnresolvedName, diag.SevError, node.Span,
			fmt.Sprintf("unresolved name '%s'", a.nameOf(node.Name)))
		return bt.Error
	}
	a.rec.RecordRef(expr, b.Node)
	t := b.Type
	if narrowed, has := a.facts.Narrowed(b.Node); has {
		t = narrowed
	}
	if !t.IsValid() {
		t = bt.Error
	}
	return t
}

func (a *analyzer) inferBinary(sc *scope.Scope, expr ast.NodeID, node *ast.Node) types.TypeID {
	bt := a.p.types.Builtins()
	left := a.inferExpr(sc, node.Left, types.NoTypeID, false)
	right := a.inferExpr(sc, node.Right, types.NoTypeID, false)

	switch node.Op {
	case ast.OpEq, ast.OpNotEq:
		// Comparisons tolerate optionals and null literals.
		return bt.Bool
	case ast.OpAdd, ast.OpSub:
		if left == bt.Error || right == bt.Error {
			return bt.Error
		}
		if a.p.types.IsOptional(left) || a.p.types.IsOptional(right) {
			operand := left
			if !a.p.types.IsOptional(operand) {
				operand = right
			}
			a.report(diag.TypeOptionalUnsafe, diag.SevError, node.Span,
				fmt.Sprintf("operand of '%s' has optional type %s and must be unwrapped",
					node.Op, a.p.types.String(operand)))
			return bt.Error
		}
		if left == bt.Int && right == bt.Int {
			return bt.Int
		}
		if node.Op == ast.OpAdd && left == bt.String && right == bt.String {
			return bt.String
		}
		a.report(diag.TypeBadOperands, diag.SevError, node.Span,
			fmt.Sprintf("operator '%s' is not defined for %s and %s",
				node.Op, a.p.types.String(left), a.p.types.String(right)))
		return bt.Error
	default:
		return bt.Error
	}
}

func (a *analyzer) inferCall(sc *scope.Scope, expr ast.NodeID, node *ast.Node) types.TypeID {
	bt := a.p.types.Builtins()
	for _, arg := range node.Children {
		a.inferExpr(sc, arg, types.NoTypeID, false)
	}

	// Constructor calls: a callee name resolving to a class yields an
	// instance of it.
	if callee := a.nodes().Get(node.Left); callee != nil && callee.Kind == ast.KindNameExpr {
		if b, ok := sc.LookupClass(callee.Name); ok {
			a.rec.RecordScope(node.Left, sc)
			a.rec.RecordRef(node.Left, b.Node)
			instance := b.Type
			if !instance.IsValid() {
				instance = a.p.types.Class(callee.Name)
			}
			a.rec.RecordType(node.Left, instance)
			if node.Kind == ast.KindDelegationCall {
				return bt.Unit
			}
			return instance
		}
	}

	calleeType := a.inferExpr(sc, node.Left, types.NoTypeID, false)
	if calleeType == bt.Error {
		return bt.Error
	}
	if fn := a.p.types.Get(calleeType); fn != nil && fn.Kind == types.KindFunc {
		if node.Kind == ast.KindDelegationCall {
			return bt.Unit
		}
		return fn.Elem
	}
	span := a.nodes().Get(expr).Span
	a.report(diag.ResNotCallable, diag.SevError, span,
		fmt.Sprintf("expression of type %s is not callable", a.p.types.String(calleeType)))
	return bt.Error
}

func (a *analyzer) inferLambda(sc *scope.Scope, expr ast.NodeID, node *ast.Node) types.TypeID {
	bt := a.p.types.Builtins()
	paramScope := scope.New(scope.LayerLocal, sc)
	params := make([]types.TypeID, 0, len(node.Children))
	for _, param := range node.Children {
		p := a.nodes().Get(param)
		if p == nil {
			continue
		}
		t := bt.Error
		if p.TypeRef.IsValid() {
			t = a.resolveTypeRef(sc, p.TypeRef, false)
		}
		a.rec.RecordType(param, t)
		paramScope.Bind(scope.Binding{Name: p.Name, Kind: scope.BindValue, Node: param, Type: t})
		params = append(params, t)
	}
	result := bt.Unit
	if node.Body.IsValid() {
		result = a.inferExpr(paramScope, node.Body, types.NoTypeID, false)
	}
	return a.p.types.Func(result, params...)
}

// inferBlock walks statements, growing the local chain so that the scope
// recorded at each statement reflects everything bound up to and including
// it.
func (a *analyzer) inferBlock(sc *scope.Scope, expr ast.NodeID, node *ast.Node, isStatement bool) types.TypeID {
	bt := a.p.types.Builtins()
	cur := scope.New(scope.LayerLocal, sc)
	a.rec.RecordScope(expr, cur)

	last := bt.Unit
	for _, stmt := range node.Children {
		s := a.nodes().Get(stmt)
		if s == nil {
			continue
		}
		switch s.Kind {
		case ast.KindProperty:
			var declared types.TypeID
			if s.TypeRef.IsValid() {
				declared = a.resolveTypeRef(cur, s.TypeRef, false)
			}
			var got types.TypeID
			if s.Init.IsValid() {
				got = a.inferExpr(cur, s.Init, declared, false)
			}
			t := declared
			if !t.IsValid() {
				t = got
			}
			if !t.IsValid() {
				t = bt.Error
			}
			if declared.IsValid() && got.IsValid() {
				a.checkAssignable(declared, got, s.Span)
			}
			a.rec.RecordType(stmt, t)
			cur = scope.New(scope.LayerLocal, cur)
			cur.Bind(scope.Binding{Name: s.Name, Kind: scope.BindValue, Node: stmt, Type: t})
			a.rec.RecordScope(stmt, cur)
			last = bt.Unit
		case ast.KindClassDecl, ast.KindObjectDecl:
			// Local class: visible from its declaration onward, reachable
			// only along paths through this block.
			desc := a.buildDescriptor(cur, stmt, true)
			cur = scope.New(scope.LayerLocal, cur)
			if desc != nil {
				cur.Bind(scope.Binding{Name: desc.Name, Kind: scope.BindClass, Node: stmt, Type: desc.Type})
			}
			a.rec.RecordScope(stmt, cur)
			a.walkClassBodies(stmt)
			last = bt.Unit
		case ast.KindFuncDecl:
			t := a.funcType(cur, stmt)
			cur = scope.New(scope.LayerLocal, cur)
			cur.Bind(scope.Binding{Name: s.Name, Kind: scope.BindFunc, Node: stmt, Type: t})
			a.rec.RecordScope(stmt, cur)
			a.walkFuncBody(cur, stmt)
			last = bt.Unit
		default:
			last = a.inferExpr(cur, stmt, types.NoTypeID, true)
		}
	}
	if isStatement {
		return bt.Unit
	}
	return last
}

func (a *analyzer) inferIf(sc *scope.Scope, expr ast.NodeID, node *ast.Node, isStatement bool) types.TypeID {
	bt := a.p.types.Builtins()
	cond := a.inferExpr(sc, node.Cond, types.NoTypeID, false)
	if cond != bt.Bool && cond != bt.Error {
		a.report(diag.TypeConditionNotBool, diag.SevError, a.nodes().Get(node.Cond).Span,
			fmt.Sprintf("condition has type %s, expected Bool", a.p.types.String(cond)))
	}

	thenType := bt.Unit
	if node.Then.IsValid() {
		thenType = a.inferExpr(sc, node.Then, types.NoTypeID, isStatement)
	}
	elseType := bt.Unit
	if node.Else.IsValid() {
		elseType = a.inferExpr(sc, node.Else, types.NoTypeID, isStatement)
	}
	if isStatement || !node.Else.IsValid() {
		return bt.Unit
	}
	if thenType == elseType {
		return thenType
	}
	return bt.Unit
}
