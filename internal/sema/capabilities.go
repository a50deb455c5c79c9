package sema

import (
	"probe/internal/ast"
	"probe/internal/binding"
	"probe/internal/diag"
	"probe/internal/flow"
	"probe/internal/scope"
	"probe/internal/types"
)

// InferExprType infers the type of expr against sc with the given flow
// facts, recording bindings and diagnostics into the overlay. The base
// context behind the overlay is never written.
func (p *Program) InferExprType(sc *scope.Scope, expr ast.NodeID, expected types.TypeID, facts flow.Facts, sink *binding.Overlay, isStatement bool) types.TypeID {
	a := &analyzer{p: p, rec: sink, reporter: sink.Reporter(), facts: facts}
	return a.inferExpr(sc, expr, expected, isStatement)
}

// ResolveTypeRef resolves a type reference against sc into the overlay.
// Bare generic references are rejected unless allowBare is set; with
// suppressDiagnostics no diagnostics are produced at all.
func (p *Program) ResolveTypeRef(sc *scope.Scope, sink *binding.Overlay, allowBare, suppressDiagnostics bool, ref ast.NodeID) types.TypeID {
	var reporter diag.Reporter
	if !suppressDiagnostics {
		reporter = sink.Reporter()
	}
	a := &analyzer{p: p, rec: sink, reporter: reporter}
	return a.resolveTypeRef(sc, ref, allowBare)
}

// ResolveImport resolves one textual import directive into an importing
// scope layer. Returns (nil, false) for malformed or unresolvable
// directives; callers drop those silently.
func (p *Program) ResolveImport(directive string) (*scope.Scope, bool) {
	bindings, ok := p.modules.ResolveDirective(directive)
	if !ok {
		return nil, false
	}
	layer := scope.New(scope.LayerImporting, nil)
	for _, b := range bindings {
		layer.Bind(b)
	}
	return layer, true
}

// RunPreliminaryPass forward-declares what the main pipeline would register
// before fully typing a statement: declared types of local properties and
// signatures of local functions, resolved leniently and recorded into the
// overlay. Resolution failures here stay silent; full typing reports them.
func (p *Program) RunPreliminaryPass(sc *scope.Scope, expr ast.NodeID, sink *binding.Overlay) {
	a := &analyzer{p: p, rec: sink, reporter: nil}
	nodes := p.builder.Nodes
	declarations := []ast.NodeID{expr}
	if nodes.Kind(expr) == ast.KindBlock {
		declarations = nodes.Get(expr).Children
	}
	for _, decl := range declarations {
		node := nodes.Get(decl)
		if node == nil {
			continue
		}
		switch node.Kind {
		case ast.KindProperty:
			if node.TypeRef.IsValid() {
				a.rec.RecordType(decl, a.resolveTypeRef(sc, node.TypeRef, true))
			}
		case ast.KindFuncDecl:
			a.funcType(sc, decl)
		}
	}
}
