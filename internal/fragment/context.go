package fragment

import (
	"probe/internal/ast"
	"probe/internal/binding"
	"probe/internal/cache"
	"probe/internal/flow"
	"probe/internal/scope"
	"probe/internal/sema"
)

// ResolutionContext is the semantic environment derived for one anchor: the
// shared base binding context, the lexical scope chain valid at the anchor,
// and the flow facts valid immediately after it.
type ResolutionContext struct {
	Context *binding.Context
	Scope   *scope.Scope
	Flow    flow.Facts
}

// ContextResolver derives ResolutionContexts by dispatching on the anchor
// kind. It never returns a nil scope: every failure path degrades to a
// fresh resolution-error scope, so downstream resolution fails safely
// instead of crashing.
type ContextResolver struct {
	nodes   *ast.Nodes
	program *sema.Program
	cache   *cache.Resolution
	classes *ClassContextResolver
}

func NewContextResolver(nodes *ast.Nodes, program *sema.Program, res *cache.Resolution, classes *ClassContextResolver) *ContextResolver {
	return &ContextResolver{nodes: nodes, program: program, cache: res, classes: classes}
}

// Resolve maps a canonical anchor to its ResolutionContext.
func (r *ContextResolver) Resolve(anchor Anchor, mode cache.DepthMode) ResolutionContext {
	var rc ResolutionContext
	switch anchor.Kind {
	case AnchorPrimaryCtor:
		rc = r.resolvePrimaryCtor(anchor.Node, mode)
	case AnchorSecondaryCtor:
		rc = r.resolveSecondaryCtor(anchor.Node, mode)
	case AnchorClass:
		rc = r.resolveClass(anchor.Node, mode)
	case AnchorFile:
		rc = r.resolveFile(anchor.Node)
	case AnchorElement:
		rc = r.resolveElement(anchor.Node, mode)
	case AnchorNone:
		rc = ResolutionContext{Context: binding.Empty()}
	}
	if rc.Context == nil {
		rc.Context = binding.Empty()
	}
	if rc.Scope == nil {
		rc.Scope = scope.Error()
	}
	return rc
}

func (r *ContextResolver) resolvePrimaryCtor(ctor ast.NodeID, mode cache.DepthMode) ResolutionContext {
	owner := r.nodes.Parent(ctor)
	ctx, desc, ok := r.classes.Resolve(owner, mode)
	if !ok {
		return ResolutionContext{}
	}
	return ResolutionContext{Context: ctx, Scope: desc.InitScope}
}

// resolveSecondaryCtor anchors at the ctor body, or at the delegation-call
// callee when the body is absent. Flow facts stay empty here; see the
// dedicated test pinning that behavior.
func (r *ContextResolver) resolveSecondaryCtor(ctor ast.NodeID, mode cache.DepthMode) ResolutionContext {
	node := r.nodes.Get(ctor)
	if node == nil {
		return ResolutionContext{}
	}
	element := node.Body
	if !element.IsValid() && node.Init.IsValid() {
		if delegation := r.nodes.Get(node.Init); delegation != nil {
			element = delegation.Left
		}
	}
	if !element.IsValid() {
		return ResolutionContext{}
	}
	ctx := r.cache.ResolveElement(element, mode)
	sc, _ := ctx.ScopeAt(element)
	return ResolutionContext{Context: ctx, Scope: sc}
}

func (r *ContextResolver) resolveClass(decl ast.NodeID, mode cache.DepthMode) ResolutionContext {
	ctx, desc, ok := r.classes.Resolve(decl, mode)
	if !ok {
		return ResolutionContext{}
	}
	return ResolutionContext{Context: ctx, Scope: desc.MemberScope}
}

func (r *ContextResolver) resolveFile(file ast.NodeID) ResolutionContext {
	return ResolutionContext{
		Context: r.program.Context(),
		Scope:   r.program.FileScope(file),
	}
}

func (r *ContextResolver) resolveElement(element ast.NodeID, mode cache.DepthMode) ResolutionContext {
	ctx := r.cache.ResolveElement(element, mode)
	sc, _ := ctx.ScopeAt(element)
	return ResolutionContext{
		Context: ctx,
		Scope:   sc,
		Flow:    flow.At(r.nodes, ctx, r.program.Types(), element),
	}
}
