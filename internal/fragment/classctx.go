package fragment

import (
	"probe/internal/ast"
	"probe/internal/binding"
	"probe/internal/cache"
	"probe/internal/sema"
)

// ClassContextResolver resolves a class/object declaration to its semantic
// descriptor. Globally reachable classes come from the pre-computed
// whole-program context; locally nested ones go through the resolution
// cache, which replays the enclosing body.
type ClassContextResolver struct {
	nodes   *ast.Nodes
	program *sema.Program
	cache   *cache.Resolution
}

func NewClassContextResolver(nodes *ast.Nodes, program *sema.Program, res *cache.Resolution) *ClassContextResolver {
	return &ClassContextResolver{nodes: nodes, program: program, cache: res}
}

// Resolve returns the binding context holding the declaration's facts and
// its class-like descriptor. ok is false when no full class-like descriptor
// with resolution scopes exists; callers treat that as "context
// unavailable".
func (r *ClassContextResolver) Resolve(decl ast.NodeID, mode cache.DepthMode) (*binding.Context, *binding.Descriptor, bool) {
	if !decl.IsValid() {
		return nil, nil, false
	}
	if !r.nodes.IsLocal(decl) {
		// Position-independent: the whole-program pass already holds it.
		if d, ok := binding.ClassLike(r.program.ClassDescriptor(decl)); ok {
			return r.program.Context(), d, true
		}
		return nil, nil, false
	}
	ctx := r.cache.ResolveElement(decl, mode)
	desc, _ := ctx.DescriptorOf(decl)
	if d, ok := binding.ClassLike(desc); ok {
		return ctx, d, true
	}
	return nil, nil, false
}
