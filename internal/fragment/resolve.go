package fragment

import (
	"probe/internal/ast"
	"probe/internal/binding"
	"probe/internal/sema"
	"probe/internal/types"
)

// FragmentResolver resolves fragment content against an enriched scope,
// producing the write-isolated overlay.
type FragmentResolver struct {
	nodes    *ast.Nodes
	program  *sema.Program
	enricher *ScopeEnricher
	opts     Options
}

func NewFragmentResolver(nodes *ast.Nodes, program *sema.Program, enricher *ScopeEnricher, opts Options) *FragmentResolver {
	return &FragmentResolver{nodes: nodes, program: program, enricher: enricher, opts: opts}
}

// Resolve runs the content-kind dispatch: expressions get the preliminary
// declaration pass and unconstrained type inference under the anchor's flow
// facts; type references resolve with bare generics disallowed; anything
// else leaves the overlay empty.
func (r *FragmentResolver) Resolve(frag *Fragment, rc ResolutionContext) *binding.Overlay {
	suppress := frag.Debug && r.opts.SuppressDebugWarnings
	overlay := binding.NewOverlay(rc.Context, r.opts.MaxDiagnostics, suppress)

	enriched := r.enricher.Enrich(rc.Scope, frag)

	switch kind := r.nodes.Kind(frag.Content); {
	case kind == ast.KindTypeRef:
		r.program.ResolveTypeRef(enriched, overlay, false, suppress, frag.Content)
	case kind.IsExpr():
		if r.opts.PreliminaryPass {
			r.program.RunPreliminaryPass(enriched, frag.Content, overlay)
		}
		r.program.InferExprType(enriched, frag.Content, types.NoTypeID, rc.Flow, overlay, false)
	default:
		// Other content kinds carry nothing to resolve.
	}
	return overlay
}
