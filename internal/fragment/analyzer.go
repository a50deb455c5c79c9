package fragment

import (
	"probe/internal/binding"
	"probe/internal/cache"
	"probe/internal/sema"
)

// Analyzer is the single entry point of the fragment engine. Construction
// is two-phase: leaf collaborators are built first, then the analyzer is
// assembled with every dependency supplied up front; nothing is wired after
// construction.
type Analyzer struct {
	refiner   *AnchorRefiner
	contexts  *ContextResolver
	fragments *FragmentResolver
}

// NewAnalyzer assembles the engine over an analyzed program. res may be
// nil, in which case a fresh cache over the program's element resolution is
// created.
func NewAnalyzer(program *sema.Program, res *cache.Resolution, opts Options) *Analyzer {
	if res == nil {
		res = cache.NewResolution(program.ResolveElementContext)
	}
	nodes := program.Nodes()

	refiner := NewAnchorRefiner(nodes)
	classes := NewClassContextResolver(nodes, program, res)
	contexts := NewContextResolver(nodes, program, res, classes)
	enricher := NewScopeEnricher(program.Builder().Strings, program)
	fragments := NewFragmentResolver(nodes, program, enricher, opts)

	return &Analyzer{
		refiner:   refiner,
		contexts:  contexts,
		fragments: fragments,
	}
}

// Analyze resolves one fragment and returns its overlay. The overlay is
// transient: nothing about the fragment survives the call, and the
// program's base context is never mutated.
func (a *Analyzer) Analyze(frag *Fragment, mode cache.DepthMode) *binding.Overlay {
	anchor := a.refiner.Refine(frag.Context)
	rc := a.contexts.Resolve(anchor, mode)
	return a.fragments.Resolve(frag, rc)
}
