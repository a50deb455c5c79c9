package fragment

import (
	"probe/internal/scope"
	"probe/internal/sema"
	"probe/internal/source"
)

// ScopeEnricher layers a fragment's ad hoc names onto the base scope: one
// importing layer for the externally supplied descriptors, one per
// resolvable import directive. Layers sit between the anchor's lexical
// bindings and the base scope's own default imports.
type ScopeEnricher struct {
	strings *source.Interner
	program *sema.Program
}

func NewScopeEnricher(strings *source.Interner, program *sema.Program) *ScopeEnricher {
	return &ScopeEnricher{strings: strings, program: program}
}

// Enrich returns base extended with the fragment's importing layers. When
// the fragment brings nothing, base is returned unchanged: no wrapping.
// Unresolvable import directives are dropped silently; the rest still apply.
func (e *ScopeEnricher) Enrich(base *scope.Scope, frag *Fragment) *scope.Scope {
	var layers []*scope.Scope

	if len(frag.External) > 0 {
		layer := scope.New(scope.LayerImporting, nil)
		for _, d := range frag.External {
			layer.Bind(scope.Binding{
				Name: e.strings.Intern(d.Name),
				Kind: scope.BindImported,
				Type: d.Type,
			})
		}
		layers = append(layers, layer)
	}

	for _, directive := range frag.Imports {
		if layer, ok := e.program.ResolveImport(directive); ok {
			layers = append(layers, layer)
		}
	}

	if len(layers) == 0 {
		return base
	}
	return scope.WithImports(base, layers)
}
