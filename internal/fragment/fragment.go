// Package fragment resolves free-standing code snippets against the
// semantic model of an already-analyzed program. A fragment is conceptually
// attached to an anchor node; the engine derives the scope and flow state
// valid there, layers the fragment's ad hoc imports on top, and resolves the
// fragment's content into a write-isolated overlay. The program's own
// analysis results are never touched.
package fragment

import (
	"probe/internal/ast"
	"probe/internal/types"
)

// ExternalDescriptor is a synthetic binding supplied by the embedder, e.g.
// a debugger variable not present in the source.
type ExternalDescriptor struct {
	Name string
	Type types.TypeID
}

// Fragment is one snippet to resolve. Content is an expression or a type
// reference node; Context is the raw anchor (NoNodeID means no context at
// all). Imports are textual directives layered onto the anchor scope.
type Fragment struct {
	Content  ast.NodeID
	External []ExternalDescriptor
	Imports  []string
	Context  ast.NodeID

	// Debug marks debug-evaluation fragments: sub-error diagnostics are
	// suppressed in the overlay.
	Debug bool
}

// Options tune fragment analysis.
type Options struct {
	MaxDiagnostics        int
	SuppressDebugWarnings bool
	PreliminaryPass       bool
}

// DefaultOptions mirror the defaults of probe.toml.
func DefaultOptions() Options {
	return Options{
		MaxDiagnostics:        100,
		SuppressDebugWarnings: true,
		PreliminaryPass:       true,
	}
}
