package binding

import (
	"probe/internal/ast"
	"probe/internal/diag"
	"probe/internal/scope"
	"probe/internal/types"
)

// Overlay is the write-isolated result of one fragment analysis. Reads check
// the local layer first and fall through to the base context; writes touch
// only the local layer. The base context is never mutated.
type Overlay struct {
	base     *Context
	local    *Context
	bag      *diag.Bag
	reporter diag.Reporter
}

// NewOverlay builds an overlay over base. base may be nil (no-anchor
// fragments), in which case reads come from the local layer alone. When
// suppressWarnings is set (debug-evaluation fragments) sub-error diagnostics
// are filtered before reaching the bag.
func NewOverlay(base *Context, maxDiagnostics int, suppressWarnings bool) *Overlay {
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	bag := diag.NewBag(maxDiagnostics)
	var reporter diag.Reporter = diag.BagReporter{Bag: bag}
	if suppressWarnings {
		reporter = diag.QuietReporter{Next: reporter, Min: diag.SevError}
	}
	return &Overlay{
		base:     base,
		local:    NewContext(),
		bag:      bag,
		reporter: reporter,
	}
}

// Base exposes the underlying shared context (read-only).
func (o *Overlay) Base() *Context { return o.base }

// Reporter is the diagnostic sink for this fragment analysis.
func (o *Overlay) Reporter() diag.Reporter { return o.reporter }

// Diagnostics returns the overlay's diagnostic bag.
func (o *Overlay) Diagnostics() *diag.Bag { return o.bag }

// Recorded reports how many expression types the overlay recorded locally.
func (o *Overlay) Recorded() int { return o.local.Len() }

func (o *Overlay) TypeOf(id ast.NodeID) (types.TypeID, bool) {
	if t, ok := o.local.TypeOf(id); ok {
		return t, true
	}
	if o.base != nil {
		return o.base.TypeOf(id)
	}
	return types.NoTypeID, false
}

func (o *Overlay) ScopeAt(id ast.NodeID) (*scope.Scope, bool) {
	if s, ok := o.local.ScopeAt(id); ok {
		return s, true
	}
	if o.base != nil {
		return o.base.ScopeAt(id)
	}
	return nil, false
}

func (o *Overlay) RefOf(id ast.NodeID) (ast.NodeID, bool) {
	if r, ok := o.local.RefOf(id); ok {
		return r, true
	}
	if o.base != nil {
		return o.base.RefOf(id)
	}
	return ast.NoNodeID, false
}

func (o *Overlay) DescriptorOf(id ast.NodeID) (*Descriptor, bool) {
	if d, ok := o.local.DescriptorOf(id); ok {
		return d, true
	}
	if o.base != nil {
		return o.base.DescriptorOf(id)
	}
	return nil, false
}

func (o *Overlay) RecordType(id ast.NodeID, t types.TypeID) {
	o.local.RecordType(id, t)
}

func (o *Overlay) RecordScope(id ast.NodeID, s *scope.Scope) {
	o.local.RecordScope(id, s)
}

func (o *Overlay) RecordRef(use, decl ast.NodeID) {
	o.local.RecordRef(use, decl)
}

func (o *Overlay) RecordDescriptor(decl ast.NodeID, d *Descriptor) {
	o.local.RecordDescriptor(decl, d)
}
