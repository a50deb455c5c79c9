// Package scope models lexical name resolution as a chain of layers with
// fixed precedence: local bindings shadow members, members shadow enriched
// imports, enriched imports shadow file/package imports.
package scope

import (
	"probe/internal/ast"
	"probe/internal/source"
	"probe/internal/types"
)

// LayerKind classifies one link of the scope chain.
type LayerKind uint8

const (
	LayerInvalid LayerKind = iota
	LayerLocal             // function/block bindings
	LayerMember            // class members (and ctor params in init scopes)
	LayerImporting         // enrichment: external descriptors or ad hoc imports
	LayerFile              // per-file top level: imports + file declarations
	LayerPackage           // package prelude / builtins
	LayerError             // degraded scope after a context-resolution failure
)

func (k LayerKind) String() string {
	switch k {
	case LayerLocal:
		return "local"
	case LayerMember:
		return "member"
	case LayerImporting:
		return "importing"
	case LayerFile:
		return "file"
	case LayerPackage:
		return "package"
	case LayerError:
		return "resolution-error"
	default:
		return "invalid"
	}
}

// BindKind classifies what a name resolves to.
type BindKind uint8

const (
	BindInvalid BindKind = iota
	BindValue            // val/var/param
	BindFunc
	BindClass
	BindImported // name brought in by an importing layer
)

func (k BindKind) String() string {
	switch k {
	case BindValue:
		return "value"
	case BindFunc:
		return "func"
	case BindClass:
		return "class"
	case BindImported:
		return "imported"
	default:
		return "invalid"
	}
}

// Binding is one resolved name entry.
type Binding struct {
	Name       source.StringID
	Kind       BindKind
	Node       ast.NodeID // declaration node, NoNodeID for synthetic entries
	Type       types.TypeID
	TypeParams int // generic arity for class bindings
}

// Scope is one layer of the chain. Layers are append-only while a context is
// being built and treated as immutable afterwards.
type Scope struct {
	kind   LayerKind
	parent *Scope
	names  map[source.StringID][]Binding
}

// New creates a layer chained onto parent (parent may be nil).
func New(kind LayerKind, parent *Scope) *Scope {
	return &Scope{
		kind:   kind,
		parent: parent,
		names:  make(map[source.StringID][]Binding),
	}
}

// Error returns a fresh resolution-error scope: empty, no parent. Lookups
// against it fail safely downstream.
func Error() *Scope {
	return New(LayerError, nil)
}

func (s *Scope) Kind() LayerKind { return s.kind }
func (s *Scope) Parent() *Scope  { return s.parent }

// IsError reports whether the innermost layer is a resolution-error scope.
func (s *Scope) IsError() bool {
	return s != nil && s.kind == LayerError
}

// Bind installs a binding into this layer.
func (s *Scope) Bind(b Binding) {
	s.names[b.Name] = append(s.names[b.Name], b)
}

// LookupLocal finds the newest binding for name in this layer only.
func (s *Scope) LookupLocal(name source.StringID) (Binding, bool) {
	if s == nil {
		return Binding{}, false
	}
	if entries := s.names[name]; len(entries) > 0 {
		return entries[len(entries)-1], true
	}
	return Binding{}, false
}

// Lookup walks the chain innermost-first.
func (s *Scope) Lookup(name source.StringID) (Binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.LookupLocal(name); ok {
			return b, true
		}
	}
	return Binding{}, false
}

// LookupClass walks the chain for a class binding, skipping value bindings
// that shadow the name.
func (s *Scope) LookupClass(name source.StringID) (Binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if entries := cur.names[name]; len(entries) > 0 {
			for i := len(entries) - 1; i >= 0; i-- {
				if entries[i].Kind == BindClass {
					return entries[i], true
				}
			}
		}
	}
	return Binding{}, false
}

// Depth counts layers in the chain. Used by tests and debug output.
func (s *Scope) Depth() int {
	n := 0
	for cur := s; cur != nil; cur = cur.parent {
		n++
	}
	return n
}

// clone copies the layer head, sharing the (immutable) name map.
func (s *Scope) clone(parent *Scope) *Scope {
	return &Scope{kind: s.kind, parent: parent, names: s.names}
}

// WithImports splices importing layers into base between lexical bindings
// (local/member) and the base chain's default imports (file/package). The
// upper part of the chain is cloned; base itself is never modified. layers
// keep their given order, first layer looked up first.
func WithImports(base *Scope, layers []*Scope) *Scope {
	if len(layers) == 0 {
		return base
	}

	// Find the split point: everything above the first file/package layer
	// keeps precedence over the imports.
	var upper []*Scope
	rest := base
	for rest != nil && rest.kind != LayerFile && rest.kind != LayerPackage {
		upper = append(upper, rest)
		rest = rest.parent
	}

	chain := rest
	for i := len(layers) - 1; i >= 0; i-- {
		chain = layers[i].clone(chain)
	}
	for i := len(upper) - 1; i >= 0; i-- {
		chain = upper[i].clone(chain)
	}
	return chain
}
