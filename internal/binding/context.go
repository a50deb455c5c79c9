// Package binding holds resolved semantic facts: immutable binding contexts
// produced by whole-program analysis and write-isolated overlays produced by
// fragment analysis.
package binding

import (
	"probe/internal/ast"
	"probe/internal/scope"
	"probe/internal/types"
)

// Reader is the read side shared by Context and Overlay.
type Reader interface {
	TypeOf(id ast.NodeID) (types.TypeID, bool)
	ScopeAt(id ast.NodeID) (*scope.Scope, bool)
	RefOf(id ast.NodeID) (ast.NodeID, bool)
	DescriptorOf(id ast.NodeID) (*Descriptor, bool)
}

// Recorder is the write side. Context implements it during program analysis;
// Overlay implements it for fragment analysis, isolating writes from the
// base context.
type Recorder interface {
	RecordType(id ast.NodeID, t types.TypeID)
	RecordScope(id ast.NodeID, s *scope.Scope)
	RecordRef(use, decl ast.NodeID)
	RecordDescriptor(decl ast.NodeID, d *Descriptor)
}

// Context maps program nodes to resolved semantic facts. It is populated
// while a program (or a cached element) is analyzed and read-only afterwards;
// fragment analysis never writes into it.
type Context struct {
	exprTypes   map[ast.NodeID]types.TypeID
	scopes      map[ast.NodeID]*scope.Scope
	refs        map[ast.NodeID]ast.NodeID
	descriptors map[ast.NodeID]*Descriptor
}

func NewContext() *Context {
	return &Context{
		exprTypes:   make(map[ast.NodeID]types.TypeID),
		scopes:      make(map[ast.NodeID]*scope.Scope),
		refs:        make(map[ast.NodeID]ast.NodeID),
		descriptors: make(map[ast.NodeID]*Descriptor),
	}
}

// Empty returns a fresh context with no facts, used when a fragment has no
// anchor at all.
func Empty() *Context {
	return NewContext()
}

func (c *Context) TypeOf(id ast.NodeID) (types.TypeID, bool) {
	t, ok := c.exprTypes[id]
	return t, ok
}

func (c *Context) ScopeAt(id ast.NodeID) (*scope.Scope, bool) {
	s, ok := c.scopes[id]
	return s, ok
}

func (c *Context) RefOf(id ast.NodeID) (ast.NodeID, bool) {
	r, ok := c.refs[id]
	return r, ok
}

func (c *Context) DescriptorOf(id ast.NodeID) (*Descriptor, bool) {
	d, ok := c.descriptors[id]
	return d, ok
}

func (c *Context) RecordType(id ast.NodeID, t types.TypeID) {
	if id.IsValid() {
		c.exprTypes[id] = t
	}
}

func (c *Context) RecordScope(id ast.NodeID, s *scope.Scope) {
	if id.IsValid() && s != nil {
		c.scopes[id] = s
	}
}

func (c *Context) RecordRef(use, decl ast.NodeID) {
	if use.IsValid() && decl.IsValid() {
		c.refs[use] = decl
	}
}

func (c *Context) RecordDescriptor(decl ast.NodeID, d *Descriptor) {
	if decl.IsValid() && d != nil {
		c.descriptors[decl] = d
	}
}

// Merge copies the other context's facts into c. Existing entries win:
// merging never overwrites facts already recorded.
func (c *Context) Merge(other *Context) {
	if other == nil {
		return
	}
	for id, t := range other.exprTypes {
		if _, ok := c.exprTypes[id]; !ok {
			c.exprTypes[id] = t
		}
	}
	for id, s := range other.scopes {
		if _, ok := c.scopes[id]; !ok {
			c.scopes[id] = s
		}
	}
	for use, decl := range other.refs {
		if _, ok := c.refs[use]; !ok {
			c.refs[use] = decl
		}
	}
	for decl, d := range other.descriptors {
		if _, ok := c.descriptors[decl]; !ok {
			c.descriptors[decl] = d
		}
	}
}

// Len reports how many expression types are recorded. Used by tests and the
// snapshot store.
func (c *Context) Len() int {
	return len(c.exprTypes)
}

// ExprTypes returns a copy of the node→type table for serialization.
func (c *Context) ExprTypes() map[uint32]uint32 {
	out := make(map[uint32]uint32, len(c.exprTypes))
	for id, t := range c.exprTypes {
		out[uint32(id)] = uint32(t)
	}
	return out
}
