// Package sema computes whole-program semantic facts and implements the
// resolution capabilities the fragment engine consumes: expression type
// inference, type-reference resolution, import resolution and the
// preliminary declaration pass.
package sema

import (
	"crypto/sha256"
	"encoding/binary"

	"probe/internal/ast"
	"probe/internal/binding"
	"probe/internal/cache"
	"probe/internal/diag"
	"probe/internal/scope"
	"probe/internal/types"
)

// Options configure whole-program analysis.
type Options struct {
	MaxDiagnostics int
	Modules        *ModuleSet
}

// Program holds the pre-computed whole-program facts: the shared binding
// context, per-file scopes and descriptors for globally reachable classes.
// All of it is read-only once AnalyzeProgram returns.
type Program struct {
	builder    *ast.Builder
	types      *types.Interner
	modules    *ModuleSet
	pkgScope   *scope.Scope
	fileScopes map[ast.NodeID]*scope.Scope
	ctx        *binding.Context
	bag        *diag.Bag
}

// AnalyzeProgram runs the whole-program pass over every file the builder
// holds and returns the resulting facts.
func AnalyzeProgram(b *ast.Builder, opts Options) *Program {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = 100
	}
	modules := opts.Modules
	if modules == nil {
		modules = NewModuleSet(b.Strings)
	}
	p := &Program{
		builder:    b,
		types:      types.NewInterner(b.Strings),
		modules:    modules,
		fileScopes: make(map[ast.NodeID]*scope.Scope),
		ctx:        binding.NewContext(),
		bag:        diag.NewBag(maxDiags),
	}
	p.installPrelude()

	reporter := diag.BagReporter{Bag: p.bag}
	a := &analyzer{p: p, rec: p.ctx, reporter: reporter}
	for _, file := range b.Files {
		p.fileScopes[file] = a.buildFileScope(file)
	}
	// Declarations first so files can reference each other's classes, then
	// bodies.
	for _, file := range b.Files {
		a.declareClasses(file)
	}
	for _, file := range b.Files {
		a.walkFile(file)
	}
	return p
}

// Builder exposes the analyzed program tree.
func (p *Program) Builder() *ast.Builder { return p.builder }

// Nodes is a shortcut for the node arena.
func (p *Program) Nodes() *ast.Nodes { return p.builder.Nodes }

// Types exposes the program's type interner.
func (p *Program) Types() *types.Interner { return p.types }

// Context returns the whole-program binding context.
func (p *Program) Context() *binding.Context { return p.ctx }

// Diagnostics returns diagnostics collected by the whole-program pass.
func (p *Program) Diagnostics() *diag.Bag { return p.bag }

// FileScope returns the per-file top-level scope: imports, package prelude
// and file declarations. Nil for unknown files.
func (p *Program) FileScope(file ast.NodeID) *scope.Scope {
	return p.fileScopes[file]
}

// ClassDescriptor returns the pre-computed descriptor of a globally
// reachable class declaration. Nil for local or unknown declarations.
func (p *Program) ClassDescriptor(decl ast.NodeID) *binding.Descriptor {
	if p.builder.Nodes.IsLocal(decl) {
		return nil
	}
	d, _ := p.ctx.DescriptorOf(decl)
	return d
}

// ResolveElementContext recomputes binding facts for one element into a
// fresh context. This is the compute function behind the resolution cache.
func (p *Program) ResolveElementContext(element ast.NodeID, mode cache.DepthMode) *binding.Context {
	ctx := binding.NewContext()
	if !element.IsValid() {
		return ctx
	}
	// Element diagnostics are recomputed per lookup and intentionally
	// discarded: cache consumers only need scopes and types.
	a := &analyzer{p: p, rec: ctx, reporter: nil}
	a.resolveElement(element, mode)
	return ctx
}

// Fingerprint hashes the program tree. Snapshot stores key on it.
func (p *Program) Fingerprint() [32]byte {
	h := sha256.New()
	var buf [8]byte
	nodes := p.builder.Nodes
	for i := 1; i <= nodes.Len(); i++ {
		node := nodes.Get(ast.NodeID(i))
		buf[0] = byte(node.Kind)
		buf[1] = byte(node.Flags)
		binary.LittleEndian.PutUint32(buf[2:6], uint32(node.Name))
		h.Write(buf[:6])
		h.Write([]byte(node.Text))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// installPrelude seeds the package scope with builtin types.
func (p *Program) installPrelude() {
	pkg := scope.New(scope.LayerPackage, nil)
	bt := p.types.Builtins()
	builtins := []struct {
		name  string
		typ   types.TypeID
		arity int
	}{
		{"Unit", bt.Unit, 0},
		{"Bool", bt.Bool, 0},
		{"Int", bt.Int, 0},
		{"String", bt.String, 0},
		{"List", types.NoTypeID, 1},
		{"Set", types.NoTypeID, 1},
		{"Map", types.NoTypeID, 2},
	}
	for _, b := range builtins {
		pkg.Bind(scope.Binding{
			Name:       p.builder.Strings.Intern(b.name),
			Kind:       scope.BindClass,
			Type:       b.typ,
			TypeParams: b.arity,
		})
	}
	p.pkgScope = pkg
}
