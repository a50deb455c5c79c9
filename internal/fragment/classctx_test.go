package fragment

import (
	"testing"

	"probe/internal/ast"
	"probe/internal/cache"
	"probe/internal/sema"
)

func TestResolveGlobalClassUsesProgramContext(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	class := b.Class("C", b.PrimaryCtor())
	b.File("main", class)
	p := sema.AnalyzeProgram(b, sema.Options{})

	res := cache.NewResolution(p.ResolveElementContext)
	r := NewClassContextResolver(b.Nodes, p, res)

	ctx, desc, ok := r.Resolve(class, cache.DepthFull)
	if !ok {
		t.Fatal("global class must resolve")
	}
	if ctx != p.Context() {
		t.Fatal("global classes come from the whole-program context")
	}
	if desc.Local {
		t.Fatal("top-level class must not be marked local")
	}
	if res.Len() != 0 {
		t.Fatal("global resolution must not touch the cache")
	}
}

func TestResolveLocalClassGoesThroughCache(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	local := b.Class("Local", b.PrimaryCtor(b.Param("n", b.TypeRef("Int", 0))))
	fn := b.Func("f", ast.NoNodeID, b.Block(local))
	b.File("main", fn)
	p := sema.AnalyzeProgram(b, sema.Options{})

	res := cache.NewResolution(p.ResolveElementContext)
	r := NewClassContextResolver(b.Nodes, p, res)

	ctx, desc, ok := r.Resolve(local, cache.DepthFull)
	if !ok {
		t.Fatal("local class must resolve through the cache")
	}
	if ctx == p.Context() {
		t.Fatal("local classes must not come from the shared context")
	}
	if !desc.Local {
		t.Fatal("descriptor must be marked local")
	}
	if res.Len() == 0 {
		t.Fatal("local resolution must be memoized")
	}
	if _, found := desc.InitScope.Lookup(b.Strings.Intern("n")); !found {
		t.Fatal("local class init scope must see ctor params")
	}
}

func TestResolveNonClassFails(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	fn := b.Func("f", ast.NoNodeID, b.Block())
	b.File("main", fn)
	p := sema.AnalyzeProgram(b, sema.Options{})

	r := NewClassContextResolver(b.Nodes, p, cache.NewResolution(p.ResolveElementContext))
	if _, _, ok := r.Resolve(fn, cache.DepthFull); ok {
		t.Fatal("function declarations are not class-like")
	}
	if _, _, ok := r.Resolve(ast.NoNodeID, cache.DepthFull); ok {
		t.Fatal("invalid nodes are not class-like")
	}
}
