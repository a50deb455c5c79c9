package scope

import (
	"testing"

	"probe/internal/ast"
	"probe/internal/source"
	"probe/internal/types"
)

func TestLookupInnermostWins(t *testing.T) {
	strings := source.NewInterner()
	x := strings.Intern("x")

	outer := New(LayerFile, nil)
	outer.Bind(Binding{Name: x, Kind: BindValue, Node: ast.NodeID(1)})
	inner := New(LayerLocal, outer)
	inner.Bind(Binding{Name: x, Kind: BindValue, Node: ast.NodeID(2)})

	b, ok := inner.Lookup(x)
	if !ok || b.Node != ast.NodeID(2) {
		t.Fatalf("Lookup = (%+v, %v), want inner binding", b, ok)
	}
}

func TestLookupLocalDoesNotWalk(t *testing.T) {
	strings := source.NewInterner()
	x := strings.Intern("x")
	outer := New(LayerFile, nil)
	outer.Bind(Binding{Name: x, Kind: BindValue})
	inner := New(LayerLocal, outer)

	if _, ok := inner.LookupLocal(x); ok {
		t.Fatal("LookupLocal must not consult parents")
	}
	if _, ok := inner.Lookup(x); !ok {
		t.Fatal("Lookup must walk the chain")
	}
}

func TestLookupClassSkipsValueShadow(t *testing.T) {
	strings := source.NewInterner()
	name := strings.Intern("C")

	outer := New(LayerFile, nil)
	outer.Bind(Binding{Name: name, Kind: BindClass, Type: types.TypeID(7)})
	inner := New(LayerLocal, outer)
	inner.Bind(Binding{Name: name, Kind: BindValue, Type: types.TypeID(3)})

	if b, _ := inner.Lookup(name); b.Kind != BindValue {
		t.Fatal("plain lookup sees the shadowing value")
	}
	b, ok := inner.LookupClass(name)
	if !ok || b.Kind != BindClass || b.Type != types.TypeID(7) {
		t.Fatalf("LookupClass = (%+v, %v), want the class binding", b, ok)
	}
}

func TestErrorScope(t *testing.T) {
	sc := Error()
	if !sc.IsError() {
		t.Fatal("Error() must be an error scope")
	}
	if _, ok := sc.Lookup(source.StringID(1)); ok {
		t.Fatal("lookups against an error scope must fail")
	}
	if New(LayerLocal, nil).IsError() {
		t.Fatal("ordinary scopes are not error scopes")
	}
}

// The precedence invariant: local bindings shadow members, members shadow
// spliced imports, spliced imports shadow file/package imports.
func TestWithImportsPrecedence(t *testing.T) {
	strings := source.NewInterner()
	x := strings.Intern("x")

	pkg := New(LayerPackage, nil)
	pkg.Bind(Binding{Name: x, Kind: BindValue, Type: types.TypeID(1)})
	file := New(LayerFile, pkg)
	member := New(LayerMember, file)
	local := New(LayerLocal, member)

	imported := New(LayerImporting, nil)
	imported.Bind(Binding{Name: x, Kind: BindImported, Type: types.TypeID(2)})

	// Import shadows the package binding.
	enriched := WithImports(local, []*Scope{imported})
	if b, _ := enriched.Lookup(x); b.Type != types.TypeID(2) {
		t.Fatalf("import must shadow file/package, resolved type %d", b.Type)
	}

	// A local binding still wins over the import.
	local.Bind(Binding{Name: x, Kind: BindValue, Type: types.TypeID(3)})
	enriched = WithImports(local, []*Scope{imported})
	if b, _ := enriched.Lookup(x); b.Type != types.TypeID(3) {
		t.Fatalf("local must shadow import, resolved type %d", b.Type)
	}
}

func TestWithImportsLeavesBaseUntouched(t *testing.T) {
	strings := source.NewInterner()
	x := strings.Intern("x")

	pkg := New(LayerPackage, nil)
	local := New(LayerLocal, pkg)
	depth := local.Depth()

	imported := New(LayerImporting, nil)
	imported.Bind(Binding{Name: x, Kind: BindImported})
	enriched := WithImports(local, []*Scope{imported})

	if local.Depth() != depth {
		t.Fatal("base chain must not change")
	}
	if _, ok := local.Lookup(x); ok {
		t.Fatal("base chain must not see the import")
	}
	if _, ok := enriched.Lookup(x); !ok {
		t.Fatal("enriched chain must see the import")
	}
	if enriched.Depth() != depth+1 {
		t.Fatalf("enriched depth = %d, want %d", enriched.Depth(), depth+1)
	}
}

func TestWithImportsEmptyIsIdentity(t *testing.T) {
	base := New(LayerLocal, New(LayerPackage, nil))
	if got := WithImports(base, nil); got != base {
		t.Fatal("no layers must return base unchanged")
	}
}

func TestWithImportsOrder(t *testing.T) {
	strings := source.NewInterner()
	x := strings.Intern("x")

	base := New(LayerFile, nil)
	first := New(LayerImporting, nil)
	first.Bind(Binding{Name: x, Type: types.TypeID(1)})
	second := New(LayerImporting, nil)
	second.Bind(Binding{Name: x, Type: types.TypeID(2)})

	enriched := WithImports(base, []*Scope{first, second})
	if b, _ := enriched.Lookup(x); b.Type != types.TypeID(1) {
		t.Fatalf("first layer must be looked up first, got type %d", b.Type)
	}
}
