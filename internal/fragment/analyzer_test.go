package fragment

import (
	"testing"

	"probe/internal/ast"
	"probe/internal/binding"
	"probe/internal/cache"
	"probe/internal/diag"
	"probe/internal/sema"
)

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// guardedProgram builds `func f() { val x: Int? = 5; if (x != null) { x } }`
// and returns the builder, the program and the anchor statement inside the
// guard.
func guardedProgram(t *testing.T) (*ast.Builder, *sema.Program, ast.NodeID) {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, nil)
	prop := b.Property("x", b.TypeRef("Int", ast.FlagOptional), b.Int("5"), 0)
	cond := b.Binary(ast.OpNotEq, b.Name("x"), b.Null())
	marker := b.Name("x")
	ifNode := b.If(cond, b.Block(marker), ast.NoNodeID)
	fn := b.Func("f", ast.NoNodeID, b.Block(prop, ifNode))
	b.File("main", fn)

	p := sema.AnalyzeProgram(b, sema.Options{})
	if p.Diagnostics().HasErrors() {
		t.Fatalf("fixture must analyze cleanly: %+v", p.Diagnostics().Items())
	}
	return b, p, marker
}

// Inside the guard x is narrowed to Int, so `x + 1` resolves cleanly.
func TestFragmentSeesNarrowedType(t *testing.T) {
	b, p, marker := guardedProgram(t)
	an := NewAnalyzer(p, nil, DefaultOptions())

	content := b.Binary(ast.OpAdd, b.Name("x"), b.Int("1"))
	overlay := an.Analyze(&Fragment{Content: content, Context: marker}, cache.DepthFull)

	if overlay.Diagnostics().HasErrors() {
		t.Fatalf("narrowed operand must be safe: %+v", overlay.Diagnostics().Items())
	}
	if got, ok := overlay.TypeOf(content); !ok || got != p.Types().Builtins().Int {
		t.Fatalf("x + 1 typed as (%d, %v), want Int", got, ok)
	}
}

// Outside any guard the same fragment trips the optional-unwrap check.
func TestFragmentWithoutGuardRejectsOptionalOperand(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	prop := b.Property("x", b.TypeRef("Int", ast.FlagOptional), b.Int("5"), 0)
	marker := b.Name("x")
	fn := b.Func("f", ast.NoNodeID, b.Block(prop, marker))
	b.File("main", fn)
	p := sema.AnalyzeProgram(b, sema.Options{})

	an := NewAnalyzer(p, nil, DefaultOptions())
	content := b.Binary(ast.OpAdd, b.Name("x"), b.Int("1"))
	overlay := an.Analyze(&Fragment{Content: content, Context: marker}, cache.DepthFull)

	if !hasCode(overlay.Diagnostics(), diag.TypeOptionalUnsafe) {
		t.Fatal("unguarded optional operand must be rejected")
	}
}

func TestFragmentResolutionIsWriteIsolated(t *testing.T) {
	b, p, marker := guardedProgram(t)
	an := NewAnalyzer(p, nil, DefaultOptions())

	baseLen := p.Context().Len()
	baseDiags := p.Diagnostics().Len()

	content := b.Binary(ast.OpAdd, b.Name("x"), b.Int("1"))
	overlay := an.Analyze(&Fragment{Content: content, Context: marker}, cache.DepthFull)

	if overlay.Recorded() == 0 {
		t.Fatal("fragment facts must land in the overlay")
	}
	if p.Context().Len() != baseLen {
		t.Fatal("fragment analysis must not grow the program context")
	}
	if _, ok := p.Context().TypeOf(content); ok {
		t.Fatal("fragment content must not leak into the program context")
	}
	if p.Diagnostics().Len() != baseDiags {
		t.Fatal("fragment diagnostics must not reach the program bag")
	}
}

func TestExternalDescriptorResolvesViaEnrichedScopeOnly(t *testing.T) {
	b, p, marker := guardedProgram(t)
	an := NewAnalyzer(p, nil, DefaultOptions())
	bt := p.Types().Builtins()

	bare := an.Analyze(&Fragment{Content: b.Name("y"), Context: marker}, cache.DepthFull)
	if !hasCode(bare.Diagnostics(), diag.ResUnresolvedName) {
		t.Fatal("y must be unresolved without the external descriptor")
	}

	content := b.Name("y")
	enriched := an.Analyze(&Fragment{
		Content:  content,
		Context:  marker,
		External: []ExternalDescriptor{{Name: "y", Type: bt.String}},
	}, cache.DepthFull)
	if enriched.Diagnostics().HasErrors() {
		t.Fatalf("external descriptor must resolve y: %+v", enriched.Diagnostics().Items())
	}
	if got, _ := enriched.TypeOf(content); got != bt.String {
		t.Fatalf("y typed as %d, want String", got)
	}
}

func TestFragmentImportsWithMalformedDroppedSilently(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	modules := sema.NewModuleSet(b.Strings)
	marker := b.Int("0")
	fn := b.Func("f", ast.NoNodeID, b.Block(marker))
	b.File("main", fn)
	p := sema.AnalyzeProgram(b, sema.Options{Modules: modules})
	modules.ExportValue("util.helpers", "greeting", p.Types().Builtins().String)

	an := NewAnalyzer(p, nil, DefaultOptions())
	content := b.Name("greeting")
	overlay := an.Analyze(&Fragment{
		Content: content,
		Context: marker,
		Imports: []string{
			"import util.helpers.greeting",
			"completely broken",
			"import unknown.module.name",
		},
	}, cache.DepthFull)

	if overlay.Diagnostics().HasErrors() {
		t.Fatalf("usable imports must apply despite dropped ones: %+v", overlay.Diagnostics().Items())
	}
	if got, _ := overlay.TypeOf(content); got != p.Types().Builtins().String {
		t.Fatalf("greeting typed as %d, want String", got)
	}
}

func TestTypeRefFragmentAtFileAnchor(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.File("main")
	p := sema.AnalyzeProgram(b, sema.Options{})
	an := NewAnalyzer(p, nil, DefaultOptions())

	content := b.TypeRef("List", 0, b.TypeRef("String", 0))
	overlay := an.Analyze(&Fragment{Content: content, Context: file}, cache.DepthFull)
	if overlay.Diagnostics().HasErrors() {
		t.Fatalf("List<String> must resolve: %+v", overlay.Diagnostics().Items())
	}
	got, ok := overlay.TypeOf(content)
	if !ok || p.Types().String(got) != "List<String>" {
		t.Fatalf("type ref resolved to %q", p.Types().String(got))
	}
}

func TestBareGenericTypeRefFragmentRejected(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.File("main")
	p := sema.AnalyzeProgram(b, sema.Options{})
	an := NewAnalyzer(p, nil, DefaultOptions())

	content := b.TypeRef("List", 0)
	overlay := an.Analyze(&Fragment{Content: content, Context: file}, cache.DepthFull)
	if !hasCode(overlay.Diagnostics(), diag.ResBareGenericType) {
		t.Fatal("bare List must be rejected in fragment position")
	}
}

func TestLocalClassConstructorThroughCachePath(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	local := b.Class("Local", b.PrimaryCtor(b.Param("n", b.TypeRef("Int", 0))))
	marker := b.Int("0")
	fn := b.Func("f", ast.NoNodeID, b.Block(local, marker))
	b.File("main", fn)
	p := sema.AnalyzeProgram(b, sema.Options{})

	an := NewAnalyzer(p, nil, DefaultOptions())
	content := b.Call(b.Name("Local"), b.Int("1"))
	overlay := an.Analyze(&Fragment{Content: content, Context: marker}, cache.DepthFull)

	if overlay.Diagnostics().HasErrors() {
		t.Fatalf("local class ctor must resolve after its declaration: %+v", overlay.Diagnostics().Items())
	}
	got, ok := overlay.TypeOf(content)
	if !ok || p.Types().String(got) != "Local" {
		t.Fatalf("constructor call typed as %q", p.Types().String(got))
	}
}

func TestLocalClassCtorParamAnchor(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	primary := b.PrimaryCtor(b.Param("n", b.TypeRef("Int", 0)))
	local := b.Class("Local", primary)
	fn := b.Func("f", ast.NoNodeID, b.Block(local))
	b.File("main", fn)
	p := sema.AnalyzeProgram(b, sema.Options{})

	an := NewAnalyzer(p, nil, DefaultOptions())
	content := b.Name("n")
	overlay := an.Analyze(&Fragment{Content: content, Context: primary}, cache.DepthFull)

	if overlay.Diagnostics().HasErrors() {
		t.Fatalf("ctor param must resolve at the primary ctor anchor: %+v", overlay.Diagnostics().Items())
	}
	if got, _ := overlay.TypeOf(content); got != p.Types().Builtins().Int {
		t.Fatalf("n typed as %d, want Int", got)
	}
}

func TestNoAnchorFragment(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	b.File("main")
	p := sema.AnalyzeProgram(b, sema.Options{})
	an := NewAnalyzer(p, nil, DefaultOptions())

	lit := b.Int("1")
	overlay := an.Analyze(&Fragment{Content: lit, Context: ast.NoNodeID}, cache.DepthFull)
	if got, _ := overlay.TypeOf(lit); got != p.Types().Builtins().Int {
		t.Fatalf("literal typed as %d, want Int even without an anchor", got)
	}

	name := b.Name("x")
	overlay = an.Analyze(&Fragment{Content: name, Context: ast.NoNodeID}, cache.DepthFull)
	if !hasCode(overlay.Diagnostics(), diag.ResUnresolvedName) {
		t.Fatal("names cannot resolve against the error scope")
	}
}

// The preliminary pass accepts bare generic declared types; full typing of
// the same block rejects them.
func TestPreliminaryPassIsLenientWhereFullTypingIsNot(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.File("main")
	p := sema.AnalyzeProgram(b, sema.Options{})

	prop := b.Property("xs", b.TypeRef("List", 0), ast.NoNodeID, 0)
	content := b.Block(prop)

	pre := binding.NewOverlay(p.Context(), 10, false)
	p.RunPreliminaryPass(p.FileScope(file), content, pre)
	if got, ok := pre.TypeOf(prop); !ok || p.Types().String(got) != "List" {
		t.Fatalf("preliminary declared type = (%q, %v), want raw List", p.Types().String(got), ok)
	}
	if pre.Diagnostics().Len() != 0 {
		t.Fatal("the preliminary pass stays silent")
	}

	an := NewAnalyzer(p, nil, DefaultOptions())
	overlay := an.Analyze(&Fragment{Content: content, Context: file}, cache.DepthFull)
	if !hasCode(overlay.Diagnostics(), diag.ResBareGenericType) {
		t.Fatal("full typing must reject the bare generic declared type")
	}
}

func TestBlockFragmentValueIsLastExpression(t *testing.T) {
	b, p, marker := guardedProgram(t)
	an := NewAnalyzer(p, nil, DefaultOptions())

	prop := b.Property("tmp", ast.NoNodeID, b.Int("3"), 0)
	use := b.Binary(ast.OpAdd, b.Name("tmp"), b.Int("4"))
	content := b.Block(prop, use)
	overlay := an.Analyze(&Fragment{Content: content, Context: marker}, cache.DepthFull)

	if overlay.Diagnostics().HasErrors() {
		t.Fatalf("block fragment must resolve: %+v", overlay.Diagnostics().Items())
	}
	if got, _ := overlay.TypeOf(content); got != p.Types().Builtins().Int {
		t.Fatalf("block value typed as %d, want last expression's Int", got)
	}
}

func TestSharedResolutionCacheIsReused(t *testing.T) {
	b, p, marker := guardedProgram(t)
	res := cache.NewResolution(p.ResolveElementContext)
	an := NewAnalyzer(p, res, DefaultOptions())

	an.Analyze(&Fragment{Content: b.Int("1"), Context: marker}, cache.DepthFull)
	first := res.Len()
	an.Analyze(&Fragment{Content: b.Int("2"), Context: marker}, cache.DepthFull)
	if res.Len() != first {
		t.Fatal("same anchor must hit the memoized resolution")
	}
	if first == 0 {
		t.Fatal("element anchors must populate the cache")
	}
}
