package binding

import (
	"testing"

	"probe/internal/ast"
	"probe/internal/diag"
	"probe/internal/scope"
	"probe/internal/source"
	"probe/internal/types"
)

func TestOverlayReadsThroughToBase(t *testing.T) {
	base := NewContext()
	base.RecordType(ast.NodeID(1), types.TypeID(5))

	o := NewOverlay(base, 10, false)
	got, ok := o.TypeOf(ast.NodeID(1))
	if !ok || got != types.TypeID(5) {
		t.Fatalf("TypeOf = (%d, %v), want base fact", got, ok)
	}
}

func TestOverlayLocalShadowsBase(t *testing.T) {
	base := NewContext()
	base.RecordType(ast.NodeID(1), types.TypeID(5))

	o := NewOverlay(base, 10, false)
	o.RecordType(ast.NodeID(1), types.TypeID(9))

	if got, _ := o.TypeOf(ast.NodeID(1)); got != types.TypeID(9) {
		t.Fatalf("local record must shadow base, got %d", got)
	}
}

// Writes never reach the base context: after any amount of overlay activity
// the base answers exactly as before.
func TestOverlayWriteIsolation(t *testing.T) {
	base := NewContext()
	base.RecordType(ast.NodeID(1), types.TypeID(5))

	o := NewOverlay(base, 10, false)
	o.RecordType(ast.NodeID(1), types.TypeID(9))
	o.RecordType(ast.NodeID(2), types.TypeID(3))
	o.RecordRef(ast.NodeID(7), ast.NodeID(8))
	o.RecordScope(ast.NodeID(7), scope.New(scope.LayerLocal, nil))

	if got, _ := base.TypeOf(ast.NodeID(1)); got != types.TypeID(5) {
		t.Fatalf("base fact mutated: %d", got)
	}
	if _, ok := base.TypeOf(ast.NodeID(2)); ok {
		t.Fatal("base must not see overlay-only types")
	}
	if _, ok := base.RefOf(ast.NodeID(7)); ok {
		t.Fatal("base must not see overlay refs")
	}
	if _, ok := base.ScopeAt(ast.NodeID(7)); ok {
		t.Fatal("base must not see overlay scopes")
	}
	if base.Len() != 1 {
		t.Fatalf("base Len = %d, want 1", base.Len())
	}
}

func TestOverlayNilBase(t *testing.T) {
	o := NewOverlay(nil, 10, false)
	if _, ok := o.TypeOf(ast.NodeID(1)); ok {
		t.Fatal("empty overlay must answer nothing")
	}
	o.RecordType(ast.NodeID(1), types.TypeID(2))
	if got, ok := o.TypeOf(ast.NodeID(1)); !ok || got != types.TypeID(2) {
		t.Fatalf("local fact lost: (%d, %v)", got, ok)
	}
}

func TestOverlaySuppressesWarnings(t *testing.T) {
	o := NewOverlay(nil, 10, true)
	o.Reporter().Report(diag.TypeOptionalUnsafe, diag.SevWarning, source.Span{}, "warn", nil)
	if o.Diagnostics().Len() != 0 {
		t.Fatal("warnings must be suppressed for debug fragments")
	}
	o.Reporter().Report(diag.TypeMismatch, diag.SevError, source.Span{}, "err", nil)
	if o.Diagnostics().Len() != 1 {
		t.Fatal("errors must pass through")
	}
}

func TestContextMergeExistingWins(t *testing.T) {
	a := NewContext()
	a.RecordType(ast.NodeID(1), types.TypeID(1))
	b := NewContext()
	b.RecordType(ast.NodeID(1), types.TypeID(2))
	b.RecordType(ast.NodeID(2), types.TypeID(3))

	a.Merge(b)
	if got, _ := a.TypeOf(ast.NodeID(1)); got != types.TypeID(1) {
		t.Fatalf("existing entry overwritten: %d", got)
	}
	if got, _ := a.TypeOf(ast.NodeID(2)); got != types.TypeID(3) {
		t.Fatalf("new entry not merged: %d", got)
	}
}

func TestClassLike(t *testing.T) {
	member := scope.New(scope.LayerMember, nil)
	full := &Descriptor{Kind: DescClass, MemberScope: member, InitScope: scope.New(scope.LayerMember, member)}
	if _, ok := ClassLike(full); !ok {
		t.Fatal("full class descriptor must classify as class-like")
	}
	if _, ok := ClassLike(nil); ok {
		t.Fatal("nil descriptor is not class-like")
	}
	if _, ok := ClassLike(&Descriptor{Kind: DescAlias}); ok {
		t.Fatal("aliases are not class-like")
	}
	if _, ok := ClassLike(&Descriptor{Kind: DescClass, MemberScope: member}); ok {
		t.Fatal("partial descriptor without init scope is not class-like")
	}
	if _, ok := ClassLike(&Descriptor{Kind: DescError}); ok {
		t.Fatal("error descriptors are not class-like")
	}
}
