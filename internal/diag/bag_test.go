package diag

import (
	"testing"

	"probe/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestBagCap(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(ResUnresolvedName, span(0, 1), "a")) {
		t.Fatal("first add must succeed")
	}
	if !bag.Add(NewError(ResUnresolvedName, span(1, 2), "b")) {
		t.Fatal("second add must succeed")
	}
	if bag.Add(NewError(ResUnresolvedName, span(2, 3), "c")) {
		t.Fatal("add beyond cap must be dropped")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(SevWarning, TypeOptionalUnsafe, span(0, 1), "warn"))
	if bag.HasErrors() {
		t.Fatal("warning-only bag must not report errors")
	}
	if !bag.HasWarnings() {
		t.Fatal("bag must report warnings")
	}
	bag.Add(NewError(TypeMismatch, span(0, 1), "err"))
	if !bag.HasErrors() {
		t.Fatal("bag with an error must report it")
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(TypeMismatch, span(5, 6), "later"))
	bag.Add(NewError(ResUnresolvedName, span(1, 2), "earlier"))
	bag.Sort()
	items := bag.Items()
	if items[0].Message != "earlier" || items[1].Message != "later" {
		t.Fatalf("sort order wrong: %q, %q", items[0].Message, items[1].Message)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(ResUnresolvedName, span(1, 2), "dup"))
	bag.Add(NewError(ResUnresolvedName, span(1, 2), "dup"))
	bag.Add(NewError(ResUnresolvedName, span(3, 4), "other"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Len after Dedup = %d, want 2", bag.Len())
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(TypeMismatch, span(0, 1), "a"))
	b := NewBag(1)
	b.Add(NewError(TypeMismatch, span(1, 2), "b"))
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("Len after merge = %d, want 2", a.Len())
	}
}

func TestCodeString(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{ResUnresolvedName, "RES1001"},
		{TypeMismatch, "TYP2001"},
		{FragNoAnchor, "FRG3001"},
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.want {
			t.Errorf("Code(%d).String() = %q, want %q", c.code, got, c.want)
		}
	}
}
