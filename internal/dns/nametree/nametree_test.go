package nametree

import (
	"errors"
	"testing"

	"github.com/nsforge/authdns/internal/dns/domain"
)

func mustName(t *testing.T, s string) domain.Name {
	t.Helper()
	n, err := domain.FromText(s)
	if err != nil {
		t.Fatalf("FromText(%q): %v", s, err)
	}
	return n
}

func TestNameTree_InsertAndFind_ExactMatch(t *testing.T) {
	tree := NewRoot[int]()
	name := mustName(t, "www.example.com.")

	if _, err := tree.Insert(name.LabelsReverse(), 42); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	node := tree.Find(name)
	v, ok := node.Value()
	if !ok || v != 42 {
		t.Errorf("Find returned value=%v ok=%v, want 42/true", v, ok)
	}
}

func TestNameTree_Find_ClosestEnclosingNode(t *testing.T) {
	tree := NewRoot[int]()
	sibling := mustName(t, "www.example.com.")
	if _, err := tree.Insert(sibling.LabelsReverse(), 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	missing := mustName(t, "nope.example.com.")
	node := tree.Find(missing)
	if _, ok := node.Value(); ok {
		t.Error("expected no value at the closest enclosing node for an unmatched descendant")
	}
	if node.Kind() != KindLabel || string(node.Label()) != "example" {
		t.Errorf("expected descent to stop at the 'example' node, got kind=%v label=%q", node.Kind(), node.Label())
	}
}

func TestNameTree_WildcardFallback(t *testing.T) {
	tree := NewRoot[int]()
	wildcard := mustName(t, "*.example.com.")
	if _, err := tree.Insert(wildcard.LabelsReverse(), 7); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	anything := mustName(t, "anything.example.com.")
	node := tree.Find(anything)
	v, ok := node.Value()
	if !ok || v != 7 {
		t.Errorf("wildcard fallback value=%v ok=%v, want 7/true", v, ok)
	}
}

func TestNameTree_ExactMatchWinsOverWildcard(t *testing.T) {
	tree := NewRoot[int]()
	wildcard := mustName(t, "*.example.com.")
	exact := mustName(t, "www.example.com.")
	if _, err := tree.Insert(wildcard.LabelsReverse(), 7); err != nil {
		t.Fatalf("Insert wildcard: %v", err)
	}
	if _, err := tree.Insert(exact.LabelsReverse(), 9); err != nil {
		t.Fatalf("Insert exact: %v", err)
	}

	node := tree.Find(exact)
	v, _ := node.Value()
	if v != 9 {
		t.Errorf("Find(www.example.com.) = %d, want exact match 9 over wildcard", v)
	}
}

func TestNameTree_AddChild_DuplicateValueRejected(t *testing.T) {
	tree := NewRoot[int]()
	root := tree.Root()

	v1, v2 := 1, 2
	if _, err := tree.AddChild(root, []byte("com"), &v1); err != nil {
		t.Fatalf("first AddChild: %v", err)
	}
	if _, err := tree.AddChild(root, []byte("com"), &v2); !errors.Is(err, domain.ErrDuplicateValue) {
		t.Errorf("second AddChild error = %v, want ErrDuplicateValue", err)
	}
}

func TestNameTree_AddChild_PromotesBranchToLeaf(t *testing.T) {
	tree := NewRoot[int]()
	root := tree.Root()

	branch, err := tree.AddChild(root, []byte("com"), nil)
	if err != nil {
		t.Fatalf("AddChild (branch): %v", err)
	}
	if _, ok := branch.Value(); ok {
		t.Fatal("freshly created branch node should have no value")
	}

	v := 5
	promoted, err := tree.AddChild(root, []byte("com"), &v)
	if err != nil {
		t.Fatalf("AddChild (promote): %v", err)
	}
	if promoted != branch {
		t.Fatal("promotion should return the same node, not create a new one")
	}
	got, ok := promoted.Value()
	if !ok || got != 5 {
		t.Errorf("promoted value = %v/%v, want 5/true", got, ok)
	}
}

func TestNameTree_AddChild_ReturnsExistingWhenNoNewValue(t *testing.T) {
	tree := NewRoot[int]()
	root := tree.Root()
	v := 3
	first, err := tree.AddChild(root, []byte("com"), &v)
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	second, err := tree.AddChild(root, []byte("com"), nil)
	if err != nil {
		t.Fatalf("AddChild (no value): %v", err)
	}
	if first != second {
		t.Error("expected the same node returned when no new value is supplied")
	}
}

func TestNameTree_FindWithContext(t *testing.T) {
	origin := mustName(t, "example.com.")
	tree := NewNamespace[int](origin)

	name := mustName(t, "www.example.com.")
	labels, err := name.IterContext(origin)
	if err != nil {
		t.Fatalf("IterContext: %v", err)
	}
	if _, err := tree.Insert(labels, 99); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	node, err := tree.FindWithContext(name, origin)
	if err != nil {
		t.Fatalf("FindWithContext: %v", err)
	}
	v, ok := node.Value()
	if !ok || v != 99 {
		t.Errorf("value = %v/%v, want 99/true", v, ok)
	}
}

func TestNameTree_FindWithContext_NotASubdomain(t *testing.T) {
	origin := mustName(t, "example.com.")
	tree := NewNamespace[int](origin)
	other := mustName(t, "www.example.org.")

	if _, err := tree.FindWithContext(other, origin); !errors.Is(err, domain.ErrNotASubdomain) {
		t.Errorf("error = %v, want ErrNotASubdomain", err)
	}
}

type closeTracker struct {
	closed *bool
}

func (c closeTracker) Close() error {
	*c.closed = true
	return nil
}

func TestNameTree_Close_IsIdempotentAndClosesValues(t *testing.T) {
	tree := NewRoot[closeTracker]()
	closed := false
	name := mustName(t, "example.com.")
	if _, err := tree.Insert(name.LabelsReverse(), closeTracker{closed: &closed}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := tree.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closed {
		t.Error("expected stored value to be closed")
	}
	// Second Close must not panic or double-free.
	if err := tree.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
