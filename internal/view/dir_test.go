package view

import (
	"context"
	"testing"

	"github.com/pders01/lockview/internal/models"
)

// rootTxn is the one transaction under example.com in rootStore
var rootTxn = txHash("d")

func rootStore() *memStore {
	s := newMemStore()
	s.listings[key("r1", nil, "")] = models.Listing{
		{Name: "example.com", Kind: models.KindDir, Hash: "d1"},
	}
	s.listings[key("r1", models.Path{"example.com"}, "")] = models.Listing{
		{Name: "sub", Kind: models.KindDir, Hash: "d2"},
		{Name: reqHeadName(rootTxn), Kind: models.KindFile, Hash: "f1"},
		{Name: respHeadName(rootTxn), Kind: models.KindFile, Hash: "f2"},
		{Name: "abc-req-head", Kind: models.KindFile, Hash: "f4"},
		{Name: "notes.txt", Kind: models.KindFile, Hash: "f3"},
	}
	s.listings[key("r1", models.Path{"example.com", "sub"}, "")] = models.Listing{}
	return s
}

func TestRootDirExpandsImmediately(t *testing.T) {
	s := rootStore()
	tree := NewTree()
	id, fetches := tree.NewDir("r1", nil, false)
	if len(fetches) != 1 || fetches[0].Op != OpListDir {
		t.Fatalf("fetches = %+v, want one listing", fetches)
	}
	Drain(context.Background(), tree, s, fetches)

	root := tree.Dir(id)
	if !root.Expanded() || !root.Loaded() {
		t.Fatal("root should be expanded and loaded")
	}
	children := root.Children()
	if len(children) != 1 {
		t.Fatalf("root children = %d, want 1", len(children))
	}
	child := tree.Dir(children[0])
	if child == nil || child.Name() != "example.com" || child.Expanded() {
		t.Fatalf("unexpected child %+v", child)
	}
	if s.count(key("r1", models.Path{"example.com"}, "")) != 0 {
		t.Error("collapsed child must not be listed")
	}
}

func TestDirMaterializesTransactionsOnly(t *testing.T) {
	s := rootStore()
	tree := NewTree()
	id, fetches := tree.NewDir("r1", models.Path{"example.com"}, true)
	Drain(context.Background(), tree, s, fetches)

	children := tree.Dir(id).Children()
	if len(children) != 2 {
		t.Fatalf("children = %d, want 2", len(children))
	}
	sub := tree.Dir(children[0])
	if sub == nil || sub.Name() != "sub" {
		t.Fatalf("first child = %+v, want dir sub", tree.Node(children[0]))
	}
	if got := sub.Path().String(); got != "example.com/sub" {
		t.Errorf("sub path = %q", got)
	}
	x := tree.Transaction(children[1])
	if x == nil || x.Hash() != rootTxn {
		t.Fatalf("second child = %+v, want transaction %s", tree.Node(children[1]), rootTxn)
	}
	if got := x.Path().String(); got != "example.com" {
		t.Errorf("transaction path = %q, want example.com", got)
	}
	if x.Expanded() || x.ReqHead() != nil {
		t.Error("transaction should start collapsed and unloaded")
	}
}

func TestDirToggleDoesNotRefetch(t *testing.T) {
	ctx := context.Background()
	s := rootStore()
	tree := NewTree()
	id, fetches := tree.NewDir("r1", models.Path{"example.com"}, false)
	if fetches != nil {
		t.Fatalf("collapsed dir fetched %+v", fetches)
	}

	Drain(ctx, tree, s, tree.Toggle(id))
	first := tree.Dir(id).Children()
	Drain(ctx, tree, s, tree.Toggle(id))
	if len(tree.Dir(id).Children()) != 0 {
		t.Error("collapse should drop children")
	}
	for _, c := range first {
		if tree.Node(c) != nil {
			t.Errorf("child %d survived collapse", c)
		}
	}
	Drain(ctx, tree, s, tree.Toggle(id))

	if n := s.count(key("r1", models.Path{"example.com"}, "")); n != 1 {
		t.Errorf("listing fetched %d times, want 1", n)
	}
	second := tree.Dir(id).Children()
	if len(second) != 2 {
		t.Fatalf("children after re-expand = %d, want 2", len(second))
	}
	if second[0] == first[0] {
		t.Error("node ids must not be reused")
	}
}

func TestDirListingError(t *testing.T) {
	s := rootStore()
	tree := NewTree()
	id, fetches := tree.NewDir("r1", models.Path{"missing"}, true)
	Drain(context.Background(), tree, s, fetches)

	d := tree.Dir(id)
	if d.Err() == nil {
		t.Fatal("expected listing error")
	}

	// a failed directory still collapses and expands, but is never listed again
	if fs := tree.Toggle(id); fs != nil || d.Expanded() {
		t.Errorf("collapse: fetches=%+v expanded=%v", fs, d.Expanded())
	}
	if fs := tree.Toggle(id); fs != nil || !d.Expanded() {
		t.Errorf("expand: fetches=%+v expanded=%v", fs, d.Expanded())
	}
	if n := s.count(key("r1", models.Path{"missing"}, "")); n != 1 {
		t.Errorf("listing fetched %d times, want 1", n)
	}
	if d.Err() == nil || len(d.Children()) != 0 {
		t.Errorf("err=%v children=%d", d.Err(), len(d.Children()))
	}
}

func TestCollapsedWhileLoadingKeepsListing(t *testing.T) {
	s := rootStore()
	tree := NewTree()
	id, _ := tree.NewDir("r1", models.Path{"example.com"}, false)

	fetches := tree.Toggle(id)
	tree.Toggle(id) // collapse before the listing arrives

	Drain(context.Background(), tree, s, fetches)
	d := tree.Dir(id)
	if !d.Loaded() || len(d.Children()) != 0 {
		t.Fatalf("loaded=%v children=%d", d.Loaded(), len(d.Children()))
	}
	if fs := tree.Toggle(id); fs != nil {
		t.Errorf("re-expand fetched %+v", fs)
	}
	if len(d.Children()) != 2 {
		t.Errorf("children = %d, want 2", len(d.Children()))
	}
}
