package view

import (
	"context"
	"strings"
	"testing"

	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/models"
)

func entry(action string, path ...string) models.DiffEntry {
	return models.DiffEntry{Action: action, Path: path}
}

var (
	hashA = txHash("a")
	hashB = txHash("b")
	hashC = txHash("c")
)

func TestReconcileGroupsByDirectory(t *testing.T) {
	entries := []models.DiffEntry{
		entry(models.ActionAdded, "example.com", "sub", respHeadName(hashA)),
		entry(models.ActionAdded, "example.com", "sub", reqHeadName(hashA)),
		entry(models.ActionDeleted, "example.com", "sub", respHeadName(hashB)),
		entry(models.ActionChanged, "example.com", "other", respHeadName(hashC)),
		entry(models.ActionChanged, "example.com", "other", models.Artifact(hashC, models.RoleResp, models.PartBody)),
	}
	rows := Reconcile(entries, nil)

	want := []struct {
		kind   RowKind
		text   string
		action string
	}{
		{RowHeading, "sub", ""},
		{RowChange, hashA, models.ActionAdded},
		{RowChange, hashB, models.ActionDeleted},
		{RowHeading, "other", ""},
		{RowChange, hashC, models.ActionChanged},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v, want %d rows", rows, len(want))
	}
	for i, w := range want {
		r := rows[i]
		if r.Kind != w.kind {
			t.Errorf("row %d kind = %v, want %v", i, r.Kind, w.kind)
			continue
		}
		if r.Kind == RowHeading && r.Dir != w.text {
			t.Errorf("row %d heading = %q, want %q", i, r.Dir, w.text)
		}
		if r.Kind == RowChange && (r.Hash != w.text || r.Action != w.action) {
			t.Errorf("row %d = %s %s, want %s %s", i, r.Action, r.Hash, w.action, w.text)
		}
	}
	if got := rows[1].Path.String(); got != "example.com/sub" {
		t.Errorf("change path = %q, want example.com/sub", got)
	}
}

func TestReconcileRepeatsHeadingWhenDirectoryReturns(t *testing.T) {
	entries := []models.DiffEntry{
		entry(models.ActionAdded, "a.com", "sub", respHeadName(hashA)),
		entry(models.ActionAdded, "a.com", "other", respHeadName(hashB)),
		entry(models.ActionAdded, "a.com", "sub", respHeadName(hashC)),
	}
	headings := 0
	for _, r := range Reconcile(entries, nil) {
		if r.Kind == RowHeading {
			headings++
		}
	}
	if headings != 3 {
		t.Errorf("headings = %d, want 3", headings)
	}
}

// rowKeys flattens rows to "H:<dir>" for headings and the action for changes
func rowKeys(rows []DiffRow) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		if r.Kind == RowHeading {
			keys[i] = "H:" + r.Dir
		} else {
			keys[i] = r.Action
		}
	}
	return keys
}

func TestReconcileUnknownActionStillMovesHeading(t *testing.T) {
	s := diag.NewStream()
	rows := Reconcile([]models.DiffEntry{
		entry(models.ActionAdded, "d", "a", respHeadName(hashA)),
		entry("renamed", "d", "b", respHeadName(hashB)),
		entry(models.ActionAdded, "d", "a", respHeadName(hashC)),
	}, s)

	got := strings.Join(rowKeys(rows), ",")
	if want := "H:a,added,H:b,H:a,added"; got != want {
		t.Errorf("rows = %s, want %s", got, want)
	}
	if n := s.Count(diag.UnhandledAction); n != 1 {
		t.Errorf("Count(unhandled-action) = %d, want 1", n)
	}
}

func TestReconcileAnomalies(t *testing.T) {
	tests := []struct {
		name  string
		entry models.DiffEntry
		kind  string
		rows  string
	}{
		{"short path", entry(models.ActionAdded, "example.com", respHeadName(hashA)), diag.UnexpectedPath, ""},
		{"long path", entry(models.ActionAdded, "a", "b", "c", respHeadName(hashA)), diag.UnexpectedPath, ""},
		{"changed request", entry(models.ActionChanged, "a", "b", reqHeadName(hashA)), diag.ChangedRequest, ""},
		{"unknown action", entry("renamed", "a", "b", respHeadName(hashA)), diag.UnhandledAction, "H:b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := diag.NewStream()
			rows := Reconcile([]models.DiffEntry{tt.entry}, s)
			if got := strings.Join(rowKeys(rows), ","); got != tt.rows {
				t.Errorf("rows = %q, want %q", got, tt.rows)
			}
			if got := s.Count(tt.kind); got != 1 {
				t.Errorf("Count(%s) = %d, want 1", tt.kind, got)
			}
			if got := s.Count(""); got != 1 {
				t.Errorf("total = %d, want 1", got)
			}
		})
	}
}

func TestReconcileSkipsOtherArtifactsSilently(t *testing.T) {
	s := diag.NewStream()
	rows := Reconcile([]models.DiffEntry{
		entry(models.ActionAdded, "a", "b", reqHeadName(hashA)),
		entry(models.ActionDeleted, "a", "b", models.Artifact(hashA, models.RoleReq, models.PartBody)),
		entry(models.ActionChanged, "a", "b", models.Artifact(hashA, models.RoleResp, models.PartBody)),
		entry(models.ActionAdded, "a", "b", "aaa-resp-head"),
	}, s)
	if len(rows) != 0 || s.Count("") != 0 {
		t.Errorf("rows = %d anomalies = %d, want 0 and 0", len(rows), s.Count(""))
	}
}

var (
	newHash = txHash("e")
	modHash = txHash("f")
)

func diffStore() *memStore {
	s := newMemStore()
	path := models.Path{"example.com", "sub"}
	s.reports["r1..r2"] = &models.DiffReport{
		R1: "r1",
		R2: "r2",
		Entries: []models.DiffEntry{
			entry(models.ActionAdded, "example.com", "sub", respHeadName(newHash)),
			entry(models.ActionChanged, "example.com", "sub", respHeadName(modHash)),
			entry(models.ActionAdded, "example.com", "api"),
		},
	}
	s.addTransaction("r2", path, newHash, head("", 0), head("", 0), "", "")
	s.addTransaction("r1", path, modHash, head("", 0), head("text/plain", 3), "", "old")
	s.addTransaction("r2", path, modHash, head("", 0), head("text/plain", 3), "", "new")
	return s
}

func TestDiffNodeBuildsTransactions(t *testing.T) {
	ctx := context.Background()
	s := diffStore()
	rec := diag.NewStream()
	tree := NewTree(WithRecorder(rec))
	id := tree.NewDiff()

	if fs := tree.Diff(id).SetPair("r1", ""); fs != nil {
		t.Fatalf("half a pair fetched %+v", fs)
	}
	Drain(ctx, tree, s, tree.Diff(id).SetPair("r1", "r2"))

	d := tree.Diff(id)
	if !d.Loaded() || d.Err() != nil {
		t.Fatalf("loaded=%v err=%v", d.Loaded(), d.Err())
	}
	summary := d.Summary()
	want := DiffSummary{Added: 1, Changed: 1, Headings: 1, Anomalies: 1}
	if summary != want {
		t.Errorf("Summary() = %+v, want %+v", summary, want)
	}
	if rec.Count(diag.UnexpectedPath) != 1 {
		t.Errorf("recorder saw %d unexpected paths, want 1", rec.Count(diag.UnexpectedPath))
	}

	rows := d.Rows()
	added, changed := rows[1], rows[2]
	if added.Before != NoNode || added.After == NoNode {
		t.Errorf("added row = %+v", added)
	}
	if tree.Transaction(added.After).Root() != "r2" {
		t.Error("added transaction should read from the second root")
	}
	if tree.Transaction(changed.Before).Root() != "r1" || tree.Transaction(changed.After).Root() != "r2" {
		t.Error("changed transactions should read from both roots")
	}

	Drain(ctx, tree, s, tree.Toggle(changed.After))
	_, respID := tree.Transaction(changed.After).Bodies()
	if got := tree.Body(respID).Content(); got != "new" {
		t.Errorf("after body = %q, want new", got)
	}
}

func TestDiffNodePairChangeDiscardsStaleReport(t *testing.T) {
	s := diffStore()
	s.reports["r1..r3"] = &models.DiffReport{R1: "r1", R2: "r3"}
	tree := NewTree()
	id := tree.NewDiff()
	d := tree.Diff(id)

	stale := d.SetPair("r1", "r2")
	fresh := d.SetPair("r1", "r3")
	if len(stale) != 1 || len(fresh) != 1 {
		t.Fatalf("stale=%d fresh=%d", len(stale), len(fresh))
	}

	ctx := context.Background()
	// fresh settles first, then the old pair's report arrives
	if fs := tree.Apply(Execute(ctx, s, fresh[0])); fs != nil {
		t.Fatalf("empty report produced fetches %+v", fs)
	}
	if fs := tree.Apply(Execute(ctx, s, stale[0])); fs != nil {
		t.Errorf("stale report produced fetches %+v", fs)
	}

	if r1, r2 := d.Pair(); r1 != "r1" || r2 != "r3" {
		t.Errorf("Pair() = %s, %s", r1, r2)
	}
	if len(d.Rows()) != 0 {
		t.Errorf("rows = %+v, want none from the stale report", d.Rows())
	}
	if d.Report().R2 != "r3" {
		t.Errorf("report R2 = %q, want r3", d.Report().R2)
	}
}

func TestDiffNodeSamePairIsNoop(t *testing.T) {
	tree := NewTree()
	d := tree.Diff(tree.NewDiff())
	if fs := d.SetPair("r1", "r2"); len(fs) != 1 {
		t.Fatalf("fetches = %d, want 1", len(fs))
	}
	if fs := d.SetPair("r1", "r2"); fs != nil {
		t.Errorf("same pair fetched %+v", fs)
	}
}

func TestDiffNodeErrorStaysUntilPairChanges(t *testing.T) {
	s := newMemStore()
	tree := NewTree()
	d := tree.Diff(tree.NewDiff())
	Drain(context.Background(), tree, s, d.SetPair("r1", "r2"))
	if d.Err() == nil {
		t.Fatal("expected error for unknown pair")
	}
	if fs := d.Load(); fs != nil {
		t.Errorf("Load after error = %+v", fs)
	}
	if fs := d.SetPair("r2", "r1"); len(fs) != 1 || d.Err() != nil {
		t.Errorf("new pair: fetches=%d err=%v", len(fs), d.Err())
	}
}
