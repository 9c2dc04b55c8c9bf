package view

import (
	"fmt"

	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/models"
)

// RowKind distinguishes directory headings from changes in a reconciled diff
type RowKind int

const (
	RowHeading RowKind = iota
	RowChange
)

// DiffRow is one line of a reconciled diff
type DiffRow struct {
	Kind RowKind

	// Dir is set on headings
	Dir string

	// set on changes
	Action string
	Path   models.Path
	Hash   string
	Before NodeID // transaction in root1, NoNode for added
	After  NodeID // transaction in root2, NoNode for deleted
}

// Reconcile turns the archive's flat diff into headings and changes, keeping
// the server's order. Only response-head entries become changes; a heading is
// emitted whenever a response-head entry's directory differs from the
// previous one's, even if its action is then rejected. Malformed or
// unexpected entries are reported to rec and dropped.
func Reconcile(entries []models.DiffEntry, rec diag.Recorder) []DiffRow {
	if rec == nil {
		rec = diag.Discard
	}
	rows := []DiffRow{}
	prevDir := ""
	for _, e := range entries {
		if len(e.Path) != 3 {
			rec.Record(diag.Event{
				Kind:    diag.UnexpectedPath,
				Message: fmt.Sprintf("unexpected entry path of length %d", len(e.Path)),
				Entry:   e,
			})
			continue
		}
		if _, ok := models.MatchReqHead(e.Path[2]); ok && e.Action == models.ActionChanged {
			rec.Record(diag.Event{
				Kind:    diag.ChangedRequest,
				Message: "unexpected changed request",
				Entry:   e,
			})
			continue
		}
		hash, ok := models.MatchRespHead(e.Path[2])
		if !ok {
			continue
		}

		if e.Path[1] != prevDir {
			rows = append(rows, DiffRow{Kind: RowHeading, Dir: e.Path[1]})
			prevDir = e.Path[1]
		}
		switch e.Action {
		case models.ActionAdded, models.ActionDeleted, models.ActionChanged:
		default:
			rec.Record(diag.Event{
				Kind:    diag.UnhandledAction,
				Message: fmt.Sprintf("unhandled action %q", e.Action),
				Entry:   e,
			})
			continue
		}
		rows = append(rows, DiffRow{
			Kind:   RowChange,
			Action: e.Action,
			Path:   models.Path(e.Path[:2]).Clone(),
			Hash:   hash,
			Before: NoNode,
			After:  NoNode,
		})
	}
	return rows
}

// DiffSummary counts what a reconciled diff contains
type DiffSummary struct {
	Added     int `json:"added"`
	Deleted   int `json:"deleted"`
	Changed   int `json:"changed"`
	Headings  int `json:"headings"`
	Anomalies int `json:"anomalies"`
}

// DiffNode shows the transaction-level differences between two roots
type DiffNode struct {
	base
	root2     string
	loading   bool
	loaded    bool
	report    *models.DiffReport
	rows      []DiffRow
	txns      []NodeID
	anomalies int
}

// NewDiff adds an idle diff node; SetPair starts it
func (t *Tree) NewDiff() NodeID {
	d := &DiffNode{base: t.newBase(NoNode, "", nil)}
	return t.add(d, func(id NodeID) { d.id = id })
}

func (d *DiffNode) Kind() Kind { return KindDiff }

func (d *DiffNode) children() []NodeID { return d.txns }

// Pair returns the roots being compared
func (d *DiffNode) Pair() (root1, root2 string) { return d.root, d.root2 }

// Loading reports whether a diff fetch for the current pair is outstanding
func (d *DiffNode) Loading() bool { return d.loading }

// Loaded reports whether the current pair's diff has arrived
func (d *DiffNode) Loaded() bool { return d.loaded }

// Rows returns the reconciled rows with their transaction nodes
func (d *DiffNode) Rows() []DiffRow {
	out := make([]DiffRow, len(d.rows))
	copy(out, d.rows)
	return out
}

// Report returns the raw report of the current pair, nil until loaded
func (d *DiffNode) Report() *models.DiffReport { return d.report }

// Summary counts the rows of the current pair
func (d *DiffNode) Summary() DiffSummary {
	s := DiffSummary{Anomalies: d.anomalies}
	for _, r := range d.rows {
		switch {
		case r.Kind == RowHeading:
			s.Headings++
		case r.Action == models.ActionAdded:
			s.Added++
		case r.Action == models.ActionDeleted:
			s.Deleted++
		case r.Action == models.ActionChanged:
			s.Changed++
		}
	}
	return s
}

// SetPair switches the node to a new pair of roots. Everything built for the
// previous pair is destroyed and a result still in flight for it will be
// discarded. Nothing is fetched until both roots are non-empty.
func (d *DiffNode) SetPair(root1, root2 string) []Fetch {
	if root1 == d.root && root2 == d.root2 {
		return nil
	}
	d.root, d.root2 = root1, root2
	d.tree.destroyAll(d.txns)
	d.txns = nil
	d.rows = nil
	d.report = nil
	d.err = nil
	d.loaded = false
	d.loading = false
	d.anomalies = 0
	d.tok = newToken()

	return d.Load()
}

// Toggle on a diff is the same as Load
func (d *DiffNode) Toggle() []Fetch {
	return d.Load()
}

// Load requests the diff of the current pair if it has not been requested yet
func (d *DiffNode) Load() []Fetch {
	if d.root == "" || d.root2 == "" || d.loading || d.loaded || d.err != nil {
		return nil
	}
	d.loading = true
	return []Fetch{{
		Node:  d.id,
		Token: d.tok,
		Op:    OpDiff,
		Root:  d.root,
		Root2: d.root2,
	}}
}

func (d *DiffNode) apply(r Result) []Fetch {
	d.loading = false
	d.loaded = true
	if r.Err != nil {
		d.err = r.Err
		return nil
	}
	d.report = r.Report

	var entries []models.DiffEntry
	if r.Report != nil {
		entries = r.Report.Entries
	}
	counter := &countingRecorder{next: d.tree.recorder}
	d.rows = Reconcile(entries, counter)
	d.anomalies = counter.n

	var fetches []Fetch
	for i := range d.rows {
		row := &d.rows[i]
		if row.Kind != RowChange {
			continue
		}
		if row.Action == models.ActionDeleted || row.Action == models.ActionChanged {
			id, fs := d.tree.newTransaction(d.id, d.root, row.Path, row.Hash, false)
			row.Before = id
			d.txns = append(d.txns, id)
			fetches = append(fetches, fs...)
		}
		if row.Action == models.ActionAdded || row.Action == models.ActionChanged {
			id, fs := d.tree.newTransaction(d.id, d.root2, row.Path, row.Hash, false)
			row.After = id
			d.txns = append(d.txns, id)
			fetches = append(fetches, fs...)
		}
	}
	return fetches
}

type countingRecorder struct {
	next diag.Recorder
	n    int
}

func (c *countingRecorder) Record(e diag.Event) {
	c.n++
	c.next.Record(e)
}
