package view

import (
	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/logging"
	"github.com/pders01/lockview/internal/metrics"
	"github.com/pders01/lockview/internal/models"
)

// Links builds the out-of-band retrieval URLs shown for bodies that are not
// rendered inline
type Links interface {
	FileURL(root string, path models.Path, artifact, contentType string) string
	ResponseURL(root string, path models.Path, hash string) string
}

// Tree is the arena owning every node of one session. It is not safe for
// concurrent use; fetch results must be applied from a single goroutine.
type Tree struct {
	nodes    []Node
	live     int
	policy   Policy
	links    Links
	recorder diag.Recorder
}

// Option configures a Tree
type Option func(*Tree)

// WithPolicy sets the body content policy
func WithPolicy(p Policy) Option {
	return func(t *Tree) { t.policy = p }
}

// WithLinks sets the builder for download URLs
func WithLinks(l Links) Option {
	return func(t *Tree) { t.links = l }
}

// WithRecorder sets where diff anomalies are reported
func WithRecorder(r diag.Recorder) Option {
	return func(t *Tree) { t.recorder = r }
}

// NewTree creates an empty tree
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		policy:   DefaultPolicy,
		recorder: diag.Discard,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tree) add(n Node, setID func(NodeID)) NodeID {
	id := NodeID(len(t.nodes))
	setID(id)
	t.nodes = append(t.nodes, n)
	t.live++
	return id
}

// Node returns the live node with the given id, or nil
func (t *Tree) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Dir returns the directory node with the given id, or nil
func (t *Tree) Dir(id NodeID) *DirNode {
	d, _ := t.Node(id).(*DirNode)
	return d
}

// Transaction returns the transaction node with the given id, or nil
func (t *Tree) Transaction(id NodeID) *TransactionNode {
	x, _ := t.Node(id).(*TransactionNode)
	return x
}

// Body returns the body node with the given id, or nil
func (t *Tree) Body(id NodeID) *BodyNode {
	b, _ := t.Node(id).(*BodyNode)
	return b
}

// Diff returns the diff node with the given id, or nil
func (t *Tree) Diff(id NodeID) *DiffNode {
	d, _ := t.Node(id).(*DiffNode)
	return d
}

// Len returns the number of live nodes
func (t *Tree) Len() int {
	return t.live
}

// Toggle toggles the node with the given id
func (t *Tree) Toggle(id NodeID) []Fetch {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	return n.Toggle()
}

// Apply hands a settled result to its node and returns any follow-up fetches.
// Results for destroyed nodes, or carrying a superseded token, are dropped.
func (t *Tree) Apply(r Result) []Fetch {
	n := t.Node(r.Fetch.Node)
	if n == nil || n.token() != r.Fetch.Token {
		logging.Debug("discarding stale result",
			logging.String("op", r.Fetch.Op.String()),
			logging.Int("node", int(r.Fetch.Node)),
			logging.String("token", r.Fetch.Token.String()),
		)
		metrics.RecordStale(r.Fetch.Op.String())
		return nil
	}
	if r.Err != nil {
		logging.Debug("fetch failed",
			logging.String("op", r.Fetch.Op.String()),
			logging.String("root", r.Fetch.Root),
			logging.Strings("path", r.Fetch.Path),
			logging.Err(r.Err),
		)
	}
	return n.apply(r)
}

// Destroy removes a node and everything below it. Pending results for any of
// them will be discarded.
func (t *Tree) Destroy(id NodeID) {
	n := t.Node(id)
	if n == nil {
		return
	}
	t.destroyAll(n.children())
	t.nodes[id] = nil
	t.live--
}

func (t *Tree) destroyAll(ids []NodeID) {
	for _, id := range ids {
		t.Destroy(id)
	}
}

// Walk visits id and its live descendants depth first, in display order
func (t *Tree) Walk(id NodeID, fn func(Node) bool) {
	n := t.Node(id)
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.children() {
		t.Walk(c, fn)
	}
}
