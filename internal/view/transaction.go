package view

import (
	"github.com/pders01/lockview/internal/models"
)

// TransactionNode is one captured request/response pair in a directory
type TransactionNode struct {
	base
	hash     string
	reqHead  *models.HeadMetadata
	respHead *models.HeadMetadata
	inflight int
	reqBody  NodeID
	respBody NodeID
}

// NewTransaction adds a transaction node for hash under path. It loads its
// heads right away only when expanded is set.
func (t *Tree) NewTransaction(root string, path models.Path, hash string, expanded bool) (NodeID, []Fetch) {
	return t.newTransaction(NoNode, root, path, hash, expanded)
}

func (t *Tree) newTransaction(parent NodeID, root string, path models.Path, hash string, expanded bool) (NodeID, []Fetch) {
	x := &TransactionNode{
		base:     t.newBase(parent, root, path),
		hash:     hash,
		reqBody:  NoNode,
		respBody: NoNode,
	}
	id := t.add(x, func(id NodeID) { x.id = id })

	if expanded {
		x.expanded = true
		return id, x.Load()
	}
	return id, nil
}

func (x *TransactionNode) Kind() Kind { return KindTransaction }

// Hash returns the transaction hash
func (x *TransactionNode) Hash() string { return x.hash }

// ReqHead returns the request head, nil until loaded
func (x *TransactionNode) ReqHead() *models.HeadMetadata { return x.reqHead }

// RespHead returns the response head, nil until loaded
func (x *TransactionNode) RespHead() *models.HeadMetadata { return x.respHead }

// Complete reports whether both heads are loaded
func (x *TransactionNode) Complete() bool {
	return x.reqHead != nil && x.respHead != nil
}

// Bodies returns the request and response body nodes, NoNode until both heads
// are loaded
func (x *TransactionNode) Bodies() (req, resp NodeID) {
	return x.reqBody, x.respBody
}

func (x *TransactionNode) children() []NodeID {
	if x.reqBody == NoNode {
		return nil
	}
	return []NodeID{x.reqBody, x.respBody}
}

func (x *TransactionNode) Toggle() []Fetch {
	x.expanded = !x.expanded
	if !x.expanded || x.err != nil {
		return nil
	}
	if !x.Complete() {
		return x.Load()
	}
	return x.loadBodies()
}

// Load requests both heads, concurrently and independently of each other.
// Heads are fetched once; a complete transaction never loads again.
func (x *TransactionNode) Load() []Fetch {
	if x.inflight > 0 || x.err != nil || x.Complete() {
		return nil
	}
	x.inflight = 2
	return []Fetch{x.headFetch(models.RoleReq), x.headFetch(models.RoleResp)}
}

func (x *TransactionNode) headFetch(role models.Role) Fetch {
	return Fetch{
		Node:     x.id,
		Token:    x.tok,
		Op:       OpHead,
		Root:     x.root,
		Path:     x.path.Clone(),
		Artifact: models.Artifact(x.hash, role, models.PartHead),
		Role:     role,
	}
}

// apply records one head. Whichever fetch settles last decides the displayed
// state: an error replaces the node, a success clears an earlier error.
func (x *TransactionNode) apply(r Result) []Fetch {
	if x.inflight > 0 {
		x.inflight--
	}
	if r.Err != nil {
		x.err = r.Err
		return nil
	}
	x.err = nil

	switch r.Fetch.Role {
	case models.RoleReq:
		x.reqHead = r.Head
	case models.RoleResp:
		x.respHead = r.Head
	}

	if !x.Complete() {
		return nil
	}
	if x.reqBody == NoNode {
		x.reqBody = x.tree.newBody(x.id, x.root, x.path, x.hash, models.RoleReq, *x.reqHead)
		x.respBody = x.tree.newBody(x.id, x.root, x.path, x.hash, models.RoleResp, *x.respHead)
	}
	if x.expanded {
		return x.loadBodies()
	}
	return nil
}

// loadBodies is called whenever the bodies become visible
func (x *TransactionNode) loadBodies() []Fetch {
	var fetches []Fetch
	for _, id := range x.children() {
		if b := x.tree.Body(id); b != nil {
			fetches = append(fetches, b.Load()...)
		}
	}
	return fetches
}
