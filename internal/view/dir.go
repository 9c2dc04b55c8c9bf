package view

import (
	"github.com/pders01/lockview/internal/models"
)

// DirNode is one directory of a root, listed on first expansion
type DirNode struct {
	base
	loaded   bool
	pending  bool
	entries  models.Listing
	childIDs []NodeID
}

// NewDir adds a directory node. The root path is always expanded right away;
// any other path starts collapsed unless expanded is set, in which case it
// loads immediately.
func (t *Tree) NewDir(root string, path models.Path, expanded bool) (NodeID, []Fetch) {
	return t.newDir(NoNode, root, path, expanded)
}

func (t *Tree) newDir(parent NodeID, root string, path models.Path, expanded bool) (NodeID, []Fetch) {
	d := &DirNode{base: t.newBase(parent, root, path)}
	id := t.add(d, func(id NodeID) { d.id = id })

	if len(path) == 0 {
		return id, d.Toggle()
	}
	if expanded {
		d.expanded = true
		return id, d.Load()
	}
	return id, nil
}

func (d *DirNode) Kind() Kind { return KindDir }

// Name returns the last path segment, "" for the root
func (d *DirNode) Name() string { return d.path.Name() }

// IsRoot reports whether this is the root directory
func (d *DirNode) IsRoot() bool { return len(d.path) == 0 }

// Loaded reports whether the listing has arrived (or failed)
func (d *DirNode) Loaded() bool { return d.loaded }

// Entries returns the cached listing
func (d *DirNode) Entries() models.Listing { return d.entries }

// Children returns the materialized child nodes, empty while collapsed
func (d *DirNode) Children() []NodeID {
	out := make([]NodeID, len(d.childIDs))
	copy(out, d.childIDs)
	return out
}

func (d *DirNode) children() []NodeID { return d.childIDs }

// Toggle flips the expanded state. A failed directory only flips; it is
// never listed again.
func (d *DirNode) Toggle() []Fetch {
	d.expanded = !d.expanded
	if d.err != nil {
		return nil
	}
	if !d.expanded {
		d.tree.destroyAll(d.childIDs)
		d.childIDs = nil
		return nil
	}
	if d.loaded {
		return d.materialize()
	}
	return d.Load()
}

func (d *DirNode) Load() []Fetch {
	if d.loaded || d.pending || d.err != nil {
		return nil
	}
	d.pending = true
	return []Fetch{{
		Node:  d.id,
		Token: d.tok,
		Op:    OpListDir,
		Root:  d.root,
		Path:  d.path.Clone(),
	}}
}

func (d *DirNode) apply(r Result) []Fetch {
	d.pending = false
	d.loaded = true
	if r.Err != nil {
		d.err = r.Err
		return nil
	}
	d.entries = r.Listing
	if d.expanded {
		return d.materialize()
	}
	return nil
}

// materialize creates child nodes from the cached listing. Directories become
// DirNodes, request-head files become TransactionNodes, anything else is
// skipped.
func (d *DirNode) materialize() []Fetch {
	if d.childIDs != nil {
		return nil
	}
	var fetches []Fetch
	d.childIDs = []NodeID{}
	for _, e := range d.entries {
		switch e.Kind {
		case models.KindDir:
			id, fs := d.tree.newDir(d.id, d.root, d.path.Child(e.Name), false)
			d.childIDs = append(d.childIDs, id)
			fetches = append(fetches, fs...)
		case models.KindFile:
			hash, ok := models.MatchReqHead(e.Name)
			if !ok {
				continue
			}
			id, fs := d.tree.newTransaction(d.id, d.root, d.path, hash, false)
			d.childIDs = append(d.childIDs, id)
			fetches = append(fetches, fs...)
		}
	}
	return fetches
}
