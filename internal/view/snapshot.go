package view

import (
	"encoding/json"
)

// Snapshot is a serializable picture of a node and its visible descendants,
// used for --json and --toon output
type Snapshot struct {
	Kind  string   `json:"kind"`
	ID    NodeID   `json:"id"`
	Root  string   `json:"root,omitempty"`
	Root2 string   `json:"root2,omitempty"`
	Path  []string `json:"path,omitempty"`
	Name  string   `json:"name,omitempty"`
	Hash  string   `json:"hash,omitempty"`
	State string   `json:"state"`
	Error string   `json:"error,omitempty"`

	RequestHead  map[string]any `json:"request_head,omitempty"`
	ResponseHead map[string]any `json:"response_head,omitempty"`
	RequestBody  *Snapshot      `json:"request_body,omitempty"`
	ResponseBody *Snapshot      `json:"response_body,omitempty"`

	Role        string `json:"role,omitempty"`
	Class       string `json:"class,omitempty"`
	Content     string `json:"content,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`

	Children []Snapshot   `json:"children,omitempty"`
	Rows     []RowSnapshot `json:"rows,omitempty"`
	Summary  *DiffSummary  `json:"summary,omitempty"`
}

// RowSnapshot is one reconciled diff row
type RowSnapshot struct {
	Heading string    `json:"heading,omitempty"`
	Action  string    `json:"action,omitempty"`
	Path    []string  `json:"path,omitempty"`
	Hash    string    `json:"hash,omitempty"`
	Before  *Snapshot `json:"before,omitempty"`
	After   *Snapshot `json:"after,omitempty"`
}

// Snapshot captures the node with the given id. It returns nil for a
// destroyed node.
func (t *Tree) Snapshot(id NodeID) *Snapshot {
	n := t.Node(id)
	if n == nil {
		return nil
	}

	switch n := n.(type) {
	case *DirNode:
		s := &Snapshot{Kind: "dir", ID: n.id, Root: n.root, Path: n.path, Name: n.Name(), State: state(n.expanded, n.loaded, n.err)}
		if n.err != nil {
			s.Error = n.err.Error()
		}
		for _, c := range n.childIDs {
			if cs := t.Snapshot(c); cs != nil {
				s.Children = append(s.Children, *cs)
			}
		}
		return s

	case *TransactionNode:
		s := &Snapshot{Kind: "transaction", ID: n.id, Root: n.root, Path: n.path, Hash: n.hash, State: state(n.expanded, n.Complete(), n.err)}
		if n.err != nil {
			s.Error = n.err.Error()
		}
		s.RequestHead = headMap(n.reqHead)
		s.ResponseHead = headMap(n.respHead)
		s.RequestBody = t.Snapshot(n.reqBody)
		s.ResponseBody = t.Snapshot(n.respBody)
		return s

	case *BodyNode:
		s := &Snapshot{
			Kind:    "body",
			ID:      n.id,
			Hash:    n.hash,
			Role:    string(n.role),
			Class:   n.class.String(),
			Content: n.content,
			State:   state(true, n.loaded || n.class != ClassDisplayable, n.err),
		}
		if n.class == ClassNotDisplayable {
			s.DownloadURL = n.DownloadURL()
		}
		if n.err != nil {
			s.Error = n.err.Error()
		}
		return s

	case *DiffNode:
		s := &Snapshot{Kind: "diff", ID: n.id, Root: n.root, Root2: n.root2, State: state(n.root != "" && n.root2 != "", n.loaded, n.err)}
		if n.err != nil {
			s.Error = n.err.Error()
		}
		if n.loaded && n.err == nil {
			summary := n.Summary()
			s.Summary = &summary
		}
		for _, r := range n.rows {
			if r.Kind == RowHeading {
				s.Rows = append(s.Rows, RowSnapshot{Heading: r.Dir})
				continue
			}
			s.Rows = append(s.Rows, RowSnapshot{
				Action: r.Action,
				Path:   r.Path,
				Hash:   r.Hash,
				Before: t.Snapshot(r.Before),
				After:  t.Snapshot(r.After),
			})
		}
		return s
	}
	return nil
}

func state(expanded, loaded bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case !expanded:
		return "collapsed"
	case !loaded:
		return "loading"
	default:
		return "loaded"
	}
}

// headMap flattens head metadata into plain values so every encoder can
// handle it
func headMap(h any) map[string]any {
	if h == nil {
		return nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}
