package cmd

import (
	"context"

	"github.com/pders01/lockview/internal/view"
)

// expandDirs opens directories below id level by level, draining each level
// before the next. depth counts the listing of id itself as level one; zero
// or less means no limit.
func expandDirs(ctx context.Context, t *view.Tree, s view.Store, id view.NodeID, depth int) {
	frontier := []view.NodeID{id}
	for level := 1; len(frontier) > 0 && (depth <= 0 || level < depth); level++ {
		var next []view.NodeID
		var fetches []view.Fetch
		for _, fid := range frontier {
			d := t.Dir(fid)
			if d == nil || d.Err() != nil {
				continue
			}
			for _, c := range d.Children() {
				if child := t.Dir(c); child != nil && !child.Expanded() {
					fetches = append(fetches, t.Toggle(c)...)
					next = append(next, c)
				}
			}
		}
		view.Drain(ctx, t, s, fetches)
		frontier = next
	}
}

// expandTransactions opens every collapsed transaction below id
func expandTransactions(ctx context.Context, t *view.Tree, s view.Store, id view.NodeID) {
	var ids []view.NodeID
	t.Walk(id, func(n view.Node) bool {
		if x, ok := n.(*view.TransactionNode); ok && !x.Expanded() {
			ids = append(ids, x.ID())
		}
		return true
	})

	var fetches []view.Fetch
	for _, x := range ids {
		fetches = append(fetches, t.Toggle(x)...)
	}
	view.Drain(ctx, t, s, fetches)
}
