package view

import (
	"encoding/json"
	"strings"
)

// Style tells a front end what a rendered line represents
type Style int

const (
	StyleHeader Style = iota
	StyleLoading
	StyleError
	StyleHeading
	StyleAction
	StyleLabel
	StyleContent
	StyleEmpty
	StyleLink
)

// Line is one rendered line. Node is set on lines that toggle a node.
type Line struct {
	Depth int
	Node  NodeID
	Style Style
	Text  string
}

// Render lays out the visible part of the subtree rooted at id
func (t *Tree) Render(id NodeID) []Line {
	var lines []Line
	t.render(id, 0, &lines)
	return lines
}

// Text joins rendered lines, indenting two spaces per level
func Text(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.Repeat("  ", l.Depth))
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Tree) render(id NodeID, depth int, out *[]Line) {
	switch n := t.Node(id).(type) {
	case *DirNode:
		t.renderDir(n, depth, out)
	case *TransactionNode:
		t.renderTransaction(n, depth, out)
	case *BodyNode:
		t.renderBody(n, depth, out)
	case *DiffNode:
		t.renderDiff(n, depth, out)
	}
}

func errorLine(id NodeID, depth int, err error) Line {
	return Line{Depth: depth, Node: id, Style: StyleError, Text: "Error: " + err.Error()}
}

func (t *Tree) renderDir(d *DirNode, depth int, out *[]Line) {
	if d.err != nil {
		*out = append(*out, errorLine(d.id, depth, d.err))
		return
	}

	childDepth := depth
	if d.IsRoot() {
		if !d.loaded {
			*out = append(*out, Line{Depth: depth, Node: NoNode, Style: StyleLoading, Text: "Loading..."})
		}
	} else {
		prefix := "-"
		if !d.expanded {
			prefix = "+"
		} else if !d.loaded {
			prefix = "*"
		}
		*out = append(*out, Line{Depth: depth, Node: d.id, Style: StyleHeader, Text: prefix + " " + d.Name()})
		childDepth = depth + 1
	}

	if d.expanded && d.loaded {
		for _, c := range d.childIDs {
			t.render(c, childDepth, out)
		}
	}
}

func (t *Tree) renderTransaction(x *TransactionNode, depth int, out *[]Line) {
	if x.err != nil {
		*out = append(*out, errorLine(x.id, depth, x.err))
		return
	}
	if !x.expanded {
		*out = append(*out, Line{Depth: depth, Node: x.id, Style: StyleHeader, Text: "+ " + x.hash})
		return
	}
	*out = append(*out, Line{Depth: depth, Node: x.id, Style: StyleHeader, Text: "- " + x.hash})
	if !x.Complete() {
		*out = append(*out, Line{Depth: depth + 1, Node: NoNode, Style: StyleLoading, Text: "Loading..."})
		return
	}

	sections := []struct {
		label string
		head  any
		body  NodeID
	}{
		{"Request Header:", x.reqHead, x.reqBody},
		{"Response Header:", x.respHead, x.respBody},
	}
	for _, s := range sections {
		*out = append(*out, Line{Depth: depth + 1, Node: NoNode, Style: StyleLabel, Text: s.label})
		for _, l := range prettyLines(s.head) {
			*out = append(*out, Line{Depth: depth + 2, Node: NoNode, Style: StyleContent, Text: l})
		}
		t.render(s.body, depth+2, out)
	}
}

func (t *Tree) renderBody(b *BodyNode, depth int, out *[]Line) {
	if b.err != nil {
		*out = append(*out, errorLine(b.id, depth, b.err))
		return
	}
	switch b.class {
	case ClassEmpty:
		*out = append(*out, Line{Depth: depth, Node: NoNode, Style: StyleEmpty, Text: "(Empty)"})
	case ClassDisplayable:
		if !b.loaded {
			*out = append(*out, Line{Depth: depth, Node: b.id, Style: StyleLoading, Text: "Loading..."})
			return
		}
		for _, l := range strings.Split(strings.TrimSuffix(b.content, "\n"), "\n") {
			*out = append(*out, Line{Depth: depth, Node: NoNode, Style: StyleContent, Text: l})
		}
	default:
		*out = append(*out, Line{Depth: depth, Node: NoNode, Style: StyleLink, Text: "Download: " + b.DownloadURL()})
	}
}

func (t *Tree) renderDiff(d *DiffNode, depth int, out *[]Line) {
	if d.err != nil {
		*out = append(*out, errorLine(d.id, depth, d.err))
		return
	}
	if d.loading {
		*out = append(*out, Line{Depth: depth, Node: NoNode, Style: StyleLoading, Text: "Loading..."})
		return
	}
	for _, r := range d.rows {
		if r.Kind == RowHeading {
			*out = append(*out, Line{Depth: depth, Node: NoNode, Style: StyleHeading, Text: r.Dir})
			continue
		}
		*out = append(*out, Line{Depth: depth + 1, Node: NoNode, Style: StyleAction, Text: r.Action + ":"})
		if r.Before != NoNode {
			t.render(r.Before, depth+2, out)
		}
		if r.Before != NoNode && r.After != NoNode {
			*out = append(*out, Line{Depth: depth + 2, Node: NoNode, Style: StyleAction, Text: "->"})
		}
		if r.After != NoNode {
			t.render(r.After, depth+2, out)
		}
	}
}

func prettyLines(v any) []string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return []string{err.Error()}
	}
	return strings.Split(string(b), "\n")
}
