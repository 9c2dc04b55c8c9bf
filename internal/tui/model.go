// Package tui is the interactive browser: a root picker, a lazily expanding
// tree per root and a diff view between two roots, all driven by view.Tree.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/lockview/internal/logging"
	"github.com/pders01/lockview/internal/models"
	"github.com/pders01/lockview/internal/view"
)

// Archive is what the browser reads from
type Archive interface {
	view.Store
	ListRoots(ctx context.Context) ([]string, error)
}

// Options picks what the browser opens first
type Options struct {
	// Root opens this root's tree instead of the root list
	Root string
	// Root2, together with Root, opens the diff of the two roots
	Root2 string
}

type screen int

const (
	screenRoots screen = iota
	screenTree
	screenDiff
)

type rootsMsg struct {
	roots []string
	err   error
}

type resultMsg struct {
	result view.Result
}

type model struct {
	ctx     context.Context
	archive Archive
	tree    *view.Tree

	screen  screen
	roots   []string
	err     error
	marked  string
	root    string
	current view.NodeID
	diffID  view.NodeID
	pending []view.Fetch

	lines    []view.Line
	cursor   int
	offset   int
	width    int
	height   int
	help     help.Model
	showHelp bool
}

// Run starts the browser and blocks until the user quits
func Run(ctx context.Context, archive Archive, tree *view.Tree, opts Options) error {
	p := tea.NewProgram(newModel(ctx, archive, tree, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func newModel(ctx context.Context, archive Archive, tree *view.Tree, opts Options) model {
	m := model{
		ctx:     ctx,
		archive: archive,
		tree:    tree,
		current: view.NoNode,
		diffID:  view.NoNode,
		help:    help.New(),
	}

	switch {
	case opts.Root != "" && opts.Root2 != "":
		m.pending = m.openDiff(opts.Root, opts.Root2)
	case opts.Root != "":
		m.pending = m.openRoot(opts.Root)
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadRoots(), m.fetch(m.pending))
}

func (m model) loadRoots() tea.Cmd {
	ctx, archive := m.ctx, m.archive
	return func() tea.Msg {
		roots, err := archive.ListRoots(ctx)
		return rootsMsg{roots: roots, err: err}
	}
}

// fetch turns pending fetches into commands; results come back as resultMsg
func (m model) fetch(fetches []view.Fetch) tea.Cmd {
	if len(fetches) == 0 {
		return nil
	}
	ctx, archive := m.ctx, m.archive
	cmds := make([]tea.Cmd, 0, len(fetches))
	for _, f := range fetches {
		cmds = append(cmds, func() tea.Msg {
			return resultMsg{result: view.Execute(ctx, archive, f)}
		})
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil

	case rootsMsg:
		m.roots, m.err = msg.roots, msg.err
		if msg.err != nil {
			logging.Warn("failed to list roots", logging.Err(msg.err))
		}
		m.refresh()
		return m, nil

	case resultMsg:
		fetches := m.tree.Apply(msg.result)
		m.refresh()
		return m, m.fetch(fetches)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.scroll()
		return m, nil

	case key.Matches(msg, keys.Up):
		m.move(-1)
	case key.Matches(msg, keys.Down):
		m.move(1)
	case key.Matches(msg, keys.Top):
		m.move(-len(m.lines))
	case key.Matches(msg, keys.Bottom):
		m.move(len(m.lines))

	case key.Matches(msg, keys.Toggle):
		fetches := m.toggle()
		return m, m.fetch(fetches)

	case key.Matches(msg, keys.Diff):
		m.markForDiff()

	case key.Matches(msg, keys.Swap):
		if m.screen == screenDiff {
			d := m.tree.Diff(m.diffID)
			r1, r2 := d.Pair()
			fetches := d.SetPair(r2, r1)
			m.refresh()
			return m, m.fetch(fetches)
		}

	case key.Matches(msg, keys.Back):
		m.back()
	}
	return m, nil
}

func (m *model) toggle() []view.Fetch {
	if len(m.lines) == 0 {
		return nil
	}

	if m.screen == screenRoots {
		if m.err != nil || m.cursor >= len(m.roots) {
			return nil
		}
		picked := m.roots[m.cursor]
		if m.marked != "" && m.marked != picked {
			r1 := m.marked
			m.marked = ""
			return m.openDiff(r1, picked)
		}
		m.marked = ""
		return m.openRoot(picked)
	}

	id := m.lines[m.cursor].Node
	if id == view.NoNode {
		return nil
	}
	fetches := m.tree.Toggle(id)
	m.refresh()
	return fetches
}

// markForDiff remembers the first side of a diff; the next root opened
// becomes the second side
func (m *model) markForDiff() {
	switch m.screen {
	case screenRoots:
		if m.cursor >= len(m.roots) {
			return
		}
		if m.marked == m.roots[m.cursor] {
			m.marked = ""
		} else {
			m.marked = m.roots[m.cursor]
		}
	case screenTree:
		m.marked = m.root
		m.back()
		return
	}
	m.refresh()
}

func (m *model) openRoot(root string) []view.Fetch {
	m.closeRoot()
	id, fetches := m.tree.NewDir(root, models.Path{}, false)
	m.root = root
	m.current = id
	m.screen = screenTree
	m.cursor, m.offset = 0, 0
	m.refresh()
	return fetches
}

// closeRoot destroys the open tree; results still in flight for it are
// discarded when they arrive
func (m *model) closeRoot() {
	if m.current != view.NoNode {
		m.tree.Destroy(m.current)
		m.current = view.NoNode
	}
	m.root = ""
}

func (m *model) openDiff(root1, root2 string) []view.Fetch {
	m.closeRoot()
	if m.diffID == view.NoNode {
		m.diffID = m.tree.NewDiff()
	}
	fetches := m.tree.Diff(m.diffID).SetPair(root1, root2)
	m.screen = screenDiff
	m.cursor, m.offset = 0, 0
	m.refresh()
	return fetches
}

func (m *model) back() {
	if m.screen == screenRoots {
		m.marked = ""
		m.refresh()
		return
	}
	m.closeRoot()
	m.screen = screenRoots
	m.cursor, m.offset = 0, 0
	m.refresh()
}

func (m *model) move(delta int) {
	m.cursor += delta
	m.clamp()
	m.scroll()
}

func (m *model) clamp() {
	if m.cursor >= len(m.lines) {
		m.cursor = len(m.lines) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// scroll keeps the cursor inside the visible window
func (m *model) scroll() {
	h := m.bodyHeight()
	if h <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m model) bodyHeight() int {
	if m.height == 0 {
		return 0
	}
	reserved := 4
	if m.showHelp {
		reserved += 3
	}
	if h := m.height - reserved; h > 1 {
		return h
	}
	return 1
}

// refresh rebuilds the visible lines from the current screen's state
func (m *model) refresh() {
	switch m.screen {
	case screenRoots:
		m.lines = m.lines[:0]
		for _, r := range m.roots {
			m.lines = append(m.lines, view.Line{Node: view.NoNode, Style: view.StyleHeader, Text: r})
		}
	case screenTree:
		m.lines = m.tree.Render(m.current)
		if d := m.tree.Dir(m.current); d != nil && d.Loaded() && len(m.lines) == 0 {
			m.lines = []view.Line{{Node: view.NoNode, Style: view.StyleEmpty, Text: "(empty root)"}}
		}
	case screenDiff:
		m.lines = m.tree.Render(m.diffID)
		if d := m.tree.Diff(m.diffID); d != nil && d.Loaded() && len(m.lines) == 0 {
			m.lines = []view.Line{{Node: view.NoNode, Style: view.StyleEmpty, Text: "No transaction changes"}}
		}
	}
	m.clamp()
	m.scroll()
}

func (m model) title() string {
	switch m.screen {
	case screenTree:
		return "lockview: " + m.root
	case screenDiff:
		r1, r2 := m.tree.Diff(m.diffID).Pair()
		return fmt.Sprintf("lockview: diff %s -> %s", r1, r2)
	default:
		return "lockview: roots"
	}
}

func (m model) status() string {
	switch m.screen {
	case screenRoots:
		switch {
		case m.err != nil:
			return "Error: " + m.err.Error()
		case m.roots == nil:
			return "Loading..."
		case len(m.roots) == 0:
			return "No roots found"
		case m.marked != "":
			return "diff " + m.marked + " against: pick a root"
		}
		return fmt.Sprintf("%d root(s)", len(m.roots))
	case screenDiff:
		d := m.tree.Diff(m.diffID)
		if !d.Loaded() || d.Err() != nil {
			return ""
		}
		s := d.Summary()
		status := fmt.Sprintf("%d added, %d deleted, %d changed", s.Added, s.Deleted, s.Changed)
		if s.Anomalies > 0 {
			status += fmt.Sprintf(", %d entries dropped", s.Anomalies)
		}
		return status
	}
	return ""
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n\n")

	end := len(m.lines)
	if h := m.bodyHeight(); h > 0 && m.offset+h < end {
		end = m.offset + h
	}
	for i := m.offset; i < end; i++ {
		l := m.lines[i]
		text := strings.Repeat("  ", l.Depth) + l.Text
		switch {
		case i == m.cursor:
			text = cursorStyle.Render(text)
		case m.screen == screenRoots && l.Text == m.marked:
			text = markedStyle.Render("● " + text)
		default:
			text = styleFor(l).Render(text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if s := m.status(); s != "" {
		b.WriteString(statusStyle.Render(s))
		b.WriteString("  ")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}
