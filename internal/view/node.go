// Package view holds the node state machines behind the inspector: lazily
// loaded directories, transactions, bodies and root diffs. Nodes never do I/O
// themselves. Every state change that needs data returns the fetches to run,
// and results come back through Tree.Apply on the caller's goroutine.
package view

import (
	"github.com/google/uuid"

	"github.com/pders01/lockview/internal/models"
)

// NodeID addresses a node in its Tree. IDs are never reused.
type NodeID int

// NoNode is the zero reference
const NoNode NodeID = -1

// Kind tags the closed set of node variants
type Kind int

const (
	KindDir Kind = iota
	KindTransaction
	KindBody
	KindDiff
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindTransaction:
		return "transaction"
	case KindBody:
		return "body"
	case KindDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// Token marks one lifetime of a node. Results carrying a token that is no
// longer current are discarded.
type Token uuid.UUID

func newToken() Token {
	return Token(uuid.New())
}

func (t Token) String() string {
	return uuid.UUID(t).String()
}

// Node is implemented by DirNode, TransactionNode, BodyNode and DiffNode only.
type Node interface {
	ID() NodeID
	Kind() Kind
	Parent() NodeID
	// Toggle flips the node's expansion where that applies and returns the
	// fetches the new state needs
	Toggle() []Fetch
	// Load returns the fetches needed to populate the node, or nil if it is
	// loaded, loading, or failed
	Load() []Fetch

	token() Token
	apply(Result) []Fetch
	children() []NodeID
}

type base struct {
	tree     *Tree
	id       NodeID
	parent   NodeID
	tok      Token
	root     string
	path     models.Path
	expanded bool
	err      error
}

func (t *Tree) newBase(parent NodeID, root string, path models.Path) base {
	return base{
		tree:   t,
		id:     NoNode,
		parent: parent,
		tok:    newToken(),
		root:   root,
		path:   path.Clone(),
	}
}

func (b *base) ID() NodeID     { return b.id }
func (b *base) Parent() NodeID { return b.parent }
func (b *base) token() Token   { return b.tok }

// Root returns the root identifier the node reads from
func (b *base) Root() string { return b.root }

// Path returns a copy of the node's directory path
func (b *base) Path() models.Path { return b.path.Clone() }

// Expanded reports whether the node is expanded
func (b *base) Expanded() bool { return b.expanded }

// Err returns the error that replaced the node's content, if any
func (b *base) Err() error { return b.err }
