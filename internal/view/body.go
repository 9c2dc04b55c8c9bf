package view

import (
	"strings"

	"github.com/pders01/lockview/internal/models"
)

// Class is how a body is presented
type Class int

const (
	// ClassEmpty bodies have no content and are never fetched
	ClassEmpty Class = iota
	// ClassDisplayable bodies are fetched once and shown inline
	ClassDisplayable
	// ClassNotDisplayable bodies are only offered as a download link
	ClassNotDisplayable
)

func (c Class) String() string {
	switch c {
	case ClassEmpty:
		return "empty"
	case ClassDisplayable:
		return "displayable"
	case ClassNotDisplayable:
		return "not-displayable"
	default:
		return "unknown"
	}
}

// DefaultInlineLimit is the largest body, in bytes, shown inline
const DefaultInlineLimit = 100000

// DefaultPolicy is the content policy used when none is configured
var DefaultPolicy = Policy{InlineLimit: DefaultInlineLimit}

var inlineTypes = map[string]bool{
	"application/http": true,
	"application/json": true,
	"application/xml":  true,
}

// Policy decides which bodies are rendered inline
type Policy struct {
	InlineLimit int64
}

// Classify decides how a body described by meta is presented. Only the first
// Content-Type value is considered and it must match exactly.
func (p Policy) Classify(meta models.HeadMetadata) Class {
	if meta.ContentLen == 0 {
		return ClassEmpty
	}
	ct := meta.ContentType()
	inline := strings.HasPrefix(ct, "text/") || inlineTypes[ct]
	if inline && meta.ContentLen <= p.InlineLimit {
		return ClassDisplayable
	}
	return ClassNotDisplayable
}

// Classify applies DefaultPolicy
func Classify(meta models.HeadMetadata) Class {
	return DefaultPolicy.Classify(meta)
}

// BodyNode presents one request or response body of a transaction
type BodyNode struct {
	base
	hash    string
	role    models.Role
	meta    models.HeadMetadata
	class   Class
	loaded  bool
	pending bool
	content string
}

func (t *Tree) newBody(parent NodeID, root string, path models.Path, hash string, role models.Role, meta models.HeadMetadata) NodeID {
	b := &BodyNode{
		base: t.newBase(parent, root, path),
		hash: hash,
		role: role,
		meta: meta,
	}
	b.class = t.policy.Classify(meta)
	return t.add(b, func(id NodeID) { b.id = id })
}

func (b *BodyNode) Kind() Kind { return KindBody }

func (b *BodyNode) children() []NodeID { return nil }

// Role returns req or resp
func (b *BodyNode) Role() models.Role { return b.role }

// Class returns the current classification
func (b *BodyNode) Class() Class { return b.class }

// Meta returns the head metadata the classification is based on
func (b *BodyNode) Meta() models.HeadMetadata { return b.meta }

// Loaded reports whether inline content has arrived
func (b *BodyNode) Loaded() bool { return b.loaded }

// Content returns the inline content, "" until loaded
func (b *BodyNode) Content() string { return b.content }

// Artifact returns the name of the body artifact
func (b *BodyNode) Artifact() string {
	return models.Artifact(b.hash, b.role, models.PartBody)
}

// DownloadURL returns where the full artifact can be retrieved. Response
// bodies point at the recorded response, request bodies at the raw artifact.
func (b *BodyNode) DownloadURL() string {
	if b.tree.links == nil {
		return ""
	}
	if b.role == models.RoleResp {
		return b.tree.links.ResponseURL(b.root, b.path, b.hash)
	}
	return b.tree.links.FileURL(b.root, b.path, b.Artifact(), b.meta.ContentType())
}

// Toggle on a body is the same as Load
func (b *BodyNode) Toggle() []Fetch {
	return b.Load()
}

// Load requests inline content once, for displayable bodies only
func (b *BodyNode) Load() []Fetch {
	if b.class != ClassDisplayable || b.loaded || b.pending || b.err != nil {
		return nil
	}
	b.pending = true
	return []Fetch{{
		Node:        b.id,
		Token:       b.tok,
		Op:          OpBody,
		Root:        b.root,
		Path:        b.path.Clone(),
		Artifact:    b.Artifact(),
		Role:        b.role,
		ContentType: b.meta.ContentType(),
	}}
}

func (b *BodyNode) apply(r Result) []Fetch {
	b.pending = false
	if r.Err != nil {
		b.err = r.Err
		return nil
	}
	b.content = r.Text
	b.loaded = true
	return nil
}
