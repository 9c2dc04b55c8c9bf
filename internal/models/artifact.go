package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Role identifies which side of a transaction an artifact belongs to
type Role string

const (
	RoleReq  Role = "req"
	RoleResp Role = "resp"
)

// Part identifies the head (metadata) or body (payload) of a role
type Part string

const (
	PartHead Part = "head"
	PartBody Part = "body"
)

// HashPrefix is the algorithm prefix of every transaction hash
const HashPrefix = "sha256:"

var (
	hashPattern = regexp.MustCompile(`^sha256:[0-9a-fA-F]{64}$`)

	// ReqHeadPattern matches request-head artifact names and captures the hash
	ReqHeadPattern = regexp.MustCompile(`^(sha256:[0-9a-fA-F]{64})-req-head$`)
	// RespHeadPattern matches response-head artifact names and captures the hash
	RespHeadPattern = regexp.MustCompile(`^(sha256:[0-9a-fA-F]{64})-resp-head$`)
)

// ValidHash reports whether s is a well formed transaction hash
func ValidHash(s string) bool {
	return hashPattern.MatchString(s)
}

// Artifact generates the artifact file name for a transaction
// Format: <hash>-<role>-<part>
func Artifact(hash string, role Role, part Part) string {
	return fmt.Sprintf("%s-%s-%s", hash, role, part)
}

// MatchReqHead returns the transaction hash if name is a request-head artifact
func MatchReqHead(name string) (string, bool) {
	return match(ReqHeadPattern, name)
}

// MatchRespHead returns the transaction hash if name is a response-head artifact
func MatchRespHead(name string) (string, bool) {
	return match(RespHeadPattern, name)
}

func match(re *regexp.Regexp, name string) (string, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Path locates a position within a root's tree; the root itself is empty
type Path []string

// Child returns a new path with name appended, never sharing storage with p
func (p Path) Child(name string) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, name)
}

// Name returns the last segment, or "" for the root path
func (p Path) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Clone returns a copy of p
func (p Path) Clone() Path {
	if p == nil {
		return Path{}
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// String joins the segments with "/"
func (p Path) String() string {
	return strings.Join(p, "/")
}
