package models

import (
	"strings"
	"testing"
)

func TestArtifact(t *testing.T) {
	hash := HashPrefix + strings.Repeat("a", 64)

	tests := []struct {
		role Role
		part Part
		want string
	}{
		{RoleReq, PartHead, hash + "-req-head"},
		{RoleResp, PartHead, hash + "-resp-head"},
		{RoleReq, PartBody, hash + "-req-body"},
		{RoleResp, PartBody, hash + "-resp-body"},
	}

	for _, tt := range tests {
		if got := Artifact(hash, tt.role, tt.part); got != tt.want {
			t.Errorf("Artifact(%s, %s) = %s, want %s", tt.role, tt.part, got, tt.want)
		}
	}
}

func TestMatchReqHead(t *testing.T) {
	lower := HashPrefix + strings.Repeat("ab", 32)
	mixed := HashPrefix + strings.Repeat("aF09", 16)

	tests := []struct {
		name     string
		input    string
		wantHash string
		wantOK   bool
	}{
		{"lowercase hex", lower + "-req-head", lower, true},
		{"mixed case hex", mixed + "-req-head", mixed, true},
		{"response head", lower + "-resp-head", "", false},
		{"request body", lower + "-req-body", "", false},
		{"short hash", HashPrefix + strings.Repeat("a", 63) + "-req-head", "", false},
		{"long hash", HashPrefix + strings.Repeat("a", 65) + "-req-head", "", false},
		{"non hex", HashPrefix + strings.Repeat("g", 64) + "-req-head", "", false},
		{"wrong algorithm", "sha512:" + strings.Repeat("a", 64) + "-req-head", "", false},
		{"prefixed", "x" + lower + "-req-head", "", false},
		{"plain file", "notes.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, ok := MatchReqHead(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if hash != tt.wantHash {
				t.Errorf("expected hash %q, got %q", tt.wantHash, hash)
			}
			if ok && !ValidHash(hash) {
				t.Errorf("captured hash %q is not valid", hash)
			}
		})
	}
}

func TestMatchRespHead(t *testing.T) {
	hash := HashPrefix + strings.Repeat("0", 64)

	if got, ok := MatchRespHead(hash + "-resp-head"); !ok || got != hash {
		t.Errorf("expected %s, got %q (ok=%v)", hash, got, ok)
	}
	if _, ok := MatchRespHead(hash + "-req-head"); ok {
		t.Error("request head should not match response pattern")
	}
}

func TestPathChild(t *testing.T) {
	parent := make(Path, 1, 4)
	parent[0] = "a"

	c1 := parent.Child("b")
	c2 := parent.Child("c")

	if c1.String() != "a/b" {
		t.Errorf("expected a/b, got %s", c1.String())
	}
	if c2.String() != "a/c" {
		t.Errorf("expected a/c, got %s", c2.String())
	}
	if len(parent) != 1 {
		t.Errorf("parent modified: %v", parent)
	}
	if c1.Name() != "b" {
		t.Errorf("expected name b, got %s", c1.Name())
	}
	if (Path{}).Name() != "" {
		t.Error("root path should have an empty name")
	}
}
