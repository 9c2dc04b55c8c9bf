package models

// Diff actions reported by the archive
const (
	ActionAdded   = "added"
	ActionDeleted = "deleted"
	ActionChanged = "changed"
)

// DiffEntry describes one artifact that differs between two roots
type DiffEntry struct {
	Action string   `json:"action"`
	Path   []string `json:"path"`
	Hash1  string   `json:"hash1,omitempty"`
	Hash2  string   `json:"hash2,omitempty"`
}

// DiffReport is the archive's answer to a diff request
type DiffReport struct {
	R1      string      `json:"r1"`
	R2      string      `json:"r2"`
	Entries []DiffEntry `json:"entries"`
}
