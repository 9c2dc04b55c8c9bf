package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EntryKind is the kind of a directory entry as reported by the archive
type EntryKind string

const (
	KindDir  EntryKind = "dir"
	KindFile EntryKind = "file"
)

// DirEntry is one named entry of a directory listing
type DirEntry struct {
	Name string    `json:"name"`
	Kind EntryKind `json:"kind"`
	Hash string    `json:"hash,omitempty"`
}

// Listing is a directory listing in the order the server returned it
type Listing []DirEntry

// Names returns the entry names in listing order
func (l Listing) Names() []string {
	names := make([]string, len(l))
	for i, e := range l {
		names[i] = e.Name
	}
	return names
}

// UnmarshalJSON decodes a JSON object of name -> {kind, hash} keeping key order
func (l *Listing) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = Listing{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("listing: expected object, got %v", tok)
	}

	out := Listing{}
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("listing: expected entry name, got %v", tok)
		}
		var body struct {
			Kind EntryKind `json:"kind"`
			Hash string    `json:"hash"`
		}
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("listing: entry %q: %w", name, err)
		}
		if seen[name] {
			return fmt.Errorf("listing: duplicate entry %q", name)
		}
		seen[name] = true
		out = append(out, DirEntry{Name: name, Kind: body.Kind, Hash: body.Hash})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// MarshalJSON writes the listing back as an ordered JSON object
func (l Listing) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(struct {
			Kind EntryKind `json:"kind"`
			Hash string    `json:"hash,omitempty"`
		}{e.Kind, e.Hash})
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
