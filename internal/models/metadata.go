package models

import "encoding/json"

// HeadMetadata represents the JSON document stored in a *-head artifact
type HeadMetadata struct {
	StatusCode int                 `json:"StatusCode,omitempty"`
	ContentLen int64               `json:"ContentLen"`
	Headers    map[string][]string `json:"Headers,omitempty"`

	// Extra holds any fields the archive adds beyond the ones above
	Extra map[string]json.RawMessage `json:"-"`
}

// ContentType returns the first Content-Type value, or ""
func (m HeadMetadata) ContentType() string {
	if vv := m.Headers["Content-Type"]; len(vv) > 0 {
		return vv[0]
	}
	return ""
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra
func (m *HeadMetadata) UnmarshalJSON(b []byte) error {
	type plain HeadMetadata
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	delete(all, "StatusCode")
	delete(all, "ContentLen")
	delete(all, "Headers")
	if len(all) > 0 {
		p.Extra = all
	}
	*m = HeadMetadata(p)
	return nil
}

// MarshalJSON writes the known fields followed by Extra
func (m HeadMetadata) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"ContentLen": m.ContentLen,
	}
	if m.StatusCode != 0 {
		out["StatusCode"] = m.StatusCode
	}
	if m.Headers != nil {
		out["Headers"] = m.Headers
	}
	for k, v := range m.Extra {
		out[k] = v
	}
	return json.Marshal(out)
}

// Equal reports whether two metadata documents describe the same head
func (m *HeadMetadata) Equal(o *HeadMetadata) bool {
	if m == nil || o == nil {
		return m == o
	}
	a, errA := json.Marshal(m)
	b, errB := json.Marshal(o)
	return errA == nil && errB == nil && string(a) == string(b)
}
