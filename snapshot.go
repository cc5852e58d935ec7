package pagesnap

import (
	"encoding/json"
	"io"
)

// EncodeSnapshot writes s as an indented JSON array followed by a newline.
// Non-ASCII and HTML characters are written verbatim, a nil snapshot is
// written as an empty array, and a page without chunks gets an empty
// chunks array.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	out := make(Snapshot, len(s))
	for i, p := range s {
		if p.Chunks == nil {
			p.Chunks = []Chunk{}
		}
		out[i] = p
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, Errorf(EPARSE, "invalid snapshot: %v", err)
	}
	return s, nil
}
