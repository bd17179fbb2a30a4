package repository

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Document is a loosely typed record as stored in a collection.
type Document map[string]any

// Snapshot pairs a document with its id inside the collection.
type Snapshot struct {
	ID   string
	Data Document
}

// ToDocument converts a JSON-tagged struct (or map) into a Document.
func ToDocument(v any) (Document, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	doc := Document{}
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// Decode fills out from the document.
func (d Document) Decode(out any) error {
	buf, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Merge layers src over dst. Nested maps are merged key by key, every other
// value in src replaces the one in dst. dst is not modified.
func Merge(dst, src Document) Document {
	out := make(Document, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcIsMap := asMap(v)
		dstMap, dstIsMap := asMap(out[k])
		if srcIsMap && dstIsMap {
			out[k] = map[string]any(Merge(dstMap, srcMap))
			continue
		}
		out[k] = v
	}
	return out
}

func asMap(v any) (Document, bool) {
	switch m := v.(type) {
	case map[string]any:
		return Document(m), true
	case Document:
		return m, true
	}
	return nil, false
}

// matches compares a stored field with a query value after normalising both
// through JSON, so 3 and 3.0 or typed strings compare equal.
func matches(field any, value any) bool {
	a, errA := normalize(field)
	b, errB := normalize(value)
	if errA != nil || errB != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func normalize(v any) (any, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, err
	}
	return out, nil
}
