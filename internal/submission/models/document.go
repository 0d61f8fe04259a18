package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document is the generic JSON form of a submission. Page fields, merge
// patches and invalidation rules address it with dotted paths such as
// "applications.0.species.kingdom".
type Document = map[string]any

// ToDocument converts a submission into its generic document form.
func ToDocument(s *Submission) (Document, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal submission document: %w", err)
	}
	return doc, nil
}

// FromDocument decodes a document back into a typed submission.
func FromDocument(doc Document) (*Submission, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal submission document: %w", err)
	}
	var s Submission
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode submission document: %w", err)
	}
	return &s, nil
}

// JoinPath joins path segments, skipping empty ones.
func JoinPath(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

// ApplicationPath prefixes an application-relative field path.
func ApplicationPath(applicationIndex int, field string) string {
	return JoinPath("applications", strconv.Itoa(applicationIndex), field)
}

// Lookup returns the value at path. Numeric segments index into arrays.
func Lookup(doc Document, path string) (any, bool) {
	var cur any = doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// HasValue reports whether path holds a populated value. Null, empty strings,
// empty arrays and empty objects count as unpopulated.
func HasValue(doc Document, path string) bool {
	v, ok := Lookup(doc, path)
	if !ok {
		return false
	}
	return populated(v)
}

func populated(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		for _, inner := range t {
			if populated(inner) {
				return true
			}
		}
		return false
	}
	return true
}

// Delete removes the value at path. It reports whether anything populated
// was removed. Missing intermediate nodes are not created.
func Delete(doc Document, path string) bool {
	segs := strings.Split(path, ".")
	var parent any = doc
	if len(segs) > 1 {
		p, ok := Lookup(doc, strings.Join(segs[:len(segs)-1], "."))
		if !ok {
			return false
		}
		parent = p
	}
	m, isMap := parent.(map[string]any)
	if !isMap {
		return false
	}
	last := segs[len(segs)-1]
	v, exists := m[last]
	if !exists {
		return false
	}
	delete(m, last)
	return populated(v)
}

// Set writes value at path, creating intermediate objects. Array segments must
// already exist.
func Set(doc Document, path string, value any) error {
	segs := strings.Split(path, ".")
	var cur any = doc
	for i, seg := range segs {
		last := i == len(segs)-1
		switch node := cur.(type) {
		case map[string]any:
			if last {
				node[seg] = value
				return nil
			}
			next, ok := node[seg]
			if !ok || next == nil {
				next = map[string]any{}
				node[seg] = next
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return fmt.Errorf("set %s: index %q out of range", path, seg)
			}
			if last {
				node[idx] = value
				return nil
			}
			cur = node[idx]
		default:
			return fmt.Errorf("set %s: segment %q is not a container", path, seg)
		}
	}
	return nil
}

// Nest turns a flat {"a.b": v} map into {"a": {"b": v}}.
func Nest(flat map[string]any) (Document, error) {
	out := Document{}
	for path, v := range flat {
		if err := Set(out, path, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
