// Package serializer converts models into response payloads with per-call
// field selection, and populates audit fields from an explicitly supplied
// actor.
package serializer

import (
	"encoding/json"
	"fmt"
)

// Options controls which fields appear in the serialized output. When Fields
// is non-empty it acts as an allow list; Exclude is then applied on top as a
// deny list. Field names refer to the JSON keys of the value.
type Options struct {
	Fields  []string
	Exclude []string
}

// Serialize renders v as a map keyed by its JSON field names, pruned
// according to opts. Only top-level keys are filtered; nested structures are
// carried through untouched.
func Serialize(v any, opts Options) (map[string]any, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("serialize: value is not an object: %w", err)
	}

	return prune(m, opts), nil
}

// SerializeSlice renders each element of vs with the same options.
func SerializeSlice[T any](vs []T, opts Options) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(vs))
	for i := range vs {
		m, err := Serialize(vs[i], opts)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// prune applies the allow list then the deny list to the top-level keys of m.
func prune(m map[string]any, opts Options) map[string]any {
	if len(opts.Fields) > 0 {
		allowed := make(map[string]bool, len(opts.Fields))
		for _, f := range opts.Fields {
			allowed[f] = true
		}
		for key := range m {
			if !allowed[key] {
				delete(m, key)
			}
		}
	}
	for _, f := range opts.Exclude {
		delete(m, f)
	}
	return m
}
