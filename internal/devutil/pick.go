package devutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pick round-trips v through JSON and keeps only the requested keys.
// Handy for printing a few fields of a post or entry while debugging.
func Pick(v any, keys ...string) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := m[k]; ok {
			out[k] = val
		}
	}
	return out
}

// Line renders Pick's result as "k=v" pairs in key order; missing keys are skipped.
func Line(v any, keys ...string) string {
	m := Pick(v, keys...)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if val, ok := m[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", k, val))
		}
	}
	return strings.Join(parts, " ")
}
