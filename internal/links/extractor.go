// internal/links/extractor.go
package links

import (
	"fmt"
	"strings"
)

// DefaultExplicitLabel is used for structured link entries without a label.
const DefaultExplicitLabel = "View Link"

// ExtractExplicit converts the payload's structured "links" list into Links.
// Entries that are not records, or that have no usable url, are dropped.
// Duplicates are kept; deduplication happens in the Builder.
func ExtractExplicit(p Payload) []Link {
	entries := rawEntries(p[FieldLinks])
	if len(entries) == 0 {
		return nil
	}

	out := make([]Link, 0, len(entries))
	for i, entry := range entries {
		rec, ok := asRecord(entry)
		if !ok {
			continue
		}

		url, ok := rec.String("url")
		if !ok {
			continue
		}
		label, ok := rec.String("label")
		if !ok {
			label = DefaultExplicitLabel
		}
		key, ok := rec.String("key")
		if !ok {
			key = fmt.Sprintf("links_%d", i)
		}
		kind, _ := rec.String("kind")

		out = append(out, Link{
			Key:   key,
			URL:   url,
			Label: label,
			Kind:  strings.ToLower(kind),
		})
	}
	return out
}

// rawEntries accepts both decoded JSON ([]interface{}) and programmatic
// ([]map[string]interface{}) link lists.
func rawEntries(v interface{}) []interface{} {
	switch list := v.(type) {
	case []interface{}:
		return list
	case []map[string]interface{}:
		out := make([]interface{}, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out
	case []Payload:
		out := make([]interface{}, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out
	}
	return nil
}

func asRecord(v interface{}) (Payload, bool) {
	switch rec := v.(type) {
	case map[string]interface{}:
		return Payload(rec), true
	case Payload:
		return rec, true
	}
	return nil, false
}
