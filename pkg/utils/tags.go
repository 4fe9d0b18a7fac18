package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NormalizeTags turns loosely typed tag input into a canonical, ordered set.
//
// raw may be nil, a list ([]any, []string), a string holding a JSON document or a
// comma separated list, or any other scalar. Elements are stringified, trimmed and
// lowercased; empty elements are dropped and duplicates keep their first position.
// Input that cannot be interpreted yields an empty set instead of an error.
func NormalizeTags(raw any) (tags []string) {
	defer func() {
		if r := recover(); r != nil {
			tags = []string{}
		}
	}()

	var items []any
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		items = parseTagString(v)
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		return []string{}
	}

	tags = make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		tag := NormalizeTag(stringify(item))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

// NormalizeTag applies the per-element tag transform to a single value.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func parseTagString(s string) []any {
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return splitTags(s)
	}

	switch v := parsed.(type) {
	case []any:
		return v
	case string:
		return splitTags(v)
	default:
		return []any{stringify(v)}
	}
}

func splitTags(s string) []any {
	parts := strings.Split(s, ",")
	items := make([]any, len(parts))
	for i, p := range parts {
		items[i] = p
	}
	return items
}

// stringify renders a decoded JSON value the way a loosely typed client would
// display it: numbers without exponent noise, nested lists joined by commas.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = stringify(e)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(t)
	}
}
