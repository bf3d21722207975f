// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"strings"

	"github.com/pdiddy/litnote/internal/dates"
	"github.com/pdiddy/litnote/pkg/types"
)

// parseExtraFields parses Zotero's free-text Extra field: newline-delimited
// "Key: Value" pairs. Keys map through the known extra-field table (exact,
// then case-insensitive) and otherwise fall back to lowercase-with-hyphens.
// Date-ish keys re-run through date parsing.
func parseExtraFields(extra string) map[string]any {
	out := make(map[string]any)
	for _, line := range strings.Split(extra, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rawKey, rawValue, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key := resolveExtraKey(strings.TrimSpace(rawKey))
		if key == "" {
			continue
		}
		value := unquoteExtraValue(strings.TrimSpace(rawValue))
		if value == "" {
			continue
		}

		if strings.Contains(strings.ToLower(key), "date") {
			if p := dates.Parse(value); p != nil {
				if d := dates.ToCSLDate(p); d != nil {
					out[key] = d.AsMap()
					continue
				}
			}
		}
		out[key] = value
	}
	return out
}

func resolveExtraKey(key string) string {
	if key == "" {
		return ""
	}
	if mapped, ok := extraFieldToCSL[key]; ok {
		return mapped
	}
	for known, mapped := range extraFieldToCSL {
		if strings.EqualFold(known, key) {
			return mapped
		}
	}
	return strings.ReplaceAll(strings.ToLower(key), " ", "-")
}

// unquoteExtraValue strips one level of surrounding quotes and restores
// escaped newlines.
func unquoteExtraValue(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	return strings.ReplaceAll(v, `\n`, "\n")
}

// mergeExtraFields merges parsed extra fields into the record. The id and
// type fields are protected from silent override.
func mergeExtraFields(rec types.Record, extra map[string]any) {
	for key, value := range extra {
		if key == "id" || key == "type" {
			continue
		}
		rec[key] = value
	}
}
