package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pdiddy/litnote/internal/lookup"
	"github.com/pdiddy/litnote/pkg/types"
)

// readItems decodes a JSON input into a list of item maps. The input may
// be a single object, an array of objects, or a Zotero export wrapper
// ({"items": [...]}). "-" reads stdin.
func readItems(path string) ([]map[string]any, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing JSON from %s: %w", path, err)
	}
	return itemsFromJSON(raw, path)
}

func itemsFromJSON(raw any, path string) ([]map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		if items, ok := v["items"].([]any); ok {
			return itemList(items, path)
		}
		return []map[string]any{v}, nil
	case []any:
		return itemList(v, path)
	default:
		return nil, fmt.Errorf("%s: expected a JSON object or array", path)
	}
}

func itemList(items []any, path string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for i, entry := range items {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: element %d is not an object", path, i)
		}
		out = append(out, m)
	}
	return out, nil
}

// isZoteroItem reports whether an item map looks like Zotero JSON rather
// than CSL-JSON.
func isZoteroItem(m map[string]any) bool {
	_, ok := m["itemType"]
	return ok
}

// resolveInputs turns CLI args into item maps. Args naming existing files
// (or "-") are decoded as JSON; everything else is treated as an
// identifier and fetched from the metadata endpoints.
func resolveInputs(ctx context.Context, args []string, cfg types.LookupConfig) ([]map[string]any, error) {
	var client *lookup.Client

	var out []map[string]any
	for _, arg := range args {
		if arg == "-" || fileExists(arg) {
			items, err := readItems(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
			continue
		}

		if client == nil {
			client = lookup.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg)
		}
		rec, err := client.Fetch(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", arg, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
